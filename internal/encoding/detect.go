package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

const (
	CharsetUTF8        = "UTF-8"
	CharsetUTF16LE     = "UTF-16LE"
	CharsetUTF16BE     = "UTF-16BE"
	CharsetWindows1252 = "windows-1252"
	CharsetISO88591    = "ISO-8859-1"
	CharsetISO885915   = "ISO-8859-15"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decoded is an input converted to UTF-8 along with the charset it was
// detected as.
type Decoded struct {
	io.Reader
	Charset string
}

// Decode detects the charset of r and returns a reader producing UTF-8.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped, UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 is passed through
//  3. chardet heuristics for the Latin charsets spreadsheet tools export
//  4. Windows-1252
func Decode(r io.Reader) (*Decoded, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return &Decoded{Reader: br, Charset: CharsetUTF8}, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decoded(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), CharsetUTF16LE), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decoded(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM), CharsetUTF16BE), nil
	}

	if validUTF8Prefix(buf) {
		return &Decoded{Reader: br, Charset: CharsetUTF8}, nil
	}

	result, detectErr := chardet.NewTextDetector().DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return &Decoded{Reader: br, Charset: CharsetUTF8}, nil
		case "ISO-8859-1":
			return decoded(br, charmap.ISO8859_1, CharsetISO88591), nil
		case "ISO-8859-15":
			return decoded(br, charmap.ISO8859_15, CharsetISO885915), nil
		}
	}

	return decoded(br, charmap.Windows1252, CharsetWindows1252), nil
}

func decoded(r io.Reader, e xencoding.Encoding, charset string) *Decoded {
	return &Decoded{Reader: transform.NewReader(r, e.NewDecoder()), Charset: charset}
}

// validUTF8Prefix reports whether buf is valid UTF-8, ignoring a multi-byte
// sequence cut off by the end of the sniffed window.
func validUTF8Prefix(buf []byte) bool {
	if utf8.Valid(buf) {
		return true
	}

	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		if !utf8.RuneStart(buf[len(buf)-i]) {
			continue
		}

		return utf8.Valid(buf[:len(buf)-i])
	}

	return false
}
