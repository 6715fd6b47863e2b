package indec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	enc "github.com/MrJamesThe3rd/rentbook/internal/encoding"
	"github.com/MrJamesThe3rd/rentbook/internal/inflation"
)

// Parser reads monthly inflation CSV exports and produces inflation records.
// It auto-detects the delimiter and the column layout by matching headers
// against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// delimiters are tried in order. Semicolons come first because exports
// with European decimals cannot use a bare comma.
var delimiters = []rune{';', ',', '\t'}

func (p *Parser) Parse(r io.Reader) ([]inflation.Record, error) {
	decoded, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, comma := range delimiters {
		rows, err := readRows(data, comma)
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		slog.Debug("parsing inflation export",
			"profile", profile.Name, "charset", decoded.Charset, "delimiter", string(comma))

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
	}

	return nil, fmt.Errorf("no matching inflation format found: expected a period and a monthly rate column")
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps normalized column names to their index in the row.
type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := normalizeHeader(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols.find(name); !ok {
			return false
		}
	}

	return true
}

// find returns the column named name, or failing that the first column
// whose name starts with it, so "Variación mensual (%)" matches
// "variacion mensual".
func (c colIndex) find(name string) (int, bool) {
	if idx, ok := c[name]; ok {
		return idx, true
	}

	best := -1

	for col, idx := range c {
		if strings.HasPrefix(col, name) && (best == -1 || idx < best) {
			best = idx
		}
	}

	return best, best != -1
}

// parseRows extracts records from data rows. Rows without a recognizable
// period (notes, footers) and rows with an empty rate are skipped.
// headerIdx is the 0-based index of the header row, for error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerIdx int) ([]inflation.Record, error) {
	periodIdx, _ := cols.find(p.PeriodCol)
	rateIdx, _ := cols.find(p.RateCol)

	var records []inflation.Record

	for i, row := range rows {
		rowNum := headerIdx + i + 2 // 1-based, skipping header

		month, err := parsePeriod(cellValue(row, periodIdx))
		if err != nil {
			continue
		}

		raw := cellValue(row, rateIdx)
		if raw == "" || raw == "-" {
			continue
		}

		rate, err := parseRate(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid rate %q", rowNum, raw)
		}

		records = append(records, inflation.Record{Month: month, Rate: rate})
	}

	return records, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// normalizeHeader lowercases s, strips accents and collapses whitespace.
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(fold(s))), " ")
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return out
}
