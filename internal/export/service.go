package export

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/rentbook/internal/property"
)

type PropertyLister interface {
	List(ctx context.Context) ([]*property.Property, error)
}

// Item links an archived property to the files written for it.
type Item struct {
	Property      *property.Property
	StatementPath string
	ContractPath  string
}

// Service writes per-property archives: the account statement and a copy
// of the signed contract.
type Service struct {
	properties PropertyLister
	client     *http.Client
}

func NewService(properties PropertyLister) *Service {
	return &Service{
		properties: properties,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Archive writes every property's statement as of asOf to outputDir and
// downloads its contract when one is attached.
func (s *Service) Archive(ctx context.Context, asOf time.Time, outputDir string) ([]Item, error) {
	props, err := s.properties.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(props))
	names := make(fileNames)

	for _, p := range props {
		item := Item{Property: p}

		path, err := writeStatement(p, asOf, outputDir, names)
		if err != nil {
			return nil, fmt.Errorf("writing statement for property %s: %w", p.ID, err)
		}

		item.StatementPath = path

		if p.Contract != nil && p.Contract.URL != "" {
			path, err := s.downloadContract(ctx, p, outputDir, names)
			if err != nil {
				return nil, fmt.Errorf("downloading contract for property %s: %w", p.ID, err)
			}

			item.ContractPath = path
		}

		items = append(items, item)
	}

	return items, nil
}

func writeStatement(p *property.Property, asOf time.Time, dir string, names fileNames) (string, error) {
	path := filepath.Join(dir, names.claim(StatementFilename(p.Address, asOf)))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := StatementCSV(f, p.Statement(asOf)); err != nil {
		return "", err
	}

	return path, nil
}

// StatementFilename names the account statement of the property at address.
func StatementFilename(address string, asOf time.Time) string {
	return fmt.Sprintf("%s_cuenta_%s.csv", safeName(address), asOf.Format("20060102"))
}

func (s *Service) downloadContract(ctx context.Context, p *property.Property, dir string, names fileNames) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Contract.URL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode, p.Contract.URL)
	}

	path := filepath.Join(dir, names.claim(contractFilename(resp, p)))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

// contractFilename prefers the stored contract name, then the server's
// Content-Disposition, then one derived from the address.
func contractFilename(resp *http.Response, p *property.Property) string {
	if name := strings.TrimSpace(p.Contract.Name); name != "" {
		return strings.ReplaceAll(filepath.Base(name), " ", "_")
	}

	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				return strings.ReplaceAll(filepath.Base(filename), " ", "_")
			}
		}
	}

	ext := ".pdf"

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
			ext = exts[0]
		}
	}

	return fmt.Sprintf("%s_contrato%s", safeName(p.Address), ext)
}

// fileNames tracks the names written by one archive run so that two
// properties never share a file.
type fileNames map[string]struct{}

// claim returns name, or name with a _2, _3... suffix before its extension
// when an earlier property already took it.
func (n fileNames) claim(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name

	for i := 2; ; i++ {
		if _, taken := n[strings.ToLower(candidate)]; !taken {
			break
		}

		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}

	n[strings.ToLower(candidate)] = struct{}{}

	return candidate
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, s)
}
