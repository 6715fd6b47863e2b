package inflation

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

const tableCacheKey = "table"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inflation
type Repository interface {
	ListRates(ctx context.Context) ([]Record, error)
	UpsertRates(ctx context.Context, records []Record) error
	DeleteRate(ctx context.Context, month ledger.YearMonth) error
}

type Service struct {
	repo  Repository
	cache *cache.Cache
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(30*time.Minute, time.Hour),
	}
}

// List returns every stored rate ordered by month.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	records, err := s.repo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rates: %w", err)
	}

	slices.SortFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Month, b.Month)
	})

	return records, nil
}

// Table returns the rates indexed by month. The result is cached until the
// next write and must not be modified by callers.
func (s *Service) Table(ctx context.Context) (ledger.InflationTable, error) {
	if cached, found := s.cache.Get(tableCacheKey); found {
		return cached.(ledger.InflationTable), nil
	}

	records, err := s.repo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rates: %w", err)
	}

	table := ToTable(records)
	s.cache.Set(tableCacheKey, table, cache.DefaultExpiration)

	return table, nil
}

// Save upserts the records with a non-zero rate and returns how many were
// written. A zero rate means the month has no data yet and is skipped.
func (s *Service) Save(ctx context.Context, records []Record) (int, error) {
	byMonth := make(map[ledger.YearMonth]Record, len(records))

	for _, r := range records {
		if _, err := ledger.ParseYearMonth(string(r.Month)); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}

		if r.Rate.IsZero() {
			continue
		}

		byMonth[r.Month] = r
	}

	if len(byMonth) == 0 {
		return 0, nil
	}

	months := slices.Sorted(maps.Keys(byMonth))
	toSave := make([]Record, 0, len(months))

	for _, m := range months {
		toSave = append(toSave, byMonth[m])
	}

	if err := s.repo.UpsertRates(ctx, toSave); err != nil {
		return 0, fmt.Errorf("saving rates: %w", err)
	}

	s.cache.Delete(tableCacheKey)

	return len(toSave), nil
}

type ImportResult struct {
	Saved   int
	Skipped int
}

// Import saves parsed records the same way Save does and reports how many
// rows were skipped.
func (s *Service) Import(ctx context.Context, records []Record) (ImportResult, error) {
	saved, err := s.Save(ctx, records)
	if err != nil {
		return ImportResult{}, err
	}

	return ImportResult{Saved: saved, Skipped: len(records) - saved}, nil
}

func (s *Service) Delete(ctx context.Context, month ledger.YearMonth) error {
	if err := s.repo.DeleteRate(ctx, month); err != nil {
		return err
	}

	s.cache.Delete(tableCacheKey)

	return nil
}
