package inflation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/rentbook/internal/inflation"
	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := inflation.NewMockRepository(ctrl)

	repo.EXPECT().ListRates(gomock.Any()).Return([]inflation.Record{
		{Month: "2024-03", Rate: dec("11")},
		{Month: "2023-12", Rate: dec("25.5")},
		{Month: "2024-01", Rate: dec("20.6")},
	}, nil)

	got, err := inflation.NewService(repo).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ledger.YearMonth("2023-12"), got[0].Month)
	assert.Equal(t, ledger.YearMonth("2024-03"), got[2].Month)
}

func TestService_Table_Cached(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := inflation.NewMockRepository(ctrl)
	svc := inflation.NewService(repo)

	repo.EXPECT().ListRates(gomock.Any()).Return([]inflation.Record{
		{Month: "2024-01", Rate: dec("20.6")},
	}, nil).Times(1)

	first, err := svc.Table(context.Background())
	require.NoError(t, err)
	assert.True(t, first["2024-01"].Equal(dec("20.6")))

	second, err := svc.Table(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_Save_InvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := inflation.NewMockRepository(ctrl)
	svc := inflation.NewService(repo)

	gomock.InOrder(
		repo.EXPECT().ListRates(gomock.Any()).Return([]inflation.Record{{Month: "2024-01", Rate: dec("20.6")}}, nil),
		repo.EXPECT().UpsertRates(gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().ListRates(gomock.Any()).Return([]inflation.Record{
			{Month: "2024-01", Rate: dec("20.6")},
			{Month: "2024-02", Rate: dec("13.2")},
		}, nil),
	)

	_, err := svc.Table(context.Background())
	require.NoError(t, err)

	n, err := svc.Save(context.Background(), []inflation.Record{{Month: "2024-02", Rate: dec("13.2")}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	table, err := svc.Table(context.Background())
	require.NoError(t, err)
	assert.Len(t, table, 2)
}

func TestService_Save(t *testing.T) {
	type testCase struct {
		name      string
		records   []inflation.Record
		setupMock func(m *inflation.MockRepository)
		want      int
		wantErr   error
	}

	tests := []testCase{
		{
			name: "SkipsZeroKeepsDeflation",
			records: []inflation.Record{
				{Month: "2024-05", Rate: dec("4.2")},
				{Month: "2024-06", Rate: decimal.Zero},
				{Month: "2024-04", Rate: dec("-0.3")},
			},
			setupMock: func(m *inflation.MockRepository) {
				m.EXPECT().
					UpsertRates(gomock.Any(), []inflation.Record{
						{Month: "2024-04", Rate: dec("-0.3")},
						{Month: "2024-05", Rate: dec("4.2")},
					}).
					Return(nil)
			},
			want: 2,
		},
		{
			name: "DuplicateMonthLastWins",
			records: []inflation.Record{
				{Month: "2024-05", Rate: dec("4")},
				{Month: "2024-05", Rate: dec("4.2")},
			},
			setupMock: func(m *inflation.MockRepository) {
				m.EXPECT().
					UpsertRates(gomock.Any(), []inflation.Record{{Month: "2024-05", Rate: dec("4.2")}}).
					Return(nil)
			},
			want: 1,
		},
		{
			name:    "AllZero",
			records: []inflation.Record{{Month: "2024-06", Rate: decimal.Zero}},
			want:    0,
		},
		{
			name:    "InvalidMonth",
			records: []inflation.Record{{Month: "2024-6", Rate: dec("1")}},
			wantErr: inflation.ErrInvalidRecord,
		},
		{
			name:    "RepoError",
			records: []inflation.Record{{Month: "2024-06", Rate: dec("1")}},
			setupMock: func(m *inflation.MockRepository) {
				m.EXPECT().UpsertRates(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := inflation.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := inflation.NewService(repo).Save(context.Background(), tt.records)

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, inflation.ErrInvalidRecord) {
					assert.ErrorIs(t, err, inflation.ErrInvalidRecord)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := inflation.NewMockRepository(ctrl)

	repo.EXPECT().UpsertRates(gomock.Any(), gomock.Any()).Return(nil)

	got, err := inflation.NewService(repo).Import(context.Background(), []inflation.Record{
		{Month: "2024-01", Rate: dec("20.6")},
		{Month: "2024-02", Rate: dec("13.2")},
		{Month: "2024-03", Rate: decimal.Zero},
	})
	require.NoError(t, err)
	assert.Equal(t, inflation.ImportResult{Saved: 2, Skipped: 1}, got)
}

func TestToTable(t *testing.T) {
	table := inflation.ToTable([]inflation.Record{
		{Month: "2024-01", Rate: dec("1")},
		{Month: "2024-01", Rate: dec("2")},
	})

	assert.Len(t, table, 1)
	assert.True(t, table["2024-01"].Equal(dec("2")))
}
