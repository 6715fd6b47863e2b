package owner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/rentbook/internal/ledger"
	"github.com/MrJamesThe3rd/rentbook/internal/owner"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func partners() []owner.Owner {
	return []owner.Owner{
		{ID: uuid.New(), Name: "Ana", Percentage: dec("50")},
		{ID: uuid.New(), Name: "Beto", Percentage: dec("30")},
		{ID: uuid.New(), Name: "Carla", Percentage: dec("20")},
	}
}

func TestService_List_SeedsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := owner.NewMockRepository(ctrl)

	repo.EXPECT().ListOwners(gomock.Any()).Return(nil, nil)
	repo.EXPECT().
		ReplaceOwners(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, owners []owner.Owner) error {
			assert.Len(t, owners, 4)
			return nil
		})

	got, err := owner.NewService(repo).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)

	for i, o := range got {
		assert.Equal(t, "Socio "+string(rune('1'+i)), o.Name)
		assert.True(t, o.Percentage.Equal(dec("25")))
		assert.NotEqual(t, uuid.Nil, o.ID)
	}
}

func TestService_List_Existing(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := owner.NewMockRepository(ctrl)

	repo.EXPECT().ListOwners(gomock.Any()).Return(partners(), nil)

	got, err := owner.NewService(repo).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestService_Save(t *testing.T) {
	type testCase struct {
		name      string
		owners    []owner.Owner
		setupMock func(m *owner.MockRepository)
		wantNames []string
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			owners: []owner.Owner{{Name: " Ana ", Percentage: dec("60")}, {Name: "Beto", Percentage: dec("40")}},
			setupMock: func(m *owner.MockRepository) {
				m.EXPECT().ReplaceOwners(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantNames: []string{"Ana", "Beto"},
		},
		{
			name:   "FractionalShares",
			owners: []owner.Owner{{Name: "A", Percentage: dec("33.33")}, {Name: "B", Percentage: dec("33.33")}, {Name: "C", Percentage: dec("33.34")}},
			setupMock: func(m *owner.MockRepository) {
				m.EXPECT().ReplaceOwners(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantNames: []string{"A", "B", "C"},
		},
		{
			name:    "TotalBelowHundred",
			owners:  []owner.Owner{{Name: "Ana", Percentage: dec("60")}, {Name: "Beto", Percentage: dec("39.99")}},
			wantErr: owner.ErrInvalidShares,
		},
		{
			name:    "NegativeShare",
			owners:  []owner.Owner{{Name: "Ana", Percentage: dec("110")}, {Name: "Beto", Percentage: dec("-10")}},
			wantErr: owner.ErrInvalidShares,
		},
		{
			name:    "Empty",
			owners:  nil,
			wantErr: owner.ErrInvalidShares,
		},
		{
			name:    "MissingName",
			owners:  []owner.Owner{{Name: "<b></b>", Percentage: dec("100")}},
			wantErr: owner.ErrInvalidOwner,
		},
		{
			name:   "RepoError",
			owners: []owner.Owner{{Name: "Ana", Percentage: dec("100")}},
			setupMock: func(m *owner.MockRepository) {
				m.EXPECT().ReplaceOwners(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := owner.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := owner.NewService(repo).Save(context.Background(), tt.owners)

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, owner.ErrInvalidShares) || errors.Is(tt.wantErr, owner.ErrInvalidOwner) {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)

			var names []string

			for _, o := range got {
				assert.NotEqual(t, uuid.Nil, o.ID)

				names = append(names, o.Name)
			}

			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestDistribute(t *testing.T) {
	owners := partners()

	shares := owner.Distribute(owners, dec("123456.78"))
	require.Len(t, shares, 3)

	assert.True(t, shares[0].Amount.Equal(dec("61728.39")), "%s", shares[0].Amount)
	assert.True(t, shares[1].Amount.Equal(dec("37037.03")), "%s", shares[1].Amount)
	assert.True(t, shares[2].Amount.Equal(dec("24691.36")), "%s", shares[2].Amount)
	assert.Equal(t, owners[0].ID, shares[0].Owner.ID)
}

func TestService_Advances_FillsMissingOwners(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := owner.NewMockRepository(ctrl)
	owners := partners()

	stored := owner.Advance{OwnerID: owners[1].ID, Amount: dec("5000"), Date: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)}

	repo.EXPECT().ListOwners(gomock.Any()).Return(owners, nil)
	repo.EXPECT().ListAdvances(gomock.Any(), ledger.YearMonth("2024-05")).Return([]owner.Advance{stored}, nil)

	got, err := owner.NewService(repo).Advances(context.Background(), "2024-05")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, owners[0].ID, got[0].OwnerID)
	assert.True(t, got[0].Amount.IsZero())
	assert.Equal(t, stored, got[1])
	assert.True(t, got[2].Amount.IsZero())
}

func TestService_SaveAdvances(t *testing.T) {
	owners := partners()

	t.Run("DropsZeroAndDatesUndated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := owner.NewMockRepository(ctrl)

		repo.EXPECT().ListOwners(gomock.Any()).Return(owners, nil)
		repo.EXPECT().
			ReplaceAdvances(gomock.Any(), ledger.YearMonth("2024-05"), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ ledger.YearMonth, advances []owner.Advance) error {
				require.Len(t, advances, 1)
				assert.Equal(t, owners[0].ID, advances[0].OwnerID)
				assert.False(t, advances[0].Date.IsZero())
				return nil
			})

		err := owner.NewService(repo).SaveAdvances(context.Background(), "2024-05", []owner.Advance{
			{OwnerID: owners[0].ID, Amount: dec("1000")},
			{OwnerID: owners[1].ID, Amount: decimal.Zero},
		})
		assert.NoError(t, err)
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := owner.NewMockRepository(ctrl)

		repo.EXPECT().ListOwners(gomock.Any()).Return(owners, nil)

		err := owner.NewService(repo).SaveAdvances(context.Background(), "2024-05", []owner.Advance{
			{OwnerID: uuid.New(), Amount: dec("1000")},
		})
		assert.ErrorIs(t, err, owner.ErrNotFound)
	})

	t.Run("DuplicateOwner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := owner.NewMockRepository(ctrl)

		repo.EXPECT().ListOwners(gomock.Any()).Return(owners, nil)

		err := owner.NewService(repo).SaveAdvances(context.Background(), "2024-05", []owner.Advance{
			{OwnerID: owners[0].ID, Amount: dec("1000")},
			{OwnerID: owners[0].ID, Amount: dec("500")},
		})
		assert.ErrorIs(t, err, owner.ErrInvalidAdvance)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := owner.NewMockRepository(ctrl)

		repo.EXPECT().ListOwners(gomock.Any()).Return(owners, nil)

		err := owner.NewService(repo).SaveAdvances(context.Background(), "2024-05", []owner.Advance{
			{OwnerID: owners[0].ID, Amount: dec("-1")},
		})
		assert.ErrorIs(t, err, owner.ErrInvalidAdvance)
	})

	t.Run("InvalidMonth", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := owner.NewMockRepository(ctrl)

		err := owner.NewService(repo).SaveAdvances(context.Background(), "May", nil)
		assert.ErrorIs(t, err, owner.ErrInvalidAdvance)
	})
}

func TestService_ResetAdvances(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := owner.NewMockRepository(ctrl)

	repo.EXPECT().DeleteAdvances(gomock.Any(), ledger.YearMonth("2024-05")).Return(nil)

	assert.NoError(t, owner.NewService(repo).ResetAdvances(context.Background(), "2024-05"))
}

func TestService_Settlement(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := owner.NewMockRepository(ctrl)
	owners := partners()

	repo.EXPECT().ListOwners(gomock.Any()).Return(owners, nil)
	repo.EXPECT().ListAdvances(gomock.Any(), ledger.YearMonth("2024-05")).Return([]owner.Advance{
		{OwnerID: owners[0].ID, Amount: dec("20000")},
		{OwnerID: owners[2].ID, Amount: dec("25000")},
	}, nil)

	got, err := owner.NewService(repo).Settlement(context.Background(), "2024-05", dec("100000"))
	require.NoError(t, err)

	assert.Equal(t, "2024-05", got.Month)
	require.Len(t, got.Lines, 3)

	want := []struct{ share, advance, balance string }{
		{"50000", "20000", "30000"},
		{"30000", "0", "30000"},
		{"20000", "25000", "-5000"},
	}

	for i, w := range want {
		line := got.Lines[i]
		assert.True(t, line.Share.Equal(dec(w.share)), "line %d share %s", i, line.Share)
		assert.True(t, line.Advance.Equal(dec(w.advance)), "line %d advance %s", i, line.Advance)
		assert.True(t, line.Balance.Equal(dec(w.balance)), "line %d balance %s", i, line.Balance)
	}
}
