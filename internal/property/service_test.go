package property_test

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
	"github.com/MrJamesThe3rd/rentbook/internal/property"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    property.CreateParams
		setupMock func(m *property.MockRepository)
		wantErr   error
	}

	valid := property.CreateParams{
		Address:               "  Av. Rivadavia 1234 <b>3B</b> ",
		Tenant:                property.Tenant{Name: "Juan Pérez", Email: "juan@example.com"},
		Rent:                  dec("150000"),
		Tax:                   dec("12000"),
		ContractStartDate:     time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC),
		UpdateFrequencyMonths: 4,
	}

	tests := []testCase{
		{
			name:   "Success",
			params: valid,
			setupMock: func(m *property.MockRepository) {
				m.EXPECT().
					CreateProperty(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *property.Property) error {
						p.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "MissingAddress",
			params:  property.CreateParams{ContractStartDate: date(2024, 1, 1)},
			wantErr: property.ErrInvalidProperty,
		},
		{
			name:    "MissingStartDate",
			params:  property.CreateParams{Address: "Calle 1"},
			wantErr: property.ErrInvalidProperty,
		},
		{
			name: "NegativeRent",
			params: property.CreateParams{
				Address:           "Calle 1",
				ContractStartDate: date(2024, 1, 1),
				Rent:              dec("-1"),
			},
			wantErr: property.ErrInvalidProperty,
		},
		{
			name:   "RepoError",
			params: valid,
			setupMock: func(m *property.MockRepository) {
				m.EXPECT().
					CreateProperty(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := property.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := property.NewService(repo, property.NewMockInflationSource(ctrl))
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, property.ErrInvalidProperty) {
					assert.ErrorIs(t, err, property.ErrInvalidProperty)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, "Av. Rivadavia 1234 3B", got.Address)
			assert.Equal(t, date(2024, 3, 10), got.ContractStartDate)
			require.Len(t, got.ValueHistory, 1)
			assert.Equal(t, date(2024, 3, 10), got.ValueHistory[0].Date)
			assert.True(t, got.ValueHistory[0].Rent.Equal(dec("150000")))
			assert.True(t, got.ValueHistory[0].Tax.Equal(dec("12000")))
			assert.Empty(t, got.Payments)
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := property.NewMockRepository(ctrl)

	repo.EXPECT().
		ListProperties(gomock.Any()).
		Return([]*property.Property{
			{Address: "San Martín 50"},
			{Address: "alsina 200"},
			{Address: "Belgrano 10"},
		}, nil)

	svc := property.NewService(repo, nil)
	got, err := svc.List(context.Background())
	require.NoError(t, err)

	var addresses []string
	for _, p := range got {
		addresses = append(addresses, p.Address)
	}

	assert.Equal(t, []string{"alsina 200", "Belgrano 10", "San Martín 50"}, addresses)
}

func TestService_SavePayment(t *testing.T) {
	propertyID := uuid.New()
	existingID := uuid.New()

	type testCase struct {
		name      string
		params    property.PaymentParams
		setupMock func(m *property.MockRepository)
		wantErr   error
		created   bool
		check     func(t *testing.T, got ledger.Payment)
	}

	tests := []testCase{
		{
			name: "NewPayment",
			params: property.PaymentParams{
				Date:               time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC),
				Amount:             dec("162000"),
				Notes:              "Transferencia",
				AllocatedChargeIDs: []string{"a", "b", "a", ""},
			},
			setupMock: func(m *property.MockRepository) {
				m.EXPECT().GetProperty(gomock.Any(), propertyID).Return(&property.Property{ID: propertyID}, nil)
				m.EXPECT().SavePayment(gomock.Any(), propertyID, gomock.Any()).Return(nil)
			},
			created: true,
			check: func(t *testing.T, got ledger.Payment) {
				assert.NotEqual(t, uuid.Nil, got.ID)
				assert.Equal(t, date(2024, 5, 3), got.Date)
				assert.Equal(t, []string{"a", "b"}, got.AllocatedChargeIDs)
			},
		},
		{
			name: "ReplaceExisting",
			params: property.PaymentParams{
				ID:     &existingID,
				Date:   date(2024, 5, 3),
				Amount: dec("1"),
			},
			setupMock: func(m *property.MockRepository) {
				m.EXPECT().GetProperty(gomock.Any(), propertyID).Return(&property.Property{
					ID:       propertyID,
					Payments: []ledger.Payment{{ID: existingID, Date: date(2024, 5, 1), Amount: dec("5")}},
				}, nil)
				m.EXPECT().
					SavePayment(gomock.Any(), propertyID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, p ledger.Payment) error {
						assert.Equal(t, existingID, p.ID)
						return nil
					})
			},
			check: func(t *testing.T, got ledger.Payment) {
				assert.Equal(t, existingID, got.ID)
			},
		},
		{
			name: "ClientChosenNewID",
			params: property.PaymentParams{
				ID:     &existingID,
				Date:   date(2024, 5, 3),
				Amount: dec("1"),
			},
			setupMock: func(m *property.MockRepository) {
				m.EXPECT().GetProperty(gomock.Any(), propertyID).Return(&property.Property{ID: propertyID}, nil)
				m.EXPECT().SavePayment(gomock.Any(), propertyID, gomock.Any()).Return(nil)
			},
			created: true,
			check: func(t *testing.T, got ledger.Payment) {
				assert.Equal(t, existingID, got.ID)
			},
		},
		{
			name:    "ZeroAmount",
			params:  property.PaymentParams{Date: date(2024, 5, 3), Amount: decimal.Zero},
			wantErr: property.ErrInvalidPayment,
		},
		{
			name:    "MissingDate",
			params:  property.PaymentParams{Amount: dec("10")},
			wantErr: property.ErrInvalidPayment,
		},
		{
			name:   "UnknownProperty",
			params: property.PaymentParams{Date: date(2024, 5, 3), Amount: dec("10")},
			setupMock: func(m *property.MockRepository) {
				m.EXPECT().GetProperty(gomock.Any(), propertyID).Return(nil, property.ErrNotFound)
			},
			wantErr: property.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := property.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := property.NewService(repo, nil)
			got, created, err := svc.SavePayment(context.Background(), propertyID, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.created, created)
			tt.check(t, got)
		})
	}
}

func TestService_ApplyRentUpdate(t *testing.T) {
	id := uuid.New()

	newProperty := func() *property.Property {
		return &property.Property{
			ID:                id,
			Address:           "Calle 1",
			ContractStartDate: date(2024, 1, 1),
			Rent:              dec("1000"),
			Tax:               dec("100"),
			ValueHistory: []ledger.ValueRecord{
				{Date: date(2024, 1, 1), Rent: dec("1000"), Tax: dec("100")},
				{Date: date(2024, 5, 1), Rent: dec("1200"), Tax: dec("120")},
			},
		}
	}

	t.Run("Append", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := property.NewMockRepository(ctrl)

		v := ledger.ValueRecord{Date: date(2024, 9, 1), Rent: dec("1500"), Tax: dec("150")}

		repo.EXPECT().GetProperty(gomock.Any(), id).Return(newProperty(), nil)
		repo.EXPECT().SaveValueRecord(gomock.Any(), id, v).Return(nil)

		got, err := property.NewService(repo, nil).ApplyRentUpdate(context.Background(), id, v)
		require.NoError(t, err)
		require.Len(t, got.ValueHistory, 3)
		assert.True(t, got.Rent.Equal(dec("1500")))
		assert.True(t, got.Tax.Equal(dec("150")))
	})

	t.Run("SameDateOverwrites", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := property.NewMockRepository(ctrl)

		v := ledger.ValueRecord{Date: date(2024, 5, 1), Rent: dec("1250"), Tax: dec("125")}

		repo.EXPECT().GetProperty(gomock.Any(), id).Return(newProperty(), nil)
		repo.EXPECT().SaveValueRecord(gomock.Any(), id, v).Return(nil)

		got, err := property.NewService(repo, nil).ApplyRentUpdate(context.Background(), id, v)
		require.NoError(t, err)
		require.Len(t, got.ValueHistory, 2)
		assert.True(t, got.ValueHistory[1].Rent.Equal(dec("1250")))
		assert.True(t, got.Rent.Equal(dec("1250")))
	})

	t.Run("BackdatedKeepsLatestAsCurrent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := property.NewMockRepository(ctrl)

		v := ledger.ValueRecord{Date: date(2024, 3, 1), Rent: dec("1100"), Tax: dec("110")}

		repo.EXPECT().GetProperty(gomock.Any(), id).Return(newProperty(), nil)
		repo.EXPECT().SaveValueRecord(gomock.Any(), id, v).Return(nil)

		got, err := property.NewService(repo, nil).ApplyRentUpdate(context.Background(), id, v)
		require.NoError(t, err)
		require.Len(t, got.ValueHistory, 3)
		assert.Equal(t, date(2024, 3, 1), got.ValueHistory[1].Date)
		assert.True(t, got.Rent.Equal(dec("1200")))
	})

	t.Run("NegativeRent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := property.NewMockRepository(ctrl)

		v := ledger.ValueRecord{Date: date(2024, 3, 1), Rent: dec("-1"), Tax: dec("0")}

		_, err := property.NewService(repo, nil).ApplyRentUpdate(context.Background(), id, v)
		assert.ErrorIs(t, err, property.ErrInvalidValue)
	})
}

func TestService_AttachContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := property.NewMockRepository(ctrl)
	id := uuid.New()

	svc := property.NewService(repo, nil)

	err := svc.AttachContract(context.Background(), id, property.ContractFile{Name: "contrato.pdf"})
	assert.ErrorIs(t, err, property.ErrInvalidProperty)

	contract := property.ContractFile{Name: "contrato.pdf", URL: "https://files.example.com/contrato.pdf"}
	repo.EXPECT().UpdateContract(gomock.Any(), id, contract).Return(nil)

	assert.NoError(t, svc.AttachContract(context.Background(), id, contract))
}

func TestService_Review(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := property.NewMockRepository(ctrl)
	inflation := property.NewMockInflationSource(ctrl)
	id := uuid.New()

	repo.EXPECT().GetProperty(gomock.Any(), id).Return(&property.Property{
		ID:                     id,
		ContractStartDate:      date(2024, 1, 1),
		ContractDurationMonths: 24,
		UpdateFrequencyMonths:  3,
		ValueHistory: []ledger.ValueRecord{
			{Date: date(2024, 1, 1), Rent: dec("1000"), Tax: dec("100")},
		},
	}, nil)
	inflation.EXPECT().Table(gomock.Any()).Return(ledger.InflationTable{
		"2024-02": dec("10"),
		"2024-03": dec("10"),
		"2024-04": dec("10"),
	}, nil)

	got, err := property.NewService(repo, inflation).Review(context.Background(), id, date(2024, 4, 2))
	require.NoError(t, err)

	assert.True(t, got.Due)
	assert.Equal(t, date(2024, 1, 1), got.LastUpdate)
	assert.Equal(t, date(2024, 4, 1), got.NextReview)
	assert.True(t, got.Suggestion.Rent.Equal(dec("1331")), "rent %s", got.Suggestion.Rent)
	assert.True(t, got.Suggestion.Tax.Equal(dec("133.1")), "tax %s", got.Suggestion.Tax)
	require.NotNil(t, got.Contract)
	assert.Equal(t, date(2026, 1, 1), got.Contract.End)
}

func TestService_Review_InflationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := property.NewMockRepository(ctrl)
	inflation := property.NewMockInflationSource(ctrl)
	id := uuid.New()

	repo.EXPECT().GetProperty(gomock.Any(), id).Return(&property.Property{ID: id}, nil)
	inflation.EXPECT().Table(gomock.Any()).Return(nil, errors.New("db down"))

	_, err := property.NewService(repo, inflation).Review(context.Background(), id, date(2024, 4, 2))
	assert.Error(t, err)
}

func TestService_DueForReview(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := property.NewMockRepository(ctrl)

	history := []ledger.ValueRecord{{Date: date(2023, 1, 1), Rent: dec("1"), Tax: dec("1")}}

	repo.EXPECT().ListProperties(gomock.Any()).Return([]*property.Property{
		{Address: "B", ContractStartDate: date(2023, 1, 1), UpdateFrequencyMonths: 12, ValueHistory: history},
		{Address: "A", ContractStartDate: date(2023, 1, 1), UpdateFrequencyMonths: 6, ValueHistory: history},
		{Address: "C", ContractStartDate: date(2023, 1, 1), UpdateFrequencyMonths: 0, ValueHistory: history},
		{Address: "D", ContractStartDate: date(2023, 1, 1), UpdateFrequencyMonths: 24, ValueHistory: history},
	}, nil)

	got, err := property.NewService(repo, nil).DueForReview(context.Background(), date(2024, 1, 15))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Address)
	assert.Equal(t, "B", got[1].Address)
}

func TestMergeValueRecord(t *testing.T) {
	history := []ledger.ValueRecord{{Date: date(2024, 1, 1), Rent: dec("1"), Tax: dec("1")}}

	merged := property.MergeValueRecord(history, ledger.ValueRecord{Date: date(2024, 1, 1), Rent: dec("2"), Tax: dec("2")})
	require.Len(t, merged, 1)
	assert.True(t, merged[0].Rent.Equal(dec("2")))
	assert.True(t, history[0].Rent.Equal(dec("1")))
}

func TestUpsertPayment(t *testing.T) {
	id := uuid.New()
	payments := []ledger.Payment{{ID: id, Amount: dec("1")}}

	replaced := property.UpsertPayment(payments, ledger.Payment{ID: id, Amount: dec("5")})
	require.Len(t, replaced, 1)
	assert.True(t, replaced[0].Amount.Equal(dec("5")))

	appended := property.UpsertPayment(payments, ledger.Payment{ID: uuid.New(), Amount: dec("7")})
	assert.Len(t, appended, 2)
}
