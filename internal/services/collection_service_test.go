package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/config"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollectionService(t *testing.T) (*CollectionService, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := store.NewDatabaseFromConn(sqlx.NewDb(mockDB, "sqlmock"))
	svc := NewCollectionService(
		store.NewCollectionRepository(db),
		store.NewNFTRepository(db),
		config.MarketConfig{MaxRoyaltyPercent: "10", MaxOfferAmount: "1000000"},
	)

	return svc, mock
}

func validCollectionRequest() models.CreateCollectionRequest {
	return models.CreateCollectionRequest{
		Name:        "Sunsets",
		Description: "evening skies",
		Royalty:     decimal.RequireFromString("5"),
		LogoFile:    "logo.png",
		FeatureFile: "feature.png",
		BannerFile:  "banner.png",
		CategoryID:  1,
	}
}

func TestCreateCollectionRoyaltyBounds(t *testing.T) {
	svc, mock := newCollectionService(t)

	tests := []struct {
		name    string
		royalty string
		wantErr bool
	}{
		{"negative", "-1", true},
		{"over the cap", "10.01", true},
		{"at the cap", "10", false},
		{"zero", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCollectionRequest()
			req.Royalty = decimal.RequireFromString(tt.royalty)

			if !tt.wantErr {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM collection_categories`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(`INSERT INTO collections`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
			}

			collection, err := svc.Create(context.Background(), req, 1)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), collection.ID)
			assert.Equal(t, int64(1), collection.UserID)
		})
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCollectionUnknownCategory(t *testing.T) {
	svc, mock := newCollectionService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM collection_categories`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := svc.Create(context.Background(), validCollectionRequest(), 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCollectionRequiresImages(t *testing.T) {
	svc, mock := newCollectionService(t)

	req := validCollectionRequest()
	req.BannerFile = ""

	_, err := svc.Create(context.Background(), req, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionNFTsUnknownCollection(t *testing.T) {
	svc, mock := newCollectionService(t)

	mock.ExpectQuery(`SELECT .+ FROM collections WHERE id = .+`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "royalty", "logo_file", "featured_file",
			"banner_file", "user_id", "category_id", "created_at", "updated_at",
		}))

	_, err := svc.NFTs(context.Background(), 9, models.CollectionNFTsRequest{CurrentTab: models.CollectionTabAll})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, mock.ExpectationsWereMet())
}
