package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNFTService(t *testing.T) (*NFTService, sqlmock.Sqlmock, *feedRecorder) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := store.NewDatabaseFromConn(sqlx.NewDb(mockDB, "sqlmock"))
	feed := &feedRecorder{}

	svc := NewNFTService(
		store.NewNFTRepository(db),
		store.NewCollectionRepository(db),
		store.NewActivityRepository(db),
		feed,
		testLogger(),
	)

	return svc, mock, feed
}

func TestCreateNFTValidation(t *testing.T) {
	svc, mock, _ := newNFTService(t)

	valid := models.CreateNFTRequest{
		Name:        "Evening Sky",
		Description: "a sunset",
		ImageFile:   "sunset.png",
		Price:       decimal.RequireFromString("10.00"),
		CategoryID:  1,
	}

	tests := []struct {
		name   string
		mutate func(*models.CreateNFTRequest)
	}{
		{"short name", func(r *models.CreateNFTRequest) { r.Name = "abcd" }},
		{"empty description", func(r *models.CreateNFTRequest) { r.Description = "" }},
		{"negative price", func(r *models.CreateNFTRequest) { r.Price = decimal.RequireFromString("-1") }},
		{"missing image", func(r *models.CreateNFTRequest) { r.ImageFile = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req, 1)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNFTMintsAndBroadcasts(t *testing.T) {
	svc, mock, feed := newNFTService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO nfts`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	nft, err := svc.Create(context.Background(), models.CreateNFTRequest{
		Name:        "Evening Sky",
		Description: "a sunset",
		ImageFile:   "sunset.png",
		Price:       decimal.RequireFromString("10.004"),
		CategoryID:  1,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(7), nft.ID)
	assert.Equal(t, int64(1), nft.CreatorID)
	assert.Equal(t, int64(1), nft.OwnerID)
	assert.NotEmpty(t, nft.TokenID)
	// Prices are stored with two decimal places
	assert.True(t, nft.Price.Equal(decimal.RequireFromString("10.00")), "price %s", nft.Price)

	assert.Equal(t, []string{EventNFTMinted}, feed.events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetListedOwnerOnly(t *testing.T) {
	svc, mock, _ := newNFTService(t)

	mock.ExpectQuery(`SELECT .+ FROM nfts n WHERE n.token_id = .+`).WithArgs("tok-1").
		WillReturnRows(testNFTRows(7, "tok-1", "10.00", 1, 1, false))

	err := svc.SetListed(context.Background(), "tok-1", 9, true)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeAddsThenRemoves(t *testing.T) {
	svc, mock, _ := newNFTService(t)

	// First toggle: no existing like, one gets inserted
	mock.ExpectQuery(`SELECT .+ FROM nfts n WHERE n.token_id = .+`).WithArgs("tok-1").
		WillReturnRows(testNFTRows(7, "tok-1", "10.00", 1, 1, false))
	mock.ExpectQuery(`SELECT id, nft_id, user_id, token_id, created_at FROM likes`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nft_id", "user_id", "token_id", "created_at"}))
	mock.ExpectQuery(`INSERT INTO likes`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	liked, err := svc.ToggleLike(context.Background(), "tok-1", 2)
	require.NoError(t, err)
	assert.True(t, liked)

	// Second toggle: the like exists and is removed
	mock.ExpectQuery(`SELECT .+ FROM nfts n WHERE n.token_id = .+`).WithArgs("tok-1").
		WillReturnRows(testNFTRows(7, "tok-1", "10.00", 1, 1, false))
	mock.ExpectQuery(`SELECT id, nft_id, user_id, token_id, created_at FROM likes`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nft_id", "user_id", "token_id", "created_at"}).
			AddRow(int64(1), int64(7), int64(2), "tok-1", time.Now().UTC()))
	mock.ExpectExec(`DELETE FROM likes WHERE nft_id = .+ AND user_id = .+`).WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	liked, err = svc.ToggleLike(context.Background(), "tok-1", 2)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecordsViewForViewer(t *testing.T) {
	svc, mock, _ := newNFTService(t)

	mock.ExpectQuery(`SELECT .+ FROM nfts n WHERE n.token_id = .+`).WithArgs("tok-1").
		WillReturnRows(testNFTRows(7, "tok-1", "10.00", 1, 1, false))
	mock.ExpectExec(`INSERT INTO views`).WithArgs(int64(7), int64(2), "tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	nft, err := svc.Get(context.Background(), "tok-1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(7), nft.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAnonymousSkipsView(t *testing.T) {
	svc, mock, _ := newNFTService(t)

	mock.ExpectQuery(`SELECT .+ FROM nfts n WHERE n.token_id = .+`).WithArgs("tok-1").
		WillReturnRows(testNFTRows(7, "tok-1", "10.00", 1, 1, false))

	_, err := svc.Get(context.Background(), "tok-1", 0)
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHidesBlockedNFT(t *testing.T) {
	svc, mock, _ := newNFTService(t)

	mock.ExpectQuery(`SELECT .+ FROM nfts n WHERE n.token_id = .+`).WithArgs("tok-1").
		WillReturnRows(testNFTRows(7, "tok-1", "10.00", 1, 1, true))

	_, err := svc.Get(context.Background(), "tok-1", 2)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestFilterValidatesSortChoice(t *testing.T) {
	svc, mock, _ := newNFTService(t)

	for _, sortBy := range []int{0, 8, -1} {
		_, err := svc.Filter(context.Background(), models.NFTFilterRequest{SortBy: sortBy})
		require.Error(t, err, "sortBy %d", sortBy)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}

	require.NoError(t, mock.ExpectationsWereMet())
}
