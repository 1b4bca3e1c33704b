package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/config"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatesService(t *testing.T, apiURL string) (*RatesService, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := store.NewDatabaseFromConn(sqlx.NewDb(mockDB, "sqlmock"))
	svc := NewRatesService(store.NewNFTRepository(db), config.RatesConfig{
		APIURL:   apiURL,
		CacheTTL: 60,
	})

	return svc, mock
}

func ratesServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"currency":"ETH","rates":{"USD":"2500.00","EUR":"2300.50"}}}`))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestRateFetchesAndCaches(t *testing.T) {
	var calls int32
	server := ratesServer(t, &calls)
	svc, _ := newRatesService(t, server.URL)

	rate, err := svc.Rate(context.Background(), "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("2500.00")), "rate %s", rate)

	// Second lookup within the TTL is served from cache
	rate, err = svc.Rate(context.Background(), "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("2500.00")))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRateUnsupportedCurrency(t *testing.T) {
	var calls int32
	server := ratesServer(t, &calls)
	svc, _ := newRatesService(t, server.URL)

	_, err := svc.Rate(context.Background(), "XYZ")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRateUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	svc, _ := newRatesService(t, server.URL)

	_, err := svc.Rate(context.Background(), "USD")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestNFTPriceInConvertsListedPrice(t *testing.T) {
	var calls int32
	server := ratesServer(t, &calls)
	svc, mock := newRatesService(t, server.URL)

	mock.ExpectQuery(`SELECT .+ FROM nfts n WHERE n.id = .+`).WithArgs(int64(7)).
		WillReturnRows(testNFTRows(7, "tok-1", "2.00", 1, 1, false))

	price, err := svc.NFTPriceIn(context.Background(), 7, "USD")
	require.NoError(t, err)

	assert.Equal(t, int64(7), price.NFTID)
	assert.Equal(t, "USD", price.Currency)
	assert.True(t, price.Fiat.Equal(decimal.RequireFromString("5000.00")), "fiat %s", price.Fiat)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNFTPriceInHidesBlockedNFT(t *testing.T) {
	var calls int32
	server := ratesServer(t, &calls)
	svc, mock := newRatesService(t, server.URL)

	mock.ExpectQuery(`SELECT .+ FROM nfts n WHERE n.id = .+`).WithArgs(int64(7)).
		WillReturnRows(testNFTRows(7, "tok-1", "2.00", 1, 1, true))

	_, err := svc.NFTPriceIn(context.Background(), 7, "USD")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
