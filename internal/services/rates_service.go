package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mintora/mintora-api/internal/apperr"
	"github.com/mintora/mintora-api/internal/config"
	"github.com/mintora/mintora-api/internal/models"
	"github.com/mintora/mintora-api/internal/store"
	"github.com/shopspring/decimal"
)

type exchangeRatesResponse struct {
	Data struct {
		Currency string            `json:"currency"`
		Rates    map[string]string `json:"rates"`
	} `json:"data"`
}

type cachedRate struct {
	rate   decimal.Decimal
	expiry time.Time
}

// RatesService converts NFT prices into fiat using an external exchange
// rate API. Responses are cached for a short TTL to keep the market pages
// from hammering the upstream.
type RatesService struct {
	client   *http.Client
	apiURL   string
	cacheTTL time.Duration

	nftRepo *store.NFTRepository

	cacheMu   sync.RWMutex
	cacheData map[string]cachedRate
}

// NewRatesService creates a new RatesService
func NewRatesService(nftRepo *store.NFTRepository, cfg config.RatesConfig) *RatesService {
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &RatesService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiURL:    cfg.APIURL,
		cacheTTL:  ttl,
		nftRepo:   nftRepo,
		cacheData: make(map[string]cachedRate),
	}
}

// NFTPriceIn returns an NFT's listing price converted into the given
// fiat currency
func (s *RatesService) NFTPriceIn(ctx context.Context, nftID int64, currency string) (*models.NFTFiatPrice, error) {
	if currency == "" {
		currency = "USD"
	}

	nft, err := s.nftRepo.GetByID(ctx, nftID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if nft == nil || nft.IsBlocked {
		return nil, apperr.NotFound("nft with that id doesn't exist")
	}

	rate, err := s.Rate(ctx, currency)
	if err != nil {
		return nil, err
	}

	return &models.NFTFiatPrice{
		NFTID:    nft.ID,
		Currency: currency,
		Price:    nft.Price,
		Rate:     rate,
		Fiat:     nft.Price.Mul(rate).Round(2),
	}, nil
}

// Rate returns the conversion rate from the platform currency into the
// given fiat currency
func (s *RatesService) Rate(ctx context.Context, currency string) (decimal.Decimal, error) {
	s.cacheMu.RLock()
	cached, ok := s.cacheData[currency]
	if ok && time.Now().Before(cached.expiry) {
		s.cacheMu.RUnlock()
		return cached.rate, nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	// Double check logic
	cached, ok = s.cacheData[currency]
	if ok && time.Now().Before(cached.expiry) {
		return cached.rate, nil
	}

	rates, err := s.fetchRates(ctx)
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}

	raw, ok := rates[currency]
	if !ok {
		return decimal.Zero, apperr.Validation("unsupported currency: %s", currency)
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Internal(fmt.Errorf("parsing rate for %s: %w", currency, err))
	}

	s.cacheData[currency] = cachedRate{
		rate:   rate,
		expiry: time.Now().Add(s.cacheTTL),
	}

	return rate, nil
}

func (s *RatesService) fetchRates(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var payload exchangeRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding exchange rates: %w", err)
	}

	if len(payload.Data.Rates) == 0 {
		return nil, fmt.Errorf("exchange rate API returned no rates")
	}

	return payload.Data.Rates, nil
}
