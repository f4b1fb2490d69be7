package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/alldenims/pricequote/internal/clock"
	"github.com/alldenims/pricequote/internal/config"
	"github.com/alldenims/pricequote/internal/exchange/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	cfg      config.Config
	log      *zap.Logger
	clock    clock.Clock
	client   *http.Client
	snapshot atomic.Value // holds domain.RateSet
}

func New(p Params) domain.Service {
	return &Service{
		cfg:    p.Cfg,
		log:    p.Log.Named("exchange.service"),
		clock:  p.Clock,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Service) Current() (domain.RateSet, bool) {
	v := s.snapshot.Load()
	if v == nil {
		return domain.RateSet{}, false
	}
	return v.(domain.RateSet), true
}

// latestPayload mirrors the exchangerate-api "latest" response. All rates
// are quoted against the requested base currency (USD here).
type latestPayload struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

func (s *Service) Refresh(ctx context.Context) (domain.RateSet, error) {
	url := fmt.Sprintf("%s/%s/latest/USD", s.cfg.ExchangeBaseURL, s.cfg.ExchangeAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.RateSet{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.RateSet{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.RateSet{}, fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	var payload latestPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.RateSet{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	if payload.Result != "success" {
		return domain.RateSet{}, fmt.Errorf("%w: result %q", domain.ErrFetchFailed, payload.Result)
	}

	rates, err := deriveRates(payload.ConversionRates, s.clock.Now())
	if err != nil {
		return domain.RateSet{}, err
	}

	s.snapshot.Store(rates)
	s.log.Info("exchange rates refreshed",
		zap.String("usd_try", rates.USDTRY.String()),
		zap.String("eur_try", rates.EURTRY.String()),
		zap.String("eur_usd", rates.EURUSD.String()),
	)
	return rates, nil
}

// deriveRates converts the USD-based quote table into the TRY-centric set
// the calculator needs: USD_TRY = TRY, EUR_TRY = TRY/EUR, GBP_TRY = TRY/GBP,
// EUR_USD = 1/EUR.
func deriveRates(quotes map[string]float64, fetchedAt time.Time) (domain.RateSet, error) {
	tryRate := decimal.NewFromFloat(quotes["TRY"])
	eurRate := decimal.NewFromFloat(quotes["EUR"])
	gbpRate := decimal.NewFromFloat(quotes["GBP"])

	if !tryRate.IsPositive() || !eurRate.IsPositive() {
		return domain.RateSet{}, fmt.Errorf("%w: non-positive conversion rate", domain.ErrFetchFailed)
	}

	rates := domain.RateSet{
		USDTRY:    tryRate,
		EURTRY:    tryRate.Div(eurRate),
		EURUSD:    decimal.NewFromInt(1).Div(eurRate),
		FetchedAt: fetchedAt,
	}
	if gbpRate.IsPositive() {
		rates.GBPTRY = tryRate.Div(gbpRate)
	}
	return rates, nil
}
