package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Currency identifies a supported currency unit.
type Currency string

const (
	TRY Currency = "TRY"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// ParseCurrency validates a currency code.
func ParseCurrency(code string) (Currency, bool) {
	switch Currency(code) {
	case TRY, USD, EUR, GBP:
		return Currency(code), true
	default:
		return "", false
	}
}

// RateSet is an immutable snapshot of conversion factors against TRY.
// A calculation reads exactly one snapshot; refreshes replace the whole
// set atomically, never a single field.
type RateSet struct {
	USDTRY    decimal.Decimal `json:"usd_try"`
	EURTRY    decimal.Decimal `json:"eur_try"`
	GBPTRY    decimal.Decimal `json:"gbp_try"`
	EURUSD    decimal.Decimal `json:"eur_usd"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// RateToTRY returns the multiplier that converts one unit of cur into TRY.
// ok is false when the snapshot has no positive rate for cur; a zero or
// missing rate must block conversion, not silently divide.
func (r RateSet) RateToTRY(cur Currency) (decimal.Decimal, bool) {
	switch cur {
	case TRY:
		return decimal.NewFromInt(1), true
	case USD:
		return r.USDTRY, r.USDTRY.IsPositive()
	case EUR:
		return r.EURTRY, r.EURTRY.IsPositive()
	case GBP:
		return r.GBPTRY, r.GBPTRY.IsPositive()
	default:
		return decimal.Zero, false
	}
}

type Service interface {
	// Current returns the latest snapshot; ok is false before the first
	// successful fetch.
	Current() (RateSet, bool)
	// Refresh fetches rates from the external source and replaces the
	// snapshot on success.
	Refresh(ctx context.Context) (RateSet, error)
}

var (
	ErrRatesUnavailable = errors.New("rates_unavailable")
	ErrFetchFailed      = errors.New("rate_fetch_failed")
)
