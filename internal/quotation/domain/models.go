package domain

import (
	"context"
	"errors"
	"time"

	exchangedomain "github.com/alldenims/pricequote/internal/exchange/domain"
	"github.com/alldenims/pricequote/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// MaterialLine is one raw-material cost input. A line with a missing or
// zero price/quantity simply contributes zero cost; partial input is the
// normal state while a quotation is being edited.
type MaterialLine struct {
	UnitPrice decimal.Decimal         `json:"unit_price"`
	Quantity  decimal.Decimal         `json:"quantity"`
	Currency  exchangedomain.Currency `json:"currency"`
}

// MaterialTotals is the TRY-converted aggregation of the material lines.
type MaterialTotals struct {
	FabricTRY decimal.Decimal `json:"fabric_try"`
	LiningTRY decimal.Decimal `json:"lining_try"`
	TrimTRY   decimal.Decimal `json:"trim_try"`
	LaborTRY  decimal.Decimal `json:"labor_try"`
	TotalTRY  decimal.Decimal `json:"total_try"`
}

// CascadeParams are the percentage layers applied to the base cost, in
// fixed order: overhead, profit, commission, VAT. Profit defaults to 20
// but is a parameter, not a constant.
type CascadeParams struct {
	OverheadPct   decimal.Decimal `json:"overhead_pct"`
	ProfitPct     decimal.Decimal `json:"profit_pct"`
	CommissionPct decimal.Decimal `json:"commission_pct"`
	VATPct        decimal.Decimal `json:"vat_pct"`
}

// Cascade is the layered markup computed once on the full base cost.
// Every intermediate value is rounded to 2 decimal places as soon as it
// is computed; later layers compound on the rounded figures.
type Cascade struct {
	BaseCostTRY      decimal.Decimal `json:"base_cost_try"`
	OverheadAmount   decimal.Decimal `json:"overhead_amount"`
	WithOverhead     decimal.Decimal `json:"with_overhead"`
	ProfitAmount     decimal.Decimal `json:"profit_amount"`
	WithProfit       decimal.Decimal `json:"with_profit"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	WithCommission   decimal.Decimal `json:"with_commission"`
	VATAmount        decimal.Decimal `json:"vat_amount"`
	FinalPriceTRY    decimal.Decimal `json:"final_price_try"`
}

// Breakdown is one bracket row of the price table. The cascade is shared
// across rows; only the discount differs per bracket. The EUR/USD
// projections are nil when the needed rate is unavailable.
type Breakdown struct {
	Bracket            string           `json:"bracket"`
	DiscountRate       decimal.Decimal  `json:"discount_rate"`
	DiscountedPriceTRY decimal.Decimal  `json:"discounted_price_try"`
	FinalPriceEUR      *decimal.Decimal `json:"final_price_eur,omitempty"`
	FinalPriceUSD      *decimal.Decimal `json:"final_price_usd,omitempty"`
}

// QuoteRecord is one persisted price calculation.
type QuoteRecord struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	CustomerID    snowflake.ID    `gorm:"not null;index" json:"customer_id"`
	FabricTRY     decimal.Decimal `gorm:"type:numeric" json:"fabric_try"`
	LiningTRY     decimal.Decimal `gorm:"type:numeric" json:"lining_try"`
	TrimTRY       decimal.Decimal `gorm:"type:numeric" json:"trim_try"`
	LaborTRY      decimal.Decimal `gorm:"type:numeric" json:"labor_try"`
	TotalCostTRY  decimal.Decimal `gorm:"type:numeric" json:"total_cost_try"`
	OverheadPct   decimal.Decimal `gorm:"type:numeric" json:"overhead_pct"`
	ProfitPct     decimal.Decimal `gorm:"type:numeric" json:"profit_pct"`
	CommissionPct decimal.Decimal `gorm:"type:numeric" json:"commission_pct"`
	VATPct        decimal.Decimal `gorm:"type:numeric" json:"vat_pct"`
	FinalPriceTRY decimal.Decimal `gorm:"type:numeric" json:"final_price_try"`
	Currency      string          `gorm:"not null;default:TRY" json:"currency"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
}

func (QuoteRecord) TableName() string { return "quote_records" }

type CalculateRequest struct {
	CustomerID string
	Fabric     MaterialLine
	Lining     MaterialLine
	Trim       MaterialLine
	LaborCost  decimal.Decimal
	Params     CascadeParams
}

type CalculateResponse struct {
	Customer   CustomerRef              `json:"customer"`
	Materials  MaterialTotals           `json:"materials"`
	Cascade    Cascade                  `json:"cascade"`
	Breakdowns []Breakdown              `json:"breakdowns"`
	Rates      *exchangedomain.RateSet  `json:"rates,omitempty"`
	RecordID   snowflake.ID             `json:"record_id"`
}

type CustomerRef struct {
	ID      snowflake.ID `json:"id"`
	Name    string       `json:"name"`
	Country string       `json:"country"`
}

type HistoryRequest struct {
	CustomerID string
	PageToken  string
	PageSize   int
}

type HistoryResponse struct {
	pagination.PageInfo
	Records []QuoteRecord `json:"records"`
}

type OfferRequest struct {
	CustomerID string
	Fabric     MaterialLine
	Lining     MaterialLine
	Trim       MaterialLine
	LaborCost  decimal.Decimal
	Params     CascadeParams
}

type Service interface {
	Calculate(context.Context, CalculateRequest) (CalculateResponse, error)
	History(context.Context, HistoryRequest) (HistoryResponse, error)
	Offer(context.Context, OfferRequest) ([]byte, string, error)
}

var (
	ErrCustomerNotFound = errors.New("customer_not_found")
	ErrInvalidCustomer  = errors.New("invalid_customer")
	ErrInvalidCurrency  = errors.New("invalid_currency")
	ErrOfferUnavailable = errors.New("offer_unavailable")
)
