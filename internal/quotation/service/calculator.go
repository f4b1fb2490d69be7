package service

import (
	"github.com/alldenims/pricequote/internal/brackets"
	exchangedomain "github.com/alldenims/pricequote/internal/exchange/domain"
	"github.com/alldenims/pricequote/internal/quotation/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// lineCostTRY converts one material line into TRY. A line with a missing
// rate contributes zero rather than failing; the TRY breakdown must stay
// producible even when live rates are unavailable.
func lineCostTRY(line domain.MaterialLine, rates exchangedomain.RateSet) decimal.Decimal {
	if !line.UnitPrice.IsPositive() || !line.Quantity.IsPositive() {
		return decimal.Zero
	}
	rate, ok := rates.RateToTRY(line.Currency)
	if !ok {
		return decimal.Zero
	}
	return round2(line.UnitPrice.Mul(line.Quantity).Mul(rate))
}

// AggregateMaterials sums the TRY-converted material lines plus the labor
// cost (already TRY) into the cascade's base cost.
func AggregateMaterials(fabric, lining, trim domain.MaterialLine, laborCost decimal.Decimal, rates exchangedomain.RateSet) domain.MaterialTotals {
	totals := domain.MaterialTotals{
		FabricTRY: lineCostTRY(fabric, rates),
		LiningTRY: lineCostTRY(lining, rates),
		TrimTRY:   lineCostTRY(trim, rates),
		LaborTRY:  round2(laborCost),
	}
	totals.TotalTRY = totals.FabricTRY.
		Add(totals.LiningTRY).
		Add(totals.TrimTRY).
		Add(totals.LaborTRY)
	return totals
}

// RunCascade applies the four percentage layers in fixed order, each on
// the running total. Every intermediate is rounded to 2 decimal places
// immediately; later layers compound on the rounded figures. This exact
// rounding order must be preserved so new results match historical
// records. Negative or zero inputs propagate arithmetically.
func RunCascade(baseCost decimal.Decimal, params domain.CascadeParams) domain.Cascade {
	overhead := round2(baseCost.Mul(params.OverheadPct).Div(hundred))
	withOverhead := round2(baseCost.Add(overhead))

	profit := round2(withOverhead.Mul(params.ProfitPct).Div(hundred))
	withProfit := round2(withOverhead.Add(profit))

	commission := round2(withProfit.Mul(params.CommissionPct).Div(hundred))
	withCommission := round2(withProfit.Add(commission))

	vat := round2(withCommission.Mul(params.VATPct).Div(hundred))
	finalPrice := round2(withCommission.Add(vat))

	return domain.Cascade{
		BaseCostTRY:      round2(baseCost),
		OverheadAmount:   overhead,
		WithOverhead:     withOverhead,
		ProfitAmount:     profit,
		WithProfit:       withProfit,
		CommissionAmount: commission,
		WithCommission:   withCommission,
		VATAmount:        vat,
		FinalPriceTRY:    finalPrice,
	}
}

// ApplyBrackets produces one row per bracket. The cascade is computed
// once on the full base cost; bracket pricing is a post-hoc discount on
// that single sticker price, not six independently priced structures.
func ApplyBrackets(cascade domain.Cascade, schedule brackets.Schedule, rates exchangedomain.RateSet, hasRates bool) []domain.Breakdown {
	rows := make([]domain.Breakdown, 0, len(schedule.Brackets))
	for _, b := range schedule.Brackets {
		rate := decimal.NewFromFloat(b.Discount)
		discounted := round2(cascade.FinalPriceTRY.Mul(decimal.NewFromInt(1).Sub(rate)))

		row := domain.Breakdown{
			Bracket:            b.Label,
			DiscountRate:       rate,
			DiscountedPriceTRY: discounted,
		}
		if hasRates {
			row.FinalPriceEUR = ToForeign(discounted, exchangedomain.EUR, rates)
			row.FinalPriceUSD = ToForeign(discounted, exchangedomain.USD, rates)
		}
		rows = append(rows, row)
	}
	return rows
}

// ToForeign projects a TRY amount into the target currency. Returns nil
// when the needed rate is missing or zero; projection failure never
// invalidates the TRY figures.
func ToForeign(amountTRY decimal.Decimal, target exchangedomain.Currency, rates exchangedomain.RateSet) *decimal.Decimal {
	rate, ok := rates.RateToTRY(target)
	if !ok {
		return nil
	}
	converted := round2(amountTRY.Div(rate))
	return &converted
}
