package pdf

import (
	"context"
	"io"
)

// OfferRow is one quantity-bracket line of the offer table.
type OfferRow struct {
	Bracket    string
	UnitPrice  string
	Discount   string
	FinalPrice string
}

// OfferData carries everything the price-offer document needs.
type OfferData struct {
	CustomerName string
	Country      string
	Attention    string
	Currency     string
	Date         string
	Validity     string
	Rows         []OfferRow
}

type Provider interface {
	GenerateOffer(ctx context.Context, data OfferData) (io.Reader, error)
}
