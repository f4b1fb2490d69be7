package server

import (
	"net/http"
	"strings"

	exchangedomain "github.com/alldenims/pricequote/internal/exchange/domain"
	quotationdomain "github.com/alldenims/pricequote/internal/quotation/domain"
	"github.com/alldenims/pricequote/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var quotesCalculatedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pricequote_quotes_calculated_total",
	Help: "Number of price calculations performed.",
})

var offersGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pricequote_offers_generated_total",
	Help: "Number of PDF price offers generated.",
})

type materialLineRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Currency  string          `json:"currency"`
}

// calculateRequest is the canonical calculation schema. Earlier client
// revisions posted pre-aggregated TRY totals per material; the canonical
// form takes per-line unit price, quantity and currency so the server
// owns the conversion.
type calculateRequest struct {
	CustomerID   string              `json:"customer_id"`
	Fabric       materialLineRequest `json:"fabric"`
	Lining       materialLineRequest `json:"lining"`
	Trim         materialLineRequest `json:"trim"`
	LaborCost    decimal.Decimal     `json:"labor_cost"`
	Overhead     decimal.Decimal     `json:"overhead"`
	Commission   decimal.Decimal     `json:"commission"`
	VAT          *decimal.Decimal    `json:"vat"`
	ProfitMargin *decimal.Decimal    `json:"profit_margin"`
}

func (r calculateRequest) toParams() quotationdomain.CascadeParams {
	vat := decimal.NewFromInt(18)
	if r.VAT != nil {
		vat = *r.VAT
	}
	profit := decimal.NewFromInt(20)
	if r.ProfitMargin != nil {
		profit = *r.ProfitMargin
	}
	return quotationdomain.CascadeParams{
		OverheadPct:   r.Overhead,
		ProfitPct:     profit,
		CommissionPct: r.Commission,
		VATPct:        vat,
	}
}

func parseMaterialLine(req materialLineRequest) (quotationdomain.MaterialLine, error) {
	code := strings.TrimSpace(req.Currency)
	if code == "" {
		code = string(exchangedomain.TRY)
	}
	currency, ok := exchangedomain.ParseCurrency(code)
	if !ok {
		return quotationdomain.MaterialLine{}, quotationdomain.ErrInvalidCurrency
	}
	return quotationdomain.MaterialLine{
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		Currency:  currency,
	}, nil
}

func (r calculateRequest) toLines() (fabric, lining, trim quotationdomain.MaterialLine, err error) {
	if fabric, err = parseMaterialLine(r.Fabric); err != nil {
		return
	}
	if lining, err = parseMaterialLine(r.Lining); err != nil {
		return
	}
	trim, err = parseMaterialLine(r.Trim)
	return
}

func (s *Server) CalculatePrices(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	fabric, lining, trim, err := req.toLines()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.quotationSvc.Calculate(c.Request.Context(), quotationdomain.CalculateRequest{
		CustomerID: strings.TrimSpace(req.CustomerID),
		Fabric:     fabric,
		Lining:     lining,
		Trim:       trim,
		LaborCost:  req.LaborCost,
		Params:     req.toParams(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	quotesCalculatedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PriceHistory(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CustomerID string `form:"customer_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quotationSvc.History(c.Request.Context(), quotationdomain.HistoryRequest{
		CustomerID: strings.TrimSpace(query.CustomerID),
		PageToken:  query.PageToken,
		PageSize:   query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DownloadOffer(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	fabric, lining, trim, err := req.toLines()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, filename, err := s.quotationSvc.Offer(c.Request.Context(), quotationdomain.OfferRequest{
		CustomerID: strings.TrimSpace(req.CustomerID),
		Fabric:     fabric,
		Lining:     lining,
		Trim:       trim,
		LaborCost:  req.LaborCost,
		Params:     req.toParams(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	offersGeneratedTotal.Inc()
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
