package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alldenims/pricequote/internal/brackets"
	"github.com/alldenims/pricequote/internal/clock"
	"github.com/alldenims/pricequote/internal/config"
	customerrepo "github.com/alldenims/pricequote/internal/customer/repository"
	customersvc "github.com/alldenims/pricequote/internal/customer/service"
	exchangedomain "github.com/alldenims/pricequote/internal/exchange/domain"
	"github.com/alldenims/pricequote/internal/migration"
	"github.com/alldenims/pricequote/internal/providers/pdf"
	quotationrepo "github.com/alldenims/pricequote/internal/quotation/repository"
	quotationsvc "github.com/alldenims/pricequote/internal/quotation/service"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type exchangeStub struct {
	rates exchangedomain.RateSet
	ok    bool
}

func (s *exchangeStub) Current() (exchangedomain.RateSet, bool) {
	return s.rates, s.ok
}

func (s *exchangeStub) Refresh(ctx context.Context) (exchangedomain.RateSet, error) {
	if !s.ok {
		return exchangedomain.RateSet{}, exchangedomain.ErrFetchFailed
	}
	return s.rates, nil
}

type pdfStub struct{}

func (pdfStub) GenerateOffer(ctx context.Context, data pdf.OfferData) (io.Reader, error) {
	return bytes.NewReader([]byte("%PDF-1.4 stub")), nil
}

func testRates() exchangedomain.RateSet {
	return exchangedomain.RateSet{
		USDTRY:    decimal.RequireFromString("35.66"),
		EURTRY:    decimal.RequireFromString("37.13"),
		GBPTRY:    decimal.RequireFromString("47.50"),
		EURUSD:    decimal.RequireFromString("1.04"),
		FetchedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func setupTestServer(t *testing.T, exchange exchangedomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	custSvc := customersvc.New(customersvc.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  customerrepo.Provide(),
	})

	holder, err := brackets.NewHolder(log)
	require.NoError(t, err)

	quoteSvc := quotationsvc.New(quotationsvc.Params{
		Cfg:         config.Config{OfferAttention: "ZUHAINA"},
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       clock.NewFakeClock(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)),
		Repo:        quotationrepo.Provide(),
		CustomerSvc: custSvc,
		ExchangeSvc: exchange,
		Brackets:    holder,
		PDF:         pdfStub{},
	})

	engine := NewEngine(config.Config{}, log)
	s := NewServer(ServerParams{
		Gin:          engine,
		Cfg:          config.Config{},
		Log:          log,
		CustomerSvc:  custSvc,
		QuotationSvc: quoteSvc,
		ExchangeSvc:  exchange,
	})
	registerRoutes(s)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func createTestCustomer(t *testing.T, engine *gin.Engine) string {
	t.Helper()

	rec := doJSON(t, engine, http.MethodPost, "/v1/customers", map[string]string{
		"name":    "Nordic Apparel",
		"country": "Sweden",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func calculateBody(customerID string) map[string]any {
	return map[string]any{
		"customer_id": customerID,
		"fabric":      map[string]any{"unit_price": "100", "quantity": "10", "currency": "EUR"},
		"lining":      map[string]any{"unit_price": "50", "quantity": "10", "currency": "EUR"},
		"trim":        map[string]any{"unit_price": "20", "quantity": "10", "currency": "USD"},
		"labor_cost":  "0",
		"overhead":    "7",
		"commission":  "8",
	}
}

func TestCustomerCRUDOverHTTP(t *testing.T) {
	engine := setupTestServer(t, &exchangeStub{rates: testRates(), ok: true})

	id := createTestCustomer(t, engine)

	rec := doJSON(t, engine, http.MethodGet, "/v1/customers/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodPut, "/v1/customers/"+id, map[string]string{
		"name":    "Nordic Apparel AB",
		"country": "Norway",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/v1/customers", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodDelete, "/v1/customers/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/v1/customers/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerValidationOverHTTP(t *testing.T) {
	engine := setupTestServer(t, &exchangeStub{rates: testRates(), ok: true})

	rec := doJSON(t, engine, http.MethodPost, "/v1/customers", map[string]string{"name": "", "country": "Sweden"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/v1/customers/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateAppliesDefaults(t *testing.T) {
	engine := setupTestServer(t, &exchangeStub{rates: testRates(), ok: true})
	id := createTestCustomer(t, engine)

	// vat and profit_margin omitted; defaults 18 and 20 apply.
	rec := doJSON(t, engine, http.MethodPost, "/v1/prices/calculate", calculateBody(id))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Cascade struct {
				FinalPriceTRY decimal.Decimal `json:"final_price_try"`
				VATAmount     decimal.Decimal `json:"vat_amount"`
			} `json:"cascade"`
			Breakdowns []struct {
				Bracket            string           `json:"bracket"`
				DiscountedPriceTRY decimal.Decimal  `json:"discounted_price_try"`
				FinalPriceEUR      *decimal.Decimal `json:"final_price_eur"`
			} `json:"breakdowns"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "102805.68", resp.Data.Cascade.FinalPriceTRY.StringFixed(2))
	assert.Equal(t, "15682.22", resp.Data.Cascade.VATAmount.StringFixed(2))
	require.Len(t, resp.Data.Breakdowns, 6)
	assert.Equal(t, "0-50", resp.Data.Breakdowns[0].Bracket)
	require.NotNil(t, resp.Data.Breakdowns[0].FinalPriceEUR)
}

func TestCalculateRejectsUnknownCurrency(t *testing.T) {
	engine := setupTestServer(t, &exchangeStub{rates: testRates(), ok: true})
	id := createTestCustomer(t, engine)

	body := calculateBody(id)
	body["fabric"] = map[string]any{"unit_price": "100", "quantity": "10", "currency": "JPY"}

	rec := doJSON(t, engine, http.MethodPost, "/v1/prices/calculate", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateUnknownCustomer(t *testing.T) {
	engine := setupTestServer(t, &exchangeStub{rates: testRates(), ok: true})

	rec := doJSON(t, engine, http.MethodPost, "/v1/prices/calculate", calculateBody("123456789"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPriceHistoryOverHTTP(t *testing.T) {
	engine := setupTestServer(t, &exchangeStub{rates: testRates(), ok: true})
	id := createTestCustomer(t, engine)

	rec := doJSON(t, engine, http.MethodPost, "/v1/prices/calculate", calculateBody(id))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/v1/prices/history?customer_id=%s", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Records []json.RawMessage `json:"records"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Records, 1)
}

func TestOfferDownload(t *testing.T) {
	engine := setupTestServer(t, &exchangeStub{rates: testRates(), ok: true})
	id := createTestCustomer(t, engine)

	rec := doJSON(t, engine, http.MethodPost, "/v1/prices/offer", calculateBody(id))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "price_offer_Nordic_Apparel_")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestOfferUnavailableWithoutRates(t *testing.T) {
	engine := setupTestServer(t, &exchangeStub{ok: false})
	id := createTestCustomer(t, engine)

	rec := doJSON(t, engine, http.MethodPost, "/v1/prices/offer", calculateBody(id))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExchangeRatesEndpoints(t *testing.T) {
	stub := &exchangeStub{ok: false}
	engine := setupTestServer(t, stub)

	rec := doJSON(t, engine, http.MethodGet, "/v1/exchange/rates", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	stub.rates = testRates()
	stub.ok = true

	rec = doJSON(t, engine, http.MethodGet, "/v1/exchange/rates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data exchangedomain.RateSet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "37.13", resp.Data.EURTRY.StringFixed(2))

	rec = doJSON(t, engine, http.MethodPost, "/v1/exchange/rates/refresh", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	engine := setupTestServer(t, &exchangeStub{ok: false})

	rec := doJSON(t, engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
