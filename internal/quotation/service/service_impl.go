package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alldenims/pricequote/internal/brackets"
	"github.com/alldenims/pricequote/internal/clock"
	"github.com/alldenims/pricequote/internal/config"
	customerdomain "github.com/alldenims/pricequote/internal/customer/domain"
	exchangedomain "github.com/alldenims/pricequote/internal/exchange/domain"
	"github.com/alldenims/pricequote/internal/providers/pdf"
	"github.com/alldenims/pricequote/internal/quotation/domain"
	"github.com/alldenims/pricequote/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	CustomerSvc customerdomain.Service
	ExchangeSvc exchangedomain.Service
	Brackets    *brackets.Holder
	PDF         pdf.Provider
}

type Service struct {
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	customerSvc customerdomain.Service
	exchangeSvc exchangedomain.Service
	brackets    *brackets.Holder
	pdf         pdf.Provider
}

func New(p Params) domain.Service {
	return &Service{
		cfg:         p.Cfg,
		db:          p.DB,
		log:         p.Log.Named("quotation.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		customerSvc: p.CustomerSvc,
		exchangeSvc: p.ExchangeSvc,
		brackets:    p.Brackets,
		pdf:         p.PDF,
	}
}

func (s *Service) Calculate(ctx context.Context, req domain.CalculateRequest) (domain.CalculateResponse, error) {
	customer, err := s.lookupCustomer(ctx, req.CustomerID)
	if err != nil {
		return domain.CalculateResponse{}, err
	}

	session := domain.NewSession()
	session.SetFabric(req.Fabric)
	session.SetLining(req.Lining)
	session.SetTrim(req.Trim)
	session.SetLaborCost(req.LaborCost)
	session.SetParams(req.Params)

	rates, hasRates := s.exchangeSvc.Current()

	totals := AggregateMaterials(req.Fabric, req.Lining, req.Trim, req.LaborCost, rates)
	cascade := RunCascade(totals.TotalTRY, req.Params)
	rows := ApplyBrackets(cascade, s.brackets.Get(), rates, hasRates)

	session.MarkCalculated()
	snapshot, err := session.Snapshot()
	if err != nil {
		return domain.CalculateResponse{}, err
	}

	record := domain.QuoteRecord{
		ID:            s.genID.Generate(),
		CustomerID:    customer.ID,
		FabricTRY:     totals.FabricTRY,
		LiningTRY:     totals.LiningTRY,
		TrimTRY:       totals.TrimTRY,
		LaborTRY:      totals.LaborTRY,
		TotalCostTRY:  totals.TotalTRY,
		OverheadPct:   snapshot.Params.OverheadPct,
		ProfitPct:     snapshot.Params.ProfitPct,
		CommissionPct: snapshot.Params.CommissionPct,
		VATPct:        snapshot.Params.VATPct,
		FinalPriceTRY: cascade.FinalPriceTRY,
		Currency:      string(exchangedomain.TRY),
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		return domain.CalculateResponse{}, err
	}

	resp := domain.CalculateResponse{
		Customer: domain.CustomerRef{
			ID:      customer.ID,
			Name:    customer.Name,
			Country: customer.Country,
		},
		Materials:  totals,
		Cascade:    cascade,
		Breakdowns: rows,
		RecordID:   record.ID,
	}
	if hasRates {
		resp.Rates = &rates
	}
	return resp, nil
}

func (s *Service) History(ctx context.Context, req domain.HistoryRequest) (domain.HistoryResponse, error) {
	var filter domain.HistoryFilter
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
		if err != nil {
			return domain.HistoryResponse{}, domain.ErrInvalidCustomer
		}
		filter.CustomerID = id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.HistoryResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(record *domain.QuoteRecord) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        record.ID.String(),
			CreatedAt: record.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	records := make([]domain.QuoteRecord, 0, len(items))
	for _, item := range items {
		records = append(records, *item)
	}

	return domain.HistoryResponse{
		PageInfo: *pageInfo,
		Records:  records,
	}, nil
}

// Offer renders the PDF price offer. The offer table is derived from the
// first bracket's EUR price with the discount schedule re-applied to that
// single figure; it does not reuse the per-bracket TRY results. This is
// deliberate parity with offers already in customers' hands.
func (s *Service) Offer(ctx context.Context, req domain.OfferRequest) ([]byte, string, error) {
	customer, err := s.lookupCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, "", err
	}

	rates, hasRates := s.exchangeSvc.Current()
	if !hasRates || !rates.EURTRY.IsPositive() {
		return nil, "", domain.ErrOfferUnavailable
	}

	totals := AggregateMaterials(req.Fabric, req.Lining, req.Trim, req.LaborCost, rates)
	cascade := RunCascade(totals.TotalTRY, req.Params)

	firstPriceEUR := ToForeign(cascade.FinalPriceTRY, exchangedomain.EUR, rates)
	if firstPriceEUR == nil {
		return nil, "", domain.ErrOfferUnavailable
	}

	schedule := s.brackets.Get()
	rowCount := 4
	if len(schedule.Brackets) < rowCount {
		rowCount = len(schedule.Brackets)
	}

	one := decimal.NewFromInt(1)
	offerRows := make([]pdf.OfferRow, 0, rowCount)
	for _, b := range schedule.Brackets[:rowCount] {
		rate := decimal.NewFromFloat(b.Discount)
		price := firstPriceEUR.Mul(one.Sub(rate)).Round(2)
		offerRows = append(offerRows, pdf.OfferRow{
			Bracket:    b.Label,
			UnitPrice:  price.StringFixed(2),
			Discount:   fmt.Sprintf("%.0f%%", b.Discount*100),
			FinalPrice: price.StringFixed(2),
		})
	}

	now := s.clock.Now()
	data := pdf.OfferData{
		CustomerName: customer.Name,
		Country:      customer.Country,
		Attention:    s.cfg.OfferAttention,
		Currency:     string(exchangedomain.EUR),
		Date:         now.Format("02.01.2006"),
		Validity:     now.AddDate(0, 0, 7).Format("02.01.2006"),
		Rows:         offerRows,
	}

	reader, err := s.pdf.GenerateOffer(ctx, data)
	if err != nil {
		return nil, "", err
	}
	doc, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("price_offer_%s_%s.pdf",
		strings.ReplaceAll(customer.Name, " ", "_"),
		now.Format("2006-01-02"),
	)
	return doc, filename, nil
}

func (s *Service) lookupCustomer(ctx context.Context, id string) (customerdomain.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return customerdomain.Customer{}, domain.ErrInvalidCustomer
	}
	customer, err := s.customerSvc.GetByID(ctx, customerdomain.GetCustomerRequest{ID: id})
	if err != nil {
		if err == customerdomain.ErrNotFound {
			return customerdomain.Customer{}, domain.ErrCustomerNotFound
		}
		if err == customerdomain.ErrInvalidID {
			return customerdomain.Customer{}, domain.ErrInvalidCustomer
		}
		return customerdomain.Customer{}, err
	}
	return customer, nil
}
