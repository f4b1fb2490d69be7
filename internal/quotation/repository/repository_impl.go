package repository

import (
	"context"
	"time"

	"github.com/alldenims/pricequote/internal/quotation/domain"
	"github.com/alldenims/pricequote/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.QuoteRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.HistoryFilter, page pagination.Pagination) ([]*domain.QuoteRecord, error) {
	var records []*domain.QuoteRecord
	stmt := db.WithContext(ctx).Model(&domain.QuoteRecord{})
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		cursorAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursorAt, cursorAt, cursor.ID,
		)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(page.PageSize + 1).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
