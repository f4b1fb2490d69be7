package domain

import (
	"context"

	"github.com/alldenims/pricequote/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type HistoryFilter struct {
	CustomerID snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *QuoteRecord) error
	List(ctx context.Context, db *gorm.DB, filter HistoryFilter, page pagination.Pagination) ([]*QuoteRecord, error)
}
