package migration

import (
	customerdomain "github.com/alldenims/pricequote/internal/customer/domain"
	quotationdomain "github.com/alldenims/pricequote/internal/quotation/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(AutoMigrate),
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&customerdomain.Customer{},
		&quotationdomain.QuoteRecord{},
	)
}
