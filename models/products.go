package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
// Rating is derived from active reviews and written only by the reviews
// repository; IsActive implements soft deletion.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:500" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string          `gorm:"size:200" json:"image_url"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Rating      float64         `gorm:"not null;default:0" json:"rating"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Category    Category        `gorm:"foreignKey:CategoryID" json:"-"`
	SellerID    uint            `gorm:"not null;index" json:"seller_id"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p *Product) TableName() string {
	return "products"
}
