package models

import "github.com/shopspring/decimal"

// CartItem is one line of a user's cart. The composite unique index is the
// mutual-exclusion boundary for concurrent adds: the add upsert folds a
// conflicting insert into an increment of the existing row. Cart rows are
// physically deleted, never soft-deleted.
type CartItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    uint    `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"-"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"-"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (c *CartItem) TableName() string {
	return "cart_items"
}

// Cart is the aggregated view of a user's cart. TotalPrice always reflects
// the current product price; inactive or missing products contribute zero
// but their rows still appear.
type Cart struct {
	UserID        uint            `json:"user_id"`
	Items         []CartItem      `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}
