package models

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andreysx/storefront/apperr"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{
		db: db,
	}
}

// AddItem puts quantity units of a product into the user's cart, folding
// into the existing row when there is one. The fold is a single upsert on
// the (user_id, product_id) unique index: two concurrent first-adds collapse
// into one row with the summed quantity and neither caller sees a constraint
// error.
func (r *CartRepository) AddItem(userID, productID uint, quantity int) (*CartItem, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := productMustBeActive(tx, productID); err != nil {
			return err
		}

		item := CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("quantity + excluded.quantity"),
			}),
		}).Create(&item).Error
		if err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.getItem(userID, productID)
}

// UpdateItem sets the exact quantity of an existing cart row.
func (r *CartRepository) UpdateItem(userID, productID uint, quantity int) (*CartItem, error) {
	res := r.db.Model(&CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("cart item not found")
	}
	return r.getItem(userID, productID)
}

// RemoveItem deletes one cart row.
func (r *CartRepository) RemoveItem(userID, productID uint) error {
	res := r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&CartItem{})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("cart item not found")
	}
	return nil
}

// Clear deletes every row of the user's cart. An already-empty cart is fine.
func (r *CartRepository) Clear(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&CartItem{}).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// GetCart returns the cart with live totals. Prices come from the current
// product record; a product that has gone missing or inactive since it was
// added contributes zero to the total but its row is kept.
func (r *CartRepository) GetCart(userID uint) (Cart, error) {
	items := make([]CartItem, 0)
	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return Cart{}, apperr.Internal(err)
	}

	totalQuantity := 0
	totalPrice := decimal.Zero
	for _, item := range items {
		totalQuantity += item.Quantity
		if item.Product.ID != 0 && item.Product.IsActive {
			totalPrice = totalPrice.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	return Cart{
		UserID:        userID,
		Items:         items,
		TotalQuantity: totalQuantity,
		TotalPrice:    totalPrice,
	}, nil
}

func (r *CartRepository) getItem(userID, productID uint) (*CartItem, error) {
	var item CartItem
	err := r.db.Preload("Product").
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart item not found")
		}
		return nil, apperr.Internal(err)
	}
	return &item, nil
}
