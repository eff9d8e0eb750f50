package models

import "time"

// Review is a buyer's grade of a product. Deleting a review flips IsActive;
// only active reviews count toward the product rating.
type Review struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Comment     string    `gorm:"size:500" json:"comment"`
	Grade       int       `gorm:"not null" json:"grade"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CommentDate time.Time `gorm:"autoCreateTime" json:"comment_date"`
}

func (r *Review) TableName() string {
	return "reviews"
}
