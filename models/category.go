package models

// Category represents a product category. Categories form a tree through
// ParentID; rows are soft-deleted by flipping IsActive, never removed.
type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:50;not null" json:"name"`
	ParentID *uint  `gorm:"index" json:"parent_id"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

func (c *Category) TableName() string {
	return "categories"
}
