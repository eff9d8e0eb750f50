package models

// User roles. Buyers review products, sellers own them, admins manage both.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User is an account. The password hash is opaque to this service and never
// serialized.
type User struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Email          string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	HashedPassword string `gorm:"size:255;not null" json:"-"`
	Role           string `gorm:"size:20;not null;default:buyer" json:"role"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`
}

func (u *User) TableName() string {
	return "users"
}
