package models

import (
	"errors"

	"gorm.io/gorm"

	"github.com/andreysx/storefront/apperr"
)

type UsersRepository struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *UsersRepository {
	return &UsersRepository{
		db: db,
	}
}

// Create registers a user. The unique email index turns duplicate
// registrations into a Conflict.
func (r *UsersRepository) Create(user *User) error {
	user.IsActive = true
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("email already registered")
		}
		return apperr.Internal(err)
	}
	return nil
}

// FindActiveByEmail looks up a user for login. Deactivated accounts cannot
// authenticate.
func (r *UsersRepository) FindActiveByEmail(email string) (*User, error) {
	var user User
	err := r.db.Scopes(Active).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// UpdateRole sets a user's role. Admin-only at the HTTP layer.
func (r *UsersRepository) UpdateRole(id uint, role string) (*User, error) {
	var user User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}
	if err := r.db.Model(&user).Update("role", role).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &user, nil
}
