package models

import (
	"gorm.io/gorm"

	"github.com/andreysx/storefront/apperr"
)

type ReviewsRepository struct {
	db *gorm.DB
}

func NewReviewsRepository(db *gorm.DB) *ReviewsRepository {
	return &ReviewsRepository{
		db: db,
	}
}

// GetAll returns every active review.
func (r *ReviewsRepository) GetAll() ([]Review, error) {
	reviews := make([]Review, 0)
	if err := r.db.Scopes(Active).Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return reviews, nil
}

// GetByProduct returns the active reviews of an active product.
func (r *ReviewsRepository) GetByProduct(productID uint) ([]Review, error) {
	if err := productMustBeActive(r.db, productID); err != nil {
		return nil, err
	}
	reviews := make([]Review, 0)
	if err := r.db.Scopes(Active).Where("product_id = ?", productID).Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return reviews, nil
}

// Create inserts a review for an active product and recomputes the product
// rating in the same transaction.
func (r *ReviewsRepository) Create(review *Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := productMustBeActive(tx, review.ProductID); err != nil {
			return err
		}
		review.IsActive = true
		if err := tx.Create(review).Error; err != nil {
			return apperr.Internal(err)
		}
		return recomputeRating(tx, review.ProductID)
	})
}

// SoftDelete deactivates a review on behalf of its author or an admin, then
// recomputes the product rating. Both writes commit or roll back together.
func (r *ReviewsRepository) SoftDelete(id, userID uint, isAdmin bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var review Review
		if err := tx.Scopes(Active).First(&review, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("review not found or inactive")
			}
			return apperr.Internal(err)
		}
		if review.UserID != userID && !isAdmin {
			return apperr.Forbidden("you can't perform this action")
		}
		if err := tx.Model(&review).Update("is_active", false).Error; err != nil {
			return apperr.Internal(err)
		}
		return recomputeRating(tx, review.ProductID)
	})
}

// recomputeRating overwrites the product rating with the mean grade of its
// active reviews, or 0 when none remain. Intentionally unlocked: if two
// mutations race, the last commit wins, which is acceptable for a derived
// statistic.
func recomputeRating(tx *gorm.DB, productID uint) error {
	var rating float64
	err := tx.Model(&Review{}).
		Scopes(Active).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(grade), 0)").
		Scan(&rating).Error
	if err != nil {
		return apperr.Internal(err)
	}
	if err := tx.Model(&Product{}).Where("id = ?", productID).Update("rating", rating).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func productMustBeActive(tx *gorm.DB, productID uint) error {
	var count int64
	if err := tx.Model(&Product{}).Scopes(Active).Where("id = ?", productID).Count(&count).Error; err != nil {
		return apperr.Internal(err)
	}
	if count == 0 {
		return apperr.NotFound("product not found or inactive")
	}
	return nil
}
