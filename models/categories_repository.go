package models

import (
	"gorm.io/gorm"

	"github.com/andreysx/storefront/apperr"
)

// maxCategoryDepth bounds the ancestor walk used for cycle detection.
const maxCategoryDepth = 32

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

// GetAll returns every active category.
func (r *CategoriesRepository) GetAll() ([]Category, error) {
	categories := make([]Category, 0)
	if err := r.db.Scopes(Active).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

// Create inserts a category. The parent, if given, must exist and be active
// at write time.
func (r *CategoriesRepository) Create(category *Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := parentMustBeActive(tx, category.ParentID); err != nil {
			return err
		}
		category.IsActive = true
		if err := tx.Create(category).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

// Update renames or re-parents a category. Re-parenting re-checks that the
// parent is active and that the new edge does not close a cycle.
func (r *CategoriesRepository) Update(id uint, name string, parentID *uint) (*Category, error) {
	var updated Category
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var category Category
		if err := tx.Scopes(Active).First(&category, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("category not found or inactive")
			}
			return apperr.Internal(err)
		}
		if err := parentMustBeActive(tx, parentID); err != nil {
			return err
		}
		if err := checkNoCycle(tx, id, parentID); err != nil {
			return err
		}
		category.Name = name
		category.ParentID = parentID
		if err := tx.Save(&category).Error; err != nil {
			return apperr.Internal(err)
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SoftDelete marks a category inactive. Children and products keep their own
// active flag; nothing cascades.
func (r *CategoriesRepository) SoftDelete(id uint) error {
	res := r.db.Model(&Category{}).Scopes(Active).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("category not found or inactive")
	}
	return nil
}

func parentMustBeActive(tx *gorm.DB, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&Category{}).Scopes(Active).Where("id = ?", *parentID).Count(&count).Error; err != nil {
		return apperr.Internal(err)
	}
	if count == 0 {
		return apperr.NotFound("parent category not found or inactive")
	}
	return nil
}

// checkNoCycle walks up from the proposed parent. Hitting the category being
// updated means the new edge would close a loop; running past the depth
// bound is treated the same way.
func checkNoCycle(tx *gorm.DB, id uint, parentID *uint) error {
	current := parentID
	for depth := 0; current != nil; depth++ {
		if *current == id {
			return apperr.Validation("category cannot be its own ancestor")
		}
		if depth >= maxCategoryDepth {
			return apperr.Validation("category tree too deep")
		}
		var parent Category
		if err := tx.Select("id", "parent_id").First(&parent, *current).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return apperr.Internal(err)
		}
		current = parent.ParentID
	}
	return nil
}
