package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andreysx/storefront/apperr"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// ProductFilters are the optional catalog listing filters. A nil pointer (or
// empty Search) means the filter is absent and contributes no predicate.
type ProductFilters struct {
	CategoryID   *uint
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	InStock      *bool
	SellerID     *uint
	CreatedAfter *time.Time
	Search       string
}

// ProductPage is one page of catalog results. Total counts every row
// matching the filters, not just the returned page.
type ProductPage struct {
	Items    []Product `json:"items"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// List runs the catalog query: active-only plus one predicate per present
// filter, total counted before pagination, deterministic ordering. Search
// results come back by rank descending with id as tie-break, everything else
// by id ascending.
func (r *ProductsRepository) List(page, pageSize int, filters ProductFilters) (ProductPage, error) {
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return ProductPage{}, apperr.Validation("min_price must not exceed max_price")
	}

	query := r.db.Model(&Product{}).Scopes(Active)

	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.InStock != nil {
		if *filters.InStock {
			query = query.Where("stock > 0")
		} else {
			query = query.Where("stock = 0")
		}
	}
	if filters.SellerID != nil {
		query = query.Where("seller_id = ?", *filters.SellerID)
	}
	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}

	search := strings.TrimSpace(filters.Search)
	pattern := "%" + strings.ToLower(search) + "%"
	if search != "" {
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return ProductPage{}, apperr.Internal(err)
	}

	if search != "" {
		// Name matches outrank description-only matches; equal ranks fall
		// back to ascending id so repeated calls paginate identically.
		query = query.
			Select("products.*, (CASE WHEN LOWER(name) LIKE ? THEN 2 ELSE 0 END) + (CASE WHEN LOWER(description) LIKE ? THEN 1 ELSE 0 END) AS search_rank", pattern, pattern).
			Order("search_rank DESC, id ASC")
	} else {
		query = query.Order("id ASC")
	}

	items := make([]Product, 0, pageSize)
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Find(&items).Error; err != nil {
		return ProductPage{}, apperr.Internal(err)
	}

	return ProductPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetActive returns a product visible to the catalog.
func (r *ProductsRepository) GetActive(id uint) (*Product, error) {
	var product Product
	err := r.db.Scopes(Active).First(&product, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("product not found or inactive")
		}
		return nil, apperr.Internal(err)
	}
	return &product, nil
}

// GetAny loads a product by primary key regardless of its active flag. Used
// for ownership checks, where a soft-deleted row must still yield Forbidden
// rather than NotFound for the wrong seller.
func (r *ProductsRepository) GetAny(id uint) (*Product, error) {
	var product Product
	err := r.db.First(&product, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal(err)
	}
	return &product, nil
}

// Create inserts a product after confirming the referenced category is
// active. Absent and inactive categories are deliberately indistinguishable.
func (r *ProductsRepository) Create(product *Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := categoryMustBeActive(tx, product.CategoryID); err != nil {
			return err
		}
		if err := tx.Create(product).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

// Update persists changes to a product, re-checking the category reference.
// The rating column is never written here; it belongs to the review
// aggregation, and saving a loaded snapshot could reinstate a stale value.
func (r *ProductsRepository) Update(product *Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := categoryMustBeActive(tx, product.CategoryID); err != nil {
			return err
		}
		if err := tx.Omit("rating", "created_at").Save(product).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

// SoftDelete marks a product inactive. The row stays; reviews and cart rows
// referencing it are untouched.
func (r *ProductsRepository) SoftDelete(id uint) error {
	res := r.db.Model(&Product{}).Scopes(Active).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("product not found or inactive")
	}
	return nil
}

// SetImageURL stores the asset reference for a product's image.
func (r *ProductsRepository) SetImageURL(id uint, url string) error {
	if err := r.db.Model(&Product{}).Where("id = ?", id).Update("image_url", url).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func categoryMustBeActive(tx *gorm.DB, categoryID uint) error {
	var count int64
	if err := tx.Model(&Category{}).Scopes(Active).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return apperr.Internal(err)
	}
	if count == 0 {
		return apperr.NotFound("category not found or inactive")
	}
	return nil
}
