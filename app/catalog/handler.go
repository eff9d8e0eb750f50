package catalog

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreysx/storefront/app/api"
	"github.com/andreysx/storefront/app/auth"
	"github.com/andreysx/storefront/apperr"
	"github.com/andreysx/storefront/models"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

type ProductProvider interface {
	List(page, pageSize int, filters models.ProductFilters) (models.ProductPage, error)
	GetActive(id uint) (*models.Product, error)
	GetAny(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	SoftDelete(id uint) error
	SetImageURL(id uint, url string) error
}

// AssetStore is the narrow slice of the asset storage collaborator the
// catalog needs: bytes in, stable reference out.
type AssetStore interface {
	Put(data []byte, contentType string) (string, error)
	Delete(ref string) error
}

type CatalogHandler struct {
	repo  ProductProvider
	store AssetStore
	log   *zap.Logger
}

func NewCatalogHandler(r ProductProvider, store AssetStore, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		repo:  r,
		store: store,
		log:   log,
	}
}

// HandleList serves the catalog listing with optional filters, ranked search
// and pagination.
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, pageSize, filters, err := parseListParams(r)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	result, err := h.repo.List(page, pageSize, filters)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusOK, result)
}

// HandleGetProduct serves one active product.
func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	product, err := h.repo.GetActive(id)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusOK, product)
}

type productInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  uint            `json:"category_id"`
}

func (in *productInput) validate() error {
	if l := len(strings.TrimSpace(in.Name)); l < 3 || l > 100 {
		return apperr.Validation("name must be 3-100 characters")
	}
	if len(in.Description) > 500 {
		return apperr.Validation("description must be at most 500 characters")
	}
	if !in.Price.IsPositive() {
		return apperr.Validation("price must be greater than zero")
	}
	if in.Price.Exponent() < -2 {
		return apperr.Validation("price must have at most 2 decimal places")
	}
	if in.Stock < 0 {
		return apperr.Validation("stock must be zero or more")
	}
	if in.CategoryID == 0 {
		return apperr.Validation("category_id is required")
	}
	return nil
}

// HandleCreate creates a product owned by the authenticated seller.
func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		api.Error(w, h.log, apperr.Forbidden("authentication required"))
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	if err := input.validate(); err != nil {
		api.Error(w, h.log, err)
		return
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		SellerID:    principal.ID,
		IsActive:    true,
	}
	if err := h.repo.Create(product); err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusCreated, product)
}

// HandleUpdate replaces the mutable fields of a product the caller owns.
func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	if err := input.validate(); err != nil {
		api.Error(w, h.log, err)
		return
	}

	product, err := h.ownedProduct(r)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.CategoryID = input.CategoryID
	if err := h.repo.Update(product); err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusOK, product)
}

// HandleDelete soft-deletes a product the caller owns.
func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	product, err := h.ownedProduct(r)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	if err := h.repo.SoftDelete(product.ID); err != nil {
		api.Error(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadImage stores the request body as the product image and keeps
// only the returned reference. A replaced image's old reference is deleted.
func (h *CatalogHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	product, err := h.ownedProduct(r)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		api.Error(w, h.log, apperr.Validation("could not read request body"))
		return
	}

	ref, err := h.store.Put(data, r.Header.Get("Content-Type"))
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	if err := h.repo.SetImageURL(product.ID, ref); err != nil {
		api.Error(w, h.log, err)
		return
	}
	if product.ImageURL != "" {
		if err := h.store.Delete(product.ImageURL); err != nil {
			h.log.Warn("could not delete replaced image", zap.String("ref", product.ImageURL), zap.Error(err))
		}
	}

	api.JSON(w, http.StatusOK, map[string]string{"image_url": ref})
}

// ownedProduct loads the product addressed by the path and enforces
// ownership. The load ignores the active flag so a wrong seller gets
// Forbidden, not NotFound.
func (h *CatalogHandler) ownedProduct(r *http.Request) (*models.Product, error) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		return nil, apperr.Forbidden("authentication required")
	}
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	product, err := h.repo.GetAny(id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != principal.ID && principal.Role != models.RoleAdmin {
		return nil, apperr.Forbidden("you don't own this product")
	}
	return product, nil
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}

func parseListParams(r *http.Request) (int, int, models.ProductFilters, error) {
	q := r.URL.Query()
	filters := models.ProductFilters{}

	page := defaultPage
	if s := q.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return 0, 0, filters, apperr.Validation("page must be a positive integer")
		}
		page = v
	}

	pageSize := defaultPageSize
	if s := q.Get("page_size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxPageSize {
			return 0, 0, filters, apperr.Validation("page_size must be between 1 and 100")
		}
		pageSize = v
	}

	if s := q.Get("category_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, 0, filters, apperr.Validation("category_id must be an integer")
		}
		id := uint(v)
		filters.CategoryID = &id
	}

	for _, p := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"min_price", &filters.MinPrice},
		{"max_price", &filters.MaxPrice},
	} {
		if s := q.Get(p.name); s != "" {
			v, err := decimal.NewFromString(s)
			if err != nil || v.IsNegative() {
				return 0, 0, filters, apperr.Validation(p.name + " must be a non-negative number")
			}
			*p.dst = &v
		}
	}

	if s := q.Get("in_stock"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return 0, 0, filters, apperr.Validation("in_stock must be a boolean")
		}
		filters.InStock = &v
	}

	if s := q.Get("seller_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, 0, filters, apperr.Validation("seller_id must be an integer")
		}
		id := uint(v)
		filters.SellerID = &id
	}

	if s := q.Get("created_at"); s != "" {
		v, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return 0, 0, filters, apperr.Validation("created_at must be an RFC3339 timestamp")
		}
		filters.CreatedAfter = &v
	}

	filters.Search = q.Get("search")

	return page, pageSize, filters, nil
}
