package cart

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/andreysx/storefront/app/api"
	"github.com/andreysx/storefront/app/auth"
	"github.com/andreysx/storefront/apperr"
	"github.com/andreysx/storefront/models"
)

type CartProvider interface {
	AddItem(userID, productID uint, quantity int) (*models.CartItem, error)
	UpdateItem(userID, productID uint, quantity int) (*models.CartItem, error)
	RemoveItem(userID, productID uint) error
	Clear(userID uint) error
	GetCart(userID uint) (models.Cart, error)
}

type CartHandler struct {
	repo CartProvider
	log  *zap.Logger
}

func NewCartHandler(r CartProvider, log *zap.Logger) *CartHandler {
	return &CartHandler{repo: r, log: log}
}

// HandleGet returns the caller's cart with live totals.
func (h *CartHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		api.Error(w, h.log, apperr.Forbidden("authentication required"))
		return
	}

	cart, err := h.repo.GetCart(principal.ID)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusOK, cart)
}

// HandleAddItem adds a product to the cart or increments the existing row.
func (h *CartHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		api.Error(w, h.log, apperr.Forbidden("authentication required"))
		return
	}

	var input struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	if input.Quantity < 1 {
		api.Error(w, h.log, apperr.Validation("quantity must be at least 1"))
		return
	}

	item, err := h.repo.AddItem(principal.ID, input.ProductID, input.Quantity)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusCreated, item)
}

// HandleUpdateItem sets the exact quantity of a cart row. Quantity zero is
// rejected; removal has its own route.
func (h *CartHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		api.Error(w, h.log, apperr.Forbidden("authentication required"))
		return
	}

	productID, err := pathProductID(r)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	if input.Quantity < 1 {
		api.Error(w, h.log, apperr.Validation("quantity must be at least 1"))
		return
	}

	item, err := h.repo.UpdateItem(principal.ID, productID, input.Quantity)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusOK, item)
}

// HandleRemoveItem deletes one cart row.
func (h *CartHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		api.Error(w, h.log, apperr.Forbidden("authentication required"))
		return
	}

	productID, err := pathProductID(r)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	if err := h.repo.RemoveItem(principal.ID, productID); err != nil {
		api.Error(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleClear empties the cart. Clearing an empty cart succeeds.
func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		api.Error(w, h.log, apperr.Forbidden("authentication required"))
		return
	}

	if err := h.repo.Clear(principal.ID); err != nil {
		api.Error(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathProductID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("productID"), 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid product id")
	}
	return uint(id), nil
}
