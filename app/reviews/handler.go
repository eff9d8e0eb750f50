package reviews

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

type ReviewProvider interface {
	GetAll() ([]models.Review, error)
	GetByProduct(productID uint) ([]models.Review, error)
	Create(review *models.Review) error
	SoftDelete(id, userID uint, isAdmin bool) error
}

type ReviewHandler struct {
	repo ReviewProvider
	log  *zap.Logger
}

func NewReviewHandler(r ReviewProvider, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{repo: r, log: log}
}

func (h *ReviewHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.repo.GetAll()
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) HandleGetByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseUint(r.PathValue("productID"), 10, 32)
	if err != nil {
		api.Error(w, h.log, apperr.Validation("invalid product id"))
		return
	}

	reviews, err := h.repo.GetByProduct(uint(productID))
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, reviews)
}

// HandleCreate records a buyer's review and triggers the rating recompute.
func (h *ReviewHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		api.Error(w, h.log, apperr.Forbidden("authentication required"))
		return
	}

	var input struct {
		ProductID uint   `json:"product_id"`
		Comment   string `json:"comment"`
		Grade     int    `json:"grade"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	if input.Grade < 1 || input.Grade > 5 {
		api.Error(w, h.log, apperr.Validation("grade must be between 1 and 5"))
		return
	}
	if len(input.Comment) > 500 {
		api.Error(w, h.log, apperr.Validation("comment must be at most 500 characters"))
		return
	}

	review := &models.Review{
		ProductID: input.ProductID,
		Comment:   input.Comment,
		Grade:     input.Grade,
		UserID:    principal.ID,
	}
	if err := h.repo.Create(review); err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusCreated, review)
}

// HandleDelete soft-deletes a review as its author or an admin.
func (h *ReviewHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		api.Error(w, h.log, apperr.Forbidden("authentication required"))
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		api.Error(w, h.log, apperr.Validation("invalid id"))
		return
	}

	isAdmin := principal.Role == models.RoleAdmin
	if err := h.repo.SoftDelete(uint(id), principal.ID, isAdmin); err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]string{"message": "review deleted"})
}
