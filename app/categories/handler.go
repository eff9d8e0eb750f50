package categories

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/andreysx/storefront/app/api"
	"github.com/andreysx/storefront/apperr"
	"github.com/andreysx/storefront/models"
)

type CategoryProvider interface {
	GetAll() ([]models.Category, error)
	Create(category *models.Category) error
	Update(id uint, name string, parentID *uint) (*models.Category, error)
	SoftDelete(id uint) error
}

type CategoryHandler struct {
	repo CategoryProvider
	log  *zap.Logger
}

func NewCategoryHandler(r CategoryProvider, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{repo: r, log: log}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAll()
	if err != nil {
		api.Error(w, h.log, err)
		return
	}
	api.JSON(w, http.StatusOK, categories)
}

type categoryInput struct {
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id"`
}

func (in *categoryInput) validate() error {
	if l := len(strings.TrimSpace(in.Name)); l < 3 || l > 50 {
		return apperr.Validation("name must be 3-50 characters")
	}
	return nil
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input categoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	if err := input.validate(); err != nil {
		api.Error(w, h.log, err)
		return
	}

	category := &models.Category{
		Name:     input.Name,
		ParentID: input.ParentID,
	}
	if err := h.repo.Create(category); err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	var input categoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, h.log, apperr.Validation("invalid JSON body"))
		return
	}
	if err := input.validate(); err != nil {
		api.Error(w, h.log, err)
		return
	}

	category, err := h.repo.Update(id, input.Name, input.ParentID)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	api.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.Error(w, h.log, err)
		return
	}

	if err := h.repo.SoftDelete(id); err != nil {
		api.Error(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}
