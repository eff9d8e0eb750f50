package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/andreysx/storefront/apperr"
	"github.com/andreysx/storefront/models"
)

// --- Mock Repo ---

type MockProductRepo struct {
	Page models.ProductPage
	Err  error

	// Fields to capture call arguments
	lastCalledPage     int
	lastCalledPageSize int
	lastCalledFilters  models.ProductFilters
	listCalls          int
}

func (m *MockProductRepo) List(page, pageSize int, filters models.ProductFilters) (models.ProductPage, error) {
	m.listCalls++
	m.lastCalledPage = page
	m.lastCalledPageSize = pageSize
	m.lastCalledFilters = filters
	if m.Err != nil {
		return models.ProductPage{}, m.Err
	}
	result := m.Page
	result.Page = page
	result.PageSize = pageSize
	return result, nil
}

func (m *MockProductRepo) GetActive(id uint) (*models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Page.Items {
		if m.Page.Items[i].ID == id {
			return &m.Page.Items[i], nil
		}
	}
	return nil, apperr.NotFound("product not found or inactive")
}

func (m *MockProductRepo) GetAny(id uint) (*models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Page.Items {
		if m.Page.Items[i].ID == id {
			return &m.Page.Items[i], nil
		}
	}
	return nil, apperr.NotFound("product not found")
}

func (m *MockProductRepo) Create(product *models.Product) error { return m.Err }

func (m *MockProductRepo) Update(product *models.Product) error { return m.Err }

func (m *MockProductRepo) SoftDelete(id uint) error { return m.Err }

func (m *MockProductRepo) SetImageURL(id uint, url string) error { return m.Err }

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type MockAssetStore struct {
	Ref     string
	PutErr  error
	deleted []string
}

func (m *MockAssetStore) Put(data []byte, contentType string) (string, error) {
	if m.PutErr != nil {
		return "", m.PutErr
	}
	return m.Ref, nil
}

func (m *MockAssetStore) Delete(ref string) error {
	m.deleted = append(m.deleted, ref)
	return nil
}

func newHandler(repo *MockProductRepo) *CatalogHandler {
	return NewCatalogHandler(repo, &MockAssetStore{Ref: "ref.png"}, zap.NewNop())
}

// --- Tests ---

func TestHandleList(t *testing.T) {
	testCases := []struct {
		name               string
		url                string
		expectedStatusCode int
		checkRepoCalls     func(t *testing.T, repo *MockProductRepo)
	}{
		{
			name:               "defaults",
			url:                "/products",
			expectedStatusCode: http.StatusOK,
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, 1, repo.lastCalledPage)
				assert.Equal(t, 20, repo.lastCalledPageSize)
				assert.Nil(t, repo.lastCalledFilters.CategoryID)
				assert.Nil(t, repo.lastCalledFilters.InStock)
				assert.Empty(t, repo.lastCalledFilters.Search)
			},
		},
		{
			name:               "custom pagination",
			url:                "/products?page=3&page_size=50",
			expectedStatusCode: http.StatusOK,
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				assert.Equal(t, 3, repo.lastCalledPage)
				assert.Equal(t, 50, repo.lastCalledPageSize)
			},
		},
		{
			name:               "all filters forwarded",
			url:                "/products?category_id=2&min_price=1.50&max_price=20&in_stock=true&seller_id=7&created_at=2025-01-01T00:00:00Z&search=lamp",
			expectedStatusCode: http.StatusOK,
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				f := repo.lastCalledFilters
				assert.Equal(t, uint(2), *f.CategoryID)
				assert.True(t, f.MinPrice.Equal(mustDec("1.50")))
				assert.True(t, f.MaxPrice.Equal(mustDec("20")))
				assert.True(t, *f.InStock)
				assert.Equal(t, uint(7), *f.SellerID)
				assert.Equal(t, 2025, f.CreatedAfter.Year())
				assert.Equal(t, "lamp", f.Search)
			},
		},
		{
			name:               "in_stock false is a real filter",
			url:                "/products?in_stock=false",
			expectedStatusCode: http.StatusOK,
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				assert.NotNil(t, repo.lastCalledFilters.InStock)
				assert.False(t, *repo.lastCalledFilters.InStock)
			},
		},
		{
			name:               "page below one rejected",
			url:                "/products?page=0",
			expectedStatusCode: http.StatusBadRequest,
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				assert.Zero(t, repo.listCalls, "invalid input must be rejected before the query runs")
			},
		},
		{
			name:               "page_size above limit rejected",
			url:                "/products?page_size=101",
			expectedStatusCode: http.StatusBadRequest,
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				assert.Zero(t, repo.listCalls)
			},
		},
		{
			name:               "negative price rejected",
			url:                "/products?min_price=-1",
			expectedStatusCode: http.StatusBadRequest,
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				assert.Zero(t, repo.listCalls)
			},
		},
		{
			name:               "malformed in_stock rejected",
			url:                "/products?in_stock=maybe",
			expectedStatusCode: http.StatusBadRequest,
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo) {
				assert.Zero(t, repo.listCalls)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockProductRepo{}
			handler := newHandler(repo)
			req := httptest.NewRequest("GET", tc.url, nil)
			rec := httptest.NewRecorder()

			handler.HandleList(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkRepoCalls != nil {
				tc.checkRepoCalls(t, repo)
			}
		})
	}
}

func TestHandleListContradictoryRange(t *testing.T) {
	repo := &MockProductRepo{Err: apperr.Validation("min_price must not exceed max_price")}
	handler := newHandler(repo)
	req := httptest.NewRequest("GET", "/products?min_price=10&max_price=5", nil)
	rec := httptest.NewRecorder()

	handler.HandleList(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "min_price must not exceed max_price", resp["error"])
}

func TestHandleListInternalErrorIsOpaque(t *testing.T) {
	repo := &MockProductRepo{Err: apperr.Internal(assert.AnError)}
	handler := newHandler(repo)
	req := httptest.NewRequest("GET", "/products", nil)
	rec := httptest.NewRecorder()

	handler.HandleList(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "internal error", resp["error"], "store failure details must not leak")
}
