package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/slumberhaus/storefront/internal/domain"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
	"github.com/slumberhaus/storefront/internal/usecase/catalog"
)

// MockCatalogRepository is a mock implementation of domain.CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) SelectPage(ctx context.Context, filter domain.CatalogFilter) ([]*domain.ProductSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProductSummary), args.Error(1)
}

func (m *MockCatalogRepository) CountProducts(ctx context.Context, filter domain.CatalogFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.ProductDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductDetail), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ListFeatured(ctx context.Context, limit int) ([]*domain.ProductSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProductSummary), args.Error(1)
}

func (m *MockProductRepository) ListRecommended(ctx context.Context, productID uuid.UUID, limit int) ([]*domain.ProductSummary, error) {
	args := m.Called(ctx, productID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProductSummary), args.Error(1)
}

func (m *MockProductRepository) AddImage(ctx context.Context, image *domain.ProductImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockProductRepository) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error {
	args := m.Called(ctx, productID, imageID)
	return args.Error(0)
}

// MockLookupRepository is a mock implementation of domain.LookupRepository
type MockLookupRepository struct {
	mock.Mock
}

func (m *MockLookupRepository) ListSizes(ctx context.Context) ([]*domain.Size, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Size), args.Error(1)
}

func (m *MockLookupRepository) ListFirmness(ctx context.Context) ([]*domain.Firmness, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Firmness), args.Error(1)
}

func (m *MockLookupRepository) ListMaterials(ctx context.Context) ([]*domain.Material, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Material), args.Error(1)
}

func (m *MockLookupRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

// MockCache is a mock implementation of catalog.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetCatalogPage(ctx context.Context, filter domain.CatalogFilter) (*domain.CatalogPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogPage), args.Error(1)
}

func (m *MockCache) SetCatalogPage(ctx context.Context, filter domain.CatalogFilter, page *domain.CatalogPage) error {
	args := m.Called(ctx, filter, page)
	return args.Error(0)
}

func (m *MockCache) GetFilterMetadata(ctx context.Context) (*domain.FilterMetadata, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FilterMetadata), args.Error(1)
}

func (m *MockCache) SetFilterMetadata(ctx context.Context, meta *domain.FilterMetadata) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

func newCatalogHandler() (*CatalogHandler, *MockCatalogRepository, *MockProductRepository, *MockLookupRepository, *MockCache) {
	mockCatalog := new(MockCatalogRepository)
	mockProducts := new(MockProductRepository)
	mockLookups := new(MockLookupRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := catalog.NewService(mockCatalog, mockProducts, mockLookups, mockCache, log, 12)
	return NewCatalogHandler(service, log, 12, 3), mockCatalog, mockProducts, mockLookups, mockCache
}

func TestCatalogHandler_ListProducts_Success(t *testing.T) {
	handler, mockCatalog, _, _, mockCache := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	w := httptest.NewRecorder()

	mockCache.On("GetCatalogPage", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	mockCatalog.On("SelectPage", mock.Anything, mock.Anything).Return([]*domain.ProductSummary{
		{ID: uuid.New(), Name: "Cloud Nine"},
	}, nil)
	mockCatalog.On("CountProducts", mock.Anything, mock.Anything).Return(1, nil)
	mockCache.On("SetCatalogPage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	handler.ListProducts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockCatalog.AssertExpectations(t)

	var response map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response, "data")
}

func TestCatalogHandler_ListProducts_ParsesCommaSeparatedFacets(t *testing.T) {
	handler, mockCatalog, _, _, mockCache := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?sizes=queen,king&firmness=medium-firm", nil)
	w := httptest.NewRecorder()

	mockCache.On("GetCatalogPage", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	mockCatalog.On("SelectPage", mock.Anything, mock.MatchedBy(func(f domain.CatalogFilter) bool {
		return len(f.Sizes) == 2 && f.Sizes[0] == "queen" && f.Sizes[1] == "king" &&
			len(f.Firmness) == 1 && f.Firmness[0] == "medium-firm"
	})).Return([]*domain.ProductSummary{}, nil)
	mockCatalog.On("CountProducts", mock.Anything, mock.Anything).Return(0, nil)
	mockCache.On("SetCatalogPage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	handler.ListProducts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockCatalog.AssertExpectations(t)
}

func TestCatalogHandler_ListProducts_ParsesRepeatedFacets(t *testing.T) {
	handler, mockCatalog, _, _, mockCache := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?materials=latex&materials=hybrid", nil)
	w := httptest.NewRecorder()

	mockCache.On("GetCatalogPage", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	mockCatalog.On("SelectPage", mock.Anything, mock.MatchedBy(func(f domain.CatalogFilter) bool {
		return len(f.Materials) == 2 && f.Materials[0] == "latex" && f.Materials[1] == "hybrid"
	})).Return([]*domain.ProductSummary{}, nil)
	mockCatalog.On("CountProducts", mock.Anything, mock.Anything).Return(0, nil)
	mockCache.On("SetCatalogPage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	handler.ListProducts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockCatalog.AssertExpectations(t)
}

func TestCatalogHandler_ListProducts_ParsesPriceAndSort(t *testing.T) {
	handler, mockCatalog, _, _, mockCache := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?minPrice=500&maxPrice=1500&sort=price_asc&page=2", nil)
	w := httptest.NewRecorder()

	mockCache.On("GetCatalogPage", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	mockCatalog.On("SelectPage", mock.Anything, mock.MatchedBy(func(f domain.CatalogFilter) bool {
		return f.MinPrice != nil && *f.MinPrice == 500 &&
			f.MaxPrice != nil && *f.MaxPrice == 1500 &&
			f.Sort == domain.SortPriceAsc && f.Page == 2
	})).Return([]*domain.ProductSummary{}, nil)
	mockCatalog.On("CountProducts", mock.Anything, mock.Anything).Return(0, nil)
	mockCache.On("SetCatalogPage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	handler.ListProducts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockCatalog.AssertExpectations(t)
}

func TestCatalogHandler_ListProducts_MalformedPriceIgnored(t *testing.T) {
	handler, mockCatalog, _, _, mockCache := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?minPrice=cheap", nil)
	w := httptest.NewRecorder()

	mockCache.On("GetCatalogPage", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	mockCatalog.On("SelectPage", mock.Anything, mock.MatchedBy(func(f domain.CatalogFilter) bool {
		return f.MinPrice == nil
	})).Return([]*domain.ProductSummary{}, nil)
	mockCatalog.On("CountProducts", mock.Anything, mock.Anything).Return(0, nil)
	mockCache.On("SetCatalogPage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	handler.ListProducts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockCatalog.AssertExpectations(t)
}

func TestCatalogHandler_ListProducts_ServiceError(t *testing.T) {
	handler, mockCatalog, _, _, mockCache := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	w := httptest.NewRecorder()

	mockCache.On("GetCatalogPage", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	mockCatalog.On("SelectPage", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	handler.ListProducts(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCatalogHandler_ListFilters_Success(t *testing.T) {
	handler, _, _, mockLookups, mockCache := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/filters", nil)
	w := httptest.NewRecorder()

	mockCache.On("GetFilterMetadata", mock.Anything).Return(nil, domain.ErrNotFound)
	mockLookups.On("ListSizes", mock.Anything).Return([]*domain.Size{{ID: "queen", Name: "Queen"}}, nil)
	mockLookups.On("ListFirmness", mock.Anything).Return([]*domain.Firmness{}, nil)
	mockLookups.On("ListMaterials", mock.Anything).Return([]*domain.Material{}, nil)
	mockLookups.On("ListCategories", mock.Anything).Return([]*domain.Category{}, nil)
	mockCache.On("SetFilterMetadata", mock.Anything, mock.Anything).Return(nil)

	handler.ListFilters(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockLookups.AssertExpectations(t)

	var response map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response, "data")
}

func TestCatalogHandler_ListFeatured_Success(t *testing.T) {
	handler, _, mockProducts, _, _ := newCatalogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/featured", nil)
	w := httptest.NewRecorder()

	mockProducts.On("ListFeatured", mock.Anything, 3).Return([]*domain.ProductSummary{
		{ID: uuid.New(), Name: "Cloud Nine"},
	}, nil)

	handler.ListFeatured(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockProducts.AssertExpectations(t)
}
