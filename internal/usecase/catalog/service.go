package catalog

import (
	"context"
	"errors"

	"github.com/slumberhaus/storefront/internal/domain"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
)

// Cache is the cache-aside surface the service needs
type Cache interface {
	GetCatalogPage(ctx context.Context, filter domain.CatalogFilter) (*domain.CatalogPage, error)
	SetCatalogPage(ctx context.Context, filter domain.CatalogFilter, page *domain.CatalogPage) error
	GetFilterMetadata(ctx context.Context) (*domain.FilterMetadata, error)
	SetFilterMetadata(ctx context.Context, meta *domain.FilterMetadata) error
}

// Service handles catalog browsing: faceted listing, filter metadata and
// featured products. Read-only.
type Service struct {
	catalog         domain.CatalogRepository
	products        domain.ProductRepository
	lookups         domain.LookupRepository
	cache           Cache
	logger          *logger.Logger
	defaultPageSize int
}

// NewService creates a new catalog service
func NewService(
	catalog domain.CatalogRepository,
	products domain.ProductRepository,
	lookups domain.LookupRepository,
	cache Cache,
	log *logger.Logger,
	defaultPageSize int,
) *Service {
	if defaultPageSize <= 0 {
		defaultPageSize = 12
	}
	return &Service{
		catalog:         catalog,
		products:        products,
		lookups:         lookups,
		cache:           cache,
		logger:          log,
		defaultPageSize: defaultPageSize,
	}
}

// normalize applies defaults without erroring: bad page or sort values fall
// back rather than fail, and unknown facet slugs are left in place to match
// nothing downstream.
func (s *Service) normalize(filter domain.CatalogFilter) domain.CatalogFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = s.defaultPageSize
	}
	if !filter.Sort.Valid() {
		filter.Sort = domain.SortNewest
	}
	if filter.MinPrice != nil && *filter.MinPrice < 0 {
		filter.MinPrice = nil
	}
	if filter.MaxPrice != nil && *filter.MaxPrice < 0 {
		filter.MaxPrice = nil
	}
	return filter
}

// emptyPage resolves an unsatisfiable filter: valid result, nothing in it.
func emptyPage(filter domain.CatalogFilter) *domain.CatalogPage {
	return &domain.CatalogPage{
		Products:   []*domain.ProductSummary{},
		TotalCount: 0,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: 0,
	}
}

// ListProducts returns one page of catalog results plus the total count of
// products matching the same filter. Page and count always come from the
// identical predicate; a storage error propagates unchanged.
func (s *Service) ListProducts(ctx context.Context, filter domain.CatalogFilter) (*domain.CatalogPage, error) {
	filter = s.normalize(filter)

	if filter.Unsatisfiable() {
		s.logger.Debug("Unsatisfiable catalog filter, returning empty page")
		return emptyPage(filter), nil
	}

	if cached, err := s.cache.GetCatalogPage(ctx, filter); err == nil {
		return cached, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("Catalog page cache read failed", err)
	}

	summaries, err := s.catalog.SelectPage(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to select catalog page", err)
		return nil, err
	}

	total, err := s.catalog.CountProducts(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count catalog products", err)
		return nil, err
	}

	page := &domain.CatalogPage{
		Products:   summaries,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: (total + filter.PageSize - 1) / filter.PageSize,
	}

	if err := s.cache.SetCatalogPage(ctx, filter, page); err != nil {
		s.logger.Error("Catalog page cache write failed", err)
	}

	return page, nil
}

// FilterMetadata returns the full facet reference data for the filter UI
func (s *Service) FilterMetadata(ctx context.Context) (*domain.FilterMetadata, error) {
	if cached, err := s.cache.GetFilterMetadata(ctx); err == nil {
		return cached, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("Filter metadata cache read failed", err)
	}

	sizes, err := s.lookups.ListSizes(ctx)
	if err != nil {
		s.logger.Error("Failed to load sizes", err)
		return nil, err
	}

	firmness, err := s.lookups.ListFirmness(ctx)
	if err != nil {
		s.logger.Error("Failed to load firmness levels", err)
		return nil, err
	}

	materials, err := s.lookups.ListMaterials(ctx)
	if err != nil {
		s.logger.Error("Failed to load materials", err)
		return nil, err
	}

	categories, err := s.lookups.ListCategories(ctx)
	if err != nil {
		s.logger.Error("Failed to load categories", err)
		return nil, err
	}

	meta := &domain.FilterMetadata{
		Sizes:      sizes,
		Firmness:   firmness,
		Materials:  materials,
		Categories: categories,
	}

	if err := s.cache.SetFilterMetadata(ctx, meta); err != nil {
		s.logger.Error("Filter metadata cache write failed", err)
	}

	return meta, nil
}

// Featured returns up to limit random published products for the homepage
func (s *Service) Featured(ctx context.Context, limit int) ([]*domain.ProductSummary, error) {
	if limit <= 0 || limit > 12 {
		limit = 3
	}

	featured, err := s.products.ListFeatured(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list featured products", err)
		return nil, err
	}

	return featured, nil
}
