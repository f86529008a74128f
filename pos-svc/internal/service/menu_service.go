package service

import (
	"context"

	"tpv-system/config"
	"tpv-system/pos-svc/internal/domain"

	"github.com/sirupsen/logrus"
)

type MenuService struct {
	store             Store
	cache             MenuCache
	logger            *logrus.Logger
	defaultLocationID int
}

func NewMenuService(store Store, cache MenuCache, defaultLocationID int) *MenuService {
	return &MenuService{
		store:             store,
		cache:             cache,
		logger:            config.GetLogger(),
		defaultLocationID: defaultLocationID,
	}
}

// Products returns the available menu with stock resolved for a location.
// Reads go through the cache when one is configured.
func (s *MenuService) Products(ctx context.Context, locationID int) ([]domain.Product, error) {
	if locationID == 0 {
		locationID = s.defaultLocationID
	}

	if s.cache != nil {
		products, hit, err := s.cache.GetMenu(ctx, locationID)
		if err != nil {
			config.LogError(s.logger, "menu_service", "Products", "read menu cache", locationID, err)
		} else if hit {
			return products, nil
		}
	}

	products, err := s.store.Repos().Catalog.ListMenu(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, locationID, products); err != nil {
			config.LogError(s.logger, "menu_service", "Products", "write menu cache", locationID, err)
		}
	}
	return products, nil
}

func (s *MenuService) Customizations(ctx context.Context) (*domain.CustomizationMenu, error) {
	items, err := s.store.Repos().Catalog.ListCustomizations(ctx)
	if err != nil {
		return nil, err
	}
	menu := &domain.CustomizationMenu{
		Items:   []domain.Customization{},
		Grouped: map[string][]domain.Customization{},
	}
	for _, c := range items {
		menu.Items = append(menu.Items, c)
		category := c.Category
		if category == "" {
			category = "general"
		}
		menu.Grouped[category] = append(menu.Grouped[category], c)
	}
	return menu, nil
}

func (s *MenuService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.store.Repos().Catalog.ListCategories(ctx)
}

func (s *MenuService) DailySpecials(ctx context.Context, locationID int) ([]domain.Product, error) {
	if locationID == 0 {
		locationID = s.defaultLocationID
	}
	products, err := s.store.Repos().Catalog.ListDailySpecials(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

var _ MenuServiceInterface = (*MenuService)(nil)
