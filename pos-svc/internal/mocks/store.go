package mocks

import (
	"context"

	"tpv-system/pos-svc/internal/service"
)

// Store runs WithinTx callbacks directly against the configured repositories
// and counts how each transaction ended.
type Store struct {
	Repositories service.Repositories
	CommitErr    error

	Commits   int
	Rollbacks int
}

func NewStore(tables *TableRepository, catalog *CatalogRepository, inventory *InventoryRepository, orders *OrderRepository) *Store {
	return &Store{Repositories: service.Repositories{
		Tables:    tables,
		Catalog:   catalog,
		Inventory: inventory,
		Orders:    orders,
	}}
}

func (s *Store) Repos() service.Repositories {
	return s.Repositories
}

func (s *Store) WithinTx(ctx context.Context, fn func(service.Repositories) error) error {
	if err := fn(s.Repositories); err != nil {
		s.Rollbacks++
		return err
	}
	if s.CommitErr != nil {
		s.Rollbacks++
		return s.CommitErr
	}
	s.Commits++
	return nil
}

var _ service.Store = (*Store)(nil)
