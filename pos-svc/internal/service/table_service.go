package service

import (
	"context"
	"fmt"

	"tpv-system/pos-svc/internal/domain"
)

type TableService struct {
	store Store
}

func NewTableService(store Store) *TableService {
	return &TableService{store: store}
}

func (s *TableService) List(ctx context.Context, locationID int) ([]domain.Table, error) {
	return s.store.Repos().Tables.ListTables(ctx, locationID, false)
}

func (s *TableService) ListAvailable(ctx context.Context, locationID int) ([]domain.Table, error) {
	return s.store.Repos().Tables.ListTables(ctx, locationID, true)
}

// Release frees a table once every order placed on it has been paid.
func (s *TableService) Release(ctx context.Context, p domain.Principal, tableID int) (*domain.Table, error) {
	if !p.HasRole(staffRoles...) {
		return nil, fmt.Errorf("only staff may release tables: %w", domain.ErrForbidden)
	}

	var released *domain.Table
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		table, err := repos.Tables.GetTableForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if table.State == domain.TableAvailable {
			released = table
			return nil
		}
		open, err := repos.Orders.CountUnpaidForTable(ctx, tableID)
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.Conflictf("table %d has %d unpaid order(s)", table.Number, open)
		}
		if err := repos.Tables.SetTableState(ctx, tableID, domain.TableAvailable); err != nil {
			return err
		}
		table.State = domain.TableAvailable
		released = table
		return nil
	})
	if err != nil {
		return nil, asTransactionFailure(err)
	}
	return released, nil
}

var _ TableServiceInterface = (*TableService)(nil)
