package service

import (
	"context"
	"fmt"

	"tpv-system/config"
	"tpv-system/pos-svc/internal/domain"

	"github.com/sirupsen/logrus"
)

var inventoryRoles = []domain.Role{domain.RoleAdmin, domain.RoleManager}

type ProvisionInput struct {
	ProductID  int `json:"productId" validate:"gt=0"`
	LocationID int `json:"locationId" validate:"gt=0"`
	Quantity   int `json:"quantity" validate:"gte=0"`
	Min        int `json:"minQuantity" validate:"gte=0"`
	Max        int `json:"maxQuantity" validate:"gte=0,gtefield=Min"`
}

type MovementInput struct {
	ProductID  int    `json:"productId" validate:"gt=0"`
	LocationID int    `json:"locationId" validate:"gte=0"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	Direction  string `json:"direction" validate:"required,oneof=in out"`
	Reason     string `json:"reason" validate:"required,oneof=purchase sale spoilage count_adjustment"`
	Note       string `json:"note" validate:"max=500"`
}

type InventoryService struct {
	store             Store
	cache             MenuCache
	logger            *logrus.Logger
	defaultLocationID int
}

func NewInventoryService(store Store, cache MenuCache, defaultLocationID int) *InventoryService {
	return &InventoryService{
		store:             store,
		cache:             cache,
		logger:            config.GetLogger(),
		defaultLocationID: defaultLocationID,
	}
}

func (s *InventoryService) Stock(ctx context.Context, locationID int) ([]domain.InventoryRecord, error) {
	records, err := s.store.Repos().Inventory.ListStock(ctx, locationID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Level = domain.Classify(records[i].Available, records[i].Min)
	}
	return records, nil
}

// Provision creates the stock row for a product at a location and records
// the opening quantity in the ledger.
func (s *InventoryService) Provision(ctx context.Context, p domain.Principal, in ProvisionInput) (*domain.InventoryRecord, error) {
	if !p.HasRole(inventoryRoles...) {
		return nil, fmt.Errorf("inventory changes require a manager: %w", domain.ErrForbidden)
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	rec := domain.InventoryRecord{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Available:  in.Quantity,
		Min:        in.Min,
		Max:        in.Max,
	}
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		products, err := repos.Catalog.ProductsByIDs(ctx, []int{in.ProductID})
		if err != nil {
			return err
		}
		product, ok := products[in.ProductID]
		if !ok {
			return domain.NotFoundf("product %d", in.ProductID)
		}
		rec.ProductName = product.Name
		if err := repos.Inventory.Provision(ctx, rec); err != nil {
			return err
		}
		if in.Quantity == 0 {
			return nil
		}
		return repos.Inventory.RecordMovement(ctx, &domain.Movement{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Quantity:   in.Quantity,
			Direction:  domain.DirectionIn,
			Reason:     domain.ReasonPurchase,
			Note:       "initial stock",
			CreatedBy:  p.UserID,
		})
	})
	if err != nil {
		return nil, asTransactionFailure(err)
	}

	rec.Level = domain.Classify(rec.Available, rec.Min)
	s.invalidate(ctx)
	return &rec, nil
}

// RecordMovement applies a manual stock movement and appends it to the
// ledger in the same transaction.
func (s *InventoryService) RecordMovement(ctx context.Context, p domain.Principal, in MovementInput) (*domain.Movement, error) {
	if !p.HasRole(inventoryRoles...) {
		return nil, fmt.Errorf("inventory changes require a manager: %w", domain.ErrForbidden)
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	direction := domain.Direction(in.Direction)
	reason := domain.MovementReason(in.Reason)
	if !reason.Allows(direction) {
		return nil, domain.Invalid("reason", fmt.Sprintf("%s is not allowed for direction %s", reason, direction))
	}
	locationID := in.LocationID
	if locationID == 0 {
		locationID = s.defaultLocationID
	}

	movement := &domain.Movement{
		ProductID:  in.ProductID,
		LocationID: locationID,
		Quantity:   in.Quantity,
		Direction:  direction,
		Reason:     reason,
		Note:       in.Note,
		CreatedBy:  p.UserID,
	}
	err := s.store.WithinTx(ctx, func(repos Repositories) error {
		stock, err := repos.Inventory.LockStock(ctx, []int{in.ProductID}, locationID)
		if err != nil {
			return err
		}
		if _, ok := stock[in.ProductID]; !ok {
			return domain.NotFoundf("inventory for product %d at location %d", in.ProductID, locationID)
		}
		if direction == domain.DirectionIn {
			err = repos.Inventory.Increment(ctx, in.ProductID, locationID, in.Quantity)
		} else {
			err = repos.Inventory.Decrement(ctx, in.ProductID, locationID, in.Quantity)
		}
		if err != nil {
			return err
		}
		return repos.Inventory.RecordMovement(ctx, movement)
	})
	if err != nil {
		return nil, asTransactionFailure(err)
	}

	s.invalidate(ctx)
	return movement, nil
}

func (s *InventoryService) Movements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	if filter.Direction != "" && filter.Direction != domain.DirectionIn && filter.Direction != domain.DirectionOut {
		return nil, domain.Invalid("direction", "must be one of: in out")
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.Invalid("from", "must not be after to")
	}
	return s.store.Repos().Inventory.ListMovements(ctx, filter)
}

func (s *InventoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateMenu(ctx); err != nil {
		config.LogError(s.logger, "inventory_service", "invalidate", "invalidate menu cache", nil, err)
	}
}

var _ InventoryServiceInterface = (*InventoryService)(nil)
