package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"tpv-system/pos-svc/internal/domain"
	"tpv-system/pos-svc/internal/mocks"
	"tpv-system/pos-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var manager = domain.Principal{UserID: 2, Role: domain.RoleManager}

func TestTableService_Listing(t *testing.T) {
	store := newRestaurant()
	svc := service.NewTableService(store)

	all, err := svc.List(context.Background(), testLocation)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := svc.ListAvailable(context.Background(), testLocation)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 5, available[0].ID)

	other, err := svc.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTableService_Release(t *testing.T) {
	store := newRestaurant()
	orders := service.NewOrderService(store, testLocation)
	tables := service.NewTableService(store)

	orderID := placeDelivered(t, orders)
	require.Equal(t, domain.TableOccupied, store.tableState(5))

	_, err := tables.Release(context.Background(), waiter, 5)
	assert.True(t, errors.Is(err, domain.ErrConflict), "got %v", err)
	assert.Equal(t, domain.TableOccupied, store.tableState(5))

	_, err = orders.Pay(context.Background(), waiter, orderID, dec("20000"), "card")
	require.NoError(t, err)

	_, err = tables.Release(context.Background(), customer, 5)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	table, err := tables.Release(context.Background(), waiter, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.TableAvailable, table.State)
	assert.Equal(t, domain.TableAvailable, store.tableState(5))

	again, err := tables.Release(context.Background(), waiter, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.TableAvailable, again.State)

	_, err = tables.Release(context.Background(), waiter, 404)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMenuService_Products(t *testing.T) {
	menu := []domain.Product{{ID: 1, Name: "Bandeja paisa", Price: dec("10000"), Available: true, Stock: 5}}

	tests := []struct {
		name       string
		locationID int
		setupMock  func(*mocks.MenuCache, *mocks.CatalogRepository)
		want       []domain.Product
		wantErr    bool
	}{
		{
			name:       "cache hit",
			locationID: 3,
			setupMock: func(cache *mocks.MenuCache, catalog *mocks.CatalogRepository) {
				cache.On("GetMenu", mock.Anything, 3).Return(menu, true, nil).Once()
			},
			want: menu,
		},
		{
			name:       "cache miss fills cache for the default location",
			locationID: 0,
			setupMock: func(cache *mocks.MenuCache, catalog *mocks.CatalogRepository) {
				cache.On("GetMenu", mock.Anything, testLocation).Return(nil, false, nil).Once()
				catalog.On("ListMenu", mock.Anything, testLocation).Return(menu, nil).Once()
				cache.On("SetMenu", mock.Anything, testLocation, menu).Return(nil).Once()
			},
			want: menu,
		},
		{
			name:       "cache unavailable falls back to the database",
			locationID: 2,
			setupMock: func(cache *mocks.MenuCache, catalog *mocks.CatalogRepository) {
				cache.On("GetMenu", mock.Anything, 2).Return(nil, false, errors.New("redis down")).Once()
				catalog.On("ListMenu", mock.Anything, 2).Return(nil, nil).Once()
				cache.On("SetMenu", mock.Anything, 2, []domain.Product{}).Return(errors.New("redis down")).Once()
			},
			want: []domain.Product{},
		},
		{
			name:       "database error",
			locationID: 2,
			setupMock: func(cache *mocks.MenuCache, catalog *mocks.CatalogRepository) {
				cache.On("GetMenu", mock.Anything, 2).Return(nil, false, nil).Once()
				catalog.On("ListMenu", mock.Anything, 2).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			cache := mocks.NewMenuCache(t)
			catalog := mocks.NewCatalogRepository(t)
			store := mocks.NewStore(mocks.NewTableRepository(t), catalog, mocks.NewInventoryRepository(t), mocks.NewOrderRepository(t))
			testCase.setupMock(cache, catalog)

			svc := service.NewMenuService(store, cache, testLocation)
			products, err := svc.Products(context.Background(), testCase.locationID)

			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, products)
		})
	}
}

func TestMenuService_DailySpecials(t *testing.T) {
	special := []domain.Product{{ID: 4, Name: "Sancocho", Price: dec("15000"), Available: true, IsDailySpecial: true}}

	tests := []struct {
		name       string
		locationID int
		setupMock  func(*mocks.CatalogRepository)
		want       []domain.Product
		wantErr    bool
	}{
		{
			name:       "default location",
			locationID: 0,
			setupMock: func(catalog *mocks.CatalogRepository) {
				catalog.On("ListDailySpecials", mock.Anything, testLocation).Return(special, nil).Once()
			},
			want: special,
		},
		{
			name:       "no specials today",
			locationID: 2,
			setupMock: func(catalog *mocks.CatalogRepository) {
				catalog.On("ListDailySpecials", mock.Anything, 2).Return(nil, nil).Once()
			},
			want: []domain.Product{},
		},
		{
			name:       "database error",
			locationID: 2,
			setupMock: func(catalog *mocks.CatalogRepository) {
				catalog.On("ListDailySpecials", mock.Anything, 2).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			catalog := mocks.NewCatalogRepository(t)
			store := mocks.NewStore(mocks.NewTableRepository(t), catalog, mocks.NewInventoryRepository(t), mocks.NewOrderRepository(t))
			testCase.setupMock(catalog)

			svc := service.NewMenuService(store, nil, testLocation)
			products, err := svc.DailySpecials(context.Background(), testCase.locationID)

			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, products)
		})
	}
}

func TestMenuService_DailySpecialsOnlyAvailable(t *testing.T) {
	store := newRestaurant()
	store.seedProduct(domain.Product{ID: 8, Name: "Mondongo", Price: dec("16000"), Available: true, IsDailySpecial: true}, testLocation, 3)
	store.seedProduct(domain.Product{ID: 9, Name: "Cazuela", Price: dec("30000"), Available: false, IsDailySpecial: true}, testLocation, 3)
	svc := service.NewMenuService(store, nil, testLocation)

	specials, err := svc.DailySpecials(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, specials, 1)
	assert.Equal(t, "Mondongo", specials[0].Name)
	assert.Equal(t, 3, specials[0].Stock)
}

func TestMenuService_CustomizationsGroupedByCategory(t *testing.T) {
	store := newRestaurant()
	store.seedCustomization(domain.Customization{ID: 14, Name: "Doble carne", Category: "proteina", ExtraPrice: dec("3000"), Active: true})
	svc := service.NewMenuService(store, nil, testLocation)

	menu, err := svc.Customizations(context.Background())
	require.NoError(t, err)
	assert.Len(t, menu.Items, 3)
	assert.Len(t, menu.Grouped["general"], 2)
	require.Len(t, menu.Grouped["proteina"], 1)
	assert.Equal(t, "Doble carne", menu.Grouped["proteina"][0].Name)
}

func TestInventoryService_StockLevels(t *testing.T) {
	store := newRestaurant()
	store.state.stock[stockKey{5, testLocation}] = domain.InventoryRecord{ProductID: 5, LocationID: testLocation, Available: 0, Min: 4}
	store.state.stock[stockKey{6, testLocation}] = domain.InventoryRecord{ProductID: 6, LocationID: testLocation, Available: 2, Min: 4}
	store.state.stock[stockKey{7, testLocation}] = domain.InventoryRecord{ProductID: 7, LocationID: testLocation, Available: 3, Min: 4}
	svc := service.NewInventoryService(store, nil, testLocation)

	records, err := svc.Stock(context.Background(), testLocation)
	require.NoError(t, err)

	levels := map[int]domain.StockLevel{}
	for _, rec := range records {
		levels[rec.ProductID] = rec.Level
	}
	assert.Equal(t, domain.StockOK, levels[1])
	assert.Equal(t, domain.StockOut, levels[5])
	assert.Equal(t, domain.StockCritical, levels[6])
	assert.Equal(t, domain.StockLow, levels[7])
}

func TestInventoryService_Provision(t *testing.T) {
	store := newRestaurant()
	cache := mocks.NewMenuCache(t)
	cache.On("InvalidateMenu", mock.Anything).Return(nil).Once()
	svc := service.NewInventoryService(store, cache, testLocation)

	rec, err := svc.Provision(context.Background(), manager, service.ProvisionInput{
		ProductID: 4, LocationID: testLocation, Quantity: 12, Min: 3, Max: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sancocho", rec.ProductName)
	assert.Equal(t, domain.StockOK, rec.Level)
	assert.Equal(t, 12, store.stockOf(4, testLocation))

	require.Len(t, store.state.movements, 1)
	assert.Equal(t, domain.ReasonPurchase, store.state.movements[0].Reason)
	assert.Equal(t, domain.DirectionIn, store.state.movements[0].Direction)

	_, err = svc.Provision(context.Background(), manager, service.ProvisionInput{
		ProductID: 4, LocationID: testLocation, Quantity: 1, Min: 0, Max: 10,
	})
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, 12, store.stockOf(4, testLocation))
}

func TestInventoryService_ProvisionRejections(t *testing.T) {
	tests := []struct {
		name      string
		principal domain.Principal
		input     service.ProvisionInput
		wantErr   error
	}{
		{name: "employee", principal: waiter, input: service.ProvisionInput{ProductID: 4, LocationID: 1, Quantity: 1, Max: 5}, wantErr: domain.ErrForbidden},
		{name: "negative quantity", principal: manager, input: service.ProvisionInput{ProductID: 4, LocationID: 1, Quantity: -1, Max: 5}, wantErr: domain.ErrValidation},
		{name: "max below min", principal: manager, input: service.ProvisionInput{ProductID: 4, LocationID: 1, Min: 10, Max: 5}, wantErr: domain.ErrValidation},
		{name: "unknown product", principal: manager, input: service.ProvisionInput{ProductID: 99, LocationID: 1, Quantity: 1, Max: 5}, wantErr: domain.ErrNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := newRestaurant()
			svc := service.NewInventoryService(store, nil, testLocation)

			_, err := svc.Provision(context.Background(), testCase.principal, testCase.input)
			assert.True(t, errors.Is(err, testCase.wantErr), "got %v", err)
			assert.Empty(t, store.state.movements)
		})
	}
}

func TestInventoryService_RecordMovement(t *testing.T) {
	tests := []struct {
		name      string
		principal domain.Principal
		input     service.MovementInput
		wantErr   error
		wantStock int
	}{
		{
			name:      "purchase adds stock",
			principal: manager,
			input:     service.MovementInput{ProductID: 1, Quantity: 4, Direction: "in", Reason: "purchase", Note: "weekly order"},
			wantStock: 9,
		},
		{
			name:      "spoilage removes stock",
			principal: manager,
			input:     service.MovementInput{ProductID: 1, LocationID: testLocation, Quantity: 2, Direction: "out", Reason: "spoilage"},
			wantStock: 3,
		},
		{
			name:      "count adjustment down",
			principal: manager,
			input:     service.MovementInput{ProductID: 1, Quantity: 5, Direction: "out", Reason: "count_adjustment"},
			wantStock: 0,
		},
		{
			name:      "cannot go negative",
			principal: manager,
			input:     service.MovementInput{ProductID: 1, Quantity: 6, Direction: "out", Reason: "spoilage"},
			wantErr:   domain.ErrInsufficientStock,
			wantStock: 5,
		},
		{
			name:      "purchase cannot be outgoing",
			principal: manager,
			input:     service.MovementInput{ProductID: 1, Quantity: 1, Direction: "out", Reason: "purchase"},
			wantErr:   domain.ErrValidation,
			wantStock: 5,
		},
		{
			name:      "unknown direction",
			principal: manager,
			input:     service.MovementInput{ProductID: 1, Quantity: 1, Direction: "sideways", Reason: "spoilage"},
			wantErr:   domain.ErrValidation,
			wantStock: 5,
		},
		{
			name:      "zero quantity",
			principal: manager,
			input:     service.MovementInput{ProductID: 1, Quantity: 0, Direction: "in", Reason: "purchase"},
			wantErr:   domain.ErrValidation,
			wantStock: 5,
		},
		{
			name:      "no inventory row",
			principal: manager,
			input:     service.MovementInput{ProductID: 4, Quantity: 1, Direction: "in", Reason: "purchase"},
			wantErr:   domain.ErrNotFound,
			wantStock: 5,
		},
		{
			name:      "employee",
			principal: waiter,
			input:     service.MovementInput{ProductID: 1, Quantity: 1, Direction: "in", Reason: "purchase"},
			wantErr:   domain.ErrForbidden,
			wantStock: 5,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := newRestaurant()
			svc := service.NewInventoryService(store, nil, testLocation)

			movement, err := svc.RecordMovement(context.Background(), testCase.principal, testCase.input)
			assert.Equal(t, testCase.wantStock, store.stockOf(1, testLocation))

			if testCase.wantErr != nil {
				assert.True(t, errors.Is(err, testCase.wantErr), "got %v", err)
				assert.Empty(t, store.state.movements)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, movement.ID)
			assert.Equal(t, testLocation, movement.LocationID)
			assert.Len(t, store.state.movements, 1)
		})
	}
}

func TestInventoryService_LedgerMatchesStock(t *testing.T) {
	store := newRestaurant()
	orders := service.NewOrderService(store, testLocation)
	inventory := service.NewInventoryService(store, nil, testLocation)

	_, err := orders.Create(context.Background(), waiter, tableOrder(5, line(1, 2)))
	require.NoError(t, err)
	_, err = inventory.RecordMovement(context.Background(), manager, service.MovementInput{
		ProductID: 1, Quantity: 10, Direction: "in", Reason: "purchase",
	})
	require.NoError(t, err)
	_, err = inventory.RecordMovement(context.Background(), manager, service.MovementInput{
		ProductID: 1, Quantity: 1, Direction: "out", Reason: "spoilage",
	})
	require.NoError(t, err)

	movements, err := inventory.Movements(context.Background(), domain.MovementFilter{ProductID: 1})
	require.NoError(t, err)
	require.Len(t, movements, 3)

	net := 5
	for _, m := range movements {
		if m.Direction == domain.DirectionIn {
			net += m.Quantity
		} else {
			net -= m.Quantity
		}
	}
	assert.Equal(t, store.stockOf(1, testLocation), net)
	assert.Equal(t, domain.ReasonSpoilage, movements[0].Reason)

	outgoing, err := inventory.Movements(context.Background(), domain.MovementFilter{Direction: domain.DirectionOut})
	require.NoError(t, err)
	assert.Len(t, outgoing, 2)
}

func TestInventoryService_MovementsFilterValidation(t *testing.T) {
	store := newRestaurant()
	svc := service.NewInventoryService(store, nil, testLocation)

	_, err := svc.Movements(context.Background(), domain.MovementFilter{Direction: "up"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err = svc.Movements(context.Background(), domain.MovementFilter{From: &from, To: &to})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
