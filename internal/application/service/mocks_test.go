package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/event"
)

// mockOrderRepo keeps orders in memory and honors the version and table rules
type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order

	createFunc func(ctx context.Context, order *entity.Order) error
	updateFunc func(ctx context.Context, order *entity.Order) error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*entity.Order)}
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.CustomCharges = append([]entity.CustomCharge(nil), o.CustomCharges...)
	return &cp
}

func (m *mockOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.Table == order.Table && o.Status.IsActive() {
			return port.ErrDuplicate
		}
	}
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (m *mockOrderRepo) List(ctx context.Context, filter port.OrderFilter) ([]*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entity.Order
	for _, o := range m.orders {
		if filter.WaiterID != "" && o.WaiterID != filter.WaiterID {
			continue
		}
		if filter.Table != 0 && o.Table != filter.Table {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, o.Status) {
			continue
		}
		if !filter.CreatedFrom.IsZero() && o.CreatedAt.Before(filter.CreatedFrom) {
			continue
		}
		if !filter.CreatedTo.IsZero() && o.CreatedAt.After(filter.CreatedTo) {
			continue
		}
		result = append(result, cloneOrder(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func containsStatus(statuses []entity.OrderStatus, s entity.OrderStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (m *mockOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[order.ID]
	if !ok || stored.Version != order.Version {
		return port.ErrStaleWrite
	}
	order.Version++
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *mockOrderRepo) SetAccount(ctx context.Context, id string, account decimal.Decimal) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[id]
	if !ok {
		return 0, port.ErrStaleWrite
	}
	stored.Account = account
	stored.Version++
	return stored.Version, nil
}

// put stores an order directly, bypassing the table rule
func (m *mockOrderRepo) put(o *entity.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.Version == 0 {
		o.Version = 1
	}
	m.orders[o.ID] = cloneOrder(o)
}

func (m *mockOrderRepo) get(id string) *entity.Order {
	o, _ := m.GetByID(context.Background(), id)
	return o
}

// mockDishRepo keeps dishes in insertion order
type mockDishRepo struct {
	mu     sync.Mutex
	dishes []*entity.Dish

	createManyFunc func(ctx context.Context, dishes []*entity.Dish) error
}

func cloneDish(d *entity.Dish) *entity.Dish {
	cp := *d
	cp.Selections = append([]entity.MenuSelection(nil), d.Selections...)
	return &cp
}

func (m *mockDishRepo) Create(ctx context.Context, dish *entity.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dishes = append(m.dishes, cloneDish(dish))
	return nil
}

func (m *mockDishRepo) CreateMany(ctx context.Context, dishes []*entity.Dish) error {
	if m.createManyFunc != nil {
		return m.createManyFunc(ctx, dishes)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range dishes {
		m.dishes = append(m.dishes, cloneDish(d))
	}
	return nil
}

func (m *mockDishRepo) GetByID(ctx context.Context, id string) (*entity.Dish, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.dishes {
		if d.ID == id {
			return cloneDish(d), nil
		}
	}
	return nil, nil
}

func (m *mockDishRepo) List(ctx context.Context, filter port.DishFilter) ([]*entity.Dish, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entity.Dish
	for _, d := range m.dishes {
		if filter.OrderID != "" && d.OrderID != filter.OrderID {
			continue
		}
		if len(filter.OrderIDs) > 0 && !containsString(filter.OrderIDs, d.OrderID) {
			continue
		}
		if filter.ChefID != "" && d.ChefID != filter.ChefID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.ComplementOf != "" && d.ComplementOfDishID != filter.ComplementOf {
			continue
		}
		if !filter.CreatedSince.IsZero() && d.CreatedAt.Before(filter.CreatedSince) {
			continue
		}
		result = append(result, cloneDish(d))
	}
	if filter.SortByKitchenIndex {
		sort.SliceStable(result, func(i, j int) bool { return result[i].KitchenIndex < result[j].KitchenIndex })
	}
	return result, nil
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func (m *mockDishRepo) Update(ctx context.Context, dish *entity.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.dishes {
		if d.ID == dish.ID {
			m.dishes[i] = cloneDish(dish)
			return nil
		}
	}
	return fmt.Errorf("dish %s not found", dish.ID)
}

func (m *mockDishRepo) deleteWhere(match func(d *entity.Dish) bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.dishes[:0]
	var removed int64
	for _, d := range m.dishes {
		if match(d) {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	m.dishes = kept
	return removed
}

func (m *mockDishRepo) Delete(ctx context.Context, id string) error {
	m.deleteWhere(func(d *entity.Dish) bool { return d.ID == id })
	return nil
}

func (m *mockDishRepo) DeleteByComplementOf(ctx context.Context, parentID string) (int64, error) {
	return m.deleteWhere(func(d *entity.Dish) bool { return d.ComplementOfDishID == parentID }), nil
}

func (m *mockDishRepo) DeleteByOrder(ctx context.Context, orderID string) (int64, error) {
	return m.deleteWhere(func(d *entity.Dish) bool { return d.OrderID == orderID }), nil
}

func (m *mockDishRepo) MaxKitchenIndexSince(ctx context.Context, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	highest := 0
	for _, d := range m.dishes {
		if !d.CreatedAt.Before(since) && d.KitchenIndex > highest {
			highest = d.KitchenIndex
		}
	}
	return highest, nil
}

func (m *mockDishRepo) all() []*entity.Dish {
	result, _ := m.List(context.Background(), port.DishFilter{})
	return result
}

type mockDishLogRepo struct {
	mu   sync.Mutex
	logs []*entity.DishLog
}

func (m *mockDishLogRepo) Create(ctx context.Context, log *entity.DishLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockDishLogRepo) ListByDish(ctx context.Context, dishID string) ([]*entity.DishLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entity.DishLog
	for _, l := range m.logs {
		if l.DishID == dishID {
			result = append(result, l)
		}
	}
	return result, nil
}

type mockCatalog struct {
	items         []*entity.MenuItem
	getByNameFunc func(ctx context.Context, name string) (*entity.MenuItem, error)
}

func (m *mockCatalog) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	for _, item := range m.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, nil
}

func (m *mockCatalog) GetByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	if m.getByNameFunc != nil {
		return m.getByNameFunc(ctx, name)
	}
	for _, item := range m.items {
		if item.Name == name {
			return item, nil
		}
	}
	return nil, nil
}

func (m *mockCatalog) List(ctx context.Context) ([]*entity.MenuItem, error) {
	return m.items, nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLinks struct{}

func (mockLinks) Encode(orderID string) (string, error) {
	return "tok-" + orderID, nil
}

func (mockLinks) Decode(token string) (string, error) {
	if !strings.HasPrefix(token, "tok-") {
		return "", port.ErrInvalidLink
	}
	return strings.TrimPrefix(token, "tok-"), nil
}

type mockEvents struct {
	mu     sync.Mutex
	events []*event.Event
}

func (m *mockEvents) DispatchAsync(ctx context.Context, evt *event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
}

func (m *mockEvents) types() []event.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]event.Type, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.Type)
	}
	return types
}

type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Warn(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// fixture wires every service over the in-memory fakes
type fixture struct {
	orders  *mockOrderRepo
	dishes  *mockDishRepo
	logs    *mockDishLogRepo
	catalog *mockCatalog
	events  *mockEvents
	logger  *mockLogger

	sequencer *KitchenSequencer
	billing   BillingService
	orderSvc  OrderService
	dishSvc   DishService
}

var (
	menuTaco   = &entity.MenuItem{ID: "menu-taco", Name: "Taco", Cost: decimal.NewFromInt(30)}
	menuPack   = &entity.MenuItem{ID: "menu-pack", Name: "Paquete", Cost: decimal.NewFromInt(169)}
	menuCoffee = &entity.MenuItem{ID: "menu-coffee", Name: "Cafe de paquete", IsAutoDelivered: true}
	menuTea    = &entity.MenuItem{ID: "menu-tea", Name: "Te de paquete", IsAutoDelivered: true}
	menuFruit  = &entity.MenuItem{ID: "menu-fruit", Name: "Fruta de paquete", IsAutoDelivered: true}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		orders: newMockOrderRepo(),
		dishes: &mockDishRepo{},
		logs:   &mockDishLogRepo{},
		catalog: &mockCatalog{items: []*entity.MenuItem{
			menuTaco, menuPack, menuCoffee, menuTea, menuFruit,
		}},
		events: &mockEvents{},
		logger: &mockLogger{},
	}
	tx := &mockTxManager{}

	f.sequencer = NewKitchenSequencer(f.dishes, time.UTC)
	f.billing = NewBillingService(f.orders, f.dishes, f.events, f.logger)
	f.orderSvc = NewOrderService(f.orders, f.dishes, f.billing, mockLinks{}, tx, f.events, f.logger)
	f.dishSvc = NewDishService(
		f.dishes, f.logs, f.orders, f.catalog, f.billing, f.sequencer,
		NewComplementGenerator(f.catalog, DefaultComplementNames, f.logger),
		tx, f.events, f.logger,
	)
	return f
}

// openOrder stores an order in the given status
func (f *fixture) openOrder(id string, table int, status entity.OrderStatus) *entity.Order {
	o := &entity.Order{
		ID:        id,
		Table:     table,
		People:    2,
		WaiterID:  "waiter-1",
		Status:    status,
		Account:   decimal.Zero,
		Tip:       decimal.Zero,
		CreatedAt: time.Now(),
		Version:   1,
	}
	f.orders.put(o)
	return o
}

// addDish stores a dish directly
func (f *fixture) addDish(d *entity.Dish) *entity.Dish {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	if d.Type == "" {
		d.Type = entity.DishTypeSingle
	}
	if len(d.Selections) == 0 {
		d.Selections = []entity.MenuSelection{{MenuItemID: menuTaco.ID}}
	}
	_ = f.dishes.Create(context.Background(), d)
	return d
}

func single(cost int64) DishInput {
	return DishInput{
		Selections: []entity.MenuSelection{{MenuItemID: menuTaco.ID}},
		Type:       entity.DishTypeSingle,
		Cost:       decimal.NewFromInt(cost),
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func boolPtr(b bool) *bool {
	return &b
}
