package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/service"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Fakes embed the service interface; calling a method a test did not stub panics.
type fakeOrderService struct {
	service.OrderService
	createFunc       func(ctx context.Context, in service.CreateOrderInput) (*entity.Order, error)
	getFunc          func(ctx context.Context, id string) (*entity.Order, error)
	listByStatusFunc func(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error)
	updateStatusFunc func(ctx context.Context, id string, status entity.OrderStatus, pt entity.PaymentType, actor string) (*entity.Order, error)
	byTokenFunc      func(ctx context.Context, token string) (*entity.Order, error)
	publicStatusFunc func(ctx context.Context, token string, status entity.OrderStatus) (*entity.Order, error)
}

func (f *fakeOrderService) Create(ctx context.Context, in service.CreateOrderInput) (*entity.Order, error) {
	return f.createFunc(ctx, in)
}

func (f *fakeOrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	return f.getFunc(ctx, id)
}

func (f *fakeOrderService) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	return f.listByStatusFunc(ctx, status)
}

func (f *fakeOrderService) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, pt entity.PaymentType, actor string) (*entity.Order, error) {
	return f.updateStatusFunc(ctx, id, status, pt, actor)
}

func (f *fakeOrderService) GetByPublicToken(ctx context.Context, token string) (*entity.Order, error) {
	return f.byTokenFunc(ctx, token)
}

func (f *fakeOrderService) UpdateStatusByPublicToken(ctx context.Context, token string, status entity.OrderStatus) (*entity.Order, error) {
	return f.publicStatusFunc(ctx, token, status)
}

type fakeDishService struct {
	service.DishService
	addFunc          func(ctx context.Context, orderID string, in []service.DishInput, actor string) ([]*entity.Dish, error)
	updateStatusFunc func(ctx context.Context, id string, status entity.DishStatus, reason, actor string) (*entity.Dish, error)
	listByOrderFunc  func(ctx context.Context, orderID string) ([]*entity.Dish, error)
	assignChefFunc   func(ctx context.Context, id, chefID string) (*entity.Dish, error)
}

func (f *fakeDishService) AddDishesToOrder(ctx context.Context, orderID string, in []service.DishInput, actor string) ([]*entity.Dish, error) {
	return f.addFunc(ctx, orderID, in, actor)
}

func (f *fakeDishService) UpdateStatus(ctx context.Context, id string, status entity.DishStatus, reason, actor string) (*entity.Dish, error) {
	return f.updateStatusFunc(ctx, id, status, reason, actor)
}

func (f *fakeDishService) ListByOrder(ctx context.Context, orderID string) ([]*entity.Dish, error) {
	return f.listByOrderFunc(ctx, orderID)
}

func (f *fakeDishService) AssignChef(ctx context.Context, id, chefID string) (*entity.Dish, error) {
	return f.assignChefFunc(ctx, id, chefID)
}

type fakeBillingService struct {
	service.BillingService
	payFunc func(ctx context.Context, id string, in service.PaymentInput) (*entity.Order, error)
}

func (f *fakeBillingService) ProcessPayment(ctx context.Context, id string, in service.PaymentInput) (*entity.Order, error) {
	return f.payFunc(ctx, id, in)
}

type fakeMetricsService struct {
	service.MetricsService
	computeFunc func(ctx context.Context, from, to time.Time) (*entity.Metrics, error)
	exportFunc  func(ctx context.Context, from, to time.Time) ([]byte, string, error)
}

func (f *fakeMetricsService) Compute(ctx context.Context, from, to time.Time) (*entity.Metrics, error) {
	return f.computeFunc(ctx, from, to)
}

func (f *fakeMetricsService) Export(ctx context.Context, from, to time.Time) ([]byte, string, error) {
	return f.exportFunc(ctx, from, to)
}

type testEnv struct {
	server  *Server
	auth    *Authenticator
	orders  *fakeOrderService
	dishes  *fakeDishService
	billing *fakeBillingService
	metrics *fakeMetricsService
	loc     *time.Location
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	auth, err := NewAuthenticator("test-secret")
	require.NoError(t, err)

	loc := time.FixedZone("kitchen", -6*3600)
	env := &testEnv{
		auth:    auth,
		orders:  &fakeOrderService{},
		dishes:  &fakeDishService{},
		billing: &fakeBillingService{},
		metrics: &fakeMetricsService{},
		loc:     loc,
	}

	cfg := DefaultServerConfig()
	cfg.Location = loc
	env.server, err = NewServer(cfg, Services{
		Order:   env.orders,
		Dish:    env.dishes,
		Billing: env.billing,
		Metrics: env.metrics,
	}, auth, nil, nopLogger{})
	require.NoError(t, err)
	return env
}

func (e *testEnv) token(t *testing.T, userID string, role entity.Role) string {
	t.Helper()
	tok, err := e.auth.IssueToken(userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).Success)

	h := NewHandlers(Services{}, func(ctx context.Context) (bool, interface{}) {
		return false, map[string]string{"database": "down"}
	}, nil, nopLogger{})
	rec = httptest.NewRecorder()
	c, _ := ginTestContext(rec)
	h.HealthCheck(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t)

	expired := &Authenticator{secret: []byte("test-secret"), now: func() time.Time { return time.Now().Add(-2 * time.Hour) }}
	expiredToken, err := expired.IssueToken("w1", entity.RoleWaiter, time.Hour)
	require.NoError(t, err)

	other, err := NewAuthenticator("other-secret")
	require.NoError(t, err)
	foreignToken, err := other.IssueToken("w1", entity.RoleWaiter, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/v1/orders/o1", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, decode(t, rec).Success)
		})
	}
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	var got service.CreateOrderInput
	env.orders.createFunc = func(ctx context.Context, in service.CreateOrderInput) (*entity.Order, error) {
		got = in
		return &entity.Order{ID: "o1", Table: in.Table, People: in.People, WaiterID: in.WaiterID, Status: entity.OrderStatusOpen}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/v1/orders", env.token(t, "w1", entity.RoleWaiter), map[string]interface{}{
		"table":  4,
		"people": 3,
		"custom_charges": []map[string]interface{}{
			{"name": " Corkage\x07 ", "amount": "50.00"},
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 4, got.Table)
	assert.Equal(t, "w1", got.WaiterID)
	require.Len(t, got.CustomCharges, 1)
	assert.Equal(t, "Corkage", got.CustomCharges[0].Name)
	assert.True(t, decimal.RequireFromString("50").Equal(got.CustomCharges[0].Amount))
}

func TestCreateOrder_Rejected(t *testing.T) {
	env := newTestEnv(t)
	env.orders.createFunc = func(ctx context.Context, in service.CreateOrderInput) (*entity.Order, error) {
		return &entity.Order{ID: "o1"}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/v1/orders", env.token(t, "w1", entity.RoleWaiter), map[string]interface{}{"table": 0, "people": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", env.token(t, "c1", entity.RoleChef), map[string]interface{}{"table": 1, "people": 2})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", env.token(t, "m1", entity.RoleManager), map[string]interface{}{"table": 1, "people": 2})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestNegativeAmountsRejected(t *testing.T) {
	env := newTestEnv(t)
	called := false
	env.orders.createFunc = func(ctx context.Context, in service.CreateOrderInput) (*entity.Order, error) {
		called = true
		return &entity.Order{ID: "o1"}, nil
	}
	env.billing.payFunc = func(ctx context.Context, id string, in service.PaymentInput) (*entity.Order, error) {
		called = true
		return &entity.Order{ID: id}, nil
	}
	tok := env.token(t, "w1", entity.RoleWaiter)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"order charge", "/api/v1/orders", `{"table":1,"people":2,"custom_charges":[{"name":"Discount","amount":"-50"}]}`},
		{"payment tip", "/api/v1/orders/o1/payment", `{"payment_type":"TRANSFER","tip":"-30"}`},
		{"payment cash", "/api/v1/orders/o1/payment", `{"payment_type":"CASH","cash_received":"-1"}`},
		{"payment charge", "/api/v1/orders/o1/payment", `{"payment_type":"TRANSFER","custom_charges":[{"name":"X","amount":"-0.01"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.path, tok, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, decode(t, rec).Error, "gte")
		})
	}
	assert.False(t, called)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", &service.Error{Kind: service.KindNotFound, Entity: "order", ID: "o1", Msg: "not found"}, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", &service.Error{Kind: service.KindConflict, Msg: "modified concurrently, retry"}, http.StatusConflict, "CONFLICT"},
		{"insufficient payment", &service.Error{Kind: service.KindInsufficientPayment}, http.StatusUnprocessableEntity, "INSUFFICIENT_PAYMENT"},
		{"invalid state", &service.Error{Kind: service.KindInvalidState, State: "CLOSED"}, http.StatusBadRequest, "CLOSED"},
		{"missing field", &service.Error{Kind: service.KindMissingField}, http.StatusBadRequest, "MISSING_FIELD"},
		{"empty account", &service.Error{Kind: service.KindEmptyAccount}, http.StatusBadRequest, "EMPTY_ACCOUNT"},
		{"store failure", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.orders.getFunc = func(ctx context.Context, id string) (*entity.Order, error) {
				return nil, tt.err
			}
			rec := env.do(t, http.MethodGet, "/api/v1/orders/o1", env.token(t, "w1", entity.RoleWaiter), nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, decode(t, rec).Error, tt.wantMsg)
		})
	}
}

func TestListOrders_ByStatus(t *testing.T) {
	env := newTestEnv(t)
	var got entity.OrderStatus
	env.orders.listByStatusFunc = func(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
		got = status
		return []*entity.Order{{ID: "o1", Status: status}}, nil
	}
	tok := env.token(t, "w1", entity.RoleWaiter)

	rec := env.do(t, http.MethodGet, "/api/v1/orders?status=PAYING", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.OrderStatusPaying, got)

	rec = env.do(t, http.MethodGet, "/api/v1/orders?status=EATING", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatus_PassesPaymentType(t *testing.T) {
	env := newTestEnv(t)
	env.orders.updateStatusFunc = func(ctx context.Context, id string, status entity.OrderStatus, pt entity.PaymentType, actor string) (*entity.Order, error) {
		assert.Equal(t, "o1", id)
		assert.Equal(t, entity.OrderStatusPaying, status)
		assert.Equal(t, entity.PaymentTypeCard, pt)
		assert.Equal(t, "w1", actor)
		return &entity.Order{ID: id, Status: status, PaymentType: pt}, nil
	}
	tok := env.token(t, "w1", entity.RoleWaiter)

	rec := env.do(t, http.MethodPatch, "/api/v1/orders/o1/status", tok, map[string]string{"status": "PAYING", "payment_type": "CARD"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPatch, "/api/v1/orders/o1/status", tok, map[string]string{"status": "PAYING", "payment_type": "BITCOIN"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessPayment(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCharges []service.CustomChargeInput
		wantNil     bool
		wantCash    string
	}{
		{
			name:     "keeps charges when absent",
			body:     `{"payment_type":"CASH","cash_received":"500","tip":20}`,
			wantNil:  true,
			wantCash: "500",
		},
		{
			name:        "empty list clears charges",
			body:        `{"payment_type":"CARD","card_tx_number":"TX1","custom_charges":[]}`,
			wantCharges: []service.CustomChargeInput{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			var got service.PaymentInput
			env.billing.payFunc = func(ctx context.Context, id string, in service.PaymentInput) (*entity.Order, error) {
				got = in
				return &entity.Order{ID: id, Status: entity.OrderStatusClosed}, nil
			}

			rec := env.do(t, http.MethodPost, "/api/v1/orders/o1/payment", env.token(t, "w1", entity.RoleWaiter), tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "w1", got.ActorID)
			if tt.wantNil {
				assert.Nil(t, got.CustomCharges)
			} else {
				assert.NotNil(t, got.CustomCharges)
				assert.Len(t, got.CustomCharges, len(tt.wantCharges))
			}
			if tt.wantCash != "" {
				require.NotNil(t, got.CashReceived)
				assert.Equal(t, tt.wantCash, got.CashReceived.String())
				require.NotNil(t, got.Tip)
				assert.Equal(t, "20", got.Tip.String())
			}
		})
	}
}

func TestAddDishes(t *testing.T) {
	env := newTestEnv(t)
	var got []service.DishInput
	env.dishes.addFunc = func(ctx context.Context, orderID string, in []service.DishInput, actor string) ([]*entity.Dish, error) {
		assert.Equal(t, "o1", orderID)
		got = in
		out := make([]*entity.Dish, len(in))
		for i := range in {
			out[i] = &entity.Dish{ID: "d", OrderID: orderID, Type: in[i].Type}
		}
		return out, nil
	}

	body := `{"dishes":[
		{"type":"COMPOUND","cost":145,"is_complement_coffee":true,"selections":[{"menu_item_id":"m1","notes":"sin cebolla"}]},
		{"type":"SINGLE","cost":"98.50","selections":[{"menu_item_id":"m2"}]}
	]}`
	rec := env.do(t, http.MethodPost, "/api/v1/orders/o1/dishes", env.token(t, "w1", entity.RoleWaiter), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, got, 2)
	assert.Equal(t, "o1", got[0].OrderID)
	assert.Equal(t, entity.DishTypeCompound, got[0].Type)
	require.NotNil(t, got[0].IsComplementCoffee)
	assert.True(t, *got[0].IsComplementCoffee)
	assert.Equal(t, "sin cebolla", got[0].Selections[0].Notes)
	assert.Equal(t, "98.5", got[1].Cost.String())
}

func TestAddDishes_Validation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "w1", entity.RoleWaiter)

	tests := []struct {
		name string
		body string
	}{
		{"no dishes", `{"dishes":[]}`},
		{"unknown type", `{"dishes":[{"type":"COMBO","selections":[{"menu_item_id":"m1"}]}]}`},
		{"no selections", `{"dishes":[{"type":"SINGLE","selections":[]}]}`},
		{"selection without item", `{"dishes":[{"type":"SINGLE","selections":[{"notes":"x"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/orders/o1/dishes", tok, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateDishStatus(t *testing.T) {
	env := newTestEnv(t)
	env.dishes.updateStatusFunc = func(ctx context.Context, id string, status entity.DishStatus, reason, actor string) (*entity.Dish, error) {
		return &entity.Dish{ID: id, Status: status, ConflictReason: reason, ChefID: actor}, nil
	}

	rec := env.do(t, http.MethodPatch, "/api/v1/dishes/d1/status", env.token(t, "c1", entity.RoleChef),
		map[string]string{"status": "CONFLICT", "conflict_reason": "no hay aguacate"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/v1/dishes/d1/status", env.token(t, "c1", entity.RoleChef),
		map[string]string{"status": "BURNT"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignChef_DefaultsToCaller(t *testing.T) {
	env := newTestEnv(t)
	env.dishes.assignChefFunc = func(ctx context.Context, id, chefID string) (*entity.Dish, error) {
		return &entity.Dish{ID: id, ChefID: chefID, Status: entity.DishStatusWorkingOn}, nil
	}

	rec := env.do(t, http.MethodPatch, "/api/v1/dishes/d1/chef", env.token(t, "c7", entity.RoleChef), map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"chef_id":"c7"`)

	rec = env.do(t, http.MethodPatch, "/api/v1/dishes/d1/chef", env.token(t, "w1", entity.RoleWaiter), map[string]string{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPublicEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.orders.byTokenFunc = func(ctx context.Context, token string) (*entity.Order, error) {
		if token != "good" {
			return nil, &service.Error{Kind: service.KindNotFound, Entity: "order"}
		}
		return &entity.Order{ID: "o1", Status: entity.OrderStatusOpen}, nil
	}
	env.dishes.listByOrderFunc = func(ctx context.Context, orderID string) ([]*entity.Dish, error) {
		return []*entity.Dish{{ID: "d1", OrderID: orderID}}, nil
	}
	env.orders.publicStatusFunc = func(ctx context.Context, token string, status entity.OrderStatus) (*entity.Order, error) {
		if status != entity.OrderStatusPaying {
			return nil, &service.Error{Kind: service.KindInvalidState, Msg: "customers may only ask for the bill"}
		}
		return &entity.Order{ID: "o1", Status: status}, nil
	}

	rec := env.do(t, http.MethodGet, "/api/v1/public/orders/good", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/public/orders/bad", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/public/orders/good/dishes", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"d1"`)

	rec = env.do(t, http.MethodGet, "/api/v1/public/orders/bad/dishes", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/v1/public/orders/good/status", "", map[string]string{"status": "PAYING"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/v1/public/orders/good/status", "", map[string]string{"status": "CLOSED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.metrics.computeFunc = func(ctx context.Context, from, to time.Time) (*entity.Metrics, error) {
		assert.Equal(t, env.loc, from.Location())
		assert.Equal(t, 16, from.Day())
		assert.Equal(t, 17, to.Day())
		return &entity.Metrics{From: from, To: to, SingleDishes: 3}, nil
	}
	env.metrics.exportFunc = func(ctx context.Context, from, to time.Time) ([]byte, string, error) {
		return []byte("xlsx"), "application/test", nil
	}
	manager := env.token(t, "m1", entity.RoleManager)

	rec := env.do(t, http.MethodGet, "/api/v1/metrics?from=2026-10-16&to=2026-10-17", manager, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/metrics?from=16/10/2026&to=2026-10-17", manager, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/metrics?from=2026-10-16&to=2026-10-17", env.token(t, "w1", entity.RoleWaiter), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/metrics/export?from=2026-10-16&to=2026-10-17", manager, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/test", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "metrics_2026-10-16_2026-10-17.xlsx")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodOptions, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
