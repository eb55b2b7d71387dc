package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"bloom/internal/service/checkout/application"
	"bloom/internal/service/checkout/domain"
	"bloom/internal/service/checkout/port"
)

// handlerStore is a minimal in-memory backend. It does not emulate rollback;
// the transactional properties are covered by the application tests.
type handlerStore struct {
	products  map[uint64]*domain.Product
	coupons   map[string]*domain.Coupon
	customers map[string]*domain.Customer
	orders    []*domain.Order
	nextID    uint64
}

func (s *handlerStore) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *handlerStore) repos() domain.Repositories {
	return domain.Repositories{
		Products:      (*storeProducts)(s),
		Coupons:       (*storeCoupons)(s),
		Orders:        (*storeOrders)(s),
		Customers:     (*storeCustomers)(s),
		Notifications: (*storeNotifications)(s),
	}
}

type storeProducts handlerStore

func (s *storeProducts) FindByIDs(ctx context.Context, ids []uint64) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *storeProducts) ReserveStock(ctx context.Context, productID uint64, quantity int) error {
	p := s.products[productID]
	if p == nil || p.Quantity < quantity {
		name := ""
		if p != nil {
			name = p.Name
		}
		return &domain.InsufficientStockError{ProductID: productID, Name: name, Requested: quantity}
	}
	p.Quantity -= quantity
	return nil
}

type storeCoupons handlerStore

func (s *storeCoupons) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if c, ok := s.coupons[code]; ok {
		return c, nil
	}
	return nil, domain.ErrCouponNotFound
}

func (s *storeCoupons) IncrementUsage(ctx context.Context, couponID uint64) error { return nil }

func (s *storeCoupons) CreateUsage(ctx context.Context, usage *domain.CouponUsage) error {
	usage.ID = (*handlerStore)(s).id()
	return nil
}

func (s *storeCoupons) HistoryFor(ctx context.Context, couponID, customerID uint64) (*domain.UserCouponHistory, error) {
	return &domain.UserCouponHistory{}, nil
}

type storeOrders handlerStore

func (s *storeOrders) Create(ctx context.Context, order *domain.Order) error {
	order.ID = (*handlerStore)(s).id()
	s.orders = append(s.orders, order)
	return nil
}

func (s *storeOrders) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("order %d not found", id)
}

func (s *storeOrders) FindRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	return s.orders, nil
}

func (s *storeOrders) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	o, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	o.Status = status
	return nil
}

type storeCustomers handlerStore

func (s *storeCustomers) FindByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (s *storeCustomers) EnsureGuest(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if existing, ok := s.customers[customer.Email]; ok {
		return existing, nil
	}
	customer.ID = (*handlerStore)(s).id()
	s.customers[customer.Email] = customer
	return customer, nil
}

type storeNotifications handlerStore

func (s *storeNotifications) Create(ctx context.Context, n *domain.Notification) error { return nil }

type passthroughUoW struct{ store *handlerStore }

func (u *passthroughUoW) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return fn(ctx, u.store.repos())
}

type noopNotifier struct{}

func (noopNotifier) Broadcast(ctx context.Context, event *port.OrderPlacedEvent) error { return nil }

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(ctx context.Context, keys []string) error { return nil }

type noopHasher struct{}

func (noopHasher) Hash(plain string) (string, error) { return plain, nil }

type allowAllRules struct{}

func (allowAllRules) Evaluate(expression string, fact domain.Fact) (bool, error) { return true, nil }

func newTestMux(t *testing.T) (*http.ServeMux, *handlerStore) {
	t.Helper()
	store := &handlerStore{
		products:  make(map[uint64]*domain.Product),
		coupons:   make(map[string]*domain.Coupon),
		customers: make(map[string]*domain.Customer),
	}
	store.products[1] = &domain.Product{ID: 1, Name: "Rose Bouquet", Price: 10.00, Quantity: 5, Status: domain.ProductActive}
	store.coupons["SAVE10"] = &domain.Coupon{
		ID: 10, Code: "SAVE10", DiscountType: domain.DiscountPercentage, DiscountValue: 10,
		ValidFrom: time.Now().Add(-time.Hour), ValidUntil: time.Now().Add(time.Hour), IsActive: true,
	}

	service := application.NewCheckoutService(
		&passthroughUoW{store: store},
		(*storeCustomers)(store),
		noopHasher{},
		allowAllRules{},
		noopNotifier{},
		noopInvalidator{},
		application.Pricing{TaxRate: 0.05, DeliveryFee: 5.00, CODFee: 2.00},
		otel.Tracer("test"),
	)
	mux := http.NewServeMux()
	NewCheckoutHandler(service).RegisterRoutes(mux)
	return mux, store
}

func doJSON(mux *http.ServeMux, method, target string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func orderPayload(quantity int, couponCode string) map[string]interface{} {
	return map[string]interface{}{
		"isGuest":       true,
		"customerName":  "Daisy Bell",
		"customerEmail": "daisy@example.com",
		"customerPhone": "555-0101",
		"addressLine":   "1 Tulip Lane",
		"city":          "Rosewood",
		"postalCode":    "0420",
		"paymentMethod": "CARD",
		"deliveryType":  "PICKUP",
		"couponCode":    couponCode,
		"items": []map[string]interface{}{
			{"productId": 1, "quantity": quantity},
		},
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	mux, store := newTestMux(t)

	rec := doJSON(mux, http.MethodPost, "/create_order", orderPayload(3, "SAVE10"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var view application.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.NotEmpty(t, view.Number)
	assert.Equal(t, "PENDING", view.Status)
	assert.Equal(t, 28.35, view.TotalAmount)
	assert.Equal(t, 2, store.products[1].Quantity)
}

func TestCreateOrderEndpointFailures(t *testing.T) {
	mux, store := newTestMux(t)

	t.Run("insufficient stock", func(t *testing.T) {
		rec := doJSON(mux, http.MethodPost, "/create_order", orderPayload(99, ""))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient stock for Rose Bouquet")
		assert.Equal(t, 5, store.products[1].Quantity)
	})

	t.Run("unknown coupon", func(t *testing.T) {
		rec := doJSON(mux, http.MethodPost, "/create_order", orderPayload(1, "NOPE"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid coupon code")
	})

	t.Run("empty cart", func(t *testing.T) {
		payload := orderPayload(1, "")
		payload["items"] = []map[string]interface{}{}
		rec := doJSON(mux, http.MethodPost, "/create_order", payload)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/create_order", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRecentOrdersEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(mux, http.MethodPost, "/create_order", orderPayload(1, ""))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(mux, http.MethodGet, "/orders/recent?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var views []application.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "PENDING", views[0].Status)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	mux, store := newTestMux(t)

	rec := doJSON(mux, http.MethodPost, "/create_order", orderPayload(1, ""))
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := store.orders[0].ID

	rec = doJSON(mux, http.MethodPost, fmt.Sprintf("/orders/%d/status", orderID), map[string]string{"status": "PROCESSING"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(mux, http.MethodPost, fmt.Sprintf("/orders/%d/status", orderID), map[string]string{"status": "DELIVERED"})
	assert.Equal(t, http.StatusConflict, rec.Code, "skipping SHIPPED is rejected")

	rec = doJSON(mux, http.MethodPost, "/orders/abc/status", map[string]string{"status": "PROCESSING"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyDefaultsToInternal(t *testing.T) {
	status, reason, message := classify(fmt.Errorf("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal", reason)
	assert.Empty(t, message)
}
