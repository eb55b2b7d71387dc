package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"bloom/internal/pkg/logger"
	"bloom/internal/service/checkout/application"
	"bloom/internal/service/checkout/domain"
)

var (
	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_placed_total",
		Help: "Orders committed successfully.",
	})
	checkoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Failed checkout attempts by reason.",
	}, []string{"reason"})
	checkoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "End-to-end checkout latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// CheckoutHandler exposes the checkout service over HTTP.
type CheckoutHandler struct {
	service *application.CheckoutService
}

func NewCheckoutHandler(service *application.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

func (h *CheckoutHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /create_order", h.handleCreateOrder)
	mux.HandleFunc("GET /orders/recent", h.handleRecentOrders)
	mux.HandleFunc("POST /orders/{id}/status", h.handleUpdateStatus)
}

func (h *CheckoutHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	started := time.Now()

	var req application.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, "invalid request body", http.StatusBadRequest)
		checkoutFailures.WithLabelValues("bad_request").Inc()
		return
	}

	order, err := h.service.CreateOrder(ctx, &req)
	checkoutDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		status, reason, message := classify(err)
		if status == http.StatusInternalServerError {
			// Internal detail stays server-side; the caller gets a generic
			// message.
			logger.Ctx(ctx).Error().Err(err).Msg("checkout failed unexpectedly")
			message = "an unexpected error occurred"
		}
		checkoutFailures.WithLabelValues(reason).Inc()
		httpError(w, message, status)
		return
	}

	ordersPlaced.Inc()
	writeJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) handleRecentOrders(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	orders, err := h.service.RecentOrders(ctx, limit)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("recent orders query failed")
		httpError(w, "an unexpected error occurred", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *CheckoutHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	orderID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		httpError(w, "invalid order id", http.StatusBadRequest)
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.UpdateOrderStatus(ctx, orderID, domain.OrderStatus(body.Status))
	if err != nil {
		httpError(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// classify maps domain errors onto HTTP status codes and metric reasons.
// Callers branch on error identity, never on message text.
func classify(err error) (status int, reason, message string) {
	var (
		notFound     *domain.ProductNotFoundError
		unavailable  *domain.ProductUnavailableError
		noStock      *domain.InsufficientStockError
		belowMinimum *domain.MinimumAmountError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, "product_not_found", err.Error()
	case errors.As(err, &unavailable):
		return http.StatusConflict, "product_unavailable", err.Error()
	case errors.As(err, &noStock):
		return http.StatusConflict, "insufficient_stock", err.Error()
	case errors.As(err, &belowMinimum):
		return http.StatusForbidden, "coupon_rejected", err.Error()
	case errors.Is(err, domain.ErrCouponNotFound),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrCouponLimitReached),
		errors.Is(err, domain.ErrCouponNotForUser),
		errors.Is(err, domain.ErrCouponNotApplicable):
		return http.StatusForbidden, "coupon_rejected", err.Error()
	case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusUnprocessableEntity, "invalid_cart", err.Error()
	case errors.Is(err, domain.ErrCustomerNotFound):
		return http.StatusNotFound, "customer_not_found", err.Error()
	default:
		return http.StatusInternalServerError, "internal", ""
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func httpError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
