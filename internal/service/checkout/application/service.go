package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"bloom/internal/pkg/logger"
	"bloom/internal/service/checkout/domain"
	"bloom/internal/service/checkout/port"
)

// Pricing carries the storefront-wide pricing knobs.
type Pricing struct {
	TaxRate     float64 // e.g. 0.05
	DeliveryFee float64 // charged for courier delivery unless waived
	CODFee      float64 // charged for cash-on-delivery payment
}

const PaymentCOD = "COD"

// CheckoutService orchestrates the order transaction: identity resolution,
// authoritative pricing, coupon redemption, stock reservation and persistence,
// all inside one unit of work, followed by best-effort post-commit effects.
type CheckoutService struct {
	uow       domain.UnitOfWork
	customers domain.CustomerRepository
	hasher    port.PasswordHasher
	rules     domain.RuleEngine
	notifier  port.OrderNotifier
	cache     port.CacheInvalidator
	pricing   Pricing
	tracer    trace.Tracer
	now       func() time.Time
}

func NewCheckoutService(
	uow domain.UnitOfWork,
	customers domain.CustomerRepository,
	hasher port.PasswordHasher,
	rules domain.RuleEngine,
	notifier port.OrderNotifier,
	cache port.CacheInvalidator,
	pricing Pricing,
	tracer trace.Tracer,
) *CheckoutService {
	return &CheckoutService{
		uow: uow, customers: customers, hasher: hasher, rules: rules,
		notifier: notifier, cache: cache, pricing: pricing, tracer: tracer,
		now: time.Now,
	}
}

// CreateOrder is the single entry point of the checkout core. Steps 2-6 of
// the flow run inside one database transaction: any failure rolls back every
// stock decrement, the coupon increment and all inserts. On success the
// committed order is returned fully populated and the post-commit side
// effects fire asynchronously.
func (s *CheckoutService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.CreateOrder")
	defer span.End()

	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	// Identity resolution happens before the transactional core; the guest
	// upsert is idempotent on email so a resubmitted checkout reuses the
	// account created by the first attempt.
	customer, err := s.resolveCustomer(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Int64("customer.id", int64(customer.ID)),
		attribute.Bool("customer.guest", customer.IsGuest),
		attribute.Int("cart.lines", len(req.Items)),
	)

	var order *domain.Order
	err = s.uow.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		order, err = s.placeOrder(ctx, repos, req, customer)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout transaction rolled back")
		return nil, err
	}

	span.SetAttributes(attribute.String("order.number", order.Number))
	logger.Ctx(ctx).Info().
		Uint64("order_id", order.ID).
		Str("order_number", order.Number).
		Float64("total", domain.Round2(order.TotalAmount)).
		Msg("order committed")

	go s.afterCommit(ctx, order)

	return toOrderView(order), nil
}

// placeOrder runs entirely inside the transaction owned by CreateOrder.
// Writes happen in program order: stock decrements, coupon increment, order
// insert, item inserts, coupon-usage insert, notification insert.
func (s *CheckoutService) placeOrder(ctx context.Context, repos domain.Repositories, req *CreateOrderRequest, customer *domain.Customer) (*domain.Order, error) {
	now := s.now()

	products, err := s.loadProducts(ctx, repos.Products, req.Items)
	if err != nil {
		return nil, err
	}

	// Authoritative pricing: unit prices come from the catalog rows just
	// read, never from the request.
	lines := make([]domain.PriceLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = domain.PriceLine{UnitPrice: products[item.ProductID].Price, Quantity: item.Quantity}
	}
	subtotal := domain.Subtotal(lines)

	coupon, discount, err := s.applyCoupon(ctx, repos.Coupons, req, customer, subtotal, now)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if err := repos.Products.ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if coupon != nil {
		if err := repos.Coupons.IncrementUsage(ctx, coupon.ID); err != nil {
			return nil, err
		}
	}

	quote := domain.ComputeQuote(lines, discount, s.pricing.TaxRate)

	deliveryCost := 0.0
	if domain.DeliveryType(req.DeliveryType) == domain.DeliveryCourier {
		deliveryCost = s.pricing.DeliveryFee
	}
	if coupon != nil && coupon.WaivesDelivery() {
		deliveryCost = 0
	}
	codFee := 0.0
	if req.PaymentMethod == PaymentCOD {
		codFee = s.pricing.CODFee
	}

	order := &domain.Order{
		Number:        uuid.New().String(),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		AddressLine:   req.AddressLine,
		City:          req.City,
		PostalCode:    req.PostalCode,
		PaymentMethod: req.PaymentMethod,
		DeliveryType:  domain.DeliveryType(req.DeliveryType),
		DeliveryDate:  req.DeliveryDate,
		DeliveryTime:  req.DeliveryTime,
		Instructions:  req.Instructions,
		Status:        domain.StatusPending,
		TotalAmount:   domain.Round2(quote.GrandTotal + deliveryCost + codFee),
		Discount:      domain.Round2(quote.Discount),
		VATAmount:     domain.Round2(quote.Tax),
		DeliveryCost:  domain.Round2(deliveryCost),
		CODFee:        domain.Round2(codFee),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, item := range req.Items {
		product := products[item.ProductID]
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     domain.Round2(product.Price), // price snapshot
			Quantity:  item.Quantity,
		})
	}

	if err := repos.Orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if coupon != nil {
		usage := &domain.CouponUsage{
			CouponID:       coupon.ID,
			OrderID:        order.ID,
			CustomerID:     customer.ID,
			CustomerEmail:  customer.Email,
			DiscountAmount: domain.Round2(discount),
			OrderAmount:    domain.Round2(subtotal),
			UsedAt:         now,
		}
		if err := repos.Coupons.CreateUsage(ctx, usage); err != nil {
			return nil, err
		}
		order.CouponUsage = usage
	}

	notification := &domain.Notification{
		Type:      domain.NotificationNewOrder,
		Message:   "New order " + order.Number + " from " + customer.Name,
		OrderID:   order.ID,
		CreatedAt: now,
	}
	return order, repos.Notifications.Create(ctx, notification)
}

func (s *CheckoutService) resolveCustomer(ctx context.Context, req *CreateOrderRequest) (*domain.Customer, error) {
	if !req.IsGuest {
		return s.customers.FindByID(ctx, req.CustomerID)
	}
	hash, err := s.hasher.Hash(uuid.New().String())
	if err != nil {
		return nil, err
	}
	return s.customers.EnsureGuest(ctx, &domain.Customer{
		Name:         req.CustomerName,
		Email:        req.CustomerEmail,
		Phone:        req.CustomerPhone,
		PasswordHash: hash,
		IsGuest:      true,
		CreatedAt:    s.now(),
	})
}

// loadProducts fetches every cart line's product row and rejects unknown or
// non-active products. Lines are never silently dropped.
func (s *CheckoutService) loadProducts(ctx context.Context, repo domain.ProductRepository, items []CartItemInput) (map[uint64]*domain.Product, error) {
	ids := make([]uint64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	rows, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*domain.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, &domain.ProductNotFoundError{ProductID: item.ProductID}
		}
		if !product.Purchasable() {
			return nil, &domain.ProductUnavailableError{ProductID: product.ID, Name: product.Name}
		}
	}
	return byID, nil
}

// applyCoupon validates the coupon against the recomputed subtotal and, when
// the buyer is known, their redemption history. Returns the coupon and the
// discount to apply, or (nil, 0) when no code was supplied.
func (s *CheckoutService) applyCoupon(ctx context.Context, repo domain.CouponRepository, req *CreateOrderRequest, customer *domain.Customer, subtotal float64, now time.Time) (*domain.Coupon, float64, error) {
	if req.CouponCode == "" {
		return nil, 0, nil
	}
	coupon, err := repo.FindByCode(ctx, domain.NormalizeCouponCode(req.CouponCode))
	if err != nil {
		return nil, 0, err
	}

	var history *domain.UserCouponHistory
	if customer.ID != 0 && (coupon.UserUsageLimit != nil || coupon.NewUsersOnly) {
		history, err = repo.HistoryFor(ctx, coupon.ID, customer.ID)
		if err != nil {
			return nil, 0, err
		}
	}

	if coupon.RuleExpression != "" {
		ids := make([]uint64, len(req.Items))
		count := 0
		for i, item := range req.Items {
			ids[i] = item.ProductID
			count += item.Quantity
		}
		eligible, err := s.rules.Evaluate(coupon.RuleExpression, domain.Fact{
			OrderAmount:  subtotal,
			ItemCount:    count,
			ProductIDs:   ids,
			DeliveryType: req.DeliveryType,
			IsGuest:      customer.IsGuest,
		})
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("code", coupon.Code).Msg("coupon rule evaluation failed")
			return nil, 0, domain.ErrCouponNotApplicable
		}
		if !eligible {
			return nil, 0, domain.ErrCouponNotApplicable
		}
	}

	discount, err := coupon.Validate(subtotal, history, now)
	if err != nil {
		return nil, 0, err
	}
	return coupon, discount, nil
}

// afterCommit fires the best-effort side effects. It runs detached from the
// request: the caller already holds a committed order, so failures here are
// logged and dropped. The span context is carried over so the fan-out still
// shows up on the checkout trace.
func (s *CheckoutService) afterCommit(parent context.Context, order *domain.Order) {
	spanCtx := trace.SpanContextFromContext(parent)
	ctx, cancel := context.WithTimeout(
		trace.ContextWithSpanContext(context.Background(), spanCtx), 5*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.notifier.Broadcast(ctx, &port.OrderPlacedEvent{
			OrderID:     order.ID,
			OrderNumber: order.Number,
			CustomerID:  order.CustomerID,
			Customer:    order.CustomerName,
			TotalAmount: domain.Round2(order.TotalAmount),
			ItemCount:   len(order.Items),
			Message:     "New order " + order.Number,
		})
	})
	g.Go(func() error {
		return s.cache.Invalidate(ctx, domain.InvalidationSetForOrder(order).Keys())
	})
	if err := g.Wait(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Uint64("order_id", order.ID).Msg("post-commit side effect failed")
	}
}

// UpdateOrderStatus applies an admin lifecycle transition and invalidates the
// affected read caches.
func (s *CheckoutService) UpdateOrderStatus(ctx context.Context, orderID uint64, next domain.OrderStatus) (*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.UpdateOrderStatus")
	defer span.End()

	var order *domain.Order
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		order, err = repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.TransitionTo(next); err != nil {
			return err
		}
		return repos.Orders.UpdateStatus(ctx, orderID, next)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	set := domain.NewInvalidationSet()
	set.Add(domain.CacheKeyOrderList, domain.CacheKeyOrderStats, domain.CacheKeyCustomerOrders(order.CustomerID))
	if err := s.cache.Invalidate(ctx, set.Keys()); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("cache invalidation failed after status change")
	}
	return toOrderView(order), nil
}

// RecentOrders returns the latest orders for the admin dashboard.
func (s *CheckoutService) RecentOrders(ctx context.Context, limit int) ([]*OrderView, error) {
	if limit <= 0 {
		limit = 50
	}
	var views []*OrderView
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, repos domain.Repositories) error {
		orders, err := repos.Orders.FindRecent(ctx, limit)
		if err != nil {
			return err
		}
		for _, o := range orders {
			views = append(views, toOrderView(o))
		}
		return nil
	})
	return views, err
}
