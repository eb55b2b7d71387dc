package domain

import "fmt"

// Cache key layout for the storefront read paths touched by checkout.
const (
	CacheKeyOrderList  = "orders:list"
	CacheKeyOrderStats = "orders:stats"
)

// CacheKeyCustomerOrders is the per-user order list key.
func CacheKeyCustomerOrders(customerID uint64) string {
	return fmt.Sprintf("orders:customer:%d", customerID)
}

// CacheKeyProduct is the per-product read cache key.
func CacheKeyProduct(productID uint64) string {
	return fmt.Sprintf("product:%d", productID)
}

// InvalidationSet is the explicit set of cache keys a committed order makes
// stale. The orchestrator builds it; a cache adapter consumes it after commit,
// at-least-once and best-effort.
type InvalidationSet struct {
	keys map[string]struct{}
}

func NewInvalidationSet() *InvalidationSet {
	return &InvalidationSet{keys: make(map[string]struct{})}
}

func (s *InvalidationSet) Add(keys ...string) {
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
}

// Keys returns the collected keys in unspecified order.
func (s *InvalidationSet) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out
}

// InvalidationSetForOrder collects every read path a new order makes stale.
func InvalidationSetForOrder(order *Order) *InvalidationSet {
	set := NewInvalidationSet()
	set.Add(CacheKeyOrderList, CacheKeyOrderStats)
	if order.CustomerID != 0 {
		set.Add(CacheKeyCustomerOrders(order.CustomerID))
	}
	for _, item := range order.Items {
		set.Add(CacheKeyProduct(item.ProductID))
	}
	return set
}
