package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderLifecycle(t *testing.T) {
	order := &Order{Status: StatusPending}

	assert.NoError(t, order.TransitionTo(StatusProcessing))
	assert.NoError(t, order.TransitionTo(StatusShipped))
	assert.NoError(t, order.TransitionTo(StatusDelivered))
	assert.True(t, order.Terminal())

	assert.Error(t, order.TransitionTo(StatusCancelled), "delivered is terminal")
}

func TestOrderCancellableFromAnyNonTerminalState(t *testing.T) {
	for _, status := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped} {
		order := &Order{Status: status}
		assert.NoError(t, order.TransitionTo(StatusCancelled), string(status))
		assert.True(t, order.Terminal())
	}
}

func TestOrderRejectsSkippedStates(t *testing.T) {
	order := &Order{Status: StatusPending}
	assert.Error(t, order.TransitionTo(StatusDelivered))
	assert.Error(t, order.TransitionTo(StatusShipped))
}

func TestInvalidationSetForOrder(t *testing.T) {
	order := &Order{
		CustomerID: 7,
		Items: []OrderItem{
			{ProductID: 1},
			{ProductID: 2},
			{ProductID: 1}, // duplicate product collapses to one key
		},
	}

	keys := InvalidationSetForOrder(order).Keys()

	assert.ElementsMatch(t, []string{
		CacheKeyOrderList,
		CacheKeyOrderStats,
		"orders:customer:7",
		"product:1",
		"product:2",
	}, keys)
}
