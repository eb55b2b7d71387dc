package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloom/internal/service/checkout/domain"
)

func TestEvaluate(t *testing.T) {
	engine, err := NewCELRuleEngine()
	require.NoError(t, err)

	fact := domain.Fact{
		OrderAmount:  75.50,
		ItemCount:    3,
		ProductIDs:   []uint64{1, 2, 7},
		DeliveryType: "DELIVERY",
		IsGuest:      true,
	}

	cases := []struct {
		name       string
		expression string
		want       bool
	}{
		{"empty expression always passes", "", true},
		{"amount threshold met", "orderAmount >= 50.0", true},
		{"amount threshold missed", "orderAmount >= 100.0", false},
		{"delivery type match", `deliveryType == "DELIVERY" && itemCount >= 2`, true},
		{"guest restriction", "!isGuest", false},
		{"product membership", "7u in productIds", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.Evaluate(tc.expression, fact)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	engine, err := NewCELRuleEngine()
	require.NoError(t, err)

	_, err = engine.Evaluate("orderAmount >=", domain.Fact{})
	assert.Error(t, err, "syntax errors surface at compile time")

	_, err = engine.Evaluate("orderAmount + 1.0", domain.Fact{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not evaluate to a boolean")
}

func TestCompileCaching(t *testing.T) {
	engine, err := NewCELRuleEngine()
	require.NoError(t, err)

	const expr = "itemCount > 0"
	_, err = engine.Evaluate(expr, domain.Fact{ItemCount: 1})
	require.NoError(t, err)

	_, ok := engine.programs[expr]
	require.True(t, ok, "compiled program is cached")

	_, err = engine.Evaluate(expr, domain.Fact{ItemCount: 2})
	require.NoError(t, err)
	assert.Len(t, engine.programs, 1)
}
