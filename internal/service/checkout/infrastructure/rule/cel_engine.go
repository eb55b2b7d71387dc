package rule

import (
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"bloom/internal/service/checkout/domain"
)

// CELRuleEngine implements domain.RuleEngine with Common Expression Language
// predicates, e.g. `orderAmount >= 50.0 && deliveryType == "DELIVERY"`.
// Compiled programs are cached per expression since coupons change rarely.
type CELRuleEngine struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program
}

func NewCELRuleEngine() (*CELRuleEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("orderAmount", cel.DoubleType),
		cel.Variable("itemCount", cel.IntType),
		cel.Variable("productIds", cel.ListType(cel.UintType)),
		cel.Variable("deliveryType", cel.StringType),
		cel.Variable("isGuest", cel.BoolType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create cel environment")
	}
	return &CELRuleEngine{env: env, programs: make(map[string]cel.Program)}, nil
}

func (e *CELRuleEngine) Evaluate(expression string, fact domain.Fact) (bool, error) {
	if expression == "" {
		return true, nil
	}
	program, err := e.compile(expression)
	if err != nil {
		return false, err
	}
	out, _, err := program.Eval(map[string]interface{}{
		"orderAmount":  fact.OrderAmount,
		"itemCount":    fact.ItemCount,
		"productIds":   fact.ProductIDs,
		"deliveryType": fact.DeliveryType,
		"isGuest":      fact.IsGuest,
	})
	if err != nil {
		return false, errors.Wrap(err, "evaluate rule")
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("rule did not evaluate to a boolean: %q", expression)
	}
	return result, nil
}

func (e *CELRuleEngine) compile(expression string) (cel.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), "compile rule %q", expression)
	}
	program, err := e.env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "build rule program %q", expression)
	}

	e.mu.Lock()
	e.programs[expression] = program
	e.mu.Unlock()
	return program, nil
}
