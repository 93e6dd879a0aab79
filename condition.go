package selene

import (
	"strings"

	"github.com/pkg/errors"
)

// Condition is a described predicate over an entity. Test returns nil when the
// entity matches, a *ConditionMismatch when it does not, and any other error
// when the condition could not be evaluated.
type Condition[E Entity] interface {
	String() string
	Test(entity E) error
}

// Check evaluates a condition once. It reports whether the entity matched and
// renders the actual state, whatever the outcome.
type Check[E Entity] func(entity E) (ok bool, actual string, err error)

// Match is the condition implementation used by every built-in condition.
type Match[E Entity] struct {
	description string
	check       Check[E]
}

// NewMatch returns a condition built from a check.
func NewMatch[E Entity](description string, check Check[E]) *Match[E] {
	return &Match[E]{description: description, check: check}
}

// NewCondition returns a condition built from a function returning nil on
// match and an error otherwise.
func NewCondition[E Entity](description string, test func(E) error) *Match[E] {
	return NewMatch(description, checkOf(test))
}

func checkOf[E Entity](test func(E) error) Check[E] {
	return func(entity E) (bool, string, error) {
		err := test(entity)
		if err == nil {
			return true, "", nil
		}
		var mismatch *ConditionMismatch
		if errors.As(err, &mismatch) {
			return false, mismatch.Actual, nil
		}
		return false, "", err
	}
}

func (m *Match[E]) String() string { return m.description }

// Test implements Condition.
func (m *Match[E]) Test(entity E) error {
	ok, actual, err := m.check(entity)
	if err != nil {
		return err
	}
	if !ok {
		return &ConditionMismatch{Condition: m.description, Actual: actual}
	}
	return nil
}

// Evaluate runs the underlying check.
func (m *Match[E]) Evaluate(entity E) (bool, string, error) {
	return m.check(entity)
}

// Not returns the inverted condition. Errors of the original condition stay
// errors of the inverted one.
func (m *Match[E]) Not() *Match[E] {
	return NewMatch("not ("+m.description+")", func(entity E) (bool, string, error) {
		ok, actual, err := m.check(entity)
		if err != nil {
			return false, "", err
		}
		return !ok, actual, nil
	})
}

// And returns a condition matching when both m and other match. other is not
// tested when m fails.
func (m *Match[E]) And(other Condition[E]) *Match[E] { return And[E](m, other) }

// Or returns a condition matching when m or other matches. other is tested
// only when m fails. As with And, the first error reached is returned.
func (m *Match[E]) Or(other Condition[E]) *Match[E] { return Or[E](m, other) }

// As describes the condition with a different text.
func (m *Match[E]) As(description string) *Match[E] {
	return NewMatch(description, m.check)
}

func checkOfCondition[E Entity](c Condition[E]) Check[E] {
	if m, ok := c.(*Match[E]); ok {
		return m.check
	}
	if e, ok := c.(interface{ Evaluate(E) (bool, string, error) }); ok {
		return e.Evaluate
	}
	return checkOf(c.Test)
}

// Not inverts any condition.
func Not[E Entity](c Condition[E]) *Match[E] {
	return NewMatch(c.String(), checkOfCondition(c)).Not()
}

// And joins conditions with a short-circuit conjunction.
func And[E Entity](conditions ...Condition[E]) *Match[E] {
	names := make([]string, len(conditions))
	checks := make([]Check[E], len(conditions))
	for i, c := range conditions {
		names[i] = c.String()
		checks[i] = checkOfCondition(c)
	}
	return NewMatch(strings.Join(names, " and "), func(entity E) (bool, string, error) {
		var actuals []string
		for _, check := range checks {
			ok, actual, err := check(entity)
			if err != nil {
				return false, "", err
			}
			if actual != "" {
				actuals = append(actuals, actual)
			}
			if !ok {
				return false, actual, nil
			}
		}
		return true, strings.Join(actuals, "; "), nil
	})
}

// Or joins conditions with a short-circuit disjunction. Errors stop the
// evaluation the same way they do in And, so Not(And(a, b)) and
// Or(Not(a), Not(b)) agree on every entity.
func Or[E Entity](conditions ...Condition[E]) *Match[E] {
	names := make([]string, len(conditions))
	checks := make([]Check[E], len(conditions))
	for i, c := range conditions {
		names[i] = c.String()
		checks[i] = checkOfCondition(c)
	}
	return NewMatch(strings.Join(names, " or "), func(entity E) (bool, string, error) {
		var actuals []string
		for _, check := range checks {
			ok, actual, err := check(entity)
			if err != nil {
				return false, "", err
			}
			if ok {
				return true, actual, nil
			}
			if actual != "" {
				actuals = append(actuals, actual)
			}
		}
		return false, strings.Join(actuals, "; "), nil
	})
}
