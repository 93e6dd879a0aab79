package match

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/wanmail/selene"
)

// CountCondition compares a count read from an entity, such as a collection
// size or a number of tabs, with an expected number.
type CountCondition[E selene.Entity] struct {
	*selene.Match[E]
	name     string
	actualOf string
	count    func(E) (int, error)
	n        int
}

func newCount[E selene.Entity](name, actualOf string, count func(E) (int, error), n int) *CountCondition[E] {
	c := &CountCondition[E]{name: name, actualOf: actualOf, count: count, n: n}
	c.Match = c.compare(name+" "+strconv.Itoa(n), func(actual int) bool { return actual == n })
	return c
}

func (c *CountCondition[E]) compare(description string, ok func(actual int) bool) *selene.Match[E] {
	return selene.NewMatch(description, func(entity E) (bool, string, error) {
		actual, err := c.count(entity)
		if err != nil {
			return false, "", err
		}
		return ok(actual), fmt.Sprintf("actual %s: %d", c.actualOf, actual), nil
	})
}

// OrLess also matches counts smaller than expected.
func (c *CountCondition[E]) OrLess() *selene.Match[E] {
	return c.compare(fmt.Sprintf("%s less than or equal %d", c.name, c.n), func(actual int) bool { return actual <= c.n })
}

// OrMore also matches counts greater than expected.
func (c *CountCondition[E]) OrMore() *selene.Match[E] {
	return c.compare(fmt.Sprintf("%s greater than or equal %d", c.name, c.n), func(actual int) bool { return actual >= c.n })
}

// GreaterThan matches counts greater than expected.
func (c *CountCondition[E]) GreaterThan() *selene.Match[E] {
	return c.compare(fmt.Sprintf("%s greater than %d", c.name, c.n), func(actual int) bool { return actual > c.n })
}

// LessThan matches counts smaller than expected.
func (c *CountCondition[E]) LessThan() *selene.Match[E] {
	return c.compare(fmt.Sprintf("%s less than %d", c.name, c.n), func(actual int) bool { return actual < c.n })
}

// size counts the elements of a collection, only the visible ones when
// MatchOnlyVisibleElementsSize is set.
func size(c *selene.Collection) (int, error) {
	webelements, err := c.Locate()
	if err != nil {
		return 0, err
	}
	if !c.Config().MatchOnlyVisibleElementsSize {
		return len(webelements), nil
	}
	n := 0
	for _, we := range webelements {
		displayed, err := we.IsDisplayed()
		if err != nil {
			return 0, err
		}
		if displayed {
			n++
		}
	}
	return n, nil
}

// Size matches collections with n elements.
func Size(n int) *CountCondition[*selene.Collection] {
	return newCount("has size", "size", size, n)
}

// SizeGreaterThan matches collections with more than n elements.
func SizeGreaterThan(n int) *selene.Match[*selene.Collection] { return Size(n).GreaterThan() }

// SizeLessThan matches collections with less than n elements.
func SizeLessThan(n int) *selene.Match[*selene.Collection] { return Size(n).LessThan() }

// SizeGreaterThanOrEqual matches collections with at least n elements.
func SizeGreaterThanOrEqual(n int) *selene.Match[*selene.Collection] { return Size(n).OrMore() }

// SizeLessThanOrEqual matches collections with at most n elements.
func SizeLessThanOrEqual(n int) *selene.Match[*selene.Collection] { return Size(n).OrLess() }

// Empty matches collections without elements.
var Empty = Size(0).As("is empty")

// Each matches collections whose every element matches cond. The mismatch
// lists all failing elements.
func Each(cond selene.Condition[*selene.Element]) *selene.Match[*selene.Collection] {
	return selene.NewMatch("each "+cond.String(), func(c *selene.Collection) (bool, string, error) {
		elements, err := c.Elements()
		if err != nil {
			return false, "", err
		}
		var failed []string
		for i, e := range elements {
			err := cond.Test(e)
			if err == nil {
				continue
			}
			var mismatch *selene.ConditionMismatch
			if !errors.As(err, &mismatch) {
				return false, "", err
			}
			failed = append(failed, fmt.Sprintf("[%d]: %s", i, mismatch.Error()))
		}
		if len(failed) > 0 {
			return false, "not matched elements among all:\n\t" + strings.Join(failed, "\n\t"), nil
		}
		return true, fmt.Sprintf("actual: all %d elements matched", len(elements)), nil
	})
}
