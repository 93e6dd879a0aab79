package selene

import (
	"fmt"
	"strconv"

	"github.com/tebeka/selenium"
)

// Collection is a lazy reference to an ordered list of DOM elements. Every
// derived collection or element resolves through its parent again on every
// attempt.
type Collection struct {
	locator *Locator[[]selenium.WebElement]
	config  *Config
}

// NewCollection returns a collection resolved by locator.
func NewCollection(locator *Locator[[]selenium.WebElement], cfg *Config) *Collection {
	return &Collection{locator: locator, config: cfg}
}

// Locatable is implemented by Element and Collection.
type Locatable interface {
	Entity
	webelements() ([]selenium.WebElement, error)
}

func (c *Collection) String() string { return c.locator.String() }

// Config implements Entity.
func (c *Collection) Config() *Config { return c.config }

// With returns the same collection reference with a derived config.
func (c *Collection) With(opts ...Option) *Collection {
	return &Collection{locator: c.locator, config: c.config.With(opts...)}
}

// Locate resolves the collection once.
func (c *Collection) Locate() ([]selenium.WebElement, error) {
	return c.locator.Locate()
}

func (c *Collection) webelements() ([]selenium.WebElement, error) { return c.Locate() }

func (e *Element) webelements() ([]selenium.WebElement, error) {
	we, err := e.Locate()
	if err != nil {
		return nil, err
	}
	return []selenium.WebElement{we}, nil
}

func (c *Collection) derive(description string, locate func() ([]selenium.WebElement, error)) *Collection {
	return &Collection{config: c.config, locator: NewLocator(description, locate)}
}

// Should waits until cond matches.
func (c *Collection) Should(cond Condition[*Collection]) error { return should(c, cond) }

// WaitUntil waits until cond matches and reports whether it did before the
// timeout.
func (c *Collection) WaitUntil(cond Condition[*Collection]) (bool, error) {
	return waitUntil(c.With(quiet()...), cond)
}

// Matching tests cond once.
func (c *Collection) Matching(cond Condition[*Collection]) bool { return matching(c, cond) }

// Perform waits until cmd succeeds.
func (c *Collection) Perform(cmd Command[*Collection]) error { return Perform(c, cmd) }

// Len waits until the collection can be located and returns its length.
func (c *Collection) Len() (int, error) {
	return Get(c, NewQuery("size", func(c *Collection) (int, error) {
		webelements, err := c.Locate()
		if err != nil {
			return 0, err
		}
		return len(webelements), nil
	}))
}

// Elements locates the collection once and returns one element per item,
// each bound to the WebElement found.
func (c *Collection) Elements() ([]*Element, error) {
	webelements, err := c.Locate()
	if err != nil {
		return nil, err
	}
	elements := make([]*Element, len(webelements))
	for i, we := range webelements {
		elements[i] = c.bound(i, we)
	}
	return elements, nil
}

func (c *Collection) bound(index int, we selenium.WebElement) *Element {
	return &Element{
		config: c.config,
		locator: NewLocator(fmt.Sprintf("%s[%d]", c, index), func() (selenium.WebElement, error) {
			return we, nil
		}),
	}
}

// Element returns the element with the given index. Negative indexes count
// from the end.
func (c *Collection) Element(index int) *Element {
	return &Element{
		config: c.config,
		locator: NewLocator(fmt.Sprintf("%s[%d]", c, index), func() (selenium.WebElement, error) {
			webelements, err := c.Locate()
			if err != nil {
				return nil, err
			}
			i := index
			if i < 0 {
				i += len(webelements)
			}
			if i < 0 || i >= len(webelements) {
				return nil, noSuchElement("cannot get element with index %d from webelements collection with length %d", index, len(webelements))
			}
			return webelements[i], nil
		}),
	}
}

// First returns the first element.
func (c *Collection) First() *Element { return c.Element(0) }

// Second returns the second element.
func (c *Collection) Second() *Element { return c.Element(1) }

// Slice returns the elements from start up to but not including stop.
func (c *Collection) Slice(start, stop int) *Collection { return c.sliced(&start, &stop, 1) }

// SliceStep returns every step-th element from start up to but not including
// stop.
func (c *Collection) SliceStep(start, stop, step int) *Collection {
	return c.sliced(&start, &stop, step)
}

// From returns the elements from start on.
func (c *Collection) From(start int) *Collection { return c.sliced(&start, nil, 1) }

// To returns the elements before stop.
func (c *Collection) To(stop int) *Collection { return c.sliced(nil, &stop, 1) }

// Even returns the elements with an even position counting from 1, that is
// the second, the fourth and so on.
func (c *Collection) Even() *Collection {
	start := 1
	return c.sliced(&start, nil, 2)
}

// Odd returns the elements with an odd position counting from 1.
func (c *Collection) Odd() *Collection { return c.sliced(nil, nil, 2) }

func sliceDescription(start, stop *int, step int) string {
	bound := func(i *int) string {
		if i == nil {
			return ""
		}
		return strconv.Itoa(*i)
	}
	s := "[" + bound(start) + ":" + bound(stop)
	if step != 1 {
		s += ":" + strconv.Itoa(step)
	}
	return s + "]"
}

func (c *Collection) sliced(start, stop *int, step int) *Collection {
	description := c.String() + sliceDescription(start, stop, step)
	return c.derive(description, func() ([]selenium.WebElement, error) {
		if step <= 0 {
			return nil, invalidArgument("step", fmt.Errorf("slice step must be positive, got %d", step))
		}
		webelements, err := c.Locate()
		if err != nil {
			return nil, err
		}
		length := len(webelements)
		if start != nil && *start != 0 && *start >= length {
			return nil, Mismatch("not enough elements to slice collection from START on index=%d, actual elements collection length is %d", *start, length)
		}
		if stop != nil && *stop != -1 && length < *stop {
			return nil, Mismatch("not enough elements to slice collection from START to STOP at index=%d, actual elements collection length is %d", *stop, length)
		}
		from, to := 0, length
		if start != nil {
			from = clampIndex(*start, length)
		}
		if stop != nil {
			to = clampIndex(*stop, length)
		}
		var result []selenium.WebElement
		for i := from; i < to; i += step {
			result = append(result, webelements[i])
		}
		return result, nil
	})
}

// clampIndex resolves a slice bound, negative ones counting from the end.
func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func (c *Collection) filter(webelements []selenium.WebElement, keep func(e *Element) bool) []selenium.WebElement {
	var result []selenium.WebElement
	for i, we := range webelements {
		if keep(c.bound(i, we)) {
			result = append(result, we)
		}
	}
	return result
}

// By returns the elements matching cond at the moment of resolution.
func (c *Collection) By(cond Condition[*Element]) *Collection {
	return c.derive(c.String()+".by("+cond.String()+")", func() ([]selenium.WebElement, error) {
		webelements, err := c.Locate()
		if err != nil {
			return nil, err
		}
		return c.filter(webelements, func(e *Element) bool { return cond.Test(e) == nil }), nil
	})
}

// FilteredBy is the old name of By.
//
// Deprecated: use By.
func (c *Collection) FilteredBy(cond Condition[*Element]) *Collection { return c.By(cond) }

// ElementBy returns the first element matching cond.
func (c *Collection) ElementBy(cond Condition[*Element]) *Element {
	return &Element{
		config: c.config,
		locator: NewLocator(c.String()+".element_by("+cond.String()+")", func() (selenium.WebElement, error) {
			webelements, err := c.Locate()
			if err != nil {
				return nil, err
			}
			for i, we := range webelements {
				if cond.Test(c.bound(i, we)) == nil {
					return we, nil
				}
			}
			return nil, noSuchElement("cannot find element by condition «%s» among %s with %d elements", cond, c, len(webelements))
		}),
	}
}

// ByTheir returns the elements whose descendant matching selector matches
// cond.
func (c *Collection) ByTheir(selector interface{}, cond Condition[*Element]) *Collection {
	_, desc, byErr := selectorOf(c.config, selector)
	return c.derive(c.String()+".by_their("+desc+", "+cond.String()+")", func() ([]selenium.WebElement, error) {
		if byErr != nil {
			return nil, byErr
		}
		webelements, err := c.Locate()
		if err != nil {
			return nil, err
		}
		return c.filter(webelements, func(e *Element) bool {
			return cond.Test(e.Element(selector)) == nil
		}), nil
	})
}

// ElementByIts returns the first element whose descendant matching selector
// matches cond.
func (c *Collection) ElementByIts(selector interface{}, cond Condition[*Element]) *Element {
	_, desc, byErr := selectorOf(c.config, selector)
	return &Element{
		config: c.config,
		locator: NewLocator(c.String()+".element_by_its("+desc+", "+cond.String()+")", func() (selenium.WebElement, error) {
			if byErr != nil {
				return nil, byErr
			}
			webelements, err := c.Locate()
			if err != nil {
				return nil, err
			}
			for i, we := range webelements {
				if cond.Test(c.bound(i, we).Element(selector)) == nil {
					return we, nil
				}
			}
			return nil, noSuchElement("cannot find element by its %s matching «%s» among %s with %d elements", desc, cond, c, len(webelements))
		}),
	}
}

// Collected maps every element to an element or a collection and flattens the
// results into one collection.
func (c *Collection) Collected(fn func(e *Element) Locatable) *Collection {
	template := &Element{
		config: c.config,
		locator: NewLocator("element", func() (selenium.WebElement, error) {
			return nil, noSuchElement("template element is never located")
		}),
	}
	return c.collected(".collected("+fn(template).String()+")", fn)
}

func (c *Collection) collected(suffix string, fn func(e *Element) Locatable) *Collection {
	return c.derive(c.String()+suffix, func() ([]selenium.WebElement, error) {
		webelements, err := c.Locate()
		if err != nil {
			return nil, err
		}
		var result []selenium.WebElement
		for i, we := range webelements {
			found, err := fn(c.bound(i, we)).webelements()
			if err != nil {
				return nil, err
			}
			result = append(result, found...)
		}
		return result, nil
	})
}

// All returns all descendants matching selector of all elements.
func (c *Collection) All(selector interface{}) *Collection {
	_, desc, _ := selectorOf(c.config, selector)
	return c.collected(".all("+desc+")", func(e *Element) Locatable { return e.All(selector) })
}

// AllFirst returns the first descendant matching selector of every element.
func (c *Collection) AllFirst(selector interface{}) *Collection {
	_, desc, _ := selectorOf(c.config, selector)
	return c.collected(".all_first("+desc+")", func(e *Element) Locatable { return e.Element(selector) })
}

// ShadowRoots returns the shadow roots of all elements.
func (c *Collection) ShadowRoots() *Collection {
	return c.collected(".shadow roots", func(e *Element) Locatable { return e.ShadowRoot() })
}
