// Package actions builds chains of low-level pointer and keyboard
// interactions and performs them through the legacy WebDriver input
// endpoints.
package actions

import (
	"github.com/tebeka/selenium"
)

// Chain is a sequence of interactions. Interactions are queued by the builder
// methods and run in order by Perform.
type Chain struct {
	driver  selenium.WebDriver
	actions []func() error
}

// NewChain returns an empty chain performing on driver.
func NewChain(driver selenium.WebDriver) *Chain {
	return &Chain{driver: driver}
}

func (c *Chain) add(action func() error) *Chain {
	c.actions = append(c.actions, action)
	return c
}

// Perform runs the queued interactions and stops at the first error.
func (c *Chain) Perform() error {
	for _, action := range c.actions {
		if err := action(); err != nil {
			return err
		}
	}
	return nil
}

// MoveToElement moves the mouse to the top left corner of element.
func (c *Chain) MoveToElement(element selenium.WebElement) *Chain {
	return c.MoveToElementWithOffset(element, 0, 0)
}

// MoveToElementWithOffset moves the mouse to the given offset from the top
// left corner of element.
func (c *Chain) MoveToElementWithOffset(element selenium.WebElement, x, y int) *Chain {
	return c.add(func() error {
		return element.MoveTo(x, y)
	})
}

func (c *Chain) moveIfElement(element selenium.WebElement) {
	if element != nil {
		c.MoveToElement(element)
	}
}

// Click clicks element, or the current mouse position when element is nil.
func (c *Chain) Click(element selenium.WebElement) *Chain {
	c.moveIfElement(element)
	return c.add(func() error {
		return c.driver.Click(selenium.LeftButton)
	})
}

// ClickAndHold presses the left button on element, or at the current mouse
// position when element is nil.
func (c *Chain) ClickAndHold(element selenium.WebElement) *Chain {
	c.moveIfElement(element)
	return c.add(c.driver.ButtonDown)
}

// ContextClick right-clicks element, or the current mouse position when
// element is nil.
func (c *Chain) ContextClick(element selenium.WebElement) *Chain {
	c.moveIfElement(element)
	return c.add(func() error {
		return c.driver.Click(selenium.RightButton)
	})
}

// DoubleClick double-clicks element, or the current mouse position when
// element is nil.
func (c *Chain) DoubleClick(element selenium.WebElement) *Chain {
	c.moveIfElement(element)
	return c.add(c.driver.DoubleClick)
}

// Release releases the left button over element, or at the current mouse
// position when element is nil.
func (c *Chain) Release(element selenium.WebElement) *Chain {
	c.moveIfElement(element)
	return c.add(c.driver.ButtonUp)
}

// DragAndDrop holds the left button on source and releases it on target.
func (c *Chain) DragAndDrop(source, target selenium.WebElement) *Chain {
	return c.ClickAndHold(source).Release(target)
}

// DragAndDropByOffset holds the left button on source and releases it after
// moving by the given offset.
func (c *Chain) DragAndDropByOffset(source selenium.WebElement, x, y int) *Chain {
	return c.ClickAndHold(source).
		MoveToElementWithOffset(source, x, y).
		Release(nil)
}

// KeyDown presses modifier keys without releasing them. They stay held for
// the following interactions until KeyUp.
func (c *Chain) KeyDown(keys string) *Chain {
	return c.add(func() error {
		return c.driver.KeyDown(keys)
	})
}

// KeyUp releases modifier keys pressed by KeyDown.
func (c *Chain) KeyUp(keys string) *Chain {
	return c.add(func() error {
		return c.driver.KeyUp(keys)
	})
}

// SendKeysToElement types keys into element without clicking it first, so a
// selection inside element survives.
func (c *Chain) SendKeysToElement(element selenium.WebElement, keys string) *Chain {
	return c.add(func() error {
		return element.SendKeys(keys)
	})
}

// Shortcut presses key on element while modifier is held.
func (c *Chain) Shortcut(element selenium.WebElement, modifier, key string) *Chain {
	return c.KeyDown(modifier).SendKeysToElement(element, key).KeyUp(modifier)
}
