// Package command provides described commands over entities. A command is
// applied with selene.Perform, or the Perform method of an entity, which
// retries it until it succeeds:
//
//	browser.Element("#menu").Perform(command.JSClick)
//	browser.Perform(command.ClearLocalStorage)
//
// Commands make a single attempt each time they are applied. The JS commands
// bypass the overlap check element actions do.
package command

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/actions"
	"github.com/wanmail/selene/internal/js"
)

// element builds a command that runs fn on the located element.
func element(description string, fn func(e *selene.Element, we selenium.WebElement) error) selene.Command[*selene.Element] {
	return selene.NewCommand(description, func(e *selene.Element) error {
		we, err := e.Locate()
		if err != nil {
			return err
		}
		return fn(e, we)
	})
}

// script builds a command that runs a script with the element as its first
// argument.
func script(description, source string, args ...interface{}) selene.Command[*selene.Element] {
	return element(description, func(e *selene.Element, we selenium.WebElement) error {
		_, err := e.ExecuteOn(we, source, args...)
		return err
	})
}

// JSClick clicks the element by dispatching mouse events.
var JSClick = script("js click", js.Click, 0, 0)

// JSClickWithOffset clicks at the given offset from the center of the element
// by dispatching mouse events.
func JSClickWithOffset(x, y int) selene.Command[*selene.Element] {
	return script(fmt.Sprintf("js click(xoffset=%d, yoffset=%d)", x, y), js.Click, x, y)
}

// JSRemove removes the element from the DOM.
var JSRemove = script("js remove", js.Remove)

// JSSetStyleProperty sets the inline style property name to value.
func JSSetStyleProperty(name, value string) selene.Command[*selene.Element] {
	return script(fmt.Sprintf("js set style property %s to %s", name, value), js.SetStyleProperty, name, value)
}

var (
	JSSetStyleDisplayToNone       = JSSetStyleProperty("display", "none")
	JSSetStyleDisplayToBlock      = JSSetStyleProperty("display", "block")
	JSSetStyleVisibilityToHidden  = JSSetStyleProperty("visibility", "hidden")
	JSSetStyleVisibilityToVisible = JSSetStyleProperty("visibility", "visible")
)

// JSScrollIntoView scrolls the element to the top of the viewport.
var JSScrollIntoView = script("js scroll into view", js.ScrollIntoView, "start")

// JSSetValue sets the value of an input and fires input and change events.
func JSSetValue(value string) selene.Command[*selene.Element] {
	return script("js set value: "+value, js.SetValue, value)
}

// JSType appends text to the value of an input and fires input and change
// events.
func JSType(text string) selene.Command[*selene.Element] {
	return script("js type: "+text, js.Type, text)
}

// JSDropFile simulates dropping the file at path onto the element.
func JSDropFile(path string) selene.Command[*selene.Element] {
	return element("js drop file: "+path, func(e *selene.Element, we selenium.WebElement) error {
		wd, err := e.Driver()
		if err != nil {
			return err
		}
		return js.DropFileOn(wd, we, path)
	})
}

// JSDragAndDropTo drags the element onto target by dispatching HTML5 drag
// events.
func JSDragAndDropTo(target *selene.Element) selene.Command[*selene.Element] {
	return element("js drag and drop to: "+target.String(), func(e *selene.Element, we selenium.WebElement) error {
		destination, err := target.Locate()
		if err != nil {
			return err
		}
		_, err = e.ExecuteOn(we, js.DragAndDrop, destination)
		return err
	})
}

func shortcut(description, key string) selene.Command[*selene.Element] {
	return chain(description, func(c *actions.Chain, we selenium.WebElement) error {
		c.Shortcut(we, selene.ModifierKey(), key)
		return nil
	})
}

var (
	// SelectAll selects the whole text of the element.
	SelectAll = shortcut("select all", "a")
	// Copy copies the selection to the clipboard.
	Copy = shortcut("copy", "c")
	// Paste pastes the clipboard into the element.
	Paste = shortcut("paste", "v")
)

// Press sends keys to the element.
func Press(keys ...string) selene.Command[*selene.Element] {
	joined := strings.Join(keys, "")
	return selene.NewCommand("press keys: "+selene.KeyNames(joined), func(e *selene.Element) error {
		we, err := e.Actionable()
		if err != nil {
			return err
		}
		return we.SendKeys(joined)
	})
}

func chain(description string, build func(c *actions.Chain, we selenium.WebElement) error) selene.Command[*selene.Element] {
	return selene.NewCommand(description, func(e *selene.Element) error {
		we, err := e.Actionable()
		if err != nil {
			return err
		}
		wd, err := e.Driver()
		if err != nil {
			return err
		}
		c := actions.NewChain(wd)
		if err := build(c, we); err != nil {
			return err
		}
		return c.Perform()
	})
}

// DragAndDropTo drags the element onto target with pointer actions.
func DragAndDropTo(target *selene.Element) selene.Command[*selene.Element] {
	return chain("drag and drop to: "+target.String(), func(c *actions.Chain, we selenium.WebElement) error {
		destination, err := target.Locate()
		if err != nil {
			return err
		}
		c.DragAndDrop(we, destination)
		return nil
	})
}

// DragAndDropByOffset drags the element by the given offset with pointer
// actions.
func DragAndDropByOffset(x, y int) selene.Command[*selene.Element] {
	return chain(fmt.Sprintf("drag and drop by offset: x=%d, y=%d", x, y), func(c *actions.Chain, we selenium.WebElement) error {
		c.DragAndDropByOffset(we, x, y)
		return nil
	})
}

// SaveScreenshot saves a screenshot to path, or under the reports folder when
// path is empty.
func SaveScreenshot(path string) selene.Command[*selene.Browser] {
	return selene.NewCommand("save screenshot", func(b *selene.Browser) error {
		_, err := b.SaveScreenshot(path)
		return err
	})
}

// SavePageSource saves the page source to path, or under the reports folder
// when path is empty.
func SavePageSource(path string) selene.Command[*selene.Browser] {
	return selene.NewCommand("save page source", func(b *selene.Browser) error {
		_, err := b.SavePageSource(path)
		return err
	})
}

var (
	// ClearLocalStorage clears window.localStorage.
	ClearLocalStorage = selene.NewCommand("clear local storage", (*selene.Browser).ClearLocalStorage)
	// ClearSessionStorage clears window.sessionStorage.
	ClearSessionStorage = selene.NewCommand("clear session storage", (*selene.Browser).ClearSessionStorage)
)
