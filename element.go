package selene

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"

	"github.com/wanmail/selene/actions"
	"github.com/wanmail/selene/internal/js"
)

// Element is a lazy reference to a single DOM element. It is located again
// for every attempt of every waited operation unless it was Cached.
type Element struct {
	locator *Locator[selenium.WebElement]
	config  *Config
}

// NewElement returns an element resolved by locator.
func NewElement(locator *Locator[selenium.WebElement], cfg *Config) *Element {
	return &Element{locator: locator, config: cfg}
}

func (e *Element) String() string { return e.locator.String() }

// Config implements Entity.
func (e *Element) Config() *Config { return e.config }

// With returns the same element reference with a derived config.
func (e *Element) With(opts ...Option) *Element {
	return &Element{locator: e.locator, config: e.config.With(opts...)}
}

// Locate resolves the element once.
func (e *Element) Locate() (selenium.WebElement, error) {
	return e.locator.Locate()
}

// Cached returns an element bound to the WebElement resolved now. A failed
// resolution is replayed by every operation on the result.
func (e *Element) Cached() *Element {
	return &Element{locator: cached(e.locator), config: e.config}
}

// Element returns a lazy reference to the first descendant matching
// selector.
func (e *Element) Element(selector interface{}) *Element {
	by, desc, byErr := selectorOf(e.config, selector)
	return &Element{
		config: e.config,
		locator: NewLocator(e.String()+".element("+desc+")", func() (selenium.WebElement, error) {
			if byErr != nil {
				return nil, byErr
			}
			parent, err := e.Locate()
			if err != nil {
				return nil, err
			}
			return findElement(parent, by)
		}),
	}
}

// All returns a lazy reference to all descendants matching selector.
func (e *Element) All(selector interface{}) *Collection {
	by, desc, byErr := selectorOf(e.config, selector)
	return &Collection{
		config: e.config,
		locator: NewLocator(e.String()+".all("+desc+")", func() ([]selenium.WebElement, error) {
			if byErr != nil {
				return nil, byErr
			}
			parent, err := e.Locate()
			if err != nil {
				return nil, err
			}
			return findElements(parent, by)
		}),
	}
}

// Should waits until cond matches.
func (e *Element) Should(cond Condition[*Element]) error { return should(e, cond) }

// WaitUntil waits until cond matches and reports whether it did before the
// timeout.
func (e *Element) WaitUntil(cond Condition[*Element]) (bool, error) {
	return waitUntil(e.With(quiet()...), cond)
}

// Matching tests cond once.
func (e *Element) Matching(cond Condition[*Element]) bool { return matching(e, cond) }

// Perform waits until cmd succeeds.
func (e *Element) Perform(cmd Command[*Element]) error { return Perform(e, cmd) }

func (e *Element) perform(description string, fn func(e *Element) error) error {
	return Perform(e, NewCommand(description, fn))
}

func (e *Element) snapshot() (string, bool) {
	we, err := e.Locate()
	if err != nil {
		return "", false
	}
	html, err := e.executeOn(we, js.OuterHTML)
	if err != nil {
		return "", false
	}
	return "Actual webelement: " + fmt.Sprint(html), true
}

func (e *Element) driver() (selenium.WebDriver, error) { return e.config.driver() }

// Driver returns the driver the element is searched with.
func (e *Element) Driver() (selenium.WebDriver, error) { return e.driver() }

func (e *Element) executeOn(we selenium.WebElement, script string, args ...interface{}) (interface{}, error) {
	wd, err := e.driver()
	if err != nil {
		return nil, err
	}
	return wd.ExecuteScript(script, append([]interface{}{we}, args...))
}

// ExecuteOn runs script with we as arguments[0] followed by args.
func (e *Element) ExecuteOn(we selenium.WebElement, script string, args ...interface{}) (interface{}, error) {
	return e.executeOn(we, script, args...)
}

// actionable locates the element and, when overlap detection is enabled,
// checks that it is visible and that nothing covers its center.
func (e *Element) actionable() (selenium.WebElement, error) {
	we, err := e.Locate()
	if err != nil {
		return nil, err
	}
	if !e.config.WaitForNoOverlapFoundByJS {
		return we, nil
	}
	displayed, err := we.IsDisplayed()
	if err != nil {
		return nil, err
	}
	if !displayed {
		return nil, errors.New("element not visible")
	}
	result, err := e.executeOn(we, js.OverlapProbe)
	if err != nil {
		return nil, err
	}
	pair, ok := result.([]interface{})
	if !ok || len(pair) != 2 {
		return nil, errors.Errorf("unexpected overlap probe result: %v", result)
	}
	if pair[1] != nil {
		return nil, &OverlapError{Element: fmt.Sprint(pair[0]), Cover: fmt.Sprint(pair[1])}
	}
	return we, nil
}

// Actionable resolves the element the way element actions do: with overlap
// detection enabled it fails while the element is hidden or covered.
func (e *Element) Actionable() (selenium.WebElement, error) { return e.actionable() }

// ExecuteScript runs script with the element bound to the variable element
// and args bound to the array args.
func (e *Element) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	return Get(e, NewQuery("execute script: "+script, func(e *Element) (interface{}, error) {
		we, err := e.Locate()
		if err != nil {
			return nil, err
		}
		return e.executeOn(we, js.ElementPrelude+script, args...)
	}))
}

// Type sends text to the element.
func (e *Element) Type(text string) error {
	return e.perform("type: "+text, func(e *Element) error {
		we, err := e.actionable()
		if err != nil {
			return err
		}
		if e.config.TypeByJS {
			_, err = e.executeOn(we, js.Type, text)
			return err
		}
		return we.SendKeys(text)
	})
}

// Press sends keys, usually selenium key constants, to the element.
func (e *Element) Press(keys ...string) error {
	joined := strings.Join(keys, "")
	return e.perform("press keys: "+KeyNames(joined), func(e *Element) error {
		we, err := e.actionable()
		if err != nil {
			return err
		}
		return we.SendKeys(joined)
	})
}

// PressEnter presses the Enter key.
func (e *Element) PressEnter() error { return e.Press(selenium.EnterKey) }

// PressTab presses the Tab key.
func (e *Element) PressTab() error { return e.Press(selenium.TabKey) }

// PressEscape presses the Escape key.
func (e *Element) PressEscape() error { return e.Press(selenium.EscapeKey) }

// Clear clears the value of a text input.
func (e *Element) Clear() error {
	return e.perform("clear", func(e *Element) error {
		we, err := e.actionable()
		if err != nil {
			return err
		}
		return we.Clear()
	})
}

// Submit submits the form the element belongs to.
func (e *Element) Submit() error {
	return e.perform("submit", func(e *Element) error {
		we, err := e.Locate()
		if err != nil {
			return err
		}
		return we.Submit()
	})
}

// SetValue replaces the value of a text input.
func (e *Element) SetValue(value string) error {
	return e.perform("set value: "+value, func(e *Element) error {
		we, err := e.actionable()
		if err != nil {
			return err
		}
		if e.config.SetValueByJS {
			_, err = e.executeOn(we, js.SetValue, value)
			return err
		}
		if err := we.Clear(); err != nil {
			return err
		}
		return we.SendKeys(value)
	})
}

// ModifierKey is the key used for shortcuts: Command on macOS and Control
// elsewhere.
func ModifierKey() string {
	if runtime.GOOS == "darwin" {
		return selenium.MetaKey
	}
	return selenium.ControlKey
}

func (e *Element) shortcut(description, key string) error {
	return e.chain(description, func(c *actions.Chain, we selenium.WebElement) {
		c.Shortcut(we, ModifierKey(), key)
	})
}

// SelectAll selects all the text of the element.
func (e *Element) SelectAll() error { return e.shortcut("select all", "a") }

// Copy copies the selected text of the element.
func (e *Element) Copy() error { return e.shortcut("copy", "c") }

// Paste pastes the clipboard into the element.
func (e *Element) Paste() error { return e.shortcut("paste", "v") }

// Click clicks the center of the element.
func (e *Element) Click() error {
	return e.ClickWithOffset(0, 0)
}

// ClickWithOffset clicks at the given offset from the center of the element.
func (e *Element) ClickWithOffset(x, y int) error {
	description := "click"
	if x != 0 || y != 0 {
		description = fmt.Sprintf("click(xoffset=%d, yoffset=%d)", x, y)
	}
	return e.perform(description, func(e *Element) error {
		we, err := e.actionable()
		if err != nil {
			return err
		}
		if e.config.ClickByJS {
			_, err = e.executeOn(we, js.Click, x, y)
			return err
		}
		if x == 0 && y == 0 {
			return we.Click()
		}
		wd, err := e.driver()
		if err != nil {
			return err
		}
		size, err := we.Size()
		if err != nil {
			return err
		}
		return actions.NewChain(wd).
			MoveToElementWithOffset(we, size.Width/2+x, size.Height/2+y).
			Click(nil).
			Perform()
	})
}

func (e *Element) chain(description string, build func(c *actions.Chain, we selenium.WebElement)) error {
	return e.perform(description, func(e *Element) error {
		we, err := e.actionable()
		if err != nil {
			return err
		}
		wd, err := e.driver()
		if err != nil {
			return err
		}
		c := actions.NewChain(wd)
		build(c, we)
		return c.Perform()
	})
}

// DoubleClick double-clicks the element.
func (e *Element) DoubleClick() error {
	return e.chain("double click", func(c *actions.Chain, we selenium.WebElement) {
		c.DoubleClick(we)
	})
}

// ContextClick right-clicks the element.
func (e *Element) ContextClick() error {
	return e.chain("context click", func(c *actions.Chain, we selenium.WebElement) {
		c.ContextClick(we)
	})
}

// Hover moves the mouse over the element.
func (e *Element) Hover() error {
	return e.chain("hover", func(c *actions.Chain, we selenium.WebElement) {
		c.MoveToElement(we)
	})
}

// DragAndDropTo drags the element onto target.
func (e *Element) DragAndDropTo(target *Element) error {
	return e.perform("drag and drop to: "+target.String(), func(e *Element) error {
		source, err := e.actionable()
		if err != nil {
			return err
		}
		destination, err := target.Locate()
		if err != nil {
			return err
		}
		if e.config.DragAndDropByJS {
			_, err = e.executeOn(source, js.DragAndDrop, destination)
			return err
		}
		wd, err := e.driver()
		if err != nil {
			return err
		}
		return actions.NewChain(wd).DragAndDrop(source, destination).Perform()
	})
}

// DragAndDropByOffset drags the element by the given offset.
func (e *Element) DragAndDropByOffset(x, y int) error {
	return e.chain(fmt.Sprintf("drag and drop by offset: x=%d, y=%d", x, y), func(c *actions.Chain, we selenium.WebElement) {
		c.DragAndDropByOffset(we, x, y)
	})
}

func (e *Element) scrollTo(description, block string) error {
	return e.perform(description, func(e *Element) error {
		we, err := e.Locate()
		if err != nil {
			return err
		}
		_, err = e.executeOn(we, js.ScrollIntoView, block)
		return err
	})
}

// ScrollToTop scrolls the element to the top of the viewport.
func (e *Element) ScrollToTop() error { return e.scrollTo("scroll to top", "start") }

// ScrollToBottom scrolls the element to the bottom of the viewport.
func (e *Element) ScrollToBottom() error { return e.scrollTo("scroll to bottom", "end") }

// ScrollToCenter scrolls the element to the center of the viewport.
func (e *Element) ScrollToCenter() error { return e.scrollTo("scroll to center", "center") }

// DropFile simulates dropping the file at path onto the element.
func (e *Element) DropFile(path string) error {
	return e.perform("drop file: "+path, func(e *Element) error {
		target, err := e.Locate()
		if err != nil {
			return err
		}
		wd, err := e.driver()
		if err != nil {
			return err
		}
		return js.DropFileOn(wd, target, path)
	})
}

var keyNames = map[string]string{
	selenium.NullKey:       "NULL",
	selenium.CancelKey:     "CANCEL",
	selenium.HelpKey:       "HELP",
	selenium.BackspaceKey:  "BACKSPACE",
	selenium.TabKey:        "TAB",
	selenium.ClearKey:      "CLEAR",
	selenium.ReturnKey:     "RETURN",
	selenium.EnterKey:      "ENTER",
	selenium.ShiftKey:      "SHIFT",
	selenium.ControlKey:    "CONTROL",
	selenium.AltKey:        "ALT",
	selenium.PauseKey:      "PAUSE",
	selenium.EscapeKey:     "ESCAPE",
	selenium.SpaceKey:      "SPACE",
	selenium.PageUpKey:     "PAGE_UP",
	selenium.PageDownKey:   "PAGE_DOWN",
	selenium.EndKey:        "END",
	selenium.HomeKey:       "HOME",
	selenium.LeftArrowKey:  "LEFT",
	selenium.UpArrowKey:    "UP",
	selenium.RightArrowKey: "RIGHT",
	selenium.DownArrowKey:  "DOWN",
	selenium.InsertKey:     "INSERT",
	selenium.DeleteKey:     "DELETE",
	selenium.MetaKey:       "META",
}

// KeyNames renders keys with special keys replaced by their names.
func KeyNames(keys string) string {
	var parts []string
	var text strings.Builder
	for _, r := range keys {
		if name, ok := keyNames[string(r)]; ok {
			if text.Len() > 0 {
				parts = append(parts, text.String())
				text.Reset()
			}
			parts = append(parts, name)
			continue
		}
		text.WriteRune(r)
	}
	if text.Len() > 0 {
		parts = append(parts, text.String())
	}
	return strings.Join(parts, " + ")
}
