package selene

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"

	"github.com/wanmail/selene/internal/js"
)

// Browser is the root entity. It searches the current browsing context of the
// configured driver.
type Browser struct {
	config *Config
}

// NewBrowser returns a browser waiting with cfg. A nil cfg means
// DefaultConfig.
func NewBrowser(cfg *Config) *Browser {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Browser{config: cfg}
}

func (b *Browser) String() string { return "browser" }

// Config implements Entity.
func (b *Browser) Config() *Config { return b.config }

// With returns the same browser with a derived config.
func (b *Browser) With(opts ...Option) *Browser {
	return &Browser{config: b.config.With(opts...)}
}

// Driver returns the underlying WebDriver.
func (b *Browser) Driver() (selenium.WebDriver, error) {
	return b.config.driver()
}

// Element returns a lazy reference to the first element matching selector.
func (b *Browser) Element(selector interface{}) *Element {
	return b.element(b.String(), selector)
}

func (b *Browser) element(prefix string, selector interface{}) *Element {
	by, desc, byErr := selectorOf(b.config, selector)
	return &Element{
		config: b.config,
		locator: NewLocator(prefix+".element("+desc+")", func() (selenium.WebElement, error) {
			if byErr != nil {
				return nil, byErr
			}
			wd, err := b.Driver()
			if err != nil {
				return nil, err
			}
			return findElement(wd, by)
		}),
	}
}

// All returns a lazy reference to all elements matching selector.
func (b *Browser) All(selector interface{}) *Collection {
	return b.all(b.String(), selector)
}

func (b *Browser) all(prefix string, selector interface{}) *Collection {
	by, desc, byErr := selectorOf(b.config, selector)
	return &Collection{
		config: b.config,
		locator: NewLocator(prefix+".all("+desc+")", func() ([]selenium.WebElement, error) {
			if byErr != nil {
				return nil, byErr
			}
			wd, err := b.Driver()
			if err != nil {
				return nil, err
			}
			return findElements(wd, by)
		}),
	}
}

// Should waits until cond matches.
func (b *Browser) Should(cond Condition[*Browser]) error { return should(b, cond) }

// WaitUntil waits until cond matches and reports whether it did before the
// timeout.
func (b *Browser) WaitUntil(cond Condition[*Browser]) (bool, error) {
	return waitUntil(b.With(quiet()...), cond)
}

// Matching tests cond once.
func (b *Browser) Matching(cond Condition[*Browser]) bool { return matching(b, cond) }

// Perform waits until cmd succeeds.
func (b *Browser) Perform(cmd Command[*Browser]) error { return Perform(b, cmd) }

// Open loads u, resolved against BaseURL when relative, and resizes the
// window when a size is configured.
func (b *Browser) Open(u string) error {
	wd, err := b.Driver()
	if err != nil {
		return err
	}
	if b.config.WindowWidth > 0 && b.config.WindowHeight > 0 {
		if err := wd.ResizeWindow("", b.config.WindowWidth, b.config.WindowHeight); err != nil {
			return errors.Wrap(err, "resizing window")
		}
	}
	target, err := b.absoluteURL(u)
	if err != nil {
		return err
	}
	if err := wd.Get(target); err != nil {
		return errors.Wrapf(err, "opening %s", target)
	}
	return nil
}

func (b *Browser) absoluteURL(u string) (string, error) {
	if b.config.BaseURL == "" {
		return u, nil
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return "", invalidArgument("url", err)
	}
	if parsed.IsAbs() {
		return u, nil
	}
	return strings.TrimRight(b.config.BaseURL, "/") + "/" + strings.TrimLeft(u, "/"), nil
}

// SwitchToTab switches to the tab with the given index. Negative indexes
// count from the last tab.
func (b *Browser) SwitchToTab(index int) error {
	wd, err := b.Driver()
	if err != nil {
		return err
	}
	handles, err := wd.WindowHandles()
	if err != nil {
		return err
	}
	if index < 0 {
		index += len(handles)
	}
	if index < 0 || index >= len(handles) {
		return errors.Errorf("no tab with index %d among %d tabs", index, len(handles))
	}
	return wd.SwitchWindow(handles[index])
}

// SwitchToWindow switches to the window with the given handle or name.
func (b *Browser) SwitchToWindow(name string) error {
	wd, err := b.Driver()
	if err != nil {
		return err
	}
	return wd.SwitchWindow(name)
}

func (b *Browser) switchRelative(delta int) error {
	wd, err := b.Driver()
	if err != nil {
		return err
	}
	handles, err := wd.WindowHandles()
	if err != nil {
		return err
	}
	current, err := wd.CurrentWindowHandle()
	if err != nil {
		return err
	}
	i := indexOf(handles, current)
	if i < 0 || len(handles) == 0 {
		return errors.Errorf("current window %s is not among %v", current, handles)
	}
	next := ((i+delta)%len(handles) + len(handles)) % len(handles)
	return wd.SwitchWindow(handles[next])
}

// SwitchToNextTab switches to the next tab, wrapping around to the first.
func (b *Browser) SwitchToNextTab() error { return b.switchRelative(1) }

// SwitchToPreviousTab switches to the previous tab, wrapping around to the
// last.
func (b *Browser) SwitchToPreviousTab() error { return b.switchRelative(-1) }

// CloseCurrentTab closes the current tab.
func (b *Browser) CloseCurrentTab() error {
	wd, err := b.Driver()
	if err != nil {
		return err
	}
	return wd.Close()
}

// Quit ends the driver session.
func (b *Browser) Quit() error {
	wd, err := b.Driver()
	if err != nil {
		return err
	}
	setEnteredPath(wd, nil)
	return wd.Quit()
}

// ClearLocalStorage clears window.localStorage.
func (b *Browser) ClearLocalStorage() error {
	_, err := b.ExecuteScript(js.ClearLocalStorage)
	return err
}

// ClearSessionStorage clears window.sessionStorage.
func (b *Browser) ClearSessionStorage() error {
	_, err := b.ExecuteScript(js.ClearSessionStorage)
	return err
}

// ExecuteScript runs script in the current browsing context.
func (b *Browser) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	wd, err := b.Driver()
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = []interface{}{}
	}
	return wd.ExecuteScript(script, args)
}

// SaveScreenshot saves a screenshot to path, or under ReportsFolder when path
// is empty, and returns the path written.
func (b *Browser) SaveScreenshot(path string) (string, error) {
	return saveScreenshot(b.config, path)
}

// SavePageSource saves the page source to path, or under ReportsFolder when
// path is empty, and returns the path written.
func (b *Browser) SavePageSource(path string) (string, error) {
	return savePageSource(b.config, path)
}

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}
