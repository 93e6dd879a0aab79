package selene

import (
	"time"

	"github.com/tebeka/selenium"
)

// Default values of a new Config.
const (
	DefaultTimeout      = 4 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// Placeholders are the tokens recognized by the *like* family of collection
// text conditions.
type Placeholders struct {
	// ExactlyOne matches exactly one element, default "{...}".
	ExactlyOne string
	// ZeroOrOne matches zero or one element, default "[{...}]".
	ZeroOrOne string
	// OneOrMore matches one or more elements, default "...".
	OneOrMore string
	// ZeroOrMore matches zero or more elements, default "[...]".
	ZeroOrMore string
}

// DefaultPlaceholders returns the default placeholder tokens.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		ExactlyOne: "{...}",
		ZeroOrOne:  "[{...}]",
		OneOrMore:  "...",
		ZeroOrMore: "[...]",
	}
}

// Config is the option bundle shared by a browser and every entity derived
// from it. Entities treat it as immutable: use With to derive a modified copy.
type Config struct {
	// Timeout bounds every Should, WaitUntil, Perform and Get call.
	Timeout time.Duration
	// PollInterval is the pause between two attempts of the wait engine.
	PollInterval time.Duration

	// BaseURL is prepended to relative URLs passed to Browser.Open.
	BaseURL string
	// WindowWidth and WindowHeight, when both are positive, are applied to the
	// current window on Browser.Open.
	WindowWidth, WindowHeight int

	// Driver returns the WebDriver to operate on. It is called on every
	// attempt and may create the driver lazily.
	Driver func() (selenium.WebDriver, error)

	// SelectorTranslator maps a user selector to a strategy and value. Nil
	// means TranslateSelector.
	SelectorTranslator func(selector interface{}) (By, error)

	SetValueByJS    bool
	TypeByJS        bool
	ClickByJS       bool
	DragAndDropByJS bool

	// WaitForNoOverlapFoundByJS makes element actions verify, with a short
	// script, that no other element covers the target before acting.
	WaitForNoOverlapFoundByJS bool

	// LogOuterHTMLOnFailure appends the outer HTML of a present element to
	// timeout messages.
	LogOuterHTMLOnFailure bool

	// HookWaitFailure transforms the error returned on timeout.
	HookWaitFailure func(error) error

	// WaitDecorators are folded around every wait, first one outermost.
	WaitDecorators []WaitDecorator

	ReportsFolder           string
	SaveScreenshotOnFailure bool
	SavePageSourceOnFailure bool
	// Reports holds the artifact counter and the last saved artifact paths.
	// It is shared by reference between derived configs.
	Reports *Reports

	MatchOnlyVisibleElementsTexts bool
	MatchOnlyVisibleElementsSize  bool
	IgnoreCase                    bool
	Placeholders                  Placeholders

	// frame is the iframe entities with this config live in.
	frame *FrameContext
}

// Option configures a Config.
type Option func(*Config)

// DefaultConfig returns a Config with default values and no driver.
func DefaultConfig() *Config {
	return &Config{
		Timeout:                       DefaultTimeout,
		PollInterval:                  DefaultPollInterval,
		ReportsFolder:                 defaultReportsFolder(),
		SaveScreenshotOnFailure:       true,
		SavePageSourceOnFailure:       true,
		Reports:                       &Reports{},
		MatchOnlyVisibleElementsTexts: true,
		Placeholders:                  DefaultPlaceholders(),
	}
}

// NewConfig returns the default config with opts applied.
func NewConfig(opts ...Option) *Config {
	return DefaultConfig().With(opts...)
}

// With returns a copy of c with opts applied. Fields not touched by opts are
// carried over unchanged.
func (c *Config) With(opts ...Option) *Config {
	derived := *c
	derived.WaitDecorators = append([]WaitDecorator(nil), c.WaitDecorators...)
	if derived.Reports == nil {
		derived.Reports = &Reports{}
	}
	for _, opt := range opts {
		opt(&derived)
	}
	return &derived
}

// translate applies the configured selector translator.
func (c *Config) translate(selector interface{}) (By, error) {
	if c.SelectorTranslator != nil {
		return c.SelectorTranslator(selector)
	}
	return TranslateSelector(selector)
}

func (c *Config) driver() (selenium.WebDriver, error) {
	if c.Driver == nil {
		return nil, invalidArgument("driver", errNoDriver)
	}
	return c.Driver()
}

func (c *Config) placeholders() Placeholders {
	p := c.Placeholders
	d := DefaultPlaceholders()
	if p.ExactlyOne == "" {
		p.ExactlyOne = d.ExactlyOne
	}
	if p.ZeroOrOne == "" {
		p.ZeroOrOne = d.ZeroOrOne
	}
	if p.OneOrMore == "" {
		p.OneOrMore = d.OneOrMore
	}
	if p.ZeroOrMore == "" {
		p.ZeroOrMore = d.ZeroOrMore
	}
	return p
}

// PlaceholdersOrDefault returns the configured placeholders with empty tokens
// replaced by their defaults.
func (c *Config) PlaceholdersOrDefault() Placeholders { return c.placeholders() }

// Timeout sets the wait timeout.
func Timeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// PollInterval sets the pause between attempts.
func PollInterval(d time.Duration) Option {
	return func(c *Config) { c.PollInterval = d }
}

// BaseURL sets the prefix of relative URLs.
func BaseURL(u string) Option {
	return func(c *Config) { c.BaseURL = u }
}

// WindowSize sets the window size applied on Browser.Open.
func WindowSize(width, height int) Option {
	return func(c *Config) {
		c.WindowWidth = width
		c.WindowHeight = height
	}
}

// Driver makes the config operate on wd.
func Driver(wd selenium.WebDriver) Option {
	return func(c *Config) {
		c.Driver = func() (selenium.WebDriver, error) { return wd, nil }
	}
}

// DriverFunc sets the driver source.
func DriverFunc(f func() (selenium.WebDriver, error)) Option {
	return func(c *Config) { c.Driver = f }
}

// SelectorTranslator replaces the selector translator.
func SelectorTranslator(f func(selector interface{}) (By, error)) Option {
	return func(c *Config) { c.SelectorTranslator = f }
}

// SetValueByJS forces Element.SetValue to use JavaScript.
func SetValueByJS(v bool) Option {
	return func(c *Config) { c.SetValueByJS = v }
}

// TypeByJS forces Element.Type to use JavaScript.
func TypeByJS(v bool) Option {
	return func(c *Config) { c.TypeByJS = v }
}

// ClickByJS forces Element.Click to use JavaScript.
func ClickByJS(v bool) Option {
	return func(c *Config) { c.ClickByJS = v }
}

// DragAndDropByJS forces drag and drop to be simulated with JavaScript.
func DragAndDropByJS(v bool) Option {
	return func(c *Config) { c.DragAndDropByJS = v }
}

// WaitForNoOverlapFoundByJS enables overlap detection before element actions.
func WaitForNoOverlapFoundByJS(v bool) Option {
	return func(c *Config) { c.WaitForNoOverlapFoundByJS = v }
}

// LogOuterHTMLOnFailure enables element snapshots in timeout messages.
func LogOuterHTMLOnFailure(v bool) Option {
	return func(c *Config) { c.LogOuterHTMLOnFailure = v }
}

// HookWaitFailure sets the transform applied to timeout errors.
func HookWaitFailure(f func(error) error) Option {
	return func(c *Config) { c.HookWaitFailure = f }
}

// WaitDecorators replaces the wait decorators.
func WaitDecorators(ds ...WaitDecorator) Option {
	return func(c *Config) { c.WaitDecorators = append([]WaitDecorator(nil), ds...) }
}

// AddWaitDecorator appends d as the innermost wait decorator.
func AddWaitDecorator(d WaitDecorator) Option {
	return func(c *Config) {
		c.WaitDecorators = append(append([]WaitDecorator(nil), c.WaitDecorators...), d)
	}
}

// ReportsFolder sets where artifacts are saved.
func ReportsFolder(dir string) Option {
	return func(c *Config) { c.ReportsFolder = dir }
}

// SaveScreenshotOnFailure toggles screenshots on timeout.
func SaveScreenshotOnFailure(v bool) Option {
	return func(c *Config) { c.SaveScreenshotOnFailure = v }
}

// SavePageSourceOnFailure toggles page source dumps on timeout.
func SavePageSourceOnFailure(v bool) Option {
	return func(c *Config) { c.SavePageSourceOnFailure = v }
}

// MatchOnlyVisibleElementsTexts makes collection text conditions ignore
// hidden elements.
func MatchOnlyVisibleElementsTexts(v bool) Option {
	return func(c *Config) { c.MatchOnlyVisibleElementsTexts = v }
}

// MatchOnlyVisibleElementsSize makes size conditions count visible elements
// only.
func MatchOnlyVisibleElementsSize(v bool) Option {
	return func(c *Config) { c.MatchOnlyVisibleElementsSize = v }
}

// IgnoreCase makes text conditions case-insensitive by default.
func IgnoreCase(v bool) Option {
	return func(c *Config) { c.IgnoreCase = v }
}

// PlaceholdersToMatchElements overrides the *like* condition placeholders.
func PlaceholdersToMatchElements(p Placeholders) Option {
	return func(c *Config) { c.Placeholders = p }
}
