// Package shared provides a process-wide browser for scripts and tests that
// drive a single browser. The driver is started on first use and every call
// sees the configuration on top of a stack:
//
//	shared.Configure(selene.Timeout(6 * time.Second))
//	defer shared.Restore()
//	shared.Open("https://example.com")
//	shared.Element("h1").Should(have.Text("Example"))
//	defer shared.Quit()
package shared

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/blang/semver"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/settings"
)

// DriverOptions describes how the shared driver is started. With a RemoteURL
// the session is created on that server; with a DriverPath a local
// chromedriver or geckodriver is started on Port, or a free port when Port is
// zero; otherwise the session is created on the default local Selenium server.
type DriverOptions struct {
	BrowserName string
	RemoteURL   string
	Headless    bool
	Args        []string
	DriverPath  string
	Port        int
	// SeleniumVersion requests a server version from grids that honor the
	// seleniumVersion capability.
	SeleniumVersion string
}

// DefaultDriverOptions start a Chrome session on the default local server.
func DefaultDriverOptions() DriverOptions {
	return DriverOptions{BrowserName: "chrome"}
}

// Capabilities builds the session capabilities.
func (o DriverOptions) Capabilities() (selenium.Capabilities, error) {
	name := strings.ToLower(o.BrowserName)
	if name == "" {
		name = "chrome"
	}
	caps := selenium.Capabilities{"browserName": name}
	args := append([]string(nil), o.Args...)
	switch name {
	case "chrome":
		if o.Headless {
			args = append(args, "--headless=new")
		}
		caps.AddChrome(chrome.Capabilities{Args: args})
	case "firefox":
		if o.Headless {
			args = append(args, "-headless")
		}
		caps.AddFirefox(firefox.Capabilities{Args: args})
	default:
		return nil, errors.Errorf("unsupported browser %q", o.BrowserName)
	}
	if o.SeleniumVersion != "" {
		v, err := semver.ParseTolerant(o.SeleniumVersion)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing selenium version %q", o.SeleniumVersion)
		}
		caps["seleniumVersion"] = v.String()
	}
	return caps, nil
}

// Facade owns the shared driver and the configuration stack.
type Facade struct {
	mu      sync.Mutex
	options DriverOptions
	stack   []*selene.Config
	wd      selenium.WebDriver
	service *selenium.Service
}

// New returns a facade that starts its driver with opts on first use.
func New(opts DriverOptions) *Facade {
	return &Facade{options: opts}
}

// Default is the facade behind the package-level functions.
var Default = New(DefaultDriverOptions())

func (f *Facade) base() *selene.Config {
	return selene.NewConfig(selene.DriverFunc(f.Driver))
}

// Config returns the configuration on top of the stack.
func (f *Facade) Config() *selene.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.stack) == 0 {
		f.stack = append(f.stack, f.base())
	}
	return f.stack[len(f.stack)-1]
}

// Configure pushes the current configuration with opts applied.
func (f *Facade) Configure(opts ...selene.Option) {
	top := f.Config()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stack = append(f.stack, top.With(opts...))
}

// Restore pops the configuration pushed by the last Configure. The base
// configuration is never popped.
func (f *Facade) Restore() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.stack) > 1 {
		f.stack = f.stack[:len(f.stack)-1]
	}
}

// Reset drops every configuration pushed by Configure.
func (f *Facade) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stack = nil
}

// SetDriverOptions changes how the next driver is started. A running driver
// is kept until Quit.
func (f *Facade) SetDriverOptions(opts DriverOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.options = opts
}

// Driver returns the shared driver, starting it when needed.
func (f *Facade) Driver() (selenium.WebDriver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.wd != nil {
		return f.wd, nil
	}
	wd, service, err := start(f.options)
	if err != nil {
		return nil, err
	}
	f.wd, f.service = wd, service
	return wd, nil
}

// Running reports whether the shared driver has been started.
func (f *Facade) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wd != nil
}

// Quit ends the shared session and stops the local driver service. The next
// use starts a new driver.
func (f *Facade) Quit() error {
	f.mu.Lock()
	wd, service := f.wd, f.service
	f.wd, f.service = nil, nil
	f.mu.Unlock()

	var err error
	if wd != nil {
		if err = selene.NewBrowser(selene.NewConfig(selene.Driver(wd))).Quit(); err != nil {
			err = errors.Wrap(err, "quitting driver")
		}
		glog.Infof("selene: quit session %s", wd.SessionID())
	}
	if service != nil {
		if serr := service.Stop(); serr != nil && err == nil {
			err = errors.Wrap(serr, "stopping driver service")
		}
	}
	return err
}

// LoadSettings applies the settings read by settings.Load as the base
// configuration and driver options. Configurations pushed before are dropped.
func (f *Facade) LoadSettings(file string) error {
	s, err := settings.Load(file)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.options = DriverOptions{
		BrowserName:     s.Browser.Name,
		RemoteURL:       s.Browser.RemoteURL,
		Headless:        s.Browser.Headless,
		Args:            s.Browser.Args,
		DriverPath:      s.Browser.DriverPath,
		Port:            s.Browser.Port,
		SeleniumVersion: s.Browser.SeleniumVersion,
	}
	f.stack = []*selene.Config{f.base().With(s.Options()...)}
	return nil
}

// Browser returns a browser with the current configuration.
func (f *Facade) Browser() *selene.Browser { return selene.NewBrowser(f.Config()) }

// Open loads u in the shared browser.
func (f *Facade) Open(u string) error { return f.Browser().Open(u) }

// Element returns a lazy element of the shared browser.
func (f *Facade) Element(selector interface{}) *selene.Element { return f.Browser().Element(selector) }

// All returns a lazy collection of the shared browser.
func (f *Facade) All(selector interface{}) *selene.Collection { return f.Browser().All(selector) }

// Should waits until the shared browser matches cond.
func (f *Facade) Should(cond selene.Condition[*selene.Browser]) error {
	return f.Browser().Should(cond)
}

func start(opts DriverOptions) (selenium.WebDriver, *selenium.Service, error) {
	caps, err := opts.Capabilities()
	if err != nil {
		return nil, nil, err
	}
	url := opts.RemoteURL
	var service *selenium.Service
	if url == "" && opts.DriverPath != "" {
		port := opts.Port
		if port == 0 {
			if port, err = freePort(); err != nil {
				return nil, nil, err
			}
		}
		switch caps["browserName"] {
		case "firefox":
			service, err = selenium.NewGeckoDriverService(opts.DriverPath, port)
			url = fmt.Sprintf("http://localhost:%d", port)
		default:
			service, err = selenium.NewChromeDriverService(opts.DriverPath, port)
			url = fmt.Sprintf("http://localhost:%d/wd/hub", port)
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "starting %s", opts.DriverPath)
		}
	}
	wd, err := selenium.NewRemote(caps, url)
	if err != nil {
		if service != nil {
			service.Stop()
		}
		return nil, nil, errors.Wrap(err, "creating session")
	}
	glog.Infof("selene: started %s session %s", caps["browserName"], wd.SessionID())
	return wd, service, nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, errors.Wrap(err, "finding a free port")
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// Configure pushes a configuration on the default facade.
func Configure(opts ...selene.Option) { Default.Configure(opts...) }

// Restore pops the last configuration of the default facade.
func Restore() { Default.Restore() }

// Browser returns the browser of the default facade.
func Browser() *selene.Browser { return Default.Browser() }

// Open loads u in the default browser.
func Open(u string) error { return Default.Open(u) }

// Element returns a lazy element of the default browser.
func Element(selector interface{}) *selene.Element { return Default.Element(selector) }

// All returns a lazy collection of the default browser.
func All(selector interface{}) *selene.Collection { return Default.All(selector) }

// Should waits until the default browser matches cond.
func Should(cond selene.Condition[*selene.Browser]) error { return Default.Should(cond) }

// Quit ends the session of the default browser.
func Quit() error { return Default.Quit() }

// LoadSettings loads the configuration of the default facade.
func LoadSettings(file string) error { return Default.LoadSettings(file) }
