package selene

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"

	"github.com/wanmail/selene/internal/js"
)

// shadowRoot searches the shadow tree attached to a host element. Other
// WebElement methods act on the host.
type shadowRoot struct {
	selenium.WebElement
	driver selenium.WebDriver
}

// MarshalJSON encodes the host, so a shadow root passed to a script arrives as
// its host element.
func (s *shadowRoot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.WebElement)
}

func (s *shadowRoot) FindElements(by, value string) ([]selenium.WebElement, error) {
	if by != selenium.ByCSSSelector {
		return nil, invalidArgument("selector", errors.Errorf("only css selectors are supported inside shadow roots, got %s", by))
	}
	raw, err := s.driver.ExecuteScriptRaw(js.ShadowQuery, []interface{}{s.WebElement, value})
	if err != nil {
		return nil, err
	}
	return s.driver.DecodeElements(raw)
}

func (s *shadowRoot) FindElement(by, value string) (selenium.WebElement, error) {
	found, err := s.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errors.Errorf("no such element: unable to locate %s %q in shadow root", by, value)
	}
	return found[0], nil
}

// ShadowRoot returns the shadow root of the element as an element to search
// in.
func (e *Element) ShadowRoot() *Element {
	return &Element{
		config: e.config,
		locator: NewLocator(e.String()+".shadow root", func() (selenium.WebElement, error) {
			host, err := e.Locate()
			if err != nil {
				return nil, err
			}
			wd, err := e.driver()
			if err != nil {
				return nil, err
			}
			has, err := wd.ExecuteScript(js.HasShadowRoot, []interface{}{host})
			if err != nil {
				return nil, err
			}
			if ok, _ := has.(bool); !ok {
				return nil, noSuchElement("no such shadow root attached to %s", e)
			}
			return &shadowRoot{WebElement: host, driver: wd}, nil
		}),
	}
}
