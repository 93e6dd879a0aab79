// Package query provides described queries over entities. A query is applied
// with selene.Get, which waits until it succeeds:
//
//	text, err := selene.Get(browser.Element("h1"), query.Text)
//	n, err := selene.Get(browser.All("li"), query.Size)
package query

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/pkg/errors"
	"github.com/tebeka/selenium"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/internal/js"
)

func element[R any](description string, fn func(e *selene.Element, we selenium.WebElement) (R, error)) selene.Query[*selene.Element, R] {
	return selene.NewQuery(description, func(e *selene.Element) (R, error) {
		we, err := e.Locate()
		if err != nil {
			var zero R
			return zero, err
		}
		return fn(e, we)
	})
}

func collection[R any](description string, fn func(e *selene.Element, we selenium.WebElement) (R, error)) selene.Query[*selene.Collection, []R] {
	return selene.NewQuery(description, func(c *selene.Collection) ([]R, error) {
		elements, err := c.Elements()
		if err != nil {
			return nil, err
		}
		values := make([]R, len(elements))
		for i, e := range elements {
			we, err := e.Locate()
			if err != nil {
				return nil, err
			}
			if values[i], err = fn(e, we); err != nil {
				return nil, err
			}
		}
		return values, nil
	})
}

func browser[R any](description string, fn func(b *selene.Browser, wd selenium.WebDriver) (R, error)) selene.Query[*selene.Browser, R] {
	return selene.NewQuery(description, func(b *selene.Browser) (R, error) {
		wd, err := b.Driver()
		if err != nil {
			var zero R
			return zero, err
		}
		return fn(b, wd)
	})
}

func text(_ *selene.Element, we selenium.WebElement) (string, error) { return we.Text() }

func script(js string, args ...interface{}) func(e *selene.Element, we selenium.WebElement) (string, error) {
	return func(e *selene.Element, we selenium.WebElement) (string, error) {
		result, err := e.ExecuteOn(we, js, args...)
		if err != nil {
			return "", err
		}
		if result == nil {
			return "", nil
		}
		return fmt.Sprint(result), nil
	}
}

func attribute(name string) func(e *selene.Element, we selenium.WebElement) (string, error) {
	return script(js.Attribute, name)
}

// Element queries.
var (
	Text      = element("text", text)
	InnerHTML = element("inner html", script(js.InnerHTML))
	OuterHTML = element("outer html", script(js.OuterHTML))
	Value     = element("value", script(js.Value))
	Tag       = element("tag", func(_ *selene.Element, we selenium.WebElement) (string, error) {
		return we.TagName()
	})
	ElementSize = element("size", func(_ *selene.Element, we selenium.WebElement) (selenium.Size, error) {
		size, err := we.Size()
		if err != nil {
			return selenium.Size{}, err
		}
		return *size, nil
	})
	FrameContext = element("frame context", func(e *selene.Element, _ selenium.WebElement) (*selene.FrameContext, error) {
		return e.FrameContext(), nil
	})
	ShadowRoot = selene.NewQuery("shadow root", func(e *selene.Element) (*selene.Element, error) {
		root := e.ShadowRoot()
		if _, err := root.Locate(); err != nil {
			return nil, err
		}
		return root, nil
	})
)

// Attribute reads the attribute name, or "" when it is not set.
func Attribute(name string) selene.Query[*selene.Element, string] {
	return element("attribute "+name, attribute(name))
}

// JSProperty reads the JavaScript property name.
func JSProperty(name string) selene.Query[*selene.Element, interface{}] {
	return element("js property "+name, func(e *selene.Element, we selenium.WebElement) (interface{}, error) {
		return e.ExecuteOn(we, js.Property, name)
	})
}

// CSSProperty reads the computed style property name.
func CSSProperty(name string) selene.Query[*selene.Element, string] {
	return element("css property "+name, func(_ *selene.Element, we selenium.WebElement) (string, error) {
		return we.CSSProperty(name)
	})
}

// Collection queries.
var (
	Size = selene.NewQuery("size", func(c *selene.Collection) (int, error) {
		webelements, err := c.Locate()
		if err != nil {
			return 0, err
		}
		return len(webelements), nil
	})
	Texts      = collection("texts", text)
	InnerHTMLs = collection("inner htmls", script(js.InnerHTML))
	OuterHTMLs = collection("outer htmls", script(js.OuterHTML))
)

// Attributes reads the attribute name of every element.
func Attributes(name string) selene.Query[*selene.Collection, []string] {
	return collection("attributes "+name, attribute(name))
}

func tabs(_ *selene.Browser, wd selenium.WebDriver) ([]string, error) { return wd.WindowHandles() }

func relativeTab(delta int) func(b *selene.Browser, wd selenium.WebDriver) (string, error) {
	return func(_ *selene.Browser, wd selenium.WebDriver) (string, error) {
		handles, err := wd.WindowHandles()
		if err != nil {
			return "", err
		}
		current, err := wd.CurrentWindowHandle()
		if err != nil {
			return "", err
		}
		for i, h := range handles {
			if h == current {
				return handles[((i+delta)%len(handles)+len(handles))%len(handles)], nil
			}
		}
		return "", errors.Errorf("current window %s is not among %v", current, handles)
	}
}

// Browser queries.
var (
	URL = browser("url", func(_ *selene.Browser, wd selenium.WebDriver) (string, error) {
		return wd.CurrentURL()
	})
	Title = browser("title", func(_ *selene.Browser, wd selenium.WebDriver) (string, error) {
		return wd.Title()
	})
	Tabs       = browser("tabs", tabs)
	TabsNumber = browser("tabs number", func(b *selene.Browser, wd selenium.WebDriver) (int, error) {
		handles, err := tabs(b, wd)
		return len(handles), err
	})
	CurrentTab = browser("current tab", func(_ *selene.Browser, wd selenium.WebDriver) (string, error) {
		return wd.CurrentWindowHandle()
	})
	NextTab     = browser("next tab", relativeTab(1))
	PreviousTab = browser("previous tab", relativeTab(-1))
	PageSource  = browser("page source", func(_ *selene.Browser, wd selenium.WebDriver) (string, error) {
		return wd.PageSource()
	})
	BrowserVersion = browser("browser version", browserVersion)
)

// ScreenshotSaved saves a screenshot to path, or under the reports folder when
// path is empty, and returns the path written.
func ScreenshotSaved(path string) selene.Query[*selene.Browser, string] {
	return selene.NewQuery("screenshot saved", func(b *selene.Browser) (string, error) {
		return b.SaveScreenshot(path)
	})
}

// PageSourceSaved saves the page source to path, or under the reports folder
// when path is empty, and returns the path written.
func PageSourceSaved(path string) selene.Query[*selene.Browser, string] {
	return selene.NewQuery("page source saved", func(b *selene.Browser) (string, error) {
		return b.SavePageSource(path)
	})
}

// browserVersion parses the version the session reports in its capabilities.
// W3C drivers use browserVersion, legacy ones version.
func browserVersion(_ *selene.Browser, wd selenium.WebDriver) (semver.Version, error) {
	caps, err := wd.Capabilities()
	if err != nil {
		return semver.Version{}, err
	}
	for _, key := range []string{"browserVersion", "version"} {
		raw, ok := caps[key].(string)
		if !ok || raw == "" {
			continue
		}
		// Chrome reports four components, 118.0.5993.70.
		if parts := strings.SplitN(raw, ".", 4); len(parts) == 4 {
			raw = strings.Join(parts[:3], ".")
		}
		v, err := semver.ParseTolerant(raw)
		if err != nil {
			return semver.Version{}, errors.Wrapf(err, "parsing %s %q", key, raw)
		}
		return v, nil
	}
	return semver.Version{}, errors.New("session capabilities carry no browser version")
}
