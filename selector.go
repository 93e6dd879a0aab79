package selene

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
)

// By is a canonical selector: a WebDriver search strategy and its value.
type By struct {
	Using string
	Value string
}

func (b By) String() string {
	return fmt.Sprintf("('%s', '%s')", b.Using, b.Value)
}

// ByCSS returns a CSS selector.
func ByCSS(selector string) By { return By{Using: selenium.ByCSSSelector, Value: selector} }

// ByXPath returns an XPath selector.
func ByXPath(path string) By { return By{Using: selenium.ByXPATH, Value: path} }

// ByID selects by the id attribute.
func ByID(id string) By { return ByCSS(`[id="` + escapeQuotes(id) + `"]`) }

// ByName selects by the name attribute.
func ByName(name string) By { return ByCSS(`[name="` + escapeQuotes(name) + `"]`) }

// ByTag selects by tag name.
func ByTag(name string) By { return ByCSS(name) }

// ByText selects elements whose normalized text equals text.
func ByText(text string) By {
	return ByXPath(`.//*[text()[normalize-space(.) = ` + xpathLiteral(text) + `]]`)
}

// ByPartialText selects elements whose text contains text.
func ByPartialText(text string) By {
	return ByXPath(`.//*[text()[contains(normalize-space(.), ` + xpathLiteral(text) + `)]]`)
}

var xpathPrefixes = []string{"/", "./", "..", "(", "*/"}

// TranslateSelector is the default selector translator. Strings that look like
// XPath expressions are translated to XPath, other strings to CSS selectors; a
// By value is used as is.
func TranslateSelector(selector interface{}) (By, error) {
	switch s := selector.(type) {
	case By:
		if s.Using == "" || s.Value == "" {
			return By{}, invalidArgument("selector", errors.Errorf("incomplete selector %v", s))
		}
		return s, nil
	case *By:
		if s == nil {
			return By{}, invalidArgument("selector", errors.New("nil selector"))
		}
		return TranslateSelector(*s)
	case string:
		if s == "" {
			return By{}, invalidArgument("selector", errors.New("empty selector"))
		}
		for _, prefix := range xpathPrefixes {
			if strings.HasPrefix(s, prefix) {
				return ByXPath(s), nil
			}
		}
		return ByCSS(s), nil
	}
	return By{}, invalidArgument("selector", errors.Errorf("unsupported selector type %T", selector))
}

// describeSelector renders a selector the way it appears in entity chains.
func describeSelector(selector interface{}) string {
	switch s := selector.(type) {
	case string:
		return "'" + s + "'"
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprintf("%v", selector)
}

func escapeQuotes(str string) string {
	return strings.Replace(str, `"`, `\"`, -1)
}

// xpathLiteral quotes s as an XPath string literal. XPath 1.0 has no escape
// sequences, so strings holding both quote kinds are built with concat.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + p + `"`
	}
	return `concat(` + strings.Join(quoted, `, '"', `) + `)`
}

// XPathLiteral quotes s as an XPath string literal.
func XPathLiteral(s string) string { return xpathLiteral(s) }
