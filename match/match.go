// Package match provides the built-in conditions entities wait for. Most users
// reach them through the be and have packages.
package match

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/internal/js"
)

type (
	// ElementCondition is a condition over an element.
	ElementCondition = *selene.Match[*selene.Element]
	// CollectionCondition is a condition over a collection.
	CollectionCondition = *selene.Match[*selene.Collection]
	// BrowserCondition is a condition over a browser.
	BrowserCondition = *selene.Match[*selene.Browser]
)

// locate resolves e and reports absence as ok=false instead of an error.
func locate(e *selene.Element) (we selenium.WebElement, present bool, err error) {
	we, err = e.Locate()
	if err != nil {
		if selene.IsNoSuchElement(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return we, true, nil
}

func quote(s string) string {
	return "'" + s + "'"
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func executeString(e *selene.Element, we selenium.WebElement, script string, args ...interface{}) (string, bool, error) {
	result, err := e.ExecuteOn(we, script, args...)
	if err != nil {
		return "", false, err
	}
	if result == nil {
		return "", false, nil
	}
	if s, ok := result.(string); ok {
		return s, true, nil
	}
	return fmt.Sprint(result), true, nil
}

// outerHTML returns the outer HTML of we, or a placeholder when it cannot be
// read.
func outerHTML(e *selene.Element, we selenium.WebElement) string {
	html, ok, err := executeString(e, we, js.OuterHTML)
	if err != nil || !ok {
		return "<unknown>"
	}
	return html
}
