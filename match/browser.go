package match

import (
	"fmt"

	"github.com/wanmail/selene"
)

func browserURL(b *selene.Browser) ([]string, error) {
	wd, err := b.Driver()
	if err != nil {
		return nil, err
	}
	u, err := wd.CurrentURL()
	if err != nil {
		return nil, err
	}
	return []string{u}, nil
}

func browserTitle(b *selene.Browser) ([]string, error) {
	wd, err := b.Driver()
	if err != nil {
		return nil, err
	}
	title, err := wd.Title()
	if err != nil {
		return nil, err
	}
	return []string{title}, nil
}

func tabsNumber(b *selene.Browser) (int, error) {
	wd, err := b.Driver()
	if err != nil {
		return 0, err
	}
	handles, err := wd.WindowHandles()
	if err != nil {
		return 0, err
	}
	return len(handles), nil
}

// URL matches browsers whose current URL equals value.
func URL(value string) *TextCondition[*selene.Browser] {
	return newText("has url", "url", exact, browserURL, value)
}

// URLContaining matches browsers whose current URL contains part.
func URLContaining(part string) *TextCondition[*selene.Browser] {
	return newText("has url containing", "url", containing, browserURL, part)
}

// Title matches browsers whose page title equals value.
func Title(value string) *TextCondition[*selene.Browser] {
	return newText("has title", "title", exact, browserTitle, value)
}

// TitleContaining matches browsers whose page title contains part.
func TitleContaining(part string) *TextCondition[*selene.Browser] {
	return newText("has title containing", "title", containing, browserTitle, part)
}

// TabsNumber matches browsers with n open tabs.
func TabsNumber(n int) *CountCondition[*selene.Browser] {
	return newCount("has tabs number", "tabs number", tabsNumber, n)
}

// TabsNumberGreaterThan matches browsers with more than n open tabs.
func TabsNumberGreaterThan(n int) *selene.Match[*selene.Browser] { return TabsNumber(n).GreaterThan() }

// TabsNumberLessThan matches browsers with less than n open tabs.
func TabsNumberLessThan(n int) *selene.Match[*selene.Browser] { return TabsNumber(n).LessThan() }

// JSReturned matches browsers where script returns a value rendered the same
// as expected.
func JSReturned(expected interface{}, script string, args ...interface{}) *selene.Match[*selene.Browser] {
	return selene.NewMatch(fmt.Sprintf("has JS returned %v", expected), func(b *selene.Browser) (bool, string, error) {
		result, err := b.ExecuteScript(script, args...)
		if err != nil {
			return false, "", err
		}
		actual := fmt.Sprint(result)
		return actual == fmt.Sprint(expected), "actual returned: " + actual, nil
	})
}
