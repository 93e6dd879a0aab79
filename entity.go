package selene

import (
	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
)

// searchContext is what WebDriver and WebElement have in common for searching.
type searchContext interface {
	FindElement(by, value string) (selenium.WebElement, error)
	FindElements(by, value string) ([]selenium.WebElement, error)
}

func should[E Entity](entity E, cond Condition[E]) error {
	_, err := Wait(entity, NewQuery(cond.String(), func(e E) (struct{}, error) {
		return struct{}{}, cond.Test(e)
	}))
	return err
}

// quiet returns the options WaitUntil derives its config with: a timeout is
// an expected outcome, so no artifacts are saved and no hook runs.
func quiet() []Option {
	return []Option{
		HookWaitFailure(nil),
		SaveScreenshotOnFailure(false),
		SavePageSourceOnFailure(false),
	}
}

func waitUntil[E Entity](entity E, cond Condition[E]) (bool, error) {
	err := should(entity, cond)
	if err == nil {
		return true, nil
	}
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return false, nil
	}
	return false, err
}

func matching[E Entity](entity E, cond Condition[E]) bool {
	return cond.Test(entity) == nil
}

// selectorOf translates selector eagerly. The translation error, if any, is
// returned by every resolution of the locator built from it.
func selectorOf(cfg *Config, selector interface{}) (By, string, error) {
	by, err := cfg.translate(selector)
	if err != nil {
		return By{}, describeSelector(selector), err
	}
	return by, by.String(), nil
}

func findElement(ctx searchContext, by By) (selenium.WebElement, error) {
	return ctx.FindElement(by.Using, by.Value)
}

func findElements(ctx searchContext, by By) ([]selenium.WebElement, error) {
	return ctx.FindElements(by.Using, by.Value)
}
