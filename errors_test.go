package selene_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/wanmail/selene"
)

func TestReasonName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("no such element: Unable to locate element: #x"), "NoSuchElementException"},
		{errors.Wrap(errors.New("stale element reference: element is not attached"), "reading text"), "StaleElementReferenceException"},
		{errors.New("element click intercepted: other element would receive the click"), "ElementClickInterceptedException"},
		{errors.New("element not interactable"), "ElementNotInteractableException"},
		{errors.New("javascript error: boom"), "JavascriptException"},
		{errors.New("connection refused"), "WebDriverException"},
		{selene.Mismatch("actual: %d", 3), "ConditionMismatch"},
		{&selene.InvalidArgumentError{Argument: "step", Err: errors.New("zero")}, "InvalidArgumentException"},
		{errors.Wrap(&selene.NoSuchElementError{Message: "gone"}, "locating"), "NoSuchElementException"},
		{&selene.OverlapError{Element: "<a>", Cover: "<div>"}, "OverlapError"},
	}
	for _, tc := range tests {
		if got := selene.ReasonName(tc.err); got != tc.want {
			t.Errorf("ReasonName(%q) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestIsNoSuchElement(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("no such element: #x"), true},
		{errors.New("stale element reference"), true},
		{errors.New("no such frame"), true},
		{&selene.NoSuchElementError{Message: "cannot get element with index 3"}, true},
		{errors.New("element not interactable"), false},
		{selene.Mismatch("actual: hidden"), false},
	}
	for _, tc := range tests {
		if got := selene.IsNoSuchElement(tc.err); got != tc.want {
			t.Errorf("IsNoSuchElement(%v) = %t, want %t", tc.err, got, tc.want)
		}
	}
}

func TestTimeoutErrorMessage(t *testing.T) {
	err := &selene.TimeoutError{
		Timeout:   1500 * time.Millisecond,
		Entity:    "browser.element(('css selector', '#x'))",
		Operation: "has exact text 'a'",
		Cause:     &selene.ConditionMismatch{Actual: "actual text: b"},
		Lines:     []string{"Screenshot: file:///tmp/1.png"},
	}
	want := "Timed out after 1.5s, while waiting for:\n" +
		"browser.element(('css selector', '#x')).has exact text 'a'\n" +
		"\nReason: ConditionMismatch: actual text: b" +
		"\nScreenshot: file:///tmp/1.png"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	var mismatch *selene.ConditionMismatch
	if !errors.As(err, &mismatch) {
		t.Error("TimeoutError does not unwrap to its cause")
	}
}

func TestConditionMismatchMessage(t *testing.T) {
	tests := []struct {
		err  *selene.ConditionMismatch
		want string
	}{
		{&selene.ConditionMismatch{Condition: "is visible", Actual: "actual: hidden"}, "actual: hidden"},
		{&selene.ConditionMismatch{Condition: "is visible"}, "condition not matched: is visible"},
		{&selene.ConditionMismatch{}, "condition not matched"},
	}
	for _, tc := range tests {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Error() = %q, want %q", got, tc.want)
		}
	}
}
