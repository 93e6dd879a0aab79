package selene

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var errNoDriver = errors.New("no driver configured")

// TimeoutError is returned when the wait engine exhausts its deadline. It
// carries the last failure observed before the deadline.
type TimeoutError struct {
	Timeout   time.Duration
	Entity    string
	Operation string
	Cause     error
	// Lines are appended after the reason: actual element snapshot and saved
	// artifact locations.
	Lines []string
}

// ErrorName implements the interface used to render the "Reason:" line.
func (e *TimeoutError) ErrorName() string { return "TimeoutException" }

func (e *TimeoutError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Timed out after %ss, while waiting for:\n", formatSeconds(e.Timeout))
	fmt.Fprintf(&b, "%s.%s\n", e.Entity, e.Operation)
	if e.Cause != nil {
		fmt.Fprintf(&b, "\nReason: %s: %s", ReasonName(e.Cause), e.Cause.Error())
	}
	for _, line := range e.Lines {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

// Unwrap returns the last failure.
func (e *TimeoutError) Unwrap() error { return e.Cause }

// ConditionMismatch reports that a condition evaluated false.
type ConditionMismatch struct {
	// Condition is the description of the failed condition.
	Condition string
	// Actual is the rendered actual state, if known.
	Actual string
}

func (e *ConditionMismatch) ErrorName() string { return "ConditionMismatch" }

func (e *ConditionMismatch) Error() string {
	if e.Actual != "" {
		return e.Actual
	}
	if e.Condition != "" {
		return "condition not matched: " + e.Condition
	}
	return "condition not matched"
}

// Mismatch builds a ConditionMismatch with a formatted actual.
func Mismatch(format string, args ...interface{}) *ConditionMismatch {
	return &ConditionMismatch{Actual: fmt.Sprintf(format, args...)}
}

// NoSuchElementError is returned by locators that resolve on the client side,
// such as collection indexing and filtering, when nothing is found.
type NoSuchElementError struct {
	Message string
}

func (e *NoSuchElementError) ErrorName() string { return "NoSuchElementException" }

func (e *NoSuchElementError) Error() string { return e.Message }

func noSuchElement(format string, args ...interface{}) error {
	return &NoSuchElementError{Message: fmt.Sprintf(format, args...)}
}

// OverlapError is returned by element actions when another element covers the
// center of the target.
type OverlapError struct {
	Element string
	Cover   string
}

func (e *OverlapError) ErrorName() string { return "OverlapError" }

func (e *OverlapError) Error() string {
	return fmt.Sprintf("element: %s\n\tis overlapped by: %s", e.Element, e.Cover)
}

// InvalidArgumentError marks programmer errors detected before any driver
// call. The wait engine returns it immediately instead of retrying.
type InvalidArgumentError struct {
	Argument string
	Err      error
}

func (e *InvalidArgumentError) ErrorName() string { return "InvalidArgumentException" }

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %v", e.Argument, e.Err)
}

func (e *InvalidArgumentError) Unwrap() error { return e.Err }

func invalidArgument(argument string, err error) error {
	return &InvalidArgumentError{Argument: argument, Err: err}
}

// driverErrorNames maps WebDriver error strings to the names used in the
// "Reason:" line. Order matters: the first matching fragment wins.
var driverErrorNames = []struct{ fragment, name string }{
	{"no such element", "NoSuchElementException"},
	{"stale element reference", "StaleElementReferenceException"},
	{"element click intercepted", "ElementClickInterceptedException"},
	{"element not interactable", "ElementNotInteractableException"},
	{"element not visible", "ElementNotVisibleException"},
	{"invalid element state", "InvalidElementStateException"},
	{"no such frame", "NoSuchFrameException"},
	{"no such window", "NoSuchWindowException"},
	{"no such alert", "NoAlertPresentException"},
	{"no alert open", "NoAlertPresentException"},
	{"unexpected alert open", "UnexpectedAlertPresentException"},
	{"invalid selector", "InvalidSelectorException"},
	{"xpath lookup error", "InvalidSelectorException"},
	{"javascript error", "JavascriptException"},
	{"script timeout", "TimeoutException"},
	{"timeout", "TimeoutException"},
	{"invalid session id", "InvalidSessionIdException"},
}

// ReasonName returns the name of the failure kind of err: the ErrorName of
// the first error in the chain that has one, or a name derived from the
// WebDriver error message.
func ReasonName(err error) string {
	var named interface{ ErrorName() string }
	if errors.As(err, &named) {
		return named.ErrorName()
	}
	msg := strings.ToLower(err.Error())
	for _, n := range driverErrorNames {
		if strings.Contains(msg, n.fragment) {
			return n.name
		}
	}
	return "WebDriverException"
}

// IsNoSuchElement reports whether err means the element is absent.
func IsNoSuchElement(err error) bool {
	if err == nil {
		return false
	}
	switch ReasonName(err) {
	case "NoSuchElementException", "StaleElementReferenceException", "NoSuchFrameException":
		return true
	}
	return false
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
