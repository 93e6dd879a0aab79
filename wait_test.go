package selene_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/be"
	"github.com/wanmail/selene/have"
	"github.com/wanmail/selene/query"
)

func TestShouldWaitsForElement(t *testing.T) {
	b, d := newBrowser(t, `<div id="app"></div>`)
	d.After(50*time.Millisecond, `document.getElementById('app').innerHTML = '<p id="message">Loaded</p>';`)

	if err := b.Element("#message").Should(have.ExactText("Loaded")); err != nil {
		t.Fatalf("Should(have.ExactText) returned error: %v", err)
	}
}

func TestTimeoutMessage(t *testing.T) {
	b, _ := newBrowser(t, `<div></div>`,
		selene.Timeout(100*time.Millisecond),
		selene.SaveScreenshotOnFailure(false),
		selene.SavePageSourceOnFailure(false))

	start := time.Now()
	err := b.Element("#missing").Should(be.Visible)
	elapsed := time.Since(start)

	var timeout *selene.TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Should(be.Visible) returned %v, want a *TimeoutError", err)
	}
	want := "Timed out after 0.1s, while waiting for:\n" +
		"browser.element(('css selector', '#missing')).is visible\n" +
		"\n" +
		"Reason: ConditionMismatch: actual: absent in DOM"
	if diff := cmp.Diff(want, err.Error()); diff != "" {
		t.Errorf("timeout message (-want +got):\n%s", diff)
	}
	if elapsed < 100*time.Millisecond || elapsed > time.Second {
		t.Errorf("Should(be.Visible) gave up after %v, want about 100ms", elapsed)
	}
}

func TestTimeoutReasonOfDriverError(t *testing.T) {
	b, _ := newBrowser(t, `<div></div>`, selene.Timeout(50*time.Millisecond))

	err := b.Element("#missing").Click()
	if err == nil {
		t.Fatal("Click() on a missing element returned no error")
	}
	msg := err.Error()
	for _, want := range []string{
		"browser.element(('css selector', '#missing')).click\n",
		"\nReason: NoSuchElementException: no such element: Unable to locate element",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Click() error = %q, want it to contain %q", msg, want)
		}
	}
	if !selene.IsNoSuchElement(errors.Unwrap(err)) {
		t.Errorf("cause of %v is not a missing element", err)
	}
}

func TestLocatorsAreLazy(t *testing.T) {
	b, d := newBrowser(t, `<p id="x">first</p>`)

	e := b.Element("#x")
	nested := b.Element("body").Element("p")
	all := b.All("p")
	if n := d.Calls("FindElements"); n != 0 {
		t.Fatalf("building entities made %d FindElements calls, want 0", n)
	}
	_, _, _ = e, nested, all

	if err := e.Should(have.ExactText("first")); err != nil {
		t.Fatal(err)
	}
	if err := d.Load(`<p id="x">second</p>`); err != nil {
		t.Fatal(err)
	}
	if err := e.Should(have.ExactText("second")); err != nil {
		t.Fatalf("element was not located again after the page changed: %v", err)
	}
	if err := nested.Should(have.ExactText("second")); err != nil {
		t.Fatal(err)
	}
	if n, err := all.Len(); err != nil || n != 1 {
		t.Fatalf("all.Len() = %d, %v, want 1", n, err)
	}
}

func TestCachedElement(t *testing.T) {
	b, d := newBrowser(t, `<p id="x">text</p>`)

	cached := b.Element("#x").Cached()
	calls := d.Calls("FindElements")
	if calls != 1 {
		t.Fatalf("Cached() made %d FindElements calls, want 1", calls)
	}
	if text, err := selene.Get(cached, query.Text); err != nil || text != "text" {
		t.Fatalf("Get(cached, query.Text) = %q, %v, want %q", text, err, "text")
	}
	if n := d.Calls("FindElements"); n != calls {
		t.Fatalf("cached element was located again: %d FindElements calls, want %d", n, calls)
	}

	if err := d.Load(`<p id="x">text</p>`); err != nil {
		t.Fatal(err)
	}
	we, err := cached.Locate()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := we.Text(); err == nil || selene.ReasonName(err) != "StaleElementReferenceException" {
		t.Fatalf("cached element after reload returned %v, want a stale element reference", err)
	}

	missing := b.Element("#missing").Cached()
	if _, err := missing.Locate(); !selene.IsNoSuchElement(err) {
		t.Fatalf("cached missing element Locate() returned %v, want no such element", err)
	}
}

func TestInvalidArgumentIsNotRetried(t *testing.T) {
	b, d := newBrowser(t, `<p></p>`, selene.Timeout(time.Minute))

	start := time.Now()
	err := b.Element("").Should(be.Visible)
	var invalid *selene.InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("Should() with an empty selector returned %v, want an *InvalidArgumentError", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Should() with an empty selector took %v", elapsed)
	}
	if n := d.Calls("FindElements"); n != 0 {
		t.Errorf("Should() with an empty selector made %d FindElements calls, want 0", n)
	}
}

func TestNoDriver(t *testing.T) {
	b := selene.NewBrowser(selene.NewConfig(selene.Timeout(time.Minute)))
	err := b.Element("p").Should(be.Visible)
	var invalid *selene.InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("Should() without driver returned %v, want an *InvalidArgumentError", err)
	}
}

func recorder(log *[]string, name string) selene.WaitDecorator {
	return func(step selene.Step, next selene.WaitFunc) selene.WaitFunc {
		return func(attempt func() error) error {
			*log = append(*log, name+" before "+step.Operation)
			err := next(attempt)
			*log = append(*log, name+" after")
			return err
		}
	}
}

func TestWaitDecoratorsOrder(t *testing.T) {
	var log []string
	b, _ := newBrowser(t, `<p>text</p>`,
		selene.WaitDecorators(recorder(&log, "outer")),
		selene.AddWaitDecorator(recorder(&log, "inner")))

	if err := b.Element("p").Should(be.Visible); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"outer before is visible",
		"inner before is visible",
		"inner after",
		"outer after",
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("decorator calls (-want +got):\n%s", diff)
	}
}

func TestDecoratorWrapsEveryAttempt(t *testing.T) {
	attempts := 0
	counting := func(step selene.Step, next selene.WaitFunc) selene.WaitFunc {
		return func(attempt func() error) error {
			return next(func() error {
				attempts++
				return attempt()
			})
		}
	}
	b, d := newBrowser(t, `<div id="app"></div>`, selene.AddWaitDecorator(counting))
	d.After(50*time.Millisecond, `document.getElementById('app').innerHTML = '<p id="late">late</p>';`)

	if err := b.Element("#late").Should(be.Present); err != nil {
		t.Fatal(err)
	}
	if attempts < 2 {
		t.Errorf("decorator saw %d attempts, want at least 2", attempts)
	}
}

func TestHookWaitFailure(t *testing.T) {
	b, _ := newBrowser(t, `<p></p>`,
		selene.Timeout(50*time.Millisecond),
		selene.HookWaitFailure(func(err error) error { return errors.Wrap(err, "hooked") }))

	err := b.Element("#missing").Should(be.Visible)
	if err == nil || !strings.HasPrefix(err.Error(), "hooked: Timed out after 0.05s") {
		t.Fatalf("Should() returned %v, want the hooked timeout", err)
	}
	var timeout *selene.TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("hooked error %v does not wrap a *TimeoutError", err)
	}
}

func TestWaitUntil(t *testing.T) {
	b, d := newBrowser(t, `<div id="app"></div>`, selene.Timeout(100*time.Millisecond))

	ok, err := b.Element("#missing").WaitUntil(be.Visible)
	if err != nil || ok {
		t.Fatalf("WaitUntil(be.Visible) on a missing element = %v, %v, want false, nil", ok, err)
	}
	if path := b.Config().Reports.LastScreenshot(); path != "" {
		t.Errorf("WaitUntil saved screenshot %s", path)
	}

	d.After(30*time.Millisecond, `document.getElementById('app').innerHTML = '<p id="late">late</p>';`)
	ok, err = b.Element("#late").WaitUntil(be.Visible)
	if err != nil || !ok {
		t.Fatalf("WaitUntil(be.Visible) on a late element = %v, %v, want true, nil", ok, err)
	}
}

func TestMatchingTestsOnce(t *testing.T) {
	b, d := newBrowser(t, `<div id="app"></div>`, selene.Timeout(time.Minute))
	d.After(50*time.Millisecond, `document.getElementById('app').innerHTML = '<p id="late">late</p>';`)

	start := time.Now()
	if b.Element("#late").Matching(be.Present) {
		t.Fatal("Matching(be.Present) is true before the element appears")
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("Matching() took %v, want a single check", elapsed)
	}
	if !b.Element("#app").Matching(be.Present) {
		t.Error("Matching(be.Present) is false for a present element")
	}
}

func TestFailureArtifacts(t *testing.T) {
	dir := t.TempDir()
	b, _ := newBrowser(t, `<p>saved page</p>`,
		selene.Timeout(50*time.Millisecond),
		selene.ReportsFolder(dir))

	err := b.Element("#missing").Should(be.Visible)
	if err == nil {
		t.Fatal("Should(be.Visible) on a missing element returned no error")
	}
	screenshot := filepath.Join(dir, "1.png")
	pageSource := filepath.Join(dir, "1.html")
	for _, want := range []string{
		"\nScreenshot: file://" + screenshot,
		"\nPageSource: file://" + pageSource,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not contain %q", err, want)
		}
	}
	if got := b.Config().Reports.LastScreenshot(); got != screenshot {
		t.Errorf("LastScreenshot() = %q, want %q", got, screenshot)
	}
	if got := b.Config().Reports.LastPageSource(); got != pageSource {
		t.Errorf("LastPageSource() = %q, want %q", got, pageSource)
	}
	if _, err := os.Stat(screenshot); err != nil {
		t.Errorf("screenshot was not written: %v", err)
	}
	source, err := os.ReadFile(pageSource)
	if err != nil {
		t.Fatalf("page source was not written: %v", err)
	}
	if !strings.Contains(string(source), "saved page") {
		t.Errorf("saved page source = %q, want the loaded page", source)
	}

	if err := b.Element("#other").Should(be.Visible); err == nil {
		t.Fatal("Should(be.Visible) on a missing element returned no error")
	}
	if got, want := b.Config().Reports.LastScreenshot(), filepath.Join(dir, "2.png"); got != want {
		t.Errorf("second failure LastScreenshot() = %q, want %q", got, want)
	}
	if got, want := b.Config().Reports.LastPageSource(), filepath.Join(dir, "2.html"); got != want {
		t.Errorf("second failure LastPageSource() = %q, want %q", got, want)
	}
}

func TestFailedScreenshotIsReported(t *testing.T) {
	b, d := newBrowser(t, `<p></p>`, selene.Timeout(50*time.Millisecond))
	d.FailScreenshots(errors.New("unknown error: screenshots are broken"))

	err := b.Element("#missing").Should(be.Visible)
	if err == nil {
		t.Fatal("Should(be.Visible) on a missing element returned no error")
	}
	for _, want := range []string{
		"\nScreenshot: failed to save: taking screenshot: unknown error: screenshots are broken",
		"\nPageSource: file://",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not contain %q", err, want)
		}
	}
}

func TestOuterHTMLOnFailure(t *testing.T) {
	b, _ := newBrowser(t, `<p id="x" hidden>secret</p>`,
		selene.Timeout(50*time.Millisecond),
		selene.LogOuterHTMLOnFailure(true),
		selene.SaveScreenshotOnFailure(false),
		selene.SavePageSourceOnFailure(false))

	err := b.Element("#x").Should(be.Visible)
	if err == nil || !strings.Contains(err.Error(), "\nActual webelement: <p id=\"x\"") {
		t.Fatalf("Should(be.Visible) returned %v, want the outer html of the element", err)
	}
}
