// Package seleniumtest provides an in-memory selenium.WebDriver for the tests
// of selene, and tests that exercise the WebDriver behavior selene relies on.
// The tests run against any driver, so the fake can be validated against a
// real browser serving Handler.
package seleniumtest

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/tebeka/selenium"
)

type Config struct {
	// ServerURL is where Pages are served, without a trailing slash.
	ServerURL string
	// NewDriver starts a session able to load Pages.
	NewDriver func(t *testing.T) selenium.WebDriver
}

func runTest(f func(*testing.T, Config), c Config) func(*testing.T) {
	return func(t *testing.T) {
		f(t, c)
	}
}

func newRemote(t *testing.T, c Config) selenium.WebDriver {
	wd := c.NewDriver(t)
	if wd == nil {
		t.Fatal("NewDriver returned a nil driver")
	}
	return wd
}

func quitRemote(t *testing.T, wd selenium.WebDriver) {
	if err := wd.Quit(); err != nil && !strings.Contains(err.Error(), "invalid session id") {
		t.Errorf("wd.Quit() returned error: %v", err)
	}
}

func get(t *testing.T, wd selenium.WebDriver, url string) {
	t.Helper()
	if err := wd.Get(url); err != nil {
		t.Fatalf("wd.Get(%q) returned error: %v", url, err)
	}
}

func findElement(t *testing.T, wd selenium.WebDriver, by, value string) selenium.WebElement {
	t.Helper()
	we, err := wd.FindElement(by, value)
	if err != nil {
		t.Fatalf("wd.FindElement(%q, %q) returned error: %v", by, value, err)
	}
	return we
}

// RunCommonTests runs the WebDriver conformance checks against the driver
// built by c.NewDriver.
func RunCommonTests(t *testing.T, c Config) {
	t.Run("Capabilities", runTest(testCapabilities, c))
	t.Run("DeleteSession", runTest(testDeleteSession, c))
	t.Run("Windows", runTest(testWindows, c))
	t.Run("Get", runTest(testGet, c))
	t.Run("Title", runTest(testTitle, c))
	t.Run("PageSource", runTest(testPageSource, c))
	t.Run("FindElement", runTest(testFindElement, c))
	t.Run("FindElements", runTest(testFindElements, c))
	t.Run("NoSuchElement", runTest(testNoSuchElement, c))
	t.Run("SendKeys", runTest(testSendKeys, c))
	t.Run("Clear", runTest(testClear, c))
	t.Run("Click", runTest(testClick, c))
	t.Run("SelectOption", runTest(testSelectOption, c))
	t.Run("Text", runTest(testText, c))
	t.Run("Location", runTest(testLocation, c))
	t.Run("Size", runTest(testSize, c))
	t.Run("ExecuteScript", runTest(testExecuteScript, c))
	t.Run("ExecuteScriptOnElement", runTest(testExecuteScriptOnElement, c))
	t.Run("ExecuteScriptWithNilArgs", runTest(testExecuteScriptWithNilArgs, c))
	t.Run("DecodeElement", runTest(testDecodeElement, c))
	t.Run("Screenshot", runTest(testScreenshot, c))
	t.Run("IsDisplayed", runTest(testIsDisplayed, c))
	t.Run("GetAttributeNotFound", runTest(testGetAttributeNotFound, c))
	t.Run("KeyDownUp", runTest(testKeyDownUp, c))
	t.Run("MoveToClick", runTest(testMoveToClick, c))
	t.Run("CSSProperty", runTest(testCSSProperty, c))
	t.Run("SwitchFrame", runTest(testSwitchFrame, c))
	t.Run("ShadowRoot", runTest(testShadowRoot, c))
	t.Run("StaleElement", runTest(testStaleElement, c))
	t.Run("ActiveElement", runTest(testActiveElement, c))
}

func testCapabilities(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	caps, err := wd.Capabilities()
	if err != nil {
		t.Fatalf("wd.Capabilities() returned error: %v", err)
	}
	if name, _ := caps["browserName"].(string); name == "" {
		t.Fatalf("wd.Capabilities() has no browserName: %v", caps)
	}
}

func testDeleteSession(t *testing.T, c Config) {
	wd := newRemote(t, c)
	if err := wd.Quit(); err != nil {
		t.Fatalf("wd.Quit() returned error: %v", err)
	}
	if _, err := wd.Title(); err == nil {
		t.Fatal("wd.Title() after wd.Quit() returned no error")
	}
}

func testWindows(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	firstHandle, err := wd.CurrentWindowHandle()
	if err != nil {
		t.Fatal(err)
	}
	if len(firstHandle) == 0 {
		t.Fatal("Empty handle")
	}

	otherURL := c.ServerURL + "/other"
	if _, err := wd.ExecuteScript("window.open(arguments[0])", []interface{}{otherURL}); err != nil {
		t.Fatalf("opening a new window via Javascript returned error: %v", err)
	}
	handles, err := wd.WindowHandles()
	if err != nil {
		t.Fatalf("wd.WindowHandles() returned error: %v", err)
	}
	if len(handles) != 2 {
		t.Fatalf("len(wd.WindowHandles()) = %d, want 2", len(handles))
	}
	var otherHandle string
	for _, h := range handles {
		if h != firstHandle {
			otherHandle = h
		}
	}
	if err := wd.SwitchWindow(otherHandle); err != nil {
		t.Fatalf("wd.SwitchWindow(%q) returned error: %v", otherHandle, err)
	}
	if title, err := wd.Title(); err != nil || title != otherTitle {
		t.Fatalf("wd.Title() = %q, %v, want %q", title, err, otherTitle)
	}
	if err := wd.Close(); err != nil {
		t.Fatalf("wd.Close() returned error: %v", err)
	}
	if err := wd.SwitchWindow(firstHandle); err != nil {
		t.Fatalf("wd.SwitchWindow(%q) returned error: %v", firstHandle, err)
	}
	if title, err := wd.Title(); err != nil || title != homeTitle {
		t.Fatalf("wd.Title() = %q, %v, want %q", title, err, homeTitle)
	}
}

func testGet(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL+"/other")
	u, err := wd.CurrentURL()
	if err != nil {
		t.Fatalf("wd.CurrentURL() returned error: %v", err)
	}
	if !strings.HasSuffix(u, "/other") {
		t.Fatalf("wd.CurrentURL() = %q, want a URL ending with /other", u)
	}
}

func testTitle(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	title, err := wd.Title()
	if err != nil {
		t.Fatalf("wd.Title() returned error: %v", err)
	}
	if title != homeTitle {
		t.Fatalf("wd.Title() = %q, want %q", title, homeTitle)
	}
}

func testPageSource(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	source, err := wd.PageSource()
	if err != nil {
		t.Fatalf("wd.PageSource() returned error: %v", err)
	}
	if !strings.Contains(source, "The home page.") {
		t.Fatalf("Bad source\n%s", source)
	}
}

func testFindElement(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	for _, tc := range []struct {
		by, query, tag string
	}{
		{selenium.ByName, "q", "input"},
		{selenium.ByCSSSelector, "input[name=q]", "input"},
		{selenium.ByXPATH, "/html/body/form/input[2]", "input"},
		{selenium.ByID, "chuk", "input"},
		{selenium.ByClassName, "greeting", "p"},
		{selenium.ByLinkText, "other page", "a"},
		{selenium.ByPartialLinkText, "other", "a"},
	} {
		t.Run(tc.by, func(t *testing.T) {
			get(t, wd, c.ServerURL)
			elem := findElement(t, wd, tc.by, tc.query)
			tag, err := elem.TagName()
			if err != nil {
				t.Fatalf("elem.TagName() returned error: %v", err)
			}
			if tag != tc.tag {
				t.Fatalf("wd.FindElement(%q, %q).TagName() = %q, want %q", tc.by, tc.query, tag, tc.tag)
			}
		})
	}
}

func testFindElements(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	elems, err := wd.FindElements(selenium.ByCSSSelector, "option")
	if err != nil {
		t.Fatal(err)
	}
	if len(elems) != 2 {
		t.Fatalf("Wrong number of elements %d (should be 2)", len(elems))
	}

	form := findElement(t, wd, selenium.ByCSSSelector, "form")
	inputs, err := form.FindElements(selenium.ByXPATH, ".//input")
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 3 {
		t.Fatalf("Wrong number of inputs %d (should be 3)", len(inputs))
	}
}

func testNoSuchElement(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	_, err := wd.FindElement(selenium.ByCSSSelector, "#missing")
	if err == nil || !strings.Contains(err.Error(), "no such element") {
		t.Fatalf("wd.FindElement(#missing) returned error %v, want a no such element error", err)
	}
	elems, err := wd.FindElements(selenium.ByCSSSelector, "#missing")
	if err != nil || len(elems) != 0 {
		t.Fatalf("wd.FindElements(#missing) = %v, %v, want no elements", elems, err)
	}
}

func value(t *testing.T, we selenium.WebElement) string {
	t.Helper()
	v, err := we.GetAttribute("value")
	if err != nil {
		t.Fatalf(`we.GetAttribute("value") returned error: %v`, err)
	}
	return v
}

func testSendKeys(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	input := findElement(t, wd, selenium.ByName, "q")
	const query = "golang"
	if err := input.SendKeys(query); err != nil {
		t.Fatal(err)
	}
	if got := value(t, input); got != query {
		t.Fatalf("value after SendKeys(%q) = %q", query, got)
	}
	if err := input.SendKeys(selenium.BackspaceKey); err != nil {
		t.Fatal(err)
	}
	if got := value(t, input); got != "golan" {
		t.Fatalf("value after backspace = %q, want %q", got, "golan")
	}
	// The input has maxlength="10".
	if err := input.SendKeys("0123456789"); err != nil {
		t.Fatal(err)
	}
	if got := value(t, input); got != "golan01234" {
		t.Fatalf("value past maxlength = %q, want %q", got, "golan01234")
	}
}

func testClear(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	input := findElement(t, wd, selenium.ByName, "q")
	if err := input.SendKeys("golang"); err != nil {
		t.Fatal(err)
	}
	if err := input.Clear(); err != nil {
		t.Fatalf("input.Clear() returned error: %v", err)
	}
	if got := value(t, input); got != "" {
		t.Fatalf("value after Clear() = %q, want empty", got)
	}
}

func testClick(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	elem := findElement(t, wd, selenium.ByID, "chuk")
	selected, err := elem.IsSelected()
	if err != nil {
		t.Fatal("Can't get selection")
	}
	if selected {
		t.Fatal("Already selected")
	}
	if err := elem.Click(); err != nil {
		t.Fatal("Can't click")
	}
	selected, err = elem.IsSelected()
	if err != nil {
		t.Fatal("Can't get selection")
	}
	if !selected {
		t.Fatal("Not selected")
	}
}

func testSelectOption(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	first := findElement(t, wd, selenium.ByCSSSelector, "option[value=first_value]")
	second := findElement(t, wd, selenium.ByID, "secondValue")
	if selected, err := first.IsSelected(); err != nil || !selected {
		t.Fatalf("first option IsSelected() = %t, %v, want true", selected, err)
	}
	if err := second.Click(); err != nil {
		t.Fatalf("second.Click() returned error: %v", err)
	}
	if selected, err := second.IsSelected(); err != nil || !selected {
		t.Fatalf("second option IsSelected() = %t, %v, want true", selected, err)
	}
	if selected, err := first.IsSelected(); err != nil || selected {
		t.Fatalf("first option IsSelected() = %t, %v, want false", selected, err)
	}
	sel := findElement(t, wd, selenium.ByName, "s")
	if got := value(t, sel); got != "second_value" {
		t.Fatalf("select value = %q, want second_value", got)
	}
}

func testText(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	for _, tc := range []struct {
		css, text string
	}{
		{".greeting", "Hello, bold world!"},
		{"#hidden", ""},
	} {
		text, err := findElement(t, wd, selenium.ByCSSSelector, tc.css).Text()
		if err != nil {
			t.Fatalf("%s: Text() returned error: %v", tc.css, err)
		}
		if text != tc.text {
			t.Errorf("%s: Text() = %q, want %q", tc.css, text, tc.text)
		}
	}
}

func testLocation(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	first, err := findElement(t, wd, selenium.ByName, "q").Location()
	if err != nil {
		t.Fatal(err)
	}
	second, err := findElement(t, wd, selenium.ByName, "submit").Location()
	if err != nil {
		t.Fatal(err)
	}
	if first.X == second.X && first.Y == second.Y {
		t.Fatalf("two inputs share the location %+v", first)
	}
}

func testSize(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	size, err := findElement(t, wd, selenium.ByName, "q").Size()
	if err != nil {
		t.Fatal(err)
	}
	if size.Width == 0 || size.Height == 0 {
		t.Fatalf("Bad size %+v for a visible input", size)
	}
	size, err = findElement(t, wd, selenium.ByID, "hidden").Size()
	if err != nil {
		t.Fatal(err)
	}
	if size.Width != 0 || size.Height != 0 {
		t.Fatalf("Bad size %+v for a hidden paragraph", size)
	}
}

func testExecuteScript(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	script := "return arguments[0] + arguments[1]"
	reply, err := wd.ExecuteScript(script, []interface{}{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	result, ok := reply.(float64)
	if !ok {
		t.Fatalf("Not a number reply: %T", reply)
	}
	if result != 3 {
		t.Fatalf("Bad result %d (expected 3)", int(result))
	}

	if _, err := wd.ExecuteScript("throw new Error('boom')", nil); err == nil || !strings.Contains(err.Error(), "javascript error") {
		t.Fatalf("throwing script returned error %v, want a javascript error", err)
	}
}

func testExecuteScriptWithNilArgs(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	if _, err := wd.ExecuteScript("return document.readyState", nil); err != nil {
		t.Fatal(err)
	}
}

func testExecuteScriptOnElement(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	we := findElement(t, wd, selenium.ByID, "chuk")
	if _, err := wd.ExecuteScript("arguments[0].click()", []interface{}{we}); err != nil {
		t.Fatal(err)
	}
	if selected, err := we.IsSelected(); err != nil || !selected {
		t.Fatalf("checkbox clicked by script: IsSelected() = %t, %v, want true", selected, err)
	}

	reply, err := wd.ExecuteScript("return arguments[0].tagName", []interface{}{we})
	if err != nil {
		t.Fatal(err)
	}
	if reply != "INPUT" {
		t.Fatalf("tagName = %v, want INPUT", reply)
	}
}

func testDecodeElement(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	raw, err := wd.ExecuteScriptRaw("return document.getElementById('chuk')", nil)
	if err != nil {
		t.Fatal(err)
	}
	we, err := wd.DecodeElement(raw)
	if err != nil {
		t.Fatalf("wd.DecodeElement(%s) returned error: %v", raw, err)
	}
	if id, err := we.GetAttribute("id"); err != nil || id != "chuk" {
		t.Fatalf("decoded element id = %q, %v, want chuk", id, err)
	}

	raw, err = wd.ExecuteScriptRaw("return Array.prototype.slice.call(document.querySelectorAll('option'))", nil)
	if err != nil {
		t.Fatal(err)
	}
	options, err := wd.DecodeElements(raw)
	if err != nil {
		t.Fatalf("wd.DecodeElements(%s) returned error: %v", raw, err)
	}
	if len(options) != 2 {
		t.Fatalf("decoded %d options, want 2", len(options))
	}
}

func testScreenshot(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	data, err := wd.Screenshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("Empty reply")
	}
}

func testIsDisplayed(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	for _, tc := range []struct {
		id   string
		want bool
	}{
		{"chuk", true},
		{"hidden", false},
		{"invisible", false},
		{"hiddenChild", false},
	} {
		displayed, err := findElement(t, wd, selenium.ByID, tc.id).IsDisplayed()
		if err != nil {
			t.Fatalf("elem.IsDisplayed() returned error: %v", err)
		}
		if displayed != tc.want {
			t.Errorf("#%s IsDisplayed() = %t, want %t", tc.id, displayed, tc.want)
		}
	}
}

func testGetAttributeNotFound(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	elem := findElement(t, wd, selenium.ByID, "chuk")
	if _, err := elem.GetAttribute("no-such-attribute"); err == nil {
		t.Fatal("Got non existing attribute")
	}
}

func testKeyDownUp(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	input := findElement(t, wd, selenium.ByName, "q")
	if err := input.SendKeys("golang"); err != nil {
		t.Fatal(err)
	}
	if err := wd.KeyDown(selenium.ControlKey); err != nil {
		t.Fatalf("error pressing control key down: %v", err)
	}
	if err := input.SendKeys("a"); err != nil {
		t.Fatal(err)
	}
	if err := wd.KeyUp(selenium.ControlKey); err != nil {
		t.Fatalf("error releasing control key: %v", err)
	}
	if err := input.SendKeys("go"); err != nil {
		t.Fatal(err)
	}
	if got := value(t, input); got != "go" {
		t.Fatalf("value after select all and typing = %q, want go", got)
	}
}

func testMoveToClick(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	elem := findElement(t, wd, selenium.ByID, "chuk")
	if err := elem.MoveTo(1, 1); err != nil {
		t.Fatalf("elem.MoveTo(1, 1) returned error: %v", err)
	}
	if err := wd.Click(selenium.LeftButton); err != nil {
		t.Fatalf("wd.Click(selenium.LeftButton) returned error: %v", err)
	}
	if selected, err := elem.IsSelected(); err != nil || !selected {
		t.Fatalf("IsSelected() after a click at the mouse position = %t, %v, want true", selected, err)
	}
}

func testCSSProperty(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	display, err := findElement(t, wd, selenium.ByID, "hidden").CSSProperty("display")
	if err != nil {
		t.Fatalf(`e.CSSProperty("display") returned error: %v`, err)
	}
	if display != "none" {
		t.Fatalf(`e.CSSProperty("display") = %q, want none`, display)
	}
}

func testSwitchFrame(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL+"/frame")

	const (
		iframeID      = "iframeID"
		insideFrameID = "chuk"
		outsideDivID  = "outsideOfFrame"
	)

	// Test with the ID of the iframe.
	if err := wd.SwitchFrame(iframeID); err != nil {
		t.Fatalf("wd.SwitchToFrame(%q) returned error: %v", iframeID, err)
	}
	if _, err := wd.FindElement(selenium.ByID, insideFrameID); err != nil {
		t.Fatalf("After switching frames using an ID, wd.FindElement(selenium.ByID, %q) returned error: %v", insideFrameID, err)
	}
	if _, err := wd.FindElement(selenium.ByID, outsideDivID); err == nil {
		t.Fatalf("After switching frames using an ID, wd.FindElement(selenium.ByID, %q) returned nil, expected an error", outsideDivID)
	}

	// Test with nil, to return to the top-level context.
	if err := wd.SwitchFrame(nil); err != nil {
		t.Fatalf("wd.SwitchToFrame(nil) returned error: %v", err)
	}
	if _, err := wd.FindElement(selenium.ByID, outsideDivID); err != nil {
		t.Fatalf("After switching frames using nil, wd.FindElement(selenium.ByID, %q) returned error: %v", outsideDivID, err)
	}

	// Test with a WebElement.
	iframe := findElement(t, wd, selenium.ByID, iframeID)
	if err := wd.SwitchFrame(iframe); err != nil {
		t.Fatalf("wd.SwitchToFrame(iframe) returned error: %v", err)
	}
	if _, err := wd.FindElement(selenium.ByID, insideFrameID); err != nil {
		t.Fatalf("After switching frames using a WebElement, wd.FindElement(selenium.ByID, %q) returned error: %v", insideFrameID, err)
	}
	if _, err := iframe.TagName(); err == nil {
		t.Fatal("an element of the parent document is reachable from inside the frame")
	}

	// Test with the empty string, to return to the top-level context.
	if err := wd.SwitchFrame(""); err != nil {
		t.Fatalf(`wd.SwitchToFrame("") returned error: %v`, err)
	}
	if _, err := wd.FindElement(selenium.ByID, outsideDivID); err != nil {
		t.Fatalf(`After switching frames using "", wd.FindElement(selenium.ByID, %q) returned error: %v`, outsideDivID, err)
	}
}

func testShadowRoot(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	if elems, err := wd.FindElements(selenium.ByCSSSelector, ".inner"); err != nil || len(elems) != 0 {
		t.Fatalf("document search reached into a shadow root: %v, %v", elems, err)
	}
	host := findElement(t, wd, selenium.ByID, "host")
	raw, err := wd.ExecuteScriptRaw("return Array.prototype.slice.call(arguments[0].shadowRoot.querySelectorAll('.inner'))", []interface{}{host})
	if err != nil {
		t.Fatal(err)
	}
	inner, err := wd.DecodeElements(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(inner) != 1 {
		t.Fatalf("found %d elements in the shadow root, want 1", len(inner))
	}
	if text, err := inner[0].Text(); err != nil || text != "Shadow text" {
		t.Fatalf("shadow element Text() = %q, %v, want %q", text, err, "Shadow text")
	}
}

func testStaleElement(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	we := findElement(t, wd, selenium.ByID, "chuk")
	if _, err := wd.ExecuteScript("arguments[0].remove()", []interface{}{we}); err != nil {
		t.Fatal(err)
	}
	if _, err := we.Text(); err == nil || !strings.Contains(err.Error(), "stale element reference") {
		t.Fatalf("removed element Text() returned error %v, want a stale element reference", err)
	}
}

func testActiveElement(t *testing.T, c Config) {
	wd := newRemote(t, c)
	defer quitRemote(t, wd)

	get(t, wd, c.ServerURL)
	if err := findElement(t, wd, selenium.ByName, "q").Click(); err != nil {
		t.Fatal(err)
	}
	e, err := wd.ActiveElement()
	if err != nil {
		t.Fatalf("wd.ActiveElement() returned error: %v", err)
	}
	name, err := e.GetAttribute("name")
	if err != nil {
		t.Fatalf("wd.ActiveElement().GetAttribute() returned error: %v", err)
	}
	if name != "q" {
		t.Fatalf("wd.ActiveElement().GetAttribute() returned element with name = %q, expected name = 'q'", name)
	}
}

const (
	homeTitle  = "Selene Test Suite"
	otherTitle = "Selene Test Suite - Other Page"
)

var homePage = `
<html>
<head>
	<title>` + homeTitle + `</title>
</head>
<body>
	The home page. <br />
	<form action="/search">
		<input name="q" maxlength="10" />
		<input name="submit" type="submit" id="submit" /> <br />
		<input id="chuk" type="checkbox" /> A checkbox.
		<select name="s">
			<option value="first_value">First Value</option>
			<option id="secondValue" value="second_value">Second Value</option>
		</select>
	</form>
	<p class="greeting">  Hello,   <b>bold</b> world!  </p>
	<p id="hidden" style="display: none">Hidden text</p>
	<p id="invisible" hidden>Invisible text</p>
	<div style="visibility: hidden"><span id="hiddenChild">Hidden child</span></div>
	<div id="host"><template shadowrootmode="open"><span class="inner">Shadow text</span></template></div>
	Link to the <a href="/other">other page</a>.
</body>
</html>
`

var otherPage = `
<html>
<head>
	<title>` + otherTitle + `</title>
</head>
<body>
	The other page.
</body>
</html>
`

var framePage = `
<html>
<head>
	<title>Selene Test Suite - Frame Page</title>
</head>
<body>
	This page contains a frame.

	<iframe id="iframeID" name="iframeName" src="/"></iframe>
	<div id="outsideOfFrame"></div>
</body>
</html>
`

// Pages are the pages of the test suite, by path.
var Pages = map[string]string{
	"/":      homePage,
	"/other": otherPage,
	"/frame": framePage,
}

// AddPages serves Pages on d under serverURL.
func AddPages(d *Driver, serverURL string) {
	for path, page := range Pages {
		d.AddPage(serverURL+path, page)
	}
	d.AddPage(serverURL, homePage)
}

// Handler serves Pages to a real browser.
var Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	page, ok := Pages[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, page)
})
