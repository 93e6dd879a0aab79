package selene_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/tebeka/selenium"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/be"
	"github.com/wanmail/selene/have"
)

const form = `<form id="f" onsubmit="document.getElementById('status').textContent = 'submitted'">
  <input id="name" value="Go">
  <input id="short" maxlength="3">
  <textarea id="notes"></textarea>
  <input id="copy-from" value="copied">
  <input id="copy-to">
</form>
<p id="status"></p>`

func TestType(t *testing.T) {
	for _, byJS := range []bool{false, true} {
		b, d := newBrowser(t, form, selene.TypeByJS(byJS))
		name := b.Element("#name")
		if err := name.Type("pher"); err != nil {
			t.Fatalf("TypeByJS(%t): Type() returned error: %v", byJS, err)
		}
		if err := name.Should(have.Value("Gopher")); err != nil {
			t.Fatalf("TypeByJS(%t): %v", byJS, err)
		}
		if !contains(d.Events("#name"), "input") {
			t.Errorf("TypeByJS(%t): events of #name = %v, want an input event", byJS, d.Events("#name"))
		}
	}
}

func TestSetValue(t *testing.T) {
	for _, byJS := range []bool{false, true} {
		b, _ := newBrowser(t, form, selene.SetValueByJS(byJS))
		if err := b.Element("#name").SetValue("Rob"); err != nil {
			t.Fatalf("SetValueByJS(%t): SetValue() returned error: %v", byJS, err)
		}
		if err := b.Element("#name").Should(have.Value("Rob")); err != nil {
			t.Fatalf("SetValueByJS(%t): %v", byJS, err)
		}
		if err := b.Element("#short").SetValue("abcdef"); err != nil {
			t.Fatal(err)
		}
		if err := b.Element("#short").Should(have.Value("abc")); err != nil {
			t.Errorf("SetValueByJS(%t): maxlength was not honoured: %v", byJS, err)
		}
	}
}

func TestClearAndBlank(t *testing.T) {
	b, _ := newBrowser(t, form)
	name := b.Element("#name")
	if err := name.Should(be.Not.Blank); err != nil {
		t.Fatal(err)
	}
	if err := name.Clear(); err != nil {
		t.Fatalf("Clear() returned error: %v", err)
	}
	if err := name.Should(be.Blank); err != nil {
		t.Fatal(err)
	}
}

func TestPressAndSubmit(t *testing.T) {
	b, d := newBrowser(t, form)
	if err := b.Element("#name").PressEnter(); err != nil {
		t.Fatalf("PressEnter() returned error: %v", err)
	}
	if !contains(d.Events("#name"), "keydown") {
		t.Errorf("events of #name = %v, want a keydown", d.Events("#name"))
	}
	if err := b.Element("#notes").Press("one", selenium.EnterKey, "two"); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#notes").Should(have.Value("one\ntwo")); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#name").Submit(); err != nil {
		t.Fatalf("Submit() returned error: %v", err)
	}
	if err := b.Element("#status").Should(have.ExactText("submitted")); err != nil {
		t.Fatal(err)
	}
}

func TestCopyPaste(t *testing.T) {
	b, d := newBrowser(t, form)
	from, to := b.Element("#copy-from"), b.Element("#copy-to")
	if err := from.SelectAll(); err != nil {
		t.Fatal(err)
	}
	if err := from.Copy(); err != nil {
		t.Fatal(err)
	}
	if got := d.Clipboard(); got != "copied" {
		t.Fatalf("clipboard = %q, want copied", got)
	}
	if err := to.Paste(); err != nil {
		t.Fatal(err)
	}
	if err := to.Should(have.Value("copied")); err != nil {
		t.Fatal(err)
	}
}

const buttons = `<div id="app">
  <button id="save" hidden onclick="this.textContent = 'saved'">save</button>
  <span id="left">left</span><span id="right">right</span>
  <div id="overlay">loading</div>
</div>`

func TestClickWaitsForVisibility(t *testing.T) {
	b, d := newBrowser(t, buttons)
	d.After(50*time.Millisecond, `document.getElementById('save').removeAttribute('hidden');`)

	if err := b.Element("#save").Click(); err != nil {
		t.Fatalf("Click() returned error: %v", err)
	}
	if err := b.Element("#save").Should(have.ExactText("saved")); err != nil {
		t.Fatal(err)
	}
}

func TestClickByJS(t *testing.T) {
	b, d := newBrowser(t, `<button id="b" onclick="this.textContent = 'clicked'">press</button>`, selene.ClickByJS(true))
	if err := b.Element("#b").Click(); err != nil {
		t.Fatalf("Click() returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"mousedown", "mouseup", "click"}, d.Events("#b")); diff != "" {
		t.Errorf("events of #b (-want +got):\n%s", diff)
	}
	if err := b.Element("#b").Should(have.ExactText("clicked")); err != nil {
		t.Fatal(err)
	}
}

func TestClickWithOffset(t *testing.T) {
	b, d := newBrowser(t, buttons)
	if err := b.Element("#left").ClickWithOffset(10, 0); err != nil {
		t.Fatalf("ClickWithOffset() returned error: %v", err)
	}
	if contains(d.Events("#left"), "click") {
		t.Errorf("events of #left = %v, want no click", d.Events("#left"))
	}
	if !contains(d.Events("#right"), "click") {
		t.Errorf("events of #right = %v, want a click", d.Events("#right"))
	}
}

func TestClickOnCoveredElement(t *testing.T) {
	b, d := newBrowser(t, buttons, selene.Timeout(100*time.Millisecond))
	if err := d.Cover("#left", "#overlay"); err != nil {
		t.Fatal(err)
	}

	err := b.Element("#left").Click()
	if err == nil {
		t.Fatal("Click() on a covered element returned no error")
	}
	if reason := selene.ReasonName(errors.Unwrap(err)); reason != "ElementClickInterceptedException" {
		t.Errorf("Click() failed with %s, want ElementClickInterceptedException", reason)
	}

	err = b.Element("#left").With(selene.WaitForNoOverlapFoundByJS(true)).Click()
	var overlap *selene.OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("Click() with overlap detection returned %v, want an *OverlapError", err)
	}
	if !strings.Contains(overlap.Cover, "loading") {
		t.Errorf("overlap cover = %q, want the overlay", overlap.Cover)
	}
	if contains(d.Events("#left"), "click") {
		t.Errorf("covered element received a click: %v", d.Events("#left"))
	}
}

func TestClickWaitsForOverlayToHide(t *testing.T) {
	b, d := newBrowser(t, buttons, selene.WaitForNoOverlapFoundByJS(true))
	if err := d.Cover("#left", "#overlay"); err != nil {
		t.Fatal(err)
	}
	d.After(50*time.Millisecond, `document.getElementById('overlay').style.display = 'none';`)

	if err := b.Element("#left").Click(); err != nil {
		t.Fatalf("Click() returned error: %v", err)
	}
	if !contains(d.Events("#left"), "click") {
		t.Errorf("events of #left = %v, want a click", d.Events("#left"))
	}
}

func TestPointerActions(t *testing.T) {
	b, d := newBrowser(t, buttons)
	tests := []struct {
		name   string
		action func(e *selene.Element) error
		event  string
	}{
		{"DoubleClick", (*selene.Element).DoubleClick, "dblclick"},
		{"ContextClick", (*selene.Element).ContextClick, "contextmenu"},
		{"Hover", (*selene.Element).Hover, "mousemove"},
		{"ScrollToTop", (*selene.Element).ScrollToTop, "scrollIntoView"},
		{"ScrollToCenter", (*selene.Element).ScrollToCenter, "scrollIntoView"},
	}
	for _, tc := range tests {
		if err := tc.action(b.Element("#right")); err != nil {
			t.Errorf("%s() returned error: %v", tc.name, err)
			continue
		}
		if !contains(d.Events("#right"), tc.event) {
			t.Errorf("after %s() events of #right = %v, want %s", tc.name, d.Events("#right"), tc.event)
		}
	}
}

func TestDragAndDrop(t *testing.T) {
	b, d := newBrowser(t, buttons)
	if err := b.Element("#left").DragAndDropTo(b.Element("#right")); err != nil {
		t.Fatalf("DragAndDropTo() returned error: %v", err)
	}
	if !contains(d.Events("#left"), "mousedown") {
		t.Errorf("events of the source = %v, want mousedown", d.Events("#left"))
	}
	if !contains(d.Events("#right"), "drop") {
		t.Errorf("events of the target = %v, want drop", d.Events("#right"))
	}

	b, d = newBrowser(t, buttons, selene.DragAndDropByJS(true))
	if err := b.Element("#left").DragAndDropTo(b.Element("#right")); err != nil {
		t.Fatalf("DragAndDropTo() by JS returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"dragenter", "dragover", "drop"}, d.Events("#right")); diff != "" {
		t.Errorf("events of the target (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"dragstart", "dragend"}, d.Events("#left")); diff != "" {
		t.Errorf("events of the source (-want +got):\n%s", diff)
	}
}

func TestDropFile(t *testing.T) {
	b, d := newBrowser(t, `<div id="zone" ondrop="this.textContent = event.dataTransfer.files[0].name">drop here</div>`)
	if err := b.Element("#zone").DropFile("/tmp/report.csv"); err != nil {
		t.Fatalf("DropFile() returned error: %v", err)
	}
	if errs := d.ScriptErrors(); len(errs) != 0 {
		t.Fatalf("page scripts failed: %v", errs)
	}
	if err := b.Element("#zone").Should(have.ExactText("report.csv")); err != nil {
		t.Fatal(err)
	}
	if err := b.All("input[type=file]").Should(have.Size(0)); err != nil {
		t.Errorf("the temporary file input was not removed: %v", err)
	}
}

func TestElementExecuteScript(t *testing.T) {
	b, _ := newBrowser(t, `<p id="x">text</p>`)
	got, err := b.Element("#x").ExecuteScript(`return element.id + args[0] + args.length;`, "!")
	if err != nil {
		t.Fatal(err)
	}
	if got != "x!1" {
		t.Errorf("ExecuteScript() = %v, want x!1", got)
	}
}

func TestNestedSearch(t *testing.T) {
	b, _ := newBrowser(t, `<div id="a"><p>inside a</p></div><div id="b"><p>inside b</p><p>second b</p></div>`)
	if err := b.Element("#b").Element("p").Should(have.ExactText("inside b")); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#b").All("p").Should(have.ExactTexts("inside b", "second b")); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#a").Element("./p").Should(have.ExactText("inside a")); err != nil {
		t.Fatal(err)
	}
	want := "browser.element(('css selector', '#b')).all(('css selector', 'p'))"
	if got := b.Element("#b").All("p").String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKeyNames(t *testing.T) {
	got := selene.KeyNames("ab" + selenium.EnterKey + selenium.ControlKey + "c")
	if want := "ab + ENTER + CONTROL + c"; got != want {
		t.Errorf("KeyNames() = %q, want %q", got, want)
	}
}
