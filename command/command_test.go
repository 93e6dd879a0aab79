package command_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/be"
	"github.com/wanmail/selene/command"
	"github.com/wanmail/selene/have"
	"github.com/wanmail/selene/internal/seleniumtest"
	"github.com/wanmail/selene/query"
)

func newBrowser(t *testing.T, page string) (*selene.Browser, *seleniumtest.Driver) {
	t.Helper()
	d := seleniumtest.New()
	t.Cleanup(func() { d.Quit() })
	if err := d.Load(page); err != nil {
		t.Fatalf("d.Load() returned error: %v", err)
	}
	return selene.NewBrowser(selene.NewConfig(
		selene.Driver(d),
		selene.Timeout(500*time.Millisecond),
		selene.PollInterval(10*time.Millisecond),
		selene.ReportsFolder(t.TempDir()),
	)), d
}

const dropdowns = `<select id="lang">
  <option value="go">Go</option>
  <option value="py"> Python </option>
  <option value="rs">Rust</option>
</select>
<select id="tags" multiple>
  <option value="a" selected>alpha</option>
  <option value="b">beta</option>
  <option value="c" selected>gamma</option>
</select>
<p id="plain">not a select</p>`

func selected(t *testing.T, b *selene.Browser, css string) []string {
	t.Helper()
	var values []string
	options, err := b.All(css + " option").Elements()
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range options {
		if o.Matching(be.Selected) {
			v, err := selene.Get(o, query.Attribute("value"))
			if err != nil {
				t.Fatal(err)
			}
			values = append(values, v)
		}
	}
	return values
}

func TestSelect(t *testing.T) {
	b, _ := newBrowser(t, dropdowns)
	lang := b.Element("#lang")

	tests := []struct {
		cmd  selene.Command[*selene.Element]
		want []string
	}{
		{command.SelectByValue("rs"), []string{"rs"}},
		{command.SelectByVisibleText("Python"), []string{"py"}},
		{command.SelectByIndex(0), []string{"go"}},
	}
	for _, tc := range tests {
		if err := lang.Perform(tc.cmd); err != nil {
			t.Fatalf("Perform(%s) returned error: %v", tc.cmd, err)
		}
		if diff := cmp.Diff(tc.want, selected(t, b, "#lang")); diff != "" {
			t.Errorf("after %s selected options returned diff (-want +got):\n%s", tc.cmd, diff)
		}
	}
}

func TestSelectMultiple(t *testing.T) {
	b, _ := newBrowser(t, dropdowns)
	tags := b.Element("#tags")

	if err := tags.Perform(command.SelectByVisibleText("beta")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, selected(t, b, "#tags")); diff != "" {
		t.Errorf("selected options returned diff (-want +got):\n%s", diff)
	}
	if err := tags.Perform(command.DeselectAll); err != nil {
		t.Fatalf("Perform(DeselectAll) returned error: %v", err)
	}
	if got := selected(t, b, "#tags"); len(got) != 0 {
		t.Errorf("selected options after DeselectAll = %v, want none", got)
	}
}

func TestSelectErrors(t *testing.T) {
	b, _ := newBrowser(t, dropdowns)
	b = b.With(selene.Timeout(50 * time.Millisecond))

	tests := []struct {
		e   *selene.Element
		cmd selene.Command[*selene.Element]
	}{
		{b.Element("#lang"), command.SelectByValue("java")},
		{b.Element("#lang"), command.SelectByVisibleText("Java")},
		{b.Element("#lang"), command.SelectByIndex(3)},
		{b.Element("#lang"), command.DeselectAll},
		{b.Element("#plain"), command.SelectByIndex(0)},
	}
	for _, tc := range tests {
		if err := tc.e.Perform(tc.cmd); err == nil {
			t.Errorf("%s.Perform(%s) returned no error", tc.e, tc.cmd)
		}
	}
}

func TestJSCommands(t *testing.T) {
	b, d := newBrowser(t, `<div id="box" style="display: block">box</div>
<input id="in" value="Go">
<button id="btn" onclick="this.textContent = 'clicked'">press</button>
<p id="gone">gone</p>`)

	if err := b.Element("#box").Perform(command.JSSetStyleDisplayToNone); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#box").Should(be.Hidden); err != nil {
		t.Error(err)
	}
	if err := b.Element("#box").Perform(command.JSSetStyleDisplayToBlock); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#box").Should(be.Visible); err != nil {
		t.Error(err)
	}

	if err := b.Element("#in").Perform(command.JSType("pher")); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#in").Should(have.Value("Gopher")); err != nil {
		t.Error(err)
	}
	if err := b.Element("#in").Perform(command.JSSetValue("Rob")); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#in").Should(have.Value("Rob")); err != nil {
		t.Error(err)
	}

	if err := b.Element("#btn").Perform(command.JSClick); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#btn").Should(have.ExactText("clicked")); err != nil {
		t.Error(err)
	}

	if err := b.Element("#gone").Perform(command.JSRemove); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#gone").Should(be.Absent); err != nil {
		t.Error(err)
	}

	if err := b.Element("#box").Perform(command.JSScrollIntoView); err != nil {
		t.Fatal(err)
	}
	if got := d.Events("#box"); len(got) == 0 || got[len(got)-1] != "scrollIntoView" {
		t.Errorf("events of #box = %v, want scrollIntoView last", got)
	}
}

func TestKeyCommands(t *testing.T) {
	b, d := newBrowser(t, `<input id="from" value="text"><input id="to">`)
	from, to := b.Element("#from"), b.Element("#to")

	for _, cmd := range []selene.Command[*selene.Element]{command.SelectAll, command.Copy} {
		if err := from.Perform(cmd); err != nil {
			t.Fatalf("Perform(%s) returned error: %v", cmd, err)
		}
	}
	if got := d.Clipboard(); got != "text" {
		t.Errorf("clipboard = %q, want text", got)
	}
	if err := to.Perform(command.Paste); err != nil {
		t.Fatal(err)
	}
	if err := to.Perform(command.Press("!", "?")); err != nil {
		t.Fatal(err)
	}
	if err := to.Should(have.Value("text!?")); err != nil {
		t.Error(err)
	}
	if got, want := command.Press("a", "b").String(), "press keys: ab"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDragAndDropCommands(t *testing.T) {
	page := `<span id="src" draggable="true">src</span><span id="dst">dst</span>`

	b, d := newBrowser(t, page)
	if err := b.Element("#src").Perform(command.JSDragAndDropTo(b.Element("#dst"))); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"dragenter", "dragover", "drop"}, d.Events("#dst")); diff != "" {
		t.Errorf("events of #dst (-want +got):\n%s", diff)
	}

	b, d = newBrowser(t, page)
	if err := b.Element("#src").Perform(command.DragAndDropTo(b.Element("#dst"))); err != nil {
		t.Fatal(err)
	}
	if got := d.Events("#dst"); len(got) == 0 {
		t.Error("native drag and drop sent no event to #dst")
	}
	if err := b.Element("#src").Perform(command.DragAndDropByOffset(10, 0)); err != nil {
		t.Fatalf("Perform(DragAndDropByOffset) returned error: %v", err)
	}
}

func TestJSDropFile(t *testing.T) {
	b, _ := newBrowser(t, `<div id="zone" ondrop="this.textContent = event.dataTransfer.files[0].name">drop</div>`)
	if err := b.Element("#zone").Perform(command.JSDropFile("/data/report.pdf")); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#zone").Should(have.ExactText("report.pdf")); err != nil {
		t.Error(err)
	}
}

func TestBrowserCommands(t *testing.T) {
	b, _ := newBrowser(t, `<p>page</p>`)
	dir := t.TempDir()

	screenshot := filepath.Join(dir, "shot.png")
	if err := b.Perform(command.SaveScreenshot(screenshot)); err != nil {
		t.Fatal(err)
	}
	source := filepath.Join(dir, "page.html")
	if err := b.Perform(command.SavePageSource(source)); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{screenshot, source} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("artifact was not saved: %v", err)
		}
	}

	if _, err := b.ExecuteScript(`localStorage.setItem('k', 'v');`); err != nil {
		t.Fatal(err)
	}
	if err := b.Perform(command.ClearLocalStorage); err != nil {
		t.Fatal(err)
	}
	if err := b.Should(have.JSReturned(nil, `return localStorage.getItem('k');`)); err != nil {
		t.Error(err)
	}
	if err := b.Perform(command.ClearSessionStorage); err != nil {
		t.Fatal(err)
	}
}
