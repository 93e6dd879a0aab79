package query_test

import (
	"testing"
	"time"

	"github.com/blang/semver"
	"github.com/google/go-cmp/cmp"

	"github.com/wanmail/selene"
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

const people = `<ul id="people">
  <li class="person" data-id="1">Alex!</li>
  <li class="person" data-id="2">  Yakov!   </li>
</ul>
<input id="name" value="Gopher" style="color: red">`

func TestElementQueries(t *testing.T) {
	b, _ := newBrowser(t, people)
	first := b.Element(".person")

	tests := []struct {
		q    selene.Query[*selene.Element, string]
		e    *selene.Element
		want string
	}{
		{query.Text, first, "Alex!"},
		{query.InnerHTML, first, "Alex!"},
		{query.OuterHTML, first, `<li class="person" data-id="1">Alex!</li>`},
		{query.Tag, first, "li"},
		{query.Attribute("data-id"), first, "1"},
		{query.Attribute("missing"), first, ""},
		{query.Value, b.Element("#name"), "Gopher"},
		{query.CSSProperty("color"), b.Element("#name"), "red"},
	}
	for _, tc := range tests {
		got, err := selene.Get(tc.e, tc.q)
		if err != nil {
			t.Errorf("Get(%s) returned error: %v", tc.q, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Get(%s) = %q, want %q", tc.q, got, tc.want)
		}
	}

	value, err := selene.Get(b.Element("#name"), query.JSProperty("value"))
	if err != nil {
		t.Fatal(err)
	}
	if value != "Gopher" {
		t.Errorf("JSProperty(value) = %v, want Gopher", value)
	}
}

func TestCollectionQueries(t *testing.T) {
	b, _ := newBrowser(t, people)
	all := b.All(".person")

	size, err := selene.Get(all, query.Size)
	if err != nil {
		t.Fatal(err)
	}
	if size != 2 {
		t.Errorf("Size = %d, want 2", size)
	}

	tests := []struct {
		q    selene.Query[*selene.Collection, []string]
		want []string
	}{
		{query.Texts, []string{"Alex!", "Yakov!"}},
		{query.InnerHTMLs, []string{"Alex!", "  Yakov!   "}},
		{query.Attributes("data-id"), []string{"1", "2"}},
	}
	for _, tc := range tests {
		got, err := selene.Get(all, tc.q)
		if err != nil {
			t.Errorf("Get(%s) returned error: %v", tc.q, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Get(%s) returned diff (-want +got):\n%s", tc.q, diff)
		}
	}
}

func TestBrowserQueries(t *testing.T) {
	b, d := newBrowser(t, `<title>Queries</title><p>content</p>`)

	title, err := selene.Get(b, query.Title)
	if err != nil || title != "Queries" {
		t.Errorf("Title = %q, %v, want Queries", title, err)
	}
	url, err := selene.Get(b, query.URL)
	if err != nil || url != "about:blank" {
		t.Errorf("URL = %q, %v, want about:blank", url, err)
	}
	source, err := selene.Get(b, query.PageSource)
	if err != nil {
		t.Fatal(err)
	}
	if len(source) == 0 {
		t.Error("PageSource is empty")
	}

	first, err := selene.Get(b, query.CurrentTab)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.OpenWindow("about:blank")
	if err != nil {
		t.Fatal(err)
	}
	tabs, err := selene.Get(b, query.Tabs)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{first, second}, tabs); diff != "" {
		t.Errorf("Tabs returned diff (-want +got):\n%s", diff)
	}
	if n, _ := selene.Get(b, query.TabsNumber); n != 2 {
		t.Errorf("TabsNumber = %d, want 2", n)
	}
	if next, _ := selene.Get(b, query.NextTab); next != second {
		t.Errorf("NextTab = %s, want %s", next, second)
	}
	if previous, _ := selene.Get(b, query.PreviousTab); previous != second {
		t.Errorf("PreviousTab = %s, want %s wrapping around", previous, second)
	}
}

func TestBrowserVersion(t *testing.T) {
	b, d := newBrowser(t, `<p></p>`)

	tests := []struct {
		key, raw string
		want     semver.Version
	}{
		{"browserVersion", "120.0.6099.109", semver.MustParse("120.0.6099")},
		{"browserVersion", "115.0", semver.MustParse("115.0.0")},
		{"version", "78", semver.MustParse("78.0.0")},
	}
	for _, tc := range tests {
		d.SetCapability("browserVersion", "")
		d.SetCapability(tc.key, tc.raw)
		got, err := selene.Get(b, query.BrowserVersion)
		if err != nil {
			t.Errorf("%s=%s: BrowserVersion returned error: %v", tc.key, tc.raw, err)
			continue
		}
		if !got.Equals(tc.want) {
			t.Errorf("%s=%s: BrowserVersion = %s, want %s", tc.key, tc.raw, got, tc.want)
		}
	}
}

func TestShadowAndFrameQueries(t *testing.T) {
	b, _ := newBrowser(t, `<div id="host"><template shadowrootmode="open"><b>inner</b></template></div>
<iframe id="f" srcdoc="<p>framed</p>"></iframe>`)

	root, err := selene.Get(b.Element("#host"), query.ShadowRoot)
	if err != nil {
		t.Fatal(err)
	}
	if err := root.Element("b").Should(have.ExactText("inner")); err != nil {
		t.Error(err)
	}

	frame, err := selene.Get(b.Element("#f"), query.FrameContext)
	if err != nil {
		t.Fatal(err)
	}
	if err := frame.Element("p").Should(have.ExactText("framed")); err != nil {
		t.Error(err)
	}
}

func TestSavedArtifacts(t *testing.T) {
	b, _ := newBrowser(t, `<p>saved</p>`)

	screenshot, err := selene.Get(b, query.ScreenshotSaved(""))
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Config().Reports.LastScreenshot(); got != screenshot {
		t.Errorf("LastScreenshot() = %q, want %q", got, screenshot)
	}
	source, err := selene.Get(b, query.PageSourceSaved(""))
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Config().Reports.LastPageSource(); got != source {
		t.Errorf("LastPageSource() = %q, want %q", got, source)
	}
}
