package selene_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/be"
	"github.com/wanmail/selene/have"
	"github.com/wanmail/selene/query"
)

const list = `<ul>
  <li class="a">One</li>
  <li>Two</li>
  <li class="a">Three</li>
  <li hidden>Four</li>
  <li>Five</li>
</ul>`

const table = `<div class="row"><span class="name">Ann</span><span class="role">admin</span></div>
<div class="row"><span class="name">Bob</span><span class="role">user</span></div>
<div class="row"><span class="name">Cid</span><span class="role">admin</span></div>`

func TestCollectionIndexing(t *testing.T) {
	b, _ := newBrowser(t, list)
	items := b.All("li")

	if n, err := items.Len(); err != nil || n != 5 {
		t.Fatalf("items.Len() = %d, %v, want 5", n, err)
	}
	tests := []struct {
		element *selene.Element
		text    string
	}{
		{items.First(), "One"},
		{items.Second(), "Two"},
		{items.Element(2), "Three"},
		{items.Element(-1), "Five"},
	}
	for _, tc := range tests {
		if err := tc.element.Should(have.ExactText(tc.text)); err != nil {
			t.Errorf("%s: %v", tc.element, err)
		}
	}

	_, err := items.Element(10).Locate()
	var missing *selene.NoSuchElementError
	if !errors.As(err, &missing) {
		t.Fatalf("items.Element(10).Locate() returned %v, want a *NoSuchElementError", err)
	}
	if want := "cannot get element with index 10 from webelements collection with length 5"; missing.Error() != want {
		t.Errorf("items.Element(10) error = %q, want %q", missing.Error(), want)
	}
	if err := items.Element(10).Should(be.Absent); err != nil {
		t.Errorf("items.Element(10) is not absent: %v", err)
	}
}

func TestCollectionSlicing(t *testing.T) {
	b, _ := newBrowser(t, list, selene.MatchOnlyVisibleElementsTexts(false))
	items := b.All("li")

	tests := []struct {
		collection *selene.Collection
		name       string
		texts      []string
	}{
		{items.Slice(1, 3), "[1:3]", []string{"Two", "Three"}},
		{items.SliceStep(0, 5, 2), "[0:5:2]", []string{"One", "Three", "Five"}},
		{items.From(3), "[3:]", []string{"", "Five"}},
		{items.To(2), "[:2]", []string{"One", "Two"}},
		{items.Even(), "[1::2]", []string{"Two", ""}},
		{items.Odd(), "[::2]", []string{"One", "Three", "Five"}},
		{items.Slice(-2, 5), "[-2:5]", []string{"", "Five"}},
	}
	for _, tc := range tests {
		if want := "browser.all(('css selector', 'li'))" + tc.name; tc.collection.String() != want {
			t.Errorf("String() = %q, want %q", tc.collection.String(), want)
		}
		if err := tc.collection.Should(have.ExactTexts(tc.texts...)); err != nil {
			t.Errorf("%s: %v", tc.collection, err)
		}
	}

	_, err := items.Slice(0, 7).Locate()
	var mismatch *selene.ConditionMismatch
	if !errors.As(err, &mismatch) {
		t.Errorf("items.Slice(0, 7).Locate() returned %v, want a *ConditionMismatch", err)
	}
	_, err = items.SliceStep(0, 2, 0).Locate()
	var invalid *selene.InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Errorf("items.SliceStep(0, 2, 0).Locate() returned %v, want an *InvalidArgumentError", err)
	}
}

func TestCollectionFilters(t *testing.T) {
	b, _ := newBrowser(t, list)
	items := b.All("li")

	if err := items.By(have.CSSClass("a")).Should(have.ExactTexts("One", "Three")); err != nil {
		t.Error(err)
	}
	if err := items.FilteredBy(be.Visible).Should(have.Size(4)); err != nil {
		t.Error(err)
	}
	if err := items.ElementBy(have.ExactText("Three")).Should(have.CSSClass("a")); err != nil {
		t.Error(err)
	}
	if err := items.By(have.Text("T")).Should(have.ExactTexts("Two", "Three")); err != nil {
		t.Error(err)
	}

	_, err := items.ElementBy(have.ExactText("Six")).Locate()
	var missing *selene.NoSuchElementError
	if !errors.As(err, &missing) {
		t.Errorf("ElementBy() without match returned %v, want a *NoSuchElementError", err)
	}
	if err := b.Element(selene.ByText("Three")).Should(have.CSSClass("a")); err != nil {
		t.Error(err)
	}
}

func TestCollectionByTheir(t *testing.T) {
	b, _ := newBrowser(t, table)
	rows := b.All(".row")

	admins := rows.ByTheir(".role", have.ExactText("admin"))
	if err := admins.Should(have.Size(2)); err != nil {
		t.Fatal(err)
	}
	if err := admins.All(".name").Should(have.ExactTexts("Ann", "Cid")); err != nil {
		t.Error(err)
	}
	bob := rows.ElementByIts(".name", have.ExactText("Bob"))
	if err := bob.Element(".role").Should(have.ExactText("user")); err != nil {
		t.Error(err)
	}
	_, err := rows.ElementByIts(".name", have.ExactText("Dan")).Locate()
	if !selene.IsNoSuchElement(err) {
		t.Errorf("ElementByIts() without match returned %v, want no such element", err)
	}
}

func TestCollectionByTheirInvalidSelector(t *testing.T) {
	b, _ := newBrowser(t, table)
	rows := b.All(".row")
	var invalid *selene.InvalidArgumentError

	start := time.Now()
	err := rows.ByTheir("", be.Visible).Should(have.Size(0))
	if !errors.As(err, &invalid) {
		t.Errorf("ByTheir(\"\") Should() returned %v, want an *InvalidArgumentError", err)
	}
	if elapsed := time.Since(start); elapsed >= b.Config().Timeout {
		t.Errorf("ByTheir(\"\") waited %s, want no retries", elapsed)
	}

	_, err = rows.ElementByIts("", have.ExactText("Bob")).Locate()
	if !errors.As(err, &invalid) {
		t.Errorf("ElementByIts(\"\").Locate() returned %v, want an *InvalidArgumentError", err)
	}
}

func TestCollectionCollected(t *testing.T) {
	b, _ := newBrowser(t, table)
	rows := b.All(".row")

	if err := rows.All("span").Should(have.Size(6)); err != nil {
		t.Error(err)
	}
	if err := rows.AllFirst("span").Should(have.ExactTexts("Ann", "Bob", "Cid")); err != nil {
		t.Error(err)
	}
	roles := rows.Collected(func(e *selene.Element) selene.Locatable { return e.Element(".role") })
	if err := roles.Should(have.ExactTexts("admin", "user", "admin")); err != nil {
		t.Error(err)
	}
	texts, err := selene.Get(rows.Collected(func(e *selene.Element) selene.Locatable { return e.All("span") }), query.Texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 6 {
		t.Errorf("collected texts = %v, want 6 texts", texts)
	}
}

func TestCollectionElementsAreBound(t *testing.T) {
	b, d := newBrowser(t, list)
	elements, err := b.All("li").Elements()
	if err != nil {
		t.Fatal(err)
	}
	if len(elements) != 5 {
		t.Fatalf("Elements() returned %d elements, want 5", len(elements))
	}
	calls := d.Calls("FindElements")
	if err := elements[2].Should(have.ExactText("Three")); err != nil {
		t.Fatal(err)
	}
	if n := d.Calls("FindElements"); n != calls {
		t.Errorf("bound element was located again: %d FindElements calls, want %d", n, calls)
	}
	if want := "browser.all(('css selector', 'li'))[2]"; elements[2].String() != want {
		t.Errorf("String() = %q, want %q", elements[2].String(), want)
	}
}
