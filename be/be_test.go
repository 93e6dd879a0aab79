package be_test

import (
	"testing"
	"time"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/be"
	"github.com/wanmail/selene/have"
	"github.com/wanmail/selene/internal/seleniumtest"
)

const page = `<form>
  <input id="email" value="">
  <input id="agree" type="checkbox" checked>
  <button id="send" disabled>Send</button>
  <p id="note" style="display:none">note</p>
</form>`

func TestStates(t *testing.T) {
	d := seleniumtest.New()
	defer d.Quit()
	if err := d.Load(page); err != nil {
		t.Fatal(err)
	}
	b := selene.NewBrowser(selene.NewConfig(selene.Driver(d), selene.Timeout(time.Second)))

	tests := []struct {
		selector string
		cond     selene.Condition[*selene.Element]
	}{
		{"#email", be.Visible},
		{"#email", be.Enabled},
		{"#email", be.Blank},
		{"#email", be.Clickable},
		{"#agree", be.Selected},
		{"#send", be.Disabled},
		{"#send", be.Not.Clickable},
		{"#send", be.Not.Blank},
		{"#note", be.Hidden},
		{"#note", be.HiddenInDOM},
		{"#note", be.Present},
		{"#missing", be.Absent},
		{"#missing", be.Not.Present},
		{"#email", be.Not.Focused},
	}
	for _, tc := range tests {
		if err := b.Element(tc.selector).Should(tc.cond); err != nil {
			t.Errorf("%s should %s: %v", tc.selector, tc.cond, err)
		}
	}

	if err := b.Element("#email").Click(); err != nil {
		t.Fatal(err)
	}
	if err := b.Element("#email").Should(be.Focused); err != nil {
		t.Error(err)
	}
	if err := b.All("table").Should(be.Empty); err != nil {
		t.Error(err)
	}
	if err := b.All("input").Should(be.Not.Empty); err != nil {
		t.Error(err)
	}
	if err := b.All("input").Should(be.Each(be.Enabled)); err != nil {
		t.Error(err)
	}
	if err := b.All("input").Should(be.Each(have.Tag("input"))); err != nil {
		t.Error(err)
	}
}
