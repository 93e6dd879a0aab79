package selene_test

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/have"
)

func TestTranslateSelector(t *testing.T) {
	tests := []struct {
		selector interface{}
		want     selene.By
	}{
		{"#login", selene.ByCSS("#login")},
		{"input[name=q]", selene.ByCSS("input[name=q]")},
		{"//div", selene.ByXPath("//div")},
		{"./span", selene.ByXPath("./span")},
		{"..", selene.ByXPath("..")},
		{"(//li)[2]", selene.ByXPath("(//li)[2]")},
		{"*/p", selene.ByXPath("*/p")},
		{selene.ByID("main"), selene.By{Using: "css selector", Value: `[id="main"]`}},
		{selene.ByName(`a"b`), selene.By{Using: "css selector", Value: `[name="a\"b"]`}},
		{selene.ByTag("li"), selene.By{Using: "css selector", Value: "li"}},
	}
	for _, tc := range tests {
		got, err := selene.TranslateSelector(tc.selector)
		if err != nil {
			t.Errorf("TranslateSelector(%v) returned error: %v", tc.selector, err)
			continue
		}
		if got != tc.want {
			t.Errorf("TranslateSelector(%v) = %v, want %v", tc.selector, got, tc.want)
		}
	}
}

func TestTranslateSelectorErrors(t *testing.T) {
	for _, selector := range []interface{}{"", 42, selene.By{Using: "css selector"}, (*selene.By)(nil)} {
		_, err := selene.TranslateSelector(selector)
		var invalid *selene.InvalidArgumentError
		if !errors.As(err, &invalid) {
			t.Errorf("TranslateSelector(%#v) returned %v, want an *InvalidArgumentError", selector, err)
		}
	}
}

func TestXPathLiteral(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", `"plain"`},
		{`it's`, `"it's"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "x"`, `concat("it's ", '"', "x", '"', "")`},
	}
	for _, tc := range tests {
		if got := selene.XPathLiteral(tc.in); got != tc.want {
			t.Errorf("XPathLiteral(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestByText(t *testing.T) {
	if got, want := selene.ByText("Sign in").String(), `('xpath', './/*[text()[normalize-space(.) = "Sign in"]]')`; got != want {
		t.Errorf("ByText().String() = %s, want %s", got, want)
	}
	b, _ := newBrowser(t, `<ul><li>Sign in</li><li>Sign up</li><li>it's "quoted"</li></ul>`)
	if err := b.Element(selene.ByPartialText("up")).Should(have.ExactText("Sign up")); err != nil {
		t.Error(err)
	}
	if err := b.All(selene.ByText(`it's "quoted"`)).Should(have.Size(1)); err != nil {
		t.Error(err)
	}
}
