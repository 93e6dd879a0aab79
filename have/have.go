// Package have names value conditions so that assertions read as sentences:
//
//	browser.Element("h1").Should(have.ExactText("Welcome"))
//	browser.All("li").Should(have.No.Size(0))
package have

import (
	"github.com/wanmail/selene"
	"github.com/wanmail/selene/match"
)

type (
	elementText    = *match.TextCondition[*selene.Element]
	collectionText = *match.TextCondition[*selene.Collection]
	browserText    = *match.TextCondition[*selene.Browser]
)

// Text matches elements whose text contains part.
func Text(part string) elementText { return match.Text(part) }

// ExactText matches elements whose text equals value.
func ExactText(value string) elementText { return match.ExactText(value) }

// TextMatching matches elements whose text matches the regular expression
// pattern.
func TextMatching(pattern string) elementText { return match.TextMatching(pattern) }

// Texts matches collections whose texts contain parts, one part per element.
func Texts(parts ...string) collectionText { return match.Texts(parts...) }

// ExactTexts matches collections whose texts equal values.
func ExactTexts(values ...string) collectionText { return match.ExactTexts(values...) }

// TextPatterns matches collections whose texts match patterns, one per element.
func TextPatterns(patterns ...string) collectionText { return match.TextPatterns(patterns...) }

// TextsLike matches collections whose texts contain items. Placeholder items
// stand for runs of elements.
func TextsLike(items ...string) collectionText { return match.TextsLike(items...) }

// ExactTextsLike is TextsLike with exact comparison.
func ExactTextsLike(items ...string) collectionText { return match.ExactTextsLike(items...) }

// TextPatternsLike is TextsLike with regular expression items.
func TextPatternsLike(items ...string) collectionText { return match.TextPatternsLike(items...) }

// Value matches inputs whose current value equals value.
func Value(value string) elementText { return match.Value(value) }

// ValueContaining matches inputs whose current value contains part.
func ValueContaining(part string) elementText { return match.ValueContaining(part) }

// Values matches collections of inputs whose current values equal values.
func Values(values ...string) collectionText { return match.Values(values...) }

// ValuesContaining matches collections of inputs whose current values contain parts.
func ValuesContaining(parts ...string) collectionText { return match.ValuesContaining(parts...) }

// Attribute matches elements having the attribute name.
func Attribute(name string) *match.PropertyCondition { return match.Attribute(name) }

// JSProperty matches elements whose JavaScript property name is set.
func JSProperty(name string) *match.PropertyCondition { return match.JSProperty(name) }

// CSSProperty matches elements whose computed style property name is set.
func CSSProperty(name string) *match.PropertyCondition { return match.CSSProperty(name) }

// CSSClass matches elements having the class name.
func CSSClass(name string) *match.ClassCondition { return match.CSSClass(name) }

// Tag matches elements with the tag name.
func Tag(name string) match.ElementCondition { return match.Tag(name) }

// TagContaining matches elements whose tag name contains part.
func TagContaining(part string) match.ElementCondition { return match.TagContaining(part) }

// Size matches collections of exactly n elements.
func Size(n int) *match.CountCondition[*selene.Collection] { return match.Size(n) }

// SizeGreaterThan matches collections of more than n elements.
func SizeGreaterThan(n int) match.CollectionCondition { return match.SizeGreaterThan(n) }

// SizeLessThan matches collections of fewer than n elements.
func SizeLessThan(n int) match.CollectionCondition { return match.SizeLessThan(n) }

// SizeGreaterThanOrEqual matches collections of at least n elements.
func SizeGreaterThanOrEqual(n int) match.CollectionCondition { return match.SizeGreaterThanOrEqual(n) }

// SizeLessThanOrEqual matches collections of at most n elements.
func SizeLessThanOrEqual(n int) match.CollectionCondition { return match.SizeLessThanOrEqual(n) }

// URL matches the current URL.
func URL(value string) browserText { return match.URL(value) }

// URLContaining matches URLs containing part.
func URLContaining(part string) browserText { return match.URLContaining(part) }

// Title matches the page title.
func Title(value string) browserText { return match.Title(value) }

// TitleContaining matches titles containing part.
func TitleContaining(part string) browserText { return match.TitleContaining(part) }

// TabsNumber matches browsers with exactly n tabs.
func TabsNumber(n int) *match.CountCondition[*selene.Browser] { return match.TabsNumber(n) }

// TabsNumberGreaterThan matches browsers with more than n tabs.
func TabsNumberGreaterThan(n int) match.BrowserCondition { return match.TabsNumberGreaterThan(n) }

// TabsNumberLessThan matches browsers with fewer than n tabs.
func TabsNumberLessThan(n int) match.BrowserCondition { return match.TabsNumberLessThan(n) }

// JSReturned matches browsers where script returns expected.
func JSReturned(expected interface{}, script string, args ...interface{}) match.BrowserCondition {
	return match.JSReturned(expected, script, args...)
}

// No builds the inverted conditions: have.No.Text("error").
var No no

type no struct{}

// Text negates have.Text.
func (no) Text(part string) elementText { return match.Text(part).Not() }

// ExactText negates have.ExactText.
func (no) ExactText(value string) elementText { return match.ExactText(value).Not() }

// TextMatching negates have.TextMatching.
func (no) TextMatching(pattern string) elementText { return match.TextMatching(pattern).Not() }

// Texts negates have.Texts.
func (no) Texts(parts ...string) collectionText { return match.Texts(parts...).Not() }

// ExactTexts negates have.ExactTexts.
func (no) ExactTexts(values ...string) collectionText { return match.ExactTexts(values...).Not() }

// TextPatterns negates have.TextPatterns.
func (no) TextPatterns(patterns ...string) collectionText { return match.TextPatterns(patterns...).Not() }

// TextsLike negates have.TextsLike.
func (no) TextsLike(items ...string) collectionText { return match.TextsLike(items...).Not() }

// ExactTextsLike negates have.ExactTextsLike.
func (no) ExactTextsLike(items ...string) collectionText { return match.ExactTextsLike(items...).Not() }

// TextPatternsLike negates have.TextPatternsLike.
func (no) TextPatternsLike(items ...string) collectionText { return match.TextPatternsLike(items...).Not() }

// Value negates have.Value.
func (no) Value(value string) elementText { return match.Value(value).Not() }

// ValueContaining negates have.ValueContaining.
func (no) ValueContaining(part string) elementText { return match.ValueContaining(part).Not() }

// Values negates have.Values.
func (no) Values(values ...string) collectionText { return match.Values(values...).Not() }

// ValuesContaining negates have.ValuesContaining.
func (no) ValuesContaining(parts ...string) collectionText { return match.ValuesContaining(parts...).Not() }

// Attribute negates have.Attribute.
func (no) Attribute(name string) match.ElementCondition { return match.Attribute(name).Not() }

// JSProperty negates have.JSProperty.
func (no) JSProperty(name string) match.ElementCondition { return match.JSProperty(name).Not() }

// CSSProperty negates have.CSSProperty.
func (no) CSSProperty(name string) match.ElementCondition { return match.CSSProperty(name).Not() }

// CSSClass negates have.CSSClass.
func (no) CSSClass(name string) match.ElementCondition { return match.CSSClass(name).Not() }

// Tag negates have.Tag.
func (no) Tag(name string) match.ElementCondition { return match.Tag(name).Not() }

// TagContaining negates have.TagContaining.
func (no) TagContaining(part string) match.ElementCondition {
	return match.TagContaining(part).Not()
}

// Size negates have.Size.
func (no) Size(n int) match.CollectionCondition { return match.Size(n).Not() }

// URL negates have.URL.
func (no) URL(value string) browserText { return match.URL(value).Not() }

// URLContaining negates have.URLContaining.
func (no) URLContaining(part string) browserText { return match.URLContaining(part).Not() }

// Title negates have.Title.
func (no) Title(value string) browserText { return match.Title(value).Not() }

// TitleContaining negates have.TitleContaining.
func (no) TitleContaining(part string) browserText {
	return match.TitleContaining(part).Not()
}

// TabsNumber negates have.TabsNumber.
func (no) TabsNumber(n int) match.BrowserCondition { return match.TabsNumber(n).Not() }
