package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wanmail/selene"
)

// Flags are regular expression flags applied to text conditions.
type Flags uint8

const (
	// FlagIgnoreCase matches letters regardless of their case.
	FlagIgnoreCase Flags = 1 << iota
	// FlagDotAll lets . match new lines.
	FlagDotAll
	// FlagMultiLine lets ^ and $ match at line boundaries.
	FlagMultiLine
)

func (f Flags) String() string {
	var names []string
	if f&FlagIgnoreCase != 0 {
		names = append(names, "IGNORECASE")
	}
	if f&FlagDotAll != 0 {
		names = append(names, "DOTALL")
	}
	if f&FlagMultiLine != 0 {
		names = append(names, "MULTILINE")
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// prefix renders f as an inline regexp flag group.
func (f Flags) prefix() string {
	var s string
	if f&FlagIgnoreCase != 0 {
		s += "i"
	}
	if f&FlagDotAll != 0 {
		s += "s"
	}
	if f&FlagMultiLine != 0 {
		s += "m"
	}
	if s == "" {
		return ""
	}
	return "(?" + s + ")"
}

type textKind int

const (
	containing textKind = iota
	exact
	matchingPattern
	containingLike
	exactLike
	patternsLike
)

func (k textKind) like() bool { return k >= containingLike }

type textOptions struct {
	ignoreCase   bool
	regex        bool
	wildcards    bool
	zeroOrMore   string
	exactlyOne   string
	flags        Flags
	placeholders *selene.Placeholders
	inverted     bool
}

// TextCondition compares texts read from an entity with expected items.
// Refinements return a new condition and may be applied in any order.
type TextCondition[E selene.Entity] struct {
	name       string
	expected   []string
	kind       textKind
	list       bool
	actualName string
	read       func(E) ([]string, error)
	opts       textOptions
}

func newText[E selene.Entity](name, actualName string, kind textKind, read func(E) ([]string, error), expected ...string) *TextCondition[E] {
	return &TextCondition[E]{
		name:       name,
		expected:   expected,
		kind:       kind,
		actualName: actualName,
		read:       read,
	}
}

func newTexts[E selene.Entity](name, actualName string, kind textKind, read func(E) ([]string, error), expected ...string) *TextCondition[E] {
	t := newText(name, actualName, kind, read, expected...)
	t.list = true
	return t
}

func (t *TextCondition[E]) with(refine func(o *textOptions)) *TextCondition[E] {
	derived := *t
	refine(&derived.opts)
	return &derived
}

// IgnoreCase compares texts regardless of letter case.
func (t *TextCondition[E]) IgnoreCase() *TextCondition[E] {
	return t.with(func(o *textOptions) { o.ignoreCase = true })
}

// WithRegex interprets expected items as regular expressions.
func (t *TextCondition[E]) WithRegex() *TextCondition[E] {
	return t.with(func(o *textOptions) { o.regex = true })
}

// WithWildcards interprets * as any run of characters and ? as any single
// character in expected items.
func (t *TextCondition[E]) WithWildcards() *TextCondition[E] {
	return t.WhereWildcards("*", "?")
}

// WhereWildcards interprets expected items as wildcard patterns using the
// given characters.
func (t *TextCondition[E]) WhereWildcards(zeroOrMore, exactlyOne string) *TextCondition[E] {
	return t.with(func(o *textOptions) {
		o.wildcards = true
		o.zeroOrMore = zeroOrMore
		o.exactlyOne = exactlyOne
	})
}

// WhereFlags sets regular expression flags.
func (t *TextCondition[E]) WhereFlags(flags Flags) *TextCondition[E] {
	return t.with(func(o *textOptions) { o.flags = flags })
}

// Where overrides the placeholders of the *like* conditions.
func (t *TextCondition[E]) Where(p selene.Placeholders) *TextCondition[E] {
	return t.with(func(o *textOptions) { o.placeholders = &p })
}

// Not inverts the condition.
func (t *TextCondition[E]) Not() *TextCondition[E] {
	return t.with(func(o *textOptions) { o.inverted = !o.inverted })
}

// And joins the condition with other.
func (t *TextCondition[E]) And(other selene.Condition[E]) *selene.Match[E] {
	return selene.And[E](t, other)
}

// Or joins the condition with other.
func (t *TextCondition[E]) Or(other selene.Condition[E]) *selene.Match[E] {
	return selene.Or[E](t, other)
}

func (t *TextCondition[E]) String() string {
	var b strings.Builder
	b.WriteString(t.name)
	if t.list || t.kind.like() {
		b.WriteString(" " + quoteList(t.expected))
	} else if len(t.expected) > 0 {
		b.WriteString(" " + quote(t.expected[0]))
	}
	if t.opts.ignoreCase {
		b.WriteString(" ignoring case")
	}
	if t.opts.regex {
		b.WriteString(" with regex")
	}
	if t.opts.wildcards {
		fmt.Fprintf(&b, " with wildcards %s and %s", quote(t.opts.zeroOrMore), quote(t.opts.exactlyOne))
	}
	if t.opts.flags != 0 {
		b.WriteString(" with flags " + t.opts.flags.String())
	}
	if t.opts.inverted {
		return "not (" + b.String() + ")"
	}
	return b.String()
}

// Test implements selene.Condition.
func (t *TextCondition[E]) Test(entity E) error {
	ok, actual, err := t.Evaluate(entity)
	if err != nil {
		return err
	}
	if !ok {
		return &selene.ConditionMismatch{Condition: t.String(), Actual: actual}
	}
	return nil
}

// Evaluate reads the texts of entity and compares them.
func (t *TextCondition[E]) Evaluate(entity E) (bool, string, error) {
	actual, err := t.read(entity)
	if err != nil {
		return false, "", err
	}
	ok, rendered, err := t.compare(entity.Config(), actual)
	if err != nil {
		return false, "", err
	}
	if t.opts.inverted {
		ok = !ok
	}
	return ok, rendered, nil
}

func (t *TextCondition[E]) flags(cfg *selene.Config) Flags {
	flags := t.opts.flags
	if t.opts.ignoreCase || cfg.IgnoreCase {
		flags |= FlagIgnoreCase
	}
	return flags
}

// itemPattern translates one expected item to a regular expression. any is
// the expression a wildcard for any run of characters becomes.
func (t *TextCondition[E]) itemPattern(item, any, one string) string {
	switch {
	case t.kind == matchingPattern || t.kind == patternsLike || t.opts.regex:
		return item
	case t.opts.wildcards:
		return wildcardPattern(item, t.opts.zeroOrMore, t.opts.exactlyOne, any, one)
	}
	return regexp.QuoteMeta(item)
}

func wildcardPattern(item, zeroOrMore, exactlyOne, any, one string) string {
	var b strings.Builder
	for len(item) > 0 {
		switch {
		case zeroOrMore != "" && strings.HasPrefix(item, zeroOrMore):
			b.WriteString(any)
			item = item[len(zeroOrMore):]
		case exactlyOne != "" && strings.HasPrefix(item, exactlyOne):
			b.WriteString(one)
			item = item[len(exactlyOne):]
		default:
			r := []rune(item)[0]
			b.WriteString(regexp.QuoteMeta(string(r)))
			item = item[len(string(r)):]
		}
	}
	return b.String()
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &selene.InvalidArgumentError{Argument: "pattern", Err: err}
	}
	return re, nil
}

// single builds the expression one actual text is compared with.
func (t *TextCondition[E]) single(cfg *selene.Config, item string) (*regexp.Regexp, error) {
	pattern := t.itemPattern(item, ".*?", ".")
	if t.kind == exact {
		pattern = "^(?:" + pattern + ")$"
	}
	return compile(t.flags(cfg).prefix() + pattern)
}

func (t *TextCondition[E]) compare(cfg *selene.Config, actual []string) (bool, string, error) {
	if t.kind.like() {
		return t.compareLike(cfg, actual)
	}
	if !t.list {
		text := ""
		if len(actual) > 0 {
			text = actual[0]
		}
		re, err := t.single(cfg, t.expected[0])
		if err != nil {
			return false, "", err
		}
		return re.MatchString(text), "actual " + t.actualName + ": " + quote(text), nil
	}

	rendered := "actual " + t.actualName + ": " + quoteList(actual)
	if len(actual) != len(t.expected) {
		return false, rendered, nil
	}
	for i, item := range t.expected {
		re, err := t.single(cfg, item)
		if err != nil {
			return false, "", err
		}
		if !re.MatchString(actual[i]) {
			return false, rendered, nil
		}
	}
	return true, rendered, nil
}
