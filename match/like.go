package match

import (
	"regexp"
	"strings"

	"github.com/wanmail/selene"
)

const (
	// separator joins texts into the string matched by *like* conditions. It
	// is a low single comma quotation mark, rare in real texts.
	separator = "‚"
	// emptyMarker stands for an empty text.
	emptyMarker = "‹EMPTY_STRING›"
)

var (
	oneItem         = "[^" + separator + "]+" + separator
	zeroOrOneItem   = "(?:" + oneItem + ")?"
	oneOrMoreItems  = "(?:" + oneItem + ")+"
	zeroOrMoreItems = "(?:" + oneItem + ")*"
)

func (t *TextCondition[E]) placeholders(cfg *selene.Config) selene.Placeholders {
	if t.opts.placeholders != nil {
		return *t.opts.placeholders
	}
	return cfg.PlaceholdersOrDefault()
}

// likePattern joins the expected items into one expression over texts joined
// by separator.
func (t *TextCondition[E]) likePattern(cfg *selene.Config) string {
	p := t.placeholders(cfg)
	anyInItem := "[^" + separator + "]*?"
	oneInItem := "[^" + separator + "]"

	var b strings.Builder
	b.WriteString("^")
	for _, item := range t.expected {
		switch item {
		case p.ExactlyOne:
			b.WriteString(oneItem)
			continue
		case p.ZeroOrOne:
			b.WriteString(zeroOrOneItem)
			continue
		case p.OneOrMore:
			b.WriteString(oneOrMoreItems)
			continue
		case p.ZeroOrMore:
			b.WriteString(zeroOrMoreItems)
			continue
		}
		switch {
		case item == "" && t.kind != containingLike:
			b.WriteString(regexp.QuoteMeta(emptyMarker))
		case t.kind == containingLike:
			b.WriteString(anyInItem + "(?:" + t.itemPattern(item, anyInItem, oneInItem) + ")" + anyInItem)
		default:
			b.WriteString("(?:" + t.itemPattern(item, anyInItem, oneInItem) + ")")
		}
		b.WriteString(separator)
	}
	b.WriteString("$")
	return t.flags(cfg).prefix() + b.String()
}

func joinLike(texts []string) string {
	var b strings.Builder
	for _, text := range texts {
		if text == "" {
			text = emptyMarker
		}
		b.WriteString(text)
		b.WriteString(separator)
	}
	return b.String()
}

func (t *TextCondition[E]) compareLike(cfg *selene.Config, actual []string) (bool, string, error) {
	pattern := t.likePattern(cfg)
	joined := joinLike(actual)
	rendered := "actual " + t.actualName + ": " + quoteList(actual) +
		"\nPattern used for matching:\n\t" + pattern +
		"\nActual text used to match:\n\t" + joined
	re, err := compile(pattern)
	if err != nil {
		return false, "", err
	}
	return re.MatchString(joined), rendered, nil
}
