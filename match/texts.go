package match

import (
	"github.com/wanmail/selene"
)

func elementText(e *selene.Element) ([]string, error) {
	we, err := e.Locate()
	if err != nil {
		return nil, err
	}
	text, err := we.Text()
	if err != nil {
		return nil, err
	}
	return []string{text}, nil
}

// collectionTexts reads the texts of a collection, skipping hidden elements
// when MatchOnlyVisibleElementsTexts is set.
func collectionTexts(c *selene.Collection) ([]string, error) {
	webelements, err := c.Locate()
	if err != nil {
		return nil, err
	}
	visibleOnly := c.Config().MatchOnlyVisibleElementsTexts
	texts := make([]string, 0, len(webelements))
	for _, we := range webelements {
		if visibleOnly {
			displayed, err := we.IsDisplayed()
			if err != nil {
				return nil, err
			}
			if !displayed {
				continue
			}
		}
		text, err := we.Text()
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// Text matches elements whose text contains part.
func Text(part string) *TextCondition[*selene.Element] {
	return newText("has text", "text", containing, elementText, part)
}

// ExactText matches elements whose text equals value.
func ExactText(value string) *TextCondition[*selene.Element] {
	return newText("has exact text", "text", exact, elementText, value)
}

// TextMatching matches elements whose text contains a match of the regular
// expression pattern.
func TextMatching(pattern string) *TextCondition[*selene.Element] {
	return newText("has text matching", "text", matchingPattern, elementText, pattern)
}

// Texts matches collections with as many texts as parts, each containing the
// part with the same index.
func Texts(parts ...string) *TextCondition[*selene.Collection] {
	return newTexts("has texts", "texts", containing, collectionTexts, parts...)
}

// ExactTexts matches collections whose texts equal values.
func ExactTexts(values ...string) *TextCondition[*selene.Collection] {
	return newTexts("has exact texts", "texts", exact, collectionTexts, values...)
}

// TextPatterns matches collections whose texts match the regular expressions
// with the same index.
func TextPatterns(patterns ...string) *TextCondition[*selene.Collection] {
	return newTexts("has text patterns", "texts", matchingPattern, collectionTexts, patterns...)
}

// TextsLike matches collections whose texts contain the given parts, where
// placeholder items stand for any number of texts.
func TextsLike(items ...string) *TextCondition[*selene.Collection] {
	return newTexts("has texts like", "texts", containingLike, collectionTexts, items...)
}

// ExactTextsLike matches collections whose texts equal the given values,
// where placeholder items stand for any number of texts.
func ExactTextsLike(items ...string) *TextCondition[*selene.Collection] {
	return newTexts("has exact texts like", "texts", exactLike, collectionTexts, items...)
}

// TextPatternsLike matches collections whose texts match the given regular
// expressions, where placeholder items stand for any number of texts.
func TextPatternsLike(items ...string) *TextCondition[*selene.Collection] {
	return newTexts("has text patterns like", "texts", patternsLike, collectionTexts, items...)
}
