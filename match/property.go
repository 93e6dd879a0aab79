package match

import (
	"strings"

	"github.com/tebeka/selenium"

	"github.com/wanmail/selene"
	"github.com/wanmail/selene/internal/js"
)

// reader reads a named value of a WebElement and reports whether it is set.
type reader func(e *selene.Element, we selenium.WebElement, name string) (string, bool, error)

func readAttribute(e *selene.Element, we selenium.WebElement, name string) (string, bool, error) {
	return executeString(e, we, js.Attribute, name)
}

func readJSProperty(e *selene.Element, we selenium.WebElement, name string) (string, bool, error) {
	return executeString(e, we, js.Property, name)
}

func readCSSProperty(_ *selene.Element, we selenium.WebElement, name string) (string, bool, error) {
	value, err := we.CSSProperty(name)
	if err != nil {
		return "", false, err
	}
	return value, value != "", nil
}

// PropertyCondition matches elements having an attribute or a property, and
// builds conditions on its value.
type PropertyCondition struct {
	*selene.Match[*selene.Element]
	kind string
	name string
	read reader
}

func newProperty(kind, name string, read reader) *PropertyCondition {
	description := "has " + kind + " " + quote(name)
	return &PropertyCondition{
		Match: selene.NewMatch(description, func(e *selene.Element) (bool, string, error) {
			we, err := e.Locate()
			if err != nil {
				return false, "", err
			}
			value, ok, err := read(e, we, name)
			if err != nil {
				return false, "", err
			}
			if !ok {
				return false, "actual: no " + kind + " " + quote(name), nil
			}
			return true, "actual " + kind + " " + quote(name) + ": " + quote(value), nil
		}),
		kind: kind,
		name: name,
		read: read,
	}
}

// Attribute matches elements having the attribute name.
func Attribute(name string) *PropertyCondition { return newProperty("attribute", name, readAttribute) }

// JSProperty matches elements whose JavaScript property name is set.
func JSProperty(name string) *PropertyCondition { return newProperty("js property", name, readJSProperty) }

// CSSProperty matches elements whose computed style property name is set.
func CSSProperty(name string) *PropertyCondition { return newProperty("css property", name, readCSSProperty) }

func (p *PropertyCondition) readOne(e *selene.Element) ([]string, error) {
	we, err := e.Locate()
	if err != nil {
		return nil, err
	}
	value, _, err := p.read(e, we, p.name)
	if err != nil {
		return nil, err
	}
	return []string{value}, nil
}

func (p *PropertyCondition) readAll(c *selene.Collection) ([]string, error) {
	elements, err := c.Elements()
	if err != nil {
		return nil, err
	}
	values := make([]string, len(elements))
	for i, e := range elements {
		v, err := p.readOne(e)
		if err != nil {
			return nil, err
		}
		values[i] = v[0]
	}
	return values, nil
}

func (p *PropertyCondition) prefix() string {
	return "has " + p.kind + " " + quote(p.name) + " with "
}

// Value matches elements whose value of the property equals value.
func (p *PropertyCondition) Value(value string) *TextCondition[*selene.Element] {
	return newText(p.prefix()+"value", p.kind+" "+quote(p.name), exact, p.readOne, value)
}

// ValueContaining matches elements whose value of the property contains part.
func (p *PropertyCondition) ValueContaining(part string) *TextCondition[*selene.Element] {
	return newText(p.prefix()+"value containing", p.kind+" "+quote(p.name), containing, p.readOne, part)
}

// Values matches collections whose values of the property equal values.
func (p *PropertyCondition) Values(values ...string) *TextCondition[*selene.Collection] {
	return newTexts(p.prefix()+"values", p.kind+" "+quote(p.name)+" values", exact, p.readAll, values...)
}

// ValuesContaining matches collections whose values of the property contain
// parts.
func (p *PropertyCondition) ValuesContaining(parts ...string) *TextCondition[*selene.Collection] {
	return newTexts(p.prefix()+"values containing", p.kind+" "+quote(p.name)+" values", containing, p.readAll, parts...)
}

var valueProperty = JSProperty("value")

// Value matches inputs whose current value equals value.
func Value(value string) *TextCondition[*selene.Element] {
	return newText("has value", "value", exact, valueProperty.readOne, value)
}

// ValueContaining matches inputs whose current value contains part.
func ValueContaining(part string) *TextCondition[*selene.Element] {
	return newText("has value containing", "value", containing, valueProperty.readOne, part)
}

// Values matches collections of inputs whose current values equal values.
func Values(values ...string) *TextCondition[*selene.Collection] {
	return newTexts("has values", "values", exact, valueProperty.readAll, values...)
}

// ValuesContaining matches collections of inputs whose current values
// contain parts.
func ValuesContaining(parts ...string) *TextCondition[*selene.Collection] {
	return newTexts("has values containing", "values", containing, valueProperty.readAll, parts...)
}

// ClassCondition matches elements having a CSS class.
type ClassCondition struct {
	*selene.Match[*selene.Element]
	name string
}

func cssClass(name string, ignoreCase bool) *selene.Match[*selene.Element] {
	description := "has css class " + quote(name)
	if ignoreCase {
		description += " ignoring case"
	}
	return selene.NewMatch(description, func(e *selene.Element) (bool, string, error) {
		we, err := e.Locate()
		if err != nil {
			return false, "", err
		}
		class, _, err := readAttribute(e, we, "class")
		if err != nil {
			return false, "", err
		}
		for _, c := range strings.Fields(class) {
			if c == name || ignoreCase && strings.EqualFold(c, name) {
				return true, "actual class attribute: " + quote(class), nil
			}
		}
		return false, "actual class attribute: " + quote(class), nil
	})
}

// CSSClass matches elements having the class name.
func CSSClass(name string) *ClassCondition {
	return &ClassCondition{Match: cssClass(name, false), name: name}
}

// IgnoreCase compares class names regardless of letter case.
func (c *ClassCondition) IgnoreCase() *selene.Match[*selene.Element] {
	return cssClass(c.name, true)
}

func tag(description string, ok func(actual string) bool) *selene.Match[*selene.Element] {
	return selene.NewMatch(description, func(e *selene.Element) (bool, string, error) {
		we, err := e.Locate()
		if err != nil {
			return false, "", err
		}
		name, err := we.TagName()
		if err != nil {
			return false, "", err
		}
		return ok(name), "actual tag: " + quote(name), nil
	})
}

// Tag matches elements with the tag name.
func Tag(name string) *selene.Match[*selene.Element] {
	return tag("has tag "+quote(name), func(actual string) bool { return strings.EqualFold(actual, name) })
}

// TagContaining matches elements whose tag name contains part.
func TagContaining(part string) *selene.Match[*selene.Element] {
	return tag("has tag containing "+quote(part), func(actual string) bool {
		return strings.Contains(strings.ToLower(actual), strings.ToLower(part))
	})
}
