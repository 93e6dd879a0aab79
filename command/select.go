package command

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"

	"github.com/wanmail/selene"
)

// dropdown wraps a <select> WebElement.
type dropdown struct {
	element selenium.WebElement
	multi   bool
}

func newDropdown(we selenium.WebElement) (*dropdown, error) {
	tag, err := we.TagName()
	if err != nil {
		return nil, err
	}
	if strings.ToLower(tag) != "select" {
		return nil, errors.Errorf(`element should have been "select" but was %q`, tag)
	}
	multiple, err := we.GetAttribute("multiple")
	return &dropdown{
		element: we,
		multi:   err == nil && strings.ToLower(multiple) != "false",
	}, nil
}

func (d *dropdown) options() ([]selenium.WebElement, error) {
	return d.element.FindElements(selenium.ByXPATH, ".//option")
}

func (d *dropdown) setSelected(option selenium.WebElement, selected bool) error {
	actual, err := option.IsSelected()
	if err != nil {
		return err
	}
	if actual != selected {
		return option.Click()
	}
	return nil
}

// selectAll selects options, only the first one unless the select is
// multiple.
func (d *dropdown) selectAll(options []selenium.WebElement) error {
	for _, option := range options {
		if err := d.setSelected(option, true); err != nil {
			return err
		}
		if !d.multi {
			return nil
		}
	}
	return nil
}

func (d *dropdown) byVisibleText(text string) error {
	options, err := d.element.FindElements(selenium.ByXPATH, ".//option[normalize-space(.) = "+selene.XPathLiteral(text)+"]")
	if err != nil {
		return err
	}
	if len(options) > 0 {
		return d.selectAll(options)
	}
	// Options whose text differs only in surrounding spaces.
	candidates, err := d.options()
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(text)
	for _, option := range candidates {
		o, err := option.Text()
		if err != nil {
			return err
		}
		if strings.TrimSpace(o) == trimmed {
			options = append(options, option)
		}
	}
	if len(options) == 0 {
		return errors.Errorf("cannot locate option with text: %s", text)
	}
	return d.selectAll(options)
}

func (d *dropdown) byValue(value string) error {
	options, err := d.element.FindElements(selenium.ByXPATH, ".//option[@value = "+selene.XPathLiteral(value)+"]")
	if err != nil {
		return err
	}
	if len(options) == 0 {
		return errors.Errorf("cannot locate option with value: %s", value)
	}
	return d.selectAll(options)
}

// byIndex selects the option at index among all options of the select.
func (d *dropdown) byIndex(index int) error {
	options, err := d.options()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(options) {
		return errors.Errorf("cannot locate option with index: %d", index)
	}
	return d.setSelected(options[index], true)
}

func (d *dropdown) deselectAll() error {
	if !d.multi {
		return errors.New("you may only deselect all options of a multi-select")
	}
	options, err := d.options()
	if err != nil {
		return err
	}
	for _, option := range options {
		if err := d.setSelected(option, false); err != nil {
			return err
		}
	}
	return nil
}

func dropdownCommand(description string, fn func(d *dropdown) error) selene.Command[*selene.Element] {
	return selene.NewCommand(description, func(e *selene.Element) error {
		we, err := e.Actionable()
		if err != nil {
			return err
		}
		d, err := newDropdown(we)
		if err != nil {
			return err
		}
		return fn(d)
	})
}

// SelectByVisibleText selects the options of a <select> displaying text.
func SelectByVisibleText(text string) selene.Command[*selene.Element] {
	return dropdownCommand("select by visible text: "+text, func(d *dropdown) error { return d.byVisibleText(text) })
}

// SelectByValue selects the options of a <select> with the value attribute.
func SelectByValue(value string) selene.Command[*selene.Element] {
	return dropdownCommand("select by value: "+value, func(d *dropdown) error { return d.byValue(value) })
}

// SelectByIndex selects the option of a <select> at index.
func SelectByIndex(index int) selene.Command[*selene.Element] {
	return dropdownCommand("select by index: "+strconv.Itoa(index), func(d *dropdown) error { return d.byIndex(index) })
}

// DeselectAll clears the selection of a multiple <select>.
var DeselectAll = dropdownCommand("deselect all", (*dropdown).deselectAll)
