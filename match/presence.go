package match

import (
	"github.com/wanmail/selene"
	"github.com/wanmail/selene/internal/js"
)

// PresentInDOM matches elements found in the DOM, visible or not.
var PresentInDOM = selene.NewMatch("is present in DOM", func(e *selene.Element) (bool, string, error) {
	_, present, err := locate(e)
	if err != nil {
		return false, "", err
	}
	if !present {
		return false, "actual: absent in DOM", nil
	}
	return true, "actual: present in DOM", nil
})

// AbsentInDOM matches elements not found in the DOM.
var AbsentInDOM = PresentInDOM.Not().As("is absent in DOM")

func visibility(e *selene.Element) (present, displayed bool, actual string, err error) {
	we, present, err := locate(e)
	if err != nil || !present {
		return false, false, "actual: absent in DOM", err
	}
	displayed, err = we.IsDisplayed()
	if err != nil {
		return true, false, "", err
	}
	if displayed {
		return true, true, "actual: visible element " + outerHTML(e, we), nil
	}
	return true, false, "actual: hidden element " + outerHTML(e, we), nil
}

// Visible matches elements present in the DOM and displayed.
var Visible = selene.NewMatch("is visible", func(e *selene.Element) (bool, string, error) {
	_, displayed, actual, err := visibility(e)
	return displayed, actual, err
})

// Hidden matches elements that are not displayed, absent ones included.
var Hidden = Visible.Not().As("is hidden")

// HiddenInDOM matches elements present in the DOM but not displayed.
var HiddenInDOM = selene.NewMatch("is hidden in DOM", func(e *selene.Element) (bool, string, error) {
	present, displayed, actual, err := visibility(e)
	return present && !displayed, actual, err
})

// Enabled matches enabled elements.
var Enabled = selene.NewMatch("is enabled", func(e *selene.Element) (bool, string, error) {
	we, err := e.Locate()
	if err != nil {
		return false, "", err
	}
	enabled, err := we.IsEnabled()
	if err != nil {
		return false, "", err
	}
	if enabled {
		return true, "actual: enabled element", nil
	}
	return false, "actual: disabled element " + outerHTML(e, we), nil
})

// Disabled matches disabled elements.
var Disabled = Enabled.Not().As("is disabled")

// Clickable matches visible and enabled elements.
var Clickable = Visible.And(Enabled).As("is clickable")

// Selected matches selected options, checkboxes and radio buttons.
var Selected = selene.NewMatch("is selected", func(e *selene.Element) (bool, string, error) {
	we, err := e.Locate()
	if err != nil {
		return false, "", err
	}
	selected, err := we.IsSelected()
	if err != nil {
		return false, "", err
	}
	if selected {
		return true, "actual: selected element", nil
	}
	return false, "actual: not selected element", nil
})

// Focused matches the element having focus.
var Focused = selene.NewMatch("is focused", func(e *selene.Element) (bool, string, error) {
	we, err := e.Locate()
	if err != nil {
		return false, "", err
	}
	result, err := e.ExecuteOn(we, `return document.activeElement === arguments[0];`)
	if err != nil {
		return false, "", err
	}
	if focused, _ := result.(bool); focused {
		return true, "actual: focused element", nil
	}
	return false, "actual: not focused element", nil
})

// Blank matches elements without text, and inputs without value.
var Blank = selene.NewMatch("is blank", func(e *selene.Element) (bool, string, error) {
	we, err := e.Locate()
	if err != nil {
		return false, "", err
	}
	tag, err := we.TagName()
	if err != nil {
		return false, "", err
	}
	switch tag {
	case "input", "textarea":
		value, _, err := executeString(e, we, js.Value)
		if err != nil {
			return false, "", err
		}
		return value == "", "actual value: " + quote(value), nil
	}
	text, err := we.Text()
	if err != nil {
		return false, "", err
	}
	return text == "", "actual text: " + quote(text), nil
})
