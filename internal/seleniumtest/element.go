package seleniumtest

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
	"golang.org/x/net/html"
)

// element is a selenium.WebElement bound to a node of a fake driver.
type element struct {
	selenium.WebElement

	d    *Driver
	id   string
	node *html.Node
}

var _ selenium.WebElement = (*element)(nil)

// MarshalJSON encodes the element as a WebDriver element reference.
func (e *element) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{legacyElementKey: e.id, webElementKey: e.id})
}

// check fails unless the node is attached to the document of the current
// browsing context.
func (e *element) check() error {
	doc, err := e.d.context()
	if err != nil {
		return err
	}
	if documentOf(e.node) != doc {
		return errors.New("stale element reference: element is not attached to the page document")
	}
	return nil
}

func (e *element) begin(method string) error {
	if err := e.d.begin("Element." + method); err != nil {
		return err
	}
	return e.check()
}

func (e *element) end() { e.d.end() }

func (e *element) interactable() error {
	if !displayed(e.node) {
		return errors.New("element not interactable")
	}
	return nil
}

func (e *element) Click() error {
	defer e.end()
	if err := e.begin("Click"); err != nil {
		return err
	}
	if err := e.interactable(); err != nil {
		return err
	}
	n := e.node
	if cover := e.d.coverOf(n); cover != nil {
		left, top, width, height := rect(n)
		return errors.Errorf("element click intercepted: Element %s is not clickable at point (%d, %d). Other element would receive the click: %s",
			render(n), left+width/2, top+height/2, render(cover))
	}
	e.d.focus = n
	e.d.dispatch(n, "mousedown", true, nil)
	e.d.dispatch(n, "mouseup", true, nil)
	e.d.activate(n)
	e.d.dispatch(n, "click", true, nil)
	return nil
}

func (e *element) MoveTo(x, y int) error {
	defer e.end()
	if err := e.begin("MoveTo"); err != nil {
		return err
	}
	e.d.mouse, e.d.mouseX = e.node, x
	e.d.dispatch(e.node, "mousemove", true, nil)
	return nil
}

func editable(n *html.Node) bool {
	if is(n, "textarea") {
		return true
	}
	if !is(n, "input") {
		return false
	}
	t, _ := attr(n, "type")
	switch strings.ToLower(t) {
	case "checkbox", "radio", "button", "submit", "reset", "image", "hidden", "file":
		return false
	}
	return true
}

func (e *element) Clear() error {
	defer e.end()
	if err := e.begin("Clear"); err != nil {
		return err
	}
	n := e.node
	if !editable(n) || hasAttr(n, "disabled") || hasAttr(n, "readonly") {
		return errors.New("invalid element state: Element must be user-editable in order to clear it.")
	}
	e.d.setValue(n, "")
	e.d.dispatch(n, "change", true, nil)
	return nil
}

func isFileInput(n *html.Node) bool {
	t, _ := attr(n, "type")
	return is(n, "input") && strings.EqualFold(t, "file")
}

var modifierKeys = map[rune]bool{
	[]rune(selenium.ShiftKey)[0]:   true,
	[]rune(selenium.ControlKey)[0]: true,
	[]rune(selenium.AltKey)[0]:     true,
	[]rune(selenium.MetaKey)[0]:    true,
}

func special(r rune) bool { return r >= 0xE000 && r <= 0xF8FF }

func (e *element) SendKeys(keys string) error {
	defer e.end()
	if err := e.begin("SendKeys"); err != nil {
		return err
	}
	n, d := e.node, e.d
	if isFileInput(n) {
		d.stateOf(n).files = append(d.stateOf(n).files, strings.Split(keys, "\n")...)
		d.dispatch(n, "change", true, nil)
		return nil
	}
	if err := e.interactable(); err != nil {
		return err
	}
	d.focus = n
	if !editable(n) {
		d.dispatch(n, "keydown", true, nil)
		return nil
	}
	if hasAttr(n, "disabled") || hasAttr(n, "readonly") {
		return errors.New("invalid element state: element is not editable")
	}
	state := d.stateOf(n)
	held := map[rune]bool{}
	for name := range d.modifiers {
		held[[]rune(name)[0]] = true
	}
	shortcut := func() bool {
		return held[[]rune(selenium.ControlKey)[0]] || held[[]rune(selenium.MetaKey)[0]]
	}
	changed := false
	for _, r := range keys {
		value := d.value(n)
		switch {
		case modifierKeys[r]:
			held[r] = !held[r]
		case string(r) == selenium.NullKey:
			held = map[rune]bool{}
		case shortcut() && (r == 'a' || r == 'A'):
			state.selectAll = true
		case shortcut() && (r == 'c' || r == 'C'):
			if state.selectAll {
				d.clipboard = value
			}
		case shortcut() && (r == 'x' || r == 'X'):
			if state.selectAll {
				d.clipboard = value
				d.setValue(n, "")
				state.selectAll, changed = false, true
			}
		case shortcut() && (r == 'v' || r == 'V'):
			d.insert(n, d.clipboard)
			changed = true
		case string(r) == selenium.BackspaceKey || string(r) == selenium.DeleteKey:
			if state.selectAll {
				d.setValue(n, "")
				state.selectAll = false
			} else if value != "" {
				_, size := utf8.DecodeLastRuneInString(value)
				d.setValue(n, value[:len(value)-size])
			}
			changed = true
		case string(r) == selenium.EnterKey || string(r) == selenium.ReturnKey:
			if is(n, "textarea") {
				d.insert(n, "\n")
				changed = true
				continue
			}
			d.dispatch(n, "keydown", true, nil)
		case string(r) == selenium.SpaceKey:
			d.insert(n, " ")
			changed = true
		case special(r):
			d.dispatch(n, "keydown", true, nil)
		default:
			d.insert(n, string(r))
			changed = true
		}
	}
	if changed {
		d.dispatch(n, "input", true, nil)
	}
	return nil
}

// insert types text at the end of the value of n, replacing it when all of it
// is selected, within the limit of the maxlength attribute.
func (d *Driver) insert(n *html.Node, text string) {
	state := d.stateOf(n)
	value := d.value(n)
	if state.selectAll {
		value, state.selectAll = "", false
	}
	value += text
	if max, ok := maxLength(n); ok && utf8.RuneCountInString(value) > max {
		value = string([]rune(value)[:max])
	}
	d.setValue(n, value)
}

func maxLength(n *html.Node) (int, bool) {
	raw, ok := attr(n, "maxlength")
	if !ok {
		return 0, false
	}
	max := 0
	for _, r := range strings.TrimSpace(raw) {
		if r < '0' || r > '9' {
			return 0, false
		}
		max = max*10 + int(r-'0')
	}
	return max, true
}

func (e *element) Submit() error {
	defer e.end()
	if err := e.begin("Submit"); err != nil {
		return err
	}
	for p := e.node; p != nil; p = p.Parent {
		if is(p, "form") {
			e.d.dispatch(p, "submit", true, nil)
			return nil
		}
	}
	return errors.New("no such element: element is not in a form")
}

func (e *element) FindElement(by, value string) (selenium.WebElement, error) {
	found, err := e.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, noSuchElement(by, value)
	}
	return found[0], nil
}

func (e *element) FindElements(by, value string) ([]selenium.WebElement, error) {
	defer e.end()
	if err := e.begin("FindElements"); err != nil {
		return nil, err
	}
	nodes, err := find(e.node, by, value)
	if err != nil {
		return nil, err
	}
	return e.d.elements(nodes), nil
}

func (e *element) TagName() (string, error) {
	defer e.end()
	if err := e.begin("TagName"); err != nil {
		return "", err
	}
	return e.node.Data, nil
}

func (e *element) Text() (string, error) {
	defer e.end()
	if err := e.begin("Text"); err != nil {
		return "", err
	}
	return visibleText(e.node), nil
}

func (e *element) IsSelected() (bool, error) {
	defer e.end()
	if err := e.begin("IsSelected"); err != nil {
		return false, err
	}
	if is(e.node, "option") {
		return e.d.selected(e.node), nil
	}
	return e.d.checked(e.node), nil
}

func (e *element) IsEnabled() (bool, error) {
	defer e.end()
	if err := e.begin("IsEnabled"); err != nil {
		return false, err
	}
	for p := e.node; isElement(p); p = p.Parent {
		if is(p, "input", "button", "select", "textarea", "option", "optgroup", "fieldset") && hasAttr(p, "disabled") {
			return false, nil
		}
	}
	return true, nil
}

func (e *element) IsDisplayed() (bool, error) {
	defer e.end()
	if err := e.begin("IsDisplayed"); err != nil {
		return false, err
	}
	return displayed(e.node), nil
}

var booleanAttributes = map[string]bool{
	"checked": true, "selected": true, "disabled": true, "multiple": true, "readonly": true,
	"hidden": true, "required": true, "autofocus": true,
}

// GetAttribute follows the WebDriver get attribute atom: value and boolean
// attributes reflect the live state. A missing attribute is an error, the way
// the remote client reports a null value.
func (e *element) GetAttribute(name string) (string, error) {
	defer e.end()
	if err := e.begin("GetAttribute"); err != nil {
		return "", err
	}
	n, name := e.node, strings.ToLower(name)
	switch {
	case name == "value" && is(n, "input", "textarea", "select", "option", "button"):
		return e.d.value(n), nil
	case name == "checked" && is(n, "input"):
		if e.d.checked(n) {
			return "true", nil
		}
	case name == "selected" && is(n, "option"):
		if e.d.selected(n) {
			return "true", nil
		}
	case booleanAttributes[name]:
		if hasAttr(n, name) {
			return "true", nil
		}
	default:
		if v, ok := attr(n, name); ok {
			return v, nil
		}
	}
	return "", errors.New("nil return value")
}

func (e *element) Location() (*selenium.Point, error) {
	defer e.end()
	if err := e.begin("Location"); err != nil {
		return nil, err
	}
	left, top, _, _ := rect(e.node)
	return &selenium.Point{X: left, Y: top}, nil
}

func (e *element) LocationInView() (*selenium.Point, error) {
	defer e.end()
	if err := e.begin("LocationInView"); err != nil {
		return nil, err
	}
	left, top, _, _ := rect(e.node)
	return &selenium.Point{X: left, Y: top}, nil
}

func (e *element) Size() (*selenium.Size, error) {
	defer e.end()
	if err := e.begin("Size"); err != nil {
		return nil, err
	}
	_, _, width, height := rect(e.node)
	return &selenium.Size{Width: width, Height: height}, nil
}

// CSSProperty returns the inline style value, falling back to the browser
// default for display and visibility.
func (e *element) CSSProperty(name string) (string, error) {
	defer e.end()
	if err := e.begin("CSSProperty"); err != nil {
		return "", err
	}
	if v := styleValue(e.node, name); v != "" {
		return v, nil
	}
	switch name {
	case "display":
		if blockTags[e.node.Data] {
			return "block", nil
		}
		return "inline", nil
	case "visibility":
		return "visible", nil
	}
	return "", nil
}

func (e *element) Screenshot(scroll bool) ([]byte, error) {
	defer e.end()
	if err := e.begin("Screenshot"); err != nil {
		return nil, err
	}
	_, _, width, height := rect(e.node)
	if width == 0 || height == 0 {
		return nil, errors.New("unknown error: cannot take screenshot with 0 width")
	}
	return e.d.screenshot(width, height)
}
