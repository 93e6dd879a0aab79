package seleniumtest

import (
	"strings"

	"golang.org/x/net/html"
)

func (d *Driver) value(n *html.Node) string {
	if s := d.stateOf(n); s.value != nil {
		return *s.value
	}
	switch {
	case is(n, "textarea"):
		return textContent(n)
	case is(n, "select"):
		for _, o := range options(n) {
			if d.selected(o) {
				return d.value(o)
			}
		}
		return ""
	case is(n, "option"):
		if v, ok := attr(n, "value"); ok {
			return v
		}
		return strings.Join(strings.Fields(textContent(n)), " ")
	}
	v, _ := attr(n, "value")
	return v
}

func (d *Driver) setValue(n *html.Node, value string) {
	if is(n, "select") {
		for _, o := range options(n) {
			if d.value(o) == value {
				d.selectOption(o, true)
				return
			}
		}
		return
	}
	d.stateOf(n).value = &value
}

func (d *Driver) checked(n *html.Node) bool {
	if s := d.stateOf(n); s.checked != nil {
		return *s.checked
	}
	return hasAttr(n, "checked")
}

func options(sel *html.Node) []*html.Node {
	var found []*html.Node
	walk(sel, func(n *html.Node) bool {
		if is(n, "option") {
			found = append(found, n)
		}
		return true
	})
	return found
}

func selectOf(option *html.Node) *html.Node {
	for p := option.Parent; p != nil; p = p.Parent {
		if is(p, "select") {
			return p
		}
	}
	return nil
}

func (d *Driver) explicitlySelected(o *html.Node) bool {
	if s := d.stateOf(o); s.selected != nil {
		return *s.selected
	}
	return hasAttr(o, "selected")
}

// selected reports whether option o is selected. A single select without a
// selected option selects its first one.
func (d *Driver) selected(o *html.Node) bool {
	if d.explicitlySelected(o) {
		return true
	}
	sel := selectOf(o)
	if sel == nil || hasAttr(sel, "multiple") {
		return false
	}
	opts := options(sel)
	for _, other := range opts {
		if d.explicitlySelected(other) {
			return false
		}
	}
	return len(opts) > 0 && opts[0] == o
}

func (d *Driver) selectOption(o *html.Node, on bool) {
	if sel := selectOf(o); sel != nil && on && !hasAttr(sel, "multiple") {
		for _, other := range options(sel) {
			off := false
			d.stateOf(other).selected = &off
		}
	}
	d.stateOf(o).selected = &on
}

// activate applies the default action of a click on n.
func (d *Driver) activate(n *html.Node) {
	switch {
	case is(n, "input"):
		t, _ := attr(n, "type")
		switch strings.ToLower(t) {
		case "checkbox":
			checked := !d.checked(n)
			d.stateOf(n).checked = &checked
			d.dispatch(n, "change", true, nil)
		case "radio":
			d.checkRadio(n)
			d.dispatch(n, "change", true, nil)
		}
	case is(n, "option"):
		sel := selectOf(n)
		if sel == nil || hasAttr(n, "disabled") || hasAttr(sel, "disabled") {
			return
		}
		if hasAttr(sel, "multiple") {
			d.selectOption(n, !d.selected(n))
		} else {
			d.selectOption(n, true)
		}
		d.dispatch(sel, "change", true, nil)
	}
}

func (d *Driver) checkRadio(n *html.Node) {
	name, _ := attr(n, "name")
	if doc := documentOf(n); doc != nil && name != "" {
		walk(doc, func(other *html.Node) bool {
			if other != n && is(other, "input") {
				if otherName, _ := attr(other, "name"); otherName == name {
					off := false
					d.stateOf(other).checked = &off
				}
			}
			return true
		})
	}
	on := true
	d.stateOf(n).checked = &on
}
