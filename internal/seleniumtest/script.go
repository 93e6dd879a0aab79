package seleniumtest

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// prelude defines the browser globals the DOM bindings do not provide.
const prelude = `
var window = this;
function Event(type, init) {
  this.type = type;
  init = init || {};
  for (var k in init) { this[k] = init[k]; }
}
function MouseEvent(type, init) { Event.call(this, type, init); }
MouseEvent.prototype = Object.create(Event.prototype);
function KeyboardEvent(type, init) { Event.call(this, type, init); }
KeyboardEvent.prototype = Object.create(Event.prototype);
function Storage() { this.__items = {}; }
Storage.prototype.getItem = function (k) {
  return Object.prototype.hasOwnProperty.call(this.__items, k) ? this.__items[k] : null;
};
Storage.prototype.setItem = function (k, v) { this.__items[k] = String(v); };
Storage.prototype.removeItem = function (k) { delete this.__items[k]; };
Storage.prototype.clear = function () { this.__items = {}; };
Object.defineProperty(Storage.prototype, 'length', {
  get: function () { return Object.keys(this.__items).length; }
});
var localStorage = new Storage();
var sessionStorage = new Storage();
`

// listener is an event handler registered with addEventListener.
type listener struct {
	event string
	fn    goja.Callable
}

func (d *Driver) newRuntime() {
	vm := goja.New()
	d.vm = vm
	d.wrappers = map[*html.Node]*goja.Object{}
	d.unwrapped = map[*goja.Object]*html.Node{}
	d.listeners = map[*html.Node][]listener{}
	if _, err := vm.RunString(prelude); err != nil {
		panic(err)
	}
	global := vm.GlobalObject()
	global.DefineAccessorProperty("document", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return d.wrap(d.scriptDoc)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	vm.Set("open", func(call goja.FunctionCall) goja.Value {
		base := "about:blank"
		if w, err := d.window(); err == nil {
			base = w.url
		}
		url := resolve(base, call.Argument(0).String())
		source, err := d.fetch(url)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		previous := d.scriptDoc
		if err := d.load(d.newWindow(), url, source); err != nil {
			panic(vm.NewGoError(err))
		}
		d.scriptDoc = previous
		return goja.Null()
	})
	vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(vm.NewTypeError("setTimeout: callback is not a function"))
		}
		d.schedule(time.Duration(call.Argument(1).ToInteger())*time.Millisecond, d.scriptDoc, func() error {
			_, err := fn(goja.Undefined())
			return err
		})
		return vm.ToValue(len(d.timers))
	})
}

// run executes script as a function body with args as its arguments, against
// doc.
func (d *Driver) run(doc *html.Node, script string, args []interface{}) (interface{}, error) {
	values := make([]interface{}, len(args))
	for i, a := range args {
		v, err := d.importValue(a)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	d.scriptDoc = doc
	if err := d.vm.Set("__args", d.vm.NewArray(values...)); err != nil {
		return nil, err
	}
	result, err := d.vm.RunString("(function () {\n" + script + "\n}).apply(null, __args)")
	if err != nil {
		return nil, scriptError(err)
	}
	return d.export(result), nil
}

func scriptError(err error) error {
	var exception *goja.Exception
	if errors.As(err, &exception) {
		msg := exception.Value().String()
		if o, ok := exception.Value().(*goja.Object); ok {
			if m := o.Get("message"); m != nil && !goja.IsUndefined(m) {
				msg = m.String()
			}
		}
		return errors.Errorf("javascript error: %s", msg)
	}
	return errors.Wrap(err, "javascript error")
}

// importValue converts a script argument to a JavaScript value. Element
// references are resolved whatever the type carrying them.
func (d *Driver) importValue(v interface{}) (goja.Value, error) {
	switch x := v.(type) {
	case nil:
		return goja.Null(), nil
	case *element:
		return d.wrap(x.node), nil
	case string, bool, int, int64, float64:
		return d.vm.ToValue(x), nil
	case []interface{}:
		items := make([]interface{}, len(x))
		for i, item := range x {
			value, err := d.importValue(item)
			if err != nil {
				return nil, err
			}
			items[i] = value
		}
		return d.vm.NewArray(items...), nil
	case map[string]interface{}:
		if id, ok := elementID(x); ok {
			n, ok := d.nodes[id]
			if !ok {
				return nil, errors.Errorf("stale element reference: unknown element %s", id)
			}
			return d.wrap(n), nil
		}
		o := d.vm.NewObject()
		for k, item := range x {
			value, err := d.importValue(item)
			if err != nil {
				return nil, err
			}
			o.Set(k, value)
		}
		return o, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid argument: %T", v)
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return d.importValue(decoded)
}

func elementID(m map[string]interface{}) (string, bool) {
	for _, key := range []string{webElementKey, legacyElementKey} {
		if id, ok := m[key].(string); ok {
			return id, true
		}
	}
	return "", false
}

// export converts a script result to the values a remote end returns as JSON.
func (d *Driver) export(v goja.Value) interface{} {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if o, ok := v.(*goja.Object); ok {
		if n, ok := d.unwrapped[o]; ok {
			return d.reference(n)
		}
		switch o.ClassName() {
		case "Function":
			return nil
		case "Array":
			length := int(o.Get("length").ToInteger())
			items := make([]interface{}, length)
			for i := range items {
				items[i] = d.export(o.Get(itoa(i)))
			}
			return items
		case "Object":
			m := map[string]interface{}{}
			for _, k := range o.Keys() {
				m[k] = d.export(o.Get(k))
			}
			return m
		}
	}
	switch x := v.Export().(type) {
	case int64:
		return float64(x)
	case int:
		return float64(x)
	default:
		return x
	}
}

func (d *Driver) node(v goja.Value) *html.Node {
	if o, ok := v.(*goja.Object); ok {
		return d.unwrapped[o]
	}
	return nil
}

func (d *Driver) wrap(n *html.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if o, ok := d.wrappers[n]; ok {
		return o
	}
	o := d.vm.NewObject()
	d.wrappers[n] = o
	d.unwrapped[o] = n
	if n.Type == html.DocumentNode {
		d.bindDocument(o, n)
	} else {
		d.bindElement(o, n)
	}
	return o
}

func (d *Driver) getter(o *goja.Object, name string, get func() interface{}) {
	d.accessor(o, name, get, nil)
}

func (d *Driver) accessor(o *goja.Object, name string, get func() interface{}, set func(v goja.Value)) {
	var setter goja.Value
	if set != nil {
		setter = d.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			set(call.Argument(0))
			return goja.Undefined()
		})
	}
	o.DefineAccessorProperty(name, d.vm.ToValue(func(goja.FunctionCall) goja.Value {
		return d.vm.ToValue(get())
	}), setter, goja.FLAG_TRUE, goja.FLAG_TRUE)
}

func (d *Driver) method(o *goja.Object, name string, fn func(call goja.FunctionCall) goja.Value) {
	o.Set(name, fn)
}

func (d *Driver) query(root *html.Node, selector string, all bool) goja.Value {
	nodes, err := find(root, "css selector", selector)
	if err != nil {
		panic(d.vm.NewGoError(err))
	}
	if !all {
		if len(nodes) == 0 {
			return goja.Null()
		}
		return d.wrap(nodes[0])
	}
	items := make([]interface{}, len(nodes))
	for i, n := range nodes {
		items[i] = d.wrap(n)
	}
	return d.vm.NewArray(items...)
}

func (d *Driver) bindDocument(o *goja.Object, doc *html.Node) {
	d.getter(o, "body", func() interface{} { return d.wrap(body(doc)) })
	d.getter(o, "documentElement", func() interface{} {
		return d.wrap(findFirst(doc, func(n *html.Node) bool { return is(n, "html") }))
	})
	d.getter(o, "activeElement", func() interface{} {
		if d.focus != nil && documentOf(d.focus) == doc {
			return d.wrap(d.focus)
		}
		return d.wrap(body(doc))
	})
	d.getter(o, "title", func() interface{} { return title(doc) })
	d.getter(o, "readyState", func() interface{} { return "complete" })
	d.method(o, "querySelector", func(call goja.FunctionCall) goja.Value {
		return d.query(doc, call.Argument(0).String(), false)
	})
	d.method(o, "querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return d.query(doc, call.Argument(0).String(), true)
	})
	d.method(o, "getElementById", func(call goja.FunctionCall) goja.Value {
		return d.query(doc, `[id="`+call.Argument(0).String()+`"]`, false)
	})
	d.method(o, "createElement", func(call goja.FunctionCall) goja.Value {
		tag := strings.ToLower(call.Argument(0).String())
		return d.wrap(&html.Node{Type: html.ElementNode, Data: tag})
	})
	d.method(o, "elementFromPoint", func(call goja.FunctionCall) goja.Value {
		n := elementAt(doc, int(call.Argument(0).ToFloat())/cellSize)
		if n == nil {
			return goja.Null()
		}
		if cover := d.coverOf(n); cover != nil {
			n = cover
		}
		return d.wrap(n)
	})
}

func (d *Driver) bindElement(o *goja.Object, n *html.Node) {
	vm := d.vm
	d.getter(o, "tagName", func() interface{} { return strings.ToUpper(n.Data) })
	d.getter(o, "nodeName", func() interface{} { return strings.ToUpper(n.Data) })
	for _, name := range []string{"id", "type", "name", "href", "src", "title", "placeholder"} {
		name := name
		d.accessor(o, name, func() interface{} {
			v, _ := attr(n, name)
			return v
		}, func(v goja.Value) { setAttr(n, name, v.String()) })
	}
	d.accessor(o, "className", func() interface{} {
		v, _ := attr(n, "class")
		return v
	}, func(v goja.Value) { setAttr(n, "class", v.String()) })
	for _, name := range []string{"hidden", "disabled", "readOnly"} {
		name := name
		d.accessor(o, name, func() interface{} { return hasAttr(n, name) }, func(v goja.Value) {
			if v.ToBoolean() {
				setAttr(n, name, "")
			} else {
				removeAttr(n, name)
			}
		})
	}
	d.getter(o, "outerHTML", func() interface{} { return render(n) })
	d.accessor(o, "innerHTML", func() interface{} { return renderChildren(n) }, func(v goja.Value) {
		nodes, err := html.ParseFragment(strings.NewReader(v.String()), n)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		setChildren(n, nodes)
	})
	d.accessor(o, "textContent", func() interface{} { return textContent(n) }, func(v goja.Value) {
		setChildren(n, []*html.Node{{Type: html.TextNode, Data: v.String()}})
	})
	d.getter(o, "innerText", func() interface{} { return visibleText(n) })
	d.accessor(o, "value", func() interface{} {
		if !is(n, "input", "textarea", "select", "option", "button") {
			return nil
		}
		return d.value(n)
	}, func(v goja.Value) { d.setValue(n, v.String()) })
	d.accessor(o, "checked", func() interface{} { return d.checked(n) }, func(v goja.Value) {
		checked := v.ToBoolean()
		d.stateOf(n).checked = &checked
	})
	d.accessor(o, "selected", func() interface{} { return d.selected(n) }, func(v goja.Value) {
		d.selectOption(n, v.ToBoolean())
	})
	d.getter(o, "files", func() interface{} {
		files := d.stateOf(n).files
		items := make([]interface{}, len(files))
		for i, f := range files {
			file := vm.NewObject()
			file.Set("name", filepath.Base(f))
			file.Set("path", f)
			items[i] = file
		}
		return vm.NewArray(items...)
	})
	d.getter(o, "shadowRoot", func() interface{} {
		template := shadowTemplate(n)
		if template == nil {
			return nil
		}
		return d.shadowRoot(template)
	})
	d.getter(o, "parentElement", func() interface{} {
		if isElement(n.Parent) {
			return d.wrap(n.Parent)
		}
		return nil
	})
	d.getter(o, "parentNode", func() interface{} { return d.wrap(n.Parent) })
	d.getter(o, "children", func() interface{} {
		var items []interface{}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c) {
				items = append(items, d.wrap(c))
			}
		}
		return vm.NewArray(items...)
	})
	o.Set("style", vm.NewDynamicObject(&styleObject{d: d, n: n}))

	d.method(o, "getAttribute", func(call goja.FunctionCall) goja.Value {
		v, ok := attr(n, call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(v)
	})
	d.method(o, "setAttribute", func(call goja.FunctionCall) goja.Value {
		setAttr(n, call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	d.method(o, "removeAttribute", func(call goja.FunctionCall) goja.Value {
		removeAttr(n, call.Argument(0).String())
		return goja.Undefined()
	})
	d.method(o, "hasAttribute", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(hasAttr(n, call.Argument(0).String()))
	})
	d.method(o, "getBoundingClientRect", func(goja.FunctionCall) goja.Value {
		left, top, width, height := rect(n)
		r := vm.NewObject()
		r.Set("left", left)
		r.Set("x", left)
		r.Set("top", top)
		r.Set("y", top)
		r.Set("width", width)
		r.Set("height", height)
		r.Set("right", left+width)
		r.Set("bottom", top+height)
		return r
	})
	d.method(o, "isSameNode", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(d.node(call.Argument(0)) == n)
	})
	d.method(o, "contains", func(call goja.FunctionCall) goja.Value {
		other := d.node(call.Argument(0))
		for ; other != nil; other = other.Parent {
			if other == n {
				return vm.ToValue(true)
			}
		}
		return vm.ToValue(false)
	})
	d.method(o, "querySelector", func(call goja.FunctionCall) goja.Value {
		return d.query(n, call.Argument(0).String(), false)
	})
	d.method(o, "querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return d.query(n, call.Argument(0).String(), true)
	})
	d.method(o, "appendChild", func(call goja.FunctionCall) goja.Value {
		child := d.node(call.Argument(0))
		if child == nil {
			panic(vm.NewTypeError("appendChild: argument is not a node"))
		}
		detach(child)
		n.AppendChild(child)
		return call.Argument(0)
	})
	d.method(o, "remove", func(goja.FunctionCall) goja.Value {
		detach(n)
		return goja.Undefined()
	})
	d.method(o, "focus", func(goja.FunctionCall) goja.Value {
		d.focus = n
		return goja.Undefined()
	})
	d.method(o, "blur", func(goja.FunctionCall) goja.Value {
		if d.focus == n {
			d.focus = nil
		}
		return goja.Undefined()
	})
	d.method(o, "click", func(goja.FunctionCall) goja.Value {
		d.activate(n)
		d.dispatch(n, "click", true, nil)
		return goja.Undefined()
	})
	d.method(o, "scrollIntoView", func(goja.FunctionCall) goja.Value {
		d.stateOf(n).events = append(d.stateOf(n).events, "scrollIntoView")
		return goja.Undefined()
	})
	d.method(o, "addEventListener", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(1))
		if !ok {
			panic(vm.NewTypeError("addEventListener: listener is not a function"))
		}
		d.listeners[n] = append(d.listeners[n], listener{event: call.Argument(0).String(), fn: fn})
		return goja.Undefined()
	})
	d.method(o, "dispatchEvent", func(call goja.FunctionCall) goja.Value {
		event, ok := call.Argument(0).(*goja.Object)
		if !ok {
			panic(vm.NewTypeError("dispatchEvent: argument is not an event"))
		}
		d.dispatch(n, event.Get("type").String(), event.Get("bubbles") != nil && event.Get("bubbles").ToBoolean(), event)
		return vm.ToValue(true)
	})
}

// shadowRoot returns the object scripts see as element.shadowRoot.
func (d *Driver) shadowRoot(template *html.Node) *goja.Object {
	root := d.vm.NewObject()
	d.method(root, "querySelector", func(call goja.FunctionCall) goja.Value {
		return d.query(template, call.Argument(0).String(), false)
	})
	d.method(root, "querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return d.query(template, call.Argument(0).String(), true)
	})
	d.getter(root, "innerHTML", func() interface{} { return renderChildren(template) })
	return root
}

// dispatch records an event on n and runs the listeners of n, and of its
// ancestors when the event bubbles. Inline on* attributes act as listeners.
func (d *Driver) dispatch(n *html.Node, typ string, bubbles bool, event *goja.Object) {
	if event == nil {
		event = d.vm.NewObject()
		event.Set("type", typ)
		event.Set("bubbles", bubbles)
	}
	event.Set("target", d.wrap(n))
	state := d.stateOf(n)
	state.events = append(state.events, typ)
	for current := n; isElement(current); current = current.Parent {
		this := d.wrap(current)
		for _, l := range d.listeners[current] {
			if l.event == typ {
				if _, err := l.fn(this, event); err != nil {
					d.scriptErrors = append(d.scriptErrors, err)
				}
			}
		}
		if code, ok := attr(current, "on"+typ); ok {
			handler, err := d.vm.RunString("(function (event) {\n" + code + "\n})")
			if err == nil {
				fn, _ := goja.AssertFunction(handler)
				_, err = fn(this, event)
			}
			if err != nil {
				d.scriptErrors = append(d.scriptErrors, err)
			}
		}
		if !bubbles {
			break
		}
	}
}

// styleObject exposes the inline style of an element as element.style.
type styleObject struct {
	d *Driver
	n *html.Node
}

func cssName(key string) string {
	var b strings.Builder
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *styleObject) Get(key string) goja.Value {
	switch key {
	case "setProperty":
		return s.d.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			setStyle(s.n, call.Argument(0).String(), call.Argument(1).String())
			return goja.Undefined()
		})
	case "getPropertyValue":
		return s.d.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return s.d.vm.ToValue(styleValue(s.n, call.Argument(0).String()))
		})
	case "cssText":
		v, _ := attr(s.n, "style")
		return s.d.vm.ToValue(v)
	}
	return s.d.vm.ToValue(styleValue(s.n, cssName(key)))
}

func (s *styleObject) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		setAttr(s.n, "style", val.String())
		return true
	}
	setStyle(s.n, cssName(key), val.String())
	return true
}

func (s *styleObject) Has(key string) bool { return true }

func (s *styleObject) Delete(key string) bool {
	setStyle(s.n, cssName(key), "")
	return true
}

func (s *styleObject) Keys() []string {
	keys, _ := style(s.n)
	return keys
}
