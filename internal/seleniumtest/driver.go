package seleniumtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
	"golang.org/x/net/html"
)

const (
	webElementKey    = "element-6066-11e4-a52e-4f735466cecf"
	legacyElementKey = "ELEMENT"

	// SessionID is the session id of every fake driver.
	SessionID = "fake-session"
)

type window struct {
	handle        string
	url           string
	doc           *html.Node
	frames        []*html.Node
	width, height int
	closed        bool
}

// Driver is an in-memory selenium.WebDriver. Pages are parsed with
// golang.org/x/net/html, searched with goquery and htmlquery, and scripted
// with goja. Layout is a strip: every displayed element occupies its own
// cellSize square, in document order.
//
// Methods of selenium.WebDriver that the fake does not implement panic.
type Driver struct {
	selenium.WebDriver

	mu    sync.Mutex
	calls map[string]int

	pages   map[string]string
	windows map[string]*window
	order   []string
	current string
	// frameDocs holds the documents of iframes, by iframe element.
	frameDocs map[*html.Node]*html.Node

	nextID int
	ids    map[*html.Node]string
	nodes  map[string]*html.Node
	states map[*html.Node]*nodeState

	vm           *goja.Runtime
	scriptDoc    *html.Node
	wrappers     map[*html.Node]*goja.Object
	unwrapped    map[*goja.Object]*html.Node
	listeners    map[*html.Node][]listener
	scriptErrors []error
	timers       []*time.Timer

	focus     *html.Node
	covers    map[*html.Node]*html.Node
	clipboard string
	modifiers map[string]bool
	mouse     *html.Node
	mouseX    int
	pressed   *html.Node

	caps          selenium.Capabilities
	screenshotErr error
	quit          bool
}

var _ selenium.WebDriver = (*Driver)(nil)

// New returns a driver with a single blank window.
func New() *Driver {
	d := &Driver{
		calls:     map[string]int{},
		pages:     map[string]string{},
		windows:   map[string]*window{},
		frameDocs: map[*html.Node]*html.Node{},
		ids:       map[*html.Node]string{},
		nodes:     map[string]*html.Node{},
		states:    map[*html.Node]*nodeState{},
		covers:    map[*html.Node]*html.Node{},
		modifiers: map[string]bool{},
		caps: selenium.Capabilities{
			"browserName":    "chrome",
			"browserVersion": "120.0.6099.109",
			"platformName":   "linux",
		},
	}
	d.newRuntime()
	w := d.newWindow()
	d.current = w.handle
	d.load(w, "about:blank", "")
	return d
}

func (d *Driver) newWindow() *window {
	d.nextID++
	w := &window{handle: "window-" + strconv.Itoa(d.nextID), width: 800, height: 600}
	d.windows[w.handle] = w
	d.order = append(d.order, w.handle)
	return w
}

// begin locks the driver and counts a call of method. It fails once the
// session has quit.
func (d *Driver) begin(method string) error {
	d.mu.Lock()
	d.calls[method]++
	if d.quit {
		return errors.New("invalid session id: session deleted because of page crash or quit")
	}
	return nil
}

func (d *Driver) end() { d.mu.Unlock() }

func (d *Driver) window() (*window, error) {
	w, ok := d.windows[d.current]
	if !ok || w.closed {
		return nil, errors.New("no such window: target window already closed")
	}
	return w, nil
}

// context returns the document of the current browsing context.
func (d *Driver) context() (*html.Node, error) {
	w, err := d.window()
	if err != nil {
		return nil, err
	}
	if len(w.frames) == 0 {
		return w.doc, nil
	}
	frame := w.frames[len(w.frames)-1]
	doc, ok := d.frameDocs[frame]
	if !ok || documentOf(frame) == nil {
		return nil, errors.New("no such frame: the current frame has been detached")
	}
	return doc, nil
}

func (d *Driver) load(w *window, url, source string) error {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return errors.Wrapf(err, "parsing %s", url)
	}
	w.url, w.doc, w.frames = url, doc, nil
	d.focus = nil
	d.prepare(doc, url)
	return nil
}

// prepare loads the iframes of doc, with src resolved against base, and runs
// its inline scripts.
func (d *Driver) prepare(doc *html.Node, base string) {
	var frames, scripts []*html.Node
	walk(doc, func(n *html.Node) bool {
		switch {
		case is(n, "iframe", "frame"):
			frames = append(frames, n)
		case is(n, "script"):
			scripts = append(scripts, n)
		}
		return true
	})
	for _, frame := range frames {
		source, ok := attr(frame, "srcdoc")
		if !ok {
			src, _ := attr(frame, "src")
			source = d.pages[resolve(base, src)]
		}
		frameDoc, err := html.Parse(strings.NewReader(source))
		if err != nil {
			continue
		}
		d.frameDocs[frame] = frameDoc
		d.prepare(frameDoc, base)
	}
	for _, script := range scripts {
		if _, err := d.run(doc, textContent(script), nil); err != nil {
			d.scriptErrors = append(d.scriptErrors, err)
		}
	}
}

func resolve(base, ref string) string {
	b, err := neturl.Parse(base)
	if err != nil {
		return ref
	}
	r, err := neturl.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func (d *Driver) fetch(url string) (string, error) {
	if url == "about:blank" {
		return "", nil
	}
	if source, ok := d.pages[url]; ok {
		return source, nil
	}
	resp, err := http.Get(url)
	if err != nil {
		return "", errors.Wrapf(err, "unknown error: net::ERR_CONNECTION_REFUSED: %s", url)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", url)
	}
	return string(body), nil
}

func (d *Driver) idOf(n *html.Node) string {
	id, ok := d.ids[n]
	if !ok {
		d.nextID++
		id = "element-" + strconv.Itoa(d.nextID)
		d.ids[n] = id
		d.nodes[id] = n
	}
	return id
}

func (d *Driver) reference(n *html.Node) map[string]interface{} {
	id := d.idOf(n)
	return map[string]interface{}{legacyElementKey: id, webElementKey: id}
}

func (d *Driver) element(n *html.Node) *element {
	return &element{d: d, id: d.idOf(n), node: n}
}

func (d *Driver) elements(nodes []*html.Node) []selenium.WebElement {
	found := make([]selenium.WebElement, len(nodes))
	for i, n := range nodes {
		found[i] = d.element(n)
	}
	return found
}

func noSuchElement(by, value string) error {
	return errors.Errorf(`no such element: Unable to locate element: {"method":%q,"selector":%q}`, by, value)
}

func (d *Driver) schedule(delay time.Duration, doc *html.Node, fn func() error) {
	d.timers = append(d.timers, time.AfterFunc(delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.quit {
			return
		}
		previous := d.scriptDoc
		d.scriptDoc = doc
		if err := fn(); err != nil {
			d.scriptErrors = append(d.scriptErrors, err)
		}
		d.scriptDoc = previous
	}))
}

// AddPage serves source at url to Get and to iframes with that src.
func (d *Driver) AddPage(url, source string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pages[url] = source
}

// Load replaces the document of the current window with source.
func (d *Driver) Load(source string) error {
	if err := d.begin("Load"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	w, err := d.window()
	if err != nil {
		return err
	}
	return d.load(w, "about:blank", source)
}

// Run executes script in the current browsing context.
func (d *Driver) Run(script string) (interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, err := d.context()
	if err != nil {
		return nil, err
	}
	return d.run(doc, script, nil)
}

// After executes script in the current browsing context once delay has
// passed.
func (d *Driver) After(delay time.Duration, script string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, err := d.context()
	if err != nil {
		return
	}
	d.schedule(delay, doc, func() error {
		_, err := d.run(doc, script, nil)
		return err
	})
}

// Cover places the first element matching coverCSS over the first element
// matching targetCSS, as long as the cover is displayed.
func (d *Driver) Cover(targetCSS, coverCSS string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	target, err := d.first(targetCSS)
	if err != nil {
		return err
	}
	cover, err := d.first(coverCSS)
	if err != nil {
		return err
	}
	d.covers[target] = cover
	return nil
}

func (d *Driver) first(css string) (*html.Node, error) {
	doc, err := d.context()
	if err != nil {
		return nil, err
	}
	nodes, err := find(doc, selenium.ByCSSSelector, css)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, noSuchElement(selenium.ByCSSSelector, css)
	}
	return nodes[0], nil
}

// coverOf returns the displayed element covering n, if any.
func (d *Driver) coverOf(n *html.Node) *html.Node {
	if cover, ok := d.covers[n]; ok && displayed(cover) {
		return cover
	}
	return nil
}

// OpenWindow opens url in a new window without switching to it and returns
// the handle of the window.
func (d *Driver) OpenWindow(url string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	source, err := d.fetch(url)
	if err != nil {
		return "", err
	}
	w := d.newWindow()
	return w.handle, d.load(w, url, source)
}

// Events returns the names of the events dispatched to the first element
// matching css.
func (d *Driver) Events(css string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.first(css)
	if err != nil {
		return nil
	}
	return append([]string(nil), d.stateOf(n).events...)
}

// ScriptErrors returns the errors thrown by page scripts, timers and event
// handlers.
func (d *Driver) ScriptErrors() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]error(nil), d.scriptErrors...)
}

// Clipboard returns the text copied with the copy shortcut.
func (d *Driver) Clipboard() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clipboard
}

// Calls returns how many times method was called.
func (d *Driver) Calls(method string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[method]
}

// FailScreenshots makes Screenshot fail with err. A nil err restores it.
func (d *Driver) FailScreenshots(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.screenshotErr = err
}

// SetCapability sets a capability returned by Capabilities.
func (d *Driver) SetCapability(key string, value interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.caps[key] = value
}

// WindowSize returns the size of the current window.
func (d *Driver) WindowSize() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, err := d.window(); err == nil {
		return w.width, w.height
	}
	return 0, 0
}

func (d *Driver) SessionID() string { return SessionID }

func (d *Driver) SessionId() string { return SessionID }

func (d *Driver) Capabilities() (selenium.Capabilities, error) {
	if err := d.begin("Capabilities"); err != nil {
		d.end()
		return nil, err
	}
	defer d.end()
	caps := selenium.Capabilities{}
	for k, v := range d.caps {
		caps[k] = v
	}
	return caps, nil
}

func (d *Driver) Quit() error {
	if err := d.begin("Quit"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	d.quit = true
	for _, t := range d.timers {
		t.Stop()
	}
	return nil
}

func (d *Driver) Get(url string) error {
	if err := d.begin("Get"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	w, err := d.window()
	if err != nil {
		return err
	}
	source, err := d.fetch(url)
	if err != nil {
		return err
	}
	return d.load(w, url, source)
}

func (d *Driver) Refresh() error {
	if err := d.begin("Refresh"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	w, err := d.window()
	if err != nil {
		return err
	}
	source, err := d.fetch(w.url)
	if err != nil {
		return err
	}
	return d.load(w, w.url, source)
}

func (d *Driver) CurrentURL() (string, error) {
	if err := d.begin("CurrentURL"); err != nil {
		d.end()
		return "", err
	}
	defer d.end()
	w, err := d.window()
	if err != nil {
		return "", err
	}
	return w.url, nil
}

func title(doc *html.Node) string {
	t := findFirst(doc, func(n *html.Node) bool { return is(n, "title") })
	if t == nil {
		return ""
	}
	return strings.TrimSpace(textContent(t))
}

func (d *Driver) Title() (string, error) {
	if err := d.begin("Title"); err != nil {
		d.end()
		return "", err
	}
	defer d.end()
	w, err := d.window()
	if err != nil {
		return "", err
	}
	return title(w.doc), nil
}

func (d *Driver) PageSource() (string, error) {
	if err := d.begin("PageSource"); err != nil {
		d.end()
		return "", err
	}
	defer d.end()
	doc, err := d.context()
	if err != nil {
		return "", err
	}
	return render(doc), nil
}

func (d *Driver) CurrentWindowHandle() (string, error) {
	if err := d.begin("CurrentWindowHandle"); err != nil {
		d.end()
		return "", err
	}
	defer d.end()
	if _, err := d.window(); err != nil {
		return "", err
	}
	return d.current, nil
}

func (d *Driver) WindowHandles() ([]string, error) {
	if err := d.begin("WindowHandles"); err != nil {
		d.end()
		return nil, err
	}
	defer d.end()
	var handles []string
	for _, h := range d.order {
		if !d.windows[h].closed {
			handles = append(handles, h)
		}
	}
	return handles, nil
}

func (d *Driver) SwitchWindow(name string) error {
	if err := d.begin("SwitchWindow"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	w, ok := d.windows[name]
	if !ok || w.closed {
		return errors.Errorf("no such window: %s", name)
	}
	d.current = name
	return nil
}

func (d *Driver) closeWindow(name string) error {
	w, ok := d.windows[name]
	if !ok || w.closed {
		return errors.Errorf("no such window: %s", name)
	}
	w.closed = true
	return nil
}

func (d *Driver) Close() error {
	if err := d.begin("Close"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	return d.closeWindow(d.current)
}

func (d *Driver) CloseWindow(name string) error {
	if err := d.begin("CloseWindow"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	return d.closeWindow(name)
}

func (d *Driver) ResizeWindow(name string, width, height int) error {
	if err := d.begin("ResizeWindow"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	w, err := d.window()
	if name != "" && name != "current" {
		var ok bool
		if w, ok = d.windows[name]; !ok {
			return errors.Errorf("no such window: %s", name)
		}
	} else if err != nil {
		return err
	}
	w.width, w.height = width, height
	return nil
}

func (d *Driver) MaximizeWindow(name string) error {
	return d.ResizeWindow(name, 1920, 1080)
}

func (d *Driver) SwitchFrame(frame interface{}) error {
	if err := d.begin("SwitchFrame"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	w, err := d.window()
	if err != nil {
		return err
	}
	if frame == nil || frame == "" {
		w.frames = nil
		return nil
	}
	doc, err := d.context()
	if err != nil {
		return err
	}
	var target *html.Node
	switch f := frame.(type) {
	case *element:
		if err := f.check(); err != nil {
			return err
		}
		target = f.node
	case string:
		target = findFirst(doc, func(n *html.Node) bool {
			if !is(n, "iframe", "frame") {
				return false
			}
			id, _ := attr(n, "id")
			name, _ := attr(n, "name")
			return id == f || name == f
		})
	case int:
		i := 0
		target = findFirst(doc, func(n *html.Node) bool {
			if !is(n, "iframe", "frame") {
				return false
			}
			i++
			return i-1 == f
		})
	default:
		return errors.Errorf("invalid argument: unsupported frame %T", frame)
	}
	if target == nil || !is(target, "iframe", "frame") {
		return errors.Errorf("no such frame: %v", frame)
	}
	if _, ok := d.frameDocs[target]; !ok {
		return errors.Errorf("no such frame: %v has no document", frame)
	}
	w.frames = append(w.frames, target)
	return nil
}

func (d *Driver) FindElement(by, value string) (selenium.WebElement, error) {
	found, err := d.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, noSuchElement(by, value)
	}
	return found[0], nil
}

func (d *Driver) FindElements(by, value string) ([]selenium.WebElement, error) {
	if err := d.begin("FindElements"); err != nil {
		d.end()
		return nil, err
	}
	defer d.end()
	doc, err := d.context()
	if err != nil {
		return nil, err
	}
	nodes, err := find(doc, by, value)
	if err != nil {
		return nil, err
	}
	return d.elements(nodes), nil
}

func (d *Driver) ActiveElement() (selenium.WebElement, error) {
	if err := d.begin("ActiveElement"); err != nil {
		d.end()
		return nil, err
	}
	defer d.end()
	doc, err := d.context()
	if err != nil {
		return nil, err
	}
	if d.focus != nil && documentOf(d.focus) == doc {
		return d.element(d.focus), nil
	}
	return d.element(body(doc)), nil
}

func (d *Driver) execute(script string, args []interface{}) (interface{}, error) {
	doc, err := d.context()
	if err != nil {
		return nil, err
	}
	return d.run(doc, script, args)
}

func (d *Driver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	if err := d.begin("ExecuteScript"); err != nil {
		d.end()
		return nil, err
	}
	defer d.end()
	return d.execute(script, args)
}

func (d *Driver) ExecuteScriptRaw(script string, args []interface{}) ([]byte, error) {
	if err := d.begin("ExecuteScriptRaw"); err != nil {
		d.end()
		return nil, err
	}
	defer d.end()
	result, err := d.execute(script, args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]interface{}{"value": result})
}

func (d *Driver) decode(value interface{}) (*element, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("not an element reference: %v", value)
	}
	id, ok := elementID(m)
	if !ok {
		return nil, errors.Errorf("not an element reference: %v", value)
	}
	n, ok := d.nodes[id]
	if !ok {
		return nil, errors.Errorf("stale element reference: unknown element %s", id)
	}
	return d.element(n), nil
}

func (d *Driver) DecodeElement(data []byte) (selenium.WebElement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var reply struct{ Value interface{} }
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, err
	}
	return d.decode(reply.Value)
}

func (d *Driver) DecodeElements(data []byte) ([]selenium.WebElement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var reply struct{ Value []interface{} }
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, err
	}
	found := make([]selenium.WebElement, len(reply.Value))
	for i, v := range reply.Value {
		we, err := d.decode(v)
		if err != nil {
			return nil, err
		}
		found[i] = we
	}
	return found, nil
}

// target returns the element under the mouse, or the element covering it.
func (d *Driver) target() (*html.Node, error) {
	if d.mouse == nil || documentOf(d.mouse) == nil {
		return nil, errors.New("move target out of bounds: the mouse is not over an element")
	}
	n := d.mouse
	if doc := documentOf(n); d.mouseX >= cellSize {
		if other := elementAt(doc, elementIndex(doc, n)+d.mouseX/cellSize); other != nil {
			n = other
		}
	}
	if cover := d.coverOf(n); cover != nil {
		n = cover
	}
	return n, nil
}

func (d *Driver) pointer(method string, fn func(n *html.Node)) error {
	if err := d.begin(method); err != nil {
		d.end()
		return err
	}
	defer d.end()
	n, err := d.target()
	if err != nil {
		return err
	}
	fn(n)
	return nil
}

func (d *Driver) Click(button int) error {
	return d.pointer("Click", func(n *html.Node) {
		if button == selenium.RightButton {
			d.dispatch(n, "contextmenu", true, nil)
			return
		}
		d.focus = n
		d.dispatch(n, "mousedown", true, nil)
		d.dispatch(n, "mouseup", true, nil)
		d.activate(n)
		d.dispatch(n, "click", true, nil)
	})
}

func (d *Driver) DoubleClick() error {
	return d.pointer("DoubleClick", func(n *html.Node) {
		d.dispatch(n, "dblclick", true, nil)
	})
}

func (d *Driver) ButtonDown() error {
	return d.pointer("ButtonDown", func(n *html.Node) {
		d.pressed = n
		d.dispatch(n, "mousedown", true, nil)
	})
}

func (d *Driver) ButtonUp() error {
	return d.pointer("ButtonUp", func(n *html.Node) {
		d.dispatch(n, "mouseup", true, nil)
		if d.pressed != nil && d.pressed != n {
			d.dispatch(n, "drop", true, nil)
		}
		d.pressed = nil
	})
}

func (d *Driver) KeyDown(keys string) error {
	if err := d.begin("KeyDown"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	for _, r := range keys {
		d.modifiers[string(r)] = true
	}
	return nil
}

func (d *Driver) KeyUp(keys string) error {
	if err := d.begin("KeyUp"); err != nil {
		d.end()
		return err
	}
	defer d.end()
	for _, r := range keys {
		delete(d.modifiers, string(r))
	}
	return nil
}

func (d *Driver) Screenshot() ([]byte, error) {
	if err := d.begin("Screenshot"); err != nil {
		d.end()
		return nil, err
	}
	defer d.end()
	w, err := d.window()
	if err != nil {
		return nil, err
	}
	return d.screenshot(w.width, w.height)
}

func (d *Driver) screenshot(width, height int) ([]byte, error) {
	if d.screenshotErr != nil {
		return nil, d.screenshotErr
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func itoa(i int) string { return strconv.Itoa(i) }

func (d *Driver) String() string {
	return fmt.Sprintf("seleniumtest.Driver(%s)", d.current)
}
