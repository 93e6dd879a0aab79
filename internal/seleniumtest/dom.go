package seleniumtest

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
	"golang.org/x/net/html"
)

// nodeState is the live state of a node that its markup does not carry.
type nodeState struct {
	value     *string
	checked   *bool
	selected  *bool
	files     []string
	events    []string
	selectAll bool
}

func (d *Driver) stateOf(n *html.Node) *nodeState {
	s, ok := d.states[n]
	if !ok {
		s = &nodeState{}
		d.states[n] = s
	}
	return s
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := attr(n, name)
	return ok
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: strings.ToLower(name), Val: value})
}

func removeAttr(n *html.Node, name string) {
	for i, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func isElement(n *html.Node) bool { return n != nil && n.Type == html.ElementNode }

func is(n *html.Node, tags ...string) bool {
	if !isElement(n) {
		return false
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// documentOf returns the document n is attached to, or nil when n is
// detached.
func documentOf(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type == html.DocumentNode {
			return n
		}
	}
	return nil
}

// shadowHost returns the nearest template ancestor of n. Template contents
// model shadow trees: they are searched only from inside.
func shadowHost(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if is(p, "template") {
			return p
		}
	}
	return nil
}

// shadowTemplate returns the declarative shadow root template of a host.
func shadowTemplate(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if is(c, "template") && hasAttr(c, "shadowrootmode") {
			return c
		}
	}
	return nil
}

func body(doc *html.Node) *html.Node {
	if found := findFirst(doc, func(n *html.Node) bool { return is(n, "body") }); found != nil {
		return found
	}
	return doc
}

func findFirst(root *html.Node, match func(n *html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found == nil && match(n) {
			found = n
		}
		return found == nil
	})
	return found
}

// walk visits root and its descendants in document order while visit
// returns true.
func walk(root *html.Node, visit func(n *html.Node) bool) bool {
	if !visit(root) {
		return false
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func render(n *html.Node) string {
	var buf bytes.Buffer
	html.Render(&buf, n)
	return buf.String()
}

func renderChildren(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&buf, c)
	}
	return buf.String()
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

func setChildren(n *html.Node, children []*html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	for _, c := range children {
		n.AppendChild(c)
	}
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// style parses the inline style of n.
func style(n *html.Node) (keys []string, values map[string]string) {
	values = map[string]string{}
	raw, _ := attr(n, "style")
	for _, decl := range strings.Split(raw, ";") {
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(parts[0]))
		if _, seen := values[k]; !seen {
			keys = append(keys, k)
		}
		values[k] = strings.TrimSpace(parts[1])
	}
	return keys, values
}

func setStyle(n *html.Node, name, value string) {
	keys, values := style(n)
	if _, ok := values[name]; !ok {
		keys = append(keys, name)
	}
	values[name] = value
	var decls []string
	for _, k := range keys {
		if values[k] != "" {
			decls = append(decls, k+": "+values[k])
		}
	}
	if len(decls) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", strings.Join(decls, "; ")+";")
}

func styleValue(n *html.Node, name string) string {
	_, values := style(n)
	return values[name]
}

var invisibleTags = map[string]bool{
	"head": true, "script": true, "style": true, "template": true, "title": true, "meta": true, "link": true,
}

// displayed mirrors what browsers render: hidden attributes, display:none
// and visibility:hidden inline styles apply to the element and its subtree.
func displayed(n *html.Node) bool {
	if !isElement(n) || documentOf(n) == nil || shadowHost(n) != nil && !hasAttr(shadowHost(n), "shadowrootmode") {
		return false
	}
	for p := n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if invisibleTags[p.Data] && !(p.Data == "template" && hasAttr(p, "shadowrootmode")) {
			return false
		}
		if hasAttr(p, "hidden") || styleValue(p, "display") == "none" || styleValue(p, "visibility") == "hidden" {
			return false
		}
		if is(p, "input") {
			if t, _ := attr(p, "type"); strings.EqualFold(t, "hidden") {
				return false
			}
		}
	}
	return true
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true, "dd": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "option": true, "p": true, "pre": true, "section": true, "table": true, "tr": true, "ul": true,
}

// visibleText renders the text a user sees: hidden subtrees are skipped,
// whitespace collapses and block elements break lines.
func visibleText(n *html.Node) string {
	if !displayed(n) {
		return ""
	}
	var b strings.Builder
	var visit func(c *html.Node)
	visit = func(c *html.Node) {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			if c != n && (!displayed(c) || is(c, "template")) {
				return
			}
			if blockTags[c.Data] {
				b.WriteString("\n")
			}
			for child := c.FirstChild; child != nil; child = child.NextSibling {
				visit(child)
			}
			if blockTags[c.Data] {
				b.WriteString("\n")
			}
		}
	}
	visit(n)
	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func elementIndex(doc, n *html.Node) int {
	i, found := 0, -1
	walk(doc, func(c *html.Node) bool {
		if c == n {
			found = i
			return false
		}
		if isElement(c) {
			i++
		}
		return true
	})
	return found
}

func elementAt(doc *html.Node, index int) *html.Node {
	i := 0
	return findFirst(doc, func(c *html.Node) bool {
		if !isElement(c) {
			return false
		}
		if i == index {
			return true
		}
		i++
		return false
	})
}

// Every displayed element occupies its own cell of a strip, in document
// order: left = index * cellSize, top = 0.
const cellSize = 10

func rect(n *html.Node) (left, top, width, height int) {
	doc := documentOf(n)
	if doc == nil {
		return 0, 0, 0, 0
	}
	left = elementIndex(doc, n) * cellSize
	if !displayed(n) {
		return left, 0, 0, 0
	}
	return left, 0, cellSize, cellSize
}

// find resolves a WebDriver locator against root. Results inside shadow
// trees are only returned when root lives in the same tree.
func find(root *html.Node, by, value string) ([]*html.Node, error) {
	var nodes []*html.Node
	switch by {
	case selenium.ByCSSSelector, selenium.ByID, selenium.ByName, selenium.ByTagName, selenium.ByClassName:
		selector := value
		switch by {
		case selenium.ByID:
			selector = `[id="` + value + `"]`
		case selenium.ByName:
			selector = `[name="` + value + `"]`
		case selenium.ByClassName:
			selector = "." + value
		}
		goquery.NewDocumentFromNode(root).Find(selector).Each(func(_ int, s *goquery.Selection) {
			nodes = append(nodes, s.Nodes...)
		})
	case selenium.ByXPATH, selenium.ByLinkText, selenium.ByPartialLinkText:
		expr := value
		switch by {
		case selenium.ByLinkText:
			expr = `.//a[normalize-space(.)="` + value + `"]`
		case selenium.ByPartialLinkText:
			expr = `.//a[contains(., "` + value + `")]`
		}
		found, err := htmlquery.QueryAll(root, expr)
		if err != nil {
			return nil, errors.Errorf("invalid selector: %s: %v", value, err)
		}
		for _, n := range found {
			if isElement(n) {
				nodes = append(nodes, n)
			}
		}
	default:
		return nil, errors.Errorf("invalid argument: unsupported locator strategy %q", by)
	}
	scope := root
	if !is(root, "template") {
		scope = shadowHost(root)
	}
	kept := nodes[:0]
	for _, n := range nodes {
		if n != root && shadowHost(n) == scope {
			kept = append(kept, n)
		}
	}
	return kept, nil
}
