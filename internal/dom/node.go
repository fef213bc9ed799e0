package dom

import (
	"bytes"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// node is the headless Element.
type node struct {
	d *Document
	n *html.Node
}

func (e *node) Tag() string { return e.n.Data }

func (e *node) ID() string {
	v, _ := e.Attr("id")
	return v
}

func (e *node) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *node) SetAttr(name, value string) {
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

func (e *node) RemoveAttr(name string) {
	e.n.Attr = slices.DeleteFunc(e.n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == name
	})
}

func (e *node) Data(key string) (string, bool) {
	return e.Attr("data-" + key)
}

func (e *node) classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

func (e *node) setClasses(cs []string) {
	e.SetAttr("class", strings.Join(cs, " "))
}

func (e *node) HasClass(name string) bool {
	return slices.Contains(e.classes(), name)
}

func (e *node) AddClass(names ...string) {
	cs := e.classes()
	for _, name := range names {
		if !slices.Contains(cs, name) {
			cs = append(cs, name)
		}
	}
	e.setClasses(cs)
}

func (e *node) RemoveClass(names ...string) {
	cs := slices.DeleteFunc(e.classes(), func(c string) bool {
		return slices.Contains(names, c)
	})
	e.setClasses(cs)
}

func (e *node) ToggleClass(name string) bool {
	if e.HasClass(name) {
		e.RemoveClass(name)
		return false
	}
	e.AddClass(name)
	return true
}

func (e *node) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return b.String()
}

func (e *node) SetText(text string) {
	e.d.forget(e.n)
	removeChildren(e.n)
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *node) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

func (e *node) SetInnerHTML(markup string) error {
	nodes, err := parseFragment(markup)
	if err != nil {
		return err
	}
	e.d.forget(e.n)
	removeChildren(e.n)
	for _, c := range nodes {
		e.n.AppendChild(c)
	}
	return nil
}

func (e *node) Style(prop string) string {
	for _, d := range parseStyle(e.attrOr("style")) {
		if d[0] == prop {
			return d[1]
		}
	}
	return ""
}

func (e *node) SetStyle(prop, value string) {
	decls := parseStyle(e.attrOr("style"))
	found := false
	for i := range decls {
		if decls[i][0] == prop {
			decls[i][1] = value
			found = true
		}
	}
	if !found {
		decls = append(decls, [2]string{prop, value})
	}
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		if d[1] == "" {
			continue
		}
		parts = append(parts, d[0]+": "+d[1])
	}
	if len(parts) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", strings.Join(parts, "; ")+";")
}

func (e *node) Value() string {
	if e.n.DataAtom == atom.Textarea {
		return e.Text()
	}
	return e.attrOr("value")
}

func (e *node) SetValue(v string) {
	if e.n.DataAtom == atom.Textarea {
		e.SetText(v)
		return
	}
	e.SetAttr("value", v)
}

func (e *node) QuerySelector(sel string) Element {
	n := queryFirst(e.n, sel)
	if n == nil {
		return nil
	}
	return e.d.wrap(n)
}

func (e *node) QuerySelectorAll(sel string) []Element {
	return e.d.wrapAll(queryAll(e.n, sel))
}

func (e *node) AddEventListener(event string, fn Listener) {
	e.d.listeners[e.n] = append(e.d.listeners[e.n], registered{event: event, fn: fn})
}

func (e *node) attrOr(name string) string {
	v, _ := e.Attr(name)
	return v
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

func parseStyle(s string) [][2]string {
	var out [][2]string
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" {
			continue
		}
		out = append(out, [2]string{k, v})
	}
	return out
}
