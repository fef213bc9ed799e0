package dom

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a headless document. It is not safe for concurrent use; like
// a browser page it belongs to one event loop.
type Document struct {
	root *html.Node

	listeners map[*html.Node][]registered
	layout    map[*html.Node]Rect

	scrollY    float64
	height     float64
	nextID     int
	scrollSubs map[int]func(float64)
	observed   map[int]*observation
}

// Rect is the vertical extent of an element in document coordinates.
type Rect struct {
	Top, Height float64
}

type registered struct {
	event string
	fn    Listener
}

type observation struct {
	el   *node
	opts ObserveOptions
	fn   func(Entry)
	last bool
}

// Parse builds a headless document from a full HTML page.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{
		root:       root,
		listeners:  make(map[*html.Node][]registered),
		layout:     make(map[*html.Node]Rect),
		height:     800,
		scrollSubs: make(map[int]func(float64)),
		observed:   make(map[int]*observation),
	}, nil
}

// MustParse is Parse for fixed test markup.
func MustParse(markup string) *Document {
	d, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return d
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) Element {
	return d.QuerySelector("#" + id)
}

// QuerySelector searches the whole document.
func (d *Document) QuerySelector(sel string) Element {
	n := queryFirst(d.root, sel)
	if n == nil {
		return nil
	}
	return d.wrap(n)
}

// QuerySelectorAll searches the whole document.
func (d *Document) QuerySelectorAll(sel string) []Element {
	return d.wrapAll(queryAll(d.root, sel))
}

// Mount returns the mount region backed by the element with the given id.
func (d *Document) Mount(id string) (Mount, error) {
	el := d.ByID(id)
	if el == nil {
		return nil, fmt.Errorf("%w: #%s", ErrNoMount, id)
	}
	return &mount{el: el.(*node)}, nil
}

// Render serializes the whole document.
func (d *Document) Render() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, d.root)
	return buf.String()
}

// Dispatch fires an event of type typ at el and bubbles it to the root.
// Detached elements receive nothing.
func (d *Document) Dispatch(el Element, typ string) *Event {
	ev := NewEvent(typ, el, nil)
	target, ok := el.(*node)
	if !ok || !d.attached(target.n) {
		return ev
	}
	for n := target.n; n != nil; n = n.Parent {
		regs := append([]registered(nil), d.listeners[n]...)
		for _, r := range regs {
			if r.event == typ {
				r.fn(ev)
			}
		}
	}
	return ev
}

// Click dispatches a click event.
func (d *Document) Click(el Element) *Event { return d.Dispatch(el, "click") }

// Submit dispatches a submit event.
func (d *Document) Submit(el Element) *Event { return d.Dispatch(el, "submit") }

// ListenerCount reports how many listeners are registered on attached nodes.
func (d *Document) ListenerCount() int {
	n := 0
	for k, regs := range d.listeners {
		if d.attached(k) {
			n += len(regs)
		}
	}
	return n
}

// SetViewportHeight sets the visible height and re-evaluates observations.
func (d *Document) SetViewportHeight(h float64) {
	d.height = h
	d.evaluate()
}

// SetLayout places el in document coordinates and re-evaluates
// observations. Elements without layout never intersect.
func (d *Document) SetLayout(el Element, r Rect) {
	if n, ok := el.(*node); ok {
		d.layout[n.n] = r
		d.evaluate()
	}
}

// ScrollTo moves the viewport, notifies scroll listeners, then re-evaluates
// observations.
func (d *Document) ScrollTo(y float64) {
	d.scrollY = y
	for _, id := range sortedKeys(d.scrollSubs) {
		if fn, ok := d.scrollSubs[id]; ok {
			fn(y)
		}
	}
	d.evaluate()
}

// ScrollY implements Viewport.
func (d *Document) ScrollY() float64 { return d.scrollY }

// OnScroll implements Viewport.
func (d *Document) OnScroll(fn func(y float64)) func() {
	d.nextID++
	id := d.nextID
	d.scrollSubs[id] = fn
	return func() { delete(d.scrollSubs, id) }
}

// ScrollListeners reports how many scroll listeners are registered.
func (d *Document) ScrollListeners() int { return len(d.scrollSubs) }

// Observe implements Viewport.
func (d *Document) Observe(el Element, opts ObserveOptions, fn func(Entry)) func() {
	n, ok := el.(*node)
	if !ok {
		return func() {}
	}
	d.nextID++
	id := d.nextID
	o := &observation{el: n, opts: opts, fn: fn}
	d.observed[id] = o
	ratio, hit := d.intersect(o)
	o.last = hit
	fn(Entry{Target: n, IsIntersecting: hit, Ratio: ratio})
	return func() { delete(d.observed, id) }
}

// Observations reports how many observations are live.
func (d *Document) Observations() int { return len(d.observed) }

func (d *Document) evaluate() {
	for _, id := range sortedKeys(d.observed) {
		o, ok := d.observed[id]
		if !ok {
			continue
		}
		ratio, hit := d.intersect(o)
		if hit == o.last {
			continue
		}
		o.last = hit
		o.fn(Entry{Target: o.el, IsIntersecting: hit, Ratio: ratio})
	}
}

func (d *Document) intersect(o *observation) (float64, bool) {
	r, ok := d.layout[o.el.n]
	if !ok || r.Height <= 0 || !d.attached(o.el.n) {
		return 0, false
	}
	top := d.scrollY - o.opts.RootMargin.Top
	bottom := d.scrollY + d.height + o.opts.RootMargin.Bottom
	overlap := min(bottom, r.Top+r.Height) - max(top, r.Top)
	if overlap <= 0 {
		return 0, false
	}
	ratio := overlap / r.Height
	return ratio, ratio >= o.opts.Threshold
}

func (d *Document) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// forget drops listeners, layout and observations of every descendant of
// parent. They are destroyed with their container.
func (d *Document) forget(parent *html.Node) {
	for k := range d.listeners {
		if k != parent && isDescendant(k, parent) {
			delete(d.listeners, k)
		}
	}
	for k := range d.layout {
		if k != parent && isDescendant(k, parent) {
			delete(d.layout, k)
		}
	}
	for id, o := range d.observed {
		if isDescendant(o.el.n, parent) && o.el.n != parent {
			delete(d.observed, id)
		}
	}
}

func (d *Document) wrap(n *html.Node) *node { return &node{d: d, n: n} }

func (d *Document) wrapAll(ns []*html.Node) []Element {
	out := make([]Element, 0, len(ns))
	for _, n := range ns {
		out = append(out, d.wrap(n))
	}
	return out
}

func isDescendant(n, ancestor *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

var selectors sync.Map // string -> cascadia.Selector

func compile(sel string) cascadia.Selector {
	if s, ok := selectors.Load(sel); ok {
		return s.(cascadia.Selector)
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil
	}
	selectors.Store(sel, s)
	return s
}

// queryAll matches descendants of n, excluding n itself.
func queryAll(n *html.Node, sel string) []*html.Node {
	s := compile(sel)
	if s == nil {
		return nil
	}
	var out []*html.Node
	for _, m := range s.MatchAll(n) {
		if m != n {
			out = append(out, m)
		}
	}
	return out
}

func queryFirst(n *html.Node, sel string) *html.Node {
	all := queryAll(n, sel)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

type mount struct {
	el *node
}

func (m *mount) Root() Element { return m.el }

func (m *mount) Replace(markup string) error {
	return m.el.SetInnerHTML(markup)
}

var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

func parseFragment(markup string) ([]*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), fragmentContext)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}
