//go:build js && wasm

// Package jsdom binds the dom contracts to the browser through syscall/js.
package jsdom

import (
	"fmt"
	"strings"
	"syscall/js"
	"time"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/dom"
)

// Window is the browser window, document and history.
type Window struct {
	win   js.Value
	doc   js.Value
	funcs *funcSet[js.Value]
}

// Global returns the current browser window.
func Global() *Window {
	w := js.Global()
	return &Window{win: w, doc: w.Get("document"), funcs: &funcSet[js.Value]{}}
}

// ByID returns the element with the given id, or nil.
func (w *Window) ByID(id string) dom.Element {
	return wrap(w.doc.Call("getElementById", id), w.funcs)
}

// QuerySelector searches the whole document.
func (w *Window) QuerySelector(sel string) dom.Element {
	return wrap(w.doc.Call("querySelector", sel), w.funcs)
}

// Mount returns the mount region backed by the element with the given id.
func (w *Window) Mount(id string) (dom.Mount, error) {
	el := w.ByID(id)
	if el == nil {
		return nil, fmt.Errorf("%w: #%s", dom.ErrNoMount, id)
	}
	return &mount{el: el.(*element)}, nil
}

// Path implements route.History.
func (w *Window) Path() string {
	return w.win.Get("location").Get("pathname").String()
}

// Push implements route.History.
func (w *Window) Push(path string) {
	w.win.Get("history").Call("pushState", js.Null(), "", path)
}

// OnPopState calls fn after history traversal.
func (w *Window) OnPopState(fn func()) {
	w.win.Call("addEventListener", "popstate", js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	}))
}

// ScrollY implements dom.Viewport.
func (w *Window) ScrollY() float64 {
	return w.win.Get("scrollY").Float()
}

// OnScroll implements dom.Viewport.
func (w *Window) OnScroll(fn func(y float64)) func() {
	f := js.FuncOf(func(js.Value, []js.Value) any {
		fn(w.ScrollY())
		return nil
	})
	w.win.Call("addEventListener", "scroll", f)
	return func() {
		w.win.Call("removeEventListener", "scroll", f)
		f.Release()
	}
}

// Observe implements dom.Viewport with an IntersectionObserver per call.
func (w *Window) Observe(el dom.Element, opts dom.ObserveOptions, fn func(dom.Entry)) func() {
	e, ok := el.(*element)
	if !ok {
		return func() {}
	}
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		entries := args[0]
		for i := 0; i < entries.Length(); i++ {
			en := entries.Index(i)
			fn(dom.Entry{
				Target:         e,
				IsIntersecting: en.Get("isIntersecting").Bool(),
				Ratio:          en.Get("intersectionRatio").Float(),
			})
		}
		return nil
	})
	m := opts.RootMargin
	init := map[string]any{
		"threshold":  opts.Threshold,
		"rootMargin": fmt.Sprintf("%gpx %gpx %gpx %gpx", m.Top, m.Right, m.Bottom, m.Left),
	}
	obs := js.Global().Get("IntersectionObserver").New(cb, init)
	obs.Call("observe", e.v)
	return func() {
		obs.Call("disconnect")
		cb.Release()
	}
}

// Scheduler returns a clock.Scheduler over setTimeout and
// requestAnimationFrame. Callbacks run on the browser event loop.
func (w *Window) Scheduler() clock.Scheduler {
	return scheduler{win: w.win}
}

type scheduler struct {
	win js.Value
}

type jsTimer struct {
	cancel func()
	done   bool
}

func (t *jsTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.cancel()
	return true
}

func (s scheduler) AfterFunc(d time.Duration, fn func()) clock.Timer {
	t := &jsTimer{}
	var f js.Func
	f = js.FuncOf(func(js.Value, []js.Value) any {
		f.Release()
		if t.done {
			return nil
		}
		t.done = true
		fn()
		return nil
	})
	id := s.win.Call("setTimeout", f, d.Milliseconds())
	t.cancel = func() {
		s.win.Call("clearTimeout", id)
		f.Release()
	}
	return t
}

func (s scheduler) RequestFrame(fn func()) clock.Timer {
	t := &jsTimer{}
	var f js.Func
	f = js.FuncOf(func(js.Value, []js.Value) any {
		f.Release()
		if t.done {
			return nil
		}
		t.done = true
		fn()
		return nil
	})
	id := s.win.Call("requestAnimationFrame", f)
	t.cancel = func() {
		s.win.Call("cancelAnimationFrame", id)
		f.Release()
	}
	return t
}

type mount struct {
	el *element
}

func (m *mount) Root() dom.Element { return m.el }

func (m *mount) Replace(markup string) error { return m.el.SetInnerHTML(markup) }

type element struct {
	v     js.Value
	funcs *funcSet[js.Value]
}

func wrap(v js.Value, funcs *funcSet[js.Value]) dom.Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &element{v: v, funcs: funcs}
}

func (e *element) Tag() string { return strings.ToLower(e.v.Get("tagName").String()) }
func (e *element) ID() string  { return e.v.Get("id").String() }

func (e *element) Attr(name string) (string, bool) {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (e *element) SetAttr(name, value string) { e.v.Call("setAttribute", name, value) }
func (e *element) RemoveAttr(name string)     { e.v.Call("removeAttribute", name) }

func (e *element) Data(key string) (string, bool) { return e.Attr("data-" + key) }

func (e *element) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

func (e *element) AddClass(names ...string) {
	for _, n := range names {
		e.v.Get("classList").Call("add", n)
	}
}

func (e *element) RemoveClass(names ...string) {
	for _, n := range names {
		e.v.Get("classList").Call("remove", n)
	}
}

func (e *element) ToggleClass(name string) bool {
	return e.v.Get("classList").Call("toggle", name).Bool()
}

func (e *element) Text() string        { return e.v.Get("textContent").String() }
func (e *element) SetText(text string) { e.v.Set("textContent", text) }
func (e *element) InnerHTML() string   { return e.v.Get("innerHTML").String() }

// SetInnerHTML goes through a template element so the markup is fully
// parsed before the live children are swapped. Listeners registered on the
// old children are released first.
func (e *element) SetInnerHTML(markup string) error {
	tpl := js.Global().Get("document").Call("createElement", "template")
	tpl.Set("innerHTML", markup)
	e.funcs.releaseWhere(func(n js.Value) bool {
		return !n.Equal(e.v) && e.v.Call("contains", n).Bool()
	})
	e.v.Call("replaceChildren", tpl.Get("content"))
	return nil
}

func (e *element) Style(prop string) string {
	return e.v.Get("style").Call("getPropertyValue", prop).String()
}

func (e *element) SetStyle(prop, value string) {
	e.v.Get("style").Call("setProperty", prop, value)
}

func (e *element) Value() string     { return e.v.Get("value").String() }
func (e *element) SetValue(v string) { e.v.Set("value", v) }

func (e *element) QuerySelector(sel string) dom.Element {
	return wrap(e.v.Call("querySelector", sel), e.funcs)
}

func (e *element) QuerySelectorAll(sel string) []dom.Element {
	list := e.v.Call("querySelectorAll", sel)
	out := make([]dom.Element, 0, list.Length())
	for i := 0; i < list.Length(); i++ {
		out = append(out, &element{v: list.Index(i), funcs: e.funcs})
	}
	return out
}

// AddEventListener registers fn until an ancestor's markup is replaced.
// Listeners on nodes that are never replaced live as long as the page.
func (e *element) AddEventListener(event string, fn dom.Listener) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		host := args[0]
		fn(dom.NewEvent(event, wrap(host.Get("target"), e.funcs), func() { host.Call("preventDefault") }))
		return nil
	})
	node := e.v
	node.Call("addEventListener", event, f)
	e.funcs.add(node, func() {
		node.Call("removeEventListener", event, f)
		f.Release()
	})
}
