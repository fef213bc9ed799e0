// Package dom defines the slice of the browser document model the site
// engine drives: elements, events, the single view mount and the viewport.
//
// Two implementations exist. Document in this package is a headless,
// in-memory document used by tests and by server-side rendering checks; the
// jsdom subpackage binds the same contracts to the real browser through
// syscall/js.
package dom

import "errors"

// ErrNoMount is returned when the requested mount element does not exist.
var ErrNoMount = errors.New("dom: mount element not found")

// Element is a live element in a document.
type Element interface {
	Tag() string
	ID() string

	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)
	// Data reads a data-* attribute by its suffix, e.g. Data("speed") reads
	// data-speed.
	Data(key string) (string, bool)

	HasClass(name string) bool
	AddClass(names ...string)
	RemoveClass(names ...string)
	// ToggleClass flips name and reports whether it is now present.
	ToggleClass(name string) bool

	Text() string
	SetText(text string)
	InnerHTML() string
	// SetInnerHTML replaces the children of the element. Listeners on the
	// discarded children are destroyed with them.
	SetInnerHTML(markup string) error

	Style(prop string) string
	SetStyle(prop, value string)

	// Value and SetValue address the current value of form fields.
	Value() string
	SetValue(v string)

	// QuerySelector returns nil when nothing matches.
	QuerySelector(sel string) Element
	QuerySelectorAll(sel string) []Element

	AddEventListener(event string, fn Listener)
}

// Listener handles a dispatched event.
type Listener func(e *Event)

// Event is one dispatched DOM event.
type Event struct {
	Type   string
	Target Element

	prevented bool
	onPrevent func()
}

// NewEvent builds an event. onPrevent, when non-nil, is invoked the first
// time PreventDefault is called so bindings can forward it to a host event.
func NewEvent(typ string, target Element, onPrevent func()) *Event {
	return &Event{Type: typ, Target: target, onPrevent: onPrevent}
}

// PreventDefault cancels the host's default action for the event.
func (e *Event) PreventDefault() {
	if e.prevented {
		return
	}
	e.prevented = true
	if e.onPrevent != nil {
		e.onPrevent()
	}
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Mount is the single content region views are swapped into.
type Mount interface {
	// Replace swaps the region's content for markup in one step. Nothing is
	// changed when it returns an error.
	Replace(markup string) error
	Root() Element
}

// Margin grows (positive) or shrinks (negative) the viewport edges used for
// intersection tests, like the CSS rootMargin of an IntersectionObserver.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// ObserveOptions configures an intersection observation.
type ObserveOptions struct {
	Threshold  float64
	RootMargin Margin
}

// Entry reports the intersection state of an observed element.
type Entry struct {
	Target         Element
	IsIntersecting bool
	Ratio          float64
}

// Viewport exposes scroll position and element visibility.
type Viewport interface {
	ScrollY() float64
	// OnScroll calls fn with the new scroll offset on every scroll.
	OnScroll(fn func(y float64)) (cancel func())
	// Observe calls fn whenever el's intersection state changes, and once
	// right away with the current state.
	Observe(el Element, opts ObserveOptions, fn func(Entry)) (cancel func())
}
