package route

import (
	"strings"

	"github.com/Zachkp/portfolio/internal/dom"
)

// LinkAttr marks anchors the router takes over.
const LinkAttr = "data-link"

// History is the browser location the router reads and writes.
type History interface {
	Path() string
	Push(path string)
}

// Handler renders the view for a matched path.
type Handler func()

// Router dispatches exact path matches to handlers.
type Router struct {
	history  History
	handlers map[string]Handler
	notFound Handler
	current  string
}

// New returns a router over h with no handlers.
func New(h History) *Router {
	return &Router{history: h, handlers: make(map[string]Handler)}
}

// On registers fn for path.
func (r *Router) On(path string, fn Handler) *Router {
	r.handlers[Normalize(path)] = fn
	return r
}

// NotFound registers the fallback for unmatched paths.
func (r *Router) NotFound(fn Handler) *Router {
	r.notFound = fn
	return r
}

// Resolve dispatches for the current location. It reports whether any
// handler ran; with nothing registered nothing is mounted.
func (r *Router) Resolve() bool {
	return r.dispatch(r.history.Path())
}

// Navigate records path in the history and dispatches it.
func (r *Router) Navigate(path string) bool {
	path = Normalize(path)
	if path != Normalize(r.history.Path()) {
		r.history.Push(path)
	}
	return r.dispatch(path)
}

// Current is the path of the last dispatch.
func (r *Router) Current() string { return r.current }

// UpdatePageLinks intercepts clicks on every router link under root. It
// must run after each mount because the previous links died with their
// markup.
func (r *Router) UpdatePageLinks(root dom.Element) {
	if root == nil {
		return
	}
	for _, a := range root.QuerySelectorAll("a[" + LinkAttr + "]") {
		href, ok := a.Attr("href")
		if !ok || !isLocal(href) {
			continue
		}
		a.AddEventListener("click", func(e *dom.Event) {
			e.PreventDefault()
			r.Navigate(href)
		})
	}
}

func (r *Router) dispatch(path string) bool {
	path = Normalize(path)
	fn, ok := r.handlers[path]
	if !ok {
		fn = r.notFound
	}
	if fn == nil {
		return false
	}
	r.current = path
	fn()
	return true
}

func isLocal(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
}

// MemoryHistory is an in-process History.
type MemoryHistory struct {
	Entries []string
}

// NewMemoryHistory starts at path.
func NewMemoryHistory(path string) *MemoryHistory {
	return &MemoryHistory{Entries: []string{path}}
}

func (m *MemoryHistory) Path() string { return m.Entries[len(m.Entries)-1] }

func (m *MemoryHistory) Push(path string) { m.Entries = append(m.Entries, path) }

// Back drops the newest entry, like the browser back button. The caller
// re-resolves afterwards, as a popstate handler would.
func (m *MemoryHistory) Back() {
	if len(m.Entries) > 1 {
		m.Entries = m.Entries[:len(m.Entries)-1]
	}
}
