// Package shell drives the page chrome that lives outside the view mount:
// the mobile navigation overlay and the sticky header.
package shell

import (
	"time"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/dom"
)

// Selectors of the chrome elements in the page layout.
const (
	MenuToggle = ".menu-toggle"
	NavOverlay = ".mobile-nav-overlay"
	Header     = ".site-header"
	// HeaderNav holds the header's route links.
	HeaderNav = "[data-nav] a"
)

// Querier finds elements; both documents and elements are Queriers.
type Querier interface {
	QuerySelector(sel string) dom.Element
}

// NavState is the visibility state of the mobile navigation overlay.
type NavState int

const (
	Closed NavState = iota
	Open
	Closing
)

func (s NavState) String() string {
	switch s {
	case Open:
		return "open"
	case Closing:
		return "closing"
	}
	return "closed"
}

const (
	FadeInDelay = 10 * time.Millisecond
	HideDelay   = 300 * time.Millisecond
)

// MobileNav toggles the overlay. Opening shows it and fades it in on the
// next tick; closing fades it out and hides it once the transition is over.
type MobileNav struct {
	sched   clock.Scheduler
	toggle  dom.Element
	overlay dom.Element
	state   NavState
	timer   clock.Timer
}

func NewMobileNav(sched clock.Scheduler) *MobileNav {
	return &MobileNav{sched: sched}
}

// Bind wires the toggle button and overlay links found in q. It reports
// false, and does nothing, when either element is missing.
func (m *MobileNav) Bind(q Querier) bool {
	toggle := q.QuerySelector(MenuToggle)
	overlay := q.QuerySelector(NavOverlay)
	if toggle == nil || overlay == nil {
		return false
	}
	m.toggle, m.overlay = toggle, overlay

	toggle.AddEventListener("click", func(*dom.Event) { m.Toggle() })
	for _, a := range overlay.QuerySelectorAll("a") {
		a.AddEventListener("click", func(*dom.Event) { m.Close() })
	}
	return true
}

// State reports the overlay state.
func (m *MobileNav) State() NavState { return m.state }

// Toggle opens a closed or closing overlay and closes an open one.
func (m *MobileNav) Toggle() {
	if m.overlay == nil {
		return
	}
	if m.state == Open {
		m.Close()
		return
	}
	m.cancel()
	m.state = Open
	m.toggle.AddClass("active")
	m.overlay.RemoveClass("hidden")
	m.timer = m.sched.AfterFunc(FadeInDelay, func() {
		m.timer = nil
		if m.state == Open {
			m.overlay.RemoveClass("opacity-0")
		}
	})
}

// Close fades the overlay out and hides it after HideDelay.
func (m *MobileNav) Close() {
	if m.overlay == nil || m.state != Open {
		return
	}
	m.cancel()
	m.state = Closing
	m.toggle.RemoveClass("active")
	m.overlay.AddClass("opacity-0")
	m.timer = m.sched.AfterFunc(HideDelay, func() {
		m.timer = nil
		if m.state == Closing {
			m.overlay.AddClass("hidden")
			m.state = Closed
		}
	})
}

func (m *MobileNav) cancel() {
	clock.StopAll(m.timer)
	m.timer = nil
}

// CondenseAt is the scroll offset past which the header condenses.
const CondenseAt = 50

var (
	relaxedClasses   = []string{"bg-primary/40", "py-5"}
	condensedClasses = []string{"bg-primary/90", "py-3"}
)

// HeaderController condenses the sticky header once the page scrolls.
type HeaderController struct {
	header     dom.Element
	condensed  bool
	stopScroll func()
}

// BindHeader applies the header state for the current offset and follows
// scrolling. It returns nil when the layout has no header.
func BindHeader(q Querier, vp dom.Viewport) *HeaderController {
	el := q.QuerySelector(Header)
	if el == nil || vp == nil {
		return nil
	}
	h := &HeaderController{header: el}
	h.apply(vp.ScrollY())
	h.stopScroll = vp.OnScroll(h.apply)
	return h
}

// Condensed reports whether the header is in its scrolled state.
func (h *HeaderController) Condensed() bool { return h.condensed }

// Close stops following scroll.
func (h *HeaderController) Close() {
	if h.stopScroll != nil {
		h.stopScroll()
		h.stopScroll = nil
	}
}

func (h *HeaderController) apply(y float64) {
	h.condensed = y > CondenseAt
	if h.condensed {
		h.header.AddClass(condensedClasses...)
		h.header.RemoveClass(relaxedClasses...)
	} else {
		h.header.AddClass(relaxedClasses...)
		h.header.RemoveClass(condensedClasses...)
	}
}

var (
	currentLinkClasses = []string{"text-accent"}
	idleLinkClasses    = []string{"text-white/70", "hover:text-white"}
)

// MarkCurrent highlights the header link to path and resets the others. An
// empty path, as for the not-found view, highlights nothing.
func MarkCurrent(q Querier, path string) {
	header := q.QuerySelector(Header)
	if header == nil {
		return
	}
	for _, a := range header.QuerySelectorAll(HeaderNav) {
		href, _ := a.Attr("href")
		if path != "" && href == path {
			a.AddClass(currentLinkClasses...)
			a.RemoveClass(idleLinkClasses...)
		} else {
			a.AddClass(idleLinkClasses...)
			a.RemoveClass(currentLinkClasses...)
		}
	}
}
