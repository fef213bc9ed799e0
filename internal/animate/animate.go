// Package animate runs the transient effects of a mounted view: the hero
// typewriter, counters, reveal-on-scroll, parallax and the contact form
// confirmation.
//
// Every effect is owned by a Handle. Attach cancels all handles of the
// previous view before it creates any for the new one, and every scheduled
// continuation checks its handle before touching the document, so a view's
// effects never outlive its markup.
//
// A Controller is driven from a single event loop and is not safe for
// concurrent use.
package animate

import (
	"time"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/dom"
	"github.com/Zachkp/portfolio/internal/route"
)

// Selectors of animation targets in view markup.
const (
	TypingTarget   = "#typing-role"
	CounterTarget  = ".counter[data-target]"
	RevealTarget   = ".scroll-reveal"
	ParallaxTarget = ".parallax"
	ContactForm    = "form[data-contact]"
	RevealedClass  = "revealed"
)

// Config holds effect timings. Zero values are not defaulted; start from
// DefaultConfig.
type Config struct {
	Phrases []string

	TypeEvery time.Duration
	TypePause time.Duration

	CounterDelay    time.Duration
	CounterDuration time.Duration
	Frame           time.Duration

	RevealThreshold float64
	RevealMargin    dom.Margin

	ParallaxSpeed float64

	ConfirmFor time.Duration
}

// DefaultConfig returns the timings the site ships with.
func DefaultConfig() Config {
	return Config{
		TypeEvery:       80 * time.Millisecond,
		TypePause:       2 * time.Second,
		CounterDelay:    time.Second,
		CounterDuration: 2 * time.Second,
		Frame:           clock.FrameInterval,
		RevealThreshold: 0.1,
		RevealMargin:    dom.Margin{Bottom: -50},
		ParallaxSpeed:   0.5,
		ConfirmFor:      2 * time.Second,
	}
}

// Kind is the type of effect a Handle runs.
type Kind int

const (
	Typewriter Kind = iota
	Counter
	Reveal
	Parallax
	Confirmation
)

func (k Kind) String() string {
	switch k {
	case Typewriter:
		return "typewriter"
	case Counter:
		return "counter"
	case Reveal:
		return "reveal"
	case Parallax:
		return "parallax"
	case Confirmation:
		return "confirmation"
	}
	return "unknown"
}

// Handle is one running effect.
type Handle struct {
	kind      Kind
	cancelled bool
	done      bool
	timer     clock.Timer
	release   func()
}

func (h *Handle) Kind() Kind { return h.kind }

// Live reports whether the effect may still act.
func (h *Handle) Live() bool { return !h.cancelled && !h.done }

func (h *Handle) cancel() {
	if h.cancelled {
		return
	}
	h.cancelled = true
	h.stop()
}

// finish marks a one-shot effect complete.
func (h *Handle) finish() {
	h.done = true
	h.stop()
}

func (h *Handle) stop() {
	clock.StopAll(h.timer)
	h.timer = nil
	if h.release != nil {
		h.release()
		h.release = nil
	}
}

// Controller owns the effects of the mounted view.
type Controller struct {
	sched    clock.Scheduler
	viewport dom.Viewport
	cfg      Config

	handles []*Handle

	typer   *TypeMachine
	contact *contactBinding

	parallaxTargets []dom.Element
	stopScroll      func()
}

// New returns a controller. viewport may be nil, which disables reveal and
// parallax.
func New(sched clock.Scheduler, viewport dom.Viewport, cfg Config) *Controller {
	return &Controller{sched: sched, viewport: viewport, cfg: cfg}
}

// SetPhrases replaces the typewriter phrases used from the next attach on.
func (c *Controller) SetPhrases(phrases []string) {
	c.cfg.Phrases = append([]string(nil), phrases...)
}

// Attach tears down the previous view's effects and starts the effects
// found under root, the freshly mounted markup of view r.
func (c *Controller) Attach(r route.Route, root dom.Element) {
	c.Teardown()
	if root == nil {
		return
	}
	if r == route.Home {
		c.startTypewriter(root)
	}
	c.startCounters(root)
	c.startReveal(root)
	c.bindParallax(root)
	c.bindContact(root)
}

// Teardown cancels every outstanding effect. No cancelled effect performs
// another side effect.
func (c *Controller) Teardown() {
	for _, h := range c.handles {
		h.cancel()
	}
	c.handles = nil
	c.typer = nil
	c.contact = nil
	c.parallaxTargets = nil
}

// Close tears down and drops the persistent scroll listener.
func (c *Controller) Close() {
	c.Teardown()
	if c.stopScroll != nil {
		c.stopScroll()
		c.stopScroll = nil
	}
}

// Active counts live handles of kind k.
func (c *Controller) Active(k Kind) int {
	n := 0
	for _, h := range c.handles {
		if h.kind == k && h.Live() {
			n++
		}
	}
	return n
}

// Handles returns the live handles in creation order.
func (c *Controller) Handles() []*Handle {
	var out []*Handle
	for _, h := range c.handles {
		if h.Live() {
			out = append(out, h)
		}
	}
	return out
}

// TypewriterStatus is a snapshot of the running typewriter.
type TypewriterStatus struct {
	Phrase int
	Chars  int
	State  TypeState
}

// Typewriter reports the running typewriter, if any.
func (c *Controller) Typewriter() (TypewriterStatus, bool) {
	if c.typer == nil {
		return TypewriterStatus{}, false
	}
	return TypewriterStatus{Phrase: c.typer.Phrase(), Chars: c.typer.Chars(), State: c.typer.State()}, true
}

func (c *Controller) track(k Kind) *Handle {
	h := &Handle{kind: k}
	c.handles = append(c.handles, h)
	return h
}

func (c *Controller) startTypewriter(root dom.Element) {
	el := root.QuerySelector(TypingTarget)
	if el == nil || len(c.cfg.Phrases) == 0 {
		return
	}
	h := c.track(Typewriter)
	m := NewTypeMachine(c.cfg.Phrases, c.cfg.TypeEvery, c.cfg.TypePause)
	c.typer = m

	var tick func()
	tick = func() {
		if !h.Live() {
			return
		}
		text, wait := m.Step()
		el.SetText(text)
		h.timer = c.sched.AfterFunc(wait, tick)
	}
	el.SetText("")
	h.timer = c.sched.AfterFunc(0, tick)
}

func (c *Controller) startCounters(root dom.Element) {
	for _, el := range root.QuerySelectorAll(CounterTarget) {
		raw, _ := el.Data("target")
		target, ok := ParseTarget(raw)
		if !ok {
			continue
		}
		h := c.track(Counter)
		m := NewCounterMachine(target, c.cfg.CounterDuration, c.cfg.Frame)

		var frame func()
		frame = func() {
			if !h.Live() {
				return
			}
			text, done := m.Step()
			el.SetText(text)
			if done {
				h.finish()
				return
			}
			h.timer = c.sched.RequestFrame(frame)
		}
		h.timer = c.sched.AfterFunc(c.cfg.CounterDelay, frame)
	}
}

func (c *Controller) startReveal(root dom.Element) {
	if c.viewport == nil {
		return
	}
	opts := dom.ObserveOptions{Threshold: c.cfg.RevealThreshold, RootMargin: c.cfg.RevealMargin}
	for _, el := range root.QuerySelectorAll(RevealTarget) {
		h := c.track(Reveal)
		stop := c.viewport.Observe(el, opts, func(e dom.Entry) {
			// Browsers report any overlap as intersecting, even below the
			// threshold.
			if !h.Live() || !e.IsIntersecting || e.Ratio < opts.Threshold {
				return
			}
			delay, ok := el.Data("delay")
			if !ok || delay == "" {
				delay = "0s"
			}
			el.SetStyle("transition-delay", delay)
			el.AddClass(RevealedClass)
			h.finish()
		})
		// Observe may report synchronously and finish the handle first.
		if h.Live() {
			h.release = stop
		} else {
			stop()
		}
	}
}
