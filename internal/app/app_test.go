package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Zachkp/portfolio/internal/animate"
	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/dom"
	"github.com/Zachkp/portfolio/internal/route"
	"github.com/Zachkp/portfolio/internal/shell"
	"github.com/Zachkp/portfolio/internal/view"
)

type harness struct {
	t       *testing.T
	doc     *dom.Document
	clk     *clock.Fake
	history *route.MemoryHistory
	app     *App
}

// start boots the app on a server-rendered page for path, as a browser
// would load it.
func start(t *testing.T, path string) *harness {
	t.Helper()
	return boot(t, path, nil)
}

// boot is start with the mount optionally wrapped.
func boot(t *testing.T, path string, wrap func(dom.Mount) dom.Mount) *harness {
	t.Helper()
	renderer := view.MustNew()
	site := content.MustDefault()
	page, err := renderer.Page(route.Lookup(path), site, false)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := dom.Parse(page)
	if err != nil {
		t.Fatal(err)
	}
	m, err := doc.Mount(view.MountID)
	if err != nil {
		t.Fatal(err)
	}
	if wrap != nil {
		m = wrap(m)
	}
	clk := clock.NewFake()
	h := route.NewMemoryHistory(path)
	a := New(Options{
		Mount:     m,
		History:   h,
		Scheduler: clk,
		Viewport:  doc,
		Chrome:    doc,
		Content:   content.Static(site),
		Renderer:  renderer,
	})
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	return &harness{t: t, doc: doc, clk: clk, history: h, app: a}
}

func (h *harness) click(sel string) {
	h.t.Helper()
	el := h.doc.QuerySelector(sel)
	if el == nil {
		h.t.Fatalf("nothing matches %s", sel)
	}
	if ev := h.doc.Click(el); !ev.DefaultPrevented() {
		h.t.Fatalf("click on %s was not intercepted", sel)
	}
}

func TestStartMountsCurrentLocation(t *testing.T) {
	h := start(t, "/skills")
	if h.app.Current() != route.Skills {
		t.Fatalf("current = %v", h.app.Current())
	}
	if !strings.Contains(h.doc.ByID(view.MountID).Text(), "Technical Skills") {
		t.Fatal("skills view not mounted")
	}
}

func TestHomeProjectsHomeLeavesOneTypewriter(t *testing.T) {
	h := start(t, "/")
	h.clk.Advance(700 * time.Millisecond)

	h.app.Navigate("/projects")
	if n := h.app.Animations().Active(animate.Typewriter); n != 0 {
		t.Fatalf("%d typewriters on projects", n)
	}
	h.app.Navigate("/")

	anim := h.app.Animations()
	if n := anim.Active(animate.Typewriter); n != 1 {
		t.Fatalf("%d typewriters after returning home, want 1", n)
	}
	st, ok := anim.Typewriter()
	if !ok || st.Phrase != 0 || st.Chars != 0 || st.State != animate.Typing {
		t.Fatalf("typewriter state %+v, want fresh", st)
	}

	h.clk.Advance(0)
	typing := h.doc.QuerySelector(animate.TypingTarget)
	if got := typing.Text(); got != "S" {
		t.Fatalf("typing text = %q, want first rune of the first phrase", got)
	}
	if got := strings.Join(h.history.Entries, " "); got != "/ /projects /" {
		t.Fatalf("history = %s", got)
	}
}

func TestLeavingHomeStopsEveryTimer(t *testing.T) {
	h := start(t, "/")
	h.clk.Advance(300 * time.Millisecond)
	h.app.Navigate("/about")
	if n := h.clk.Pending(); n != 0 {
		t.Fatalf("%d timers outlived the home view", n)
	}
	h.clk.Advance(10 * time.Second)
	if h.doc.QuerySelector(animate.TypingTarget) != nil {
		t.Fatal("home markup still mounted")
	}
}

func TestCountersReachStats(t *testing.T) {
	h := start(t, "/")
	h.clk.Advance(4 * time.Second)
	var got []string
	for _, el := range h.doc.QuerySelectorAll(animate.CounterTarget) {
		got = append(got, el.Text())
	}
	if strings.Join(got, ",") != "3.8,4" {
		t.Fatalf("counters = %v", got)
	}
}

func TestMountedLinksNavigate(t *testing.T) {
	h := start(t, "/")
	h.click(`#app-content a[href="/projects"]`)
	if h.app.Current() != route.Projects {
		t.Fatalf("current = %v", h.app.Current())
	}
	// Links of the new view are bound after the remount.
	h.app.Navigate("/nowhere")
	if h.app.Current() != route.NotFound {
		t.Fatalf("current = %v", h.app.Current())
	}
	h.click(`#app-content a[href="/"]`)
	if h.app.Current() != route.Home {
		t.Fatalf("current = %v", h.app.Current())
	}
}

func TestChromeLinksNavigate(t *testing.T) {
	h := start(t, "/")
	h.click(`.site-header a[href="/contact"]`)
	if h.app.Current() != route.Contact {
		t.Fatalf("current = %v", h.app.Current())
	}

	h.doc.Click(h.doc.QuerySelector(shell.MenuToggle))
	h.clk.Advance(shell.FadeInDelay)
	if h.app.MobileNav().State() != shell.Open {
		t.Fatal("mobile nav did not open")
	}
	h.click(`.mobile-nav-overlay a[href="/about"]`)
	if h.app.Current() != route.About {
		t.Fatalf("current = %v", h.app.Current())
	}
	h.clk.Advance(shell.HideDelay)
	if h.app.MobileNav().State() != shell.Closed {
		t.Fatal("mobile nav did not close after navigating")
	}
}

func TestContactConfirmationResets(t *testing.T) {
	h := start(t, "/contact")
	for _, id := range []string{"contact-name", "contact-email", "contact-subject", "contact-message"} {
		h.doc.ByID(id).SetValue("x")
	}
	form := h.doc.QuerySelector(animate.ContactForm)
	button := form.QuerySelector(`button[type="submit"]`)

	if ev := h.doc.Submit(form); !ev.DefaultPrevented() {
		t.Fatal("submit not prevented")
	}
	if !strings.Contains(button.Text(), "Message Sent Successfully!") || !button.HasClass("bg-green-500") {
		t.Fatalf("button = %q", button.InnerHTML())
	}

	h.clk.Advance(2 * time.Second)
	if !strings.Contains(button.Text(), "Send Message") || !button.HasClass("from-accent") {
		t.Fatalf("button not restored: %q", button.InnerHTML())
	}
	for _, id := range []string{"contact-name", "contact-email", "contact-subject", "contact-message"} {
		if v := h.doc.ByID(id).Value(); v != "" {
			t.Errorf("%s = %q after reset", id, v)
		}
	}
	if h.app.Animations().ContactState() != animate.Idle {
		t.Fatal("contact form not idle")
	}
}

func TestBackResolvesPreviousView(t *testing.T) {
	h := start(t, "/")
	h.app.Navigate("/skills")
	h.history.Back()
	h.app.Resolve()
	if h.app.Current() != route.Home {
		t.Fatalf("current = %v", h.app.Current())
	}
}

func TestHeaderFollowsScroll(t *testing.T) {
	h := start(t, "/")
	h.doc.ScrollTo(120)
	if !h.app.Header().Condensed() {
		t.Fatal("header not condensed")
	}
	h.app.Close()
	if n := h.doc.ScrollListeners(); n != 0 {
		t.Fatalf("%d scroll listeners after Close", n)
	}
}

func TestStartWithoutMount(t *testing.T) {
	a := New(Options{History: route.NewMemoryHistory("/"), Scheduler: clock.NewFake()})
	if err := a.Start(); !errors.Is(err, dom.ErrNoMount) {
		t.Fatalf("err = %v", err)
	}
}

type refusingMount struct {
	dom.Mount
	err error
}

func (m *refusingMount) Replace(markup string) error {
	if m.err != nil {
		return m.err
	}
	return m.Mount.Replace(markup)
}

func TestFailedMountKeepsPreviousViewRunning(t *testing.T) {
	var rm *refusingMount
	h := boot(t, "/", func(m dom.Mount) dom.Mount {
		rm = &refusingMount{Mount: m}
		return rm
	})
	rm.err = errors.New("mount refused")

	if err := h.app.Show(route.Projects); err == nil {
		t.Fatal("show succeeded on a refusing mount")
	}
	if h.app.Current() != route.Home {
		t.Fatalf("current = %v after failed show", h.app.Current())
	}
	if h.app.Animations().Active(animate.Typewriter) != 1 {
		t.Fatal("home typewriter torn down by a failed show")
	}
	h.clk.Advance(time.Second)
	if h.doc.ByID("typing-role").Text() == "" {
		t.Fatal("home typewriter stopped typing")
	}
}

func TestHeaderMarksCurrentRoute(t *testing.T) {
	h := start(t, "/skills")
	current := func(path string) bool {
		el := h.doc.QuerySelector(`.site-header [data-nav] a[href="` + path + `"]`)
		if el == nil {
			t.Fatalf("no header link to %s", path)
		}
		return el.HasClass("text-accent")
	}
	if !current("/skills") {
		t.Fatal("server-rendered highlight lost on start")
	}

	h.app.Navigate("/projects")
	if !current("/projects") || current("/skills") {
		t.Fatal("highlight did not follow navigation")
	}

	h.app.Navigate("/missing")
	for _, rt := range route.All {
		if current(rt.Path()) {
			t.Fatalf("%s highlighted on the not-found view", rt.Path())
		}
	}
}
