package animate

import (
	"strings"
	"testing"
	"time"

	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/dom"
	"github.com/Zachkp/portfolio/internal/route"
)

const shell = `<!DOCTYPE html><html><body><main id="app-content"></main></body></html>`

const homeMarkup = `<section>
<span id="typing-role"></span>
<div class="counter" data-target="3.75">0</div>
<div class="counter" data-target="900">0</div>
<div class="counter" data-target="A+">A+</div>
<div id="r1" class="scroll-reveal" data-delay="0.2s">one</div>
</section>`

const projectsMarkup = `<section>
<div id="card" class="scroll-reveal">card</div>
<div id="bg" class="parallax" data-speed="0.5"></div>
<div id="bg2" class="parallax" data-speed="oops"></div>
</section>`

const contactMarkup = `<section>
<form id="contact" data-contact>
<input id="name" type="text"><input id="email" type="email">
<textarea id="msg"></textarea>
<button type="submit" class="bg-gradient-to-r from-accent to-pink-500">Send Message</button>
</form>
</section>`

type fixture struct {
	t     *testing.T
	doc   *dom.Document
	mount dom.Mount
	clk   *clock.Fake
	ctl   *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc := dom.MustParse(shell)
	m, err := doc.Mount("app-content")
	if err != nil {
		t.Fatal(err)
	}
	clk := clock.NewFake()
	cfg := DefaultConfig()
	cfg.Phrases = []string{"A", "BB"}
	return &fixture{t: t, doc: doc, mount: m, clk: clk, ctl: New(clk, doc, cfg)}
}

// show mirrors the app's navigation order: teardown, mount, attach.
func (f *fixture) show(r route.Route, markup string) {
	f.t.Helper()
	f.ctl.Teardown()
	if err := f.mount.Replace(markup); err != nil {
		f.t.Fatal(err)
	}
	f.ctl.Attach(r, f.mount.Root())
}

func (f *fixture) byID(id string) dom.Element {
	f.t.Helper()
	el := f.doc.ByID(id)
	if el == nil {
		f.t.Fatalf("#%s not mounted", id)
	}
	return el
}

func TestPreviousViewNeverTicksAfterNavigation(t *testing.T) {
	f := newFixture(t)
	f.show(route.Home, homeMarkup)
	typing := f.byID("typing-role")
	counters := f.mount.Root().QuerySelectorAll(".counter")

	f.clk.Advance(1100 * time.Millisecond)
	typed := typing.Text()
	values := []string{counters[0].Text(), counters[1].Text()}
	if typed == "" {
		t.Fatal("typewriter never ran")
	}

	f.show(route.Projects, projectsMarkup)
	f.clk.Advance(30 * time.Second)

	if typing.Text() != typed {
		t.Fatalf("stale typewriter wrote %q after navigation (had %q)", typing.Text(), typed)
	}
	if counters[0].Text() != values[0] || counters[1].Text() != values[1] {
		t.Fatalf("stale counters moved: %q %q", counters[0].Text(), counters[1].Text())
	}
	if f.clk.Pending() != 0 {
		t.Fatalf("%d timers still scheduled for a view without timed effects", f.clk.Pending())
	}
}

func TestHomeProjectsHomeRestartsSingleTypewriter(t *testing.T) {
	f := newFixture(t)
	f.show(route.Home, homeMarkup)
	f.clk.Advance(3 * time.Second)
	if st, _ := f.ctl.Typewriter(); st.Phrase == 0 && st.Chars == 0 {
		t.Fatal("typewriter did not progress")
	}

	f.show(route.Projects, projectsMarkup)
	if f.ctl.Active(Typewriter) != 0 {
		t.Fatal("typewriter active on projects")
	}
	f.show(route.Home, homeMarkup)

	if n := f.ctl.Active(Typewriter); n != 1 {
		t.Fatalf("active typewriters = %d, want 1", n)
	}
	st, ok := f.ctl.Typewriter()
	if !ok || st.Phrase != 0 || st.Chars != 0 || st.State != Typing {
		t.Fatalf("typewriter restarted at %+v", st)
	}
	f.clk.Advance(0)
	if got := f.byID("typing-role").Text(); got != "A" {
		t.Fatalf("first tick typed %q", got)
	}
}

func TestTypewriterOnlyOnHome(t *testing.T) {
	f := newFixture(t)
	f.show(route.About, homeMarkup)
	if f.ctl.Active(Typewriter) != 0 {
		t.Fatal("typewriter started outside home")
	}
	if f.ctl.Active(Counter) != 2 {
		t.Fatalf("counters = %d, want 2 numeric", f.ctl.Active(Counter))
	}
}

func TestCountersFinishOnExactTarget(t *testing.T) {
	f := newFixture(t)
	f.show(route.Home, homeMarkup)
	counters := f.mount.Root().QuerySelectorAll(".counter")

	f.clk.Advance(999 * time.Millisecond)
	if counters[0].Text() != "0" {
		t.Fatalf("counter started before its delay: %q", counters[0].Text())
	}
	f.clk.Advance(100 * time.Millisecond)
	mid := counters[0].Text()
	if mid == "0" || mid == "3.75" || !strings.Contains(mid, ".") {
		t.Fatalf("mid-flight decimal counter = %q", mid)
	}
	f.clk.Advance(5 * time.Second)
	if counters[0].Text() != "3.75" || counters[1].Text() != "900" || counters[2].Text() != "A+" {
		t.Fatalf("final counters %q %q %q", counters[0].Text(), counters[1].Text(), counters[2].Text())
	}
	if f.ctl.Active(Counter) != 0 {
		t.Fatal("finished counters still active")
	}
}

func TestRevealIsOneWay(t *testing.T) {
	f := newFixture(t)
	f.doc.SetViewportHeight(600)
	f.show(route.Home, homeMarkup)
	r1 := f.byID("r1")
	f.doc.SetLayout(r1, dom.Rect{Top: 2000, Height: 200})

	if r1.HasClass(RevealedClass) {
		t.Fatal("revealed while off screen")
	}
	f.doc.ScrollTo(1500)
	if !r1.HasClass(RevealedClass) {
		t.Fatal("not revealed once in view")
	}
	if got := r1.Style("transition-delay"); got != "0.2s" {
		t.Fatalf("transition-delay = %q", got)
	}
	f.doc.ScrollTo(0)
	if !r1.HasClass(RevealedClass) {
		t.Fatal("reveal reversed after leaving the viewport")
	}
	if f.doc.Observations() != 0 {
		t.Fatalf("%d observations left after reveal", f.doc.Observations())
	}
}

func TestRevealDefaultDelayAndTeardownReleasesObservers(t *testing.T) {
	f := newFixture(t)
	f.show(route.Projects, projectsMarkup)
	card := f.byID("card")
	f.doc.SetLayout(card, dom.Rect{Top: 100, Height: 100})
	if !card.HasClass(RevealedClass) || card.Style("transition-delay") != "0s" {
		t.Fatalf("card class=%v delay=%q", card.HasClass(RevealedClass), card.Style("transition-delay"))
	}

	f.show(route.Home, homeMarkup)
	if f.doc.Observations() != 1 {
		t.Fatalf("observations = %d, want only the home reveal", f.doc.Observations())
	}
	f.ctl.Teardown()
	if f.doc.Observations() != 0 {
		t.Fatal("teardown left observations behind")
	}
}

// browserViewport reports entries the way an IntersectionObserver does:
// any overlap counts as intersecting, whatever the threshold.
type browserViewport struct {
	*dom.Document
	report []func(dom.Entry)
}

func (v *browserViewport) Observe(el dom.Element, opts dom.ObserveOptions, fn func(dom.Entry)) func() {
	v.report = append(v.report, fn)
	return func() {}
}

func TestRevealWaitsForThresholdOnBrowserEntries(t *testing.T) {
	doc := dom.MustParse(shell)
	m, err := doc.Mount("app-content")
	if err != nil {
		t.Fatal(err)
	}
	vp := &browserViewport{Document: doc}
	ctl := New(clock.NewFake(), vp, DefaultConfig())
	if err := m.Replace(`<div id="r" class="scroll-reveal">r</div>`); err != nil {
		t.Fatal(err)
	}
	ctl.Attach(route.About, m.Root())
	if len(vp.report) != 1 {
		t.Fatalf("observed %d elements", len(vp.report))
	}
	r := doc.ByID("r")

	vp.report[0](dom.Entry{Target: r, IsIntersecting: true, Ratio: 0.05})
	if r.HasClass(RevealedClass) {
		t.Fatal("revealed at 5% with a 10% threshold")
	}
	if ctl.Active(Reveal) != 1 {
		t.Fatal("reveal released before crossing the threshold")
	}

	vp.report[0](dom.Entry{Target: r, IsIntersecting: true, Ratio: 0.1})
	if !r.HasClass(RevealedClass) {
		t.Fatal("not revealed at the threshold")
	}
}

func TestParallaxOffsets(t *testing.T) {
	f := newFixture(t)
	f.show(route.Projects, projectsMarkup)
	bg, bg2 := f.byID("bg"), f.byID("bg2")

	f.doc.ScrollTo(200)
	if got := bg.Style("transform"); got != "translateY(100px)" {
		t.Fatalf("transform at 200 = %q", got)
	}
	if got := bg2.Style("transform"); got != "translateY(100px)" {
		t.Fatalf("unparsable speed should default to 0.5, got %q", got)
	}
	f.doc.ScrollTo(0)
	if got := bg.Style("transform"); got != "translateY(0px)" {
		t.Fatalf("transform at 0 = %q", got)
	}

	f.show(route.Home, homeMarkup)
	f.doc.ScrollTo(400)
	if got := bg.Style("transform"); got != "translateY(0px)" {
		t.Fatalf("detached parallax element moved: %q", got)
	}
	f.show(route.Projects, projectsMarkup)
	if f.doc.ScrollListeners() != 1 {
		t.Fatalf("scroll listeners = %d, want one persistent listener", f.doc.ScrollListeners())
	}
	f.doc.ScrollTo(50)
	if got := f.byID("bg").Style("transform"); got != "translateY(25px)" {
		t.Fatalf("rebound target transform = %q", got)
	}
	f.ctl.Close()
	if f.doc.ScrollListeners() != 0 {
		t.Fatal("close kept the scroll listener")
	}
}

func TestContactConfirmationResets(t *testing.T) {
	f := newFixture(t)
	f.show(route.Contact, contactMarkup)
	f.byID("name").SetValue("Ada")
	f.byID("email").SetValue("ada@example.com")
	f.byID("msg").SetValue("Hello there")
	button := f.mount.Root().QuerySelector(`button[type="submit"]`)
	original := button.InnerHTML()

	ev := f.doc.Submit(f.byID("contact"))
	if !ev.DefaultPrevented() {
		t.Fatal("form submission not prevented")
	}
	if f.ctl.ContactState() != Confirming {
		t.Fatal("not confirming after submit")
	}
	if !strings.Contains(button.Text(), "Message Sent") || !button.HasClass("bg-green-500") {
		t.Fatalf("button = %q", button.InnerHTML())
	}

	f.clk.Advance(1999 * time.Millisecond)
	if f.ctl.ContactState() != Confirming {
		t.Fatal("reset too early")
	}
	f.clk.Advance(time.Millisecond)
	if f.ctl.ContactState() != Idle {
		t.Fatal("still confirming after delay")
	}
	if button.InnerHTML() != original || button.HasClass("bg-green-500") || !button.HasClass("from-accent") {
		t.Fatalf("button not restored: %q class=%q", button.InnerHTML(), attr(button, "class"))
	}
	for _, id := range []string{"name", "email", "msg"} {
		if v := f.byID(id).Value(); v != "" {
			t.Fatalf("#%s = %q after reset", id, v)
		}
	}
}

func TestContactTeardownWhileConfirming(t *testing.T) {
	f := newFixture(t)
	f.show(route.Contact, contactMarkup)
	f.doc.Submit(f.byID("contact"))
	f.show(route.Home, homeMarkup)
	if f.ctl.ContactState() != Idle {
		t.Fatal("contact state survived teardown")
	}
	if f.ctl.Active(Confirmation) != 0 {
		t.Fatal("confirmation handle survived teardown")
	}
}

func TestMissingTargetsAreNoOps(t *testing.T) {
	f := newFixture(t)
	f.show(route.Home, `<p>plain</p>`)
	for _, k := range []Kind{Typewriter, Counter, Reveal, Parallax, Confirmation} {
		if f.ctl.Active(k) != 0 {
			t.Fatalf("%v started without targets", k)
		}
	}
	if f.clk.Pending() != 0 {
		t.Fatal("timers scheduled without targets")
	}
	f.ctl.Attach(route.Home, nil)
}

func attr(el dom.Element, name string) string {
	v, _ := el.Attr(name)
	return v
}
