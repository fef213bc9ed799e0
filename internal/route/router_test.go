package route

import (
	"testing"

	"github.com/Zachkp/portfolio/internal/dom"
)

func TestNormalizeAndLookup(t *testing.T) {
	tests := []struct {
		in   string
		want Route
	}{
		{"/", Home},
		{"", Home},
		{"/about", About},
		{"/about/", About},
		{"/skills?tab=1", Skills},
		{"/projects#top", Projects},
		{"/contact", Contact},
		{"/blog", NotFound},
		{"/about/me", NotFound},
	}
	for _, tt := range tests {
		if got := Lookup(tt.in); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveBeforeRegistrationMountsNothing(t *testing.T) {
	r := New(NewMemoryHistory("/"))
	if r.Resolve() {
		t.Fatal("resolve with no handlers reported a dispatch")
	}
}

func TestDispatchAndNotFound(t *testing.T) {
	h := NewMemoryHistory("/nowhere")
	var got []string
	r := New(h)
	for _, rt := range All {
		r.On(rt.Path(), func() { got = append(got, rt.String()) })
	}
	r.NotFound(func() { got = append(got, "404") })

	r.Resolve()
	r.Navigate("/projects")
	r.Navigate("/projects/")
	r.Navigate("/")

	want := []string{"404", "projects", "projects", "home"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if len(h.Entries) != 3 {
		t.Fatalf("history = %v; same-path navigation should not push", h.Entries)
	}
	if r.Current() != "/" {
		t.Fatalf("current = %q", r.Current())
	}
}

func TestUpdatePageLinksInterceptsLocalLinks(t *testing.T) {
	d := dom.MustParse(`<html><body><main id="app">
<a id="in" href="/about" data-link>About</a>
<a id="ext" href="https://example.com" data-link>Out</a>
<a id="plain" href="/skills">Skills</a>
</main></body></html>`)
	h := NewMemoryHistory("/")
	r := New(h)
	visited := ""
	r.On("/about", func() { visited = "about" })
	r.On("/skills", func() { visited = "skills" })
	r.UpdatePageLinks(d.ByID("app"))

	ev := d.Click(d.ByID("in"))
	if !ev.DefaultPrevented() || visited != "about" || h.Path() != "/about" {
		t.Fatalf("prevented=%v visited=%q path=%q", ev.DefaultPrevented(), visited, h.Path())
	}
	if d.Click(d.ByID("ext")).DefaultPrevented() {
		t.Fatal("external link intercepted")
	}
	if d.Click(d.ByID("plain")).DefaultPrevented() {
		t.Fatal("unmarked link intercepted")
	}
}
