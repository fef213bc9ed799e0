// Package app wires the router, the view renderer and the animation
// controller into the running site.
package app

import (
	"fmt"
	"log"

	"github.com/Zachkp/portfolio/internal/animate"
	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/dom"
	"github.com/Zachkp/portfolio/internal/route"
	"github.com/Zachkp/portfolio/internal/shell"
	"github.com/Zachkp/portfolio/internal/view"
)

// Options are the host bindings the app runs against.
type Options struct {
	Mount     dom.Mount
	History   route.History
	Scheduler clock.Scheduler
	Viewport  dom.Viewport
	// Chrome is searched for the header and mobile navigation.
	Chrome shell.Querier

	Content  *content.Provider
	Renderer *view.Renderer
	// Animation defaults to animate.DefaultConfig.
	Animation *animate.Config
}

// App is the site engine for one document.
type App struct {
	mount    dom.Mount
	chrome   shell.Querier
	viewport dom.Viewport
	content  *content.Provider
	renderer *view.Renderer

	router  *route.Router
	anim    *animate.Controller
	nav     *shell.MobileNav
	header  *shell.HeaderController
	current route.Route
	started bool
}

// New builds an app. Nothing touches the document until Start.
func New(opts Options) *App {
	cfg := animate.DefaultConfig()
	if opts.Animation != nil {
		cfg = *opts.Animation
	}
	a := &App{
		mount:    opts.Mount,
		chrome:   opts.Chrome,
		viewport: opts.Viewport,
		content:  opts.Content,
		renderer: opts.Renderer,
		router:   route.New(opts.History),
		anim:     animate.New(opts.Scheduler, opts.Viewport, cfg),
		nav:      shell.NewMobileNav(opts.Scheduler),
		current:  route.NotFound,
	}
	if a.content == nil {
		a.content = content.Static(content.MustDefault())
	}
	if a.renderer == nil {
		a.renderer = view.MustNew()
	}
	return a
}

// Start registers the routes, binds the page chrome and mounts the view
// for the current location.
func (a *App) Start() error {
	if a.mount == nil {
		return dom.ErrNoMount
	}
	if a.started {
		return nil
	}
	a.started = true

	for _, rt := range route.All {
		a.router.On(rt.Path(), a.handler(rt))
	}
	a.router.NotFound(a.handler(route.NotFound))

	if a.chrome != nil {
		// Chrome links live outside the mount and are bound once.
		a.router.UpdatePageLinks(a.chrome.QuerySelector(shell.Header))
		a.router.UpdatePageLinks(a.chrome.QuerySelector(shell.NavOverlay))
		a.nav.Bind(a.chrome)
		a.header = shell.BindHeader(a.chrome, a.viewport)
	}
	a.router.Resolve()
	return nil
}

func (a *App) handler(rt route.Route) route.Handler {
	return func() {
		if err := a.Show(rt); err != nil {
			log.Printf("Error showing %s: %v", rt, err)
		}
	}
}

// Show mounts view rt: the markup is rendered and swapped, then the previous
// view's effects are torn down, the new links bound and the new effects
// attached. On error the previous view stays mounted and running.
func (a *App) Show(rt route.Route) error {
	site := a.content.Site()
	markup, err := a.renderer.Render(rt, site)
	if err != nil {
		return err
	}
	if err := a.mount.Replace(markup); err != nil {
		return fmt.Errorf("mount %s: %w", rt, err)
	}
	a.anim.Teardown()
	a.current = rt

	root := a.mount.Root()
	a.router.UpdatePageLinks(root)
	if a.chrome != nil {
		shell.MarkCurrent(a.chrome, rt.Path())
	}
	a.anim.SetPhrases(site.Hero.Phrases)
	a.anim.Attach(rt, root)
	return nil
}

// Navigate goes to path as a router link click would.
func (a *App) Navigate(path string) { a.router.Navigate(path) }

// Resolve re-dispatches the current location, e.g. after history traversal.
func (a *App) Resolve() { a.router.Resolve() }

// Current is the mounted view.
func (a *App) Current() route.Route { return a.current }

func (a *App) Router() *route.Router           { return a.router }
func (a *App) Animations() *animate.Controller { return a.anim }
func (a *App) MobileNav() *shell.MobileNav     { return a.nav }

// Header is nil when the page has no sticky header.
func (a *App) Header() *shell.HeaderController { return a.header }

// Close cancels every effect and scroll subscription.
func (a *App) Close() {
	a.anim.Close()
	if a.header != nil {
		a.header.Close()
	}
}
