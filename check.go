package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/app"
	"github.com/Zachkp/portfolio/internal/clock"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/dom"
	"github.com/Zachkp/portfolio/internal/route"
	"github.com/Zachkp/portfolio/internal/view"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Boot the site engine headlessly and visit every view",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, provider, renderer, err := loadSite()
		if err != nil {
			return err
		}
		results, err := checkSite(cmd.Context(), renderer, provider)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s -> %-10s %d effects\n", r.Path, r.Route, r.Effects)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkResult is what the engine mounted for one path.
type checkResult struct {
	Path    string
	Route   route.Route
	Effects int
}

// checkPaths are visited in order. Unknown paths must mount the not-found
// view.
var checkPaths = []string{"/", "/about", "/skills", "/projects", "/contact", "/missing", "/"}

// checkSite runs the engine on a real event loop over the server-rendered
// home page and navigates through checkPaths.
func checkSite(ctx context.Context, renderer *view.Renderer, provider *content.Provider) ([]checkResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	page, err := renderer.Page(route.Home, provider.Site(), false)
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(page)
	if err != nil {
		return nil, err
	}
	m, err := doc.Mount(view.MountID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loop := clock.NewLoop(0)
	go loop.Run(ctx)

	// The document belongs to the loop; every step runs there.
	onLoop := func(fn func() error) error {
		errc := make(chan error, 1)
		if !loop.Post(func() { errc <- fn() }) {
			return fmt.Errorf("check: event loop stopped")
		}
		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	a := app.New(app.Options{
		Mount:     m,
		History:   route.NewMemoryHistory("/"),
		Scheduler: loop,
		Viewport:  doc,
		Chrome:    doc,
		Content:   provider,
		Renderer:  renderer,
	})
	if err := onLoop(a.Start); err != nil {
		return nil, err
	}
	defer onLoop(func() error { a.Close(); return nil })

	var results []checkResult
	for _, p := range checkPaths {
		err := onLoop(func() error {
			a.Navigate(p)
			want := route.Lookup(p)
			if a.Current() != want {
				return fmt.Errorf("check %s: mounted %s, want %s", p, a.Current(), want)
			}
			results = append(results, checkResult{Path: p, Route: a.Current(), Effects: len(a.Animations().Handles())})
			return nil
		})
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
