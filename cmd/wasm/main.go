//go:build js && wasm

// Command wasm is the in-browser site engine. The server pre-renders the
// requested view; once this loads it takes over every navigation.
package main

import (
	"log"

	"github.com/Zachkp/portfolio/internal/app"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/dom/jsdom"
	"github.com/Zachkp/portfolio/internal/view"
)

func main() {
	w := jsdom.Global()
	m, err := w.Mount(view.MountID)
	if err != nil {
		log.Printf("Engine not started: %v", err)
		return
	}

	a := app.New(app.Options{
		Mount:     m,
		History:   w,
		Scheduler: w.Scheduler(),
		Viewport:  w,
		Chrome:    w,
		Content:   content.Static(content.MustDefault()),
		Renderer:  view.MustNew(),
	})
	w.OnPopState(a.Resolve)
	if err := a.Start(); err != nil {
		log.Printf("Engine not started: %v", err)
		return
	}

	select {}
}
