package content

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Provider hands out the current site data. The data may be swapped by
// Watch; readers always see a complete, validated Site.
type Provider struct {
	site atomic.Pointer[Site]
	path string
}

// NewProvider serves the embedded site data, or the YAML file at path when
// path is non-empty.
func NewProvider(path string) (*Provider, error) {
	p := &Provider{path: path}
	var (
		s   *Site
		err error
	)
	if path == "" {
		s, err = Default()
	} else {
		s, err = Load(path)
	}
	if err != nil {
		return nil, err
	}
	p.site.Store(s)
	return p, nil
}

// Static wraps fixed site data.
func Static(s *Site) *Provider {
	p := &Provider{}
	p.site.Store(s)
	return p
}

// Site returns the current data.
func (p *Provider) Site() *Site { return p.site.Load() }

// Reload re-reads the backing file. Invalid data is rejected and the
// previous data kept.
func (p *Provider) Reload() error {
	if p.path == "" {
		return nil
	}
	s, err := Load(p.path)
	if err != nil {
		return err
	}
	p.site.Store(s)
	return nil
}

// Watch reloads the backing file whenever it changes, until ctx is done.
// Editors that replace files atomically are handled by watching the
// directory.
func (p *Provider) Watch(ctx context.Context) error {
	if p.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create content watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(p.path)); err != nil {
		return fmt.Errorf("watch %s: %w", p.path, err)
	}
	target := filepath.Clean(p.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := p.Reload(); err != nil {
				log.Printf("Content reload rejected: %v", err)
				continue
			}
			log.Printf("Content reloaded from %s", p.path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("Content watcher error: %v", err)
		}
	}
}
