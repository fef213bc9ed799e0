// Package view turns site content into markup: one fragment per route for
// the mount region, and the full page around it for the server.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/route"
)

// MountID is the id of the element views are mounted into.
const MountID = "app-content"

//go:embed templates/*.html
var templateFS embed.FS

var templateNames = map[route.Route]string{
	route.Home:     "home",
	route.About:    "about",
	route.Skills:   "skills",
	route.Projects: "projects",
	route.Contact:  "contact",
	route.NotFound: "not-found",
}

var titles = map[route.Route]string{
	route.About:    "About",
	route.Skills:   "Skills",
	route.Projects: "Projects",
	route.Contact:  "Contact",
	route.NotFound: "Page Not Found",
}

// Renderer renders views. It is safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
	tmpl, err := template.New("view").Funcs(template.FuncMap{
		"markdown": r.markdown,
		"safe":     r.sanitize,
		"counter":  isCounter,
		"delay":    delay,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse view templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// MustNew is New for program start-up.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Template exposes the parsed template set, for gin's HTML renderer.
func (r *Renderer) Template() *template.Template { return r.tmpl }

// Render returns the fragment for route rt. It depends only on its inputs.
func (r *Renderer) Render(rt route.Route, site *content.Site) (string, error) {
	name, ok := templateNames[rt]
	if !ok {
		name = templateNames[route.NotFound]
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, site); err != nil {
		return "", fmt.Errorf("render %s: %w", rt, err)
	}
	return buf.String(), nil
}

// NavItem is one entry of the site navigation.
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

// PageData feeds the page layout.
type PageData struct {
	Title   string
	Route   route.Route
	Nav     []NavItem
	Site    *content.Site
	Content template.HTML
	// WASM loads the client engine.
	WASM bool
}

// Data builds the layout data for rt with its fragment pre-rendered.
func (r *Renderer) Data(rt route.Route, site *content.Site, wasm bool) (PageData, error) {
	frag, err := r.Render(rt, site)
	if err != nil {
		return PageData{}, err
	}
	return PageData{
		Title:   Title(rt, site),
		Route:   rt,
		Nav:     Nav(rt),
		Site:    site,
		Content: template.HTML(frag),
		WASM:    wasm,
	}, nil
}

// Page renders the full document for rt.
func (r *Renderer) Page(rt route.Route, site *content.Site, wasm bool) (string, error) {
	data, err := r.Data(rt, site, wasm)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render page %s: %w", rt, err)
	}
	return buf.String(), nil
}

// Title is the document title for rt.
func Title(rt route.Route, site *content.Site) string {
	name := site.Hero.Name
	if t, ok := titles[rt]; ok {
		return t + " | " + name
	}
	return name + " | " + site.Profile.Role
}

// Nav lists the navigation with the current route marked.
func Nav(current route.Route) []NavItem {
	labels := map[route.Route]string{
		route.Home:     "Home",
		route.About:    "About",
		route.Skills:   "Skills",
		route.Projects: "Projects",
		route.Contact:  "Contact",
	}
	items := make([]NavItem, 0, len(route.All))
	for _, rt := range route.All {
		items = append(items, NavItem{Label: labels[rt], Path: rt.Path(), Active: rt == current})
	}
	return items
}

func (r *Renderer) markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

func (r *Renderer) sanitize(s string) template.HTML {
	return template.HTML(r.policy.Sanitize(s))
}

func isCounter(v string) bool {
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

// delay staggers reveal transitions by position.
func delay(i int) string {
	return strconv.FormatFloat(float64(i)*0.1, 'f', 1, 64) + "s"
}
