// Package route resolves URL paths to views and intercepts in-page links.
package route

import "strings"

// Route identifies one view of the site.
type Route int

const (
	NotFound Route = iota
	Home
	About
	Skills
	Projects
	Contact
)

// All lists the routable views in navigation order.
var All = []Route{Home, About, Skills, Projects, Contact}

var paths = map[Route]string{
	Home:     "/",
	About:    "/about",
	Skills:   "/skills",
	Projects: "/projects",
	Contact:  "/contact",
}

var names = map[Route]string{
	NotFound: "not-found",
	Home:     "home",
	About:    "about",
	Skills:   "skills",
	Projects: "projects",
	Contact:  "contact",
}

// Path is the canonical path of r; NotFound has none.
func (r Route) Path() string { return paths[r] }

func (r Route) String() string {
	if n, ok := names[r]; ok {
		return n
	}
	return "unknown"
}

// Lookup maps a path to its route, or NotFound.
func Lookup(path string) Route {
	p := Normalize(path)
	for r, rp := range paths {
		if rp == p {
			return r
		}
	}
	return NotFound
}

// Normalize strips the query and fragment and any trailing slash, keeping
// the root as "/".
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return path
}
