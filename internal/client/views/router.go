package views

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// Route names.
const (
	RouteLogin     = "login"
	RouteRegister  = "register"
	RouteIssues    = "issues"
	RouteIssueNew  = "issue-new"
	RouteIssue     = "issue"
	RouteIssueEdit = "issue-edit"
)

const (
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathIssues    = "/issues"
	PathIssueNew  = "/issues/new"
	PathIssueTmpl = "/issues/{id}"
	PathEditTmpl  = "/issues/{id}/edit"
)

func IssuePath(id string) string     { return PathIssues + "/" + url.PathEscape(id) }
func IssueEditPath(id string) string { return IssuePath(id) + "/edit" }

// Route is a resolved location.
type Route struct {
	Name string
	Path string
	Vars map[string]string
}

// ID returns the {id} variable of issue routes.
func (r Route) ID() string { return r.Vars["id"] }

// Router resolves paths to routes and guards the issue routes: when the
// session is not authenticated they redirect to /login. Unknown paths go to
// /issues.
type Router struct {
	mux           *mux.Router
	authenticated func() bool

	mu       sync.Mutex
	current  Route
	onChange func(Route)
}

// NewRouter returns a router positioned nowhere; call Navigate to start.
// authenticated is consulted on every navigation.
func NewRouter(authenticated func() bool) *Router {
	m := mux.NewRouter().UseEncodedPath()
	// /issues/new must be registered before /issues/{id}
	m.NewRoute().Path(PathLogin).Name(RouteLogin)
	m.NewRoute().Path(PathRegister).Name(RouteRegister)
	m.NewRoute().Path(PathIssues).Name(RouteIssues)
	m.NewRoute().Path(PathIssueNew).Name(RouteIssueNew)
	m.NewRoute().Path(PathIssueTmpl).Name(RouteIssue)
	m.NewRoute().Path(PathEditTmpl).Name(RouteIssueEdit)

	return &Router{mux: m, authenticated: authenticated}
}

// OnChange sets the function called after every navigation.
func (r *Router) OnChange(fn func(Route)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Resolve matches path without navigating or applying the guard.
func (r *Router) Resolve(path string) (Route, bool) {
	if path == "" || path == "/" {
		path = PathIssues
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(path)
	if err != nil {
		return Route{}, false
	}

	var m mux.RouteMatch
	if !r.mux.Match(&http.Request{Method: http.MethodGet, URL: u}, &m) || m.Route == nil {
		return Route{}, false
	}
	vars := make(map[string]string, len(m.Vars))
	for k, v := range m.Vars {
		if unescaped, err := url.PathUnescape(v); err == nil {
			v = unescaped
		}
		vars[k] = v
	}
	return Route{Name: m.Route.GetName(), Path: u.EscapedPath(), Vars: vars}, true
}

// Navigate implements Navigator.
func (r *Router) Navigate(path string) {
	route, ok := r.Resolve(path)
	if !ok {
		route, _ = r.Resolve(PathIssues)
	}
	if Protected(route.Name) && !r.authenticated() {
		route, _ = r.Resolve(PathLogin)
	}

	r.mu.Lock()
	r.current = route
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(route)
	}
}

// Current returns the route of the last navigation.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Protected reports whether a route needs an authenticated session.
func Protected(name string) bool {
	switch name {
	case RouteLogin, RouteRegister:
		return false
	}
	return true
}
