package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Resolve(t *testing.T) {
	r := NewRouter(func() bool { return true })
	tests := []struct {
		path string
		name string
		id   string
	}{
		{"/login", RouteLogin, ""},
		{"/register", RouteRegister, ""},
		{"/issues", RouteIssues, ""},
		{"/", RouteIssues, ""},
		{"issues", RouteIssues, ""},
		{"/issues/new", RouteIssueNew, ""},
		{"/issues/42", RouteIssue, "42"},
		{"/issues/42/edit", RouteIssueEdit, "42"},
		{IssuePath("a/b"), RouteIssue, "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route, ok := r.Resolve(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.name, route.Name)
			assert.Equal(t, tt.id, route.ID())
		})
	}

	_, ok := r.Resolve("/nowhere")
	assert.False(t, ok)
}

func TestRouter_GuardRedirectsToLogin(t *testing.T) {
	authed := false
	r := NewRouter(func() bool { return authed })
	var changes []string
	r.OnChange(func(rt Route) { changes = append(changes, rt.Name) })

	r.Navigate("/issues/7")
	assert.Equal(t, RouteLogin, r.Current().Name)

	r.Navigate("/register")
	assert.Equal(t, RouteRegister, r.Current().Name)

	authed = true
	r.Navigate("/issues/7")
	assert.Equal(t, RouteIssue, r.Current().Name)
	assert.Equal(t, "7", r.Current().ID())

	assert.Equal(t, []string{RouteLogin, RouteRegister, RouteIssue}, changes)
}

func TestRouter_UnknownGoesToList(t *testing.T) {
	r := NewRouter(func() bool { return true })
	r.Navigate("/what")
	assert.Equal(t, RouteIssues, r.Current().Name)
}

func TestProtected(t *testing.T) {
	assert.False(t, Protected(RouteLogin))
	assert.False(t, Protected(RouteRegister))
	assert.True(t, Protected(RouteIssues))
	assert.True(t, Protected(RouteIssueEdit))
}
