package client

import (
	"net/http"

	"github.com/dmitrijs2005/gophtracker/internal/common"
)

// TokenSource yields the current bearer token, or "" when there is none.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

// Authorizer is an http.RoundTripper that adds "Authorization: Bearer <token>"
// to every request while the source holds a token. Without a token the
// request is forwarded as is.
type Authorizer struct {
	Source TokenSource
	Base   http.RoundTripper
}

// NewAuthorizer wraps base; a nil base means http.DefaultTransport.
func NewAuthorizer(source TokenSource, base http.RoundTripper) *Authorizer {
	return &Authorizer{Source: source, Base: base}
}

func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	base := a.Base
	if base == nil {
		base = http.DefaultTransport
	}

	var token string
	if a.Source != nil {
		token = a.Source.Token()
	}
	if token == "" {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	return base.RoundTrip(r)
}
