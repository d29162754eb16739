// Package netx contains small net/http helpers used by the API client.
package netx

import (
	"fmt"
	"io"
	"net/url"
	"strings"
)

// MaxErrorBody bounds how much of an error response is read.
const MaxErrorBody = 64 << 10

// JoinURL appends an already-escaped path to base, preserving any path prefix
// present in base ("http://host/api" + "/issues" → "http://host/api/issues").
func JoinURL(base, path string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", base)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.JoinPath(path), nil
}

// ReadLimited reads at most limit bytes from r.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// DrainAndClose discards what is left of body and closes it so the
// underlying connection can be reused.
func DrainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxErrorBody))
	_ = body.Close()
}
