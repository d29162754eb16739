// Package client contains the tracker's transport to the backend.
//
// # Overview
//
//  1. Client is the API contract: register/login/me and issue CRUD with
//     list filtering.
//  2. HTTPClient implements it over net/http with JSON bodies. Every request
//     gets an X-Request-ID and is logged at debug level.
//  3. Authorizer is the http.RoundTripper that attaches the current bearer
//     token read from a TokenSource (the session store).
//  4. InitDatabase and RunMigrations prepare the local SQLite database that
//     holds the persisted session.
//
// # Error Handling
//
// All Client methods fail with *RequestError. Match the common cases with
// errors.Is against ErrNotFound, ErrUnauthorized and ErrUnavailable, or use
// errors.As to read the status code and the backend message. Nothing is
// retried: a failed attempt is returned at once.
package client
