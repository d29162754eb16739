// Package session owns the authenticated identity of the tracker client.
//
// Store is the single source of truth for the current Session. It persists
// the token and the user to the local metadata repository so the session
// survives a restart, and notifies subscribers synchronously on every change.
// The API client reads the token through Store.Token when authorizing
// requests.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtracker/internal/client/client"
	"github.com/dmitrijs2005/gophtracker/internal/client/models"
	"github.com/dmitrijs2005/gophtracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophtracker/internal/common"
	"github.com/dmitrijs2005/gophtracker/internal/dbx"
	"github.com/dmitrijs2005/gophtracker/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// ErrAuth reports rejected credentials or a missing/expired token.
var ErrAuth = errors.New("authentication failed")

// Authenticator is the part of the API the store calls.
type Authenticator interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, username, password string) (models.AuthResponse, error)
	Me(ctx context.Context) (models.User, error)
}

// Listener receives every newly published session.
type Listener func(models.Session)

type subscriber struct {
	id int
	fn Listener
}

// Store holds the current session. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	repo   func(dbx.DBTX) metadata.Repository
	api    Authenticator
	logger logging.Logger

	mu      sync.RWMutex
	current models.Session

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

func sqliteRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Open creates a store over db and loads the persisted session. Unreadable
// or corrupt stored data leaves the store unauthenticated; Open itself does
// not fail because of it.
func Open(ctx context.Context, db *sql.DB, api Authenticator, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Store{
		db:     db,
		repo:   sqliteRepo,
		api:    api,
		logger: logger.With("component", "session"),
	}
	s.current = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) models.Session {
	repo := s.repo(s.db)

	token, err := repo.Get(ctx, common.MetadataKeyToken)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "cannot read stored token", "error", err)
		}
		return models.Session{}
	}

	raw, err := repo.Get(ctx, common.MetadataKeyUser)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "cannot read stored user", "error", err)
		}
		return models.Session{}
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.logger.Warn(ctx, "stored user is corrupt, starting logged out", "error", err)
		return models.Session{}
	}

	sess := models.Session{Token: string(token), User: &user}
	if !sess.Authenticated() {
		return models.Session{}
	}
	s.logger.Debug(ctx, "session restored", "username", user.Username)
	return sess
}

// Current returns the last published session without any I/O.
func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.current)
}

func (s *Store) IsAuthenticated() bool {
	return s.Current().Authenticated()
}

// Token implements client.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Login submits the credentials and, on success, persists and publishes the
// new session. On failure the session is left as it was. Rejected
// credentials are reported as ErrAuth wrapping the *client.RequestError.
func (s *Store) Login(ctx context.Context, username, password string) (models.Session, error) {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		if isCredentialError(err) {
			return models.Session{}, fmt.Errorf("%w: %w", ErrAuth, err)
		}
		return models.Session{}, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return models.Session{}, fmt.Errorf("%w: empty access token", ErrAuth)
	}

	user := resp.User
	sess := models.Session{Token: resp.AccessToken, User: &user}
	if err := s.persist(ctx, sess); err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}

	s.publish(sess)
	s.logger.Info(ctx, "logged in", "username", user.Username)
	return copySession(sess), nil
}

// Logout clears the persisted session and publishes an empty one. It is safe
// to call when already logged out. The in-memory session is cleared even if
// the storage write fails; the error is still returned.
func (s *Store) Logout(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Delete(ctx, common.MetadataKeyToken, common.MetadataKeyUser)
	})
	s.publish(models.Session{})
	if err != nil {
		s.logger.Error(ctx, "cannot clear stored session", "error", err)
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info(ctx, "logged out")
	return nil
}

// Register creates an account. The current session is not changed.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	user, err := s.api.Register(ctx, req)
	if err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}
	s.logger.Info(ctx, "registered", "username", user.Username)
	return user, nil
}

// Refresh reloads the user from /auth/me. A rejected token ends the session
// and is reported as ErrAuth.
func (s *Store) Refresh(ctx context.Context) (models.User, error) {
	current := s.Current()
	if current.Token == "" {
		return models.User{}, fmt.Errorf("%w: not logged in", ErrAuth)
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			s.logger.Warn(ctx, "token rejected, logging out")
			_ = s.Logout(ctx)
			return models.User{}, fmt.Errorf("%w: %w", ErrAuth, err)
		}
		return models.User{}, fmt.Errorf("refresh user: %w", err)
	}

	// a login or logout may have happened while /auth/me was in flight
	if s.Token() != current.Token {
		return user, nil
	}
	sess := models.Session{Token: current.Token, User: &user}
	if err := s.persist(ctx, sess); err != nil {
		return models.User{}, fmt.Errorf("save session: %w", err)
	}
	s.publish(sess)
	return user, nil
}

// ExpiresAt reads the exp claim when the token is a JWT. The signature is
// not verified; the client has no key and only uses this for display.
func (s *Store) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Subscribe registers fn for session changes. Listeners run synchronously,
// in registration order, outside the store's locks. The returned function
// removes the listener and may be called more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) persist(ctx context.Context, sess models.Session) error {
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.MetadataKeyToken, []byte(sess.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.MetadataKeyUser, raw)
	})
}

func (s *Store) publish(sess models.Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(copySession(sess))
	}
}

func isCredentialError(err error) bool {
	var re *client.RequestError
	if !errors.As(err, &re) {
		return false
	}
	switch re.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

func copySession(s models.Session) models.Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
