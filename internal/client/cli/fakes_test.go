package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtracker/internal/client/client"
	"github.com/dmitrijs2005/gophtracker/internal/client/config"
	"github.com/dmitrijs2005/gophtracker/internal/client/models"
	"github.com/dmitrijs2005/gophtracker/internal/client/session"
)

// captureOutput replaces printlnFn and printFn and returns everything
// printed through them.
func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var (
		mu  sync.Mutex
		out strings.Builder
	)
	origLn, origP := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Fprintln(&out, a...)
	}
	printFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Fprint(&out, a...)
	}
	t.Cleanup(func() { printlnFn, printFn = origLn, origP })
	return &out
}

// stubText makes getSimpleText return answers in order, then io.EOF.
func stubText(t *testing.T, answers ...string) {
	t.Helper()
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func stubConfirm(t *testing.T, answers ...bool) *[]string {
	t.Helper()
	var prompts []string
	orig := getConfirmation
	getConfirmation = func(_ *bufio.Reader, prompt string, _ io.Writer) bool {
		prompts = append(prompts, prompt)
		if len(answers) == 0 {
			return false
		}
		a := answers[0]
		answers = answers[1:]
		return a
	}
	t.Cleanup(func() { getConfirmation = orig })
	return &prompts
}

type fakeStore struct {
	sess models.Session
	subs map[int]session.Listener
	next int

	loginCalls  int
	loginErr    error
	registerReq models.RegisterRequest
	registerErr error
	logoutErr   error
	refreshErr  error
	exp         time.Time
}

func newFakeStore(authed bool) *fakeStore {
	s := &fakeStore{subs: map[int]session.Listener{}}
	if authed {
		s.sess = models.Session{Token: "tok", User: &models.User{ID: "u1", Username: "bob123", Email: "bob@example.com"}}
	}
	return s
}

func (s *fakeStore) publish(sess models.Session) {
	s.sess = sess
	for i := 1; i <= s.next; i++ {
		if fn, ok := s.subs[i]; ok {
			fn(sess)
		}
	}
}

func (s *fakeStore) Login(_ context.Context, username, _ string) (models.Session, error) {
	s.loginCalls++
	if s.loginErr != nil {
		return models.Session{}, s.loginErr
	}
	s.publish(models.Session{Token: "tok", User: &models.User{ID: "u1", Username: username}})
	return s.sess, nil
}

func (s *fakeStore) Register(_ context.Context, req models.RegisterRequest) (models.User, error) {
	s.registerReq = req
	if s.registerErr != nil {
		return models.User{}, s.registerErr
	}
	return models.User{ID: "u2", Username: req.Username, Email: req.Email}, nil
}

func (s *fakeStore) Logout(context.Context) error {
	s.publish(models.Session{})
	return s.logoutErr
}

func (s *fakeStore) IsAuthenticated() bool   { return s.sess.Authenticated() }
func (s *fakeStore) Current() models.Session { return s.sess }

func (s *fakeStore) Refresh(context.Context) (models.User, error) {
	if s.refreshErr != nil {
		return models.User{}, s.refreshErr
	}
	return *s.sess.User, nil
}

func (s *fakeStore) ExpiresAt() (time.Time, bool) { return s.exp, !s.exp.IsZero() }

func (s *fakeStore) Subscribe(fn session.Listener) func() {
	s.next++
	id := s.next
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

type fakeAPI struct {
	issues  []models.Issue
	lists   []models.IssueFilter
	created []models.IssueInput
	updated map[string]models.IssueInput
	deleted []string
	listErr error
}

func newFakeAPI(n int) *fakeAPI {
	f := &fakeAPI{updated: map[string]models.IssueInput{}}
	for i := 1; i <= n; i++ {
		f.issues = append(f.issues, models.Issue{
			ID: fmt.Sprintf("i%d", i), Title: fmt.Sprintf("Issue number %d", i),
			Status: models.StatusOpen, Priority: models.PriorityMedium,
		})
	}
	return f
}

func (f *fakeAPI) ListIssues(_ context.Context, filter models.IssueFilter) (models.IssuePage, error) {
	f.lists = append(f.lists, filter)
	if f.listErr != nil {
		return models.IssuePage{}, f.listErr
	}
	from := (filter.Page - 1) * filter.PageSize
	to := min(from+filter.PageSize, len(f.issues))
	items := []models.Issue{}
	if from < len(f.issues) {
		items = append(items, f.issues[from:to]...)
	}
	return models.IssuePage{Items: items, Total: len(f.issues), Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (f *fakeAPI) find(id string) (int, bool) {
	for i, is := range f.issues {
		if is.ID == id {
			return i, true
		}
	}
	return 0, false
}

func notFound(path string) error {
	return &client.RequestError{Method: "GET", Path: path, StatusCode: 404}
}

func (f *fakeAPI) GetIssue(_ context.Context, id string) (models.Issue, error) {
	if i, ok := f.find(id); ok {
		return f.issues[i], nil
	}
	return models.Issue{}, notFound("/issues/" + id)
}

func (f *fakeAPI) CreateIssue(_ context.Context, in models.IssueInput) (models.Issue, error) {
	f.created = append(f.created, in)
	is := models.Issue{ID: fmt.Sprintf("n%d", len(f.created)), Title: in.Title, Status: in.Status, Priority: in.Priority, Assignee: in.Assignee}
	f.issues = append(f.issues, is)
	return is, nil
}

func (f *fakeAPI) UpdateIssue(_ context.Context, id string, in models.IssueInput) (models.Issue, error) {
	i, ok := f.find(id)
	if !ok {
		return models.Issue{}, notFound("/issues/" + id)
	}
	f.updated[id] = in
	f.issues[i].Title, f.issues[i].Status, f.issues[i].Priority, f.issues[i].Assignee = in.Title, in.Status, in.Priority, in.Assignee
	return f.issues[i], nil
}

func (f *fakeAPI) DeleteIssue(_ context.Context, id string) error {
	i, ok := f.find(id)
	if !ok {
		return notFound("/issues/" + id)
	}
	f.deleted = append(f.deleted, id)
	f.issues = append(f.issues[:i], f.issues[i+1:]...)
	return nil
}

func newTestApp(store *fakeStore, api *fakeAPI, input string) *App {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return newApp(cfg, store, api, nil, bufio.NewReader(strings.NewReader(input)), io.Discard)
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0o600)
}
