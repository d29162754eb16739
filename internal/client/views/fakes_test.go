package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophtracker/internal/client/client"
	"github.com/dmitrijs2005/gophtracker/internal/client/models"
)

// fakeAPI serves a fixed set of issues with server-side paging.
type fakeAPI struct {
	mu      sync.Mutex
	issues  []models.Issue
	filters []models.IssueFilter
	deleted []string
	created []models.IssueInput
	updated map[string]models.IssueInput

	listErr   error
	getErr    error
	saveErr   error
	deleteErr error

	// hook runs before every call returns
	hook func()
}

func newFakeAPI(n int) *fakeAPI {
	f := &fakeAPI{updated: map[string]models.IssueInput{}}
	for i := 1; i <= n; i++ {
		f.issues = append(f.issues, models.Issue{
			ID:       fmt.Sprintf("i%d", i),
			Title:    fmt.Sprintf("issue %d", i),
			Status:   models.StatusOpen,
			Priority: models.PriorityMedium,
		})
	}
	return f
}

func (f *fakeAPI) runHook() {
	if f.hook != nil {
		f.hook()
	}
}

func (f *fakeAPI) ListIssues(ctx context.Context, filter models.IssueFilter) (models.IssuePage, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	f.runHook()
	if f.listErr != nil {
		return models.IssuePage{}, f.listErr
	}
	if err := ctx.Err(); err != nil {
		return models.IssuePage{}, err
	}

	from := (filter.Page - 1) * filter.PageSize
	to := min(from+filter.PageSize, len(f.issues))
	items := []models.Issue{}
	if from < len(f.issues) {
		items = append(items, f.issues[from:to]...)
	}
	return models.IssuePage{Items: items, Total: len(f.issues), Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (f *fakeAPI) GetIssue(_ context.Context, id string) (models.Issue, error) {
	f.runHook()
	if f.getErr != nil {
		return models.Issue{}, f.getErr
	}
	for _, is := range f.issues {
		if is.ID == id {
			return is, nil
		}
	}
	return models.Issue{}, &client.RequestError{Method: "GET", Path: "/issues/" + id, StatusCode: 404}
}

func (f *fakeAPI) CreateIssue(_ context.Context, in models.IssueInput) (models.Issue, error) {
	f.mu.Lock()
	f.created = append(f.created, in)
	f.mu.Unlock()
	f.runHook()
	if f.saveErr != nil {
		return models.Issue{}, f.saveErr
	}
	return models.Issue{ID: "new-1", Title: in.Title, Status: in.Status, Priority: in.Priority, Assignee: in.Assignee}, nil
}

func (f *fakeAPI) UpdateIssue(_ context.Context, id string, in models.IssueInput) (models.Issue, error) {
	f.mu.Lock()
	f.updated[id] = in
	f.mu.Unlock()
	f.runHook()
	if f.saveErr != nil {
		return models.Issue{}, f.saveErr
	}
	return models.Issue{ID: id, Title: in.Title, Status: in.Status, Priority: in.Priority, Assignee: in.Assignee}, nil
}

func (f *fakeAPI) DeleteIssue(_ context.Context, id string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	f.runHook()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, is := range f.issues {
		if is.ID == id {
			f.issues = append(f.issues[:i], f.issues[i+1:]...)
			return nil
		}
	}
	return &client.RequestError{Method: "DELETE", Path: "/issues/" + id, StatusCode: 404}
}

func (f *fakeAPI) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filters)
}

func (f *fakeAPI) lastFilter() models.IssueFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters[len(f.filters)-1]
}

type recordingNav struct {
	paths []string
}

func (n *recordingNav) Navigate(path string) { n.paths = append(n.paths, path) }

func (n *recordingNav) last() string {
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

func answer(yes bool) ConfirmFunc {
	return func(string) bool { return yes }
}

type fakeAuth struct {
	loginUser, loginPass string
	loginCalls           int
	loginErr             error

	registerReq   models.RegisterRequest
	registerCalls int
	registerErr   error

	hook func()
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (models.Session, error) {
	f.loginCalls++
	f.loginUser, f.loginPass = username, password
	if f.hook != nil {
		f.hook()
	}
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	return models.Session{Token: "tok", User: &models.User{ID: "u1", Username: username}}, nil
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) (models.User, error) {
	f.registerCalls++
	f.registerReq = req
	if f.hook != nil {
		f.hook()
	}
	if f.registerErr != nil {
		return models.User{}, f.registerErr
	}
	return models.User{ID: "u2", Email: req.Email, Username: req.Username}, nil
}
