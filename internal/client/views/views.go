package views

import (
	"context"

	"github.com/dmitrijs2005/gophtracker/internal/client/models"
)

// IssueAPI is the part of the API client the issue views use.
type IssueAPI interface {
	ListIssues(ctx context.Context, filter models.IssueFilter) (models.IssuePage, error)
	GetIssue(ctx context.Context, id string) (models.Issue, error)
	CreateIssue(ctx context.Context, in models.IssueInput) (models.Issue, error)
	UpdateIssue(ctx context.Context, id string, in models.IssueInput) (models.Issue, error)
	DeleteIssue(ctx context.Context, id string) error
}

// Authenticator is the part of the session store the auth views use.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (models.Session, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
}

// Navigator moves the application to another path.
type Navigator interface {
	Navigate(path string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

const deletePrompt = "Are you sure you want to delete this issue?"
