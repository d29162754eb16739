package client

import (
	"context"

	"github.com/dmitrijs2005/gophtracker/internal/client/models"
)

// Client is the tracker backend API. Implementations are stateless apart from
// their transport; authentication is attached by the Authorizer.
type Client interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, username, password string) (models.AuthResponse, error)
	Me(ctx context.Context) (models.User, error)

	ListIssues(ctx context.Context, filter models.IssueFilter) (models.IssuePage, error)
	GetIssue(ctx context.Context, id string) (models.Issue, error)
	CreateIssue(ctx context.Context, in models.IssueInput) (models.Issue, error)
	UpdateIssue(ctx context.Context, id string, in models.IssueInput) (models.Issue, error)
	DeleteIssue(ctx context.Context, id string) error
}
