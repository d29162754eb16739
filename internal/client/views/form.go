package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophtracker/internal/client/models"
	"github.com/dmitrijs2005/gophtracker/internal/logging"
)

const (
	msgCreateIssueFailed = "Failed to create issue"
	msgUpdateIssueFailed = "Failed to update issue"
)

// IssueForm holds the editable fields of an issue.
type IssueForm struct {
	Title    string          `form:"title" validate:"required,min=3,max=200"`
	Status   models.Status   `form:"status" validate:"required,oneof=open in_progress resolved closed"`
	Priority models.Priority `form:"priority" validate:"required,oneof=low medium high critical"`
	Assignee string          `form:"assignee" validate:"max=100"`
}

// NewIssueForm returns an empty form with the default status and priority.
func NewIssueForm() IssueForm {
	return IssueForm{Status: models.DefaultStatus, Priority: models.DefaultPriority}
}

func (f IssueForm) Input() models.IssueInput {
	return models.IssueInput{Title: f.Title, Status: f.Status, Priority: f.Priority, Assignee: f.Assignee}
}

func formFromInput(in models.IssueInput) IssueForm {
	return IssueForm{Title: in.Title, Status: in.Status, Priority: in.Priority, Assignee: in.Assignee}
}

// FormController creates an issue, or edits one when it has an id.
type FormController struct {
	api    IssueAPI
	nav    Navigator
	logger logging.Logger
	life   lifecycle
	id     string

	mu     sync.Mutex
	state  State
	values IssueForm
}

// NewCreateForm returns a controller for a new issue.
func NewCreateForm(api IssueAPI, nav Navigator, logger logging.Logger) *FormController {
	return newFormController(api, nav, logger, "")
}

// NewEditForm returns a controller for issue id. Call Load to prefill it.
func NewEditForm(api IssueAPI, nav Navigator, logger logging.Logger, id string) *FormController {
	return newFormController(api, nav, logger, id)
}

func newFormController(api IssueAPI, nav Navigator, logger logging.Logger, id string) *FormController {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FormController{
		api:    api,
		nav:    nav,
		logger: logger.With("view", "form"),
		id:     id,
		values: NewIssueForm(),
	}
}

func (c *FormController) IsEdit() bool { return c.id != "" }
func (c *FormController) ID() string   { return c.id }

func (c *FormController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *FormController) Values() IssueForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// SetValues replaces the form input.
func (c *FormController) SetValues(v IssueForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = v
}

// Load prefills an edit form from the backend. It does nothing for a new
// issue.
func (c *FormController) Load(ctx context.Context) error {
	if !c.IsEdit() {
		return nil
	}
	c.mu.Lock()
	if c.state.IsLoading() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = Loading()
	c.mu.Unlock()

	rctx, cancel := c.life.bind(ctx)
	defer cancel()

	issue, err := c.api.GetIssue(rctx, c.id)
	if c.life.closed() {
		return ErrClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Error(ctx, "cannot load issue", "error", err, "id", c.id)
		c.state = Failed(msgLoadIssueFailed)
		return err
	}
	c.values = formFromInput(issue.Input())
	c.state = Idle()
	return nil
}

// Validate checks the current input without sending anything.
func (c *FormController) Validate() error {
	return validateForm(c.Values())
}

// Submit validates and sends the form. On success it navigates to the
// issue. On failure the input is kept and the state holds a generic message.
func (c *FormController) Submit(ctx context.Context) (models.Issue, error) {
	c.mu.Lock()
	if c.state.IsLoading() {
		c.mu.Unlock()
		return models.Issue{}, ErrBusy
	}
	values := c.values
	if err := validateForm(values); err != nil {
		c.mu.Unlock()
		return models.Issue{}, err
	}
	c.state = Loading()
	c.mu.Unlock()

	rctx, cancel := c.life.bind(ctx)
	defer cancel()

	var (
		issue models.Issue
		err   error
		fail  = msgCreateIssueFailed
	)
	if c.IsEdit() {
		fail = msgUpdateIssueFailed
		issue, err = c.api.UpdateIssue(rctx, c.id, values.Input())
	} else {
		issue, err = c.api.CreateIssue(rctx, values.Input())
	}
	if c.life.closed() {
		return models.Issue{}, ErrClosed
	}

	if err != nil {
		c.logger.Error(ctx, "cannot save issue", "error", err, "id", c.id)
		c.mu.Lock()
		c.state = Failed(fail)
		c.mu.Unlock()
		return models.Issue{}, err
	}

	c.logger.Info(ctx, "issue saved", "id", issue.ID)
	c.mu.Lock()
	c.state = Loaded()
	c.mu.Unlock()
	id := issue.ID
	if c.IsEdit() {
		id = c.id
	}
	c.nav.Navigate(IssuePath(id))
	return issue, nil
}

// Cancel leaves the form without saving and returns to the list.
func (c *FormController) Cancel() { c.nav.Navigate(PathIssues) }

func (c *FormController) Close() { c.life.close() }
