package views

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophtracker/internal/client/client"
	"github.com/dmitrijs2005/gophtracker/internal/client/models"
	"github.com/dmitrijs2005/gophtracker/internal/logging"
)

const (
	msgIssueNotFound   = "Issue not found"
	msgLoadIssueFailed = "Failed to load issue"
)

// DetailController shows a single issue.
type DetailController struct {
	api     IssueAPI
	nav     Navigator
	confirm Confirmer
	logger  logging.Logger
	life    lifecycle

	mu    sync.Mutex
	state State
	id    string
	issue models.Issue
}

func NewDetailController(api IssueAPI, nav Navigator, confirm Confirmer, logger logging.Logger) *DetailController {
	if logger == nil {
		logger = logging.Discard()
	}
	return &DetailController{api: api, nav: nav, confirm: confirm, logger: logger.With("view", "detail")}
}

func (c *DetailController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Issue returns the loaded issue; ok is false until a load succeeds.
func (c *DetailController) Issue() (issue models.Issue, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issue, c.state.Phase() == PhaseLoaded
}

// Load fetches the issue. A missing issue fails with "Issue not found".
func (c *DetailController) Load(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.state.IsLoading() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = Loading()
	c.id = id
	c.mu.Unlock()

	rctx, cancel := c.life.bind(ctx)
	defer cancel()

	issue, err := c.api.GetIssue(rctx, id)
	if c.life.closed() {
		return ErrClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			c.logger.Warn(ctx, "issue not found", "id", id)
			c.state = Failed(msgIssueNotFound)
		} else {
			c.logger.Error(ctx, "cannot load issue", "error", err, "id", id)
			c.state = Failed(msgLoadIssueFailed)
		}
		c.issue = models.Issue{}
		return err
	}
	c.issue = issue
	c.state = Loaded()
	return nil
}

// Edit opens the form for the shown issue.
func (c *DetailController) Edit() {
	c.mu.Lock()
	id := c.id
	c.mu.Unlock()
	if id == "" {
		return
	}
	c.nav.Navigate(IssueEditPath(id))
}

func (c *DetailController) Back() { c.nav.Navigate(PathIssues) }

// Delete asks for confirmation, deletes the issue and returns to the list.
func (c *DetailController) Delete(ctx context.Context) (bool, error) {
	c.mu.Lock()
	id := c.id
	busy := c.state.IsLoading()
	c.mu.Unlock()
	if id == "" {
		return false, nil
	}
	if busy {
		return false, ErrBusy
	}
	if !c.confirm.Confirm(deletePrompt) {
		return false, nil
	}

	c.mu.Lock()
	c.state = Loading()
	c.mu.Unlock()

	rctx, cancel := c.life.bind(ctx)
	err := c.api.DeleteIssue(rctx, id)
	cancel()
	if c.life.closed() {
		return false, ErrClosed
	}
	if err != nil {
		c.logger.Error(ctx, "cannot delete issue", "error", err, "id", id)
		c.mu.Lock()
		c.state = Failed(msgDeleteIssueFailed)
		c.mu.Unlock()
		return false, err
	}

	c.logger.Info(ctx, "issue deleted", "id", id)
	c.mu.Lock()
	c.state = Idle()
	c.issue = models.Issue{}
	c.mu.Unlock()
	c.nav.Navigate(PathIssues)
	return true, nil
}

func (c *DetailController) Close() { c.life.close() }
