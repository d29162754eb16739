package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophtracker/internal/client/models"
	"github.com/dmitrijs2005/gophtracker/internal/logging"
)

const DefaultPageSize = 10

const (
	msgLoadIssuesFailed  = "Failed to load issues"
	msgDeleteIssueFailed = "Failed to delete issue"
)

// ListController shows one page of issues with search, filters and sort.
// Changing any of them returns to page 1.
type ListController struct {
	api     IssueAPI
	nav     Navigator
	confirm Confirmer
	logger  logging.Logger
	life    lifecycle

	mu     sync.Mutex
	state  State
	filter models.IssueFilter
	page   models.IssuePage
}

func NewListController(api IssueAPI, nav Navigator, confirm Confirmer, logger logging.Logger, pageSize int) *ListController {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &ListController{
		api:     api,
		nav:     nav,
		confirm: confirm,
		logger:  logger.With("view", "list"),
		filter:  models.IssueFilter{Page: 1, PageSize: pageSize},
		page:    models.IssuePage{Items: []models.Issue{}},
	}
}

func (c *ListController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Page returns the last loaded page.
func (c *ListController) Page() models.IssuePage {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.page
	p.Items = append([]models.Issue(nil), c.page.Items...)
	return p
}

// Filter returns the query the next Load sends.
func (c *ListController) Filter() models.IssueFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Load fetches the page selected by the current filter.
func (c *ListController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state.IsLoading() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = Loading()
	filter := c.filter
	c.mu.Unlock()

	return c.fetch(ctx, filter)
}

func (c *ListController) fetch(ctx context.Context, filter models.IssueFilter) error {
	rctx, cancel := c.life.bind(ctx)
	defer cancel()

	page, err := c.api.ListIssues(rctx, filter)
	if c.life.closed() {
		return ErrClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Error(ctx, "cannot load issues", "error", err, "page", filter.Page)
		c.state = Failed(msgLoadIssuesFailed)
		return err
	}
	c.page = page
	c.state = Loaded()
	return nil
}

// update applies change to the filter, resets to page 1 and reloads.
func (c *ListController) update(ctx context.Context, change func(f *models.IssueFilter)) error {
	c.mu.Lock()
	if c.state.IsLoading() {
		c.mu.Unlock()
		return ErrBusy
	}
	change(&c.filter)
	c.filter.Page = 1
	c.state = Loading()
	filter := c.filter
	c.mu.Unlock()

	return c.fetch(ctx, filter)
}

func (c *ListController) SetSearch(ctx context.Context, text string) error {
	return c.update(ctx, func(f *models.IssueFilter) { f.Search = text })
}

// SetStatus filters by status; "" removes the filter.
func (c *ListController) SetStatus(ctx context.Context, status models.Status) error {
	return c.update(ctx, func(f *models.IssueFilter) { f.Status = status })
}

// SetPriority filters by priority; "" removes the filter.
func (c *ListController) SetPriority(ctx context.Context, priority models.Priority) error {
	return c.update(ctx, func(f *models.IssueFilter) { f.Priority = priority })
}

func (c *ListController) SetAssignee(ctx context.Context, assignee string) error {
	return c.update(ctx, func(f *models.IssueFilter) { f.Assignee = assignee })
}

// SetSort passes key through to the backend unchanged.
func (c *ListController) SetSort(ctx context.Context, key string) error {
	return c.update(ctx, func(f *models.IssueFilter) { f.Sort = key })
}

// ClearFilters removes search, filters and sort.
func (c *ListController) ClearFilters(ctx context.Context) error {
	return c.update(ctx, func(f *models.IssueFilter) {
		*f = models.IssueFilter{PageSize: f.PageSize}
	})
}

// CanNext reports whether a later page exists according to the last load.
func (c *ListController) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Page*c.filter.PageSize < c.page.Total
}

func (c *ListController) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Page > 1
}

// NextPage loads the following page. It reports false and sends nothing when
// there is no next page.
func (c *ListController) NextPage(ctx context.Context) (bool, error) {
	return c.step(ctx, +1)
}

// PrevPage loads the preceding page. It reports false and sends nothing on
// page 1.
func (c *ListController) PrevPage(ctx context.Context) (bool, error) {
	return c.step(ctx, -1)
}

func (c *ListController) step(ctx context.Context, delta int) (bool, error) {
	c.mu.Lock()
	if c.state.IsLoading() {
		c.mu.Unlock()
		return false, ErrBusy
	}
	next := c.filter.Page + delta
	if next < 1 || (delta > 0 && c.filter.Page*c.filter.PageSize >= c.page.Total) {
		c.mu.Unlock()
		return false, nil
	}
	c.filter.Page = next
	c.state = Loading()
	filter := c.filter
	c.mu.Unlock()

	return true, c.fetch(ctx, filter)
}

// Delete asks for confirmation, deletes the issue and reloads the current
// page. It reports whether the issue was deleted.
func (c *ListController) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	busy := c.state.IsLoading()
	c.mu.Unlock()
	if busy {
		return false, ErrBusy
	}
	if !c.confirm.Confirm(deletePrompt) {
		return false, nil
	}

	c.mu.Lock()
	if c.state.IsLoading() {
		c.mu.Unlock()
		return false, ErrBusy
	}
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
	filter := c.filter
	c.mu.Unlock()
	return true, c.fetch(ctx, filter)
}

// Invalidate marks the loaded page as out of date so the next view of the
// list reloads it.
func (c *ListController) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsLoading() {
		c.state = Idle()
	}
}

func (c *ListController) View(id string) { c.nav.Navigate(IssuePath(id)) }
func (c *ListController) Edit(id string) { c.nav.Navigate(IssueEditPath(id)) }
func (c *ListController) New()           { c.nav.Navigate(PathIssueNew) }

// Close cancels requests in flight; later responses are dropped.
func (c *ListController) Close() { c.life.close() }
