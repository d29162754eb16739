package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophtracker/internal/client/models"
	"github.com/dmitrijs2005/gophtracker/internal/client/views"
)

// List reloads the current page of issues and shows it.
func (a *App) List(ctx context.Context) error {
	err := a.listView().Load(ctx)
	a.navigate(ctx, views.PathIssues)
	return err
}

func (a *App) NextPage(ctx context.Context) error {
	moved, err := a.listView().NextPage(ctx)
	if err == nil && !moved {
		printlnFn("Already on the last page.")
		return nil
	}
	a.navigate(ctx, views.PathIssues)
	return err
}

func (a *App) PrevPage(ctx context.Context) error {
	moved, err := a.listView().PrevPage(ctx)
	if err == nil && !moved {
		printlnFn("Already on the first page.")
		return nil
	}
	a.navigate(ctx, views.PathIssues)
	return err
}

// Search sets the free-text search; an empty text removes it.
func (a *App) Search(ctx context.Context, text string) error {
	err := a.listView().SetSearch(ctx, text)
	a.navigate(ctx, views.PathIssues)
	return err
}

// Filter sets one list filter. The value "any" removes it.
func (a *App) Filter(ctx context.Context, field, value string) error {
	if strings.EqualFold(value, "any") {
		value = ""
	}
	lc := a.listView()

	var err error
	switch field {
	case "status":
		status := models.Status(value)
		if value != "" && !status.Valid() {
			printlnFn(fmt.Sprintf("Unknown status %q. Use one of: %s, any", value, joinStatuses()))
			return nil
		}
		err = lc.SetStatus(ctx, status)
	case "priority":
		priority := models.Priority(value)
		if value != "" && !priority.Valid() {
			printlnFn(fmt.Sprintf("Unknown priority %q. Use one of: %s, any", value, joinPriorities()))
			return nil
		}
		err = lc.SetPriority(ctx, priority)
	case "assignee":
		err = lc.SetAssignee(ctx, value)
	default:
		printlnFn("Usage: filter status|priority|assignee <value|any>")
		return nil
	}
	a.navigate(ctx, views.PathIssues)
	return err
}

// Sort passes key to the server, e.g. "title" or "-createdAt".
func (a *App) Sort(ctx context.Context, key string) error {
	err := a.listView().SetSort(ctx, key)
	a.navigate(ctx, views.PathIssues)
	return err
}

func (a *App) ClearFilters(ctx context.Context) error {
	err := a.listView().ClearFilters(ctx)
	a.navigate(ctx, views.PathIssues)
	return err
}

func (a *App) Show(ctx context.Context, id string) error {
	a.listView().View(id)
	a.settle(ctx)
	return nil
}

func (a *App) New(ctx context.Context) error {
	a.listView().New()
	a.settle(ctx)
	return nil
}

// Edit opens the form for id, from the detail view when it shows that issue.
func (a *App) Edit(ctx context.Context, id string) error {
	if dc := a.detailFor(id); dc != nil {
		dc.Edit()
	} else {
		a.listView().Edit(id)
	}
	a.settle(ctx)
	return nil
}

// Delete removes an issue after confirmation and returns to the list.
func (a *App) Delete(ctx context.Context, id string) error {
	var (
		deleted bool
		err     error
		state   views.State
	)
	if dc := a.detailFor(id); dc != nil {
		deleted, err = dc.Delete(ctx)
		state = dc.State()
		if deleted {
			a.listView().Invalidate()
		}
	} else {
		lc := a.listView()
		deleted, err = lc.Delete(ctx, id)
		state = lc.State()
	}
	if err != nil {
		a.printFailure(err, state)
		return err
	}
	if !deleted {
		printlnFn("Cancelled.")
		return nil
	}
	printlnFn(fmt.Sprintf("Issue %s deleted.", id))
	a.navigate(ctx, views.PathIssues)
	return nil
}

// Back leaves the detail view for the list.
func (a *App) Back(ctx context.Context) error {
	if a.detail != nil {
		a.detail.Back()
		a.settle(ctx)
		return nil
	}
	a.navigate(ctx, views.PathIssues)
	return nil
}

// detailFor returns the open detail controller when it shows issue id.
func (a *App) detailFor(id string) *views.DetailController {
	if a.detail == nil {
		return nil
	}
	if cur := a.router.Current(); cur.Name != views.RouteIssue || cur.ID() != id {
		return nil
	}
	return a.detail
}

func (a *App) showList(ctx context.Context) {
	lc := a.listView()
	// a failed page stays failed until the user runs another list command
	if lc.State().Phase() == views.PhaseIdle {
		_ = lc.Load(ctx)
	}

	state := lc.State()
	if state.IsFailed() {
		printlnFn(renderError(state.Reason()))
		return
	}
	printlnFn(renderIssuePage(lc.Page(), lc.Filter()))
}

func (a *App) showDetail(ctx context.Context, id string) {
	if a.detail != nil {
		a.detail.Close()
	}
	a.detail = views.NewDetailController(a.api, a.router, a, a.logger)

	if err := a.detail.Load(ctx, id); err != nil {
		printlnFn(renderError(a.detail.State().Reason()))
		return
	}
	issue, _ := a.detail.Issue()
	printlnFn(renderIssue(issue))
}

// runForm prompts for the issue fields until the form is saved or the user
// gives up.
func (a *App) runForm(ctx context.Context, fc *views.FormController) {
	defer fc.Close()

	if err := fc.Load(ctx); err != nil {
		printlnFn(renderError(fc.State().Reason()))
		fc.Cancel()
		return
	}

	for {
		values, err := a.promptIssue(fc.Values())
		if err != nil {
			fc.Cancel()
			return
		}
		fc.SetValues(values)

		issue, err := fc.Submit(ctx)
		if err == nil {
			a.listView().Invalidate()
			printlnFn(fmt.Sprintf("Issue %s saved.", issue.ID))
			return
		}
		a.printFailure(err, fc.State())
		if !a.Confirm("Try again?") {
			fc.Cancel()
			return
		}
	}
}

// promptIssue asks for every field, showing the current value. An empty
// answer keeps it; "-" clears the assignee.
func (a *App) promptIssue(cur views.IssueForm) (views.IssueForm, error) {
	ask := func(prompt, current string) (string, error) {
		if current != "" {
			prompt = fmt.Sprintf("%s [%s]", prompt, current)
		}
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return "", err
		}
		if v == "" {
			return current, nil
		}
		return v, nil
	}

	title, err := ask("Title", cur.Title)
	if err != nil {
		return cur, err
	}
	status, err := ask(fmt.Sprintf("Status (%s)", joinStatuses()), string(cur.Status))
	if err != nil {
		return cur, err
	}
	priority, err := ask(fmt.Sprintf("Priority (%s)", joinPriorities()), string(cur.Priority))
	if err != nil {
		return cur, err
	}
	assignee, err := ask("Assignee ('-' for none)", cur.Assignee)
	if err != nil {
		return cur, err
	}
	if assignee == "-" {
		assignee = ""
	}

	return views.IssueForm{
		Title:    title,
		Status:   models.Status(status),
		Priority: models.Priority(priority),
		Assignee: assignee,
	}, nil
}

func joinStatuses() string {
	s := make([]string, len(models.Statuses))
	for i, v := range models.Statuses {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

func joinPriorities() string {
	s := make([]string, len(models.Priorities))
	for i, v := range models.Priorities {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

func sortedMessages(ve *views.ValidationError) []string {
	names := make([]string, 0, len(ve.Fields))
	for name := range ve.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = ve.Fields[n]
	}
	return out
}

var _ views.Confirmer = (*App)(nil)
