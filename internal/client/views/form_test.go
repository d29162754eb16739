package views

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophtracker/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_Defaults(t *testing.T) {
	c := NewCreateForm(newFakeAPI(0), &recordingNav{}, nil)
	assert.False(t, c.IsEdit())
	assert.Equal(t, IssueForm{Status: models.StatusOpen, Priority: models.PriorityMedium}, c.Values())
	require.NoError(t, c.Load(context.Background()))
}

func TestForm_ShortTitleNeverReachesAPI(t *testing.T) {
	api := newFakeAPI(0)
	nav := &recordingNav{}
	c := NewCreateForm(api, nav, nil)

	v := c.Values()
	v.Title = "ab"
	c.SetValues(v)

	_, err := c.Submit(context.Background())
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Field("title"))
	assert.Empty(t, api.created)
	assert.Empty(t, nav.paths)
	assert.Equal(t, Idle(), c.State())

	v.Title = "abc"
	c.SetValues(v)
	require.NoError(t, c.Validate())
	issue, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, api.created, 1)
	assert.Equal(t, models.IssueInput{Title: "abc", Status: models.StatusOpen, Priority: models.PriorityMedium}, api.created[0])
	assert.Equal(t, "/issues/"+issue.ID, nav.last())
	assert.Equal(t, Loaded(), c.State())
}

func TestForm_CreateFailureKeepsInput(t *testing.T) {
	api := newFakeAPI(0)
	api.saveErr = errors.New("boom")
	c := NewCreateForm(api, &recordingNav{}, nil)
	in := IssueForm{Title: "Broken login", Status: models.StatusOpen, Priority: models.PriorityHigh, Assignee: "ann"}
	c.SetValues(in)

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, Failed("Failed to create issue"), c.State())
	assert.Equal(t, in, c.Values())

	api.saveErr = nil
	_, err = c.Submit(context.Background())
	require.NoError(t, err, "retry after failure")
}

func TestForm_EditPrefillAndUpdate(t *testing.T) {
	api := newFakeAPI(2)
	nav := &recordingNav{}
	c := NewEditForm(api, nav, nil, "i2")
	require.True(t, c.IsEdit())

	require.NoError(t, c.Load(context.Background()))
	v := c.Values()
	assert.Equal(t, "issue 2", v.Title)

	v.Status = models.StatusResolved
	c.SetValues(v)
	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, api.updated["i2"].Status)
	assert.Empty(t, api.created)
	assert.Equal(t, "/issues/i2", nav.last())
}

func TestForm_UpdateFailure(t *testing.T) {
	api := newFakeAPI(1)
	c := NewEditForm(api, &recordingNav{}, nil, "i1")
	require.NoError(t, c.Load(context.Background()))
	api.saveErr = errors.New("boom")

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, Failed("Failed to update issue"), c.State())
}

// bareUpdateAPI answers updates without echoing the issue id.
type bareUpdateAPI struct{ *fakeAPI }

func (f bareUpdateAPI) UpdateIssue(ctx context.Context, id string, in models.IssueInput) (models.Issue, error) {
	is, err := f.fakeAPI.UpdateIssue(ctx, id, in)
	is.ID = ""
	return is, err
}

func TestForm_EditNavigatesToRouteID(t *testing.T) {
	nav := &recordingNav{}
	c := NewEditForm(bareUpdateAPI{newFakeAPI(2)}, nav, nil, "i2")
	require.NoError(t, c.Load(context.Background()))

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/issues/i2", nav.last())
}

func TestForm_EditLoadFailure(t *testing.T) {
	c := NewEditForm(newFakeAPI(0), &recordingNav{}, nil, "nope")
	require.Error(t, c.Load(context.Background()))
	assert.Equal(t, Failed(msgLoadIssueFailed), c.State())
}

func TestForm_SubmitWhileSubmitting(t *testing.T) {
	api := newFakeAPI(0)
	c := NewCreateForm(api, &recordingNav{}, nil)
	c.SetValues(IssueForm{Title: "abc", Status: models.StatusOpen, Priority: models.PriorityLow})

	var inner error
	api.hook = func() {
		_, inner = c.Submit(context.Background())
	}
	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrBusy)
	assert.Len(t, api.created, 1)
}

func TestForm_Cancel(t *testing.T) {
	nav := &recordingNav{}
	NewEditForm(newFakeAPI(0), nav, nil, "i1").Cancel()
	assert.Equal(t, []string{"/issues"}, nav.paths)
}
