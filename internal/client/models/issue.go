package models

import (
	"net/url"
	"strconv"
)

// Status is the workflow state of an issue.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists the accepted statuses in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority is the urgency of an issue.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists the accepted priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

const (
	DefaultStatus   = StatusOpen
	DefaultPriority = PriorityMedium
)

// Issue is a tracked work item. ID and the timestamps are assigned by the
// backend and never sent by the client.
type Issue struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Priority  Priority  `json:"priority"`
	Assignee  string    `json:"assignee,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// Input returns the mutable fields of the issue.
func (i Issue) Input() IssueInput {
	return IssueInput{Title: i.Title, Status: i.Status, Priority: i.Priority, Assignee: i.Assignee}
}

// IssueInput is the body of POST /issues and PUT /issues/{id}.
type IssueInput struct {
	Title    string   `json:"title"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`
	Assignee string   `json:"assignee,omitempty"`
}

// IssueFilter holds the optional query of GET /issues. Zero values are
// absent and are not sent.
type IssueFilter struct {
	Search   string
	Status   Status
	Priority Priority
	Assignee string
	Sort     string
	Page     int
	PageSize int
}

// Query returns the filter as query parameters, skipping absent fields.
func (f IssueFilter) Query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("search", f.Search)
	set("status", string(f.Status))
	set("priority", string(f.Priority))
	set("assignee", f.Assignee)
	set("sort", f.Sort)
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	return q
}

// IssuePage is one window of a list query.
type IssuePage struct {
	Items    []Issue `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}

// HasNext reports whether a later page exists.
func (p IssuePage) HasNext() bool {
	return p.Page*p.PageSize < p.Total
}

// HasPrev reports whether an earlier page exists.
func (p IssuePage) HasPrev() bool {
	return p.Page > 1
}
