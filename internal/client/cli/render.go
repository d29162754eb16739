package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/gophtracker/internal/client/models"
)

const (
	columnWidthID       = 10
	columnWidthTitle    = 36
	columnWidthStatus   = 13
	columnWidthPriority = 10
	columnWidthAssignee = 14

	timeLayout = "2006-01-02 15:04"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Width(10).Faint(true)
)

func statusColor(s models.Status) lipgloss.Color {
	switch s {
	case models.StatusOpen:
		return lipgloss.Color("12")
	case models.StatusInProgress:
		return lipgloss.Color("11")
	case models.StatusResolved:
		return lipgloss.Color("10")
	default:
		return lipgloss.Color("8")
	}
}

func priorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityCritical:
		return lipgloss.Color("9")
	case models.PriorityHigh:
		return lipgloss.Color("208")
	case models.PriorityMedium:
		return lipgloss.Color("11")
	default:
		return lipgloss.Color("8")
	}
}

func statusBadge(s models.Status) string {
	return lipgloss.NewStyle().Foreground(statusColor(s)).Render(strings.ReplaceAll(string(s), "_", " "))
}

func priorityBadge(p models.Priority) string {
	return lipgloss.NewStyle().Foreground(priorityColor(p)).Bold(p == models.PriorityCritical).Render(string(p))
}

// truncate shortens text to maxWidth cells, ending with "…".
func truncate(text string, maxWidth int) string {
	if lipgloss.Width(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for i := len(runes) - 1; i > 0; i-- {
		candidate := string(runes[:i]) + "…"
		if lipgloss.Width(candidate) <= maxWidth {
			return candidate
		}
	}
	return "…"
}

func cell(width int, text string) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(text)
}

// renderIssuePage draws the list as fixed-width columns followed by a
// paging footer.
func renderIssuePage(page models.IssuePage, filter models.IssueFilter) string {
	var b strings.Builder

	if summary := filterSummary(filter); summary != "" {
		b.WriteString(faintStyle.Render(summary))
		b.WriteString("\n")
	}

	if len(page.Items) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		cell(columnWidthID, headerStyle.Render("ID")),
		cell(columnWidthTitle, headerStyle.Render("TITLE")),
		cell(columnWidthStatus, headerStyle.Render("STATUS")),
		cell(columnWidthPriority, headerStyle.Render("PRIORITY")),
		cell(columnWidthAssignee, headerStyle.Render("ASSIGNEE")),
		headerStyle.Render("UPDATED"),
	)
	b.WriteString(header)
	b.WriteString("\n")

	for _, is := range page.Items {
		assignee := is.Assignee
		if assignee == "" {
			assignee = faintStyle.Render("-")
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			cell(columnWidthID, truncate(is.ID, columnWidthID-1)),
			cell(columnWidthTitle, truncate(is.Title, columnWidthTitle-1)),
			cell(columnWidthStatus, statusBadge(is.Status)),
			cell(columnWidthPriority, priorityBadge(is.Priority)),
			cell(columnWidthAssignee, truncate(assignee, columnWidthAssignee-1)),
			formatTime(is.UpdatedAt.Time),
		)
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString(faintStyle.Render(pageFooter(page)))
	b.WriteString("\n")
	return b.String()
}

func pageFooter(page models.IssuePage) string {
	pages := 1
	if page.PageSize > 0 && page.Total > 0 {
		pages = (page.Total + page.PageSize - 1) / page.PageSize
	}
	nav := []string{}
	if page.HasPrev() {
		nav = append(nav, "prev")
	}
	if page.HasNext() {
		nav = append(nav, "next")
	}
	footer := fmt.Sprintf("Page %d of %d (%d issues)", page.Page, pages, page.Total)
	if len(nav) > 0 {
		footer += " · " + strings.Join(nav, ", ")
	}
	return footer
}

func filterSummary(f models.IssueFilter) string {
	var parts []string
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.Search))
	}
	if f.Status != "" {
		parts = append(parts, "status="+string(f.Status))
	}
	if f.Priority != "" {
		parts = append(parts, "priority="+string(f.Priority))
	}
	if f.Assignee != "" {
		parts = append(parts, "assignee="+f.Assignee)
	}
	if f.Sort != "" {
		parts = append(parts, "sort="+f.Sort)
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filters: " + strings.Join(parts, " ")
}

// renderIssue draws the detail view of one issue.
func renderIssue(is models.Issue) string {
	assignee := is.Assignee
	if assignee == "" {
		assignee = "Unassigned"
	}
	lines := []string{
		titleStyle.Render(is.Title),
		labelStyle.Render("ID") + is.ID,
		labelStyle.Render("Status") + statusBadge(is.Status),
		labelStyle.Render("Priority") + priorityBadge(is.Priority),
		labelStyle.Render("Assignee") + assignee,
		labelStyle.Render("Created") + formatTime(is.CreatedAt.Time),
		labelStyle.Render("Updated") + formatTime(is.UpdatedAt.Time),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func renderError(msg string) string {
	return errorStyle.Render(msg)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
