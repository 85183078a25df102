// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskman/internal/model"
)

// statusMarks maps a task status to its one-character list marker.
var statusMarks = map[model.TaskStatus]byte{
	model.StatusPending:    ' ',
	model.StatusInProgress: '~',
	model.StatusCompleted:  'x',
}

// FormatTask formats one task line for the list view.
// Format: "{N:>4}  [{MARK}] {PRIORITY:<6}  {TITLE}  [due {DATE}]  ({ID})"
func FormatTask(w io.Writer, num int, task model.Task) {
	mark, ok := statusMarks[task.Status]
	if !ok {
		mark = '?'
	}
	line := fmt.Sprintf("%4d  [%c] %-6s  %s", num, mark, task.Priority, normalizeTitle(task.Title))
	if task.DueDate != "" {
		line += fmt.Sprintf("  (due %s)", task.DueDate)
	}
	fmt.Fprintf(w, "%s  #%s\n", line, task.ID)
}

// FormatTaskDetail formats the full record for the show view.
func FormatTaskDetail(w io.Writer, task model.Task) {
	fmt.Fprintf(w, "id:          %s\n", task.ID)
	fmt.Fprintf(w, "title:       %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "description: %s\n", task.Description)
	fmt.Fprintf(w, "status:      %s\n", task.Status)
	fmt.Fprintf(w, "priority:    %s\n", task.Priority)
	fmt.Fprintf(w, "due date:    %s\n", task.DueDate)
	if task.CreatedAt != "" {
		fmt.Fprintf(w, "created:     %s\n", task.CreatedAt)
	}
	if task.UpdatedAt != "" {
		fmt.Fprintf(w, "updated:     %s\n", task.UpdatedAt)
	}
}

// FormatMeta formats the pagination footer under a task listing.
func FormatMeta(w io.Writer, meta model.Meta) {
	fmt.Fprintf(w, "page %d of %d (%d total)\n", meta.CurrentPage, meta.LastPage, meta.Total)
}

// FormatUser formats the whoami output.
func FormatUser(w io.Writer, user model.User) {
	fmt.Fprintf(w, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
}

// FormatFieldErrors prints per-field validation messages, one per line,
// in the given field order.
func FormatFieldErrors(w io.Writer, fields []string, errs map[string]string) {
	for _, f := range fields {
		if msg, ok := errs[f]; ok {
			fmt.Fprintf(w, "  %s: %s\n", f, msg)
		}
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
