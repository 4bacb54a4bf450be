package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/internal/tracker"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// renderApplications prints the derived view; total is the size of the full
// fetched set.
func renderApplications(w io.Writer, apps []domain.JobApplication, total int) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No applications.")
	}
	if total > 0 {
		fmt.Fprintf(w, "Showing %d of %d applications\n", len(apps), total)
	}
	if len(apps) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tTITLE\tSTATUS\tAPPLIED\tURL")
	for _, a := range apps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(a.ID), a.Company, a.Title, a.Status.Label(), orDash(a.DateApplied), orDash(a.URL))
	}
	tw.Flush()
}

func renderStats(w io.Writer, stats domain.ApplicationStats) {
	parts := []string{fmt.Sprintf("Total %d", stats.Total)}
	for _, opt := range domain.StatusOptions {
		parts = append(parts, fmt.Sprintf("%s %d", opt.Label, stats.ByStatus[opt.Value]))
	}
	fmt.Fprintln(w, strings.Join(parts, " | "))
}

func renderDraft(w io.Writer, form *tracker.FormController) {
	header := "New application"
	if form.Mode() == tracker.ModeEdit {
		header = "Editing " + shortID(form.EditingID())
	}
	fmt.Fprintln(w, header)

	draft := form.Draft()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, field := range domain.DraftFields {
		value := draft.Get(field)
		if field == domain.FieldStatus {
			value = domain.Status(value).Label()
		}
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", field, value)
	}
	tw.Flush()
}
