package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
	"github.com/emiliopalmerini/sessiontrack/internal/insight"
	"github.com/emiliopalmerini/sessiontrack/internal/pkg/tui/components"
	"github.com/emiliopalmerini/sessiontrack/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/sessiontrack/internal/util"
)

const meterWidth = 30

func field(w io.Writer, label, value string) {
	s := theme.Default()
	fmt.Fprintln(w, s.Label.Render(label)+s.Body.Render(value))
}

func renderSession(w io.Writer, session *domain.Session, withMessages bool) {
	s := theme.Default()

	fmt.Fprintln(w, s.Title.Render("Session ")+s.ID.Render(session.ID))
	field(w, "Key", session.SessionKey)
	field(w, "Captured", util.FormatDateTime(session.Timestamp))
	field(w, "Source", session.Source)
	if session.Project != nil {
		field(w, "Project", *session.Project)
	}
	field(w, "Participants", strings.Join(session.Participants, ", "))
	field(w, "Messages", fmt.Sprintf("%d", session.TotalMessages))
	field(w, "Tokens (est.)", util.FormatTokens(domain.EstimateTokens(domain.Transcript(session.Messages))))

	renderInsight(w, session.AIInsights)

	if !withMessages || len(session.Messages) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Subtitle.Render("Transcript"))
	for _, m := range session.Messages {
		fmt.Fprintf(w, "%s %s %s\n",
			s.Muted.Render(m.Timestamp.Local().Format("15:04")),
			s.Bold.Render(m.AuthorOrUnknown()+":"),
			m.Content)
	}
}

func renderInsight(w io.Writer, in domain.Insight) {
	s := theme.Default()

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Subtitle.Render("Insight"))
	fmt.Fprintln(w, s.Card.Render(in.Summary))
	if len(in.Topics) > 0 {
		field(w, "Topics", strings.Join(in.Topics, ", "))
	}
	for _, item := range in.ActionItems {
		fmt.Fprintln(w, s.Warning.Render("  • ")+item)
	}
}

func renderSessionList(w io.Writer, summaries []domain.SessionSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCAPTURED\tPROJECT\tMSGS\tPARTICIPANTS\tSUMMARY")
	for _, s := range summaries {
		project := "-"
		if s.Project != nil {
			project = *s.Project
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			util.Truncate(s.ID, 11),
			util.FormatDateTime(s.Timestamp),
			project,
			s.TotalMessages,
			util.Truncate(strings.Join(s.Participants, ", "), 24),
			util.Truncate(firstLine(s.AIInsights.Summary), 48),
		)
	}
	tw.Flush()
}

func renderProjectList(w io.Writer, summaries []domain.ProjectSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tSESSIONS\tACTIONS\tCREATED")
	for _, p := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			p.ID,
			util.Truncate(p.Name, 32),
			p.Status,
			p.TotalSessions,
			p.TotalActionItems,
			util.FormatDateTime(p.CreatedAt),
		)
	}
	tw.Flush()
}

func renderProject(w io.Writer, p *domain.Project) {
	s := theme.Default()

	fmt.Fprintln(w, s.Title.Render(p.Name)+"  "+s.ProjectStatus(p.Status).Render(string(p.Status)))
	field(w, "ID", p.ID)
	if p.Description != "" {
		field(w, "Description", p.Description)
	}
	if len(p.Tags) > 0 {
		field(w, "Tags", strings.Join(p.Tags, ", "))
	}
	field(w, "Created", util.FormatDateTime(p.CreatedAt))
	field(w, "Updated", util.FormatDateTime(p.UpdatedAt))
	for k, v := range p.Metadata {
		field(w, k, v)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Subtitle.Render(fmt.Sprintf("Action items (%d)", len(p.ActionItems))))
	for _, a := range p.ActionItems {
		fmt.Fprintf(w, "  %s %s %s %s\n",
			s.ID.Render(a.ID),
			s.Priority(a.Priority).Render(fmt.Sprintf("[%s]", a.Priority)),
			s.ActionStatus(a.Status).Render(string(a.Status)),
			a.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Subtitle.Render(fmt.Sprintf("Sessions (%d)", len(p.Sessions))))
	for _, link := range p.Sessions {
		fmt.Fprintf(w, "  %s %s\n", s.Muted.Render(util.FormatDateTime(link.AddedAt)), link.Path)
	}
}

func renderBudgetStatus(w io.Writer, st insight.Status, modelConfigured bool) {
	s := theme.Default()

	fmt.Fprintln(w, s.Title.Render("AI budget ")+s.ID.Render(st.Period))
	fmt.Fprintln(w, components.NewMeter(meterWidth, st.Spend, st.Budget).View())
	field(w, "Spent", util.FormatCost(st.Spend))
	field(w, "Budget", util.FormatCost(st.Budget))
	field(w, "Remaining", util.FormatCost(st.Remaining))
	if modelConfigured {
		field(w, "Model", s.Success.Render("configured"))
	} else {
		field(w, "Model", s.Warning.Render("not configured"))
	}
}

func renderBudgetHistory(w io.Writer, history []domain.LedgerState) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No billing periods recorded.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tSPEND\tBUDGET\tUPDATED")
	for _, h := range history {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			h.Period,
			util.FormatCost(h.Spend),
			util.FormatCost(h.Budget),
			util.FormatDateTime(h.UpdatedAt),
		)
	}
	tw.Flush()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
