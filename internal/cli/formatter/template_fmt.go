package formatter

import (
	"fmt"
	"strings"

	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/service"
	"github.com/dcrowhurst/telos/internal/template"
)

// FormatTemplateList renders the template directory listing. The numeric ID
// is the positional selector accepted by `project init --template`.
func FormatTemplateList(templates []service.TemplateInfo) string {
	headers := []string{"#", "ID", "NAME", "VERSION"}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", t.NumericID)),
			StylePurple.Render(t.ID),
			Bold(t.Name),
			StyleFg.Render(t.Version),
		})
	}
	return RenderBox("Templates", RenderTable(headers, rows))
}

// FormatTemplateShow renders one template's structure.
func FormatTemplateShow(s *template.Schema) string {
	var b strings.Builder

	b.WriteString(Header("Template") + "\n")
	b.WriteString(fmt.Sprintf("  ID:      %s\n", StylePurple.Render(s.ID)))
	b.WriteString(fmt.Sprintf("  Name:    %s\n", Bold(s.Name)))
	b.WriteString(fmt.Sprintf("  Version: %s\n", s.Version))

	if len(s.Variables) > 0 {
		b.WriteString("\n" + Header("Variables") + "\n")
		for _, v := range s.Variables {
			detail := "(required)"
			if len(v.Default) > 0 {
				detail = fmt.Sprintf("(default %s)", string(v.Default))
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", Bold(v.Key), Dim(detail)))
		}
	}

	if len(s.Milestones) > 0 {
		b.WriteString("\n" + Header("Milestones") + "\n")
		for _, m := range s.Milestones {
			b.WriteString(fmt.Sprintf("  %s %s\n", StylePurple.Render(m.Key), m.Name))
		}
	}

	b.WriteString("\n" + Header("Activities") + "\n")
	for _, a := range s.Activities {
		label := Bold(a.Name)
		if a.Rule != nil {
			label += " " + Dim("(conditional)")
		}
		b.WriteString("  " + label + "\n")
		for _, it := range a.Items {
			b.WriteString(fmt.Sprintf("    %s %s %s\n",
				Dim("·"), it.Name, Dim(fmt.Sprintf("%s %s", it.Anchor.Type, it.Anchor.OffsetDays))))
		}
	}

	return b.String()
}

// FormatSyncPlan renders a template sync diff.
func FormatSyncPlan(plan *contract.SyncPlan) string {
	if plan.Empty() {
		return StyleGreen.Render("✔ project is up to date with its template")
	}

	var b strings.Builder
	for _, a := range plan.AddedActivities {
		b.WriteString(fmt.Sprintf("  %s activity %s\n", StyleGreen.Render("+"), Bold(a.Name)))
	}
	for _, it := range plan.Added {
		b.WriteString(fmt.Sprintf("  %s item %s\n", StyleGreen.Render("+"), Bold(it.Name)))
	}
	for _, it := range plan.Updated {
		b.WriteString(fmt.Sprintf("  %s item %s %s\n", StyleYellow.Render("~"), Bold(it.Name), Dim(it.AnchorLabel())))
	}
	for _, it := range plan.Removed {
		b.WriteString(fmt.Sprintf("  %s item %s\n", StyleRed.Render("-"), it.Name))
	}
	return b.String()
}
