package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dcrowhurst/telos/internal/domain"
)

// ProjectInspectData holds all data needed to render a project inspect view.
type ProjectInspectData struct {
	Project    *domain.Project
	Milestones []*domain.ProjectMilestone
	Activities []*domain.Activity
	Items      map[string][]*domain.ScheduleItem // activityID -> items
}

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "TEMPLATE", "STATUS", "START"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		tmpl := Dim("--")
		if p.TemplateID != "" {
			tmpl = StylePurple.Render(p.TemplateID)
		}
		rows = append(rows, []string{
			p.DisplayID(),
			Bold(p.Name),
			tmpl,
			StatusPill(p.Status),
			p.StartDate.Format("2006-01-02"),
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectInspect renders a project card: metadata on the left, the
// schedule outline on the right.
func FormatProjectInspect(data ProjectInspectData) string {
	left := buildMetadataPanel(data.Project, data.Milestones)
	right := buildSchedulePanel(data.Activities, data.Items)
	combined := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return RenderBox("", combined)
}

// FormatMilestoneList renders the project milestone table.
func FormatMilestoneList(milestones []*domain.ProjectMilestone) string {
	headers := []string{"KEY", "NAME", "DATE"}
	rows := make([][]string, 0, len(milestones))
	for _, m := range milestones {
		rows = append(rows, []string{
			StylePurple.Render(m.Key),
			Bold(m.Name),
			m.Date.Format("2006-01-02"),
		})
	}
	return RenderTable(headers, rows)
}

func buildMetadataPanel(p *domain.Project, milestones []*domain.ProjectMilestone) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATUS"), StatusPill(p.Status)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID    "), Dim(p.ShortID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UUID  "), TruncID(p.ID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("START "), StyleFg.Render(HumanDate(p.StartDate))))
	if p.TemplateID != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("TMPL  "), StylePurple.Render(p.TemplateID)))
	}
	if p.ArchivedAt != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ARCHVD"), HumanDate(*p.ArchivedAt)))
	}

	if len(milestones) > 0 {
		b.WriteString("\n" + StyleHeader.Render("MILESTONES") + "\n")
		for _, m := range milestones {
			b.WriteString(fmt.Sprintf("  %s  %s %s\n",
				m.Date.Format("2006-01-02"), Bold(m.Name), Dim("("+m.Key+")")))
		}
	}

	return lipgloss.NewStyle().Width(45).Render(b.String())
}

func buildSchedulePanel(activities []*domain.Activity, items map[string][]*domain.ScheduleItem) string {
	if len(activities) == 0 {
		return StyleDim.Render("No activities")
	}

	var b strings.Builder
	b.WriteString(StyleHeader.Render("SCHEDULE") + "\n" + StyleDim.Render(strings.Repeat("─", 8)) + "\n")

	for _, a := range activities {
		label := Bold(a.Name)
		if a.RuleID != "" {
			label += " " + Dim("(conditional)")
		}
		b.WriteString(label + "\n")
		for i, it := range items[a.ID] {
			branch := "├─"
			if i == len(items[a.ID])-1 {
				branch = "└─"
			}
			marker := ""
			if it.Kind == domain.KindMilestone {
				marker = StylePurple.Render("◆ ")
			}
			anchor := Dim(it.AnchorLabel())
			if it.Overridden() {
				anchor = StyleYellow.Render("pinned " + it.OverrideDate.Format("2006-01-02"))
			}
			b.WriteString(fmt.Sprintf("  %s %s%s  %s\n", Dim(branch), marker, it.Name, anchor))
		}
	}

	return b.String()
}
