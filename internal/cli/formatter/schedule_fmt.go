package formatter

import (
	"fmt"
	"strings"

	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/scheduler"
)

// FormatSchedule renders a resolved schedule: one row per item with its
// computed date or the reason it has none.
func FormatSchedule(resp *contract.ScheduleResponse) string {
	headers := []string{"ITEM", "ANCHOR", "STATE", "DATE"}
	rows := make([][]string, 0, len(resp.Items))

	for _, r := range resp.Items {
		dateCol := Dim("--")
		switch r.State {
		case scheduler.StateResolved:
			dateCol = StyleFg.Render(r.PlannedDate.Format("2006-01-02"))
		case scheduler.StatePending, scheduler.StateError:
			dateCol = Dim(r.Reason)
		}
		rows = append(rows, []string{
			Bold(r.Item.Name),
			Dim(r.Item.AnchorLabel()),
			StateIndicator(r.State),
			dateCol,
		})
	}

	out := RenderBox(resp.ProjectName, RenderTable(headers, rows))
	if len(resp.Issues) > 0 {
		out += "\n" + FormatIssues(resp.Issues)
	}
	return out
}

// FormatIssues renders structural validation findings as a red-flagged list.
func FormatIssues(issues []string) string {
	if len(issues) == 0 {
		return StyleGreen.Render("✔ schedule is structurally sound")
	}
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%d issue(s)", len(issues))) + "\n")
	for _, issue := range issues {
		b.WriteString(fmt.Sprintf("  %s %s\n", StyleRed.Render("✖"), issue))
	}
	return b.String()
}
