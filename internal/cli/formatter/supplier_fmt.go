package formatter

import (
	"strings"

	"github.com/dcrowhurst/telos/internal/domain"
)

// FormatSupplierList renders a styled supplier list inside a bordered box.
func FormatSupplierList(suppliers []*domain.Supplier) string {
	headers := []string{"CODE", "NAME", "RANK", "PART RANKS"}
	rows := make([][]string, 0, len(suppliers))

	for _, s := range suppliers {
		parts := Dim("--")
		if len(s.PartRanks) > 0 {
			parts = StyleFg.Render(strings.Join(s.PartRanks, ", "))
		}
		rows = append(rows, []string{
			Bold(s.Code),
			StyleFg.Render(s.Name),
			RankBadge(s.Rank),
			parts,
		})
	}

	return RenderBox("Suppliers", RenderTable(headers, rows))
}

// FormatInstanceList renders a supplier's tracked instances. Item names and
// kinds come from itemsByID; instances whose item is gone show a dimmed ID.
func FormatInstanceList(instances []*domain.Instance, itemsByID map[string]*domain.ScheduleItem) string {
	headers := []string{"INSTANCE", "ITEM", "STATUS", "PLANNED", "ACTUAL", "FLAGS"}
	rows := make([][]string, 0, len(instances))

	for _, inst := range instances {
		name := TruncID(inst.ItemID)
		if it, ok := itemsByID[inst.ItemID]; ok {
			name = StyleFg.Render(it.Name)
			if it.Kind == domain.KindMilestone {
				name = StylePurple.Render("◆ ") + name
			}
		}

		var flags []string
		if inst.Locked {
			flags = append(flags, "locked")
		}
		if inst.Overridden {
			flags = append(flags, "pinned")
		}
		flagStr := Dim("--")
		if len(flags) > 0 {
			flagStr = StyleYellow.Render(strings.Join(flags, ", "))
		}

		rows = append(rows, []string{
			TruncID(inst.ID),
			name,
			InstanceStatusPill(inst.Status),
			Date(inst.PlannedDate),
			Date(inst.ActualDate),
			flagStr,
		})
	}

	return RenderTable(headers, rows)
}
