package formatter

import (
	"fmt"
	"strings"

	"github.com/dcrowhurst/telos/internal/contract"
)

// supplierLabel maps an internal supplier ID to its display code, falling
// back to a truncated ID for suppliers missing from the map.
func supplierLabel(codes map[string]string, supplierID string) string {
	if code, ok := codes[supplierID]; ok {
		return Bold(code)
	}
	return TruncID(supplierID)
}

// FormatPreview renders a propagation preview: the pending date moves first,
// then a count of untouched instances grouped by reason.
func FormatPreview(resp *contract.PreviewResponse, codes map[string]string, itemNames map[string]string) string {
	var b strings.Builder

	if len(resp.WillChange) == 0 {
		b.WriteString(StyleGreen.Render("✔ all planned dates are current") + "\n")
	} else {
		headers := []string{"SUPPLIER", "ITEM", "OLD", "NEW"}
		rows := make([][]string, 0, len(resp.WillChange))
		for _, ch := range resp.WillChange {
			rows = append(rows, []string{
				supplierLabel(codes, ch.SupplierID),
				itemLabel(itemNames, ch.ItemID),
				Date(ch.OldDate),
				StyleYellow.Render(ch.NewDate.Format("2006-01-02")),
			})
		}
		b.WriteString(RenderBox(fmt.Sprintf("%d date change(s)", len(resp.WillChange)), RenderTable(headers, rows)))
		b.WriteString("\n")
	}

	if summary := skipSummary(resp.Unchanged); summary != "" {
		b.WriteString(Dim(summary) + "\n")
	}

	return b.String()
}

// FormatApply renders the result of a propagation apply.
func FormatApply(resp *contract.ApplyResponse, codes map[string]string, itemNames map[string]string) string {
	var b strings.Builder

	if len(resp.Updated) == 0 {
		b.WriteString(Dim("No instances updated.") + "\n")
	} else {
		headers := []string{"SUPPLIER", "ITEM", "NEW DATE"}
		rows := make([][]string, 0, len(resp.Updated))
		for _, ch := range resp.Updated {
			rows = append(rows, []string{
				supplierLabel(codes, ch.SupplierID),
				itemLabel(itemNames, ch.ItemID),
				StyleGreen.Render(ch.NewDate.Format("2006-01-02")),
			})
		}
		b.WriteString(RenderBox(fmt.Sprintf("%d instance(s) updated", len(resp.Updated)), RenderTable(headers, rows)))
		b.WriteString("\n")
	}

	if summary := skipSummary(resp.Skipped); summary != "" {
		b.WriteString(Dim(summary) + "\n")
	}

	return b.String()
}

func itemLabel(itemNames map[string]string, itemID string) string {
	if name, ok := itemNames[itemID]; ok {
		return StyleFg.Render(name)
	}
	return TruncID(itemID)
}

// skipSummary collapses skip entries into "N skipped (reason: n, ...)".
// Skip reasons are free-form strings, so counts are grouped verbatim.
func skipSummary(skips []contract.Skip) string {
	if len(skips) == 0 {
		return ""
	}
	counts := map[string]int{}
	var order []string
	for _, s := range skips {
		if counts[s.Reason] == 0 {
			order = append(order, s.Reason)
		}
		counts[s.Reason]++
	}
	parts := make([]string, 0, len(order))
	for _, reason := range order {
		parts = append(parts, fmt.Sprintf("%s: %d", reason, counts[reason]))
	}
	return fmt.Sprintf("%d untouched (%s)", len(skips), strings.Join(parts, ", "))
}
