package cli

import (
	"context"
	"fmt"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage schedule items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemUpdateCmd(app),
		newItemRemoveCmd(app),
		newItemOverrideCmd(app),
		newItemClearOverrideCmd(app),
	)

	return cmd
}

// anchorFlags declares the shared anchor flag set for item add/update.
// Exactly one of --fixed, --after, --after-completion, --milestone selects
// the anchor type.
func anchorFlags(fs *pflag.FlagSet, fixed, after, afterCompletion, milestone *string, offset *int) {
	fs.StringVar(fixed, "fixed", "", "Anchor to a fixed date (YYYY-MM-DD)")
	fs.StringVar(after, "after", "", "Anchor to another item's planned date")
	fs.StringVar(afterCompletion, "after-completion", "", "Anchor to another item's actual completion")
	fs.StringVar(milestone, "milestone", "", "Anchor to a project milestone key")
	fs.IntVar(offset, "offset", 0, "Offset in days from the anchor")
}

// applyAnchorFlags writes the selected anchor onto the item. Returns an
// error when more than one anchor flag is set, or none on an add.
func applyAnchorFlags(fs *pflag.FlagSet, it *domain.ScheduleItem, fixed, after, afterCompletion, milestone string, offset int) error {
	set := 0
	for _, name := range []string{"fixed", "after", "after-completion", "milestone"} {
		if fs.Changed(name) {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("at most one of --fixed, --after, --after-completion, --milestone may be given")
	}

	switch {
	case fs.Changed("fixed"):
		d, err := parseDateFlag("fixed", fixed)
		if err != nil {
			return err
		}
		it.AnchorType = domain.AnchorFixedDate
		it.FixedDate = &d
		it.AnchorRefID = ""
		it.MilestoneKey = ""
	case fs.Changed("after"):
		it.AnchorType = domain.AnchorScheduleItem
		it.AnchorRefID = after
		it.FixedDate = nil
		it.MilestoneKey = ""
	case fs.Changed("after-completion"):
		it.AnchorType = domain.AnchorCompletion
		it.AnchorRefID = afterCompletion
		it.FixedDate = nil
		it.MilestoneKey = ""
	case fs.Changed("milestone"):
		it.AnchorType = domain.AnchorProjectMilestone
		it.MilestoneKey = milestone
		it.FixedDate = nil
		it.AnchorRefID = ""
	}
	if fs.Changed("offset") {
		it.OffsetDays = offset
	}
	return nil
}

func newItemAddCmd(app *App) *cobra.Command {
	var activity, name, kind string
	var fixed, after, afterCompletion, milestone string
	var offset, order int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a schedule item to an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			it := &domain.ScheduleItem{
				ActivityID: activity,
				Name:       name,
				Kind:       domain.ItemKind(kind),
				OrderIndex: order,
			}
			if err := applyAnchorFlags(cmd.Flags(), it, fixed, after, afterCompletion, milestone, offset); err != nil {
				return err
			}

			if err := app.Schedule.AddItem(context.Background(), it); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added item %s (%s)\n", it.Name, it.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&activity, "activity", "", "Activity ID the item belongs to")
	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().StringVar(&kind, "kind", string(domain.KindTask), "Item kind (milestone|task)")
	cmd.Flags().IntVar(&order, "order", 0, "Display order")
	anchorFlags(cmd.Flags(), &fixed, &after, &afterCompletion, &milestone, &offset)
	_ = cmd.MarkFlagRequired("activity")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newItemUpdateCmd(app *App) *cobra.Command {
	var name string
	var fixed, after, afterCompletion, milestone string
	var offset int

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a schedule item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			it, err := app.Schedule.GetItem(ctx, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				it.Name = name
			}
			if err := applyAnchorFlags(cmd.Flags(), it, fixed, after, afterCompletion, milestone, offset); err != nil {
				return err
			}

			if err := app.Schedule.UpdateItem(ctx, it); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s\n", it.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name")
	anchorFlags(cmd.Flags(), &fixed, &after, &afterCompletion, &milestone, &offset)

	return cmd
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a schedule item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Schedule.DeleteItem(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %s\n", args[0])
			return nil
		},
	}
}

func newItemOverrideCmd(app *App) *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "override ID",
		Short: "Pin an item to a manual date, preempting its anchor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDateFlag("override", dateStr)
			if err != nil {
				return err
			}
			if err := app.Schedule.OverrideItem(context.Background(), args[0], d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pinned item %s to %s\n", args[0], d.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Pinned date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newItemClearOverrideCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-override ID",
		Short: "Remove a manual date pin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Schedule.ClearItemOverride(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared override on item %s\n", args[0])
			return nil
		},
	}
}
