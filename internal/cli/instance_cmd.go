package cli

import (
	"context"
	"fmt"

	"github.com/dcrowhurst/telos/internal/cli/formatter"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/spf13/cobra"
)

func newInstanceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instance",
		Short: "Work with a supplier's tracked instances",
	}

	cmd.AddCommand(
		newInstanceListCmd(app),
		newInstanceCompleteCmd(app),
		newInstanceReopenCmd(app),
		newInstanceLockCmd(app, true),
		newInstanceLockCmd(app, false),
		newInstanceOverrideCmd(app),
		newInstanceClearOverrideCmd(app),
	)

	return cmd
}

func newInstanceListCmd(app *App) *cobra.Command {
	var project, supplier string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a supplier's instances on a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			supplierID, err := resolveSupplierID(ctx, app, supplier)
			if err != nil {
				return err
			}

			instances, err := app.Instances.ListForSupplier(ctx, projectID, supplierID)
			if err != nil {
				return err
			}
			if len(instances) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No instances.")
				return nil
			}

			itemsByID := map[string]*domain.ScheduleItem{}
			if items, err := app.Schedule.ListItems(ctx, projectID); err == nil {
				for _, it := range items {
					itemsByID[it.ID] = it
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInstanceList(instances, itemsByID))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project reference")
	cmd.Flags().StringVar(&supplier, "supplier", "", "Supplier code")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("supplier")

	return cmd
}

func newInstanceCompleteCmd(app *App) *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "complete ID",
		Short: "Mark an instance complete with its actual date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDateFlag("actual", dateStr)
			if err != nil {
				return err
			}
			if err := app.Instances.Complete(context.Background(), args[0], d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed instance %s on %s\n", args[0], d.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Actual completion date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newInstanceReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen ID",
		Short: "Reopen a completed instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Instances.Reopen(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened instance %s\n", args[0])
			return nil
		},
	}
}

func newInstanceLockCmd(app *App, lock bool) *cobra.Command {
	use, short, verb := "lock ID", "Protect an instance from propagation", "Locked"
	if !lock {
		use, short, verb = "unlock ID", "Allow propagation to move an instance again", "Unlocked"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Instances.SetLocked(context.Background(), args[0], lock); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s instance %s\n", verb, args[0])
			return nil
		},
	}
}

func newInstanceOverrideCmd(app *App) *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "override ID",
		Short: "Pin an instance's planned date manually",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDateFlag("override", dateStr)
			if err != nil {
				return err
			}
			if err := app.Instances.Override(context.Background(), args[0], d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pinned instance %s to %s\n", args[0], d.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Pinned planned date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newInstanceClearOverrideCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-override ID",
		Short: "Remove an instance's manual pin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Instances.ClearOverride(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared override on instance %s\n", args[0])
			return nil
		},
	}
}
