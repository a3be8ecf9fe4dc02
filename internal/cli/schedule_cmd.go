package cli

import (
	"context"
	"fmt"

	"github.com/dcrowhurst/telos/internal/cli/formatter"
	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Resolve and inspect project schedules",
	}

	cmd.AddCommand(
		newScheduleShowCmd(app),
		newScheduleValidateCmd(app),
		newActivityAddCmd(app),
		newActivityListCmd(app),
	)

	return cmd
}

func newScheduleShowCmd(app *App) *cobra.Command {
	var supplier string
	var businessDays bool

	cmd := &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show the resolved schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Schedule.Resolve(context.Background(), contract.ScheduleRequest{
				ProjectRef:   args[0],
				SupplierCode: supplier,
				BusinessDays: businessDays,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatSchedule(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&supplier, "supplier", "", "Resolve against this supplier's actual completion dates")
	cmd.Flags().BoolVar(&businessDays, "business-days", false, "Count offsets in business days")

	return cmd
}

func newScheduleValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PROJECT",
		Short: "Check the schedule for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := app.Schedule.Validate(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatIssues(issues))
			if len(issues) > 0 {
				return fmt.Errorf("schedule has %d issue(s)", len(issues))
			}
			return nil
		},
	}
}

func newActivityAddCmd(app *App) *cobra.Command {
	var project, name string
	var order int

	cmd := &cobra.Command{
		Use:   "add-activity",
		Short: "Add an activity group to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			a := &domain.Activity{
				ProjectID:  projectID,
				Name:       name,
				OrderIndex: order,
			}
			if err := app.Schedule.AddActivity(ctx, a); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added activity %s (%s)\n", a.Name, a.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project reference")
	cmd.Flags().StringVar(&name, "name", "", "Activity name")
	cmd.Flags().IntVar(&order, "order", 0, "Display order")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List a project's activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			activities, err := app.Schedule.ListActivities(ctx, projectID)
			if err != nil {
				return err
			}

			if len(activities) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No activities.")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, a := range activities {
				gate := ""
				if a.RuleID != "" {
					gate = " " + formatter.Dim("(conditional)")
				}
				fmt.Fprintf(out, "%s  %s%s\n", formatter.TruncID(a.ID), formatter.Bold(a.Name), gate)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project reference")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
