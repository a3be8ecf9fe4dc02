package cli

import (
	"context"
	"fmt"

	"github.com/dcrowhurst/telos/internal/cli/formatter"
	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Browse schedule templates and sync projects against them",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
		newTemplateShowCmd(app),
		newTemplateSyncCmd(app),
	)

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := app.Templates.List(context.Background())
			if err != nil {
				return err
			}

			if len(templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates found.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatTemplateList(templates))
			return nil
		},
	}
}

func newTemplateShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show template details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Templates.Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplateShow(s))
			return nil
		},
	}
}

func newTemplateSyncCmd(app *App) *cobra.Command {
	var dryRun bool
	var vars []string

	cmd := &cobra.Command{
		Use:   "sync PROJECT",
		Short: "Re-diff a project against its template and apply the changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			varMap, err := parseVars(vars)
			if err != nil {
				return err
			}

			resp, err := app.Templates.Sync(context.Background(), contract.SyncRequest{
				ProjectRef: args[0],
				Vars:       varMap,
				DryRun:     dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Template %s\n", resp.Template)
			fmt.Fprintln(out, formatter.FormatSyncPlan(resp.Plan))
			if dryRun && !resp.Plan.Empty() {
				fmt.Fprintln(out, formatter.Dim("Dry run: nothing was written."))
			} else if resp.Applied {
				fmt.Fprintln(out, "Applied.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan only, write nothing")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Template variables (key=value)")

	return cmd
}
