package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dcrowhurst/telos/internal/cli/formatter"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSupplierCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supplier",
		Short: "Manage suppliers and their project assignments",
	}

	cmd.AddCommand(
		newSupplierAddCmd(app),
		newSupplierListCmd(app),
		newSupplierUpdateCmd(app),
		newSupplierRemoveCmd(app),
		newSupplierApplyCmd(app),
		newSupplierAssignedCmd(app),
	)

	return cmd
}

func newSupplierAddCmd(app *App) *cobra.Command {
	var code, name, rank string
	var partRanks []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a supplier",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Supplier{
				ID:        uuid.New().String(),
				Code:      strings.ToUpper(code),
				Name:      name,
				Rank:      strings.ToUpper(rank),
				PartRanks: upperAll(partRanks),
			}

			if err := app.Suppliers.Create(context.Background(), s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created supplier %s [%s]\n", s.Name, s.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Supplier code (uppercase letters, digits, dashes)")
	cmd.Flags().StringVar(&name, "name", "", "Supplier name")
	cmd.Flags().StringVar(&rank, "rank", "", "Supplier rank (e.g. A1)")
	cmd.Flags().StringArrayVar(&partRanks, "part-rank", nil, "Part rank (repeatable)")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("rank")

	return cmd
}

func newSupplierListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List suppliers",
		RunE: func(cmd *cobra.Command, args []string) error {
			suppliers, err := app.Suppliers.List(context.Background())
			if err != nil {
				return err
			}

			if len(suppliers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No suppliers found.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatSupplierList(suppliers))
			return nil
		},
	}
}

func newSupplierUpdateCmd(app *App) *cobra.Command {
	var name, rank string
	var partRanks []string

	cmd := &cobra.Command{
		Use:   "update CODE",
		Short: "Update a supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := app.Suppliers.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				s.Name = name
			}
			if cmd.Flags().Changed("rank") {
				s.Rank = strings.ToUpper(rank)
			}
			if cmd.Flags().Changed("part-rank") {
				s.PartRanks = upperAll(partRanks)
			}

			if err := app.Suppliers.Update(ctx, s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated supplier %s [%s]\n", s.Name, s.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Supplier name")
	cmd.Flags().StringVar(&rank, "rank", "", "Supplier rank")
	cmd.Flags().StringArrayVar(&partRanks, "part-rank", nil, "Part rank (repeatable, replaces the list)")

	return cmd
}

func newSupplierRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove CODE",
		Short: "Remove a supplier and its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			supplierID, err := resolveSupplierID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Suppliers.Delete(ctx, supplierID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed supplier %s\n", args[0])
			return nil
		},
	}
}

func newSupplierApplyCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "apply CODE",
		Short: "Assign a supplier to a project and create its tracked instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			supplierID, err := resolveSupplierID(ctx, app, args[0])
			if err != nil {
				return err
			}

			res, err := app.Suppliers.ApplySchedule(ctx, projectID, supplierID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %d instance(s)", res.CreatedInstances)
			if res.SkippedExisting > 0 {
				fmt.Fprintf(out, ", %d already present", res.SkippedExisting)
			}
			fmt.Fprintln(out)
			for _, name := range res.ActivitiesSkipped {
				fmt.Fprintf(out, "  skipped %q: rule excludes this supplier\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project reference")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newSupplierAssignedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assigned PROJECT",
		Short: "List suppliers assigned to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			suppliers, err := app.Suppliers.ListAssigned(ctx, projectID)
			if err != nil {
				return err
			}

			if len(suppliers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No suppliers assigned.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatSupplierList(suppliers))
			return nil
		},
	}
}

func upperAll(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strings.ToUpper(v)
	}
	return out
}
