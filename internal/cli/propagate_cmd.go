package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/dcrowhurst/telos/internal/cli/formatter"
	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/propagate"
	"github.com/spf13/cobra"
)

func newPropagateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propagate",
		Short: "Push recomputed dates into supplier instances",
	}

	cmd.AddCommand(
		newPropagatePreviewCmd(app),
		newPropagateApplyCmd(app),
	)

	return cmd
}

func propagatePolicy(businessDays bool) propagate.Policy {
	p := propagate.DefaultPolicy()
	p.BusinessDays = businessDays
	return p
}

// displayMaps loads supplier codes and item names for preview/apply output.
func displayMaps(ctx context.Context, app *App, projectID string) (map[string]string, map[string]string) {
	codes := map[string]string{}
	if suppliers, err := app.Suppliers.ListAssigned(ctx, projectID); err == nil {
		for _, s := range suppliers {
			codes[s.ID] = s.Code
		}
	}
	names := map[string]string{}
	if items, err := app.Schedule.ListItems(ctx, projectID); err == nil {
		for _, it := range items {
			names[it.ID] = it.Name
		}
	}
	return codes, names
}

func newPropagatePreviewCmd(app *App) *cobra.Command {
	var businessDays bool

	cmd := &cobra.Command{
		Use:   "preview PROJECT",
		Short: "Show which planned dates an apply would move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			resp, err := app.Propagation.Preview(ctx, contract.PropagateRequest{
				ProjectRef: args[0],
				Policy:     propagatePolicy(businessDays),
			})
			if err != nil {
				return err
			}

			codes, names := displayMaps(ctx, app, resp.ProjectID)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPreview(resp, codes, names))
			return nil
		},
	}

	cmd.Flags().BoolVar(&businessDays, "business-days", false, "Count offsets in business days")

	return cmd
}

func newPropagateApplyCmd(app *App) *cobra.Command {
	var suppliers []string
	var all, businessDays bool

	cmd := &cobra.Command{
		Use:   "apply PROJECT",
		Short: "Write recomputed dates to supplier instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// No explicit selection: offer a picker on a terminal, apply to
			// everyone otherwise.
			if len(suppliers) == 0 && !all && app.IsInteractive != nil && app.IsInteractive() {
				picked, err := pickSuppliers(ctx, app, args[0])
				if err != nil {
					return err
				}
				suppliers = picked
			}

			resp, err := app.Propagation.Apply(ctx, contract.PropagateRequest{
				ProjectRef:    args[0],
				SupplierCodes: suppliers,
				Policy:        propagatePolicy(businessDays),
			})
			if err != nil {
				return err
			}

			codes, names := displayMaps(ctx, app, resp.ProjectID)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatApply(resp, codes, names))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&suppliers, "supplier", nil, "Supplier code to update (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "Update every assigned supplier without prompting")
	cmd.Flags().BoolVar(&businessDays, "business-days", false, "Count offsets in business days")

	return cmd
}

// pickSuppliers runs a multi-select form over the project's assigned
// suppliers. An empty selection means all.
func pickSuppliers(ctx context.Context, app *App, projectRef string) ([]string, error) {
	projectID, err := resolveProjectID(ctx, app, projectRef)
	if err != nil {
		return nil, err
	}
	assigned, err := app.Suppliers.ListAssigned(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(assigned) == 0 {
		return nil, nil
	}

	opts := make([]huh.Option[string], 0, len(assigned))
	for _, s := range assigned {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", s.Code, s.Name), s.Code))
	}

	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Suppliers to update").
				Description("Empty selection applies to all").
				Options(opts...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}
	return selected, nil
}
