package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dcrowhurst/telos/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Installation-wide settings",
	}

	cmd.AddCommand(newRankOrderCmd(app))

	return cmd
}

func newRankOrderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank-order [RANKS]",
		Short: "Show or set the ordered rank list used by gte/lte rules",
		Long: "Without arguments, prints the configured rank list, best first.\n" +
			"With a comma-separated argument (e.g. \"A1,A2,B1\"), replaces it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if len(args) == 0 {
				ranks, err := app.Settings.RankOrder(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for i, r := range ranks {
					fmt.Fprintf(out, "%2d. %s\n", i+1, formatter.Bold(r))
				}
				return nil
			}

			ranks := strings.Split(args[0], ",")
			if err := app.Settings.SetRankOrder(ctx, ranks); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rank order set: %s\n", strings.Join(ranks, " > "))
			return nil
		},
	}

	return cmd
}
