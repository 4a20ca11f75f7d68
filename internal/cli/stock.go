package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daftarhq/daftar/internal/ledger"
)

// NewStockCommand creates the stock command group.
func NewStockCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Manual stock adjustments and the adjustment log",
	}

	var amount int
	var reason string
	adjust := &cobra.Command{
		Use:           "adjust <product-id> <add|remove|set>",
		Short:         "Adjust a product's stock, recording the change in the audit log",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				kind := ledger.StockAdjustmentKind(args[1])
				prod, err := app.Engine.AdjustStock(ctx, args[0], kind, amount, reason)
				if err != nil {
					return f.EngineError(err)
				}
				if f.Format == "json" {
					return f.Success(prod)
				}
				return f.Success(fmt.Sprintf("%s (%s): stock now %d [%s]", prod.Name, prod.Code, prod.Stock, prod.Status))
			})
		},
	}
	adjust.Flags().IntVar(&amount, "amount", 0, "adjustment amount")
	adjust.Flags().StringVar(&reason, "reason", "", "why the stock was adjusted")

	log := &cobra.Command{
		Use:           "log",
		Short:         "Show the stock adjustment log",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				entries := app.Engine.Store().StockLog()
				if f.Format == "json" {
					return f.Success(entries)
				}
				for _, a := range entries {
					fmt.Fprintf(f.Writer, "%s  %s  %s %d: %d -> %d  %s\n",
						a.At.Format("2006-01-02 15:04"), a.ProductID, a.Kind, a.Amount, a.PrevStock, a.NewStock, a.Reason)
				}
				fmt.Fprintf(f.Writer, "%d adjustments\n", len(entries))
				return nil
			})
		},
	}

	cmd.AddCommand(adjust, log)
	return cmd
}
