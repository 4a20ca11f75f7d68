package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daftarhq/daftar/internal/engine"
)

// saleFlags collects the SaleInput flag set shared by add and update.
type saleFlags struct {
	customer string
	product  string
	quantity int
	price    string
	method   string
	date     string
	status   string
	notes    string
}

func (f *saleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.customer, "customer", "", "customer id")
	cmd.Flags().StringVar(&f.product, "product", "", "product id")
	cmd.Flags().IntVar(&f.quantity, "qty", 0, "quantity sold")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price")
	cmd.Flags().StringVar(&f.method, "method", "", "payment method (default cash)")
	cmd.Flags().StringVar(&f.date, "date", "", "sale date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.status, "status", "", "sale status (default Completed)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
}

func (f *saleFlags) input() (engine.SaleInput, error) {
	price, err := parseMoney(f.price, "price")
	if err != nil {
		return engine.SaleInput{}, err
	}
	return engine.SaleInput{
		CustomerID:    f.customer,
		ProductID:     f.product,
		Quantity:      f.quantity,
		Price:         price,
		PaymentMethod: f.method,
		Date:          f.date,
		Status:        f.status,
		Notes:         f.notes,
	}, nil
}

// NewSaleCommand creates the sale command group.
func NewSaleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record, update, delete and list sales",
	}

	var addFlags saleFlags
	add := &cobra.Command{
		Use:           "add",
		Short:         "Record a sale (decrements stock, updates customer total)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				in, err := addFlags.input()
				if err != nil {
					return err
				}
				sale, err := app.Engine.AddSale(ctx, in)
				if err != nil {
					return f.EngineError(err)
				}
				if f.Format == "json" {
					return f.Success(sale)
				}
				return f.Success(fmt.Sprintf("%s recorded: %d units, total %s", sale.InvoiceNumber, sale.Quantity, FormatMoney(sale.Total)))
			})
		},
	}
	addFlags.register(add)

	var updateFlags saleFlags
	update := &cobra.Command{
		Use:           "update <sale-id>",
		Short:         "Rewrite a sale, repricing stock and customer totals",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				in, err := updateFlags.input()
				if err != nil {
					return err
				}
				sale, err := app.Engine.UpdateSale(ctx, args[0], in)
				if err != nil {
					return f.EngineError(err)
				}
				if f.Format == "json" {
					return f.Success(sale)
				}
				return f.Success(fmt.Sprintf("%s updated: %d units, total %s", sale.InvoiceNumber, sale.Quantity, FormatMoney(sale.Total)))
			})
		},
	}
	updateFlags.register(update)

	del := &cobra.Command{
		Use:           "delete <sale-id>",
		Short:         "Delete a sale (restores stock and customer total)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				if err := app.Engine.DeleteSale(ctx, args[0]); err != nil {
					return f.EngineError(err)
				}
				return f.Success("sale deleted")
			})
		},
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List sales",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				sales := app.Engine.Store().Sales()
				if f.Format == "json" {
					return f.Success(sales)
				}
				for _, s := range sales {
					fmt.Fprintf(f.Writer, "%s  %s  %s  qty %d  total %s  [%s]\n",
						s.ID, s.InvoiceNumber, s.Date, s.Quantity, FormatMoney(s.Total), s.Status)
				}
				fmt.Fprintf(f.Writer, "%d sales\n", len(sales))
				return nil
			})
		},
	}

	clear := &cobra.Command{
		Use:           "clear",
		Short:         "Delete every sale, restoring stock and customer totals",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				n, err := app.Engine.BulkDeleteSales(ctx)
				if err != nil {
					return f.EngineError(err)
				}
				return f.Success(fmt.Sprintf("%d sales removed", n))
			})
		},
	}

	cmd.AddCommand(add, update, del, list, clear)
	return cmd
}
