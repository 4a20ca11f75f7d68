package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daftarhq/daftar/internal/engine"
)

type productFlags struct {
	name     string
	code     string
	price    string
	cost     string
	stock    int
	minStock int
	category string
	unit     string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.code, "code", "", "unique product code")
	cmd.Flags().StringVar(&f.price, "price", "", "sale price")
	cmd.Flags().StringVar(&f.cost, "cost", "", "unit cost (default 0.7 x price)")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "units on hand")
	cmd.Flags().IntVar(&f.minStock, "min-stock", 0, "low-stock threshold (settings default when omitted)")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.unit, "unit", "", "unit of measure")
}

func (f *productFlags) input() (engine.ProductInput, error) {
	price, err := parseMoney(f.price, "price")
	if err != nil {
		return engine.ProductInput{}, err
	}
	cost, err := parseMoney(f.cost, "cost")
	if err != nil {
		return engine.ProductInput{}, err
	}
	return engine.ProductInput{
		Name:     f.name,
		Code:     f.code,
		Price:    price,
		Cost:     cost,
		Stock:    f.stock,
		MinStock: f.minStock,
		Category: f.category,
		Unit:     f.unit,
	}, nil
}

// NewProductCommand creates the product command group.
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog and inventory",
	}

	var addFlags productFlags
	add := &cobra.Command{
		Use:           "add",
		Short:         "Add a product",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				in, err := addFlags.input()
				if err != nil {
					return err
				}
				prod, err := app.Engine.AddProduct(ctx, in)
				if err != nil {
					return f.EngineError(err)
				}
				if f.Format == "json" {
					return f.Success(prod)
				}
				return f.Success(fmt.Sprintf("%s (%s) added: %d units, %s", prod.Name, prod.Code, prod.Stock, prod.Status))
			})
		},
	}
	addFlags.register(add)

	var updateFlags productFlags
	update := &cobra.Command{
		Use:           "update <product-id>",
		Short:         "Update a product",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				in, err := updateFlags.input()
				if err != nil {
					return err
				}
				prod, err := app.Engine.UpdateProduct(ctx, args[0], in)
				if err != nil {
					return f.EngineError(err)
				}
				if f.Format == "json" {
					return f.Success(prod)
				}
				return f.Success(fmt.Sprintf("%s (%s) updated: %d units, %s", prod.Name, prod.Code, prod.Stock, prod.Status))
			})
		},
	}
	updateFlags.register(update)

	del := &cobra.Command{
		Use:           "delete <product-id>",
		Short:         "Delete a product (refused while sales reference it)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				if err := app.Engine.DeleteProduct(ctx, args[0]); err != nil {
					return f.EngineError(err)
				}
				return f.Success("product deleted")
			})
		},
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List products",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				products := app.Engine.Store().Products()
				if f.Format == "json" {
					return f.Success(products)
				}
				for _, p := range products {
					fmt.Fprintf(f.Writer, "%s  %-12s  %-24s  stock %4d  min %3d  price %s  [%s]\n",
						p.ID, p.Code, p.Name, p.Stock, p.MinStock, FormatMoney(p.Price), p.Status)
				}
				fmt.Fprintf(f.Writer, "%d products\n", len(products))
				return nil
			})
		},
	}

	cmd.AddCommand(add, update, del, list)
	return cmd
}
