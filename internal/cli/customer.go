package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daftarhq/daftar/internal/engine"
	"github.com/daftarhq/daftar/internal/ledger"
)

type customerFlags struct {
	name       string
	phone      string
	email      string
	company    string
	kind       string
	registered string
}

func (f *customerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "customer name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "mobile number (05xxxxxxxx, unique)")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.company, "company", "", "company name")
	cmd.Flags().StringVar(&f.kind, "type", "", "individual|company|government")
	cmd.Flags().StringVar(&f.registered, "registered", "", "registration date YYYY-MM-DD (default today)")
}

func (f *customerFlags) input() engine.CustomerInput {
	return engine.CustomerInput{
		Name:             f.name,
		Phone:            f.phone,
		Email:            f.email,
		Company:          f.company,
		Type:             ledger.CustomerType(f.kind),
		RegistrationDate: f.registered,
	}
}

// NewCustomerCommand creates the customer command group.
func NewCustomerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}

	var addFlags customerFlags
	add := &cobra.Command{
		Use:           "add",
		Short:         "Add a customer",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				cust, err := app.Engine.AddCustomer(ctx, addFlags.input())
				if err != nil {
					return f.EngineError(err)
				}
				if f.Format == "json" {
					return f.Success(cust)
				}
				return f.Success(fmt.Sprintf("%s added (%s)", cust.Name, cust.Phone))
			})
		},
	}
	addFlags.register(add)

	var updateFlags customerFlags
	update := &cobra.Command{
		Use:           "update <customer-id>",
		Short:         "Update a customer",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				cust, err := app.Engine.UpdateCustomer(ctx, args[0], updateFlags.input())
				if err != nil {
					return f.EngineError(err)
				}
				if f.Format == "json" {
					return f.Success(cust)
				}
				return f.Success(fmt.Sprintf("%s updated", cust.Name))
			})
		},
	}
	updateFlags.register(update)

	del := &cobra.Command{
		Use:           "delete <customer-id>",
		Short:         "Delete a customer (refused while sales or contracts reference them)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				if err := app.Engine.DeleteCustomer(ctx, args[0]); err != nil {
					return f.EngineError(err)
				}
				return f.Success("customer deleted")
			})
		},
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List customers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				customers := app.Engine.Store().Customers()
				if f.Format == "json" {
					return f.Success(customers)
				}
				for _, c := range customers {
					fmt.Fprintf(f.Writer, "%s  %-24s  %s  %-10s  lifetime %s\n",
						c.ID, c.Name, c.Phone, c.Type, FormatMoney(c.TotalPurchases))
				}
				fmt.Fprintf(f.Writer, "%d customers\n", len(customers))
				return nil
			})
		},
	}

	cmd.AddCommand(add, update, del, list)
	return cmd
}
