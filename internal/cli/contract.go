package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daftarhq/daftar/internal/engine"
)

type contractFlags struct {
	customer string
	kind     string
	value    string
	duration int
	start    string
	end      string
	status   string
	details  string
	terms    string
}

func (f *contractFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.customer, "customer", "", "customer id")
	cmd.Flags().StringVar(&f.kind, "type", "", "contract type")
	cmd.Flags().StringVar(&f.value, "value", "", "contract value")
	cmd.Flags().IntVar(&f.duration, "duration", 0, "duration in months")
	cmd.Flags().StringVar(&f.start, "start", "", "start date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.end, "end", "", "end date YYYY-MM-DD (default start+duration)")
	cmd.Flags().StringVar(&f.status, "status", "", "contract status (default Active)")
	cmd.Flags().StringVar(&f.details, "details", "", "details")
	cmd.Flags().StringVar(&f.terms, "terms", "", "terms")
}

func (f *contractFlags) input() (engine.ContractInput, error) {
	value, err := parseMoney(f.value, "value")
	if err != nil {
		return engine.ContractInput{}, err
	}
	return engine.ContractInput{
		CustomerID: f.customer,
		Type:       f.kind,
		Value:      value,
		Duration:   f.duration,
		StartDate:  f.start,
		EndDate:    f.end,
		Status:     f.status,
		Details:    f.details,
		Terms:      f.terms,
	}, nil
}

// NewContractCommand creates the contract command group.
func NewContractCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Manage contracts",
	}

	var addFlags contractFlags
	add := &cobra.Command{
		Use:           "add",
		Short:         "Add a contract",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				in, err := addFlags.input()
				if err != nil {
					return err
				}
				contract, err := app.Engine.AddContract(ctx, in)
				if err != nil {
					return f.EngineError(err)
				}
				if f.Format == "json" {
					return f.Success(contract)
				}
				return f.Success(fmt.Sprintf("%s added: %s to %s, value %s",
					contract.ContractNumber, contract.StartDate, contract.EndDate, FormatMoney(contract.Value)))
			})
		},
	}
	addFlags.register(add)

	var updateFlags contractFlags
	update := &cobra.Command{
		Use:           "update <contract-id>",
		Short:         "Update a contract",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				in, err := updateFlags.input()
				if err != nil {
					return err
				}
				contract, err := app.Engine.UpdateContract(ctx, args[0], in)
				if err != nil {
					return f.EngineError(err)
				}
				if f.Format == "json" {
					return f.Success(contract)
				}
				return f.Success(fmt.Sprintf("%s updated", contract.ContractNumber))
			})
		},
	}
	updateFlags.register(update)

	del := &cobra.Command{
		Use:           "delete <contract-id>",
		Short:         "Delete a contract",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				if err := app.Engine.DeleteContract(ctx, args[0]); err != nil {
					return f.EngineError(err)
				}
				return f.Success("contract deleted")
			})
		},
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List contracts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				contracts := app.Engine.Store().Contracts()
				if f.Format == "json" {
					return f.Success(contracts)
				}
				for _, c := range contracts {
					fmt.Fprintf(f.Writer, "%s  %s  %s -> %s  value %s  [%s]\n",
						c.ID, c.ContractNumber, c.StartDate, c.EndDate, FormatMoney(c.Value), c.Status)
				}
				fmt.Fprintf(f.Writer, "%d contracts\n", len(contracts))
				return nil
			})
		},
	}

	clear := &cobra.Command{
		Use:           "clear",
		Short:         "Delete every contract",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				n, err := app.Engine.BulkDeleteContracts(ctx)
				if err != nil {
					return f.EngineError(err)
				}
				return f.Success(fmt.Sprintf("%d contracts removed", n))
			})
		},
	}

	cmd.AddCommand(add, update, del, list, clear)
	return cmd
}
