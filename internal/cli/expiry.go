package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewExpiryCommand creates the expiry command, which sweeps contracts past
// their end date and reports those approaching it.
func NewExpiryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "expiry",
		Short:         "Expire lapsed contracts and report upcoming expirations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				expired, expiring, err := app.Engine.SweepContractExpiry(ctx)
				if err != nil {
					return f.EngineError(err)
				}
				if f.Format == "json" {
					return f.Success(map[string]int{
						"expired":  expired,
						"expiring": expiring,
					})
				}
				fmt.Fprintf(f.Writer, "Expired %d contract(s), %d approaching expiry.\n", expired, expiring)
				return nil
			})
		},
	}
}
