package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change settings",
	}

	show := &cobra.Command{
		Use:           "show",
		Short:         "Show the current settings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				s := app.Engine.Store().Settings()
				if f.Format == "json" {
					// The secret itself is never echoed.
					masked := s
					if masked.Secret != "" {
						masked.Secret = "(set)"
					}
					return f.Success(masked)
				}
				secret := "not configured"
				if s.Secret != "" {
					secret = "configured"
				}
				fmt.Fprintf(f.Writer, "secret:             %s\n", secret)
				fmt.Fprintf(f.Writer, "low stock threshold: %d\n", s.LowStockThreshold)
				fmt.Fprintf(f.Writer, "contract alert days: %d\n", s.ContractAlertDays)
				fmt.Fprintf(f.Writer, "alerts: sales=%t stock=%t contracts=%t\n",
					s.Alerts.Sales, s.Alerts.Stock, s.Alerts.Contracts)
				return nil
			})
		},
	}

	var (
		secret        string
		clearSecret   bool
		lowStock      int
		alertDays     int
		salesAlerts   bool
		stockAlerts   bool
		contractAlert bool
	)
	set := &cobra.Command{
		Use:           "set",
		Short:         "Change settings (authorized against the current secret)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				s := app.Engine.Store().Settings()
				if cmd.Flags().Changed("secret") {
					s.Secret = secret
				}
				if clearSecret {
					s.Secret = ""
				}
				if cmd.Flags().Changed("low-stock") {
					s.LowStockThreshold = lowStock
				}
				if cmd.Flags().Changed("alert-days") {
					s.ContractAlertDays = alertDays
				}
				if cmd.Flags().Changed("sales-alerts") {
					s.Alerts.Sales = salesAlerts
				}
				if cmd.Flags().Changed("stock-alerts") {
					s.Alerts.Stock = stockAlerts
				}
				if cmd.Flags().Changed("contract-alerts") {
					s.Alerts.Contracts = contractAlert
				}
				if err := app.Engine.UpdateSettings(ctx, s); err != nil {
					return f.EngineError(err)
				}
				return f.Success("settings updated")
			})
		},
	}
	set.Flags().StringVar(&secret, "secret", "", "set the shared secret")
	set.Flags().BoolVar(&clearSecret, "clear-secret", false, "remove the shared secret")
	set.Flags().IntVar(&lowStock, "low-stock", 0, "default low-stock threshold")
	set.Flags().IntVar(&alertDays, "alert-days", 0, "contract expiry alert window in days")
	set.Flags().BoolVar(&salesAlerts, "sales-alerts", true, "outbound alerts for sales")
	set.Flags().BoolVar(&stockAlerts, "stock-alerts", true, "outbound alerts for stock")
	set.Flags().BoolVar(&contractAlert, "contract-alerts", true, "outbound alerts for contracts")

	cmd.AddCommand(show, set)
	return cmd
}
