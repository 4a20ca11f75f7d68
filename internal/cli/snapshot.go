package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command: the full snapshot as one
// JSON document, to stdout or a file.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Export the full store as one JSON document",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				blob, err := app.Engine.Export(ctx)
				if err != nil {
					return f.EngineError(err)
				}
				if out == "" {
					_, err = f.Writer.Write(blob)
					return err
				}
				if err := os.WriteFile(out, blob, 0o644); err != nil {
					return WrapExitError(ExitCommandError, "write export file", err)
				}
				return f.Success(fmt.Sprintf("exported %d bytes to %s", len(blob), out))
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// NewImportCommand creates the import command: validate, migrate and
// install a snapshot document, replacing the entire store. On validation
// failure the prior state is untouched.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "import <file>",
		Short:         "Replace the store from an exported JSON document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, app *App, f *OutputFormatter) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "read import file", err)
				}
				if err := app.Engine.Import(ctx, data); err != nil {
					return f.EngineError(err)
				}
				return f.Success("import complete")
			})
		},
	}
	return cmd
}
