package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"CHORUS-backend/internal/app"
	"CHORUS-backend/internal/importer"
)

type importOptions struct {
	file string
}

func newImportCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import attendance from a CSV or xlsx file",
	}
	cmd.AddCommand(
		newImportModeCmd(root, "rows", importer.ModeRows, "Import rows of name/date/status[/part]"),
		newImportModeCmd(root, "matrix", importer.ModeMatrix, "Import a name x date matrix"),
	)
	return cmd
}

func newImportModeCmd(root *rootOptions, use string, mode importer.Mode, short string) *cobra.Command {
	var opts importOptions
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(opts.file)
			if err != nil {
				return err
			}
			return root.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				res, err := a.Importer.ImportFile(ctx, mode, opts.file, data)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "batch %s: %d succeeded, %d failed\n", res.BatchID, res.Succeeded, res.Failed)
				if len(res.Errors) > 0 {
					fmt.Fprintln(out, "  "+strings.Join(res.Errors, "\n  "))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV or xlsx file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
