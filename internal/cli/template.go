package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"CHORUS-backend/internal/app"
)

type templateOptions struct {
	month string
	out   string
}

func newTemplateCmd(root *rootOptions) *cobra.Command {
	var opts templateOptions
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the matrix import template (xlsx) for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := time.ParseInLocation("2006-01", opts.month, time.UTC)
			if err != nil {
				return fmt.Errorf("--month must be YYYY-MM: %w", err)
			}
			out := opts.out
			if out == "" {
				out = fmt.Sprintf("attendance-%s.xlsx", m.Format("2006-01"))
			}
			return root.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				f, err := a.Importer.Template(ctx, m.Year(), m.Month())
				if err != nil {
					return err
				}
				defer f.Close()
				if err := f.SaveAs(out); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "wrote", out)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&opts.month, "month", "", "YYYY-MM (required)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output path")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}
