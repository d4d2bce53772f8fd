package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"CHORUS-backend/internal/app"
	"CHORUS-backend/internal/attendance"
	"CHORUS-backend/internal/report"
)

type reportOptions struct {
	date  string
	month string
	year  int
	parts string
}

func newReportCmd(root *rootOptions) *cobra.Command {
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a report as JSON",
	}
	cmd.PersistentFlags().StringVar(&opts.parts, "parts", "", "comma separated parts (default: all)")

	run := func(fn func(ctx context.Context, c *report.Composer) (any, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				v, err := fn(ctx, a.Reports)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), v)
			})
		}
	}
	day := func() (time.Time, error) {
		d, err := attendance.ParseDay(opts.date)
		if err != nil {
			return time.Time{}, fmt.Errorf("--date/--start must be YYYY-MM-DD: %w", err)
		}
		return d, nil
	}
	month := func() (time.Time, error) {
		m, err := time.ParseInLocation("2006-01", opts.month, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("--month must be YYYY-MM: %w", err)
		}
		return m, nil
	}

	daily := &cobra.Command{
		Use:   "daily",
		Short: "Per-part present / late / not attended lists for one day",
		RunE: run(func(ctx context.Context, c *report.Composer) (any, error) {
			d, err := day()
			if err != nil {
				return nil, err
			}
			return c.Daily(ctx, d, report.ParseParts(opts.parts))
		}),
	}
	daily.Flags().StringVar(&opts.date, "date", "", "YYYY-MM-DD")

	weekly := &cobra.Command{
		Use:   "weekly",
		Short: "Rates for the 7 days from --start plus lifecycle lists",
		RunE: run(func(ctx context.Context, c *report.Composer) (any, error) {
			d, err := day()
			if err != nil {
				return nil, err
			}
			return c.Weekly(ctx, d, report.ParseParts(opts.parts))
		}),
	}
	weekly.Flags().StringVar(&opts.date, "start", "", "YYYY-MM-DD")

	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Rates for a month plus lifecycle lists",
		RunE: run(func(ctx context.Context, c *report.Composer) (any, error) {
			m, err := month()
			if err != nil {
				return nil, err
			}
			return c.Monthly(ctx, m.Year(), m.Month(), report.ParseParts(opts.parts))
		}),
	}
	monthly.Flags().StringVar(&opts.month, "month", "", "YYYY-MM")

	yearly := &cobra.Command{
		Use:   "yearly",
		Short: "Twelve monthly attended counts",
		RunE: run(func(ctx context.Context, c *report.Composer) (any, error) {
			return c.Yearly(ctx, opts.year, report.ParseParts(opts.parts))
		}),
	}
	yearly.Flags().IntVar(&opts.year, "year", time.Now().Year(), "year")

	soloists := &cobra.Command{
		Use:   "soloists",
		Short: "Saturday / Sunday attended counts per soloist",
		RunE: run(func(ctx context.Context, c *report.Composer) (any, error) {
			m, err := month()
			if err != nil {
				return nil, err
			}
			return c.Soloists(ctx, m.Year(), m.Month())
		}),
	}
	soloists.Flags().StringVar(&opts.month, "month", "", "YYYY-MM")

	cmd.AddCommand(daily, weekly, monthly, yearly, soloists)
	return cmd
}
