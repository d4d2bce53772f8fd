package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"CHORUS-backend/internal/app"
	"CHORUS-backend/internal/platform/db"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				v, err := db.Version(a.DB, a.Dialect)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d (%s)\n", v, a.Dialect)
				return err
			})
		},
	}
}
