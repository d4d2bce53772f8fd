package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"CHORUS-backend/internal/app"
	"CHORUS-backend/internal/platform/auth"
)

type accountOptions struct {
	id       string
	password string
	role     string
}

func newAccountCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage operator accounts",
	}

	var opts accountOptions
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an operator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Auth.Register(ctx, opts.id, opts.password, auth.Role(opts.role)); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "account %s (%s) created\n", opts.id, opts.role)
				return err
			})
		},
	}
	add.Flags().StringVar(&opts.id, "id", "", "login id (required)")
	add.Flags().StringVar(&opts.password, "password", "", "password, at least 8 characters (required)")
	add.Flags().StringVar(&opts.role, "role", string(auth.RoleAdmin), "admin | operator | viewer")
	_ = add.MarkFlagRequired("id")
	_ = add.MarkFlagRequired("password")

	cmd.AddCommand(add)
	return cmd
}
