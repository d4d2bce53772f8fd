// Package cli は chorus コマンド（serve / migrate / import / report / template / account）。
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"CHORUS-backend/internal/app"
	"CHORUS-backend/internal/platform/config"
	"CHORUS-backend/pkg/logger"
)

type rootOptions struct {
	configPath string

	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "chorus",
		Short:         "Choir attendance ledger, import and statistics backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(&cfg.Log, logger.DefaultServiceName)
			if err != nil {
				return err
			}
			opts.cfg, opts.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "config file (YAML)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newImportCmd(opts),
		newReportCmd(opts),
		newTemplateCmd(opts),
		newAccountCmd(opts),
	)
	return cmd
}

// withApp: 接続・マイグレーション済みの App を渡して fn を実行する
func (o *rootOptions) withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	a, err := app.New(o.cfg, o.log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
