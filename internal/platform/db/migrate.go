package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// gooseLogger: goose のログを zap に流す
type gooseLogger struct{ l *zap.SugaredLogger }

func (g gooseLogger) Printf(format string, v ...any) { g.l.Infof(format, v...) }
func (g gooseLogger) Fatalf(format string, v ...any) { g.l.Fatalf(format, v...) }

// Migrate: 埋め込みの SQL を dialect ごとのディレクトリから適用する
func Migrate(conn *sql.DB, d Dialect, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{l: log.Sugar()})
	if err := goose.SetDialect(d.GooseDialect()); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations/"+string(d)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Version: 適用済みの最新バージョン
func Version(conn *sql.DB, d Dialect) (int64, error) {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(d.GooseDialect()); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(conn)
}
