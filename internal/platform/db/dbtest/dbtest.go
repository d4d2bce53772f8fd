// Package dbtest はテスト用にマイグレーション済みのインメモリ SQLite を用意する。
package dbtest

import (
	"database/sql"
	"testing"

	"CHORUS-backend/internal/platform/db"
)

// Open: テストごとに新しい ":memory:" DB を作り、終了時に閉じる
func Open(t testing.TB) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := db.Migrate(conn, db.SQLite, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}
