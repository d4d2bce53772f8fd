package db

import (
	"fmt"
	"strings"
)

type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql", "":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

// DriverName: database/sql に登録されているドライバ名
func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "mysql"
}

// GooseDialect: goose.SetDialect に渡す名前
func (d Dialect) GooseDialect() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "mysql"
}

// Upsert: conflict 列の UNIQUE 違反時に update 列を上書きする句を返す。
//
//	MySQL : ON DUPLICATE KEY UPDATE c = VALUES(c)
//	SQLite: ON CONFLICT(k1, k2) DO UPDATE SET c = excluded.c
func (d Dialect) Upsert(conflict []string, update []string) string {
	sets := make([]string, 0, len(update))
	if d == SQLite {
		for _, c := range update {
			sets = append(sets, c+" = excluded."+c)
		}
		return " ON CONFLICT(" + strings.Join(conflict, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
	}
	for _, c := range update {
		sets = append(sets, c+" = VALUES("+c+")")
	}
	return " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}

// Placeholders: "?, ?, ?" を n 個
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
