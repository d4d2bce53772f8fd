package db

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// 書き込み用: DATE / DATETIME 列には UTC の文字列で渡す（MySQL/SQLite 共通）
func FormatDate(t time.Time) string     { return t.Format(DateLayout) }
func FormatDateTime(t time.Time) string { return t.UTC().Format(DateTimeLayout) }

var timeLayouts = []string{
	DateTimeLayout,
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02T15:04:05",
}

// Time: ドライバが time.Time / []byte / string のどれで返しても受けられる Scanner。
// parseTime=true の MySQL は time.Time、SQLite は文字列で返ってくる。
type Time struct {
	Time  time.Time
	Valid bool
}

func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("db.Time: unsupported type %T", src)
}

func (t *Time) parse(s string) error {
	for _, layout := range timeLayouts {
		if p, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time, t.Valid = p.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("db.Time: cannot parse %q", s)
}

func (t Time) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return FormatDateTime(t.Time), nil
}

// Day: 日付部分だけを "YYYY-MM-DD" で返す
func (t Time) Day() string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(DateLayout)
}
