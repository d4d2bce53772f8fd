// Package status は取り込みデータの出欠トークンを正規の3値に変換する。
package status

import (
	"fmt"
	"strings"
)

type Status string

const (
	Present Status = "PRESENT"
	Late    Status = "LATE"
	Absent  Status = "ABSENT"
)

var All = []Status{Present, Late, Absent}

func (s Status) Valid() bool {
	switch s {
	case Present, Late, Absent:
		return true
	}
	return false
}

// Attended: 出席率の分子に入るか（遅刻も出席扱い）
func (s Status) Attended() bool { return s == Present || s == Late }

// Parse: 正規名 (PRESENT/LATE/ABSENT) のみ受け付ける。API 入力用。
func Parse(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}
