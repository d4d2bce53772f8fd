package importer

import (
	"strings"

	"CHORUS-backend/internal/status"
)

// 列の正規名
const (
	colName   = "name"
	colDate   = "date"
	colStatus = "status"
	colPart   = "part"
)

var headerVocab = map[string][]string{
	colName:   {"name", "이름", "성명"},
	colDate:   {"date", "날짜", "일자"},
	colStatus: {"status", "출석", "상태"},
	colPart:   {"part", "group", "파트"},
}

var headerIndex = func() map[string]string {
	m := map[string]string{}
	for canon, words := range headerVocab {
		for _, w := range words {
			m[status.Fold(w)] = canon
		}
	}
	return m
}()

// canonicalHeader: 見出しを正規名にする。未知なら ok=false。
func canonicalHeader(h string) (string, bool) {
	h = strings.TrimPrefix(h, "\ufeff")
	c, ok := headerIndex[status.Fold(h)]
	return c, ok
}

// canonicalRow: 行のキーを正規名に揃える。未知の列は捨てる。
func canonicalRow(r Row) map[string]string {
	out := make(map[string]string, 4)
	for k, v := range r {
		if c, ok := canonicalHeader(k); ok {
			out[c] = strings.TrimSpace(v)
		}
	}
	return out
}
