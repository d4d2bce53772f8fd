package status

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
	"gopkg.in/yaml.v3"
)

// Table: トークン → Status の対応表。中身は設定データで、ロジックは持たない。
type Table struct {
	tokens map[string]Status
}

// 組み込みの既定表（韓国語・英語・1文字コード・0/1）
var defaultTokens = map[Status][]string{
	Present: {"PRESENT", "출석", "출", "참석", "o", "p", "y", "1", "present", "attended", "○"},
	Late:    {"LATE", "지각", "지", "l", "late", "tardy", "△"},
	Absent:  {"ABSENT", "결석", "결", "불참", "x", "a", "n", "0", "absent", "×"},
}

// Default: 既定表のコピーを返す
func Default() *Table {
	t := &Table{tokens: map[string]Status{}}
	for st, toks := range defaultTokens {
		for _, tok := range toks {
			t.tokens[Fold(tok)] = st
		}
	}
	return t
}

// Fold: 比較用にトークンを畳み込む。
// NFC（macOS 由来の分解ハングル対策）→ 全角/半角の統一 → 空白除去 → 小文字化
func Fold(raw string) string {
	tr := transform.Chain(norm.NFC, width.Fold, runes.Remove(runes.In(unicode.White_Space)))
	s, _, err := transform.String(tr, raw)
	if err != nil {
		s = strings.TrimSpace(raw)
	}
	return strings.ToLower(s)
}

// Normalize: ok=false は未認識（Absent に丸めない）
func (t *Table) Normalize(raw string) (Status, bool) {
	key := Fold(raw)
	if key == "" {
		return "", false
	}
	st, ok := t.tokens[key]
	return st, ok
}

// Add: 同義語を追加する。既存の別ステータスへの割り当ては上書きせずエラー。
func (t *Table) Add(st Status, token string) error {
	if !st.Valid() {
		return fmt.Errorf("unknown status %q", st)
	}
	key := Fold(token)
	if key == "" {
		return fmt.Errorf("empty token for %s", st)
	}
	if cur, ok := t.tokens[key]; ok && cur != st {
		return fmt.Errorf("token %q already maps to %s", token, cur)
	}
	t.tokens[key] = st
	return nil
}

type Entry struct {
	Token  string `json:"token"`
	Status Status `json:"status"`
}

// Entries: 表の中身（トークン順）。確認・API 表示用。
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.tokens))
	for tok, st := range t.tokens {
		out = append(out, Entry{Token: tok, Status: st})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}

// YAML 形式:
//
//	PRESENT: [출석, o]
//	LATE: [지각]
//	ABSENT: [결석, x]
type fileFormat map[Status][]string

// LoadFile: 既定表に YAML の同義語を足したものを返す。path が空なら既定表。
func LoadFile(path string) (*Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("status token file: %w", err)
	}
	if err := t.merge(buf); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) merge(buf []byte) error {
	var f fileFormat
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return fmt.Errorf("status token file: %w", err)
	}
	for st, toks := range f {
		st = Status(strings.ToUpper(string(st)))
		for _, tok := range toks {
			if err := t.Add(st, tok); err != nil {
				return err
			}
		}
	}
	return nil
}
