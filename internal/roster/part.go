package roster

import "strings"

// Part: パート（声部）。SOPRANO_B は SOPRANO の拡張サブグループで、集計時は SOPRANO に畳み込む。
type Part string

const (
	Soprano    Part = "SOPRANO"
	SopranoB   Part = "SOPRANO_B"
	Alto       Part = "ALTO"
	Tenor      Part = "TENOR"
	Bass       Part = "BASS"
	Soloist    Part = "SOLOIST"
	Instrument Part = "INSTRUMENT"
)

type PartInfo struct {
	Code    Part   `json:"code"`
	Korean  string `json:"korean"`
	English string `json:"english"`
	Base    Part   `json:"base"`
}

var partTable = []PartInfo{
	{Code: Soprano, Korean: "소프라노", English: "Soprano", Base: Soprano},
	{Code: SopranoB, Korean: "소프라노B", English: "Soprano B", Base: Soprano},
	{Code: Alto, Korean: "알토", English: "Alto", Base: Alto},
	{Code: Tenor, Korean: "테너", English: "Tenor", Base: Tenor},
	{Code: Bass, Korean: "베이스", English: "Bass", Base: Bass},
	{Code: Soloist, Korean: "솔리스트", English: "Soloist", Base: Soloist},
	{Code: Instrument, Korean: "기악", English: "Instrument", Base: Instrument},
}

func Parts() []PartInfo {
	out := make([]PartInfo, len(partTable))
	copy(out, partTable)
	return out
}

func (p Part) info() (PartInfo, bool) {
	for _, pi := range partTable {
		if pi.Code == p {
			return pi, true
		}
	}
	return PartInfo{}, false
}

func (p Part) Valid() bool {
	_, ok := p.info()
	return ok
}

// Base: 畳み込み先。未知のパートはそのまま返す。
func (p Part) Base() Part {
	if pi, ok := p.info(); ok {
		return pi.Base
	}
	return p
}

// FoldParts: 別名は基底パートへ畳み、重複を除く（順序は最初の出現）。未知のパートは残す。
func FoldParts(parts []Part) []Part {
	out := make([]Part, 0, len(parts))
	seen := make(map[Part]bool, len(parts))
	for _, p := range parts {
		b := p.Base()
		if seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// Members: このパートで検索するときに含める保存上のパート
func (p Part) Members() []Part {
	if !p.Valid() {
		return nil
	}
	if p.Base() != p {
		return []Part{p}
	}
	var out []Part
	for _, pi := range partTable {
		if pi.Base == p {
			out = append(out, pi.Code)
		}
	}
	return out
}

// Labels: 取り込み時のパート名照合に使う表記（コード・韓国語・英語）
func (p Part) Labels() []string {
	pi, ok := p.info()
	if !ok {
		return []string{string(p)}
	}
	return []string{string(pi.Code), pi.Korean, pi.English}
}

// Label: 表示名（韓国語）
func (p Part) Label() string {
	if pi, ok := p.info(); ok {
		return pi.Korean
	}
	return string(p)
}

// DisplayParts: レポートの行になる基底パート（エイリアスは含まない）
func DisplayParts() []Part {
	var out []Part
	for _, pi := range partTable {
		if pi.Base == pi.Code {
			out = append(out, pi.Code)
		}
	}
	return out
}

// ParsePart: コード・韓国語・英語表記のいずれかに完全一致（大文字小文字無視）
func ParsePart(s string) (Part, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, pi := range partTable {
		for _, l := range pi.Code.Labels() {
			if strings.EqualFold(l, s) {
				return pi.Code, true
			}
		}
	}
	return "", false
}
