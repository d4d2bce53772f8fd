package importer

import "time"

type Mode string

const (
	ModeRows   Mode = "ROWS"
	ModeMatrix Mode = "MATRIX"
)

// MatchMode: 行モードで同名候補をパート表記で絞るときの照合方法
type MatchMode string

const (
	MatchPrefix MatchMode = "prefix" // 完全一致 → 前方一致
	MatchExact  MatchMode = "exact"
)

// Row: 1行分。キーは列見出し（英語・韓国語どちらでも可、未知の列は無視）
type Row map[string]string

type RowsRequest struct {
	Source string `json:"source,omitempty"`
	Rows   []Row  `json:"rows" binding:"required"`
}

// Result: 1回の取り込み結果。行エラーは Errors に集めて処理は続ける。
type Result struct {
	BatchID   string    `json:"batch_id"`
	Mode      Mode      `json:"mode"`
	Source    string    `json:"source"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Errors    []string  `json:"errors"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Result) fail(msg string) {
	r.Failed++
	r.Errors = append(r.Errors, msg)
}
