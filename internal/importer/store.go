package importer

import (
	"context"
	"encoding/json"
	"fmt"

	"CHORUS-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

// Insert: 取り込み結果の記録（import_batches）
func (s *Store) Insert(ctx context.Context, r Result) error {
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	buf, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("marshal errors: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO import_batches (batch_id, mode, source, succeeded, failed, errors_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.BatchID, string(r.Mode), r.Source, r.Succeeded, r.Failed, string(buf), db.FormatDateTime(r.CreatedAt))
	return err
}

// Get: 見つからなければ sql.ErrNoRows
func (s *Store) Get(ctx context.Context, batchID string) (Result, error) {
	var (
		r       Result
		mode    string
		errJSON string
		created db.Time
	)
	err := s.db.QueryRowContext(ctx, `
	SELECT batch_id, mode, source, succeeded, failed, errors_json, created_at
	FROM import_batches
	WHERE batch_id = ?`, batchID).Scan(&r.BatchID, &mode, &r.Source, &r.Succeeded, &r.Failed, &errJSON, &created)
	if err != nil {
		return Result{}, err
	}
	r.Mode = Mode(mode)
	r.CreatedAt = created.Time
	if err := json.Unmarshal([]byte(errJSON), &r.Errors); err != nil {
		return Result{}, fmt.Errorf("unmarshal errors of batch %s: %w", batchID, err)
	}
	return r, nil
}

