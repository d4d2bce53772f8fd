package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"CHORUS-backend/internal/platform/db"
	"CHORUS-backend/internal/status"
)

type Store struct {
	db      db.DBTX
	dialect db.Dialect
}

func NewStore(conn db.DBTX, d db.Dialect) *Store { return &Store{db: conn, dialect: d} }

const recordCols = `attendance_id, person_id, attended_on, status, checked_at`

func scanRecord(sc interface{ Scan(...any) error }) (Record, error) {
	var r attendanceRow
	if err := sc.Scan(&r.AttendanceID, &r.PersonID, &r.AttendedOn, &r.Status, &r.CheckedAt); err != nil {
		return Record{}, err
	}
	return r.toModel(), nil
}

// Find: (person, day) の記録。無ければ ok=false。
func (s *Store) Find(ctx context.Context, personID string, day string) (Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT `+recordCols+`
	FROM attendances
	WHERE person_id = ? AND attended_on = ?`, personID, day)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// Upsert: UNIQUE(person_id, attended_on) で INSERT または UPDATE。
// 日付は DATE 列に日付のみで入るので、書き込み経路ごとの時刻の揺れは起きない。
func (s *Store) Upsert(ctx context.Context, personID string, day string, st status.Status, checkedAt time.Time) error {
	q := `
	INSERT INTO attendances (person_id, attended_on, status, checked_at)
	VALUES (?, ?, ?, ?)` + s.dialect.Upsert([]string{"person_id", "attended_on"}, []string{"status", "checked_at"})
	_, err := s.db.ExecContext(ctx, q, personID, day, string(st), db.FormatDateTime(checkedAt))
	return err
}

// Delete: 該当が無くてもエラーにしない
func (s *Store) Delete(ctx context.Context, personID string, day string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM attendances WHERE person_id = ? AND attended_on = ?`, personID, day)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FindForPeriod: [from, to] の記録（両端含む）。personIDs が nil なら全員。
func (s *Store) FindForPeriod(ctx context.Context, personIDs []string, from, to string) ([]Record, error) {
	q := `SELECT ` + recordCols + ` FROM attendances WHERE attended_on BETWEEN ? AND ?`
	args := []any{from, to}
	if personIDs != nil {
		if len(personIDs) == 0 {
			return nil, nil
		}
		q += ` AND person_id IN (` + db.Placeholders(len(personIDs)) + `)`
		for _, id := range personIDs {
			args = append(args, id)
		}
	}
	q += ` ORDER BY attended_on, person_id`
	return s.query(ctx, q, args...)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET
func (s *Store) List(ctx context.Context, q ListQuery) ([]Record, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)
	buf.WriteString(`SELECT ` + recordCols + ` FROM attendances`)

	if q.PersonID != nil && *q.PersonID != "" {
		wheres = append(wheres, "person_id = ?")
		args = append(args, *q.PersonID)
	}
	if q.On != nil && *q.On != "" {
		wheres = append(wheres, "attended_on = ?")
		args = append(args, *q.On)
	} else {
		if q.From != nil && *q.From != "" {
			wheres = append(wheres, "attended_on >= ?")
			args = append(args, *q.From)
		}
		if q.To != nil && *q.To != "" {
			wheres = append(wheres, "attended_on <= ?")
			args = append(args, *q.To)
		}
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}

	switch q.Sort {
	case SortDayAsc:
		buf.WriteString(" ORDER BY attended_on ASC, person_id ASC")
	case SortCheckedDesc:
		buf.WriteString(" ORDER BY checked_at DESC, attendance_id DESC")
	default:
		buf.WriteString(" ORDER BY attended_on DESC, person_id ASC")
	}
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", clampLimit(q.Limit), max(q.Offset, 0)))

	out, err := s.query(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}

	// COUNT（ORDER BY より前までを再構築）
	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM attendances")
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return DefaultPageLimit
	}
	if n > MaxPageLimit {
		return MaxPageLimit
	}
	return n
}
