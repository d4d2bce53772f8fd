package roster

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"CHORUS-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

const personCols = `person_id, name, part, lifecycle, is_active, role, phone, email, birth_date, lifecycle_changed_at, created_at, updated_at`

func scanPerson(sc interface{ Scan(...any) error }) (Person, error) {
	var r personRow
	err := sc.Scan(&r.ID, &r.Name, &r.Part, &r.Lifecycle, &r.IsActive, &r.Role,
		&r.Phone, &r.Email, &r.BirthDate, &r.LifecycleChangedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return Person{}, err
	}
	return r.toModel(), nil
}

func (s *Store) queryPersons(ctx context.Context, q string, args ...any) ([]Person, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func strOrNil(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return db.FormatDateTime(*t)
}

func (s *Store) Insert(ctx context.Context, p Person) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO persons (`+personCols+`)
	VALUES (`+db.Placeholders(12)+`)`,
		p.ID, p.Name, string(p.Part), string(p.Lifecycle), p.IsActive, string(p.Role),
		strOrNil(p.Phone), strOrNil(p.Email), strOrNil(p.BirthDate), timeOrNil(p.LifecycleChangedAt),
		db.FormatDateTime(p.CreatedAt), db.FormatDateTime(p.UpdatedAt))
	return err
}

// Update: lifecycle 以外の属性を上書き。対象なしは sql.ErrNoRows。
func (s *Store) Update(ctx context.Context, p Person) error {
	res, err := s.db.ExecContext(ctx, `
	UPDATE persons
	SET name = ?, part = ?, role = ?, phone = ?, email = ?, birth_date = ?, updated_at = ?
	WHERE person_id = ?`,
		p.Name, string(p.Part), string(p.Role), strOrNil(p.Phone), strOrNil(p.Email), strOrNil(p.BirthDate),
		db.FormatDateTime(p.UpdatedAt), p.ID)
	return requireAffected(res, err)
}

// SetLifecycle: lifecycle / is_active / lifecycle_changed_at を同時に更新する
func (s *Store) SetLifecycle(ctx context.Context, id string, lc Lifecycle, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
	UPDATE persons
	SET lifecycle = ?, is_active = ?, lifecycle_changed_at = ?, updated_at = ?
	WHERE person_id = ?`,
		string(lc), lc.IsActive(), db.FormatDateTime(at), db.FormatDateTime(at), id)
	return requireAffected(res, err)
}

func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	// MySQL は clientFoundRows=true でマッチ行数を返す
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete: 出欠記録は FK の ON DELETE CASCADE で消える
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM persons WHERE person_id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Get: 見つからなければ sql.ErrNoRows
func (s *Store) Get(ctx context.Context, id string) (Person, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+personCols+` FROM persons WHERE person_id = ?`, id)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Person{}, sql.ErrNoRows
	}
	return p, err
}

func (s *Store) FindByName(ctx context.Context, name string) ([]Person, error) {
	return s.queryPersons(ctx, `
	SELECT `+personCols+`
	FROM persons
	WHERE name = ?
	ORDER BY part, person_id`, name)
}

// FindByParts: parts のいずれかに属する人。activeOnly なら is_active = 1 のみ。
func (s *Store) FindByParts(ctx context.Context, parts []Part, activeOnly bool) ([]Person, error) {
	if len(parts) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(parts))
	for _, p := range parts {
		args = append(args, string(p))
	}
	q := `SELECT ` + personCols + ` FROM persons WHERE part IN (` + db.Placeholders(len(parts)) + `)`
	if activeOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY part, name, person_id`
	return s.queryPersons(ctx, q, args...)
}

func (s *Store) List(ctx context.Context, f Filter) ([]Person, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)
	buf.WriteString(`SELECT ` + personCols + ` FROM persons`)

	if f.Part != nil {
		members := f.Part.Members()
		if len(members) == 0 {
			return nil, nil
		}
		wheres = append(wheres, "part IN ("+db.Placeholders(len(members))+")")
		for _, m := range members {
			args = append(args, string(m))
		}
	}
	if f.Lifecycle != nil {
		wheres = append(wheres, "lifecycle = ?")
		args = append(args, string(*f.Lifecycle))
	}
	if f.Role != nil {
		wheres = append(wheres, "role = ?")
		args = append(args, string(*f.Role))
	}
	if f.Active != nil {
		wheres = append(wheres, "is_active = ?")
		args = append(args, *f.Active)
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	buf.WriteString(" ORDER BY part, name, person_id")

	return s.queryPersons(ctx, buf.String(), args...)
}
