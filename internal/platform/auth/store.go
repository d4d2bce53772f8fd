package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"CHORUS-backend/internal/platform/db"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator" // 出欠・取り込み・名簿の更新
	RoleViewer   Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleViewer:
		return true
	}
	return false
}

type Account struct {
	ID           string
	PasswordHash string
	Role         Role
	IsDisabled   bool
	CreatedAt    time.Time
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id string) (int64, error)
	SetDisabled(ctx context.Context, id string, disabled bool) (int64, error)
}

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) AccountStore {
	return &Store{db: conn}
}

// GetByID: 無ければ (nil, nil)
func (s *Store) GetByID(ctx context.Context, id string) (*Account, error) {
	const q = `
SELECT id, password_hash, role, is_disabled, created_at
FROM auth_accounts
WHERE id = ?
LIMIT 1
`
	var (
		a             Account
		role          string
		isDisabledInt int
		created       db.Time
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.PasswordHash, &role, &isDisabledInt, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Role = Role(role)
	a.IsDisabled = isDisabledInt != 0
	a.CreatedAt = created.Time
	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *Account) error {
	const q = `
INSERT INTO auth_accounts (id, password_hash, role, is_disabled, created_at)
VALUES (?, ?, ?, 0, ?)
`
	_, err := s.db.ExecContext(ctx, q, a.ID, a.PasswordHash, string(a.Role), db.FormatDateTime(a.CreatedAt))
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM auth_accounts WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) SetDisabled(ctx context.Context, id string, disabled bool) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE auth_accounts SET is_disabled = ? WHERE id = ?`, disabled, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
