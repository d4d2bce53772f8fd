package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"CHORUS-backend/internal/platform/apierr"
	"CHORUS-backend/internal/platform/clock"
	"CHORUS-backend/internal/platform/db"
	"CHORUS-backend/internal/roster"
	"CHORUS-backend/internal/status"
	"CHORUS-backend/pkg/logger"
)

// Directory: 記録対象の人が名簿に存在するかの確認に使う
type Directory interface {
	Get(ctx context.Context, id string) (roster.Person, error)
}

// Service: 出欠台帳。
// 同じ (person, day) への同時書き込みは後勝ちで、楽観ロックは持たない（人の操作速度が前提）。
type Service struct {
	db      *sql.DB
	dialect db.Dialect
	store   *Store
	dir     Directory
	clock   clock.Clock
	log     *zap.Logger
}

func NewService(conn *sql.DB, d db.Dialect, dir Directory, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: conn, dialect: d, store: NewStore(conn, d), dir: dir, clock: clock.Real(), log: log}
}

func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

// Upsert: (person, day) の記録を作成または上書きする。created=true は新規。
// checked_at は状態が変わったときだけ更新する。
func (s *Service) Upsert(ctx context.Context, personID string, day time.Time, st status.Status, checkedAt time.Time) (Record, bool, error) {
	if !st.Valid() {
		return Record{}, false, apierr.Invalidf("unknown status %q", st)
	}
	if _, err := s.dir.Get(ctx, personID); err != nil {
		return Record{}, false, err
	}
	on := db.FormatDate(day)

	var (
		rec     Record
		created bool
	)
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st0 := NewStore(tx, s.dialect)
		prev, found, err := st0.Find(ctx, personID, on)
		if err != nil {
			return err
		}
		created = !found
		// 同じ状態の再書き込みでは checked_at を動かさない
		if found && prev.Status == st {
			rec = prev
			return nil
		}
		if err := st0.Upsert(ctx, personID, on, st, checkedAt); err != nil {
			return err
		}
		r, ok, err := st0.Find(ctx, personID, on)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.ErrInternal("upserted but not found")
		}
		rec = r
		return nil
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("upsert attendance: %w", err)
	}
	s.log.Debug("attendance upserted",
		zap.String(logger.FieldOperation, "attendance.upsert"),
		zap.String(logger.FieldPersonID, personID),
		zap.String(logger.FieldDay, on),
		zap.String("status", string(st)),
		zap.Bool("created", created))
	return rec, created, nil
}

// Clear: 記録があれば消す。無くても成功扱い。
func (s *Service) Clear(ctx context.Context, personID string, day time.Time) error {
	on := db.FormatDate(day)
	n, err := s.store.Delete(ctx, personID, on)
	if err != nil {
		return fmt.Errorf("clear attendance: %w", err)
	}
	s.log.Debug("attendance cleared",
		zap.String(logger.FieldOperation, "attendance.clear"),
		zap.String(logger.FieldPersonID, personID),
		zap.String(logger.FieldDay, on),
		zap.Int64("deleted", n))
	return nil
}

// FindForPeriod: [start, end] の記録。personIDs が nil なら全員分。
func (s *Service) FindForPeriod(ctx context.Context, personIDs []string, start, end time.Time) ([]Record, error) {
	return s.store.FindForPeriod(ctx, personIDs, db.FormatDate(start), db.FormatDate(end))
}

// Toggle: 画面のセル操作。status が nil なら削除、それ以外は checked_at=now で upsert。
func (s *Service) Toggle(ctx context.Context, in ToggleRequest) (*AttendanceResponse, error) {
	if strings.TrimSpace(in.PersonID) == "" {
		return nil, apierr.ErrInvalid("person_id is required")
	}
	day, err := s.parseOn(in.Date)
	if err != nil {
		return nil, apierr.ErrInvalid("date must be YYYY-MM-DD or 'today'")
	}
	if in.Status == nil || strings.TrimSpace(*in.Status) == "" {
		if err := s.Clear(ctx, in.PersonID, day); err != nil {
			return nil, err
		}
		return nil, nil
	}
	st, err := status.Parse(*in.Status)
	if err != nil {
		return nil, apierr.ErrInvalid("status must be PRESENT, LATE, ABSENT or null")
	}
	rec, _, err := s.Upsert(ctx, in.PersonID, day, st, s.clock.Now())
	if err != nil {
		return nil, err
	}
	dto := rec.toDTO()
	return &dto, nil
}

// GET /attendances
func (s *Service) List(ctx context.Context, q ListQuery) ([]AttendanceResponse, int64, error) {
	for _, p := range []*string{q.On, q.From, q.To} {
		if p == nil || *p == "" {
			continue
		}
		d, err := s.parseOn(*p)
		if err != nil {
			return nil, 0, apierr.ErrInvalid("dates must be YYYY-MM-DD or 'today'")
		}
		*p = db.FormatDate(d)
	}
	if q.Sort == "" {
		q.Sort = DefaultSort
	}
	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AttendanceResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return out, total, nil
}

// parseOn: "YYYY-MM-DD" or "today"（today は時計の location の日付）
func (s *Service) parseOn(v string) (time.Time, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "today" {
		now := s.clock.Now()
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	return ParseDay(v)
}

// ParseDay: 厳密な YYYY-MM-DD（3要素）のみ受け付ける
func ParseDay(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	parts := strings.Split(v, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD", v)
	}
	return time.ParseInLocation(DateLayout, v, time.UTC)
}
