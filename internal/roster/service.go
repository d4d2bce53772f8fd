package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"CHORUS-backend/internal/platform/apierr"
	"CHORUS-backend/internal/platform/clock"
	"CHORUS-backend/internal/platform/ident"
	"CHORUS-backend/pkg/logger"
)

// PersonStore: Service が使う永続化の口（*Store が実装）
type PersonStore interface {
	Insert(ctx context.Context, p Person) error
	Update(ctx context.Context, p Person) error
	SetLifecycle(ctx context.Context, id string, lc Lifecycle, at time.Time) error
	Delete(ctx context.Context, id string) (int64, error)
	Get(ctx context.Context, id string) (Person, error)
	FindByName(ctx context.Context, name string) ([]Person, error)
	FindByParts(ctx context.Context, parts []Part, activeOnly bool) ([]Person, error)
	List(ctx context.Context, f Filter) ([]Person, error)
}

type Service struct {
	store PersonStore
	clock clock.Clock
	id    ident.IDGen
	log   *zap.Logger
}

func NewService(store PersonStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, clock: clock.Real(), id: ident.NewULID(), log: log}
}

// WithClock: テスト用
func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

// ===== Directory（集計・取り込みから使う読み取り系） =====

// FindByPartActive: エイリアスを畳み込んだうえで is_active のみ。未知のパートは空。
func (s *Service) FindByPartActive(ctx context.Context, part Part) ([]Person, error) {
	members := part.Members()
	if len(members) == 0 {
		return nil, nil
	}
	return s.store.FindByParts(ctx, members, true)
}

// FindByNameExact: 同名は複数返る。絞り込みは呼び出し側の責務。
func (s *Service) FindByNameExact(ctx context.Context, name string) ([]Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	return s.store.FindByName(ctx, name)
}

// Segment: NEW は Active にも New にも入る。RESTING は Resting のみ。WITHDRAWN はどこにも入らない。
func Segment(people []Person) Segments {
	var seg Segments
	for _, p := range people {
		switch p.Lifecycle {
		case Active:
			seg.Active = append(seg.Active, p)
		case New:
			seg.Active = append(seg.Active, p)
			seg.New = append(seg.New, p)
		case Resting:
			seg.Resting = append(seg.Resting, p)
		}
	}
	return seg
}

// ===== 管理操作 =====

func (s *Service) Get(ctx context.Context, id string) (Person, error) {
	p, err := s.store.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Person{}, apierr.ErrNotFound("person not found")
	}
	return p, err
}

func (s *Service) List(ctx context.Context, f Filter) ([]Person, error) {
	return s.store.List(ctx, f)
}

func validBirthDate(b *string) bool {
	return b == nil || *b == "" || utf8.RuneCountInString(*b) == 6
}

func (s *Service) Create(ctx context.Context, in CreatePersonRequest) (Person, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Person{}, apierr.ErrInvalid("name is required")
	}
	part, ok := ParsePart(in.Part)
	if !ok {
		return Person{}, apierr.Invalidf("unknown part %q", in.Part)
	}
	lc := in.Lifecycle
	if lc == "" {
		lc = New
	}
	if !lc.Valid() {
		return Person{}, apierr.Invalidf("unknown lifecycle %q", in.Lifecycle)
	}
	role := in.Role
	if role == "" {
		role = RoleMember
	}
	if !role.Valid() {
		return Person{}, apierr.Invalidf("unknown role %q", in.Role)
	}
	if !validBirthDate(in.BirthDate) {
		return Person{}, apierr.ErrInvalid("birth_date must be 6 characters (YYMMDD)")
	}

	id, err := s.id.New()
	if err != nil {
		return Person{}, err
	}
	now := s.clock.Now().UTC()
	p := Person{
		ID:                 id,
		Name:               name,
		Part:               part,
		Lifecycle:          lc,
		IsActive:           lc.IsActive(),
		Role:               role,
		Phone:              in.Phone,
		Email:              in.Email,
		BirthDate:          in.BirthDate,
		LifecycleChangedAt: &now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return Person{}, fmt.Errorf("insert person: %w", apierr.FromDuplicate(err, "person already exists"))
	}
	s.log.Info("person created",
		zap.String(logger.FieldOperation, "roster.create"),
		zap.String(logger.FieldPersonID, p.ID),
		zap.String(logger.FieldPart, string(p.Part)))
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdatePersonRequest) (Person, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Person{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Person{}, apierr.ErrInvalid("name must not be empty")
		}
		p.Name = name
	}
	if in.Part != nil {
		part, ok := ParsePart(*in.Part)
		if !ok {
			return Person{}, apierr.Invalidf("unknown part %q", *in.Part)
		}
		p.Part = part
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return Person{}, apierr.Invalidf("unknown role %q", *in.Role)
		}
		p.Role = *in.Role
	}
	if in.Phone != nil {
		p.Phone = in.Phone
	}
	if in.Email != nil {
		p.Email = in.Email
	}
	if in.BirthDate != nil {
		if !validBirthDate(in.BirthDate) {
			return Person{}, apierr.ErrInvalid("birth_date must be 6 characters (YYMMDD)")
		}
		p.BirthDate = in.BirthDate
	}
	p.UpdatedAt = s.clock.Now().UTC()

	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Person{}, apierr.ErrNotFound("person not found")
		}
		return Person{}, fmt.Errorf("update person: %w", err)
	}
	return p, nil
}

// SetLifecycle: 変更時刻が「いつ退団したか」の唯一の記録になる
func (s *Service) SetLifecycle(ctx context.Context, id string, lc Lifecycle) (Person, error) {
	if !lc.Valid() {
		return Person{}, apierr.Invalidf("unknown lifecycle %q", lc)
	}
	now := s.clock.Now().UTC()
	if err := s.store.SetLifecycle(ctx, id, lc, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Person{}, apierr.ErrNotFound("person not found")
		}
		return Person{}, fmt.Errorf("set lifecycle: %w", err)
	}
	s.log.Info("lifecycle changed",
		zap.String(logger.FieldOperation, "roster.lifecycle"),
		zap.String(logger.FieldPersonID, id),
		zap.String("lifecycle", string(lc)))
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if n == 0 {
		return apierr.ErrNotFound("person not found")
	}
	s.log.Info("person deleted",
		zap.String(logger.FieldOperation, "roster.delete"),
		zap.String(logger.FieldPersonID, id))
	return nil
}
