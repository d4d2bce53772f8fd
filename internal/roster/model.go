package roster

import (
	"database/sql"
	"time"

	"CHORUS-backend/internal/platform/db"
)

// Lifecycle: NEW と RESTING は在籍扱い(is_active=1)。WITHDRAWN のみ非在籍。
type Lifecycle string

const (
	Active    Lifecycle = "ACTIVE"
	New       Lifecycle = "NEW"
	Resting   Lifecycle = "RESTING"
	Withdrawn Lifecycle = "WITHDRAWN"
)

func (l Lifecycle) Valid() bool {
	switch l {
	case Active, New, Resting, Withdrawn:
		return true
	}
	return false
}

// IsActive: is_active 列の値。lifecycle と常に一致させる。
func (l Lifecycle) IsActive() bool { return l != Withdrawn }

type Role string

const (
	RoleMember     Role = "MEMBER"
	RolePartLeader Role = "PART_LEADER"
	RoleStaff      Role = "STAFF"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RolePartLeader, RoleStaff:
		return true
	}
	return false
}

// DB行に対応（スキャン用）
type personRow struct {
	ID                 string
	Name               string
	Part               string
	Lifecycle          string
	IsActive           bool
	Role               string
	Phone              sql.NullString
	Email              sql.NullString
	BirthDate          sql.NullString
	LifecycleChangedAt db.Time
	CreatedAt          db.Time
	UpdatedAt          db.Time
}

type Person struct {
	ID                 string
	Name               string
	Part               Part
	Lifecycle          Lifecycle
	IsActive           bool
	Role               Role
	Phone              *string
	Email              *string
	BirthDate          *string // YYMMDD
	LifecycleChangedAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func (r personRow) toModel() Person {
	p := Person{
		ID:        r.ID,
		Name:      r.Name,
		Part:      Part(r.Part),
		Lifecycle: Lifecycle(r.Lifecycle),
		IsActive:  r.IsActive,
		Role:      Role(r.Role),
		Phone:     nullStr(r.Phone),
		Email:     nullStr(r.Email),
		BirthDate: nullStr(r.BirthDate),
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
	if r.LifecycleChangedAt.Valid {
		t := r.LifecycleChangedAt.Time
		p.LifecycleChangedAt = &t
	}
	return p
}

func (p Person) toDTO() PersonResponse {
	return PersonResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Part:               p.Part,
		PartLabel:          p.Part.Label(),
		Lifecycle:          p.Lifecycle,
		IsActive:           p.IsActive,
		Role:               p.Role,
		Phone:              p.Phone,
		Email:              p.Email,
		BirthDate:          p.BirthDate,
		LifecycleChangedAt: p.LifecycleChangedAt,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// Segments: 集計用の区分け。NEW は Active にも含まれる。RESTING は Active に入らない。
type Segments struct {
	Active  []Person
	Resting []Person
	New     []Person
}
