package roster

import "time"

type CreatePersonRequest struct {
	Name      string    `json:"name" binding:"required"`
	Part      string    `json:"part" binding:"required"`
	Lifecycle Lifecycle `json:"lifecycle,omitempty"` // 未指定なら NEW
	Role      Role      `json:"role,omitempty"`      // 未指定なら MEMBER
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	BirthDate *string   `json:"birth_date,omitempty"` // YYMMDD
}

type UpdatePersonRequest struct {
	Name      *string `json:"name,omitempty"`
	Part      *string `json:"part,omitempty"`
	Role      *Role   `json:"role,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
}

type LifecycleRequest struct {
	Lifecycle Lifecycle `json:"lifecycle" binding:"required"`
}

type PersonResponse struct {
	ID                 string     `json:"person_id"`
	Name               string     `json:"name"`
	Part               Part       `json:"part"`
	PartLabel          string     `json:"part_label"`
	Lifecycle          Lifecycle  `json:"lifecycle"`
	IsActive           bool       `json:"is_active"`
	Role               Role       `json:"role"`
	Phone              *string    `json:"phone,omitempty"`
	Email              *string    `json:"email,omitempty"`
	BirthDate          *string    `json:"birth_date,omitempty"`
	LifecycleChangedAt *time.Time `json:"lifecycle_changed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Filter: 一覧の絞り込み（nil は条件なし）
type Filter struct {
	Part      *Part // エイリアスも含めて検索
	Lifecycle *Lifecycle
	Role      *Role
	Active    *bool
}
