package attendance

import (
	"time"

	"CHORUS-backend/internal/status"
)

const (
	SortDayDesc      = "day_desc"
	SortDayAsc       = "day_asc"
	SortCheckedDesc  = "checked_at_desc"
	DefaultPageLimit = 50
	MaxPageLimit     = 500
	DefaultSort      = SortDayDesc
	DateLayout       = "2006-01-02"
)

// ToggleRequest: status が null/省略ならその日の記録を消す
type ToggleRequest struct {
	PersonID string  `json:"person_id" binding:"required"`
	Date     string  `json:"date" binding:"required"` // YYYY-MM-DD or "today"
	Status   *string `json:"status"`                  // PRESENT | LATE | ABSENT | null
}

type AttendanceResponse struct {
	AttendanceID int64         `json:"attendance_id"`
	PersonID     string        `json:"person_id"`
	AttendedOn   string        `json:"attended_on"` // YYYY-MM-DD
	Status       status.Status `json:"status"`
	CheckedAt    time.Time     `json:"checked_at"`
}

type ListQuery struct {
	PersonID *string
	On       *string
	From     *string
	To       *string
	Limit    int
	Offset   int
	Sort     string
}
