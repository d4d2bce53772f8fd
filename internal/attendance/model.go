package attendance

import (
	"time"

	"CHORUS-backend/internal/platform/db"
	"CHORUS-backend/internal/status"
)

// DB行に対応（スキャン用）
type attendanceRow struct {
	AttendanceID int64
	PersonID     string
	AttendedOn   db.Time // DATE（MySQL は time.Time、SQLite は文字列で返る）
	Status       string
	CheckedAt    db.Time
}

// Record: 1人1日1件の出欠記録
type Record struct {
	AttendanceID int64
	PersonID     string
	AttendedOn   string // YYYY-MM-DD
	Status       status.Status
	CheckedAt    time.Time
}

func (r attendanceRow) toModel() Record {
	return Record{
		AttendanceID: r.AttendanceID,
		PersonID:     r.PersonID,
		AttendedOn:   r.AttendedOn.Day(),
		Status:       status.Status(r.Status),
		CheckedAt:    r.CheckedAt.Time,
	}
}

// Day: 記録日を UTC の 0:00 として返す（曜日判定用）
func (r Record) Day() time.Time {
	d, _ := time.ParseInLocation(DateLayout, r.AttendedOn, time.UTC)
	return d
}

func (r Record) toDTO() AttendanceResponse {
	return AttendanceResponse{
		AttendanceID: r.AttendanceID,
		PersonID:     r.PersonID,
		AttendedOn:   r.AttendedOn,
		Status:       r.Status,
		CheckedAt:    r.CheckedAt,
	}
}
