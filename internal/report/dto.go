package report

import (
	"time"

	"CHORUS-backend/internal/roster"
	"CHORUS-backend/internal/stats"
)

type MemberRef struct {
	PersonID string      `json:"person_id"`
	Name     string      `json:"name"`
	Part     roster.Part `json:"part"`
}

// Absentee: Recorded=false は記録なし、true は欠席の記録あり（どちらも不参加）
type Absentee struct {
	MemberRef
	Recorded bool `json:"recorded"`
}

type WithdrawnMember struct {
	MemberRef
	ChangedAt *time.Time `json:"changed_at,omitempty"`
}

type DailyPart struct {
	Part        roster.Part     `json:"part"`
	Label       string          `json:"label"`
	Present     []MemberRef     `json:"present"`
	Late        []MemberRef     `json:"late"`
	NotAttended []Absentee      `json:"not_attended"`
	Resting     []MemberRef     `json:"resting"`
	Stats       stats.PartStats `json:"stats"`
}

type DailyReport struct {
	Date       string        `json:"date"`
	Bucket     string        `json:"bucket"`
	ServiceDay bool          `json:"service_day"`
	Parts      []DailyPart   `json:"parts"`
	Summary    stats.Summary `json:"summary"`
}

// PeriodReport: 週報・月報
type PeriodReport struct {
	Kind      string            `json:"kind"`
	Summary   stats.Summary     `json:"summary"`
	New       []MemberRef       `json:"new"`
	Resting   []MemberRef       `json:"resting"`
	Withdrawn []WithdrawnMember `json:"withdrawn"`
}

// YearlyPart: 月ごとの出席数のみ（当時の在籍数は復元できないので分母は持たない）
type YearlyPart struct {
	Part   roster.Part `json:"part"`
	Label  string      `json:"label"`
	Months [12]int     `json:"months"`
	Total  int         `json:"total"`
}

type YearlyReport struct {
	Year   int          `json:"year"`
	Parts  []YearlyPart `json:"parts"`
	Months [12]int      `json:"months"`
	Total  int          `json:"total"`
}

type SoloistRow struct {
	MemberRef
	Saturday int `json:"saturday"`
	Sunday   int `json:"sunday"`
	Total    int `json:"total"`
}

type SoloistReport struct {
	Month     string       `json:"month"` // YYYY-MM
	Saturdays int          `json:"saturdays"`
	Sundays   int          `json:"sundays"`
	Items     []SoloistRow `json:"items"`
}
