// Package stats は奉仕日カレンダー・名簿・出欠台帳から期間の出席率を集計する。
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"CHORUS-backend/internal/attendance"
	"CHORUS-backend/internal/calendar"
	"CHORUS-backend/internal/roster"
	"CHORUS-backend/internal/status"
	"CHORUS-backend/pkg/logger"
)

type Roster interface {
	FindByPartActive(ctx context.Context, part roster.Part) ([]roster.Person, error)
}

type Ledger interface {
	FindForPeriod(ctx context.Context, personIDs []string, start, end time.Time) ([]attendance.Record, error)
}

// Counts: 分子・分母のひとまとまり
type Counts struct {
	Attended    int `json:"attended"`
	Denominator int `json:"denominator"`
	Rate        int `json:"rate"`
}

func newCounts(attended, den int) Counts {
	return Counts{Attended: attended, Denominator: den, Rate: Rate(attended, den)}
}

type PartStats struct {
	Part    roster.Part `json:"part"`
	Label   string      `json:"label"`
	Active  int         `json:"active"`
	Resting int         `json:"resting"`
	New     int         `json:"new"`

	Present  int `json:"present"`
	Late     int `json:"late"`
	Attended int `json:"attended"`
	// NotAttended: 欠席記録と未記録の合計
	NotAttended int `json:"not_attended"`
	Denominator int `json:"denominator"`
	Rate        int `json:"rate"`

	Saturday Counts `json:"saturday"`
	Sunday   Counts `json:"sunday"`

	// レポートの一覧用
	Segments roster.Segments `json:"-"`
}

type Summary struct {
	Start       string      `json:"start"`
	End         string      `json:"end"`
	ServiceDays int         `json:"service_days"`
	Saturdays   int         `json:"saturdays"`
	Sundays     int         `json:"sundays"`
	Parts       []PartStats `json:"parts"`

	Attended    int `json:"attended"`
	Denominator int `json:"denominator"`
	// Overall: Σ分子 / Σ分母（パート別の率の平均ではない）
	Overall  int    `json:"overall"`
	Saturday Counts `json:"saturday"`
	Sunday   Counts `json:"sunday"`
}

// Rate: round(100 * num / den)、四捨五入。den が 0 なら 0。
func Rate(num, den int) int {
	if den <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(num)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(den))).
		Round(0).
		IntPart())
}

type Aggregator struct {
	roster Roster
	ledger Ledger
	log    *zap.Logger
}

func NewAggregator(r Roster, l Ledger, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{roster: r, ledger: l, log: log}
}

// Compute: [start, end] の parts ごとの集計と全体の加重平均。
// 未知のパートはエラーにせず 0 の行になる。
func (a *Aggregator) Compute(ctx context.Context, start, end time.Time, parts []roster.Part) (Summary, error) {
	parts = roster.FoldParts(parts)
	days := calendar.ServiceDays(start, end)
	sat, sun := calendar.Split(days)
	sum := Summary{
		Start:       calendar.Day(start).Format(attendance.DateLayout),
		End:         calendar.Day(end).Format(attendance.DateLayout),
		ServiceDays: len(days),
		Saturdays:   sat,
		Sundays:     sun,
		Parts:       make([]PartStats, 0, len(parts)),
	}

	var satNum, sunNum, satDen, sunDen int
	for _, part := range parts {
		ps, err := a.part(ctx, part, start, end, sat, sun)
		if err != nil {
			return Summary{}, err
		}
		sum.Parts = append(sum.Parts, ps)
		sum.Attended += ps.Attended
		sum.Denominator += ps.Denominator
		satNum += ps.Saturday.Attended
		satDen += ps.Saturday.Denominator
		sunNum += ps.Sunday.Attended
		sunDen += ps.Sunday.Denominator
	}
	sum.Overall = Rate(sum.Attended, sum.Denominator)
	sum.Saturday = newCounts(satNum, satDen)
	sum.Sunday = newCounts(sunNum, sunDen)

	a.log.Debug("stats computed",
		zap.String(logger.FieldOperation, "stats.compute"),
		zap.String("start", sum.Start),
		zap.String("end", sum.End),
		zap.Int("parts", len(parts)),
		zap.Int("overall", sum.Overall))
	return sum, nil
}

func (a *Aggregator) part(ctx context.Context, part roster.Part, start, end time.Time, sat, sun int) (PartStats, error) {
	ps := PartStats{Part: part, Label: part.Label()}

	people, err := a.roster.FindByPartActive(ctx, part)
	if err != nil {
		return PartStats{}, fmt.Errorf("roster of %s: %w", part, err)
	}
	seg := roster.Segment(people)
	ps.Segments = seg
	ps.Active, ps.Resting, ps.New = len(seg.Active), len(seg.Resting), len(seg.New)
	if ps.Active == 0 {
		return ps, nil
	}

	ids := make([]string, 0, ps.Active)
	for _, p := range seg.Active {
		ids = append(ids, p.ID)
	}
	recs, err := a.ledger.FindForPeriod(ctx, ids, start, end)
	if err != nil {
		return PartStats{}, fmt.Errorf("attendance of %s: %w", part, err)
	}

	var satNum, sunNum int
	for _, r := range recs {
		if !r.Status.Attended() {
			continue
		}
		switch calendar.BucketOf(r.Day()) {
		case calendar.Saturday:
			satNum++
		case calendar.Sunday:
			sunNum++
		default:
			continue
		}
		if r.Status == status.Late {
			ps.Late++
		} else {
			ps.Present++
		}
	}

	ps.Attended = satNum + sunNum
	ps.Denominator = ps.Active * (sat + sun)
	ps.NotAttended = ps.Denominator - ps.Attended
	ps.Rate = Rate(ps.Attended, ps.Denominator)
	ps.Saturday = newCounts(satNum, ps.Active*sat)
	ps.Sunday = newCounts(sunNum, ps.Active*sun)
	return ps, nil
}
