// Package report は集計結果と名簿の一覧を日報・週報・月報・年報・ソリスト集計の形にまとめる。
package report

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"CHORUS-backend/internal/attendance"
	"CHORUS-backend/internal/calendar"
	"CHORUS-backend/internal/roster"
	"CHORUS-backend/internal/stats"
	"CHORUS-backend/internal/status"
	"CHORUS-backend/pkg/logger"
)

type Roster interface {
	FindByPartActive(ctx context.Context, part roster.Part) ([]roster.Person, error)
	List(ctx context.Context, f roster.Filter) ([]roster.Person, error)
}

type Ledger interface {
	FindForPeriod(ctx context.Context, personIDs []string, start, end time.Time) ([]attendance.Record, error)
}

type Composer struct {
	agg    *stats.Aggregator
	roster Roster
	ledger Ledger
	log    *zap.Logger
}

func NewComposer(agg *stats.Aggregator, r Roster, l Ledger, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{agg: agg, roster: r, ledger: l, log: log}
}

// ParseParts: "SOPRANO,알토" のような指定。空なら表示用の基底パート全部。
// 未知の名前もそのまま残す（集計では 0 の行になる）。
func ParseParts(v string) []roster.Part {
	if strings.TrimSpace(v) == "" {
		return roster.DisplayParts()
	}
	var out []roster.Part
	for _, tok := range strings.Split(v, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if p, ok := roster.ParsePart(tok); ok {
			out = append(out, p)
			continue
		}
		out = append(out, roster.Part(strings.ToUpper(tok)))
	}
	return roster.FoldParts(out)
}

func refs(ps []roster.Person) []MemberRef {
	out := make([]MemberRef, 0, len(ps))
	for _, p := range ps {
		out = append(out, MemberRef{PersonID: p.ID, Name: p.Name, Part: p.Part})
	}
	return out
}

// Daily: 1日分。パートごとに出席・遅刻・不参加（記録の有無つき）を並べる。
func (c *Composer) Daily(ctx context.Context, day time.Time, parts []roster.Part) (DailyReport, error) {
	day = calendar.Day(day)
	sum, err := c.agg.Compute(ctx, day, day, parts)
	if err != nil {
		return DailyReport{}, err
	}
	rep := DailyReport{
		Date:       day.Format(attendance.DateLayout),
		Bucket:     calendar.BucketOf(day).String(),
		ServiceDay: calendar.IsServiceDay(day),
		Parts:      make([]DailyPart, 0, len(sum.Parts)),
		Summary:    sum,
	}

	for _, ps := range sum.Parts {
		dp := DailyPart{
			Part:        ps.Part,
			Label:       ps.Label,
			Present:     []MemberRef{},
			Late:        []MemberRef{},
			NotAttended: []Absentee{},
			Resting:     refs(ps.Segments.Resting),
			Stats:       ps,
		}
		active := ps.Segments.Active
		if len(active) > 0 {
			ids := make([]string, 0, len(active))
			for _, p := range active {
				ids = append(ids, p.ID)
			}
			recs, err := c.ledger.FindForPeriod(ctx, ids, day, day)
			if err != nil {
				return DailyReport{}, fmt.Errorf("attendance of %s: %w", ps.Part, err)
			}
			byPerson := make(map[string]status.Status, len(recs))
			for _, r := range recs {
				byPerson[r.PersonID] = r.Status
			}
			for _, p := range active {
				ref := MemberRef{PersonID: p.ID, Name: p.Name, Part: p.Part}
				st, ok := byPerson[p.ID]
				switch {
				case ok && st == status.Present:
					dp.Present = append(dp.Present, ref)
				case ok && st == status.Late:
					dp.Late = append(dp.Late, ref)
				default:
					dp.NotAttended = append(dp.NotAttended, Absentee{MemberRef: ref, Recorded: ok})
				}
			}
		}
		rep.Parts = append(rep.Parts, dp)
	}
	return rep, nil
}

// Weekly: start から 7 日間
func (c *Composer) Weekly(ctx context.Context, start time.Time, parts []roster.Part) (PeriodReport, error) {
	from, to := calendar.WeekRange(start)
	return c.period(ctx, "weekly", from, to, parts)
}

func (c *Composer) Monthly(ctx context.Context, year int, month time.Month, parts []roster.Part) (PeriodReport, error) {
	from, to := calendar.MonthRange(year, month, time.UTC)
	return c.period(ctx, "monthly", from, to, parts)
}

func (c *Composer) period(ctx context.Context, kind string, from, to time.Time, parts []roster.Part) (PeriodReport, error) {
	sum, err := c.agg.Compute(ctx, from, to, parts)
	if err != nil {
		return PeriodReport{}, err
	}
	rep := PeriodReport{Kind: kind, Summary: sum, New: []MemberRef{}, Resting: []MemberRef{}, Withdrawn: []WithdrawnMember{}}
	for _, ps := range sum.Parts {
		rep.New = append(rep.New, refs(ps.Segments.New)...)
		rep.Resting = append(rep.Resting, refs(ps.Segments.Resting)...)
	}

	wd, err := c.withdrawn(ctx, from, to, parts)
	if err != nil {
		return PeriodReport{}, err
	}
	rep.Withdrawn = wd
	c.log.Debug("period report composed",
		zap.String(logger.FieldOperation, "report."+kind),
		zap.String("start", sum.Start),
		zap.String("end", sum.End),
		zap.Int("withdrawn", len(wd)))
	return rep, nil
}

// withdrawn: 期間内に退団へ変わった人。退団日時は lifecycle_changed_at しか無い。
func (c *Composer) withdrawn(ctx context.Context, from, to time.Time, parts []roster.Part) ([]WithdrawnMember, error) {
	lc := roster.Withdrawn
	people, err := c.roster.List(ctx, roster.Filter{Lifecycle: &lc})
	if err != nil {
		return nil, fmt.Errorf("withdrawn members: %w", err)
	}
	bases := make(map[roster.Part]bool, len(parts))
	for _, p := range parts {
		bases[p.Base()] = true
	}
	lo, hi := calendar.Day(from), calendar.Day(to).AddDate(0, 0, 1)

	out := []WithdrawnMember{}
	for _, p := range people {
		if !bases[p.Part.Base()] || p.LifecycleChangedAt == nil {
			continue
		}
		at := *p.LifecycleChangedAt
		if at.Before(lo) || !at.Before(hi) {
			continue
		}
		out = append(out, WithdrawnMember{
			MemberRef: MemberRef{PersonID: p.ID, Name: p.Name, Part: p.Part},
			ChangedAt: p.LifecycleChangedAt,
		})
	}
	slices.SortFunc(out, func(a, b WithdrawnMember) int { return a.ChangedAt.Compare(*b.ChangedAt) })
	return out, nil
}

// Yearly: 月ごとの出席数（分子のみ）
func (c *Composer) Yearly(ctx context.Context, year int, parts []roster.Part) (YearlyReport, error) {
	parts = roster.FoldParts(parts)
	rep := YearlyReport{Year: year, Parts: make([]YearlyPart, len(parts))}
	for i, p := range parts {
		rep.Parts[i] = YearlyPart{Part: p, Label: p.Label()}
	}
	for m := time.January; m <= time.December; m++ {
		from, to := calendar.MonthRange(year, m, time.UTC)
		sum, err := c.agg.Compute(ctx, from, to, parts)
		if err != nil {
			return YearlyReport{}, fmt.Errorf("%d-%02d: %w", year, m, err)
		}
		for i, ps := range sum.Parts {
			rep.Parts[i].Months[m-1] = ps.Attended
			rep.Parts[i].Total += ps.Attended
		}
		rep.Months[m-1] = sum.Attended
		rep.Total += sum.Attended
	}
	return rep, nil
}

// Soloists: ソリストごとの土曜・日曜の出席数（出席・遅刻のみ数える）
func (c *Composer) Soloists(ctx context.Context, year int, month time.Month) (SoloistReport, error) {
	from, to := calendar.MonthRange(year, month, time.UTC)
	sat, sun := calendar.Split(calendar.ServiceDays(from, to))
	rep := SoloistReport{Month: from.Format("2006-01"), Saturdays: sat, Sundays: sun, Items: []SoloistRow{}}

	people, err := c.roster.FindByPartActive(ctx, roster.Soloist)
	if err != nil {
		return SoloistReport{}, fmt.Errorf("soloists: %w", err)
	}
	if len(people) == 0 {
		return rep, nil
	}
	ids := make([]string, 0, len(people))
	for _, p := range people {
		ids = append(ids, p.ID)
	}
	recs, err := c.ledger.FindForPeriod(ctx, ids, from, to)
	if err != nil {
		return SoloistReport{}, fmt.Errorf("attendance of soloists: %w", err)
	}

	rows := make(map[string]*SoloistRow, len(people))
	for _, p := range people {
		rows[p.ID] = &SoloistRow{MemberRef: MemberRef{PersonID: p.ID, Name: p.Name, Part: p.Part}}
	}
	for _, r := range recs {
		row, ok := rows[r.PersonID]
		if !ok || !r.Status.Attended() {
			continue
		}
		switch calendar.BucketOf(r.Day()) {
		case calendar.Saturday:
			row.Saturday++
		case calendar.Sunday:
			row.Sunday++
		}
	}
	for _, p := range people {
		row := rows[p.ID]
		row.Total = row.Saturday + row.Sunday
		rep.Items = append(rep.Items, *row)
	}
	slices.SortStableFunc(rep.Items, func(a, b SoloistRow) int { return strings.Compare(a.Name, b.Name) })
	return rep, nil
}
