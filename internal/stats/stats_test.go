package stats

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CHORUS-backend/internal/attendance"
	"CHORUS-backend/internal/calendar"
	"CHORUS-backend/internal/roster"
	"CHORUS-backend/internal/status"
)

type fakeRoster struct{ people []roster.Person }

func (f *fakeRoster) FindByPartActive(_ context.Context, part roster.Part) ([]roster.Person, error) {
	var out []roster.Person
	for _, m := range part.Members() {
		for _, p := range f.people {
			if p.Part == m && p.IsActive {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeRoster) add(part roster.Part, lc roster.Lifecycle) roster.Person {
	p := roster.Person{
		ID:        fmt.Sprintf("p%02d", len(f.people)+1),
		Name:      fmt.Sprintf("member %d", len(f.people)+1),
		Part:      part,
		Lifecycle: lc,
		IsActive:  lc.IsActive(),
	}
	f.people = append(f.people, p)
	return p
}

type fakeLedger struct{ recs []attendance.Record }

func (f *fakeLedger) FindForPeriod(_ context.Context, ids []string, start, end time.Time) ([]attendance.Record, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	from, to := start.Format(attendance.DateLayout), end.Format(attendance.DateLayout)
	var out []attendance.Record
	for _, r := range f.recs {
		if (ids == nil || want[r.PersonID]) && r.AttendedOn >= from && r.AttendedOn <= to {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedger) mark(p roster.Person, day time.Time, st status.Status) {
	f.recs = append(f.recs, attendance.Record{PersonID: p.ID, AttendedOn: day.Format(attendance.DateLayout), Status: st})
}

func (f *fakeLedger) markAll(p roster.Person, days []time.Time, st status.Status) {
	for _, d := range days {
		f.mark(p, d, st)
	}
}

var (
	febStart, febEnd = calendar.MonthRange(2026, time.February, time.UTC)
	febDays          = calendar.ServiceDays(febStart, febEnd)
)

func TestRate(t *testing.T) {
	tests := []struct {
		num, den, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{40, 40, 100},
		{32, 40, 80},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{1, 200, 1},
		{0, 7, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rate(tt.num, tt.den), "%d/%d", tt.num, tt.den)
	}
}

func TestFebruaryAllPresent(t *testing.T) {
	r, l := &fakeRoster{}, &fakeLedger{}
	for i := 0; i < 5; i++ {
		l.markAll(r.add(roster.Alto, roster.Active), febDays, status.Present)
	}

	sum, err := NewAggregator(r, l, nil).Compute(context.Background(), febStart, febEnd, []roster.Part{roster.Alto})
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Saturdays)
	assert.Equal(t, 4, sum.Sundays)
	require.Len(t, sum.Parts, 1)
	ps := sum.Parts[0]
	assert.Equal(t, 5, ps.Active)
	assert.Equal(t, 40, ps.Denominator)
	assert.Equal(t, 40, ps.Attended)
	assert.Equal(t, 100, ps.Rate)
	assert.Equal(t, 100, ps.Saturday.Rate)
	assert.Equal(t, 100, ps.Sunday.Rate)
	assert.Equal(t, 100, sum.Overall)
}

func TestFebruaryOneMemberMissing(t *testing.T) {
	r, l := &fakeRoster{}, &fakeLedger{}
	for i := 0; i < 4; i++ {
		l.markAll(r.add(roster.Alto, roster.Active), febDays, status.Present)
	}
	r.add(roster.Alto, roster.Active)

	sum, err := NewAggregator(r, l, nil).Compute(context.Background(), febStart, febEnd, []roster.Part{roster.Alto})
	require.NoError(t, err)
	ps := sum.Parts[0]
	assert.Equal(t, 32, ps.Attended)
	assert.Equal(t, 40, ps.Denominator)
	assert.Equal(t, 8, ps.NotAttended)
	assert.Equal(t, 80, ps.Rate)
}

func TestOverallIsWeighted(t *testing.T) {
	r, l := &fakeRoster{}, &fakeLedger{}
	l.markAll(r.add(roster.Soloist, roster.Active), febDays, status.Present)
	for i := 0; i < 9; i++ {
		p := r.add(roster.Bass, roster.Active)
		if i == 0 {
			l.mark(p, febDays[0], status.Present)
		}
	}

	sum, err := NewAggregator(r, l, nil).Compute(context.Background(), febStart, febEnd,
		[]roster.Part{roster.Soloist, roster.Bass})
	require.NoError(t, err)
	require.Len(t, sum.Parts, 2)
	assert.Equal(t, 100, sum.Parts[0].Rate)
	assert.Equal(t, 1, sum.Parts[1].Rate) // 1/72
	assert.Equal(t, 9, sum.Attended)
	assert.Equal(t, 80, sum.Denominator)
	assert.Equal(t, 11, sum.Overall)

	mean := int(math.Round(float64(sum.Parts[0].Rate+sum.Parts[1].Rate) / 2))
	assert.NotEqual(t, mean, sum.Overall)
}

func TestRestingExcludedFromRates(t *testing.T) {
	r, l := &fakeRoster{}, &fakeLedger{}
	active := r.add(roster.Tenor, roster.Active)
	fresh := r.add(roster.Tenor, roster.New)
	resting := r.add(roster.Tenor, roster.Resting)
	gone := r.add(roster.Tenor, roster.Withdrawn)
	l.markAll(active, febDays, status.Present)
	l.markAll(resting, febDays, status.Present)
	l.markAll(gone, febDays, status.Present)
	l.mark(fresh, febDays[0], status.Late)

	sum, err := NewAggregator(r, l, nil).Compute(context.Background(), febStart, febEnd, []roster.Part{roster.Tenor})
	require.NoError(t, err)
	ps := sum.Parts[0]
	assert.Equal(t, 2, ps.Active)
	assert.Equal(t, 1, ps.Resting)
	assert.Equal(t, 1, ps.New)
	assert.Equal(t, 16, ps.Denominator)
	assert.Equal(t, 9, ps.Attended)
	assert.Equal(t, 8, ps.Present)
	assert.Equal(t, 1, ps.Late)
	assert.Equal(t, Rate(9, 16), ps.Rate)
	require.Len(t, ps.Segments.Resting, 1)
	assert.Equal(t, resting.ID, ps.Segments.Resting[0].ID)
}

func TestOnlyServiceDaysAndAttendedStatusesCount(t *testing.T) {
	r, l := &fakeRoster{}, &fakeLedger{}
	p := r.add(roster.Alto, roster.Active)
	l.mark(p, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), status.Present) // 月曜
	l.mark(p, time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC), status.Absent)
	l.mark(p, time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC), status.Late)
	l.mark(p, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), status.Present) // 期間外

	sum, err := NewAggregator(r, l, nil).Compute(context.Background(), febStart, febEnd, []roster.Part{roster.Alto})
	require.NoError(t, err)
	ps := sum.Parts[0]
	assert.Equal(t, 1, ps.Attended)
	assert.Equal(t, 0, ps.Present)
	assert.Equal(t, 1, ps.Late)
	assert.Equal(t, 0, ps.Saturday.Attended)
	assert.Equal(t, 1, ps.Sunday.Attended)
	assert.Equal(t, 4, ps.Sunday.Denominator)
	assert.Equal(t, 25, ps.Sunday.Rate)
	assert.Equal(t, 0, ps.Saturday.Rate)
}

func TestAliasFoldedIntoBasePart(t *testing.T) {
	r, l := &fakeRoster{}, &fakeLedger{}
	l.markAll(r.add(roster.Soprano, roster.Active), febDays, status.Present)
	r.add(roster.SopranoB, roster.Active)

	sum, err := NewAggregator(r, l, nil).Compute(context.Background(), febStart, febEnd, []roster.Part{roster.Soprano})
	require.NoError(t, err)
	ps := sum.Parts[0]
	assert.Equal(t, 2, ps.Active)
	assert.Equal(t, 16, ps.Denominator)
	assert.Equal(t, 50, ps.Rate)
}

func TestAliasRequestedWithBasePartCountsOnce(t *testing.T) {
	r, l := &fakeRoster{}, &fakeLedger{}
	l.markAll(r.add(roster.SopranoB, roster.Active), febDays, status.Present)
	r.add(roster.Soprano, roster.Active)
	r.add(roster.Alto, roster.Active)
	r.add(roster.Alto, roster.Active)

	sum, err := NewAggregator(r, l, nil).Compute(context.Background(), febStart, febEnd,
		[]roster.Part{roster.Soprano, roster.SopranoB, roster.Alto, roster.Alto})
	require.NoError(t, err)
	require.Len(t, sum.Parts, 2)
	assert.Equal(t, roster.Soprano, sum.Parts[0].Part)
	assert.Equal(t, 2, sum.Parts[0].Active)
	assert.Equal(t, 8, sum.Parts[0].Attended)
	assert.Equal(t, 16, sum.Parts[0].Denominator)
	assert.Equal(t, roster.Alto, sum.Parts[1].Part)
	assert.Equal(t, 8, sum.Attended)
	assert.Equal(t, 32, sum.Denominator)
	assert.Equal(t, 25, sum.Overall)

	// 別名だけを指定しても基底パートの行になる
	sum, err = NewAggregator(r, l, nil).Compute(context.Background(), febStart, febEnd, []roster.Part{roster.SopranoB})
	require.NoError(t, err)
	require.Len(t, sum.Parts, 1)
	assert.Equal(t, roster.Soprano, sum.Parts[0].Part)
	assert.Equal(t, 2, sum.Parts[0].Active)
}

func TestUnknownPartAndEmptyPeriod(t *testing.T) {
	r, l := &fakeRoster{}, &fakeLedger{}
	r.add(roster.Alto, roster.Active)
	agg := NewAggregator(r, l, nil)

	sum, err := agg.Compute(context.Background(), febStart, febEnd, []roster.Part{"CHOIR_B"})
	require.NoError(t, err)
	require.Len(t, sum.Parts, 1)
	assert.Equal(t, PartStats{Part: "CHOIR_B", Label: "CHOIR_B"}, sum.Parts[0])
	assert.Equal(t, 0, sum.Overall)

	// 平日のみの期間は分母 0
	mon := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	sum, err = agg.Compute(context.Background(), mon, mon.AddDate(0, 0, 4), []roster.Part{roster.Alto})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.ServiceDays)
	assert.Equal(t, 0, sum.Parts[0].Denominator)
	assert.Equal(t, 0, sum.Parts[0].Rate)

	sum, err = agg.Compute(context.Background(), febStart, febEnd, nil)
	require.NoError(t, err)
	assert.Empty(t, sum.Parts)
	assert.Equal(t, 0, sum.Overall)
}
