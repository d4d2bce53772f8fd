package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CHORUS-backend/internal/platform/apierr"
	"CHORUS-backend/internal/platform/clock"
	"CHORUS-backend/internal/platform/db"
	"CHORUS-backend/internal/platform/db/dbtest"
	"CHORUS-backend/internal/roster"
	"CHORUS-backend/internal/status"
)

var now = time.Date(2026, 2, 8, 10, 30, 0, 0, time.UTC)

type fixture struct {
	conn   *sql.DB
	roster *roster.Service
	svc    *Service
}

func setup(t *testing.T) fixture {
	conn := dbtest.Open(t)
	rs := roster.NewService(roster.NewStore(conn), nil)
	svc := NewService(conn, db.SQLite, rs, nil).WithClock(clock.Fixed(now))
	return fixture{conn: conn, roster: rs, svc: svc}
}

func (f fixture) person(t *testing.T, name string) roster.Person {
	t.Helper()
	p, err := f.roster.Create(context.Background(), roster.CreatePersonRequest{Name: name, Part: "ALTO", Lifecycle: roster.Active})
	require.NoError(t, err)
	return p
}

func (f fixture) count(t *testing.T, personID string) int {
	t.Helper()
	var n int
	require.NoError(t, f.conn.QueryRow(`SELECT COUNT(*) FROM attendances WHERE person_id = ?`, personID).Scan(&n))
	return n
}

func ptr(s string) *string { return &s }

func TestUpsertOneRecordPerDay(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.person(t, "Kim")

	// 書き込み経路ごとに時刻が違っても同じ日は1件
	midnight := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	noon := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	late := time.Date(2026, 2, 1, 23, 59, 59, 0, time.UTC)

	rec, created, err := f.svc.Upsert(ctx, p.ID, midnight, status.Present, now)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "2026-02-01", rec.AttendedOn)

	rec, created, err = f.svc.Upsert(ctx, p.ID, noon, status.Late, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, status.Late, rec.Status)
	assert.Equal(t, now.Add(time.Minute), rec.CheckedAt)

	_, _, err = f.svc.Upsert(ctx, p.ID, late, status.Absent, now)
	require.NoError(t, err)

	assert.Equal(t, 1, f.count(t, p.ID))
	got, err := f.svc.FindForPeriod(ctx, []string{p.ID}, midnight, midnight)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, status.Absent, got[0].Status)
}

func TestUpsertSameStatusKeepsCheckedAt(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.person(t, "Kim")
	day := time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC)

	_, _, err := f.svc.Upsert(ctx, p.ID, day, status.Present, now)
	require.NoError(t, err)

	rec, created, err := f.svc.Upsert(ctx, p.ID, day, status.Present, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, now, rec.CheckedAt)

	rec, _, err = f.svc.Upsert(ctx, p.ID, day, status.Late, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, now.Add(2*time.Hour), rec.CheckedAt)
}

func TestUpsertRejectsUnknownPersonAndStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, _, err := f.svc.Upsert(ctx, "01J0000000000000000000000X", now, status.Present, now)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))

	p := f.person(t, "Lee")
	_, _, err = f.svc.Upsert(ctx, p.ID, now, status.Status("MAYBE"), now)
	assert.True(t, apierr.IsCode(err, apierr.CodeInvalidArgument))
	assert.Equal(t, 0, f.count(t, p.ID))
}

func TestToggleCycleLeavesNoRows(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.person(t, "Park")

	_, err := f.svc.Toggle(ctx, ToggleRequest{PersonID: p.ID, Date: "2026-02-01"})
	require.NoError(t, err)
	assert.Equal(t, 0, f.count(t, p.ID))

	res, err := f.svc.Toggle(ctx, ToggleRequest{PersonID: p.ID, Date: "2026-02-01", Status: ptr("PRESENT")})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, status.Present, res.Status)
	assert.Equal(t, now, res.CheckedAt)

	res, err = f.svc.Toggle(ctx, ToggleRequest{PersonID: p.ID, Date: "2026-02-01", Status: ptr("absent")})
	require.NoError(t, err)
	assert.Equal(t, status.Absent, res.Status)
	assert.Equal(t, 1, f.count(t, p.ID))

	res, err = f.svc.Toggle(ctx, ToggleRequest{PersonID: p.ID, Date: "2026-02-01", Status: nil})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 0, f.count(t, p.ID))

	// 消す対象が無くてもエラーにならない
	require.NoError(t, f.svc.Clear(ctx, p.ID, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestToggleValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.person(t, "Choi")

	_, err := f.svc.Toggle(ctx, ToggleRequest{Date: "2026-02-01", Status: ptr("PRESENT")})
	assert.True(t, apierr.IsCode(err, apierr.CodeInvalidArgument))

	_, err = f.svc.Toggle(ctx, ToggleRequest{PersonID: p.ID, Date: "2026/02/01", Status: ptr("PRESENT")})
	assert.True(t, apierr.IsCode(err, apierr.CodeInvalidArgument))

	_, err = f.svc.Toggle(ctx, ToggleRequest{PersonID: p.ID, Date: "2026-02-01", Status: ptr("출석")})
	assert.True(t, apierr.IsCode(err, apierr.CodeInvalidArgument))

	res, err := f.svc.Toggle(ctx, ToggleRequest{PersonID: p.ID, Date: "today", Status: ptr("LATE")})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-08", res.AttendedOn)
}

func TestFindForPeriodInclusive(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.person(t, "A")
	b := f.person(t, "B")

	for _, d := range []int{1, 7, 8, 14} {
		day := time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC)
		_, _, err := f.svc.Upsert(ctx, a.ID, day, status.Present, now)
		require.NoError(t, err)
		_, _, err = f.svc.Upsert(ctx, b.ID, day, status.Late, now)
		require.NoError(t, err)
	}

	from := time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	got, err := f.svc.FindForPeriod(ctx, []string{a.ID}, from, to)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2026-02-07", got[0].AttendedOn)
	assert.Equal(t, "2026-02-14", got[2].AttendedOn)
	assert.Equal(t, time.Saturday, got[0].Day().Weekday())

	got, err = f.svc.FindForPeriod(ctx, nil, from, to)
	require.NoError(t, err)
	assert.Len(t, got, 6)

	got, err = f.svc.FindForPeriod(ctx, []string{}, from, to)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.person(t, "A")
	for _, d := range []int{1, 7, 8} {
		_, _, err := f.svc.Upsert(ctx, a.ID, time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC), status.Present, now)
		require.NoError(t, err)
	}

	items, total, err := f.svc.List(ctx, ListQuery{PersonID: &a.ID, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "2026-02-08", items[0].AttendedOn)

	items, total, err = f.svc.List(ctx, ListQuery{On: ptr("2026-02-07")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "2026-02-07", items[0].AttendedOn)

	_, _, err = f.svc.List(ctx, ListQuery{From: ptr("Feb 1")})
	assert.True(t, apierr.IsCode(err, apierr.CodeInvalidArgument))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay(" 2026-02-01 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"2026-2-1", "2026/02/01", "20260201", "2026-02-30", "2026-02-01-01", ""} {
		_, err := ParseDay(bad)
		assert.Error(t, err, bad)
	}
}
