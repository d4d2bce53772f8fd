package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CHORUS-backend/internal/platform/apierr"
	"CHORUS-backend/internal/platform/clock"
	"CHORUS-backend/internal/platform/db/dbtest"
)

var t0 = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) *Service {
	conn := dbtest.Open(t)
	return NewService(NewStore(conn), nil).WithClock(clock.Fixed(t0))
}

func mustCreate(t *testing.T, s *Service, name, part string, lc Lifecycle) Person {
	t.Helper()
	p, err := s.Create(context.Background(), CreatePersonRequest{Name: name, Part: part, Lifecycle: lc})
	require.NoError(t, err)
	return p
}

func ids(ps []Person) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestPartAliases(t *testing.T) {
	assert.ElementsMatch(t, []Part{Soprano, SopranoB}, Soprano.Members())
	assert.Equal(t, []Part{SopranoB}, SopranoB.Members())
	assert.Equal(t, []Part{Alto}, Alto.Members())
	assert.Nil(t, Part("CONTRALTO").Members())
	assert.Equal(t, Soprano, SopranoB.Base())
	assert.NotContains(t, DisplayParts(), SopranoB)
	assert.Len(t, DisplayParts(), 6)
	assert.Len(t, Parts(), 7)

	p, ok := ParsePart("소프라노B")
	assert.True(t, ok)
	assert.Equal(t, SopranoB, p)
	p, ok = ParsePart(" alto ")
	assert.True(t, ok)
	assert.Equal(t, Alto, p)
	_, ok = ParsePart("Sop")
	assert.False(t, ok)

	assert.Equal(t, []Part{Soprano, Alto, "CHOIR_B"},
		FoldParts([]Part{SopranoB, Alto, Soprano, "CHOIR_B", Alto}))
	assert.Empty(t, FoldParts(nil))
}

func TestSegment(t *testing.T) {
	people := []Person{
		{ID: "a", Lifecycle: Active},
		{ID: "n", Lifecycle: New},
		{ID: "r", Lifecycle: Resting},
		{ID: "w", Lifecycle: Withdrawn},
	}
	seg := Segment(people)
	assert.Equal(t, []string{"a", "n"}, ids(seg.Active))
	assert.Equal(t, []string{"n"}, ids(seg.New))
	assert.Equal(t, []string{"r"}, ids(seg.Resting))
}

func TestCreateValidation(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreatePersonRequest{Name: " ", Part: "ALTO"})
	assert.True(t, apierr.IsCode(err, apierr.CodeInvalidArgument))

	_, err = s.Create(ctx, CreatePersonRequest{Name: "Kim", Part: "MEZZO"})
	assert.True(t, apierr.IsCode(err, apierr.CodeInvalidArgument))

	bad := "1990"
	_, err = s.Create(ctx, CreatePersonRequest{Name: "Kim", Part: "ALTO", BirthDate: &bad})
	assert.True(t, apierr.IsCode(err, apierr.CodeInvalidArgument))

	ok := "900101"
	p, err := s.Create(ctx, CreatePersonRequest{Name: " Kim ", Part: "알토", BirthDate: &ok})
	require.NoError(t, err)
	assert.Equal(t, "Kim", p.Name)
	assert.Equal(t, Alto, p.Part)
	assert.Equal(t, New, p.Lifecycle)
	assert.True(t, p.IsActive)
	assert.Equal(t, RoleMember, p.Role)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "900101", *got.BirthDate)
	assert.Equal(t, t0, got.CreatedAt)
	require.NotNil(t, got.LifecycleChangedAt)
}

func TestFindByPartActiveFoldsAlias(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	a := mustCreate(t, s, "A", "SOPRANO", Active)
	b := mustCreate(t, s, "B", "SOPRANO_B", Active)
	r := mustCreate(t, s, "R", "SOPRANO", Resting)
	w := mustCreate(t, s, "W", "SOPRANO", Withdrawn)
	mustCreate(t, s, "T", "TENOR", Active)

	got, err := s.FindByPartActive(ctx, Soprano)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID, r.ID}, ids(got))
	assert.NotContains(t, ids(got), w.ID)

	got, err = s.FindByPartActive(ctx, SopranoB)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, ids(got))

	got, err = s.FindByPartActive(ctx, Part("UNKNOWN"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindByNameExact(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	mustCreate(t, s, "Kim", "ALTO", Active)
	mustCreate(t, s, "Kim", "TENOR", Active)
	mustCreate(t, s, "Lee", "BASS", Active)

	got, err := s.FindByNameExact(ctx, "Kim")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.FindByNameExact(ctx, "Ki")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.FindByNameExact(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSetLifecycleKeepsActivationConsistent(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	p := mustCreate(t, s, "Park", "BASS", Active)

	later := t0.Add(72 * time.Hour)
	s.WithClock(clock.Fixed(later))

	got, err := s.SetLifecycle(ctx, p.ID, Withdrawn)
	require.NoError(t, err)
	assert.Equal(t, Withdrawn, got.Lifecycle)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.LifecycleChangedAt)
	assert.Equal(t, later, *got.LifecycleChangedAt)

	got, err = s.SetLifecycle(ctx, p.ID, Resting)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	_, err = s.SetLifecycle(ctx, p.ID, Lifecycle("GONE"))
	assert.True(t, apierr.IsCode(err, apierr.CodeInvalidArgument))

	_, err = s.SetLifecycle(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", Active)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}

func TestUpdateListDelete(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	p := mustCreate(t, s, "Choi", "ALTO", Active)
	mustCreate(t, s, "Jung", "SOPRANO_B", New)

	name := "Choi Y"
	part := "Soprano"
	leader := RolePartLeader
	up, err := s.Update(ctx, p.ID, UpdatePersonRequest{Name: &name, Part: &part, Role: &leader})
	require.NoError(t, err)
	assert.Equal(t, "Choi Y", up.Name)
	assert.Equal(t, Soprano, up.Part)

	sop := Soprano
	list, err := s.List(ctx, Filter{Part: &sop})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	newLC := New
	list, err = s.List(ctx, Filter{Lifecycle: &newLC})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = s.List(ctx, Filter{Role: &leader})
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, ids(list))

	require.NoError(t, s.Delete(ctx, p.ID))
	err = s.Delete(ctx, p.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
	_, err = s.Get(ctx, p.ID)
	assert.True(t, apierr.IsCode(err, apierr.CodeNotFound))
}
