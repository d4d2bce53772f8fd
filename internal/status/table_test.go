package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestNormalizeDefaultTokens(t *testing.T) {
	tbl := Default()
	tests := []struct {
		raw  string
		want Status
	}{
		{"출석", Present},
		{" O ", Present},
		{"1", Present},
		{"Present", Present},
		{"지각", Late},
		{"L", Late},
		{"결석", Absent},
		{"x", Absent},
		{"0", Absent},
		{"ABSENT", Absent},
		{"Ｏ", Present}, // 全角
		{"１", Present}, // 全角数字
	}
	for _, tt := range tests {
		got, ok := tbl.Normalize(tt.raw)
		assert.True(t, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestNormalizeDecomposedHangul(t *testing.T) {
	nfd := norm.NFD.String("결석")
	require.NotEqual(t, "결석", nfd)
	got, ok := Default().Normalize(nfd)
	assert.True(t, ok)
	assert.Equal(t, Absent, got)
}

func TestNormalizeUnrecognized(t *testing.T) {
	tbl := Default()
	for _, raw := range []string{"", "   ", "maybe", "2", "병가"} {
		st, ok := tbl.Normalize(raw)
		assert.False(t, ok, raw)
		assert.Empty(t, st, raw)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	tbl := Default()
	for _, st := range All {
		got, ok := tbl.Normalize(string(st))
		require.True(t, ok)
		assert.Equal(t, st, got)
	}
}

func TestAddAndEntries(t *testing.T) {
	tbl := Default()
	require.NoError(t, tbl.Add(Late, "늦음"))
	st, ok := tbl.Normalize("늦음")
	assert.True(t, ok)
	assert.Equal(t, Late, st)

	assert.Error(t, tbl.Add(Absent, "늦음"))
	assert.Error(t, tbl.Add("MAYBE", "m"))
	assert.Error(t, tbl.Add(Present, "  "))

	found := false
	for _, e := range tbl.Entries() {
		if e.Token == "늦음" {
			found = e.Status == Late
		}
	}
	assert.True(t, found)
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tokens.yaml")
	require.NoError(t, os.WriteFile(p, []byte("present: [참여]\nABSENT: [빠짐]\n"), 0o644))

	tbl, err := LoadFile(p)
	require.NoError(t, err)

	st, ok := tbl.Normalize("참여")
	assert.True(t, ok)
	assert.Equal(t, Present, st)
	st, _ = tbl.Normalize("빠짐")
	assert.Equal(t, Absent, st)

	// 既定表も残っている
	st, _ = tbl.Normalize("지각")
	assert.Equal(t, Late, st)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	st, err := Parse(" late ")
	require.NoError(t, err)
	assert.Equal(t, Late, st)
	_, err = Parse("출석")
	assert.Error(t, err)
	assert.True(t, Present.Attended())
	assert.True(t, Late.Attended())
	assert.False(t, Absent.Attended())
}
