package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestServiceDaysFebruary2026(t *testing.T) {
	start, end := MonthRange(2026, time.February, time.UTC)
	days := ServiceDays(start, end)
	require.Len(t, days, 8)

	sat, sun := Split(days)
	assert.Equal(t, 4, sat)
	assert.Equal(t, 4, sun)

	assert.Equal(t, date(2026, 2, 1), days[0]) // Sunday
	assert.Equal(t, date(2026, 2, 28), days[7]) // Saturday
}

func TestServiceDaysProperties(t *testing.T) {
	ranges := [][2]time.Time{
		{date(2025, 12, 15), date(2026, 3, 3)},
		{date(2024, 2, 1), date(2024, 2, 29)},
		{date(2026, 1, 1), date(2026, 12, 31)},
	}
	for _, r := range ranges {
		days := ServiceDays(r[0], r[1])
		for i, d := range days {
			assert.True(t, IsServiceDay(d), d)
			assert.False(t, d.Before(r[0]) || d.After(r[1]), d)
			if i > 0 {
				assert.True(t, days[i-1].Before(d), "ascending without duplicates")
			}
		}
		// 範囲内の土日を漏れなく含む
		want := 0
		for d := r[0]; !d.After(r[1]); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				want++
			}
		}
		assert.Len(t, days, want)
	}
}

func TestServiceDaysEdges(t *testing.T) {
	assert.Empty(t, ServiceDays(date(2026, 2, 10), date(2026, 2, 1)))
	assert.Empty(t, ServiceDays(date(2026, 2, 2), date(2026, 2, 6))) // Mon-Fri

	// 時刻付きでも日付で判定する（正午正規化の書き込み経路）
	noon := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	days := ServiceDays(noon, noon)
	require.Len(t, days, 1)
	assert.Equal(t, date(2026, 2, 7), days[0])
}

func TestBucketOf(t *testing.T) {
	assert.Equal(t, Saturday, BucketOf(date(2026, 2, 7)))
	assert.Equal(t, Sunday, BucketOf(date(2026, 2, 8)))
	assert.Equal(t, Other, BucketOf(date(2026, 2, 9)))
	assert.Equal(t, "SUNDAY", Sunday.String())
}

func TestRanges(t *testing.T) {
	s, e := MonthRange(2024, time.February, time.UTC)
	assert.Equal(t, date(2024, 2, 1), s)
	assert.Equal(t, date(2024, 2, 29), e)

	s, e = WeekRange(time.Date(2026, 2, 2, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, date(2026, 2, 2), s)
	assert.Equal(t, date(2026, 2, 8), e)

	s, e = YearRange(2026, time.UTC)
	assert.Equal(t, date(2026, 1, 1), s)
	assert.Equal(t, date(2026, 12, 31), e)

	assert.True(t, SameDay(date(2026, 2, 1), time.Date(2026, 2, 1, 23, 59, 0, 0, time.UTC)))
}
