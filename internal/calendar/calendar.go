// Package calendar は出欠率の分母になる「奉仕日」（土曜・日曜）を扱う。
// 入力の日付はすでに呼び出し側でローカル日付に正規化されている前提で、
// タイムゾーンの再解釈はしない。
package calendar

import "time"

type Bucket int

const (
	Other Bucket = iota
	Saturday
	Sunday
)

func (b Bucket) String() string {
	switch b {
	case Saturday:
		return "SATURDAY"
	case Sunday:
		return "SUNDAY"
	default:
		return "OTHER"
	}
}

// BucketOf: 土曜=練習、日曜=礼拝 の区分
func BucketOf(d time.Time) Bucket {
	switch d.Weekday() {
	case time.Saturday:
		return Saturday
	case time.Sunday:
		return Sunday
	default:
		return Other
	}
}

func IsServiceDay(d time.Time) bool { return BucketOf(d) != Other }

// Day: 時刻を落として同じ location の 0:00 にする
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ServiceDays: [start, end] の土日を昇順で返す（両端含む）。end < start なら空。
func ServiceDays(start, end time.Time) []time.Time {
	from, to := Day(start), Day(end.In(start.Location()))
	if to.Before(from) {
		return nil
	}
	var out []time.Time
	// AddDate で進めるので夏時間でも日付がずれない
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsServiceDay(d) {
			out = append(out, d)
		}
	}
	return out
}

// Split: 土曜・日曜の件数
func Split(days []time.Time) (sat, sun int) {
	for _, d := range days {
		switch BucketOf(d) {
		case Saturday:
			sat++
		case Sunday:
			sun++
		}
	}
	return sat, sun
}

// MonthRange: 月初〜月末
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, -1)
}

// WeekRange: start から 7 日間
func WeekRange(start time.Time) (time.Time, time.Time) {
	s := Day(start)
	return s, s.AddDate(0, 0, 6)
}

// YearRange: 1/1〜12/31
func YearRange(year int, loc *time.Location) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc), time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
}

// SameDay: 暦日として同じか
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
