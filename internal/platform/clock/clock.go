package clock

import "time"

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real: 実時刻
func Real() Clock { return realClock{} }

// Fixed: テスト用の固定時刻
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }
