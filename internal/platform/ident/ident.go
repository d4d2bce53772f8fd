package ident

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type IDGen interface {
	New() (string, error)
}

// ULID: 時刻順に並ぶ ID。同一ミリ秒内でも単調増加させる。
type ULID struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULID() *ULID {
	return &ULID{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULID) New() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), g.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Valid: 26 文字の ULID として解釈できるか
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
