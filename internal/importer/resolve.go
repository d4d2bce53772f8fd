package importer

import (
	"fmt"
	"strings"

	"CHORUS-backend/internal/roster"
)

const (
	errNotFound  = "person not found"
	errAmbiguous = "ambiguous name, group mismatch"
)

// resolveError: 行エラーの本文。候補のパートを並べる。
type resolveError struct {
	msg   string
	parts []roster.Part
}

func (e *resolveError) Error() string {
	if len(e.parts) == 0 {
		return e.msg
	}
	labels := make([]string, 0, len(e.parts))
	for _, p := range e.parts {
		labels = append(labels, string(p))
	}
	return fmt.Sprintf("%s (candidates: %s)", e.msg, strings.Join(labels, ", "))
}

func partsOf(ps []roster.Person) []roster.Part {
	out := make([]roster.Part, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Part)
	}
	return out
}

func labelEquals(p roster.Part, hint string) bool {
	for _, l := range p.Labels() {
		if strings.EqualFold(l, hint) {
			return true
		}
	}
	return false
}

func labelHasPrefix(p roster.Part, hint string) bool {
	h := strings.ToLower(hint)
	for _, l := range p.Labels() {
		if strings.HasPrefix(strings.ToLower(l), h) {
			return true
		}
	}
	return false
}

func filter(ps []roster.Person, fn func(roster.Part) bool) []roster.Person {
	var out []roster.Person
	for _, p := range ps {
		if fn(p.Part) {
			out = append(out, p)
		}
	}
	return out
}

// resolveRowPerson: 行モード。同名が1人ならヒントは見ない。
// 複数ならヒントのパート表記に完全一致、無ければ（prefix モードのとき）前方一致で1人に絞る。
func resolveRowPerson(cands []roster.Person, hint string, mode MatchMode) (roster.Person, error) {
	switch len(cands) {
	case 0:
		return roster.Person{}, &resolveError{msg: errNotFound}
	case 1:
		return cands[0], nil
	}
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return roster.Person{}, &resolveError{msg: errAmbiguous, parts: partsOf(cands)}
	}
	hit := filter(cands, func(p roster.Part) bool { return labelEquals(p, hint) })
	if len(hit) == 0 && mode != MatchExact {
		hit = filter(cands, func(p roster.Part) bool { return labelHasPrefix(p, hint) })
	}
	if len(hit) != 1 {
		return roster.Person{}, &resolveError{msg: errAmbiguous, parts: partsOf(cands)}
	}
	return hit[0], nil
}

// resolveMatrixPerson: 表モード。行のパート値があれば完全一致で絞る（空なら絞らない）。
func resolveMatrixPerson(cands []roster.Person, part string) (roster.Person, error) {
	if len(cands) == 0 {
		return roster.Person{}, &resolveError{msg: errNotFound}
	}
	hit := cands
	if part = strings.TrimSpace(part); part != "" {
		hit = filter(cands, func(p roster.Part) bool { return labelEquals(p, part) })
	}
	if len(hit) != 1 {
		return roster.Person{}, &resolveError{msg: errAmbiguous, parts: partsOf(cands)}
	}
	return hit[0], nil
}
