package dataflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BarrensZeppelin/classflow/internal/maps"
)

// SetFact is a plain set fact for may-analyses.
type SetFact[E comparable] struct {
	elems map[E]struct{}
}

func NewSetFact[E comparable]() *SetFact[E] {
	return &SetFact[E]{elems: make(map[E]struct{})}
}

func (f *SetFact[E]) Has(e E) bool {
	_, found := f.elems[e]
	return found
}

func (f *SetFact[E]) Add(e E) bool {
	if f.Has(e) {
		return false
	}
	f.elems[e] = struct{}{}
	return true
}

func (f *SetFact[E]) Remove(e E) bool {
	if !f.Has(e) {
		return false
	}
	delete(f.elems, e)
	return true
}

// UnionInto merges f into target; reports whether target grew.
func (f *SetFact[E]) UnionInto(target *SetFact[E]) bool {
	changed := false
	for e := range f.elems {
		changed = target.Add(e) || changed
	}
	return changed
}

func (f *SetFact[E]) Equals(other *SetFact[E]) bool {
	if len(f.elems) != len(other.elems) {
		return false
	}
	for e := range f.elems {
		if !other.Has(e) {
			return false
		}
	}
	return true
}

func (f *SetFact[E]) Len() int { return len(f.elems) }

func (f *SetFact[E]) Elems() []E { return maps.Keys(f.elems) }

func (f *SetFact[E]) Copy() *SetFact[E] {
	cp := NewSetFact[E]()
	f.UnionInto(cp)
	return cp
}

func (f *SetFact[E]) String() string {
	strs := make([]string, 0, len(f.elems))
	for e := range f.elems {
		strs = append(strs, fmt.Sprint(e))
	}
	sort.Strings(strs)
	return "{" + strings.Join(strs, ", ") + "}"
}
