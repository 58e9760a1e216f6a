package constprop

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BarrensZeppelin/classflow/ir"
)

// Fact maps variables to lattice values. Absent variables are UNDEF; the map
// never stores UNDEF explicitly, so plain map comparison decides equality.
type Fact struct {
	values map[*ir.Var]Value
}

func NewFact() *Fact {
	return &Fact{values: make(map[*ir.Var]Value)}
}

func (f *Fact) Get(v *ir.Var) Value { return f.values[v] }

// Update binds v to val; binding UNDEF removes the entry. Reports whether
// the fact changed.
func (f *Fact) Update(v *ir.Var, val Value) bool {
	old, present := f.values[v]
	if val.IsUndef() {
		delete(f.values, v)
		return present
	}
	f.values[v] = val
	return !present || old != val
}

func (f *Fact) Vars() []*ir.Var {
	vars := make([]*ir.Var, 0, len(f.values))
	for v := range f.values {
		vars = append(vars, v)
	}
	return vars
}

func (f *Fact) Len() int { return len(f.values) }

func (f *Fact) Copy() *Fact {
	cp := NewFact()
	for v, val := range f.values {
		cp.values[v] = val
	}
	return cp
}

func (f *Fact) copyFrom(other *Fact) {
	for v := range f.values {
		delete(f.values, v)
	}
	for v, val := range other.values {
		f.values[v] = val
	}
}

func (f *Fact) Equals(other *Fact) bool {
	if len(f.values) != len(other.values) {
		return false
	}
	for v, val := range f.values {
		if other.values[v] != val {
			return false
		}
	}
	return true
}

func (f *Fact) String() string {
	strs := make([]string, 0, len(f.values))
	for v, val := range f.values {
		strs = append(strs, fmt.Sprintf("%s=%s", v, val))
	}
	sort.Strings(strs)
	return "{" + strings.Join(strs, ", ") + "}"
}
