package pta

import (
	"fmt"

	"golang.org/x/tools/container/intsets"
)

// PointsToSet is a growing set of abstract object identifiers, backed by a
// sparse bit set. The identifier space is owned by the heap model
// (context-insensitive) or the CS manager (context-sensitive).
type PointsToSet struct {
	bits intsets.Sparse
}

func (p *PointsToSet) Add(id int) bool { return p.bits.Insert(id) }

func (p *PointsToSet) Contains(id int) bool { return p.bits.Has(id) }

func (p *PointsToSet) IsEmpty() bool { return p.bits.IsEmpty() }

func (p *PointsToSet) Len() int { return p.bits.Len() }

// IDs returns the members in ascending order.
func (p *PointsToSet) IDs() []int { return p.bits.AppendTo(nil) }

// DiffInto sets p to other \ base; reports whether p is non-empty.
func (p *PointsToSet) DiffInto(other, base *PointsToSet) bool {
	p.bits.Difference(&other.bits, &base.bits)
	return !p.bits.IsEmpty()
}

// UnionWith merges other into p; reports whether p grew.
func (p *PointsToSet) UnionWith(other *PointsToSet) bool {
	return p.bits.UnionWith(&other.bits)
}

func (p *PointsToSet) String() string { return p.bits.String() }

// Singleton returns a fresh set containing only id.
func Singleton(id int) *PointsToSet {
	p := new(PointsToSet)
	p.Add(id)
	return p
}

// Pointer is a node of the pointer flow graph; each pointer owns one
// points-to set.
type Pointer interface {
	fmt.Stringer
	PointsToSet() *PointsToSet
}

type pointer struct {
	pts PointsToSet
}

func (p *pointer) PointsToSet() *PointsToSet { return &p.pts }

// WorklistEntry pairs a pointer with a set of objects to propagate into it.
// Entries may repeat a pointer; propagation subtracts what is already known,
// so processing is idempotent.
type WorklistEntry struct {
	Pointer Pointer
	PTS     *PointsToSet
}
