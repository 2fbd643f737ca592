package dataflow

import (
	"log"
	"strings"

	"golang.org/x/tools/container/intsets"
)

// BitVec is a fixed-length bit-vector. All flow sets over a function's
// tracked symbols are BitVecs of the same length, addressed by dense
// symbol index. Out-of-range access is a compiler bug.
type BitVec struct {
	n    int
	bits intsets.Sparse
}

func NewBitVec(n int) *BitVec {
	return &BitVec{n: n}
}

// NewFlowSet creates one bit-vector of length n per basic block.
func NewFlowSet(blocks, n int) []*BitVec {
	set := make([]*BitVec, blocks)
	for i := range set {
		set[i] = NewBitVec(n)
	}
	return set
}

func (v *BitVec) check(i int) {
	if i < 0 || i >= v.n {
		log.Fatalf("internal error: bit index %d out of range [0, %d)", i, v.n)
	}
}

func (v *BitVec) Len() int   { return v.n }
func (v *BitVec) Count() int { return v.bits.Len() }

func (v *BitVec) Get(i int) bool {
	v.check(i)
	return v.bits.Has(i)
}

func (v *BitVec) Set(i int) {
	v.check(i)
	v.bits.Insert(i)
}

func (v *BitVec) Clear(i int) {
	v.check(i)
	v.bits.Remove(i)
}

// SetAll sets every bit in [0, n).
func (v *BitVec) SetAll() {
	for i := 0; i < v.n; i++ {
		v.bits.Insert(i)
	}
}

func (v *BitVec) Empty() bool { return v.bits.IsEmpty() }

func (v *BitVec) sameLength(o *BitVec) {
	if v.n != o.n {
		log.Fatalf("internal error: bit-vector length mismatch %d vs %d", v.n, o.n)
	}
}

func (v *BitVec) UnionWith(o *BitVec) {
	v.sameLength(o)
	v.bits.UnionWith(&o.bits)
}

func (v *BitVec) IntersectWith(o *BitVec) {
	v.sameLength(o)
	v.bits.IntersectionWith(&o.bits)
}

func (v *BitVec) DiffWith(o *BitVec) {
	v.sameLength(o)
	v.bits.DifferenceWith(&o.bits)
}

func (v *BitVec) Copy() *BitVec {
	c := NewBitVec(v.n)
	c.bits.Copy(&v.bits)
	return c
}

func (v *BitVec) Equal(o *BitVec) bool {
	return v.n == o.n && v.bits.Equals(&o.bits)
}

// ForEach visits the set bits in increasing index order.
func (v *BitVec) ForEach(do func(i int)) {
	for _, i := range v.bits.AppendTo(nil) {
		do(i)
	}
}

// String renders the vector as a 0/1 string, lowest index first.
func (v *BitVec) String() string {
	var sb strings.Builder
	for i := 0; i < v.n; i++ {
		if v.bits.Has(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
