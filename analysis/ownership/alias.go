package ownership

import (
	"log"

	uf "github.com/spakin/disjoint"

	"github.com/kestrel-lang/kestrel/ir"
)

// Registry maintains the equivalence classes of symbols known to share
// underlying heap data. Every tracked symbol starts in a singleton
// class; classes merge when a bit-wise copy is observed and only ever
// grow. All members of a class share one heap resource, so destroying
// any member releases it for all.
type Registry struct {
	elems   map[*ir.Symbol]*uf.Element
	members map[*uf.Element][]*ir.Symbol
}

func NewRegistry() *Registry {
	return &Registry{
		elems:   make(map[*ir.Symbol]*uf.Element),
		members: make(map[*uf.Element][]*ir.Symbol),
	}
}

// AddSingleton registers a tracked symbol in its own class.
func (r *Registry) AddSingleton(sym *ir.Symbol) {
	if _, dup := r.elems[sym]; dup {
		log.Fatalf("internal error: symbol %s registered twice", sym)
	}
	el := uf.NewElement()
	el.Data = sym
	r.elems[sym] = el
	r.members[el] = []*ir.Symbol{sym}
}

func (r *Registry) elem(sym *ir.Symbol) *uf.Element {
	el, ok := r.elems[sym]
	if !ok {
		log.Fatalf("internal error: alias lookup on untracked symbol %s", sym)
	}
	return el
}

// Merge unions the classes of a and b. Idempotent when the two symbols
// already share a class.
func (r *Registry) Merge(a, b *ir.Symbol) {
	ra, rb := r.elem(a).Find(), r.elem(b).Find()
	if ra == rb {
		return
	}
	la, lb := r.members[ra], r.members[rb]
	delete(r.members, ra)
	delete(r.members, rb)

	uf.Union(ra, rb)
	r.members[r.elem(a).Find()] = append(la, lb...)
}

// ClassOf returns the members of the class containing sym, reflecting
// all prior merges. The returned slice must not be mutated.
func (r *Registry) ClassOf(sym *ir.Symbol) []*ir.Symbol {
	return r.members[r.elem(sym).Find()]
}

// SameClass reports whether two symbols alias.
func (r *Registry) SameClass(a, b *ir.Symbol) bool {
	return r.elem(a).Find() == r.elem(b).Find()
}
