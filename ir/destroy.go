package ir

import (
	"log"

	"github.com/benbjohnson/immutable"
)

// DestroyMap maps each record type to its destructor function. It is
// built once per program and shared read-only by every pass invocation,
// so it is backed by an immutable map.
type DestroyMap struct {
	m *immutable.Map[*Type, *Fn]
}

// BuildDestroyMap scans the global function table for destructor-flagged
// functions and registers each under its receiver type, the type of its
// single parameter. A malformed or duplicate destructor is a compiler
// bug.
func BuildDestroyMap(prog *Program) DestroyMap {
	b := immutable.NewMapBuilder[*Type, *Fn](TypeHasher{})
	for _, fn := range prog.Funcs {
		if !fn.IsDestructor() {
			continue
		}
		if len(fn.Params) != 1 {
			log.Fatalf("internal error: destructor %s must take exactly one parameter", fn.Name)
		}
		typ := fn.Params[0].Type
		if !typ.IsRecord() {
			log.Fatalf("internal error: destructor %s takes non-record type %s", fn.Name, typ)
		}
		if _, dup := b.Get(typ); dup {
			log.Fatalf("internal error: duplicate destructor for type %s", typ)
		}
		b.Set(typ, fn)
	}
	return DestroyMap{m: b.Map()}
}

// Lookup returns the destructor for a type, or nil when the type has
// none registered.
func (d DestroyMap) Lookup(t *Type) *Fn {
	if d.m == nil {
		return nil
	}
	fn, _ := d.m.Get(t)
	return fn
}

// Len returns the number of registered destructors.
func (d DestroyMap) Len() int {
	if d.m == nil {
		return 0
	}
	return d.m.Len()
}
