package adapter

import (
	"go/token"
	"reflect"
)

// Scope selects which methods of a type participate in a MethodMap.
type Scope int

const (
	// FullSet includes the complete exported method set of the type,
	// promoted methods included.
	FullSet Scope = iota

	// DeclaredOnly excludes methods promoted from embedded fields. It is
	// used for the adapter's own map, so behavior the adapter merely
	// shares with the adaptee through a common embedded type does not
	// shadow the adaptee.
	//
	// Reflection cannot distinguish a method the outer type redeclares
	// with a signature identical to a promoted one from the promotion it
	// shadows; such a method is treated as promoted.
	DeclaredOnly
)

// MethodMap maps operation identity to an invocable method. Maps are
// built once per source type and never mutated afterwards.
type MethodMap map[Key]reflect.Method

// MethodMapOf enumerates the exported method set of t, keyed by
// signature. Go reflection only exposes exported methods, so the result
// is the type's public operation set.
//
// Key collisions resolve through insert's covariant tie-break. The Go
// compiler forbids same-name methods on a single type, so collisions
// cannot arise here; the rule is shared with the defaults registry,
// where they can.
func MethodMapOf(t reflect.Type, scope Scope) MethodMap {
	hasReceiver := t.Kind() != reflect.Interface
	var promoted map[Key]struct{}
	if scope == DeclaredOnly {
		promoted = promotedKeys(t)
	}

	mm := make(MethodMap, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		key := keyForMethod(m, hasReceiver)
		if _, ok := promoted[key]; ok {
			continue
		}
		mm.insert(key, m)
	}
	return mm
}

// insert stores m under key. On collision the candidate whose first
// return type is assignable to the other's (the narrower, more derived
// type) wins; when neither is assignable to the other, the later
// candidate wins. The fallback is deterministic given insertion order but
// not semantically meaningful, and callers should not rely on it beyond
// that.
func (mm MethodMap) insert(key Key, m reflect.Method) {
	prev, ok := mm[key]
	if !ok {
		mm[key] = m
		return
	}
	if narrowerReturn(prev.Type, m.Type) {
		return
	}
	mm[key] = m
}

// narrowerReturn reports whether func type a returns something at least
// as specific as func type b, i.e. a's first return type is assignable to
// b's. Two no-return funcs count as equally specific.
func narrowerReturn(a, b reflect.Type) bool {
	if a.NumOut() == 0 && b.NumOut() == 0 {
		return true
	}
	if a.NumOut() == 0 || b.NumOut() == 0 {
		return false
	}
	return a.Out(0).AssignableTo(b.Out(0))
}

// promotedKeys collects the signature keys contributed to t's method set
// by embedded fields.
func promotedKeys(t reflect.Type) map[Key]struct{} {
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil
	}

	keys := make(map[Key]struct{})
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.Anonymous {
			continue
		}
		collectMethodKeys(keys, f.Type)
		if f.Type.Kind() != reflect.Pointer && f.Type.Kind() != reflect.Interface {
			// Pointer-receiver methods of a value field promote too when
			// the outer type is addressed through a pointer.
			collectMethodKeys(keys, reflect.PointerTo(f.Type))
		}
	}
	return keys
}

func collectMethodKeys(into map[Key]struct{}, t reflect.Type) {
	hasReceiver := t.Kind() != reflect.Interface
	for i := 0; i < t.NumMethod(); i++ {
		into[keyForMethod(t.Method(i), hasReceiver)] = struct{}{}
	}
}

// checkExported verifies that a dynamic type (pointers dereferenced) is
// an exported named type. It runs for both the adaptee and the adapter
// before any method map is built.
func checkExported(role string, t reflect.Type) error {
	base := t
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Name() == "" || !token.IsExported(base.Name()) {
		return UnexportedTypeError{Role: role, Type: t}
	}
	return nil
}
