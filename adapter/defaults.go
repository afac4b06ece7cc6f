package adapter

import "reflect"

// Defaults is the registry of operations the target interface provides
// itself. Go interfaces carry no method bodies, so a target's author
// registers them explicitly; each body is a func whose first parameter is
// the proxy, bound at dispatch time the way a default interface method is
// bound to its instance. Bodies may call back into the proxy, which
// routes through the handler again.
//
// Expected usage:
//
//	defs := adapter.NewDefaults().
//		Provide("Empty", func(s Stack) bool { return s.Len() == 0 })
//
// Provide only records; validation happens when a Handler is constructed,
// so a misconfigured body is a construction-time failure, never a
// call-time one.
type Defaults struct {
	entries []defaultEntry
}

type defaultEntry struct {
	name string
	body any
}

// NewDefaults returns an empty registry. A target with no default bodies
// simply never gets one; the handler's default map stays empty.
func NewDefaults() *Defaults {
	return &Defaults{}
}

// Provide records a default body under an operation name and returns the
// registry for chaining.
func (d *Defaults) Provide(name string, body any) *Defaults {
	d.entries = append(d.entries, defaultEntry{name: name, body: body})
	return d
}

// Len reports how many bodies have been registered.
func (d *Defaults) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// build validates every registered body against the target interface and
// returns the invoker map. The operation key is the body's parameter list
// minus the proxy parameter; colliding keys resolve with the same
// covariant tie-break as method maps.
func (d *Defaults) build(target reflect.Type) (MethodMap, error) {
	mm := make(MethodMap, len(d.entries))
	for _, e := range d.entries {
		fn, err := checkBody(target, e.body)
		if err != nil {
			return nil, DefaultBindError{Name: e.name, Reason: err}
		}
		mm.insert(keyForBody(e.name, fn.Type()), reflect.Method{
			Name: e.name,
			Type: fn.Type(),
			Func: fn,
		})
	}
	return mm, nil
}

// checkBody verifies a default body can be bound to an arbitrary instance
// of the target: a non-nil func whose first parameter is an interface
// type the target satisfies.
func checkBody(target reflect.Type, body any) (reflect.Value, error) {
	fn := reflect.ValueOf(body)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return reflect.Value{}, ErrBodyNotFunc
	}
	ft := fn.Type()
	if ft.NumIn() == 0 {
		return reflect.Value{}, ErrBodyNoProxy
	}
	in0 := ft.In(0)
	if in0.Kind() != reflect.Interface || !target.Implements(in0) {
		return reflect.Value{}, ErrBodyBadProxy
	}
	return fn, nil
}
