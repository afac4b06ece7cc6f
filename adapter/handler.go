package adapter

import (
	"reflect"
	"sort"
)

// Handler routes operations invoked on a target interface T to the
// adapter, the adaptee, or a registered default body, in that fixed
// order. It holds shared references to the adaptee and adapter; their
// lifecycle belongs to the caller.
//
// A Handler is immutable after construction, which makes dispatch safe
// for concurrent use without locking. Whether the adaptee and adapter
// themselves tolerate the caller's concurrency is the caller's
// responsibility, not the handler's.
type Handler[T any] struct {
	target reflect.Type

	adaptee reflect.Value
	adapter reflect.Value

	adapterMethods MethodMap
	adapteeMethods MethodMap
	defaultMethods MethodMap

	targetMethods map[string]reflect.Method
}

// New constructs a Handler for target interface T over an adaptee and an
// adapter, with no default bodies.
//
// Construction fails when:
//   - T is not an interface type (NotInterfaceError)
//   - adaptee or adapter is nil (ErrNilAdaptee, ErrNilAdapter)
//   - either dynamic type is not an exported named type
//     (UnexportedTypeError), checked before any method map is built
//   - T declares operations none of the layers cover
//     (MissingMethodsError, naming every uncovered signature)
//
// All failures are synchronous and construction-time only; a successfully
// constructed Handler is dispatch-complete.
func New[T any](adaptee, adapter any) (*Handler[T], error) {
	return NewWithDefaults[T](adaptee, adapter, nil)
}

// NewWithDefaults is New plus a registry of default bodies provided by
// the target itself. defaults may be nil. Bodies are validated here
// (DefaultBindError) before the completeness check runs.
func NewWithDefaults[T any](adaptee, adapter any, defaults *Defaults) (*Handler[T], error) {
	target := reflect.TypeOf((*T)(nil)).Elem()
	if target.Kind() != reflect.Interface {
		return nil, NotInterfaceError{Type: target}
	}
	if adaptee == nil {
		return nil, ErrNilAdaptee
	}
	if adapter == nil {
		return nil, ErrNilAdapter
	}
	if err := checkExported("adaptee", reflect.TypeOf(adaptee)); err != nil {
		return nil, err
	}
	if err := checkExported("adapter", reflect.TypeOf(adapter)); err != nil {
		return nil, err
	}

	h := &Handler[T]{
		target:  target,
		adaptee: reflect.ValueOf(adaptee),
		adapter: reflect.ValueOf(adapter),
	}

	// The adapter map is declared-only so shared embedded behavior does
	// not shadow the adaptee; the adaptee map is its full public set.
	h.adapterMethods = MethodMapOf(reflect.TypeOf(adapter), DeclaredOnly)
	h.adapteeMethods = MethodMapOf(reflect.TypeOf(adaptee), FullSet)

	if defaults != nil {
		dm, err := defaults.build(target)
		if err != nil {
			return nil, err
		}
		h.defaultMethods = dm
	} else {
		h.defaultMethods = MethodMap{}
	}

	h.targetMethods = make(map[string]reflect.Method, target.NumMethod())
	for i := 0; i < target.NumMethod(); i++ {
		m := target.Method(i)
		h.targetMethods[m.Name] = m
	}

	if err := h.checkTargetMethodsImplemented(); err != nil {
		return nil, err
	}
	return h, nil
}

// Target returns the target interface type T.
func (h *Handler[T]) Target() reflect.Type { return h.target }

// Method returns the target's method descriptor by name.
func (h *Handler[T]) Method(name string) (reflect.Method, bool) {
	m, ok := h.targetMethods[name]
	return m, ok
}

// Source identifies which layer serves an operation.
type Source int

const (
	// SourceNone means no layer covers the key. Unreachable for keys the
	// target declares.
	SourceNone Source = iota

	// SourceAdapter means the adapter's own declared method serves it.
	SourceAdapter

	// SourceAdaptee means the adaptee's method serves it.
	SourceAdaptee

	// SourceDefault means a registered default body serves it.
	SourceDefault
)

// String renders the source for logs and test output.
func (s Source) String() string {
	switch s {
	case SourceAdapter:
		return "adapter"
	case SourceAdaptee:
		return "adaptee"
	case SourceDefault:
		return "default"
	default:
		return "none"
	}
}

// Source reports which layer a key resolves to, following dispatch
// precedence. It is an introspection helper; dispatch itself does not use
// it.
func (h *Handler[T]) Source(key Key) Source {
	if _, ok := h.adapterMethods[key]; ok {
		return SourceAdapter
	}
	if _, ok := h.adapteeMethods[key]; ok {
		return SourceAdaptee
	}
	if _, ok := h.defaultMethods[key]; ok {
		return SourceDefault
	}
	return SourceNone
}

// Invoke routes a single call. method is the invoked operation as the
// target interface declares it (receiver-less), though a concrete
// method descriptor is accepted too; proxy is the object the router
// presents to callers and is only consulted when a default body serves
// the call, where it is bound as the body's receiver.
//
// Results are returned exactly as the serving operation produced them,
// trailing error values included; a panic in the operation body
// propagates to the caller unchanged. Dispatch itself never wraps.
//
// A MissingBindingError return means the lookup missed every layer, which
// is unreachable for a correctly constructed Handler and signals a
// violated invariant rather than a normal error path.
func (h *Handler[T]) Invoke(proxy T, method reflect.Method, args []reflect.Value) ([]reflect.Value, error) {
	key := keyForMethod(method, method.Func.IsValid())
	if m, ok := h.adapterMethods[key]; ok {
		return callWith(m, h.adapter, args), nil
	}
	if m, ok := h.adapteeMethods[key]; ok {
		return callWith(m, h.adaptee, args), nil
	}
	if m, ok := h.defaultMethods[key]; ok {
		receiver := reflect.ValueOf(proxy)
		if !receiver.IsValid() {
			receiver = reflect.Zero(h.target)
		}
		return callWith(m, receiver, args), nil
	}
	return nil, MissingBindingError{Key: key}
}

// Call resolves the target operation by name, boxes the arguments,
// dispatches, and unboxes the results. It is the entry point generated
// routers forward through.
//
// For a variadic operation the variadic arguments are passed individually
// and packed here; a single trailing slice assignable to the bundle
// parameter is taken as the bundle itself.
func (h *Handler[T]) Call(proxy T, name string, args ...any) ([]any, error) {
	method, ok := h.targetMethods[name]
	if !ok {
		return nil, UnknownMethodError{Name: name}
	}
	in, err := boxArgs(name, method.Type, args)
	if err != nil {
		return nil, err
	}
	out, err := h.Invoke(proxy, method, in)
	if err != nil {
		return nil, err
	}
	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, nil
}

// callWith invokes m with the receiver prepended. The variadic bundle
// always travels as a single slice argument, so a variadic operation can
// be served by a non-variadic slice-taking provider and vice versa.
func callWith(m reflect.Method, receiver reflect.Value, args []reflect.Value) []reflect.Value {
	in := make([]reflect.Value, 0, len(args)+1)
	in = append(in, receiver)
	in = append(in, args...)
	if m.Func.Type().IsVariadic() {
		return m.Func.CallSlice(in)
	}
	return m.Func.Call(in)
}

// boxArgs converts loosely typed arguments to the parameter types of the
// receiver-less method type mt, materializing typed zero values for nil
// arguments and packing a variadic tail into its slice parameter.
func boxArgs(name string, mt reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := mt.NumIn()
	if !mt.IsVariadic() {
		if len(args) != numIn {
			return nil, ArgumentCountError{Name: name, Want: numIn, Got: len(args)}
		}
		return boxFixed(name, mt, args, numIn)
	}

	fixed := numIn - 1
	if len(args) < fixed {
		return nil, ArgumentCountError{Name: name, Want: fixed, Got: len(args)}
	}

	bundleType := mt.In(fixed)
	if len(args) == numIn {
		if last := args[fixed]; last != nil && reflect.TypeOf(last).AssignableTo(bundleType) {
			return boxFixed(name, mt, args, numIn)
		}
	}

	in, err := boxFixed(name, mt, args[:fixed], fixed)
	if err != nil {
		return nil, err
	}
	bundle := reflect.MakeSlice(bundleType, 0, len(args)-fixed)
	elem := bundleType.Elem()
	for i, a := range args[fixed:] {
		v, err := boxOne(name, fixed+i, elem, a)
		if err != nil {
			return nil, err
		}
		bundle = reflect.Append(bundle, v)
	}
	return append(in, bundle), nil
}

func boxFixed(name string, mt reflect.Type, args []any, n int) ([]reflect.Value, error) {
	in := make([]reflect.Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := boxOne(name, i, mt.In(i), args[i])
		if err != nil {
			return nil, err
		}
		in = append(in, v)
	}
	return in, nil
}

func boxOne(name string, index int, want reflect.Type, arg any) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(want), nil
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(want) {
		return reflect.Value{}, ArgumentTypeError{Name: name, Index: index, Want: want, Got: v.Type()}
	}
	return v, nil
}

// checkTargetMethodsImplemented verifies every operation of the target is
// covered by at least one layer. Go interfaces carry no static methods,
// so nothing is excluded from the obligation.
func (h *Handler[T]) checkTargetMethodsImplemented() error {
	remaining := MethodMapOf(h.target, FullSet)
	for key := range h.adapterMethods {
		delete(remaining, key)
	}
	for key := range h.adapteeMethods {
		delete(remaining, key)
	}
	for key := range h.defaultMethods {
		delete(remaining, key)
	}
	if len(remaining) == 0 {
		return nil
	}

	missing := make([]Key, 0, len(remaining))
	for key := range remaining {
		missing = append(missing, key)
	}
	sort.Slice(missing, func(i, j int) bool {
		return missing[i].String() < missing[j].String()
	})
	return MissingMethodsError{Missing: missing}
}
