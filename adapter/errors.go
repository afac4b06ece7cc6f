package adapter

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrNilAdaptee is returned when a Handler is constructed with a nil
	// adaptee instance.
	ErrNilAdaptee = errors.New("adapter: nil adaptee instance")

	// ErrNilAdapter is returned when a Handler is constructed with a nil
	// adapter instance.
	ErrNilAdapter = errors.New("adapter: nil adapter instance")

	// ErrBodyNotFunc indicates a registered default body that is not a
	// non-nil func. Always wrapped in a DefaultBindError with the
	// operation name.
	ErrBodyNotFunc = errors.New("body is not a func")

	// ErrBodyNoProxy indicates a default body without the leading proxy
	// parameter that dispatch binds at call time.
	ErrBodyNoProxy = errors.New("body takes no proxy parameter")

	// ErrBodyBadProxy indicates a default body whose proxy parameter is
	// not an interface type the target satisfies, so no instance of the
	// target could ever be bound to it.
	ErrBodyBadProxy = errors.New("proxy parameter cannot accept the target")
)

// NotInterfaceError is returned when the target type parameter of New is
// not an interface type.
type NotInterfaceError struct{ Type reflect.Type }

// Error implements the error interface.
func (e NotInterfaceError) Error() string {
	// Example: adapter: target type main.Deque is not an interface
	return "adapter: target type " + e.Type.String() + " is not an interface"
}

// UnexportedTypeError is returned when the adaptee's or adapter's dynamic
// type is not an exported named type. The check runs before any method
// map is built.
type UnexportedTypeError struct {
	// Role is "adaptee" or "adapter".
	Role string

	// Type is the offending dynamic type.
	Type reflect.Type
}

// Error implements the error interface.
func (e UnexportedTypeError) Error() string {
	// Example: adapter: adaptee type *main.deque needs to be exported
	return "adapter: " + e.Role + " type " + e.Type.String() + " needs to be exported"
}

// DefaultBindError reports a registered default body that cannot be bound
// to instances of the target. It wraps the underlying reason (one of the
// ErrBody* sentinels).
type DefaultBindError struct {
	// Name is the operation name the body was registered under.
	Name string

	// Reason is the underlying bind failure.
	Reason error
}

// Error implements the error interface.
func (e DefaultBindError) Error() string {
	// Example: adapter: default body "Empty": body is not a func
	return "adapter: default body " + strconv.Quote(e.Name) + ": " + e.Reason.Error()
}

// Unwrap exposes the underlying bind failure to errors.Is / errors.As.
func (e DefaultBindError) Unwrap() error { return e.Reason }

// MissingMethodsError is returned when the target interface declares
// operations that neither the adapter, the adaptee, nor the registered
// defaults cover. A handler with uncovered operations is never
// constructible.
type MissingMethodsError struct {
	// Missing holds the uncovered signatures, sorted by rendered form.
	Missing []Key
}

// Error implements the error interface.
func (e MissingMethodsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, k := range e.Missing {
		names[i] = k.String()
	}
	// Example: adapter: target methods not implemented: [Pop(), Top()]
	return "adapter: target methods not implemented: [" + strings.Join(names, ", ") + "]"
}

// UnknownMethodError is returned by Call when the target interface does
// not declare a method with the requested name.
type UnknownMethodError struct{ Name string }

// Error implements the error interface.
func (e UnknownMethodError) Error() string {
	// Example: adapter: target has no method "Pop"
	return "adapter: target has no method " + strconv.Quote(e.Name)
}

// ArgumentCountError is returned by Call when the argument count does not
// match the target operation's parameter list.
type ArgumentCountError struct {
	Name string
	Want int
	Got  int
}

// Error implements the error interface.
func (e ArgumentCountError) Error() string {
	// Example: adapter: Push expects 1 argument(s), got 2
	return "adapter: " + e.Name + " expects " +
		strconv.Itoa(e.Want) + " argument(s), got " + strconv.Itoa(e.Got)
}

// ArgumentTypeError is returned by Call when an argument is not assignable
// to the corresponding parameter of the target operation.
type ArgumentTypeError struct {
	Name  string
	Index int
	Want  reflect.Type
	Got   reflect.Type
}

// Error implements the error interface.
func (e ArgumentTypeError) Error() string {
	// Example: adapter: Push argument 0 has wrong type (int, want string)
	return "adapter: " + e.Name + " argument " + strconv.Itoa(e.Index) +
		" has wrong type (" + e.Got.String() + ", want " + e.Want.String() + ")"
}

// MissingBindingError is returned when a dispatch lookup misses the
// adapter, adaptee, and default maps. That is unreachable for a correctly
// constructed Handler; it signals a violated invariant, not a normal
// error path.
type MissingBindingError struct{ Key Key }

// Error implements the error interface.
func (e MissingBindingError) Error() string {
	// Example: adapter: no binding for Pop()
	return "adapter: no binding for " + e.Key.String()
}
