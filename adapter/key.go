package adapter

import (
	"reflect"
	"strconv"
	"strings"
)

// Key is the structural identity of an operation: its name plus the
// ordered parameter type list. Return types and declaring types are
// deliberately excluded so that operations from unrelated types unify
// when they mean the same thing.
//
// Keys are immutable comparable values and are used purely as map keys;
// two keys are equal iff the names are identical and the parameter type
// sequences match element-wise in order and length.
//
// A variadic final parameter is identified by its slice type, so
// Push(vs ...int) and Push(vs []int) share identity.
type Key struct {
	name   string
	params string
}

// KeyFor builds a Key from an operation name and its parameter types in
// order.
func KeyFor(name string, params ...reflect.Type) Key {
	return Key{name: name, params: joinTypes(params)}
}

// keyForMethod builds the Key for a reflected method. Methods of concrete
// types carry the receiver as In(0); interface methods do not.
func keyForMethod(m reflect.Method, hasReceiver bool) Key {
	mt := m.Type
	start := 0
	if hasReceiver {
		start = 1
	}
	params := make([]reflect.Type, 0, mt.NumIn()-start)
	for i := start; i < mt.NumIn(); i++ {
		params = append(params, mt.In(i))
	}
	return KeyFor(m.Name, params...)
}

// keyForBody builds the Key for a registered default body: a func whose
// first parameter is the proxy receiver, which is not part of the
// operation's identity.
func keyForBody(name string, ft reflect.Type) Key {
	params := make([]reflect.Type, 0, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}
	return KeyFor(name, params...)
}

// Name returns the operation name part of the key.
func (k Key) Name() string { return k.name }

// String renders the key as "Name(path/to/pkg.T1, path/to/pkg.T2)", the
// form used in error messages. Named parameter types carry their full
// import path.
func (k Key) String() string {
	return k.name + "(" + k.params + ")"
}

// joinTypes canonicalizes a parameter type list. Two lists produce the
// same string iff they contain identical types in the same order.
func joinTypes(params []reflect.Type) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = typeName(p)
	}
	return strings.Join(names, ", ")
}

// typeName renders a canonical name for t. Named types are qualified by
// their full import path; unnamed composite types render structurally over
// their element types. reflect.Type.String is not used for identity: it
// shortens packages to their base name, so identically named types from
// identically named packages under different import paths would unify keys
// that must stay distinct.
func typeName(t reflect.Type) string {
	if t.Name() != "" {
		if pkg := t.PkgPath(); pkg != "" {
			return pkg + "." + t.Name()
		}
		// Predeclared types: int, string, error, ...
		return t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + typeName(t.Elem())
	case reflect.Slice:
		return "[]" + typeName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + typeName(t.Elem())
	case reflect.Map:
		return "map[" + typeName(t.Key()) + "]" + typeName(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + typeName(t.Elem())
		case reflect.SendDir:
			return "chan<- " + typeName(t.Elem())
		default:
			return "chan " + typeName(t.Elem())
		}
	case reflect.Func:
		return funcTypeName(t)
	case reflect.Struct:
		return structTypeName(t)
	case reflect.Interface:
		return interfaceTypeName(t)
	default:
		return t.String()
	}
}

func funcTypeName(t reflect.Type) string {
	var b strings.Builder
	b.WriteString("func(")
	for i := 0; i < t.NumIn(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if t.IsVariadic() && i == t.NumIn()-1 {
			b.WriteString("...")
			b.WriteString(typeName(t.In(i).Elem()))
			continue
		}
		b.WriteString(typeName(t.In(i)))
	}
	b.WriteString(")")
	switch t.NumOut() {
	case 0:
	case 1:
		b.WriteString(" ")
		b.WriteString(typeName(t.Out(0)))
	default:
		b.WriteString(" (")
		for i := 0; i < t.NumOut(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(typeName(t.Out(i)))
		}
		b.WriteString(")")
	}
	return b.String()
}

func structTypeName(t reflect.Type) string {
	if t.NumField() == 0 {
		return "struct {}"
	}
	var b strings.Builder
	b.WriteString("struct { ")
	for i := 0; i < t.NumField(); i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		f := t.Field(i)
		if !f.Anonymous {
			b.WriteString(f.Name)
			b.WriteString(" ")
		}
		b.WriteString(typeName(f.Type))
	}
	b.WriteString(" }")
	return b.String()
}

func interfaceTypeName(t reflect.Type) string {
	if t.NumMethod() == 0 {
		return "interface {}"
	}
	var b strings.Builder
	b.WriteString("interface { ")
	for i := 0; i < t.NumMethod(); i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		m := t.Method(i)
		b.WriteString(m.Name)
		b.WriteString(strings.TrimPrefix(funcTypeName(m.Type), "func"))
	}
	b.WriteString(" }")
	return b.String()
}
