package adapter

import "errors"

// Shared fixtures for the adapter tests. They live in the library package
// (test-only) so both internal and external test files can reach them
// under exported names.

// Greeter is the basic target capability set: three operations, one of
// which (Farewell) the adaptee does not cover.
type Greeter interface {
	Greet(name string) string
	Farewell(name string) string
	Silence()
}

// Phrasebook is the adaptee: covers Greet and Silence, not Farewell.
type Phrasebook struct {
	SilenceCalls int
}

func (p *Phrasebook) Greet(name string) string { return "hello " + name }

func (p *Phrasebook) Silence() { p.SilenceCalls++ }

// Courtesies is the adapter: gap-fills Farewell and overrides Greet with
// a distinguishable sentinel phrasing.
type Courtesies struct{}

func (Courtesies) Greet(name string) string { return "good day " + name }

func (Courtesies) Farewell(name string) string { return "goodbye " + name }

// Noop is an adapter/adaptee with no methods at all, for handlers where
// one side contributes nothing.
type Noop struct{}

// Flaky is the target for failure-transparency tests.
type Flaky interface {
	Fail() error
	Explode()
}

// ErrBoom is the sentinel failure raised by Grenade.Fail.
var ErrBoom = errors.New("boom")

// Grenade covers Flaky with a failing operation and a panicking one.
type Grenade struct{}

func (Grenade) Fail() error { return ErrBoom }

func (Grenade) Explode() { panic("kaboom") }

// Counter is the target for default-body tests; IsZero is covered only by
// a registered default.
type Counter interface {
	Inc()
	Value() int
	IsZero() bool
}

// Tally is the adaptee for Counter: covers Inc and Value.
type Tally struct{ n int }

func (t *Tally) Inc() { t.n++ }

func (t *Tally) Value() int { return t.n }

// Sharing is the target for declared-only scoping tests.
type Sharing interface {
	Shared() string
	Extra() string
}

// SharedBase is the common embedded type whose promoted method must not
// let an adapter shadow the adaptee.
type SharedBase struct{}

func (SharedBase) Shared() string { return "base" }

// ShareAdaptee declares Shared itself.
type ShareAdaptee struct{}

func (ShareAdaptee) Shared() string { return "adaptee" }

// ShareAdapter inherits Shared from SharedBase and declares only Extra.
type ShareAdapter struct {
	SharedBase
}

func (ShareAdapter) Extra() string { return "extra" }

// Joiner is the target for variadic dispatch tests.
type Joiner interface {
	Join(sep string, parts ...string) string
}

// VariadicJoin serves Join with a variadic method.
type VariadicJoin struct{}

func (VariadicJoin) Join(sep string, parts ...string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

// SliceJoin serves the same signature key with a plain slice parameter.
type SliceJoin struct{}

func (SliceJoin) Join(sep string, parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
