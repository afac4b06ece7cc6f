// Package goadapt provides a runtime object adapter for Go.
//
// Given a target interface and two existing objects (an adapter and an
// adaptee) it builds a dispatch handler that routes every invoked
// operation to whichever of the adapter, the adaptee, or the target's own
// registered default bodies can satisfy it, with fixed precedence
// (adapter, then adaptee, then defaults) and a construction-time
// completeness check that refuses to build a handler the target cannot be
// fully served by.
//
// The repository is organized as:
//
//   - adapter: the core library (signature keys, method maps, defaults
//     registry, handler construction and dispatch)
//   - cmd/adaptgen: code generator emitting the concrete router type that
//     implements a target interface and forwards each call to a Handler
//   - examples/*: runnable end-to-end demos
//
// Start with the adapter package docs and examples/stack for end-to-end
// usage.
package goadapt
