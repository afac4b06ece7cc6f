// Command adaptgen — generated routers for runtime object adapters
//
// adaptgen generates the proxy side of an object adapter: a concrete
// router type implementing a target interface, where every method
// forwards through an adapter.Handler. The handler resolves each call
// against the adapter, then the adaptee, then any registered default
// bodies; the router is what makes the result usable as a plain value
// of the target interface.
//
// Why codegen
//
// Go has no runtime facility for synthesizing an implementation of an
// arbitrary interface. Instead of asking callers to hand-write the
// forwarding boilerplate, adaptgen derives it from the interface
// declaration itself. The generated code is ordinary Go: readable,
// debuggable, and checked by the compiler against the interface it
// claims to implement.
//
// Usage
//
//	adaptgen -src ./services.go -iface Stack -out ./stack_router.gen.go
//
// Flags:
//
//   - -src        Go file declaring the target interface (required)
//   - -iface      name of the target interface (required)
//   - -out        output path for the generated file (required)
//   - -router     name of the generated type (default <Iface>Router)
//   - -handlerpkg import path of the adapter package (rarely needed)
//
// Typical go:generate usage, placed in the owner Go file:
//
//	//go:generate go run ../../cmd/adaptgen -src ./services.go -iface Stack -out ./stack_router.gen.go
//
// What gets generated
//
//   - type <Iface>Router struct{ h *adapter.Handler[<Iface>] }
//   - New<Iface>Router(h) <Iface>
//   - a compile-time assertion that the router satisfies the interface
//   - one forwarding method per interface operation
//
// Forwarding methods call Handler.Call with the router itself as the
// proxy argument, so default bodies that call back into the target
// route through the handler again. Dispatch errors (unknown method,
// argument mismatch) panic: by the time a generated method runs, the
// handler has already validated coverage at construction, so these
// indicate a stale generated file rather than a recoverable condition.
// Results are unboxed with comma-ok assertions so a nil interface
// result becomes the zero value instead of a panic.
//
// Interface resolution
//
// The whole package directory of -src is parsed (tests and previously
// generated files excluded), so interfaces embedded from sibling files
// resolve. Embedding an interface from another package is rejected;
// declare a local interface listing the methods instead. Variadic
// parameters are forwarded as their slice bundle, which the handler
// spreads or passes through as the callee requires.
//
// See examples/stack for end-to-end usage.
package main
