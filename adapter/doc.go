// Package adapter provides a runtime object adapter: a dispatch handler
// that makes an existing object (the adaptee) satisfy a target interface
// it was never written for, with a second object (the adapter) supplying
// overrides and gap-fills.
//
// Operations are matched across unrelated types by signature key: the
// operation name plus the ordered parameter type list, with return types
// and declaring types deliberately excluded. Resolution precedence is
// fixed and total:
//
//	adapter > adaptee > target-provided defaults
//
// so a caller can override adaptee behavior by handing in an adapter with
// a same-signature method, without touching the adaptee.
//
// Construction is fail-fast: a Handler refuses to build unless every
// operation the target interface declares is covered by at least one of
// the three layers. A successfully constructed Handler is therefore
// dispatch-complete, immutable, and safe for concurrent use.
//
// Go cannot synthesize an implementation of an arbitrary interface at
// runtime, so the proxy object itself is a thin router type that forwards
// every method to Handler.Call. Routers are mechanical; cmd/adaptgen
// generates them from the interface declaration.
//
// Expected usage:
//
//	h, err := adapter.New[Stack](deque, stackOps)
//	if err != nil {
//		// target not fully coverable, bad wiring, ...
//	}
//	var s Stack = NewStackRouter(h) // generated by adaptgen
package adapter
