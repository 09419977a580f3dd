//go:build js && wasm

// Package jsdom binds the dom interfaces to the live browser document
// through syscall/js.
//
// Element wrappers are identity-stable: the first wrap of a JS element
// stamps it with a numeric id and later wraps of the same node return the
// same *Element. Observers and one-shot trackers key on that identity.
//
// The package also provides the browser halves of the clock and pref
// abstractions (setTimeout/setInterval and localStorage) and a WebSocket
// subscriber for server-pushed toasts.
package jsdom
