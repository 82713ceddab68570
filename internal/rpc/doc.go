// Package rpc implements the method registry and the per-message dispatcher.
//
// Methods are registered once at startup as descriptors pairing a name with
// positional parameter names and a typed handler; dispatch resolves the
// descriptor and binds params without reflection. The reserved
// subscribe_/unsubscribe_ method prefixes are intercepted ahead of registry
// lookup and routed to topic membership handling.
package rpc
