// Package session holds per-connection state and the process-wide registry
// of live sessions and topic subscriber sets.
//
// Ownership: the transport layer owns each Session's lifecycle; the registry
// holds non-owning lookup references. Removing a session purges its id from
// every topic's subscriber set in the same critical section, so a concurrent
// broadcast pass never observes a dangling membership.
package session
