package rpc

import (
	"context"
	"fmt"
)

// HandlerFunc is a registered method implementation. Errors carrying a
// *protocol.Error are echoed with their code; anything else surfaces as an
// internal error.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Method is an immutable method descriptor: the positional parameter names
// (in declaration order) and the handler to invoke.
type Method struct {
	Params  []string
	Handler HandlerFunc
}

// Registry maps method names to descriptors and holds the set of
// subscription topics. It is populated at startup, before any connection is
// accepted, and never mutated afterwards, so lookups need no locking.
type Registry struct {
	methods     map[string]Method
	methodNames []string
	topics      map[string]struct{}
	topicNames  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		methods: make(map[string]Method),
		topics:  make(map[string]struct{}),
	}
}

// Register adds a method descriptor. Duplicate names are a configuration
// bug and panic.
func (r *Registry) Register(name string, m Method) {
	if _, exists := r.methods[name]; exists {
		panic(fmt.Sprintf("rpc: method %q registered twice", name))
	}
	r.methods[name] = m
	r.methodNames = append(r.methodNames, name)
}

// RegisterTopic declares a subscription topic.
func (r *Registry) RegisterTopic(name string) {
	if _, exists := r.topics[name]; exists {
		panic(fmt.Sprintf("rpc: topic %q registered twice", name))
	}
	r.topics[name] = struct{}{}
	r.topicNames = append(r.topicNames, name)
}

// Lookup resolves a method name.
func (r *Registry) Lookup(name string) (Method, bool) {
	m, ok := r.methods[name]
	return m, ok
}

// HasTopic reports whether a topic was registered.
func (r *Registry) HasTopic(name string) bool {
	_, ok := r.topics[name]
	return ok
}

// MethodNames returns registered method names in registration order.
func (r *Registry) MethodNames() []string {
	return append([]string(nil), r.methodNames...)
}

// TopicNames returns registered topic names in registration order.
func (r *Registry) TopicNames() []string {
	return append([]string(nil), r.topicNames...)
}
