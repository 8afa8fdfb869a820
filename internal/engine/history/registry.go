package history

import "sort"

// Registry owns one Cache per scope for the lifetime of a session.
// Scopes are opaque strings, typically a filter key.
type Registry[T any] struct {
	scopes map[string]*Cache[T]
}

// NewRegistry creates an empty Registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{scopes: make(map[string]*Cache[T])}
}

// Scope returns the Cache for scope, creating it on first use.
func (r *Registry[T]) Scope(scope string) *Cache[T] {
	c, ok := r.scopes[scope]
	if !ok {
		c = NewCache[T]()
		r.scopes[scope] = c
	}
	return c
}

// Scopes returns the known scope names in sorted order.
func (r *Registry[T]) Scopes() []string {
	names := make([]string, 0, len(r.scopes))
	for name := range r.scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear drops every scope. Called when the session ends (sign-out).
func (r *Registry[T]) Clear() {
	r.scopes = make(map[string]*Cache[T])
}
