// Package registry collects verb registrations and process-wide run settings
// before dispatch begins.
//
// A Builder is populated during the configuration phase: each call to
// Register pairs an options type with a handler provider, stores a typed
// invocation closure for the pair, and registers the provider as a transient
// service in the dependency-injection container. Build freezes the Builder
// into a read-only Registry that the dispatcher consumes. Registration
// mistakes (duplicate verb names, empty names) are programmer errors and
// panic immediately.
package registry
