package registry

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/vk/verbgo/parse"
	"github.com/vk/verbgo/verb"
)

// DispatchError is a recovered dispatch failure: the handler could not be
// resolved from the container, or the parsed options value did not have the
// registered options type. The dispatcher converts it into the configured
// failure exit code instead of propagating it.
type DispatchError struct {
	Verb   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	msg := fmt.Sprintf("verb %q: %s", e.Verb, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *DispatchError) Unwrap() error { return e.Err }

// Registration pairs one verb name with the closures needed to produce a
// fresh options value and to invoke its handler. The invocation closure is
// built with the concrete types at registration time, so no runtime shape
// matching happens on the dispatch path.
type Registration struct {
	name       string
	newOptions func() verb.Options
	invoke     func(ctx context.Context, injector do.Injector, opts verb.Options) (int, error)
}

// Name returns the verb name of the registration.
func (r *Registration) Name() string { return r.name }

// NewOptions returns a fresh, unpopulated options value for the verb.
func (r *Registration) NewOptions() verb.Options { return r.newOptions() }

// Invoke resolves the verb's handler from the injector and runs it with the
// parsed options value. Resolution failures and options type mismatches are
// reported as a *DispatchError; any other error comes from the handler
// itself.
func (r *Registration) Invoke(ctx context.Context, injector do.Injector, opts verb.Options) (int, error) {
	return r.invoke(ctx, injector, opts)
}

// Builder is the append-only verb registry plus the process-wide run
// settings. It is written only during the configuration phase and frozen
// into a Registry before dispatch.
type Builder struct {
	injector do.Injector
	regs     []*Registration
	byName   map[string]*Registration
	codes    verb.ExitCodes
	cancel   context.Context
}

// New creates a Builder backed by the given container. Handler providers
// registered through Register are added to this container.
func New(injector do.Injector) *Builder {
	return &Builder{
		injector: injector,
		byName:   make(map[string]*Registration),
		codes:    verb.DefaultExitCodes(),
	}
}

// Injector returns the builder's container, so callers can provide shared
// services (a logger, typically) for handlers to resolve.
func (b *Builder) Injector() do.Injector { return b.injector }

// SetExitCodes overrides the success and failure exit codes.
func (b *Builder) SetExitCodes(success, failure int) *Builder {
	b.codes = verb.ExitCodes{Success: success, Failure: failure}
	return b
}

// SetCancellation sets the shared cancellation context handed to every
// handler. When unset, handlers receive a context that is never cancelled.
func (b *Builder) SetCancellation(ctx context.Context) *Builder {
	b.cancel = ctx
	return b
}

// Build freezes the builder into a read-only Registry and publishes the
// configured exit codes into the container so handlers can resolve them.
func (b *Builder) Build() *Registry {
	do.ProvideValue(b.injector, b.codes)
	return &Registry{
		injector: b.injector,
		regs:     b.regs,
		byName:   b.byName,
		codes:    b.codes,
		cancel:   b.cancel,
	}
}

// Register adds one verb registration to the builder: newOptions produces
// fresh options values for parsing, and provider constructs the handler. The
// provider is registered transiently in the container, so every dispatch
// resolves a new handler instance. Register panics if the verb name is empty
// or already registered. It returns the builder for chaining.
func Register[O verb.Options](b *Builder, newOptions func() O, provider func(do.Injector) (verb.Handler[O], error)) *Builder {
	proto := newOptions()
	name := proto.Verb()
	if name == "" {
		panic(fmt.Sprintf("registry: options type %T returned an empty verb name", proto))
	}
	if _, exists := b.byName[name]; exists {
		panic(fmt.Sprintf("registry: verb %q already registered", name))
	}

	service := serviceName(name)
	do.ProvideNamedTransient(b.injector, service, provider)

	reg := &Registration{
		name:       name,
		newOptions: func() verb.Options { return newOptions() },
		invoke: func(ctx context.Context, injector do.Injector, opts verb.Options) (int, error) {
			typed, ok := opts.(O)
			if !ok {
				return 0, &DispatchError{
					Verb:   name,
					Reason: fmt.Sprintf("options value has type %T, want %T", opts, proto),
				}
			}
			handler, err := do.InvokeNamed[verb.Handler[O]](injector, service)
			if err != nil {
				return 0, &DispatchError{Verb: name, Reason: "handler resolution failed", Err: err}
			}
			return handler.Run(ctx, typed)
		},
	}
	b.regs = append(b.regs, reg)
	b.byName[name] = reg
	return b
}

// serviceName namespaces a verb's handler service inside the container.
func serviceName(verbName string) string {
	return "verbgo.handler." + verbName
}

// Registry is the frozen, read-only view of a Builder that the dispatcher
// consumes. Exactly one Registry exists per invocation.
type Registry struct {
	injector do.Injector
	regs     []*Registration
	byName   map[string]*Registration
	codes    verb.ExitCodes
	cancel   context.Context
}

// Injector returns the container handlers are resolved from.
func (r *Registry) Injector() do.Injector { return r.injector }

// ExitCodes returns the configured exit codes.
func (r *Registry) ExitCodes() verb.ExitCodes { return r.codes }

// Cancellation returns the shared cancellation context, or a background
// context when none was configured.
func (r *Registry) Cancellation() context.Context {
	if r.cancel == nil {
		return context.Background()
	}
	return r.cancel
}

// Candidates returns one parse candidate per registration, in registration
// order, each carrying a fresh options value.
func (r *Registry) Candidates() []parse.Candidate {
	candidates := make([]parse.Candidate, len(r.regs))
	for i, reg := range r.regs {
		candidates[i] = parse.Candidate{Name: reg.name, Options: reg.newOptions()}
	}
	return candidates
}

// Lookup finds the registration owning the given verb name.
func (r *Registry) Lookup(name string) (*Registration, bool) {
	reg, ok := r.byName[name]
	return reg, ok
}

// Verbs returns the registered verb names in registration order.
func (r *Registry) Verbs() []string {
	names := make([]string, len(r.regs))
	for i, reg := range r.regs {
		names[i] = reg.name
	}
	return names
}
