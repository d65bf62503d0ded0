// Package cli is the dispatch entry point: it turns raw process arguments
// into an exit code. The Service parses arguments against every registered
// option shape, looks up the matching registration, resolves its handler
// from the container, and invokes it with the shared cancellation context.
// Recovered failures (bad arguments, help requests, resolution misses) are
// logged and mapped to the configured failure exit code; anything unexpected
// is logged at error level and returned to the caller.
package cli
