// Package sioping provides the demo "sioping" verb: it connects to a
// Socket.IO server, emits an event, and waits for the server to echo one
// back, reporting round-trip health as the exit code.
package sioping

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/pflag"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/verbgo/ctxlog"
	"github.com/vk/verbgo/verb"
)

// Options is the argument shape of the sioping verb.
type Options struct {
	URL       string
	Namespace string
	Event     string
	Timeout   time.Duration
	Insecure  bool
}

// NewOptions returns the options with their defaults applied.
func NewOptions() *Options {
	return &Options{
		Namespace: "/",
		Event:     "ping",
		Timeout:   10 * time.Second,
	}
}

// Verb implements verb.Options.
func (o *Options) Verb() string { return "sioping" }

// BindFlags implements verb.Options.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.URL, "url", "u", o.URL, "Socket.IO server URL to probe.")
	fs.StringVar(&o.Namespace, "namespace", o.Namespace, "Socket.IO namespace to join.")
	fs.StringVar(&o.Event, "event", o.Event, "Event name to emit and await.")
	fs.DurationVar(&o.Timeout, "sio-timeout", o.Timeout, "How long to wait for the echoed event.")
	fs.BoolVar(&o.Insecure, "insecure", o.Insecure, "Skip TLS certificate verification.")
}

// Handler probes a Socket.IO server. Unreachable servers and timeouts are
// expected failures reported via the failure exit code, not fatal errors.
type Handler struct {
	codes verb.ExitCodes
}

// Run implements verb.Handler.
func (h *Handler) Run(ctx context.Context, opts *Options) (int, error) {
	logger := ctxlog.FromContext(ctx).With("verb", opts.Verb(), "url", opts.URL, "event", opts.Event)

	if opts.URL == "" {
		logger.Error("No server URL given, use --url.")
		return h.codes.Failure, nil
	}
	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		logger.Error("Invalid server URL.", "error", err)
		return h.codes.Failure, nil
	}

	opCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	sioOpts := socket.DefaultOptions()
	sioOpts.SetPath(parsedURL.Path)
	sioOpts.SetTransports(types.NewSet(transports.WebSocket))
	if opts.Insecure {
		logger.Warn("Skipping TLS certificate verification.")
		sioOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	var isConnected atomic.Bool
	done := make(chan error, 1)

	manager := socket.NewManager(baseURL, sioOpts)
	io := manager.Socket(opts.Namespace, sioOpts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	started := time.Now()
	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Connected, emitting event.", "namespace", opts.Namespace, "sid", io.Id())
		io.Emit(opts.Event, "verbgo")
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if err, ok := errs[0].(error); ok {
			done <- err
			return
		}
		done <- fmt.Errorf("connect error: %v", errs[0])
	})
	io.On(types.EventName(opts.Event), func(...any) {
		done <- nil
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			logger.Error("Timed out waiting for the echoed event.", "timeout", opts.Timeout)
		} else {
			logger.Error("Timed out waiting for the initial connection.", "timeout", opts.Timeout)
		}
		return h.codes.Failure, nil
	case err := <-done:
		if err != nil {
			logger.Error("Probe failed.", "error", err)
			return h.codes.Failure, nil
		}
		logger.Info("Round trip ok.", "rtt", time.Since(started))
		return h.codes.Success, nil
	}
}

// NewHandler is the container provider for the sioping verb's handler.
func NewHandler(i do.Injector) (verb.Handler[*Options], error) {
	codes, err := do.Invoke[verb.ExitCodes](i)
	if err != nil {
		codes = verb.DefaultExitCodes()
	}
	return &Handler{codes: codes}, nil
}
