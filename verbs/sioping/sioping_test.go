package sioping

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vk/verbgo/ctxlog"
	"github.com/vk/verbgo/verb"
)

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	opts := NewOptions()
	require.Equal(t, "sioping", opts.Verb())
	require.Equal(t, "/", opts.Namespace)
	require.Equal(t, "ping", opts.Event)
	require.Equal(t, 10*time.Second, opts.Timeout)
	require.False(t, opts.Insecure)
}

func TestOptions_BindFlags(t *testing.T) {
	t.Parallel()

	opts := NewOptions()
	fs := pflag.NewFlagSet("sioping", pflag.ContinueOnError)
	opts.BindFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"-u", "https://example.com/socket.io",
		"--event", "echo",
		"--sio-timeout", "250ms",
		"--insecure",
	}))
	require.Equal(t, "https://example.com/socket.io", opts.URL)
	require.Equal(t, "echo", opts.Event)
	require.Equal(t, 250*time.Millisecond, opts.Timeout)
	require.True(t, opts.Insecure)
}

func TestRun_MissingURLIsExpectedFailure(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(buf, nil)))
	h := &Handler{codes: verb.DefaultExitCodes()}

	code, err := h.Run(ctx, NewOptions())

	require.NoError(t, err, "an unusable probe target is an expected failure")
	require.Equal(t, 1, code)
	require.Contains(t, buf.String(), "No server URL given")
}
