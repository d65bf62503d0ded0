package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/vk/verbgo/cli"
	"github.com/vk/verbgo/parse"
	"github.com/vk/verbgo/registry"
	"github.com/vk/verbgo/signalctx"
	"github.com/vk/verbgo/verbs/hclcheck"
	"github.com/vk/verbgo/verbs/sioping"
	"github.com/vk/verbgo/verbs/wait"
)

// main is the entrypoint for the verbgo demo application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	code, err := run(os.Stdout, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(code)
}

// run encapsulates the application logic for easier testing and error
// handling. Registration panics on configuration mistakes, so we recover
// here to hand the caller a clean error instead.
func run(outW io.Writer, args []string) (code int, err error) {
	defer func() {
		if r := recover(); r != nil {
			code, err = 1, fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	logger := cli.NewLogger(os.Getenv("VERBGO_LOG_LEVEL"), os.Getenv("VERBGO_LOG_FORMAT"), os.Stderr)

	source := signalctx.New(context.Background())
	defer source.Stop()

	injector := do.New()
	do.ProvideValue(injector, logger)

	builder := registry.New(injector)
	registry.Register(builder, wait.NewOptions, wait.NewHandler)
	registry.Register(builder, hclcheck.NewOptions, hclcheck.NewHandler)
	registry.Register(builder, sioping.NewOptions, sioping.NewHandler)
	builder.SetCancellation(source.Context())

	service := cli.NewService(outW, builder.Build(), parse.NewFlagParser(), logger)
	return service.Run(args)
}
