package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/vk/verbgo/ctxlog"
	"github.com/vk/verbgo/parse"
	"github.com/vk/verbgo/registry"
)

// usager is implemented by parsers that can render usage text for a set of
// candidates. The default FlagParser implements it.
type usager interface {
	Usage(candidates []parse.Candidate) string
}

// Service dispatches one command line against a frozen registry.
type Service struct {
	out    io.Writer
	reg    *registry.Registry
	parser parse.Parser
	logger *slog.Logger
}

// NewService creates a dispatcher for the given registry. A nil parser
// falls back to parse.NewFlagParser(), a nil logger to slog.Default(), and
// a nil writer to os.Stderr.
func NewService(out io.Writer, reg *registry.Registry, parser parse.Parser, logger *slog.Logger) *Service {
	if out == nil {
		out = os.Stderr
	}
	if parser == nil {
		parser = parse.NewFlagParser()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{out: out, reg: reg, parser: parser, logger: logger}
}

// Run parses args, resolves the matching verb's handler, and invokes it.
// The returned code is the process exit code. A non-nil error means a fatal
// failure escaped the handler; recovered failures return the configured
// failure code with a nil error.
func (s *Service) Run(args []string) (int, error) {
	codes := s.reg.ExitCodes()
	ctx := ctxlog.WithLogger(s.reg.Cancellation(), s.logger)

	candidates := s.reg.Candidates()
	s.logger.Debug("Dispatching command line.", "args", args, "verbs", s.reg.Verbs())

	match, err := s.parser.Parse(args, candidates)
	if err != nil {
		if errors.Is(err, parse.ErrHelp) {
			s.writeUsage(candidates)
			s.logger.Warn("Help requested, exiting with failure code.")
			return codes.Failure, nil
		}
		s.logger.Warn("Argument parsing failed.", "error", err)
		return codes.Failure, nil
	}

	reg, ok := s.reg.Lookup(match.Name)
	if !ok {
		// The parser reported a verb the registry does not know. That is an
		// internal inconsistency, not user error.
		s.logger.Warn("Parser matched an unregistered verb.", "verb", match.Name)
		return codes.Failure, nil
	}
	s.logger.Debug("Verb matched.", "verb", match.Name)

	code, err := reg.Invoke(ctx, s.reg.Injector(), match.Options)
	if err != nil {
		var dispatchErr *registry.DispatchError
		if errors.As(err, &dispatchErr) {
			s.logger.Warn("Verb dispatch failed.", "verb", match.Name, "error", err)
			return codes.Failure, nil
		}
		s.logger.Error("Verb returned a fatal error.", "verb", match.Name, "error", err)
		return codes.Failure, err
	}

	s.logger.Debug("Verb completed.", "verb", match.Name, "exit_code", code)
	return code, nil
}

func (s *Service) writeUsage(candidates []parse.Candidate) {
	u, ok := s.parser.(usager)
	if !ok {
		return
	}
	fmt.Fprintf(s.out, "Usage, by verb:\n\n%s", u.Usage(candidates))
}

// Run is the one-call form: it creates a container and a builder, hands the
// builder to configure, and dispatches args against the result with default
// parser and logger.
func Run(out io.Writer, args []string, configure func(*registry.Builder)) (int, error) {
	injector := do.New()
	builder := registry.New(injector)
	configure(builder)
	return NewService(out, builder.Build(), nil, nil).Run(args)
}
