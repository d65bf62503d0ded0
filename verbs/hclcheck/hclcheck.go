// Package hclcheck provides the demo "check" verb: it validates an HCL
// scenario file describing verb invocations, reporting syntax errors and
// non-constant argument expressions without executing anything.
package hclcheck

import (
	"context"
	"log/slog"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/samber/do/v2"
	"github.com/spf13/pflag"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/verbgo/ctxlog"
	"github.com/vk/verbgo/verb"
)

// Options is the argument shape of the check verb.
type Options struct {
	Grid string
}

// NewOptions returns the options with their defaults applied.
func NewOptions() *Options {
	return &Options{}
}

// Verb implements verb.Options.
func (o *Options) Verb() string { return "check" }

// BindFlags implements verb.Options.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Grid, "grid", "g", o.Grid, "Path to the HCL scenario file to validate.")
}

// scenario is the HCL schema of a scenario file: a sequence of named verb
// blocks whose bodies carry arbitrary argument attributes.
type scenario struct {
	Verbs []verbBlock `hcl:"verb,block"`
}

type verbBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Executor validates the scenario file named by the options.
type Executor struct{}

// Execute implements verb.Executor. It returns false for any validation
// finding; I/O and syntax problems are findings, not fatal errors.
func (e *Executor) Execute(ctx context.Context, opts *Options) (bool, error) {
	logger := ctxlog.FromContext(ctx)

	if opts.Grid == "" {
		logger.Error("No scenario file given, use --grid.")
		return false, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(opts.Grid)
	if diags.HasErrors() {
		logger.Error("Failed to parse scenario file.", "path", opts.Grid, "error", diags.Error())
		return false, nil
	}

	var cfg scenario
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		logger.Error("Failed to decode scenario file.", "path", opts.Grid, "error", diags.Error())
		return false, nil
	}

	ok := true
	for _, block := range cfg.Verbs {
		attrs, adiags := block.Body.JustAttributes()
		if adiags.HasErrors() {
			logger.Error("Invalid verb block.", "verb", block.Name, "error", adiags.Error())
			ok = false
			continue
		}
		for name, attr := range attrs {
			val, vdiags := attr.Expr.Value(nil)
			if vdiags.HasErrors() {
				logger.Error("Argument is not a constant expression.", "verb", block.Name, "argument", name, "error", vdiags.Error())
				ok = false
				continue
			}
			logger.Info("Argument ok.", "verb", block.Name, "argument", name, "type", typeName(val))
		}
	}

	if ok {
		logger.Info("Scenario file is valid.", "path", opts.Grid, "verbs", len(cfg.Verbs))
	}
	return ok, nil
}

func typeName(val cty.Value) string {
	if val.IsNull() {
		return "null"
	}
	return val.Type().FriendlyName()
}

// NewHandler is the container provider for the check verb's handler.
func NewHandler(i do.Injector) (verb.Handler[*Options], error) {
	codes, err := do.Invoke[verb.ExitCodes](i)
	if err != nil {
		codes = verb.DefaultExitCodes()
	}
	logger, _ := do.Invoke[*slog.Logger](i)
	return verb.NewBoolHandler[*Options](&Executor{}, codes, logger), nil
}
