// Package parse defines the argument-parsing collaborator used by the
// dispatcher: given raw arguments and the full set of registered option
// shapes, it selects the single shape that matches and returns it populated.
// The default implementation is FlagParser, built on spf13/pflag.
package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/verbgo/verb"
)

// Candidate pairs a registered verb name with a fresh, unpopulated options
// value for that verb.
type Candidate struct {
	Name    string
	Options verb.Options
}

// Match is a successful parse outcome: the verb whose shape accepted the
// arguments, and its options value populated from them.
type Match struct {
	Name    string
	Options verb.Options
}

// Parser selects at most one candidate whose shape matches the arguments.
type Parser interface {
	Parse(args []string, candidates []Candidate) (*Match, error)
}

// ErrHelp reports that the arguments were an explicit help request rather
// than a verb invocation.
var ErrHelp = errors.New("parse: help requested")

// NoMatchError reports that no registered shape accepted the arguments.
type NoMatchError struct {
	Args   []string
	Causes []string
}

// Error implements the error interface.
func (e *NoMatchError) Error() string {
	msg := fmt.Sprintf("no verb matches arguments %q", e.Args)
	if len(e.Causes) > 0 {
		msg += ": " + strings.Join(e.Causes, "; ")
	}
	return msg
}

// AmbiguousError reports that more than one registered shape accepted the
// arguments. This indicates overlapping option shapes, which is a
// configuration mistake rather than a user error.
type AmbiguousError struct {
	Verbs []string
}

// Error implements the error interface.
func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("arguments are ambiguous between verbs %s", strings.Join(e.Verbs, ", "))
}
