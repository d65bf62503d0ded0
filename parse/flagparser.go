package parse

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// FlagParser is the default Parser. It builds one pflag.FlagSet per
// candidate and accepts the candidate whose flag set parses the full
// argument list with nothing left over. Candidates are tried in
// registration order.
type FlagParser struct{}

// NewFlagParser creates a new FlagParser.
func NewFlagParser() *FlagParser {
	return &FlagParser{}
}

// Parse implements Parser. A help flag anywhere in the arguments yields
// ErrHelp. Zero matching shapes yield a *NoMatchError; more than one yields
// an *AmbiguousError.
func (p *FlagParser) Parse(args []string, candidates []Candidate) (*Match, error) {
	var matches []*Match
	var causes []string

	for _, c := range candidates {
		fs := newFlagSet(c)
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				return nil, ErrHelp
			}
			causes = append(causes, fmt.Sprintf("%s: %v", c.Name, err))
			continue
		}
		if fs.NArg() > 0 {
			causes = append(causes, fmt.Sprintf("%s: unexpected argument %q", c.Name, fs.Arg(0)))
			continue
		}
		matches = append(matches, &Match{Name: c.Name, Options: c.Options})
	}

	switch len(matches) {
	case 0:
		return nil, &NoMatchError{Args: args, Causes: causes}
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, &AmbiguousError{Verbs: names}
	}
}

// Usage renders the flag usage of every candidate, one section per verb.
func (p *FlagParser) Usage(candidates []Candidate) string {
	var b strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&b, "%s:\n", c.Name)
		b.WriteString(newFlagSet(c).FlagUsages())
	}
	return b.String()
}

func newFlagSet(c Candidate) *pflag.FlagSet {
	fs := pflag.NewFlagSet(c.Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.Options.BindFlags(fs)
	return fs
}
