package qpl

import "github.com/qplang/qpl/cursor"

// ClassifyResult is the three-way outcome a partial or complete QPL string
// classifies to (spec section 4.8): Complete (a full, valid program),
// Partial (an invalid-but-still-extensible prefix), or Failure (provably
// never extensible to a valid program).
type ClassifyResult int

const (
	ResultComplete ClassifyResult = iota
	ResultPartial
	ResultFailure
)

func (r ClassifyResult) String() string {
	switch r {
	case ResultComplete:
		return "complete"
	case ResultPartial:
		return "partial"
	case ResultFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Classification is the full result of classifying one input string.
type Classification struct {
	Result  ClassifyResult
	Reason  string
	Program *Qpl
}

// Classify parses input against the schemas in registry, treating it as the
// complete input if complete is true, or as a possibly-truncated prefix (of
// a still-growing token stream) if false. The three-way result distinguishes
// a definitively invalid string from one that is merely incomplete so far.
func Classify(input string, complete bool, registry *SchemaRegistry, opt ...Option) Classification {
	opts, err := getOpts(opt...)
	if err != nil {
		return Classification{Result: ResultFailure, Reason: err.Error()}
	}

	c := cursor.New(input, complete)
	env := NewQplEnvironment()

	program, err := parsePrefixedQpl(registry, opts.withTypeChecking)(c, env)
	if err == nil {
		return Classification{Result: ResultComplete, Program: &program}
	}
	if cursor.IsIncomplete(err) {
		return Classification{Result: ResultPartial, Reason: "Partial result"}
	}
	return Classification{Result: ResultFailure, Reason: "Failed to parse"}
}

// Validate is the synchronous, always-complete classifier used by the
// /validate HTTP endpoint: a Partial result is reported as invalid, like a
// Failure, since there is no more input coming, but with the reason
// "Partial result" instead of "Failed to parse".
func Validate(input string, registry *SchemaRegistry, opt ...Option) (valid bool, reason string) {
	result := Classify(input, true, registry, opt...)
	switch result.Result {
	case ResultComplete:
		return true, ""
	case ResultPartial:
		return false, "Partial result"
	default:
		return false, "Failed to parse"
	}
}
