package qpl

// options carries the per-call parse settings. Unlike a package-level
// toggle, one options value lives for exactly one Validate/Classify call,
// so two goroutines validating against different settings never interfere.
type options struct {
	withTypeChecking bool
}

// Option configures a single parse call.
type Option func(*options) error

func getDefaultOptions() options {
	return options{withTypeChecking: true}
}

func getOpts(opt ...Option) (options, error) {
	opts := getDefaultOptions()
	for _, o := range opt {
		if err := o(&opts); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// WithTypeChecking toggles whether comparisons in predicates must agree
// with the schema's declared column types. Defaults to enabled.
func WithTypeChecking(enabled bool) Option {
	return func(o *options) error {
		o.withTypeChecking = enabled
		return nil
	}
}
