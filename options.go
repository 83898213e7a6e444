package namedtree

// Options configures unification, traversal and operator calls.
// The zero value is usable; unset fields are taken from DefaultOptions.
type Options struct {
	// Logger receives soft diagnostics. When nil, a text logger on stderr
	// at LogLevel is used.
	Logger   Logger
	LogLevel string // "error", "warn", "info", "debug" (default: "warn")

	// Identities overrides the diagnostic identities of the trees passed to
	// an operator. It must have one entry per tree.
	Identities []Identity

	// Cache is consulted by ExtractSpec before unifying. Optional.
	Cache *SpecCache

	// VerifyCachedSpec makes ExtractSpec recompute a spec it is about to
	// reuse from the first value and log any drift (default: false).
	VerifyCachedSpec bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		LogLevel:         "warn",
		VerifyCachedSpec: false,
	}
}

func resolveOptions(opts []Options) Options {
	opt := DefaultOptions()
	if len(opts) > 0 {
		o := opts[0]
		if o.LogLevel == "" {
			o.LogLevel = opt.LogLevel
		}
		opt = o
	}
	if opt.Logger == nil {
		opt.Logger = NewLogger(ParseLogLevel(opt.LogLevel), nil)
	}
	return opt
}
