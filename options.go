package pars

// createOptions holds the configured options after applying a number of
// CreateOption funcs. The four CreateParityWith* functions take these as
// trailing variadic options, so callers can override the output path
// without an extra positional argument.
type createOptions struct {
	outPath string
}

// CreateOption affects behavior when creating a parity file.
type CreateOption func(*createOptions)

// WithOutPath overrides the destination parity-file path. When omitted,
// the destination defaults to dataPath + ".pars".
func WithOutPath(path string) CreateOption {
	return func(o *createOptions) {
		o.outPath = path
	}
}

func applyCreateOptions(dataPath string, opts ...CreateOption) createOptions {
	o := createOptions{
		outPath: dataPath + ".pars",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
