package jsonbourne

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

var (
	// DefaultPreference is the order in which backends are tried when a Lib
	// is created without WithPreference: SIMD first, then the compiled
	// encoder. The stdlib backend is the fallback when neither is present.
	DefaultPreference = []string{Sonic, GoJSON}

	// DefaultIndent is the indentation step used for pretty output.
	DefaultIndent = "  "
)

// libOptions holds Lib configuration (unexported)
type libOptions struct {
	registry       *Registry
	preference     []string
	logger         *slog.Logger
	metricsEnabled bool
	meterProvider  metric.MeterProvider
}

// Option option function for Lib configuration
type Option func(*libOptions)

// WithPreference sets the ordered list of backend names tried by New.
// An empty list selects the stdlib backend.
func WithPreference(names ...string) Option {
	return func(o *libOptions) {
		o.preference = names
	}
}

// WithBackend pins the Lib to a single backend, falling back to the
// stdlib backend when it is not usable.
func WithBackend(name string) Option {
	return func(o *libOptions) {
		o.preference = []string{name}
	}
}

// WithRegistry sets the backend registry. Defaults to the package registry
// that every compiled-in backend registers itself with.
func WithRegistry(r *Registry) Option {
	return func(o *libOptions) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithLogger sets the logger for the Lib
func WithLogger(l *slog.Logger) Option {
	return func(o *libOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics enable/disable OpenTelemetry metrics for the Lib
func WithMetrics(enabled bool) Option {
	return func(o *libOptions) {
		o.metricsEnabled = enabled
	}
}

// WithMeterProvider sets the meter provider used when metrics are enabled.
// Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *libOptions) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// newLibOptions creates options with defaults and applies provided options
func newLibOptions(opts ...Option) *libOptions {
	o := &libOptions{
		registry:   defaultRegistry,
		preference: DefaultPreference,
		logger:     slog.Default().With("component", "jsonbourne"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DefaultFunc converts a value with no native JSON representation into
// one that has. It must return an error for values it cannot handle.
type DefaultFunc func(v any) (any, error)

// EncodeOptions is the per-call encoding configuration handed to a Backend.
type EncodeOptions struct {
	Pretty        bool
	SortKeys      bool
	AppendNewline bool
	Default       DefaultFunc
}

// EncodeOption option function for Dumps/Dumpb
type EncodeOption func(*EncodeOptions)

// WithPretty selects the 2-space indented layout with ": " separators.
func WithPretty() EncodeOption {
	return func(o *EncodeOptions) {
		o.Pretty = true
	}
}

// WithSortKeys orders object keys lexicographically.
// Without it struct fields keep their declaration order. Go maps carry no
// insertion order, so map keys are always written sorted.
func WithSortKeys() EncodeOption {
	return func(o *EncodeOptions) {
		o.SortKeys = true
	}
}

// WithAppendNewline appends a single '\n' to the encoded output.
func WithAppendNewline() EncodeOption {
	return func(o *EncodeOptions) {
		o.AppendNewline = true
	}
}

// WithDefault replaces the shared default encoder for one call.
// Call DefaultEncode from fn to chain to the built-in conversions.
func WithDefault(fn DefaultFunc) EncodeOption {
	return func(o *EncodeOptions) {
		if fn != nil {
			o.Default = fn
		}
	}
}

func newEncodeOptions(opts ...EncodeOption) *EncodeOptions {
	o := &EncodeOptions{Default: DefaultEncode}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DecodeOptions is the per-call decoding configuration.
type DecodeOptions struct {
	// JSONC strips comments and trailing commas before decoding.
	JSONC bool
	// UseNumber decodes numbers as json.Number instead of float64.
	UseNumber bool
	// Lines treats the input as JSON Lines (one document per line).
	Lines bool
}

// DecodeOption option function for Loads
type DecodeOption func(*DecodeOptions)

// WithJSONC accepts JSON with // and /* */ comments and trailing commas.
func WithJSONC() DecodeOption {
	return func(o *DecodeOptions) {
		o.JSONC = true
	}
}

// WithUseNumber decodes numbers as json.Number.
func WithUseNumber() DecodeOption {
	return func(o *DecodeOptions) {
		o.UseNumber = true
	}
}

// WithLines reads JSON Lines / NDJSON input; the result is a []any.
func WithLines() DecodeOption {
	return func(o *DecodeOptions) {
		o.Lines = true
	}
}

func newDecodeOptions(opts ...DecodeOption) *DecodeOptions {
	o := &DecodeOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
