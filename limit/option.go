package limit

import "github.com/jonwraymond/retrier/tracer"

// Option configures a gate.
type Option func(*options)

type options struct {
	tracer tracer.Tracer
}

// WithTracer sends the gate's diagnostics to t.
func WithTracer(t tracer.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

func applyOptions(component string, opts []Option) tracer.Source {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return tracer.NewSource(component, o.tracer)
}
