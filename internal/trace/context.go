package trace

import "context"

type ctxKey struct{}

// FromContext extracts the Tracer from context, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

type spanCtxKey struct{}

// CurrentSpan returns the active span ID, 0 at the root.
func CurrentSpan(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	if id, ok := ctx.Value(spanCtxKey{}).(uint64); ok {
		return id
	}
	return 0
}

// Start begins a span under the context's current span and returns a
// context carrying the new one.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	t := FromContext(ctx)
	span := Begin(t, scope, name, CurrentSpan(ctx))
	if !t.Enabled() {
		return span, ctx
	}
	return span, context.WithValue(ctx, spanCtxKey{}, span.ID())
}
