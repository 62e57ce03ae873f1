package logging

import (
	"context"
	"sync"
)

type annotationsKey struct{}

// annotations collects fields for the request summary line. Handlers run
// deeper in the chain than the access logger, so they cannot hand it a
// derived context; they append here instead.
type annotations struct {
	mu   sync.Mutex
	args []any
}

// WithAnnotations returns a context that collects fields added by Annotate.
func WithAnnotations(ctx context.Context) context.Context {
	return context.WithValue(ctx, annotationsKey{}, &annotations{})
}

// Annotate adds key-value pairs to the current request's summary line.
// It does nothing on a context without WithAnnotations.
func Annotate(ctx context.Context, args ...any) {
	a, ok := ctx.Value(annotationsKey{}).(*annotations)
	if !ok {
		return
	}
	a.mu.Lock()
	a.args = append(a.args, args...)
	a.mu.Unlock()
}

// Annotations returns a copy of the fields collected so far.
func Annotations(ctx context.Context) []any {
	a, ok := ctx.Value(annotationsKey{}).(*annotations)
	if !ok {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]any(nil), a.args...)
}
