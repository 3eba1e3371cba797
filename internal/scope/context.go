package scope

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying sc.
func NewContext(ctx context.Context, sc *Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, sc)
}

// FromContext returns the scope stored by NewContext, if any.
func FromContext(ctx context.Context) (*Scope, bool) {
	sc, ok := ctx.Value(ctxKey{}).(*Scope)
	return sc, ok && sc != nil
}
