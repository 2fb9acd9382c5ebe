package notify

import "context"

type ctxKey struct{}

// ContextWithNotifier attaches a request-scoped notifier.
func ContextWithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

// FromContext returns the request notifier combined with fallback, or
// fallback alone when the context carries none.
func FromContext(ctx context.Context, fallback Notifier) Notifier {
	n, ok := ctx.Value(ctxKey{}).(Notifier)
	switch {
	case !ok || n == nil:
		if fallback == nil {
			return Nop{}
		}
		return fallback
	case fallback == nil:
		return n
	default:
		return Multi{n, fallback}
	}
}
