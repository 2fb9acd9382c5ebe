package chi

import (
	"context"
	"net/http"

	logpkg "github.com/kailas-cloud/cmsconsole/internal/logger"
	"github.com/kailas-cloud/cmsconsole/internal/notify"
)

type recorderCtxKey struct{}

// noticesMiddleware gives every request its own notice recorder. Services
// report progress and outcomes to it and handlers return them as notices.
// Notices are logged as well.
func noticesMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := notify.NewRecorder()
		n := notify.Multi{rec, notify.NewLogger(logpkg.FromContext(r.Context()))}
		ctx := notify.ContextWithNotifier(r.Context(), n)
		ctx = context.WithValue(ctx, recorderCtxKey{}, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func noticesOf(r *http.Request) []notify.Notice {
	rec, ok := r.Context().Value(recorderCtxKey{}).(*notify.Recorder)
	if !ok {
		return []notify.Notice{}
	}
	return rec.Notices()
}
