package chi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/cmsconsole/internal/logger"
	"github.com/kailas-cloud/cmsconsole/internal/transport/backend"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// UserIDHeader carries the authenticated user, set by the auth proxy in
// front of the console.
const UserIDHeader = "X-User-ID"

type userCtxKey struct{}

// ContextWithUserID attaches the authenticated user id.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userCtxKey{}, userID)
}

// UserIDFromContext returns the authenticated user id, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userCtxKey{}).(string)
	return id
}

// AuthOptions configures BearerAuthMiddleware.
type AuthOptions struct {
	// DevUserID disables authentication: requests without credentials act
	// as this user. Local development only.
	DevUserID string
}

// BearerAuthMiddleware requires a bearer token and a user id on every
// non-exempt request. The token is forwarded to the backend; the user id
// scopes workspace selections and editor sessions.
func BearerAuthMiddleware(opts AuthOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, tokenErr := bearerToken(r.Header.Get("Authorization"))
			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))

			if opts.DevUserID != "" {
				if userID == "" {
					userID = opts.DevUserID
				}
				tokenErr = ""
			}
			if tokenErr != "" {
				writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, tokenErr)
				return
			}
			if userID == "" {
				writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, "missing "+UserIDHeader+" header")
				return
			}

			ctx := ContextWithUserID(r.Context(), userID)
			ctx = logpkg.With(ctx, zap.String("user_id", userID))
			if token != "" {
				ctx = backend.WithToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken returns the token of an Authorization header, or a message
// describing why the header is unusable.
func bearerToken(auth string) (string, string) {
	if auth == "" {
		return "", "missing authorization header"
	}
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", "authorization header must use Bearer scheme"
	}
	token := strings.TrimSpace(auth[len(bearerPrefix):])
	if token == "" {
		return "", "empty bearer token"
	}
	return token, ""
}
