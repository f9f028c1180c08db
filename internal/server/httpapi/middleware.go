package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/qrregistry/internal/common"
	"github.com/dmitrijs2005/qrregistry/internal/logging"
	"github.com/dmitrijs2005/qrregistry/internal/server/auth"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// authenticate resolves a Bearer token into an identity on the request
// context. Requests without the header pass through anonymously. When
// optional is set, a header that does not carry a valid token is ignored as
// well; otherwise it is rejected with 401.
func authenticate(secret []byte, optional bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, common.BearerPrefix)
			if !ok || strings.TrimSpace(token) == "" {
				if optional {
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed authorization header")
				return
			}

			id, err := auth.ParseToken(strings.TrimSpace(token), secret)
			if err != nil {
				switch {
				case optional:
					next.ServeHTTP(w, r)
				case errors.Is(err, common.ErrTokenExpired):
					writeError(w, r, http.StatusUnauthorized, "TOKEN_EXPIRED", "token expired")
				default:
					writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				}
				return
			}

			ctx := auth.WithIdentity(r.Context(), id)
			ctx = logging.ContextWith(ctx, "user_id", id.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestLogger logs one line per request once the response is written. The
// request id is attached to the context so handler logs carry it too.
func requestLogger(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(logging.ContextWith(r.Context(), "request_id", chimiddleware.GetReqID(r.Context())))

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			l.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
