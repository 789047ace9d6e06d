package middleware

import (
	"net/http"

	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const TokenHeader = "X-GYM-TOKEN"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test

type tokenChecker interface {
	Valid(token string) bool
}

// HashTokenChecker accepts tokens matching a bcrypt hash. An empty hash
// accepts nothing.
type HashTokenChecker struct {
	hash string
}

func NewHashTokenChecker(hash string) *HashTokenChecker {
	if hash == "" {
		log.Warnln("api token hash not set, protected routes will reject every request")
	}
	return &HashTokenChecker{hash: hash}
}

func (c *HashTokenChecker) Valid(token string) bool {
	if c.hash == "" || token == "" {
		return false
	}
	return pkg.CheckSecretHash(token, c.hash)
}

type AuthMiddlewareHandler struct {
	checker tokenChecker
}

func NewAuthMiddlewareHandler(checker tokenChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		checker: checker,
	}
}

// AuthCheck guards destructive routes (history delete and import).
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "POST, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			authToken := r.Header.Get(TokenHeader)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			if !h.checker.Valid(authToken) {
				log.Warnf("[invalid token] [auth middleware] unauthorized => %s %s", r.Method, r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
