package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vendas-backend/internal/auth"
	"vendas-backend/internal/logging"
)

type contextKey string

const subjectKey contextKey = "auth.subject"

// SubjectFromContext returns the authenticated subject set by
// RequireToken, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

// RequireToken gates a route group behind a bearer token. The check is
// explicit function composition around the next handler: extract the
// token from the Authorization header, verify it against the signing
// secret, then delegate with the subject in context.
//
// Each failure mode gets its own 401 body so clients can tell a missing
// token from a malformed, expired or otherwise-invalid one.
func RequireToken(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			var token string
			if header != "" {
				parts := strings.SplitN(header, " ", 2)
				if len(parts) != 2 || parts[1] == "" {
					unauthorized(w, r, "Token malformado!")
					return
				}
				token = parts[1]
			}

			claims, err := auth.Validate(token, secret, time.Now())
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrMissingToken):
					unauthorized(w, r, "Token não encontrado!")
				case errors.Is(err, auth.ErrMalformedToken):
					unauthorized(w, r, "Token malformado!")
				case errors.Is(err, auth.ErrExpiredToken):
					unauthorized(w, r, "Token expirou!")
				default:
					unauthorized(w, r, "Token inválido!")
				}
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	logging.FromContext(r.Context()).Warn("auth: request rejected",
		"path", r.URL.Path,
		"method", r.Method,
		"reason", message,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"message":%q}`, message)
}
