package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"stockroom-backend/api/responses"
	"stockroom-backend/pkg/config"
	pkgerrors "stockroom-backend/pkg/errors"
	"stockroom-backend/pkg/logger"
)

const apiKeyHeader = "X-Api-Key"

// APIKey authenticates the chat gateway via a static shared key. The key
// may arrive in X-Api-Key or as a bearer token.
func APIKey(cfg config.GatewayConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(apiKeyHeader))
			if key == "" {
				raw := strings.TrimSpace(r.Header.Get("Authorization"))
				if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
					key = strings.TrimSpace(raw[7:])
				}
			}
			if key == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid api key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
