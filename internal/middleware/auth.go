package middleware

import (
	"net/http"
	"strings"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/db/repositories"
)

// AdminAuthMiddleware gates the back office. Authentication is a boolean:
// a request passes with an active API key, a valid session cookie, or a
// presigned dashboard token; there is no role ladder behind the gate.
func AdminAuthMiddleware(keysRepo *repositories.KeysRepo, sessionSvc *common.SessionService, signer *common.URLSignerService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
				keyRes, err := keysRepo.GetStatus(r.Context(), apiKey)
				if err != nil {
					http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}
				if !keyRes.Status {
					http.Error(w, "Unauthorized. Inactive API Key", http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if cookie, err := r.Cookie("admin_session"); err == nil && cookie.Value != "" {
				if _, err := sessionSvc.GetSession(r.Context(), cookie.Value); err == nil {
					next.ServeHTTP(w, r)
					return
				}
				http.Error(w, "Unauthorized. Session expired", http.StatusUnauthorized)
				return
			}

			if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				token := strings.TrimPrefix(authHeader, "Bearer ")
				if _, err := signer.ValidateToken(r.Context(), token); err == nil {
					next.ServeHTTP(w, r)
					return
				}
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			http.Error(w, "Unauthorized. Missing credentials", http.StatusUnauthorized)
		})
	}
}
