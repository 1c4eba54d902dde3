package middleware

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/sgisync/internal/server/auth"
)

// AuthMiddleware проверяет учетные данные запроса через verifier
// и кладет участника в контекст
func AuthMiddleware(logger *slog.Logger, verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerFromRequest(r)
			if err != nil {
				logger.WarnContext(r.Context(), "Missing credential", "path", r.URL.Path)
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			identity, err := verifier.VerifyCredential(token)
			if err != nil {
				logger.WarnContext(r.Context(), "Credential rejected", "path", r.URL.Path, "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			logger.DebugContext(r.Context(), "Participant authenticated",
				"user_id", identity.UserID,
				"role", identity.Role,
			)

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), *identity)))
		})
	}
}
