package middleware

import (
	"net/http"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	"github.com/tripointhq/TPD-BookingService/internal/service/adminauth"
)

// SessionVerifier проверка admin-сессии
type SessionVerifier interface {
	Verify(token string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// AdminAuth пускает дальше только запросы с валидной сессионной кукой админа
func AdminAuth(verifier SessionVerifier, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(adminauth.CookieName)
			if err != nil {
				log.Warn("AdminAuth: %s %s - missing session cookie", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, "authentication required")
				return
			}

			if err := verifier.Verify(cookie.Value); err != nil {
				log.Warn("AdminAuth: %s %s - invalid session: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, "invalid or expired session")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
