package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/relovedshop/reloved-backend/pkg/logger"
)

const guestTokenHeader = "X-Guest-Token"

// GuestToken reads the anonymous session token from the request, mints one
// when absent, and echoes it back so browsers without an account keep a
// stable cart across visits. Authenticated requests keep their token too; the
// guest collections become reachable again after logout.
func GuestToken(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(guestTokenHeader))
			if token == "" || uuid.Validate(token) != nil {
				token = uuid.NewString()
			}

			w.Header().Set(guestTokenHeader, token)

			ctx := WithGuestToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithGuestToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
