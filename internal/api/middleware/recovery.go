package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
)

// Recovery перехватывает панику обработчика и отвечает 500
func Recovery(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("Panic in %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
					handlers.RespondInternalError(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
