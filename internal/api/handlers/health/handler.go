package health

import (
	"net/http"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
)

// Handle GET /api/health
func Handle(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
