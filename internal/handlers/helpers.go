package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"practica/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// handleServiceError maps typed service errors onto statuses; anything else
// is logged and reported as a generic server error.
func handleServiceError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		writeError(w, http.StatusBadRequest, e.Message)
	case *services.ConflictError:
		writeError(w, http.StatusConflict, e.Message)
	case *services.NotFoundError:
		writeError(w, http.StatusNotFound, e.Message)
	case *services.UnauthorizedError:
		writeError(w, http.StatusUnauthorized, e.Message)
	case *services.ForbiddenError:
		writeError(w, http.StatusForbidden, e.Message)
	default:
		log.Printf("SERVER ERROR: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}
