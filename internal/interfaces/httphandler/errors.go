package httphandler

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSONError renders every router-generated failure as {"error": message}.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// writeStatusError uses the standard status text as the message.
func writeStatusError(w http.ResponseWriter, status int) {
	writeJSONError(w, status, http.StatusText(status))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeStatusError(w, http.StatusNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeStatusError(w, http.StatusMethodNotAllowed)
}
