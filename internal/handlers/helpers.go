package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes an error envelope).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	WriteError(w, http.StatusMethodNotAllowed, protocol.KindProtocol, "Method not allowed")
	return false
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes the invocation envelope with a null result.
func WriteError(w http.ResponseWriter, statusCode int, kind protocol.ErrorKind, message string) error {
	return WriteJSON(w, statusCode, protocol.Failure(kind, message))
}
