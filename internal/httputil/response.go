package httputil

import (
	"encoding/json"
	"net/http"
)

// envelope is the response shape every endpoint uses:
// {success: bool, message?: string, data?: ...}
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondJSON writes a success envelope with the given status code.
// It marshals first so a failed encoding never produces a partial response
// after headers are sent.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, envelope{Success: true, Data: data})
}

// RespondMessage writes a success envelope carrying a human-readable message
// alongside the payload.
func RespondMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	writeEnvelope(w, status, envelope{Success: true, Message: message, Data: data})
}

// RespondError writes a failure envelope: {success:false, message}.
func RespondError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, envelope{Success: false, Message: message})
}

func writeEnvelope(w http.ResponseWriter, status int, body envelope) {
	payload, err := json.Marshal(body)
	if err != nil {
		// Fallback to plain text if JSON encoding fails
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
