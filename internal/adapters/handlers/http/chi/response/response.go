package response

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Body is the JSON envelope of every API answer
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Success builds a successful Body
func Success(message string) Body {
	return Body{Success: true, Message: message}
}

// Failure builds a failed Body
func Failure(message string) Body {
	return Body{Success: false, Message: message}
}

// Write encodes body as JSON with status
func Write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
