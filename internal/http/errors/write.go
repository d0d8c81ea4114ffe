package errors

import (
	"encoding/json"
	"net/http"
)

// envelope is the single response shape of the API.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// WriteError writes {success:false,message} with the error's status.
// Non-AppError values become a generic 500 so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)
	writeJSON(w, appErr.HTTPStatus, envelope{Success: false, Message: appErr.Message})
}

// WriteSuccess writes {success:true,message,data}. A nil data becomes {}.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	if data == nil {
		data = struct{}{}
	}
	if message == "" {
		message = "OK"
	}
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// WriteFailure writes {success:false,message,data} for failures that carry a
// body, such as readiness reports.
func WriteFailure(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: false, Message: message, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
