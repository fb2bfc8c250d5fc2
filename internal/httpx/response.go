package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the uniform error envelope. Message is always present;
// Detail carries field violations or the underlying error text when allowed.
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  any    `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"message":"encode error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, detail any) {
	JSON(w, status, ErrorResponse{Message: msg, Detail: detail})
}
