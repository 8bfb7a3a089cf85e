package respond

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

// Error добавляет request id из chi middleware, если он есть
func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, ErrorBody{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
