package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// WriteJSONError - ответ вида {"error": "..."}
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithJSON сериализует payload до записи заголовков, чтобы при ошибке отдать 500.
// HTML не экранируется: в ответах есть символ валюты и текст для показа.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
