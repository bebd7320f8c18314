package http

import (
	"encoding/json"
	"net/http"

	"github.com/neetsprint/neetsprint-server/internal/auth"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func subjectOr(r *http.Request, def string) string {
	if s := auth.SubjectFromContext(r.Context()); s != "" {
		return s
	}
	return def
}
