package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/folioweb/siteserver/types"
)

// Response is the uniform API envelope. Every JSON route answers with
// {"success":bool,"message":string} plus whatever extra field it carries.
type Response struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    *types.Profile `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeResult(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, Response{Success: success, Message: message})
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
