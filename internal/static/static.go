// Package static serves the site's frontend files from a content root.
// Content types come from a fixed extension map rather than sniffing:
// unknown extensions are served as generic binary.
package static

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".mp4":  "video/mp4",
}

const defaultContentType = "application/octet-stream"

// Handler resolves GET requests under the content root. "/" maps to
// index.html; a missing file answers 404 with a plain-text body.
type Handler struct {
	root string
}

func New(root string) *Handler {
	return &Handler{root: root}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	urlPath := r.URL.Path
	if urlPath == "/" {
		urlPath = "/index.html"
	}

	// Collapse any ".." segments before touching the filesystem so a
	// crafted path cannot escape the content root.
	cleaned := path.Clean("/" + strings.TrimPrefix(urlPath, "/"))
	filePath := filepath.Join(h.root, filepath.FromSlash(cleaned))

	content, err := os.ReadFile(filePath)
	if err != nil {
		notFound(w)
		return
	}

	contentType, ok := contentTypes[strings.ToLower(filepath.Ext(filePath))]
	if !ok {
		contentType = defaultContentType
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("File not found"))
}
