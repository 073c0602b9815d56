package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// handleStatic serves the bracket page and its assets from dir. Paths
// that do not name a file fall through to notFound.
func handleStatic(dir string, notFound http.HandlerFunc) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			notFound(w, r)
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			info, err = os.Stat(filepath.Join(path, "index.html"))
		}
		if err != nil || info.IsDir() {
			notFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}
