package web

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rook-computer/fractaldraw/internal/assets"
)

// StaticUIHandler serves staticDir at "/" when it is an existing directory,
// the embedded UI when it is empty, and 404 otherwise.
func StaticUIHandler(staticDir string) http.Handler {
	if staticDir == "" {
		return cleanPath(http.FileServer(http.FS(assets.WebUI)))
	}
	if st, err := os.Stat(staticDir); err != nil || !st.IsDir() {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
	}
	return cleanPath(http.FileServer(http.Dir(staticDir)))
}

// IndexPage returns the landing page StaticUIHandler serves for staticDir.
func IndexPage(staticDir string) ([]byte, error) {
	if staticDir == "" {
		return assets.IndexHTML()
	}
	path := filepath.Join(staticDir, "index.html")
	page, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read landing page: %w", err)
	}
	return page, nil
}

func cleanPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = filepath.ToSlash(filepath.Clean("/" + r.URL.Path))
		next.ServeHTTP(w, r)
	})
}
