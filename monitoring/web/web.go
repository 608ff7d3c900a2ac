// Package web serves the dashboard page of the monitor.
package web

import (
	_ "embed"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DevModeEnv names the variable that makes the dashboard load from the source
// tree on every request, so that edits show up without rebuilding.
const DevModeEnv = "SHIPD_MONITOR_DEV"

//go:embed dist/index.html
var embeddedPage []byte

// Handler serves the dashboard at "/" and "/index.html". The page polls the
// monitor API itself, so there is nothing else to serve.
func Handler() http.Handler {
	load := embedded
	if devMode(os.LookupEnv) {
		load = fromSource
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" && r.URL.Path != "/index.html" {
			http.NotFound(w, r)
			return
		}

		page, err := load()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(page)
	})
}

func embedded() ([]byte, error) {
	return embeddedPage, nil
}

func fromSource() ([]byte, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("error getting path")
	}

	return os.ReadFile(filepath.Join(filepath.Dir(file), "dist", "index.html"))
}

func devMode(lookup func(string) (string, bool)) bool {
	v, ok := lookup(DevModeEnv)
	if !ok {
		return false
	}

	return strings.EqualFold(v, "true") || v == "1"
}
