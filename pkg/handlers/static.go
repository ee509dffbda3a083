package handlers

import (
	"net/http"
	"strings"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/config"
)

// RegisterStaticCharts serves rendered chart files from the chart directory
// under the configured URL prefix. Directory listings are refused. Charts are
// never mounted at the server root.
func RegisterStaticCharts(mux *http.ServeMux, cfg config.ChartConfig) {
	trimmed := strings.Trim(cfg.URLPrefix, "/")
	if !cfg.Enabled || trimmed == "" {
		return
	}
	prefix := "/" + trimmed + "/"
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.OutputDir)))
	mux.Handle("GET "+prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}
