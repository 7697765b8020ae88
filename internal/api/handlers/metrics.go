package handlers

import (
	"fmt"
	"net/http"
)

// Plain-text liveness gauge; a full metrics registry is out of scope.
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (h *MetricsHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "# HELP dsarportal_up Is the server up\n")
	fmt.Fprintf(w, "# TYPE dsarportal_up gauge\n")
	fmt.Fprintf(w, "dsarportal_up 1\n")
}
