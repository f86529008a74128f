package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"tpv-system/config"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	POSSvcURL       string
	DashboardSvcURL string
}

func ConfigFrom(cfg *config.Config) Config {
	return Config{
		POSSvcURL:       strings.TrimRight(cfg.POSSvcURL, "/"),
		DashboardSvcURL: strings.TrimRight(cfg.DashboardSvcURL, "/"),
	}
}

type Gateway struct {
	config Config
	client HTTPClient
	logger *logrus.Logger
}

func NewGateway(cfg Config, client HTTPClient) *Gateway {
	return &Gateway{
		config: cfg,
		client: client,
		logger: config.GetLogger(),
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]errorBody{"error": {Code: code, Message: message}})
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":    "healthy",
		"service":   "api-gateway",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ProxyRequest forwards r to targetURL+path and streams the response back.
func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL, path string) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	entry := g.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     r.Method,
		"path":       r.URL.Path,
		"upstream":   targetURL + path,
	})

	url := targetURL + path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		entry.WithError(err).Error("failed to build upstream request")
		writeError(w, http.StatusInternalServerError, "GATEWAY_ERROR", "could not build upstream request")
		return
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		entry.WithError(err).Error("upstream unavailable")
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "the upstream service did not respond")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		entry.WithError(err).Warn("failed to copy upstream response")
	}
	entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Info("proxied")
}

// RouteHandler sends dashboard reads to dashboard-svc unchanged and every
// other API call to pos-svc without the /api prefix.
func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/api/dashboard" || strings.HasPrefix(path, "/api/dashboard/") {
		g.ProxyRequest(w, r, g.config.DashboardSvcURL, path)
		return
	}

	if rest, ok := strings.CutPrefix(path, "/api/"); ok && rest != "" {
		g.ProxyRequest(w, r, g.config.POSSvcURL, "/"+rest)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
