package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"tpv-system/auth"
	"tpv-system/config"
	"tpv-system/dashboard-svc/internal/domain"
	"tpv-system/dashboard-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	Dashboard service.DashboardInterface

	jwtSecret    string
	exposeErrors bool
	logger       *logrus.Logger
}

func NewHandler(svc service.DashboardInterface, cfg *config.Config) *Handler {
	return &Handler{
		Dashboard:    svc,
		jwtSecret:    cfg.JWTSecret,
		exposeErrors: cfg.IsDevelopment(),
		logger:       config.GetLogger(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(h.logRequests)
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	onAuthError := func(w http.ResponseWriter, err error) {
		status, body := classify(err)
		writeJSON(w, status, errorResponse{Error: body})
	}
	api := r.PathPrefix("/api/dashboard").Subrouter()
	api.Use(auth.Middleware(h.jwtSecret, onAuthError))
	api.Use(auth.RequireRoles(onAuthError, domain.RoleAdmin, domain.RoleManager))

	api.HandleFunc("/today", h.getToday).Methods("GET")
	api.HandleFunc("/top-products", h.getTopProducts).Methods("GET")
	api.HandleFunc("/inventory-summary", h.getInventorySummary).Methods("GET")
	api.HandleFunc("/metrics", h.getMetrics).Methods("GET")
	api.HandleFunc("/sales", h.getSales).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "dashboard-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.Invalid(key, "must be a non-negative integer")
	}
	return n, nil
}

func (h *Handler) getToday(w http.ResponseWriter, r *http.Request) {
	locationID, err := queryInt(r, "locationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	stats, err := h.Dashboard.Today(r.Context(), locationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) getTopProducts(w http.ResponseWriter, r *http.Request) {
	period, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	locationID, err := queryInt(r, "locationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	top, err := h.Dashboard.TopProducts(r.Context(), period, locationID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (h *Handler) getInventorySummary(w http.ResponseWriter, r *http.Request) {
	locationID, err := queryInt(r, "locationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := h.Dashboard.InventorySummary(r.Context(), locationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) getMetrics(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseFilter(r.URL.Query().Get("filter"), domain.FilterDaily)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	metrics, err := h.Dashboard.Metrics(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *Handler) getSales(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseFilter(r.URL.Query().Get("filter"), domain.FilterMonthly)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	points, err := h.Dashboard.Sales(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}
