package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tpv-system/auth"
	"tpv-system/config"
	httpapi "tpv-system/dashboard-svc/internal/api/http"
	"tpv-system/dashboard-svc/internal/domain"
	"tpv-system/dashboard-svc/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T, env string) (http.Handler, *mocks.DashboardInterface) {
	t.Helper()
	svc := mocks.NewDashboardInterface(t)
	handler := httpapi.NewHandler(svc, &config.Config{AppEnv: env, JWTSecret: testSecret})
	return httpapi.NewRouter(handler), svc
}

func bearer(t *testing.T, userID int, role string) string {
	t.Helper()
	token, err := auth.Sign(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(router http.Handler, target, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestHealthIsPublic(t *testing.T) {
	router, _ := newTestRouter(t, "production")
	w := do(router, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestDashboardAccess(t *testing.T) {
	tests := []struct {
		name     string
		auth     func(t *testing.T) string
		wantCode int
		wantErr  string
	}{
		{name: "no token", auth: func(*testing.T) string { return "" }, wantCode: http.StatusUnauthorized, wantErr: "UNAUTHORIZED"},
		{name: "bad token", auth: func(*testing.T) string { return "Bearer nope" }, wantCode: http.StatusUnauthorized, wantErr: "UNAUTHORIZED"},
		{name: "employee", auth: func(t *testing.T) string { return bearer(t, 7, "empleado") }, wantCode: http.StatusForbidden, wantErr: "FORBIDDEN"},
		{name: "customer", auth: func(t *testing.T) string { return bearer(t, 42, "cliente") }, wantCode: http.StatusForbidden, wantErr: "FORBIDDEN"},
		{name: "manager", auth: func(t *testing.T) string { return bearer(t, 2, domain.RoleManager) }, wantCode: http.StatusOK},
		{name: "admin", auth: func(t *testing.T) string { return bearer(t, 1, domain.RoleAdmin) }, wantCode: http.StatusOK},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			router, svc := newTestRouter(t, "production")
			if testCase.wantCode == http.StatusOK {
				svc.On("Today", mock.Anything, 0).Return(domain.TodayStats{Day: "2024-05-01", LocationID: 1}, nil).Once()
			}

			w := do(router, "/api/dashboard/today", testCase.auth(t))
			assert.Equal(t, testCase.wantCode, w.Code)
			if testCase.wantErr != "" {
				assert.Equal(t, testCase.wantErr, errorCode(t, w))
			}
		})
	}
}

func TestGetTodayHandler(t *testing.T) {
	router, svc := newTestRouter(t, "production")
	svc.On("Today", mock.Anything, 3).Return(domain.TodayStats{
		Day: "2024-05-01", LocationID: 3, Orders: 5, Revenue: decimal.RequireFromString("12500.50"),
		Source: domain.SourceCache,
	}, nil).Once()

	w := do(router, "/api/dashboard/today?locationId=3", bearer(t, 1, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(5), body["orders"])
	assert.Equal(t, "12500.5", body["revenue"])
	assert.Equal(t, "cache", body["source"])
}

func TestGetTopProductsHandler(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		setupMock func(*mocks.DashboardInterface)
		wantCode  int
		wantErr   string
	}{
		{
			name:  "defaults to today",
			query: "",
			setupMock: func(m *mocks.DashboardInterface) {
				m.On("TopProducts", mock.Anything, domain.PeriodToday, 0, 0).
					Return(domain.TopProducts{Period: domain.PeriodToday, Products: []domain.ProductRank{}}, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:  "all time with limit",
			query: "?period=all&limit=3&locationId=2",
			setupMock: func(m *mocks.DashboardInterface) {
				m.On("TopProducts", mock.Anything, domain.PeriodAll, 2, 3).
					Return(domain.TopProducts{Period: domain.PeriodAll}, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "unknown period",
			query:     "?period=week",
			setupMock: func(*mocks.DashboardInterface) {},
			wantCode:  http.StatusBadRequest,
			wantErr:   "VALIDATION_ERROR",
		},
		{
			name:      "negative limit",
			query:     "?limit=-1",
			setupMock: func(*mocks.DashboardInterface) {},
			wantCode:  http.StatusBadRequest,
			wantErr:   "VALIDATION_ERROR",
		},
		{
			name:  "storage failure",
			query: "?period=all",
			setupMock: func(m *mocks.DashboardInterface) {
				m.On("TopProducts", mock.Anything, domain.PeriodAll, 0, 0).
					Return(domain.TopProducts{}, errors.New("connection refused")).Once()
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  "TRANSACTION_FAILURE",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			router, svc := newTestRouter(t, "production")
			testCase.setupMock(svc)

			w := do(router, "/api/dashboard/top-products"+testCase.query, bearer(t, 2, domain.RoleManager))
			assert.Equal(t, testCase.wantCode, w.Code)
			if testCase.wantErr != "" {
				assert.Equal(t, testCase.wantErr, errorCode(t, w))
			}
		})
	}
}

func TestErrorCauseOnlyInDevelopment(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			router, svc := newTestRouter(t, env)
			svc.On("InventorySummary", mock.Anything, 0).
				Return(domain.InventorySummary{}, errors.New("relation \"inventory\" does not exist")).Once()

			w := do(router, "/api/dashboard/inventory-summary", bearer(t, 1, domain.RoleAdmin))
			require.Equal(t, http.StatusInternalServerError, w.Code)
			if env == "development" {
				assert.Contains(t, w.Body.String(), "does not exist")
			} else {
				assert.NotContains(t, w.Body.String(), "does not exist")
			}
		})
	}
}

func TestGetMetricsHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantFilter domain.Filter
		wantCode   int
	}{
		{name: "default daily", query: "", wantFilter: domain.FilterDaily, wantCode: http.StatusOK},
		{name: "monthly", query: "?filter=mensual", wantFilter: domain.FilterMonthly, wantCode: http.StatusOK},
		{name: "invalid", query: "?filter=monthly", wantCode: http.StatusBadRequest},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			router, svc := newTestRouter(t, "production")
			if testCase.wantFilter != "" {
				svc.On("Metrics", mock.Anything, testCase.wantFilter).
					Return(domain.Metrics{TotalUsers: 9, Filter: testCase.wantFilter}, nil).Once()
			}

			w := do(router, "/api/dashboard/metrics"+testCase.query, bearer(t, 1, domain.RoleAdmin))
			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestGetSalesHandler(t *testing.T) {
	router, svc := newTestRouter(t, "production")
	svc.On("Sales", mock.Anything, domain.FilterMonthly).Return([]domain.SalesPoint{
		{Label: "Día 1", Value: decimal.RequireFromString("1000")},
	}, nil).Once()

	w := do(router, "/api/dashboard/sales", bearer(t, 1, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)

	var points []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &points))
	require.Len(t, points, 1)
	assert.Equal(t, "Día 1", points[0]["label"])
	assert.Equal(t, "1000", points[0]["valor"])
}

func TestCORS_RequestIDHeader(t *testing.T) {
	router, _ := newTestRouter(t, "production")

	preflight := httptest.NewRequest(http.MethodOptions, "/api/dashboard/today", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	preflight.Header.Set("Access-Control-Request-Headers", "authorization,x-request-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, preflight)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "x-request-id")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("X-Request-ID", "req-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Expose-Headers")), "x-request-id")
}
