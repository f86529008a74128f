package tests

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tpv-system/api-gateway/internal/gateway"
	"tpv-system/api-gateway/internal/mocks"
	"tpv-system/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testConfig = gateway.Config{
	POSSvcURL:       "http://pos-svc:8081",
	DashboardSvcURL: "http://dashboard-svc:8083",
}

func okResponse(body string) *http.Response {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	gw.SetupRoutes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_RouteHandler(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		wantURL string
	}{
		{
			name:    "dashboard keeps its prefix",
			method:  http.MethodGet,
			target:  "/api/dashboard/today?locationId=2",
			wantURL: "http://dashboard-svc:8083/api/dashboard/today?locationId=2",
		},
		{
			name:    "order creation goes to pos",
			method:  http.MethodPost,
			target:  "/api/orders/manual-create",
			wantURL: "http://pos-svc:8081/orders/manual-create",
		},
		{
			name:    "status update goes to pos",
			method:  http.MethodPut,
			target:  "/api/orders/12/update-status",
			wantURL: "http://pos-svc:8081/orders/12/update-status",
		},
		{
			name:    "inventory query string is preserved",
			method:  http.MethodGet,
			target:  "/api/inventory/movements?direction=out&locationId=1",
			wantURL: "http://pos-svc:8081/inventory/movements?direction=out&locationId=1",
		},
		{
			name:    "dashboard lookalike goes to pos",
			method:  http.MethodGet,
			target:  "/api/dashboards",
			wantURL: "http://pos-svc:8081/dashboards",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockClient := mocks.NewHTTPClient(t)
			gw := gateway.NewGateway(testConfig, mockClient)

			var forwarded *http.Request
			mockClient.On("Do", mock.Anything).Run(func(args mock.Arguments) {
				forwarded = args.Get(0).(*http.Request)
			}).Return(okResponse(`{"ok":true}`), nil).Once()

			req := httptest.NewRequest(testCase.method, testCase.target, strings.NewReader(`{}`))
			req.Header.Set("Authorization", "Bearer token")
			rr := httptest.NewRecorder()

			gw.RouteHandler(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
			require.NotNil(t, forwarded)
			assert.Equal(t, testCase.wantURL, forwarded.URL.String())
			assert.Equal(t, testCase.method, forwarded.Method)
			assert.Equal(t, "Bearer token", forwarded.Header.Get("Authorization"))
			assert.NotEmpty(t, forwarded.Header.Get("X-Request-ID"))
			assert.Equal(t, forwarded.Header.Get("X-Request-ID"), rr.Header().Get("X-Request-ID"))
		})
	}
}

func TestGateway_RouteHandler_KeepsRequestID(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.Header.Get("X-Request-ID") == "req-123"
	})).Return(okResponse(`[]`), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)
	assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
}

func TestGateway_RouteHandler_PassesUpstreamErrors(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, mockClient)

	mockClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusConflict,
		Body:       io.NopCloser(strings.NewReader(`{"error":{"code":"INSUFFICIENT_STOCK"}}`)),
		Header:     make(http.Header),
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/orders/manual-create", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "INSUFFICIENT_STOCK")
}

func TestGateway_RouteHandler_NotFound(t *testing.T) {
	for _, target := range []string{"/api", "/api/", "/orders", "/index.html"} {
		t.Run(target, func(t *testing.T) {
			gw := gateway.NewGateway(testConfig, nil)

			req := httptest.NewRequest(http.MethodGet, target, nil)
			rr := httptest.NewRecorder()

			gw.RouteHandler(rr, req)

			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.Contains(t, rr.Body.String(), "NOT_FOUND")
		})
	}
}

func TestGateway_RouteHandler_ProxyError(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(testConfig, mockClient)

	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/menu/products", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "UPSTREAM_UNAVAILABLE")
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestConfigFrom(t *testing.T) {
	cfg := gateway.ConfigFrom(&config.Config{
		POSSvcURL:       "http://pos-svc:8081/",
		DashboardSvcURL: "http://dashboard-svc:8083",
	})
	assert.Equal(t, "http://pos-svc:8081", cfg.POSSvcURL)
	assert.Equal(t, "http://dashboard-svc:8083", cfg.DashboardSvcURL)
}
