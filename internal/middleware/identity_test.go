package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clothing-store/internal/metrics"
	"clothing-store/internal/model"
)

func TestIdentity(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()

	tests := []struct {
		name           string
		method         string
		path           string
		userID         string
		role           string
		expectedStatus int
		expectedActor  *model.Actor
	}{
		{
			name:           "Customer by default",
			path:           "/api/cart",
			userID:         userID.String(),
			expectedStatus: http.StatusOK,
			expectedActor:  &model.Actor{UserID: userID, Role: model.RoleCustomer},
		},
		{
			name:           "Admin role",
			path:           "/api/orders",
			userID:         userID.String(),
			role:           model.RoleAdmin,
			expectedStatus: http.StatusOK,
			expectedActor:  &model.Actor{UserID: userID, Role: model.RoleAdmin},
		},
		{
			name:           "Missing user id",
			path:           "/api/cart",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed user id",
			path:           "/api/cart",
			userID:         "not-a-uuid",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Nil user id",
			path:           "/api/cart",
			userID:         uuid.Nil.String(),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unknown role",
			path:           "/api/cart",
			userID:         userID.String(),
			role:           "Root",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Registration needs no identity",
			method:         http.MethodPost,
			path:           "/api/users",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Catalog read needs no identity",
			path:           "/api/products/" + uuid.NewString(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Catalog write needs identity",
			method:         http.MethodPost,
			path:           "/api/products",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Health check needs no identity",
			path:           "/health",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *model.Actor
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if actor, ok := ActorFromContext(r.Context()); ok {
					got = &actor
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := Identity(logger)(testHandler)

			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req := httptest.NewRequest(method, tt.path, nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedActor, got)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), model.ErrCodeUnauthorised)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		actor          *model.Actor
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Admin allowed",
			actor:          &model.Actor{UserID: uuid.New(), Role: model.RoleAdmin},
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Customer forbidden",
			actor:          &model.Actor{UserID: uuid.New(), Role: model.RoleCustomer},
			expectedStatus: http.StatusForbidden,
			expectHandler:  false,
		},
		{
			name:           "No identity",
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := RequireRole(model.RoleAdmin)(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/inventory-logs", nil)
			if tt.actor != nil {
				req = req.WithContext(WithActor(req.Context(), *tt.actor))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
		})
	}
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for range 2 {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	expected := `
# HELP test_http_requests_total Total number of HTTP requests.
# TYPE test_http_requests_total counter
test_http_requests_total{method="GET",route="/api/orders/{id}",status="404"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_http_requests_total"))
}

func TestMetrics_NilSafe(t *testing.T) {
	handler := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
}
