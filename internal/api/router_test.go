package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/honeynil/kapitalist/internal/config"
	"github.com/honeynil/kapitalist/internal/handler"
	"github.com/honeynil/kapitalist/internal/infrastructure/auth"
	"github.com/honeynil/kapitalist/internal/infrastructure/observability"
	"github.com/honeynil/kapitalist/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubUsers answers Me with a fixed user and is otherwise unused.
type stubUsers struct{}

func (stubUsers) Register(context.Context, string, string, string) (*models.User, error) {
	return nil, nil
}

func (stubUsers) Login(context.Context, string, string) (string, error) {
	return "", nil
}

func (stubUsers) Me(_ context.Context, userID int64) (*models.User, error) {
	return &models.User{ID: userID, Username: "ann"}, nil
}

func (stubUsers) UpdateMe(context.Context, int64, models.UserPatch) (*models.User, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, *auth.JWTService) {
	t.Helper()
	jwtService, err := auth.NewJWTService(config.JWTConfig{
		Secret:   "router-secret",
		Issuer:   "kapitalist",
		TokenTTL: time.Hour,
		Leeway:   time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)

	h := handler.NewHandler(stubUsers{}, nil, nil, nil, zap.NewNop())
	return SetupRouter(h, jwtService, "1.2.3", zap.NewNop()), jwtService
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSetupRouter_Index(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Kapitalist is running", rec.Body.String())
}

func TestSetupRouter_Version(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"1.2.3"}`, rec.Body.String())
}

func TestSetupRouter_Protected(t *testing.T) {
	router, jwtService := newTestRouter(t)

	t.Run("no token", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		rec := serve(router, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := jwtService.Issue(auth.SubjectAuth, 5)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := serve(router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var user models.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, int64(5), user.ID)
	})
}

func TestSetupRouter_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestSetupRouter_MethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodDelete, "/version", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsMiddleware_RouteLabel(t *testing.T) {
	router, _ := newTestRouter(t)
	counter := observability.RequestCounter.WithLabelValues(http.MethodGet, "/wallet/{id:[0-9]+}", "401")
	before := testutil.ToFloat64(counter)

	serve(router, httptest.NewRequest(http.MethodGet, "/wallet/17", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/wallet/18", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestStatusRecorder(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	assert.Equal(t, http.StatusOK, rec.code())

	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusTeapot, rec.code())
}
