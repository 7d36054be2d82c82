package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubCheck struct {
	name string
	err  error
}

func (s stubCheck) IsReady(ctx context.Context) error { return s.err }
func (s stubCheck) Name() string                      { return s.name }

func serve(h *HealthHandler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealthRoutes(h, r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestLive(t *testing.T) {
	w := serve(NewHealthHandler(stubCheck{name: "db", err: errors.New("down")}), "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReady(t *testing.T) {
	w := serve(NewHealthHandler(stubCheck{name: "users"}, stubCheck{name: "tasks"}), "/health/ready")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"users":"ok","tasks":"ok"}}`, w.Body.String())
}

func TestReady_Unavailable(t *testing.T) {
	w := serve(NewHealthHandler(stubCheck{name: "users"}, stubCheck{name: "redis", err: errors.New("down")}), "/health/ready")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"users":"ok","redis":"unavailable"}}`, w.Body.String())
}
