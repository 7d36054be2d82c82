package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Yulian302/taskflow-gateway/responses"
	"github.com/gin-gonic/gin"
)

func CreateTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/test", func(ctx *gin.Context) { responses.JSONSuccess(ctx, "ok") })

	return r
}

// PerformRequest serves one request against r. A non-empty token is sent
// as a bearer Authorization header.
func PerformRequest(t *testing.T, r http.Handler, method, url string, body io.Reader, token string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// JSONBody encodes v for use as a request body.
func JSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to encode body: %v", err)
	}
	return bytes.NewReader(b)
}

// DecodeJSON decodes the recorder body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode body %q: %v", w.Body.String(), err)
	}
}
