package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "session only", raw: "session=YUB4LmNvbQ", want: "session=REDACTED"},
		{name: "keeps other params", raw: "limit=3&session=abc", want: "limit=3&session=REDACTED"},
		{name: "no session", raw: "limit=3", want: "limit=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactQuery(tt.raw, "session"))
		})
	}
}

func TestGetTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(headers map[string]string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return c
	}

	traceParent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(newCtx(map[string]string{TraceParentHeader: traceParent})))
	assert.Equal(t, "abc", GetTraceID(newCtx(map[string]string{TraceIDHeader: "abc"})))

	generated := GetTraceID(newCtx(nil))
	require.Len(t, generated, 32)
}

func TestLoggingMiddleware_SetsTraceHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggingMiddleware("session"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping?session=secret", nil)
	req.Header.Set(TraceIDHeader, "trace-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "trace-1", w.Header().Get(TraceIDHeader))
}
