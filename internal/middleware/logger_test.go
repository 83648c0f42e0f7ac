package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Jaza/copernicus-api/pkg/configpkg"
	"github.com/Jaza/copernicus-api/pkg/errorspkg"
	"github.com/Jaza/copernicus-api/pkg/web"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := newLogger(configpkg.Config{Environment: configpkg.EnvProduction}, &buf)
	require.Equal(t, zerolog.InfoLevel, l.GetLevel())

	l = newLogger(configpkg.Config{Environment: configpkg.EnvProduction, DebugLogging: true}, &buf)
	require.Equal(t, zerolog.DebugLevel, l.GetLevel())

	l = newLogger(configpkg.Config{Environment: configpkg.EnvDevelopment}, &buf)
	require.Equal(t, zerolog.TraceLevel, l.GetLevel())
}

type logLine struct {
	Level      string `json:"level"`
	RequestID  string `json:"request_id"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func lastLine(t *testing.T, buf *bytes.Buffer) logLine {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	var got logLine
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &got))

	return got
}

func TestRequestLogger(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		requestID string
		wantLevel string
	}{
		{name: "OK", status: http.StatusOK, wantLevel: "info"},
		{name: "NoContent", status: http.StatusNoContent, wantLevel: "info"},
		{name: "NotFound", status: http.StatusNotFound, wantLevel: "warn"},
		{name: "BadRequest", status: http.StatusBadRequest, requestID: "fixed-id", wantLevel: "warn"},
		{name: "ServerError", status: http.StatusInternalServerError, wantLevel: "error"},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			logger := newLogger(configpkg.Config{}, &buf)

			gin.SetMode(gin.TestMode)
			server := gin.New()
			server.Use(RequestLogger(logger))
			server.GET("/status", func(c *gin.Context) {
				zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
				c.Status(tc.status)
			})

			request := httptest.NewRequest(http.MethodGet, "/status", nil)
			if tc.requestID != "" {
				request.Header.Set(RequestIDHeader, tc.requestID)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			require.Equal(t, tc.status, recorder.Code)

			requestID := recorder.Header().Get(RequestIDHeader)
			require.NotEmpty(t, requestID)

			if tc.requestID != "" {
				require.Equal(t, tc.requestID, requestID)
			}

			got := lastLine(t, &buf)
			want := logLine{
				Level:      tc.wantLevel,
				RequestID:  requestID,
				Method:     http.MethodGet,
				Path:       "/status",
				StatusCode: tc.status,
			}
			require.Equal(t, want, got)

			// The handler logged through the request scoped logger.
			require.Contains(t, buf.String(), `"message":"inside handler"`)
			require.Equal(t, 2, strings.Count(buf.String(), requestID))
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	gin.SetMode(gin.TestMode)
	server := gin.New()
	server.Use(RequestLogger(newLogger(configpkg.Config{}, &buf)), Recovery())
	server.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var got web.Response
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
	require.Equal(t, errorspkg.ErrInternal.Error(), got.Error)

	require.Contains(t, buf.String(), `"panic":"boom"`)
	require.Equal(t, "error", lastLine(t, &buf).Level)
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	server := gin.New()
	server.Use(SecurityHeaders())
	server.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	h := recorder.Header()
	require.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	require.Equal(t, "SAMEORIGIN", h.Get("X-Frame-Options"))

	csp := h.Get("Content-Security-Policy")
	require.True(t, strings.HasPrefix(csp, "default-src 'self'; "))
	require.Contains(t, csp, "img-src 'self' data: online.swagger.io validator.swagger.io")
}
