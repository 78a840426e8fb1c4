package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jsamuelsen/campus-qa/internal/adapters/http/dto"
	"github.com/jsamuelsen/campus-qa/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromGin    func(*gin.Context) string
		fromCtx    func(*gin.Context) string
	}{
		{
			name:       "request id",
			middleware: RequestID(),
			header:     HeaderRequestID,
			fromGin:    GetRequestID,
			fromCtx:    func(c *gin.Context) string { return RequestIDFromContext(c.Request.Context()) },
		},
		{
			name:       "correlation id",
			middleware: CorrelationID(),
			header:     HeaderCorrelationID,
			fromGin:    GetCorrelationID,
			fromCtx:    func(c *gin.Context) string { return CorrelationIDFromContext(c.Request.Context()) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+" passes through", func(t *testing.T) {
			var fromGin, fromCtx string

			r := gin.New()
			r.Use(tt.middleware)
			r.GET("/", func(c *gin.Context) {
				fromGin, fromCtx = tt.fromGin(c), tt.fromCtx(c)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(tt.header, "upstream-1")
			w := serve(r, req)

			assert.Equal(t, "upstream-1", w.Header().Get(tt.header))
			assert.Equal(t, "upstream-1", fromGin)
			assert.Equal(t, "upstream-1", fromCtx)
		})

		t.Run(tt.name+" generated", func(t *testing.T) {
			r := gin.New()
			r.Use(tt.middleware)
			r.GET("/", func(c *gin.Context) {})

			w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

			_, err := uuid.Parse(w.Header().Get(tt.header))
			assert.NoError(t, err)
		})
	}
}

func TestContextIDs_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, GetCorrelationID(c))
	assert.Empty(t, RequestIDFromContext(c.Request.Context()))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var handlerLogger *slog.Logger

	r := gin.New()
	r.Use(RequestID(), Logging(logger))
	r.GET("/-/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/questions/:id", func(c *gin.Context) {
		handlerLogger = logging.FromContext(c.Request.Context())
		c.Status(http.StatusNotFound)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/-/health", nil))
	assert.Empty(t, buf.String(), "health probes are not logged")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/questions/q1", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	serve(r, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/api/v1/questions/:id", entry["route"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.EqualValues(t, http.StatusNotFound, entry["status"])
	require.NotNil(t, handlerLogger)
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer

	r := gin.New()
	r.Use(Recovery(slog.New(slog.NewJSONHandler(&buf, nil))))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
	assert.Contains(t, buf.String(), "kaboom")
}

func TestTimeout(t *testing.T) {
	var deadline time.Time

	r := gin.New()
	r.Use(Timeout(time.Minute))
	r.GET("/", func(c *gin.Context) {
		deadline, _ = c.Request.Context().Deadline()
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestRequireAdmin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequireAdmin(string(hash)))
	r.DELETE("/admin/data", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name     string
		password string
		want     int
		wantCode string
	}{
		{name: "missing header", password: "", want: http.StatusUnauthorized, wantCode: dto.ErrorCodeUnauthorized},
		{name: "wrong password", password: "letmein", want: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden},
		{name: "correct password", password: "admin123", want: http.StatusNoContent},
		{name: "correct password again", password: "admin123", want: http.StatusNoContent},
		{name: "wrong after accepted", password: "admin1234", want: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/admin/data", nil)
			if tt.password != "" {
				req.Header.Set(HeaderAdminPassword, tt.password)
			}

			w := serve(r, req)
			assert.Equal(t, tt.want, w.Code)

			if tt.wantCode != "" {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}
