package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret-key-32-bytes-long!!!")

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
}

func TestCSRF(t *testing.T) {
	newRouter := func(seen *string) *gin.Engine {
		router := gin.New()
		router.Use(CSRF(testSecret, false))
		router.GET("/form", func(c *gin.Context) {
			*seen = CSRFToken(c)
			c.String(http.StatusOK, string(CSRFField(c)))
		})
		router.POST("/submit", func(c *gin.Context) {
			c.String(http.StatusOK, "saved")
		})
		return router
	}

	t.Run("GET exposes a token", func(t *testing.T) {
		var token string
		router := newRouter(&token)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/form", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, token)
		assert.Contains(t, rr.Body.String(), `name="gorilla.csrf.Token"`)
	})

	t.Run("POST without token is rejected before the handler", func(t *testing.T) {
		var token string
		router := newRouter(&token)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/submit", nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.NotContains(t, rr.Body.String(), "saved")
	})

	t.Run("POST with cookie and token passes", func(t *testing.T) {
		var token string
		router := newRouter(&token)

		get := httptest.NewRecorder()
		router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/form", nil))
		require.NotEmpty(t, token)

		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(""))
		req.Header.Set(CSRFTokenHeader, token)
		for _, cookie := range get.Result().Cookies() {
			req.AddCookie(cookie)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "saved", rr.Body.String())
	})

	t.Run("JSON clients get a JSON error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Accept", "application/json")

		csrfErrorHandler(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.JSONEq(t, `{"error":"CSRF token invalid or missing"}`, rr.Body.String())
	})
}

func TestCSRFField_NoToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, CSRFToken(c))
	assert.Empty(t, string(CSRFField(c)))
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS("http://localhost:8190, http://example.com"))
	router.GET("/api/books", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.Header.Set("Origin", "http://example.com")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "http://example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origins get no header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.Header.Set("Origin", "http://evil.test")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
		req.Header.Set("Origin", "http://localhost:8190")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, corsAllowedMethods, rr.Header().Get("Access-Control-Allow-Methods"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
	})

	t.Run("generates one when missing", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	})
}

func TestAccessLog(t *testing.T) {
	var out bytes.Buffer
	router := gin.New()
	router.Use(AccessLog(&out))
	router.Use(RequestID())
	router.GET("/api/books", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("line carries the gateway's request id", func(t *testing.T) {
		out.Reset()
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		router.ServeHTTP(httptest.NewRecorder(), req)

		line := out.String()
		assert.Contains(t, line, "request abc-123")
		assert.Contains(t, line, `"/api/books"`)
		assert.Contains(t, line, "200")
	})

	t.Run("requests outside RequestID log a dash", func(t *testing.T) {
		out.Reset()
		bare := gin.New()
		bare.Use(AccessLog(&out))
		bare.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		bare.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Contains(t, out.String(), "request -")
	})
}
