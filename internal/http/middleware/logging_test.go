package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		rid, _ := c.Get(requestIDKey)
		c.String(http.StatusOK, asString(rid))
	})

	// No inbound ID: one is minted and echoed.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated %s header", requestIDHeader)
	}
	if w.Body.String() != w.Header().Get(requestIDHeader) {
		t.Fatalf("context ID %q != header ID %q", w.Body.String(), w.Header().Get(requestIDHeader))
	}

	// An ID assigned by the front end is reused verbatim, whatever the
	// header casing on the way in.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(strings.ToLower(requestIDHeader), "front-end-42")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "front-end-42" {
		t.Fatalf("inbound ID not reused: %q", got)
	}
	if w.Body.String() != "front-end-42" {
		t.Fatalf("context ID = %q; want front-end-42", w.Body.String())
	}
}

func TestRecovery_PanicBecomesJSON500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) {
		panic("wallet ledger corrupted")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(requestIDHeader, "rid-panic")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"code":"internal_error"`) || !strings.Contains(body, "rid-panic") {
		t.Fatalf("unexpected error body: %s", body)
	}
	logged := buf.String()
	if !strings.Contains(logged, "panic recovered") || !strings.Contains(logged, "wallet ledger corrupted") {
		t.Fatalf("panic not logged: %s", logged)
	}
	if !strings.Contains(logged, "rid-panic") {
		t.Fatalf("correlation ID missing from panic log: %s", logged)
	}
}

func TestRecovery_DoesNotRewriteStartedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(Recovery())
	r.GET("/half", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("after write")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/half", nil))

	// The JSON envelope must not be appended to a started response.
	if strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("error envelope written over a started response: %s", w.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("late panic not logged: %s", buf.String())
	}
}

func TestLoggerFrom_FallbackWithoutAccessLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.GET("/bare", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("custom")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bare", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(buf.String(), `"message":"custom"`) {
		t.Fatalf("fallback logger did not emit: %s", buf.String())
	}
	if strings.Contains(buf.String(), `"request_id"`) {
		t.Fatalf("fallback logger unexpectedly carries request fields")
	}
}

func TestLoggerFrom_ScopedCarriesRequestFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withCapturedLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}))
	r.GET("/scoped", func(c *gin.Context) {
		var buf bytes.Buffer
		lg := LoggerFrom(c).Output(&buf)
		lg.Info().Msg("inside handler")
		if !strings.Contains(buf.String(), `"path":"/scoped"`) {
			t.Errorf("scoped logger missing path field: %s", buf.String())
		}
		if !strings.Contains(buf.String(), `"request_id":"rid-scope"`) {
			t.Errorf("scoped logger missing request_id: %s", buf.String())
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
	req.Header.Set(requestIDHeader, "rid-scope")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func Test_asString(t *testing.T) {
	if asString("x") != "x" {
		t.Fatalf("string passthrough failed")
	}
	if asString(123) != "" || asString(nil) != "" {
		t.Fatalf("non-strings must map to empty")
	}
}
