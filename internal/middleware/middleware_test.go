package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finpanel/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequestLogging(t *testing.T) {
	t.Run("assigns_a_request_id", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestLogging())

		var seen string
		r.GET("/ping", func(c *gin.Context) {
			seen = RequestID(c)
			c.Status(http.StatusOK)
		})

		w := serve(r, "/ping")

		header := w.Header().Get("X-Request-ID")
		if header == "" {
			t.Fatal("X-Request-ID header not set")
		}
		if seen != header {
			t.Errorf("RequestID(c) = %q, header = %q", seen, header)
		}
	})

	t.Run("ids_are_unique_per_request", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestLogging())
		r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		first := serve(r, "/ping").Header().Get("X-Request-ID")
		second := serve(r, "/ping").Header().Get("X-Request-ID")
		if first == second {
			t.Errorf("both requests got id %q", first)
		}
	})

	t.Run("missing_middleware_yields_empty_id", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/ping", nil)
		if got := RequestID(c); got != "" {
			t.Errorf("RequestID = %q, want empty", got)
		}
	})
}

func TestErrorHandler(t *testing.T) {
	errorBody := func(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		var body struct {
			Error map[string]any `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		return body.Error
	}

	newRouter := func(h gin.HandlerFunc) *gin.Engine {
		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/fail", h)
		return r
	}

	t.Run("app_error_keeps_code_and_status", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) {
			c.Error(apperrors.ErrCategoryNotFound)
		})

		w := serve(r, "/fail")

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
		body := errorBody(t, w)
		if body["code"] != "CATEGORY_NOT_FOUND" {
			t.Errorf("code = %v, want CATEGORY_NOT_FOUND", body["code"])
		}
	})

	t.Run("wrapped_cause_never_reaches_the_client", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) {
			c.Error(apperrors.Wrap(apperrors.ErrPersistenceFailed, errors.New("disk full")))
		})

		w := serve(r, "/fail")

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
		body := errorBody(t, w)
		if body["message"] != apperrors.ErrPersistenceFailed.Message {
			t.Errorf("message = %v, want sentinel message", body["message"])
		}
	})

	t.Run("plain_error_becomes_generic_internal", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) {
			c.Error(errors.New("sqlite: database is locked"))
		})

		w := serve(r, "/fail")

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
		body := errorBody(t, w)
		if body["code"] != apperrors.ErrInternalServer.Code {
			t.Errorf("code = %v, want %s", body["code"], apperrors.ErrInternalServer.Code)
		}
		if body["message"] == "sqlite: database is locked" {
			t.Error("internal detail leaked into the response")
		}
	})

	t.Run("no_error_leaves_response_alone", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		w := serve(r, "/fail")

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}
