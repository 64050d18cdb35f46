package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "cattery/internal/errors"
)

func setupErrorRouter(handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/test", handler)
	return r
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "app_error",
			err:         apperrors.ErrCatNotFound,
			wantStatus:  http.StatusNotFound,
			wantCode:    "CAT_NOT_FOUND",
			wantMessage: "Cat not found",
		},
		{
			name:        "wrapped_app_error_hides_internal",
			err:         apperrors.Wrap(apperrors.ErrInternalServer, errors.New("pq: connection refused")),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "An internal error occurred",
		},
		{
			name:        "plain_error",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "An internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupErrorRouter(func(c *gin.Context) {
				_ = c.Error(tt.err)
			})
			rec := doRequest(r, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			errObj := parseBody(t, rec)["error"].(map[string]interface{})
			if errObj["code"] != tt.wantCode {
				t.Errorf("expected code %q, got %v", tt.wantCode, errObj["code"])
			}
			if errObj["message"] != tt.wantMessage {
				t.Errorf("expected message %q, got %v", tt.wantMessage, errObj["message"])
			}
			if _, ok := errObj["details"]; ok {
				t.Errorf("expected no details, got %v", errObj["details"])
			}
		})
	}
}

func TestErrorHandler_Details(t *testing.T) {
	details := map[string][]string{"name": {"name is required"}}
	r := setupErrorRouter(func(c *gin.Context) {
		_ = c.Error(apperrors.WithDetails(apperrors.ErrValidationFailed, details))
	})

	rec := doRequest(r, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	errObj := parseBody(t, rec)["error"].(map[string]interface{})
	got, ok := errObj["details"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected details object, got %v", errObj["details"])
	}
	msgs := got["name"].([]interface{})
	if len(msgs) != 1 || msgs[0] != "name is required" {
		t.Errorf("unexpected details: %v", got)
	}
}

func TestErrorHandler_ResponseAlreadyWritten(t *testing.T) {
	r := setupErrorRouter(func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
		_ = c.Error(errors.New("late failure"))
	})

	rec := doRequest(r, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
	if body := parseBody(t, rec); body["ok"] != true {
		t.Errorf("expected original body, got %v", body)
	}
}
