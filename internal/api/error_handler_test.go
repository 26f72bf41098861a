package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
)

func invoke(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec, body
}

func TestErrorHandler_ValidationError(t *testing.T) {
	rec, body := invoke(t, domain.NewPolicyViolations([]string{
		"password must be at least 10 characters long",
		"password must contain at least one uppercase letter",
	}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body.Code != domain.CodeValidation {
		t.Fatalf("code = %s", body.Code)
	}
	if len(body.Details) != 2 {
		t.Fatalf("details = %v", body.Details)
	}
}

func TestErrorHandler_ConflictError(t *testing.T) {
	rec, body := invoke(t, domain.NewConflict(domain.CodeDeletedEmailExists,
		"An account with this email was previously deleted. Please contact an admin to restore it."))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body.Code != domain.CodeDeletedEmailExists {
		t.Fatalf("code = %s", body.Code)
	}
}

func TestErrorHandler_NotFound(t *testing.T) {
	rec, body := invoke(t, domain.ErrUserNotFound)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body.Error != "user not found" {
		t.Fatalf("error = %s", body.Error)
	}
}

func TestErrorHandler_EchoError(t *testing.T) {
	rec, body := invoke(t, echo.NewHTTPError(http.StatusUnauthorized, "invalid token"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body.Error != "invalid token" {
		t.Fatalf("error = %s", body.Error)
	}
}

func TestErrorHandler_UnexpectedError(t *testing.T) {
	rec, body := invoke(t, errors.New("mongo timeout"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal details leaked: %s", body.Error)
	}
}
