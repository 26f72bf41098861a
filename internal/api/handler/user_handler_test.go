package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

type stubUserService struct {
	registerFn   func(ctx context.Context, in ports.RegisterUserInput) (*ports.UserProfile, error)
	getFn        func(ctx context.Context, id string) (*ports.UserProfile, error)
	updateFn     func(ctx context.Context, id string, in ports.UpdateUserInput) (*ports.UserProfile, error)
	passwordFn   func(ctx context.Context, id string, in ports.ChangePasswordInput) error
	softDeleteFn func(ctx context.Context, id string) (bool, error)
	restoreFn    func(ctx context.Context, id string) (*ports.UserProfile, error)
	listFn       func(ctx context.Context, opts domain.PageOptions) (*ports.UserPageResult, error)
	searchFn     func(ctx context.Context, in ports.SearchUsersInput) (*ports.UserPageResult, error)
	assignFn     func(ctx context.Context, id string, roleIDs []string) (*ports.UserProfile, error)
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterUserInput) (*ports.UserProfile, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*ports.UserProfile, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) GetUserByEmail(ctx context.Context, email string) (*ports.UserProfile, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) (*ports.UserProfile, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) ChangePassword(ctx context.Context, id string, in ports.ChangePasswordInput) error {
	return s.passwordFn(ctx, id, in)
}

func (s *stubUserService) SoftDeleteUser(ctx context.Context, id string) (bool, error) {
	return s.softDeleteFn(ctx, id)
}

func (s *stubUserService) RestoreUser(ctx context.Context, id string) (*ports.UserProfile, error) {
	return s.restoreFn(ctx, id)
}

func (s *stubUserService) ListUsers(ctx context.Context, opts domain.PageOptions) (*ports.UserPageResult, error) {
	return s.listFn(ctx, opts)
}

func (s *stubUserService) SearchUsers(ctx context.Context, in ports.SearchUsersInput) (*ports.UserPageResult, error) {
	return s.searchFn(ctx, in)
}

func (s *stubUserService) AssignRoles(ctx context.Context, id string, roleIDs []string) (*ports.UserProfile, error) {
	return s.assignFn(ctx, id, roleIDs)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserHandler_Register_Success(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterUserInput) (*ports.UserProfile, error) {
			if in.Email != "alice@example.com" || in.FirstName != "Alice" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.UserProfile{ID: "u1", Email: in.Email, FirstName: in.FirstName, LastName: in.LastName, IsActive: true}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/v1/users/register",
		`{"email":"alice@example.com","password":"Str0ng!Passw0rd","first_name":"Alice","last_name":"Smith"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u1" || resp["email"] != "alice@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["password_hash"]; ok {
		t.Fatalf("password hash leaked in response")
	}
}

func TestUserHandler_Register_MissingFields(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterUserInput) (*ports.UserProfile, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/v1/users/register", `{"email":"not-an-email"}`)

	err := h.Register(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Violations) == 0 {
		t.Fatalf("expected per-field violations")
	}
}

func TestUserHandler_Register_Conflict(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterUserInput) (*ports.UserProfile, error) {
			return nil, domain.NewConflict(domain.CodeEmailTaken, "Email already registered")
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/v1/users/register",
		`{"email":"alice@example.com","password":"Str0ng!Passw0rd","first_name":"Alice","last_name":"Smith"}`)

	err := h.Register(c)
	var ce *domain.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if ce.Code != domain.CodeEmailTaken {
		t.Fatalf("code = %s", ce.Code)
	}
}

func TestUserHandler_Delete_ReportsIdempotence(t *testing.T) {
	for _, deleted := range []bool{true, false} {
		h := NewUserHandler(&stubUserService{
			softDeleteFn: func(ctx context.Context, id string) (bool, error) {
				return deleted, nil
			},
		})

		c, rec := newTestContext(t, http.MethodDelete, "/v1/users/u1", "")
		c.SetParamNames("id")
		c.SetParamValues("u1")

		if err := h.Delete(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp deleteUserResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp.Deleted != deleted {
			t.Fatalf("deleted = %v, want %v", resp.Deleted, deleted)
		}
	}
}

func TestUserHandler_Search_ParsesFilters(t *testing.T) {
	var got ports.SearchUsersInput
	h := NewUserHandler(&stubUserService{
		searchFn: func(ctx context.Context, in ports.SearchUsersInput) (*ports.UserPageResult, error) {
			got = in
			return &ports.UserPageResult{Items: []*ports.UserProfile{}}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodGet,
		"/v1/users/search?q=ali&email=example.com&is_active=true&page=3&limit=25&sort_by=email&sort_order=asc", "")

	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Query != "ali" || got.Email != "example.com" {
		t.Fatalf("filters = %+v", got)
	}
	if got.IsActive == nil || !*got.IsActive {
		t.Fatalf("is_active not parsed")
	}
	if got.Page.Page != 3 || got.Page.Limit != 25 || got.Page.SortBy != "email" || got.Page.SortOrder != "asc" {
		t.Fatalf("page options = %+v", got.Page)
	}
}

func TestUserHandler_Search_RejectsBadActiveFlag(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		searchFn: func(ctx context.Context, in ports.SearchUsersInput) (*ports.UserPageResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodGet, "/v1/users/search?is_active=maybe", "")

	err := h.Search(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_Update_PartialBody(t *testing.T) {
	var got ports.UpdateUserInput
	h := NewUserHandler(&stubUserService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateUserInput) (*ports.UserProfile, error) {
			got = in
			return &ports.UserProfile{ID: id, FirstName: "Alicia"}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodPut, "/v1/users/u1", `{"first_name":"Alicia","phone_number":""}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.FirstName == nil || *got.FirstName != "Alicia" {
		t.Fatalf("first name not passed through")
	}
	if got.PhoneNumber == nil || *got.PhoneNumber != "" {
		t.Fatalf("empty phone should arrive as a clear request")
	}
	if got.LastName != nil {
		t.Fatalf("absent fields must stay nil")
	}
}

func TestUserHandler_ChangePassword_NoContent(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		passwordFn: func(ctx context.Context, id string, in ports.ChangePasswordInput) error {
			if in.CurrentPassword != "old" || in.NewPassword != "new" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	})

	c, rec := newTestContext(t, http.MethodPut, "/v1/users/u1/password",
		`{"current_password":"old","new_password":"new","confirm_password":"new"}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
