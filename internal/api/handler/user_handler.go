package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/api/metrics"
	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /v1/users/register.
//
// @Summary      Register a new account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerUserRequest  true  "Account details"
// @Success      201   {object}  ports.UserProfile
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /v1/users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.service.Register(c.Request().Context(), ports.RegisterUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		var ce *domain.ConflictError
		if errors.As(err, &ce) {
			metrics.RegistrationConflictsTotal.WithLabelValues(ce.Code).Inc()
		}
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, profile)
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  ports.UserProfile
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	profile, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Update handles PUT /v1/users/:id.
//
// @Summary      Update a user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  ports.UserProfile
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.service.UpdateUser(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// ChangePassword handles PUT /v1/users/:id/password.
//
// @Summary      Change a user's password
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                 true  "User id"
// @Param        body  body  changePasswordRequest  true  "Password rotation"
// @Success      204   "password changed"
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{id}/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.ChangePassword(c.Request().Context(), c.Param("id"), ports.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/users/:id — a soft delete. Responds 200 with
// {"deleted": false} when the user was absent or already deleted, which
// keeps the operation idempotent.
//
// @Summary      Soft-delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  deleteUserResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	deleted, err := h.service.SoftDeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if deleted {
		metrics.UsersDeletedTotal.Inc()
	}
	return c.JSON(http.StatusOK, deleteUserResponse{Deleted: deleted})
}

// Restore handles POST /v1/users/:id/restore.
//
// @Summary      Restore a soft-deleted user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  ports.UserProfile
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/users/{id}/restore [post]
func (h *UserHandler) Restore(c echo.Context) error {
	profile, err := h.service.RestoreUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.UsersRestoredTotal.Inc()
	return c.JSON(http.StatusOK, profile)
}

// List handles GET /v1/users.
//
// @Summary      List users (paginated)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number (1-based)"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Param        sort_by     query     string  false  "Sort field"
// @Param        sort_order  query     string  false  "asc or desc"
// @Success      200         {object}  ports.UserPageResult
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	result, err := h.service.ListUsers(c.Request().Context(), pageOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Search handles GET /v1/users/search.
//
// @Summary      Search users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q          query     string  false  "Matches first name, last name, email or display name"
// @Param        email      query     string  false  "Partial email match"
// @Param        phone      query     string  false  "Partial phone match"
// @Param        is_active  query     bool    false  "Filter by active flag"
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  ports.UserPageResult
// @Router       /v1/users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	in := ports.SearchUsersInput{
		Query: c.QueryParam("q"),
		Email: c.QueryParam("email"),
		Phone: c.QueryParam("phone"),
		Page:  pageOptions(c),
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "is_active must be true or false")
		}
		in.IsActive = &active
	}

	result, err := h.service.SearchUsers(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// AssignRoles handles PUT /v1/users/:id/roles.
//
// @Summary      Replace a user's role assignments
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "User id"
// @Param        body  body      assignRolesRequest  true  "Role ids"
// @Success      200   {object}  ports.UserProfile
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{id}/roles [put]
func (h *UserHandler) AssignRoles(c echo.Context) error {
	var req assignRolesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.service.AssignRoles(c.Request().Context(), c.Param("id"), req.RoleIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// pageOptions reads page/limit/sort query params; out-of-range values are
// clamped by the service layer.
func pageOptions(c echo.Context) domain.PageOptions {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return domain.PageOptions{
		Page:      page,
		Limit:     limit,
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
}
