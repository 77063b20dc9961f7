package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

var errInvalidBody = domain.NewError(domain.KindBadRequest, "Invalid request body")

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register creates a user account and signs the caller in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.WithCause(errInvalidBody, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   res.Token,
		User:    res.Account,
	})
}

// Login exchanges email and password for a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.WithCause(errInvalidBody, err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.accounts.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   res.Token,
		User:    res.Account,
	})
}

// Me returns the caller's own account.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /auth/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	id, err := requester(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.GetProfile(c.Request().Context(), id.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// UpdateProfile changes the caller's username, email or password.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /auth/profile [put]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	id, err := requester(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return domain.WithCause(errInvalidBody, err)
	}

	err = h.accounts.UpdateProfile(c.Request().Context(), id.AccountID, ports.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Profile updated successfully"})
}

// DeleteAccount removes the caller's account.
//
// @Summary      Delete account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /auth/account [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	id, err := requester(c)
	if err != nil {
		return err
	}

	if err := h.accounts.DeleteAccount(c.Request().Context(), id.AccountID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Account deleted successfully"})
}

// ListUsers returns every account. Admin only.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Account
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /auth/users [get]
func (h *AccountHandler) ListUsers(c echo.Context) error {
	accounts, err := h.accounts.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// GetUser returns one account to its owner or an admin.
//
// @Summary      Get user by id
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /auth/users/{id} [get]
func (h *AccountHandler) GetUser(c echo.Context) error {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	account, err := h.accounts.GetProfile(c.Request().Context(), targetID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}
