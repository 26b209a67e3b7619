package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinolib/movie-storefront/internal/middleware"
	"github.com/kinolib/movie-storefront/internal/repository"
	"github.com/kinolib/movie-storefront/internal/service"
	"github.com/kinolib/movie-storefront/internal/utils"
)

// TooFastPath is the cooldown page the auth endpoints redirect to when
// the rate limiter denies a request.
const TooFastPath = "/v1/too-fast"

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth       *service.Auth
	Users      *repository.UserRepo
	Tokens     *repository.TokenRepo
	JWTSecret  string
	AccessTTL  int // minutes
	RefreshTTL int // days
}

func NewAuthHandler(auth *service.Auth, users *repository.UserRepo, tokens *repository.TokenRepo, jwtSecret string, accessTTLMin, refreshTTLDays int) *AuthHandler {
	return &AuthHandler{
		Auth:       auth,
		Users:      users,
		Tokens:     tokens,
		JWTSecret:  jwtSecret,
		AccessTTL:  accessTTLMin,
		RefreshTTL: refreshTTLDays,
	}
}

// ----- DTOs -----

type registerReq struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register: create the account, establish a session, return tokens.
// A rate-limit denial redirects to the cooldown page before anything is
// written.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	params := service.SignUpParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := params.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.SignUp(ctx, params, c.RealIP())
	if err == service.ErrRateLimited {
		return c.Redirect(http.StatusSeeOther, TooFastPath)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong during sign up."})
	}
	if !res.Success {
		status := http.StatusInternalServerError
		if res.Error == "User already exists." {
			status = http.StatusConflict
		}
		return c.JSON(status, echo.Map{"success": false, "error": res.Error})
	}
	return c.JSON(http.StatusCreated, toAuthResp(res))
}

// Login: verify credentials and return a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.SignIn(ctx, req.Email, req.Password, c.RealIP())
	if err == service.ErrRateLimited {
		return c.Redirect(http.StatusSeeOther, TooFastPath)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong during sign in."})
	}
	if !res.Success {
		status := http.StatusInternalServerError
		if res.Error == "Invalid credentials" {
			status = http.StatusUnauthorized
		}
		return c.JSON(status, echo.Map{"success": false, "error": res.Error})
	}
	return c.JSON(http.StatusOK, toAuthResp(res))
}

// Refresh: validate by hash, revoke the old token, issue a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	access, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.FullName, u.Role, h.AccessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.RefreshTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role, Status: u.Status},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

// Logout revokes the presented refresh token, ending that session.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated session's identity.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get(middleware.CtxUserID),
		"name":    c.Get(middleware.CtxName),
		"role":    c.Get(middleware.CtxRole),
	})
}

// TooFast is the cooldown page shown after a rate-limit redirect.
func TooFast(c echo.Context) error {
	return c.JSON(http.StatusTooManyRequests, echo.Map{
		"error":   "too_many_requests",
		"message": "Whoa, slow down there, speedy! Looks like you've been a little too eager. Take a breather and try again shortly.",
	})
}

func toAuthResp(res service.AuthResult) authResp {
	return authResp{
		User: userPart{
			ID:       res.User.ID,
			FullName: res.User.FullName,
			Email:    res.User.Email,
			Role:     res.User.Role,
			Status:   res.User.Status,
		},
		Access:  tokenPart{Token: res.Access.Token, Expires: res.Access.Exp},
		Refresh: tokenPart{Token: res.Refresh.Raw, Expires: res.Refresh.Exp},
	}
}
