// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"warden/config"
	deliverycontext "warden/internal/delivery/context"
	"warden/internal/delivery/http/middleware"
	"warden/internal/delivery/http/response"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/errors"
	"warden/internal/usecase"
)

// RefreshTokenCookie is the cookie carrying the refresh token in cookie delivery mode.
const RefreshTokenCookie = "refreshToken"

type registerRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// authResponse is the register and login payload. Tokens are omitted in cookie mode.
type authResponse struct {
	AccessToken  string             `json:"accessToken,omitempty"`
	RefreshToken string             `json:"refreshToken,omitempty"`
	User         *entity.PublicUser `json:"user"`
}

// AuthHandler exposes the credential lifecycle over HTTP.
type AuthHandler struct {
	uc         usecase.AuthUsecase
	logger     *slog.Logger
	cookieMode bool
	cookie     config.CookieConfig
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	h := &AuthHandler{
		uc:         uc,
		logger:     logger,
		cookieMode: cfg.HTTP.TokenDelivery == config.TokenDeliveryCookie,
		cookie:     cfg.HTTP.Cookie,
	}
	if cfg.Auth != nil {
		h.accessTTL = cfg.Auth.AccessTokenTTL
		h.refreshTTL = cfg.Auth.RefreshTokenTTL
	}

	return h
}

// Register handles account creation and returns the first session.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, h.deliver(c, output), "User registered successfully")
}

// Login handles password login and returns a new session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, h.deliver(c, output), "Login successful")
}

// RefreshToken rotates the presented refresh token.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	presented, ok := h.presentedRefreshToken(c)
	if !ok {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}

	tokens, err := h.uc.Refresh(c.Request().Context(), &usecase.RefreshInput{RefreshToken: presented})
	if err != nil {
		// A rejected cookie is useless to the client.
		if h.cookieMode && errors.Is(err, domainerrors.ErrRefreshTokenInvalid) {
			h.clearCookies(c)
		}

		return errors.WithStack(err)
	}

	if h.cookieMode {
		h.setCookies(c, tokens)

		return response.Success(c, http.StatusOK, nil, "Token refreshed successfully")
	}

	return response.Success(c, http.StatusOK, tokens, "Token refreshed successfully")
}

// Logout revokes the session of the presented refresh token. It always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	presented, _ := h.presentedRefreshToken(c)

	h.uc.Logout(c.Request().Context(), &usecase.LogoutInput{RefreshToken: presented})

	if h.cookieMode {
		h.clearCookies(c)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrAccessTokenInvalid.WrapMessage("no authenticated user")
	}

	user, err := h.uc.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Profile retrieved successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

// deliver writes the token pair as cookies or folds it into the response body.
func (h *AuthHandler) deliver(c echo.Context, output *usecase.AuthOutput) authResponse {
	if h.cookieMode {
		h.setCookies(c, &output.Tokens)

		return authResponse{User: output.User}
	}

	return authResponse{
		AccessToken:  output.Tokens.AccessToken,
		RefreshToken: output.Tokens.RefreshToken,
		User:         output.User,
	}
}

// presentedRefreshToken reads the refresh token from the cookie or the JSON body.
// ok is false only when a body was sent and could not be decoded.
func (h *AuthHandler) presentedRefreshToken(c echo.Context) (string, bool) {
	if h.cookieMode {
		if cookie, err := c.Cookie(RefreshTokenCookie); err == nil {
			return cookie.Value, true
		}

		return "", true
	}

	var req refreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return "", false
	}

	return req.RefreshToken, true
}

func (h *AuthHandler) setCookies(c echo.Context, tokens *entity.TokenPair) {
	c.SetCookie(h.newCookie(middleware.AccessTokenCookie, tokens.AccessToken, h.accessTTL))
	c.SetCookie(h.newCookie(RefreshTokenCookie, tokens.RefreshToken, h.refreshTTL))
}

func (h *AuthHandler) clearCookies(c echo.Context) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		cookie := h.newCookie(name, "", 0)
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		c.SetCookie(cookie)
	}
}

func (h *AuthHandler) newCookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     h.cookie.Path,
		Domain:   h.cookie.Domain,
		MaxAge:   int(ttl / time.Second),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
