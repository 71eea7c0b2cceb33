package middleware

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	deliverycontext "warden/internal/delivery/context"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/service"
)

// AccessTokenCookie is the cookie carrying the access token in cookie delivery mode.
const AccessTokenCookie = "accessToken"

const bearerPrefix = "Bearer "

// AuthMiddleware authenticates requests by their access token.
type AuthMiddleware struct {
	signer service.TokenSigner
	logger *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(signer service.TokenSigner, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{signer: signer, logger: logger}
}

// Authenticate verifies the access token from the Bearer header, falling back to the
// access token cookie, and stores the subject on the echo context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := accessTokenFrom(c)
		if tokenString == "" {
			return domainerrors.ErrAccessTokenInvalid.WrapMessage("access token is missing")
		}

		claims, err := m.signer.Verify(service.TokenKindAccess, tokenString)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Debug("Access token rejected", slog.Any("error", err))

			return domainerrors.ErrAccessTokenInvalid.WrapMessage("access token rejected")
		}

		deliverycontext.SetUserID(c, claims.SubjectID)

		return next(c)
	}
}

func accessTokenFrom(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		if !strings.HasPrefix(header, bearerPrefix) {
			return ""
		}

		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}
