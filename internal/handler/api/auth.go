package api

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/service/auth"
	xhttp "github.com/Dheeraj-Sharma-gif/WeFn/pkg/http"
	xlogger "github.com/Dheeraj-Sharma-gif/WeFn/pkg/logger"
)

const userContextKey = "wefn.user"

// AuthHandler exposes account and session endpoints.
type AuthHandler struct {
	logger *xlogger.Logger
	auth   *auth.Service
}

func NewAuthHandler(logger *xlogger.Logger, svc *auth.Service) *AuthHandler {
	return &AuthHandler{logger: logger, auth: svc}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
}

func (h *AuthHandler) Register(c echo.Context) error {
	req := &models.RegisterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	u, err := h.auth.Register(c.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return xhttp.AppErrorResponse(c, xhttp.ConflictError(err.Error()))
		}
		h.logger.Error("register failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.CreatedResponse(c, map[string]string{"userId": u.ID})
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := &models.LoginRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sess, u, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError(err.Error()))
		case errors.Is(err, auth.ErrMaxSessions):
			return xhttp.AppErrorResponse(c, xhttp.ConflictError(err.Error()))
		default:
			h.logger.Error("login failed", xlogger.Error(err))
			return xhttp.InternalServerErrorResponse(c)
		}
	}
	return xhttp.SuccessResponse(c, models.AuthResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
		UserID:    u.ID,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), bearerToken(c)); err != nil {
		h.logger.Error("logout failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, "logged out")
}

// RequireSession resolves the bearer token and stores the user on the
// request context. Requests without a valid session are rejected.
func (h *AuthHandler) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := h.auth.Authenticate(c.Request().Context(), bearerToken(c))
			if err != nil {
				if errors.Is(err, auth.ErrSessionInvalid) {
					return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("session is invalid or expired"))
				}
				h.logger.Error("authenticate failed", xlogger.Error(err))
				return xhttp.InternalServerErrorResponse(c)
			}
			c.Set(userContextKey, u)
			return next(c)
		}
	}
}

// SessionUser returns the authenticated user set by RequireSession.
func SessionUser(c echo.Context) *models.User {
	u, _ := c.Get(userContextKey).(*models.User)
	return u
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
