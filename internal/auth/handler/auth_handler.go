package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Yrcd27/mirror-auth-service/config"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/dto"
	"github.com/Yrcd27/mirror-auth-service/internal/auth/service"
	autherror "github.com/Yrcd27/mirror-auth-service/internal/errors"
	"github.com/Yrcd27/mirror-auth-service/pkg/constant"
)

type AuthHandler struct {
	userService *service.UserService
	cfg         *config.Config
	logger      *slog.Logger
}

func NewAuthHandler(userService *service.UserService, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, cfg: cfg, logger: logger}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid input",
		})
	}

	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	_, err := h.userService.Register(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrEmailAlreadyInUse) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		if isPolicyError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		return h.serverError(c, "Server error during registration", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid input",
		})
	}

	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	user, pair, err := h.userService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, autherror.ErrTooManyLoginAttempts):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many failed login attempts. Please try again later.",
			})
		case errors.Is(err, autherror.ErrInvalidCredentials):
			// Identical body for unknown email and wrong password.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid credentials",
			})
		default:
			return h.serverError(c, "Server error during login", err)
		}
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	return c.Status(fiber.StatusOK).JSON(dto.LoginResponse{
		Message: "Login successful",
		Token:   pair.AccessToken,
		User: dto.UserOutput{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	input := dto.RefreshInput{
		RefreshToken: c.Cookies(constant.RefreshTokenCookieName),
		IPAddress:    c.IP(),
		UserAgent:    string(c.Request().Header.UserAgent()),
	}

	// Deprecated compatibility shim for non-browser clients; off by default.
	if input.RefreshToken == "" && h.cfg.AllowRefreshTokenInBody {
		var body dto.RefreshInput
		if err := c.BodyParser(&body); err == nil {
			input.RefreshToken = body.RefreshToken
		}
	}

	pair, err := h.userService.Refresh(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, autherror.ErrRefreshTokenRequired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Refresh token required",
			})
		case errors.Is(err, autherror.ErrInvalidRefreshToken):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired refresh token",
			})
		case errors.Is(err, autherror.ErrIdentityNotFound):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "User not found",
			})
		default:
			return h.serverError(c, "Server error", err)
		}
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"accessToken": pair.AccessToken,
	})
}

// Logout always succeeds from the caller's perspective; revocation
// failures are logged inside the service and swallowed.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(constant.RefreshTokenCookieName)
	if refreshToken == "" && h.cfg.AllowRefreshTokenInBody {
		var body dto.RefreshInput
		if err := c.BodyParser(&body); err == nil {
			refreshToken = body.RefreshToken
		}
	}

	h.userService.Logout(c.Context(), refreshToken)
	h.clearRefreshCookie(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(string)

	user, err := h.userService.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, autherror.ErrIdentityNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return h.serverError(c, "Server error", err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.UserOutput{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(string)

	var input dto.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.userService.UpdateProfile(c.Context(), userID, input); err != nil {
		return h.serverError(c, "Server error", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Profile updated successfully",
	})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(string)

	var input dto.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.userService.ChangePassword(c.Context(), userID, input); err != nil {
		switch {
		case errors.Is(err, autherror.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid credentials",
			})
		case errors.Is(err, autherror.ErrIdentityNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		case isPolicyError(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		default:
			return h.serverError(c, "Server error", err)
		}
	}

	h.clearRefreshCookie(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(string)

	if err := h.userService.DeleteAccount(c.Context(), userID); err != nil {
		return h.serverError(c, "Server error", err)
	}

	h.clearRefreshCookie(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Account deleted successfully",
	})
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     constant.RefreshTokenCookieName,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.cfg.RefreshExpiryMin) * time.Minute),
		HTTPOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     constant.RefreshTokenCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

// serverError hides internals from production callers; the detail only
// reaches the logs.
func (h *AuthHandler) serverError(c *fiber.Ctx, message string, err error) error {
	h.logger.Error(message, "error", err, "path", c.Path())

	body := fiber.Map{"message": message}
	if h.cfg.Env == "development" {
		body["detail"] = err.Error()
	}

	return c.Status(fiber.StatusInternalServerError).JSON(body)
}
