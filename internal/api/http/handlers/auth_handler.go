package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/spec-kit/authgate/internal/api/dto"
	"github.com/spec-kit/authgate/internal/auth"
	"github.com/spec-kit/authgate/internal/domain"
	"github.com/spec-kit/authgate/internal/service"
	apperrors "github.com/spec-kit/authgate/pkg/util/errorutil"
)

// AuthHandler exposes the login and registration endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	gate     *auth.Gate
	homePath string
	logger   *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, gate *auth.Gate, homePath string, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: authService, gate: gate, homePath: homePath, logger: logger}
}

// LoginPage handles GET /login. Callers with a valid session go straight home.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if _, ok := h.gate.Current(c); ok {
		return c.Redirect(h.homePath, http.StatusFound)
	}
	return c.JSON(dto.FormPage{
		Title:  "Log in",
		Action: h.gate.LoginPath(),
		Method: http.MethodPost,
		Fields: dto.CredentialFields,
	})
}

// RegisterPage handles GET /register.
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return c.JSON(dto.FormPage{
		Title:  "Create account",
		Action: "/register",
		Method: http.MethodPost,
		Fields: dto.CredentialFields,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	form, err := parseCredentials(c)
	if err != nil {
		return err
	}
	result := h.auth.Login(c.UserContext(), form.Identifier(), form.Password)
	return h.complete(c, result)
}

// Register handles POST /register and POST /signup. A new account is logged in immediately.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	form, err := parseCredentials(c)
	if err != nil {
		return err
	}
	result := h.auth.Register(c.UserContext(), form.Identifier(), form.Password)
	return h.complete(c, result)
}

func (h *AuthHandler) complete(c *fiber.Ctx, result domain.AuthResult) error {
	if !result.OK() {
		return result.Err()
	}
	if err := h.gate.Issue(c, result.User); err != nil {
		h.logger.Error("failed to issue session", zap.String("user_id", result.User.ID), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	return c.Redirect(h.homePath, http.StatusSeeOther)
}

func parseCredentials(c *fiber.Ctx) (dto.CredentialsForm, error) {
	var form dto.CredentialsForm
	if err := c.BodyParser(&form); err != nil {
		return form, apperrors.NewInvalidPayload("invalid payload")
	}
	// Parsed values alias the pooled request buffer.
	form.Username = utils.CopyString(form.Username)
	form.Email = utils.CopyString(form.Email)
	form.Password = utils.CopyString(form.Password)
	return form, nil
}
