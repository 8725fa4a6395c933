package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/infinity-exam/quizfront/internal/backend"
	"github.com/infinity-exam/quizfront/internal/delivery/http/domain"
	"github.com/infinity-exam/quizfront/internal/delivery/http/entity"
	"github.com/infinity-exam/quizfront/internal/pkg/validate"
	"github.com/sirupsen/logrus"
)

type (
	AuthHandler interface {
		RegisterPage(ctx *fiber.Ctx) error
		Register(ctx *fiber.Ctx) error
		LoginPage(ctx *fiber.Ctx) error
		Login(ctx *fiber.Ctx) error
		Logout(ctx *fiber.Ctx) error
	}

	authHandler struct {
		validator *validate.Validator
		logger    *logrus.Logger
		backend   *backend.Client
	}
)

func NewAuthHandler(validator *validate.Validator, logger *logrus.Logger, client *backend.Client) AuthHandler {
	return &authHandler{
		validator: validator,
		logger:    logger,
		backend:   client,
	}
}

// GET /register
func (h *authHandler) RegisterPage(ctx *fiber.Ctx) error {
	return ctx.Render("register", fiber.Map{})
}

// POST /register
func (h *authHandler) Register(ctx *fiber.Ctx) error {
	var req entity.RegisterRequest

	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return ctx.Render("register", fiber.Map{
			"Error": formError(err, domain.AUTH_REGISTER_FAILED),
			"Email": req.Email,
		})
	}

	cred := credential(ctx)
	if _, err := h.backend.Register(ctx.UserContext(), cred, req.Email, req.Password, req.ConfirmPassword); err != nil {
		relayCookies(ctx, cred)
		return ctx.Render("register", fiber.Map{
			"Error": err.Error(),
			"Email": req.Email,
		})
	}

	relayCookies(ctx, cred)
	return ctx.Redirect("/start", fiber.StatusSeeOther)
}

// GET /login
func (h *authHandler) LoginPage(ctx *fiber.Ctx) error {
	return ctx.Render("login", fiber.Map{})
}

// POST /login. A rejected login leaves no session behind: the form is
// redisplayed with the backend's message, verbatim.
func (h *authHandler) Login(ctx *fiber.Ctx) error {
	var req entity.LoginRequest

	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		return ctx.Render("login", fiber.Map{
			"Error": formError(err, domain.AUTH_LOGIN_FAILED),
			"Email": req.Email,
		})
	}

	cred := credential(ctx)
	if _, err := h.backend.Login(ctx.UserContext(), cred, req.Email, req.Password); err != nil {
		relayCookies(ctx, cred)
		return ctx.Render("login", fiber.Map{
			"Error": err.Error(),
			"Email": req.Email,
		})
	}

	relayCookies(ctx, cred)
	return ctx.Redirect("/start", fiber.StatusSeeOther)
}

// POST /logout. The logout response is ignored apart from its cookies.
func (h *authHandler) Logout(ctx *fiber.Ctx) error {
	cred := credential(ctx)
	if err := h.backend.Logout(ctx.UserContext(), cred); err != nil {
		h.logger.WithError(err).Warn("logout failed")
	}

	relayCookies(ctx, cred)
	return ctx.Redirect("/login", fiber.StatusSeeOther)
}

func formError(err error, fallback string) string {
	var fields *validate.FieldsError
	if errors.As(err, &fields) {
		return fields.Summary()
	}
	if err != nil {
		return err.Error()
	}
	return fallback
}
