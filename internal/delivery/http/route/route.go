package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/infinity-exam/quizfront/internal/delivery/http/handler"
	"github.com/infinity-exam/quizfront/internal/delivery/http/middleware"
)

type RouteConfig struct {
	Api             *fiber.App
	Middleware      *middleware.Middleware
	AuthHandler     handler.AuthHandler
	AttemptHandler  handler.AttemptHandler
	DialogueHandler handler.DialogueHandler
	ResultsHandler  handler.ResultsHandler
}

func Setup(c *RouteConfig) {
	c.Api.Use(recover.New())
	c.Api.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path}\n",
	}))
	c.Api.Use(c.Middleware.CorsMiddleware())
	c.Api.Use(c.Middleware.LocalSession())

	SetupAuthRoute(c.Api, c.AuthHandler, c.Middleware)
	SetupAttemptRoute(c.Api, c.AttemptHandler, c.DialogueHandler, c.ResultsHandler, c.Middleware)

	// Unknown routes land on the login page.
	c.Api.Use(func(ctx *fiber.Ctx) error {
		return ctx.Redirect("/login", fiber.StatusFound)
	})
}

func SetupAuthRoute(api *fiber.App, h handler.AuthHandler, m *middleware.Middleware) {
	api.Get("/register", m.RejectAuthenticated(), h.RegisterPage)
	api.Post("/register", m.RejectAuthenticated(), h.Register)
	api.Get("/login", h.LoginPage)
	api.Post("/login", h.Login)
	api.Post("/logout", h.Logout)
}

func SetupAttemptRoute(api *fiber.App, h handler.AttemptHandler, d handler.DialogueHandler, r handler.ResultsHandler, m *middleware.Middleware) {
	authed := api.Group("", m.Authenticate())
	{
		authed.Get("/start", h.StartPage)
		authed.Post("/start", h.StartAttempt)
		authed.Get("/testing/:attemptId", h.TestingPage)
		authed.Post("/testing/:attemptId/answer", h.SubmitAnswer)
		authed.Post("/testing/:attemptId/finish", h.Finish)
		authed.Post("/testing/:attemptId/ai/send", d.SendMessage)
		authed.Get("/results/:attemptId", r.ResultsPage)
	}
}
