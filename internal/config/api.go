package config

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/infinity-exam/quizfront/internal/pkg/response"
	"github.com/infinity-exam/quizfront/views"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func NewAPI(config *viper.Viper, log *logrus.Logger) *fiber.App {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")

	api := fiber.New(fiber.Config{
		AppName:      config.GetString("app.name"),
		ErrorHandler: ErrorHandler(log),
		Prefork:      config.GetBool("api.prefork"),
		Views:        engine,
		ViewsLayout:  "layout",
	})
	return api
}

func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= 500 {
			log.Error(err)
		}

		if ctx.Accepts("text/html") != "" {
			message := err.Error()
			if code >= 500 {
				message = "Internal Server Error"
			}
			return ctx.Status(code).Render("error", fiber.Map{
				"Message": message,
			})
		}

		if code >= 500 {
			return response.NewInternalServerError().Send(ctx)
		}
		return response.NewFailed(err.Error(), fiber.NewError(code, ""), log).Send(ctx)
	}
}
