package config

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/infinity-exam/quizfront/internal/backend"
	"github.com/infinity-exam/quizfront/internal/delivery/http/handler"
	"github.com/infinity-exam/quizfront/internal/delivery/http/middleware"
	"github.com/infinity-exam/quizfront/internal/delivery/http/route"
	"github.com/infinity-exam/quizfront/internal/delivery/http/usecase"
	"github.com/infinity-exam/quizfront/internal/pkg/validate"
	"github.com/infinity-exam/quizfront/internal/state"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	Api       *fiber.App
	Config    *viper.Viper
	Log       *logrus.Logger
	Validator *validate.Validator
}

func Bootstrap(config *BootstrapConfig) {
	client := backend.New(config.Config, config.Log)
	store := state.NewInMemoryStore()
	sessions := NewSessionStore(config.Config)

	mid := middleware.NewMiddleware(&middleware.MiddlewareConfig{
		Log:      config.Log,
		Config:   config.Config,
		Backend:  client,
		Sessions: sessions,
	})

	attemptFlow := usecase.NewAttemptFlow(usecase.AttemptFlowConfig{
		Backend: client,
		Store:   store,
		Config:  config.Config,
		Log:     config.Log,
	})
	dialogueManager := usecase.NewDialogueManager(usecase.DialogueManagerConfig{
		Backend: client,
		Store:   store,
		Log:     config.Log,
	})

	authHandler := handler.NewAuthHandler(config.Validator, config.Log, client)
	attemptHandler := handler.NewAttemptHandler(config.Validator, config.Log, attemptFlow, dialogueManager, store)
	dialogueHandler := handler.NewDialogueHandler(config.Validator, config.Log, dialogueManager, store)
	resultsHandler := handler.NewResultsHandler(config.Log, attemptFlow, store)

	route.Setup(&route.RouteConfig{
		Api:             config.Api,
		Middleware:      mid,
		AuthHandler:     authHandler,
		AttemptHandler:  attemptHandler,
		DialogueHandler: dialogueHandler,
		ResultsHandler:  resultsHandler,
	})
}

func NewSessionStore(config *viper.Viper) *session.Store {
	cookieName := config.GetString("session.cookie_name")
	if cookieName == "" {
		cookieName = "quizfront_session"
	}

	expiration := time.Duration(config.GetInt("session.expiration_hours")) * time.Hour
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}

	return session.New(session.Config{
		KeyLookup:      "cookie:" + cookieName,
		Expiration:     expiration,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}
