package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/infinity-exam/quizfront/internal/delivery/http/usecase"
	"github.com/infinity-exam/quizfront/internal/pkg/mapper"
	"github.com/infinity-exam/quizfront/internal/state"
	"github.com/sirupsen/logrus"
)

type (
	ResultsHandler interface {
		ResultsPage(ctx *fiber.Ctx) error
	}

	resultsHandler struct {
		logger *logrus.Logger
		flow   usecase.AttemptFlow
		store  state.Store
	}
)

func NewResultsHandler(logger *logrus.Logger, flow usecase.AttemptFlow, store state.Store) ResultsHandler {
	return &resultsHandler{
		logger: logger,
		flow:   flow,
		store:  store,
	}
}

// GET /results/:attemptId. The result is fetched fresh on every render;
// a failure offers only the way back to the start page.
func (h *resultsHandler) ResultsPage(ctx *fiber.Ctx) error {
	id, err := attemptID(ctx)
	if err != nil {
		return ctx.Redirect("/start", fiber.StatusFound)
	}

	cred := credential(ctx)
	result, err := h.flow.Results(ctx.UserContext(), cred, id)
	relayCookies(ctx, cred)
	if err != nil {
		return ctx.Render("results", fiber.Map{
			"Error": err.Error(),
		})
	}

	// Question texts are a nicety; the view may be gone after a restart
	// and the page still renders from the result alone.
	view, ok := h.store.Get(sessionID(ctx), id)
	if ok {
		vm := mapper.ToResultView(id, result, view.Questions())
		return ctx.Render("results", fiber.Map{"Result": vm})
	}

	vm := mapper.ToResultView(id, result, nil)
	return ctx.Render("results", fiber.Map{"Result": vm})
}
