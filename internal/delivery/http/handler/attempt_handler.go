package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/infinity-exam/quizfront/internal/delivery/http/domain"
	"github.com/infinity-exam/quizfront/internal/delivery/http/entity"
	"github.com/infinity-exam/quizfront/internal/delivery/http/usecase"
	"github.com/infinity-exam/quizfront/internal/pkg/mapper"
	"github.com/infinity-exam/quizfront/internal/pkg/validate"
	"github.com/infinity-exam/quizfront/internal/state"
	"github.com/sirupsen/logrus"
)

type (
	AttemptHandler interface {
		StartPage(ctx *fiber.Ctx) error
		StartAttempt(ctx *fiber.Ctx) error
		TestingPage(ctx *fiber.Ctx) error
		SubmitAnswer(ctx *fiber.Ctx) error
		Finish(ctx *fiber.Ctx) error
	}

	attemptHandler struct {
		validator *validate.Validator
		logger    *logrus.Logger
		flow      usecase.AttemptFlow
		dialogues usecase.DialogueManager
		store     state.Store
	}
)

func NewAttemptHandler(validator *validate.Validator, logger *logrus.Logger, flow usecase.AttemptFlow, dialogues usecase.DialogueManager, store state.Store) AttemptHandler {
	return &attemptHandler{
		validator: validator,
		logger:    logger,
		flow:      flow,
		dialogues: dialogues,
		store:     store,
	}
}

// GET /start
func (h *attemptHandler) StartPage(ctx *fiber.Ctx) error {
	user := currentUser(ctx)
	return ctx.Render("start", fiber.Map{
		"UserEmail": user.Email,
	})
}

// POST /start. Every start creates a fresh attempt; finished attempts
// are never resumed from here.
func (h *attemptHandler) StartAttempt(ctx *fiber.Ctx) error {
	var req entity.StartAttemptRequest
	// An empty code falls back to the configured one, so parse errors
	// are not fatal here.
	_ = ctx.BodyParser(&req)

	cred := credential(ctx)
	attempt, err := h.flow.Start(ctx.UserContext(), cred, req.AccessCode)
	relayCookies(ctx, cred)
	if err != nil {
		user := currentUser(ctx)
		return ctx.Render("start", fiber.Map{
			"UserEmail": user.Email,
			"Error":     err.Error(),
		})
	}

	return ctx.Redirect(testingPath(attempt.ID, 1), fiber.StatusSeeOther)
}

// GET /testing/:attemptId?pos=N
func (h *attemptHandler) TestingPage(ctx *fiber.Ctx) error {
	id, err := attemptID(ctx)
	if err != nil {
		return ctx.Redirect("/start", fiber.StatusFound)
	}

	cred := credential(ctx)
	sid := sessionID(ctx)

	questions, err := h.flow.Questions(ctx.UserContext(), cred, sid, id)
	relayCookies(ctx, cred)
	if err != nil {
		return ctx.Render("error", fiber.Map{
			"Message": err.Error(),
		})
	}
	if len(questions) == 0 {
		return ctx.Render("error", fiber.Map{
			"Message": domain.ATTEMPT_QUESTIONS_FAILED,
		})
	}

	view := h.store.GetOrCreate(sid, id)

	position := ctx.QueryInt("pos")
	if position < 1 || position > len(questions) {
		position = view.ActivePosition()
	}
	if position < 1 || position > len(questions) {
		position = 1
	}

	dialogue := h.dialogues.Visit(ctx.UserContext(), cred, sid, id, position)

	user := currentUser(ctx)
	vm := mapper.ToTestingView(id, user.Email, position, questions, view, dialogue.ThreadID, dialogue.Err)
	return ctx.Render("testing", vm)
}

// POST /testing/:attemptId/answer
func (h *attemptHandler) SubmitAnswer(ctx *fiber.Ctx) error {
	id, err := attemptID(ctx)
	if err != nil {
		return ctx.Redirect("/start", fiber.StatusFound)
	}

	sid := sessionID(ctx)
	view := h.store.GetOrCreate(sid, id)

	var req entity.SubmitAnswerRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		// Blocked locally, nothing was sent to the backend.
		view.SetFlash(domain.ANSWER_EMPTY)
		return ctx.Redirect(testingPath(id, req.Position), fiber.StatusSeeOther)
	}

	cred := credential(ctx)
	outcome, err := h.flow.SubmitAnswer(ctx.UserContext(), cred, sid, id, req.Position, req.Text)
	relayCookies(ctx, cred)

	if outcome.Finalized {
		view.SetFlash(domain.ATTEMPT_FINISHED)
		return ctx.Redirect(resultsPath(id), fiber.StatusSeeOther)
	}
	if err != nil {
		// Covers both a rejected answer and a failed auto-finalize; in
		// the latter case the answer itself is already recorded.
		view.SetFlash(err.Error())
		return ctx.Redirect(testingPath(id, req.Position), fiber.StatusSeeOther)
	}

	view.SetFlash(domain.ANSWER_SAVED)
	return ctx.Redirect(testingPath(id, req.Position), fiber.StatusSeeOther)
}

// POST /testing/:attemptId/finish. The confirmation happens in the
// browser before this request is made.
func (h *attemptHandler) Finish(ctx *fiber.Ctx) error {
	id, err := attemptID(ctx)
	if err != nil {
		return ctx.Redirect("/start", fiber.StatusFound)
	}

	cred := credential(ctx)
	finishErr := h.flow.Finish(ctx.UserContext(), cred, id)
	relayCookies(ctx, cred)
	if finishErr != nil {
		view := h.store.GetOrCreate(sessionID(ctx), id)
		view.SetFlash(finishErr.Error())
		return ctx.Redirect(testingPath(id, 0), fiber.StatusSeeOther)
	}

	return ctx.Redirect(resultsPath(id), fiber.StatusSeeOther)
}
