package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/infinity-exam/quizfront/internal/delivery/http/entity"
	"github.com/infinity-exam/quizfront/internal/delivery/http/usecase"
	"github.com/infinity-exam/quizfront/internal/pkg/validate"
	"github.com/infinity-exam/quizfront/internal/state"
	"github.com/sirupsen/logrus"
)

type (
	DialogueHandler interface {
		SendMessage(ctx *fiber.Ctx) error
	}

	dialogueHandler struct {
		validator *validate.Validator
		logger    *logrus.Logger
		dialogues usecase.DialogueManager
		store     state.Store
	}
)

func NewDialogueHandler(validator *validate.Validator, logger *logrus.Logger, dialogues usecase.DialogueManager, store state.Store) DialogueHandler {
	return &dialogueHandler{
		validator: validator,
		logger:    logger,
		dialogues: dialogues,
		store:     store,
	}
}

// POST /testing/:attemptId/ai/send. AI failures never block the page:
// they end up in the transcript and the form comes back enabled.
func (h *dialogueHandler) SendMessage(ctx *fiber.Ctx) error {
	id, err := attemptID(ctx)
	if err != nil {
		return ctx.Redirect("/start", fiber.StatusFound)
	}

	var req entity.ChatRequest
	if err := h.validator.ParseAndValidate(ctx, &req); err != nil {
		// An empty message is a silent no-op.
		return ctx.Redirect(testingPath(id, req.Position), fiber.StatusSeeOther)
	}

	sid := sessionID(ctx)
	cred := credential(ctx)

	sendErr := h.dialogues.Send(ctx.UserContext(), cred, sid, id, req.Position, req.Message)
	relayCookies(ctx, cred)
	if sendErr != nil {
		if errors.Is(sendErr, usecase.ErrNoDialogue) {
			view := h.store.GetOrCreate(sid, id)
			view.SetFlash(sendErr.Error())
		} else {
			h.logger.WithError(sendErr).Warn("dialogue send failed")
		}
	}

	return ctx.Redirect(testingPath(id, req.Position), fiber.StatusSeeOther)
}
