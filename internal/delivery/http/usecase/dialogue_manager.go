package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/infinity-exam/quizfront/internal/backend"
	"github.com/infinity-exam/quizfront/internal/delivery/http/domain"
	"github.com/infinity-exam/quizfront/internal/state"
	"github.com/sirupsen/logrus"
)

var ErrNoDialogue = errors.New(domain.AI_DIALOGUE_PENDING)

// DialogueStatus describes the AI channel of the currently viewed
// position. Err is the creation failure of this visit; while it is set
// (and ThreadID is empty) sending stays disabled.
type DialogueStatus struct {
	ThreadID string
	Err      string
}

type (
	// DialogueManager owns one AI conversation per question position.
	// The handle map outlives position switches; the visible transcript
	// does not.
	DialogueManager interface {
		Visit(ctx context.Context, cred *backend.Credential, sessionID string, attemptID uint64, position int) DialogueStatus
		Send(ctx context.Context, cred *backend.Credential, sessionID string, attemptID uint64, position int, message string) error
	}

	DialogueManagerConfig struct {
		Backend *backend.Client
		Store   state.Store
		Log     *logrus.Logger
	}

	dialogueManager struct {
		cfg DialogueManagerConfig
	}
)

func NewDialogueManager(cfg DialogueManagerConfig) DialogueManager {
	return &dialogueManager{cfg: cfg}
}

// Visit makes position the active one, clearing the transcript when the
// position changed, and lazily creates the dialogue on first arrival.
// An existing handle is never recreated; only a failed creation may be
// retried on a later visit.
func (u *dialogueManager) Visit(ctx context.Context, cred *backend.Credential, sessionID string, attemptID uint64, position int) DialogueStatus {
	view := u.cfg.Store.GetOrCreate(sessionID, attemptID)
	view.Visit(position)

	if threadID, ok := view.Handle(position); ok {
		return DialogueStatus{ThreadID: threadID}
	}

	dialogue, err := u.cfg.Backend.StartDialogue(ctx, cred, attemptID, position)
	if err != nil {
		u.cfg.Log.WithError(err).WithFields(logrus.Fields{
			"attempt_id": attemptID,
			"position":   position,
		}).Warn("dialogue creation failed")
		view.SetDialogueError(position, err.Error())
		return DialogueStatus{Err: err.Error()}
	}

	view.SetHandle(position, dialogue.ThreadID)
	u.cfg.Log.WithFields(logrus.Fields{
		"attempt_id": attemptID,
		"position":   position,
		"thread_id":  dialogue.ThreadID,
	}).Info("dialogue created")

	return DialogueStatus{ThreadID: dialogue.ThreadID}
}

// Send routes one user message into the dialogue of the given position.
// The user entry is appended before the call settles; the reply, or a
// synthetic error entry, is appended afterwards. Entries are tagged
// with their position, so a reply that lands after the user moved to
// another question is discarded instead of polluting the new
// transcript.
func (u *dialogueManager) Send(ctx context.Context, cred *backend.Credential, sessionID string, attemptID uint64, position int, message string) error {
	if strings.TrimSpace(message) == "" {
		return nil
	}

	view := u.cfg.Store.GetOrCreate(sessionID, attemptID)

	threadID, ok := view.Handle(position)
	if !ok {
		return ErrNoDialogue
	}

	view.Append(position, state.Entry{Speaker: state.SpeakerUser, Text: message})

	reply, err := u.cfg.Backend.SendDialogueMessage(ctx, cred, attemptID, position, threadID, message)
	if err != nil {
		u.cfg.Log.WithError(err).WithFields(logrus.Fields{
			"attempt_id": attemptID,
			"position":   position,
		}).Warn("dialogue message failed")
		view.Append(position, state.Entry{Speaker: state.SpeakerAssistant, Text: domain.AI_MESSAGE_PREFIX + err.Error()})
		return nil
	}

	view.Append(position, state.Entry{Speaker: state.SpeakerAssistant, Text: reply.Response})
	return nil
}
