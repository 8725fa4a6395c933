package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/infinity-exam/quizfront/internal/backend"
	"github.com/infinity-exam/quizfront/internal/delivery/http/domain"
	"github.com/infinity-exam/quizfront/internal/state"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	ErrEmptyAnswer     = errors.New(domain.ANSWER_EMPTY)
	ErrAnswerRecorded  = errors.New(domain.ANSWER_ALREADY_SENT)
	ErrUnknownPosition = errors.New(domain.QUESTION_UNKNOWN_POS)
)

// AnswerOutcome reports what happened to one submitted answer. Saved is
// true once the answer call succeeded, even when the follow-up finalize
// of the last position failed. Finalized means the attempt was closed
// and the caller should move on to the results page.
type AnswerOutcome struct {
	Saved     bool
	Finalized bool
}

type (
	// AttemptFlow drives one attempt from start to the scored result:
	// NotStarted -> Started -> InProgress(position) -> Submitted.
	AttemptFlow interface {
		Start(ctx context.Context, cred *backend.Credential, accessCode string) (*backend.Attempt, error)
		Questions(ctx context.Context, cred *backend.Credential, sessionID string, attemptID uint64) ([]backend.Question, error)
		SubmitAnswer(ctx context.Context, cred *backend.Credential, sessionID string, attemptID uint64, position int, text string) (AnswerOutcome, error)
		Finish(ctx context.Context, cred *backend.Credential, attemptID uint64) error
		Results(ctx context.Context, cred *backend.Credential, attemptID uint64) (*backend.Result, error)
	}

	AttemptFlowConfig struct {
		Backend *backend.Client
		Store   state.Store
		Config  *viper.Viper
		Log     *logrus.Logger
	}

	attemptFlow struct {
		cfg AttemptFlowConfig
	}
)

func NewAttemptFlow(cfg AttemptFlowConfig) AttemptFlow {
	return &attemptFlow{cfg: cfg}
}

// Start creates a fresh attempt for the configured test. The test id
// and the default access code come from configuration; a code entered
// on the start page wins over the configured one.
func (u *attemptFlow) Start(ctx context.Context, cred *backend.Credential, accessCode string) (*backend.Attempt, error) {
	testID := u.cfg.Config.GetUint64("test.id")

	code := strings.TrimSpace(accessCode)
	if code == "" {
		code = u.cfg.Config.GetString("test.access_code")
	}

	attempt, err := u.cfg.Backend.StartAttempt(ctx, cred, testID, code)
	if err != nil {
		return nil, err
	}

	u.cfg.Log.WithField("attempt_id", attempt.ID).Info("attempt started")
	return attempt, nil
}

// Questions returns the attempt's ordered question list. The list is
// fetched from the backend once per view and served from the view
// afterwards, so it stays order-stable for the whole session.
func (u *attemptFlow) Questions(ctx context.Context, cred *backend.Credential, sessionID string, attemptID uint64) ([]backend.Question, error) {
	view := u.cfg.Store.GetOrCreate(sessionID, attemptID)

	if questions := view.Questions(); questions != nil {
		return questions, nil
	}

	questions, err := u.cfg.Backend.AttemptQuestions(ctx, cred, attemptID)
	if err != nil {
		return nil, err
	}

	view.SetQuestions(questions)
	return view.Questions(), nil
}

// SubmitAnswer validates locally, posts the answer, and finalizes the
// attempt automatically when the answered position is the last one.
// A finalize failure is returned as the error while the outcome still
// reports the answer as saved.
func (u *attemptFlow) SubmitAnswer(ctx context.Context, cred *backend.Credential, sessionID string, attemptID uint64, position int, text string) (AnswerOutcome, error) {
	if strings.TrimSpace(text) == "" {
		return AnswerOutcome{}, ErrEmptyAnswer
	}

	view := u.cfg.Store.GetOrCreate(sessionID, attemptID)

	question, ok := view.QuestionAt(position)
	if !ok {
		return AnswerOutcome{}, ErrUnknownPosition
	}
	if view.Answered(position) {
		return AnswerOutcome{}, ErrAnswerRecorded
	}

	if _, err := u.cfg.Backend.SubmitAnswer(ctx, cred, attemptID, position, text); err != nil {
		return AnswerOutcome{}, err
	}
	view.RecordAnswer(question.ID, position, text)

	if position != view.QuestionCount() {
		return AnswerOutcome{Saved: true}, nil
	}

	if err := u.cfg.Backend.FinalizeAttempt(ctx, cred, attemptID); err != nil {
		return AnswerOutcome{Saved: true}, err
	}
	return AnswerOutcome{Saved: true, Finalized: true}, nil
}

// Finish closes the attempt regardless of position. Unanswered trailing
// questions are the backend's business.
func (u *attemptFlow) Finish(ctx context.Context, cred *backend.Credential, attemptID uint64) error {
	return u.cfg.Backend.FinalizeAttempt(ctx, cred, attemptID)
}

func (u *attemptFlow) Results(ctx context.Context, cred *backend.Credential, attemptID uint64) (*backend.Result, error) {
	return u.cfg.Backend.Results(ctx, cred, attemptID)
}
