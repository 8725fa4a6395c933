// Package state holds the transient per-browser-session view of one
// test attempt. Nothing here survives a process restart; the remote
// backend owns all durable data.
package state

import (
	"sync"

	"github.com/infinity-exam/quizfront/internal/backend"
)

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Entry is one visible transcript line for the active position.
type Entry struct {
	Speaker Speaker
	Text    string
}

// Store keeps attempt views keyed by the local session id and attempt
// id. A view lives for the page lifetime of one attempt in one browser
// session.
type Store interface {
	GetOrCreate(sessionID string, attemptID uint64) *AttemptView
	Get(sessionID string, attemptID uint64) (*AttemptView, bool)
	Drop(sessionID string, attemptID uint64)
}

// AttemptView is the in-memory state of one attempt as seen by one
// browser session. The dialogue handle map is durable for the view's
// lifetime; the transcript belongs to the active position only and is
// wiped on every position switch.
type AttemptView struct {
	mu sync.Mutex

	questions []backend.Question
	active    int

	answers           map[uint64]string
	answeredPositions map[int]bool
	handles           map[int]string
	dialogueErrs      map[int]string
	transcript        []Entry
	flash             string
}

func newAttemptView() *AttemptView {
	return &AttemptView{
		active:            1,
		answers:           make(map[uint64]string),
		answeredPositions: make(map[int]bool),
		handles:           make(map[int]string),
		dialogueErrs:      make(map[int]string),
	}
}

// SetQuestions stores the ordered question list. The list is fetched
// once per view and treated as immutable afterwards; later calls are
// ignored.
func (v *AttemptView) SetQuestions(questions []backend.Question) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.questions != nil {
		return
	}
	v.questions = make([]backend.Question, len(questions))
	copy(v.questions, questions)
}

// Questions returns a copy of the stored list, or nil when the list has
// not been fetched yet.
func (v *AttemptView) Questions() []backend.Question {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.questions == nil {
		return nil
	}
	out := make([]backend.Question, len(v.questions))
	copy(out, v.questions)
	return out
}

func (v *AttemptView) QuestionCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.questions)
}

// QuestionAt returns the question at a 1-based position.
func (v *AttemptView) QuestionAt(position int) (backend.Question, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if position < 1 || position > len(v.questions) {
		return backend.Question{}, false
	}
	return v.questions[position-1], true
}

// Visit makes position the active one. Switching away from the previous
// position clears the transcript; the dialogue handle map is untouched.
func (v *AttemptView) Visit(position int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if position == v.active {
		return
	}
	v.active = position
	v.transcript = nil
}

func (v *AttemptView) ActivePosition() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Handle returns the dialogue thread id created for a position, if any.
func (v *AttemptView) Handle(position int) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	threadID, ok := v.handles[position]
	return threadID, ok
}

// SetHandle stores a freshly created thread id for a position. A handle
// is created at most once per position per view; an existing entry is
// never overwritten and the call reports whether the new id was kept.
func (v *AttemptView) SetHandle(position int, threadID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.handles[position]; ok {
		return false
	}
	v.handles[position] = threadID
	delete(v.dialogueErrs, position)
	return true
}

func (v *AttemptView) SetDialogueError(position int, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dialogueErrs[position] = message
}

func (v *AttemptView) DialogueError(position int) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dialogueErrs[position]
}

// RecordAnswer remembers a successfully submitted answer, keyed by the
// question's own id, and marks the position as answered.
func (v *AttemptView) RecordAnswer(questionID uint64, position int, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.answers[questionID] = text
	v.answeredPositions[position] = true
}

func (v *AttemptView) Answered(position int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.answeredPositions[position]
}

func (v *AttemptView) AnswerText(questionID uint64) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	text, ok := v.answers[questionID]
	return text, ok
}

// Append adds a transcript entry for the given position. The entry is
// dropped when the position is no longer active, so a reply that
// settles after the user switched questions never lands in the wrong
// transcript.
func (v *AttemptView) Append(position int, entry Entry) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if position != v.active {
		return false
	}
	v.transcript = append(v.transcript, entry)
	return true
}

// Transcript returns a copy of the visible message history for the
// active position.
func (v *AttemptView) Transcript() []Entry {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Entry, len(v.transcript))
	copy(out, v.transcript)
	return out
}

func (v *AttemptView) SetFlash(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.flash = message
}

// TakeFlash returns the pending notice and clears it.
func (v *AttemptView) TakeFlash() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	flash := v.flash
	v.flash = ""
	return flash
}
