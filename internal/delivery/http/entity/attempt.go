package entity

// SubmitAnswerRequest carries one answer for the question at the given
// 1-based position.
type SubmitAnswerRequest struct {
	Position int    `json:"position" form:"position" validate:"required,min=1"`
	Text     string `json:"text" form:"text" validate:"required"`
}

// ChatRequest is one outbound message to the AI dialogue of a position.
type ChatRequest struct {
	Position int    `json:"position" form:"position" validate:"required,min=1"`
	Message  string `json:"message" form:"message" validate:"required"`
}

type StartAttemptRequest struct {
	AccessCode string `json:"access_code" form:"access_code" validate:"required"`
}

// QuestionNav is one cell of the question navigator.
type QuestionNav struct {
	Position int
	Active   bool
	Answered bool
}

// TranscriptLine is one rendered chat message.
type TranscriptLine struct {
	FromUser bool
	Text     string
}

// TestingView is everything the testing page template needs.
type TestingView struct {
	AttemptID     uint64
	UserEmail     string
	Position      int
	Total         int
	QuestionText  string
	Answered      bool
	AnswerText    string
	Nav           []QuestionNav
	Transcript    []TranscriptLine
	ChatEnabled   bool
	DialogueError string
	Flash         string
	IsLast        bool
}

// ResultAnswerView is one scored answer row on the results page.
type ResultAnswerView struct {
	Number       int
	QuestionText string
	Text         string
	Correct      bool
}

// ResultView is the scored outcome of an attempt.
type ResultView struct {
	AttemptID uint64
	Score     uint64
	MaxScore  uint64
	Answers   []ResultAnswerView
}
