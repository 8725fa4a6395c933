package backend

// User is the account object returned by register/login/session.
type User struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// SessionStatus is the shape of GET /session. A not-authenticated
// response is a normal outcome, not an error.
type SessionStatus struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// Attempt is one run through a test, created by POST /tests/{id}/attempt.
type Attempt struct {
	ID     uint64 `json:"id"`
	TestID uint64 `json:"test_id,omitempty"`
	Status string `json:"status,omitempty"`
}

// Question is immutable once fetched. Its position within the attempt
// (1-based order in the fetched list) is the wire identifier for all
// per-question operations, not this ID.
type Question struct {
	ID   uint64 `json:"id"`
	Text string `json:"text"`
}

// Answer is a submitted answer as returned by the results endpoint.
type Answer struct {
	ID         uint64 `json:"id"`
	QuestionID uint64 `json:"question_id"`
	Text       string `json:"text"`
	Correct    bool   `json:"right_or_no"`
	CreatedAt  string `json:"created_at"`
}

// Result is the scored outcome of a finalized attempt.
type Result struct {
	Score   uint64   `json:"score"`
	Answers []Answer `json:"answers"`
}

// Dialogue is the handle returned when an AI dialogue is started for a
// question position.
type Dialogue struct {
	ThreadID  string `json:"thread_id"`
	AttemptID uint64 `json:"attempt_id"`
	Status    string `json:"status"`
}

// DialogueReply is the assistant's answer to one message.
type DialogueReply struct {
	Response string `json:"response"`
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type startAttemptRequest struct {
	AccessCode string `json:"access_code"`
}

type submitAnswerRequest struct {
	Text string `json:"text"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}
