package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/infinity-exam/quizfront/internal/delivery/http/domain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Credential carries the browser's ambient cookie header into backend
// calls and collects Set-Cookie headers the backend sends back, so the
// handler can relay them. No token is ever kept in application state.
type Credential struct {
	Cookie     string
	setCookies []string
}

func NewCredential(cookie string) *Credential {
	return &Credential{Cookie: cookie}
}

// SetCookies returns the Set-Cookie values collected from backend
// responses since the credential was created.
func (cr *Credential) SetCookies() []string {
	if cr == nil {
		return nil
	}
	return cr.setCookies
}

// APIError is a backend-rejected or failed request. Message is what the
// user sees: the body's error field when present, otherwise the
// per-operation fallback. Transport failures use status 0.
type APIError struct {
	Status  int
	Message string
	cause   error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.cause }

// Client wraps the remote quiz API under its /api base path.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

func New(config *viper.Viper, log *logrus.Logger) *Client {
	baseURL := strings.TrimRight(config.GetString("backend.base_url"), "/")

	timeout := time.Duration(config.GetInt("backend.timeout_seconds")) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) Register(ctx context.Context, cred *Credential, email, password, confirm string) (*User, error) {
	var user User
	err := c.do(ctx, cred, http.MethodPost, "/register", registerRequest{
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	}, &user, domain.AUTH_REGISTER_FAILED)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, cred *Credential, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, cred, http.MethodPost, "/login", loginRequest{
		Email:    email,
		Password: password,
	}, &user, domain.AUTH_LOGIN_FAILED)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context, cred *Credential) error {
	return c.do(ctx, cred, http.MethodPost, "/logout", nil, nil, domain.AUTH_LOGOUT_FAILED)
}

// CheckSession probes the ambient credential. A {authenticated:false}
// body is a normal response; only transport or decode failures error.
func (c *Client) CheckSession(ctx context.Context, cred *Credential) (*SessionStatus, error) {
	var status SessionStatus
	if err := c.do(ctx, cred, http.MethodGet, "/session", nil, &status, domain.SESSION_CHECK_FAILED); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) StartAttempt(ctx context.Context, cred *Credential, testID uint64, accessCode string) (*Attempt, error) {
	var attempt Attempt
	path := fmt.Sprintf("/tests/%d/attempt", testID)
	err := c.do(ctx, cred, http.MethodPost, path, startAttemptRequest{AccessCode: accessCode}, &attempt, domain.ATTEMPT_START_FAILED)
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (c *Client) AttemptQuestions(ctx context.Context, cred *Credential, attemptID uint64) ([]Question, error) {
	var questions []Question
	path := fmt.Sprintf("/attempt/%d/question", attemptID)
	if err := c.do(ctx, cred, http.MethodGet, path, nil, &questions, domain.ATTEMPT_QUESTIONS_FAILED); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, cred *Credential, attemptID uint64, position int, text string) (*Answer, error) {
	var answer Answer
	path := fmt.Sprintf("/attempt/%d/question/%d/submit", attemptID, position)
	err := c.do(ctx, cred, http.MethodPost, path, submitAnswerRequest{Text: text}, &answer, domain.ANSWER_SUBMIT_FAILED)
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (c *Client) FinalizeAttempt(ctx context.Context, cred *Credential, attemptID uint64) error {
	path := fmt.Sprintf("/attempt/%d/submit", attemptID)
	return c.do(ctx, cred, http.MethodPost, path, nil, nil, domain.ATTEMPT_FINISH_FAILED)
}

func (c *Client) StartDialogue(ctx context.Context, cred *Credential, attemptID uint64, position int) (*Dialogue, error) {
	var dialogue Dialogue
	path := fmt.Sprintf("/attempt/%d/question/%d/ai/start", attemptID, position)
	if err := c.do(ctx, cred, http.MethodPost, path, nil, &dialogue, domain.AI_DIALOGUE_CREATE_FAILED); err != nil {
		return nil, err
	}
	return &dialogue, nil
}

func (c *Client) SendDialogueMessage(ctx context.Context, cred *Credential, attemptID uint64, position int, threadID, message string) (*DialogueReply, error) {
	var reply DialogueReply
	path := fmt.Sprintf("/attempt/%d/question/%d/ai/%s/send", attemptID, position, threadID)
	err := c.do(ctx, cred, http.MethodPost, path, sendMessageRequest{Message: message}, &reply, domain.AI_MESSAGE_SEND_FAILED)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) Results(ctx context.Context, cred *Credential, attemptID uint64) (*Result, error) {
	var result Result
	path := fmt.Sprintf("/attempt/%d/result", attemptID)
	if err := c.do(ctx, cred, http.MethodGet, path, nil, &result, domain.RESULT_LOAD_FAILED); err != nil {
		return nil, err
	}
	return &result, nil
}

// do performs one credentialed JSON request. On a non-2xx status the
// body's error field becomes the failure message, falling back to the
// operation's localized default.
func (c *Client) do(ctx context.Context, cred *Credential, method, path string, body, out any, fallback string) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fallback, cause: err}
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &APIError{Message: fallback, cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if cred != nil && cred.Cookie != "" {
		req.Header.Set("Cookie", cred.Cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Warnf("backend request failed: %s %s", method, path)
		return &APIError{Message: fallback, cause: err}
	}
	defer resp.Body.Close()

	if cred != nil {
		cred.setCookies = append(cred.setCookies, resp.Header.Values("Set-Cookie")...)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: fallback, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fallback
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &failure); err == nil && failure.Error != "" {
			message = failure.Error
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &APIError{Status: resp.StatusCode, Message: fallback, cause: err}
		}
	}

	return nil
}
