package config

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/infinity-exam/quizfront/internal/pkg/validate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp wires the full application against a fake remote API.
func newTestApp(t *testing.T, remote http.Handler) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(remote)
	t.Cleanup(srv.Close)

	config := viper.New()
	config.Set("app.name", "quizfront-test")
	config.Set("backend.base_url", srv.URL+"/api")
	config.Set("backend.timeout_seconds", 5)
	config.Set("test.id", 1)
	config.Set("test.access_code", "TEST-2025-INFINITY")

	log := logrus.New()
	log.SetOutput(io.Discard)

	api := NewAPI(config, log)
	Bootstrap(&BootstrapConfig{
		Api:       api,
		Config:    config,
		Log:       log,
		Validator: validate.NewValidator(),
	})
	return api
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookies ...string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.Header.Add("Cookie", c)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path string, cookies ...string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.Header.Add("Cookie", c)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func unauthenticatedRemote() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/session" {
			_ = json.NewEncoder(w).Encode(map[string]any{"authenticated": false})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "не авторизован"})
	})
}

func TestUnknownRouteRedirectsToLogin(t *testing.T) {
	app := newTestApp(t, unauthenticatedRemote())

	resp := get(t, app, "/nowhere")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestUnauthenticatedUserIsKeptOffProtectedPages(t *testing.T) {
	app := newTestApp(t, unauthenticatedRemote())

	for _, path := range []string{"/start", "/testing/1", "/results/1"} {
		resp := get(t, app, path)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestFailedLoginRedisplaysFormWithBackendMessage(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Неверный пароль"})
	}))

	resp := postForm(t, app, "/login", url.Values{
		"email":    {"u@example.com"},
		"password": {"wrong"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Неверный пароль")
	// No backend session cookie was handed out.
	for _, c := range resp.Header.Values("Set-Cookie") {
		assert.NotContains(t, c, "backend_sid")
	}
}

func TestSuccessfulLoginRelaysSessionCookieAndRedirects(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Set-Cookie", "backend_sid=xyz; Path=/; HttpOnly")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "email": "u@example.com"})
	}))

	resp := postForm(t, app, "/login", url.Values{
		"email":    {"u@example.com"},
		"password": {"secret"},
	})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/start", resp.Header.Get("Location"))

	var relayed bool
	for _, c := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(c, "backend_sid=xyz") {
			relayed = true
		}
	}
	assert.True(t, relayed, "backend session cookie must reach the browser")
}

func TestRegisterPageRejectsAuthenticatedUsers(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"authenticated": true,
			"user":          map[string]any{"id": 1, "email": "u@example.com"},
		})
	}))

	resp := get(t, app, "/register")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

// authenticatedRemote emulates the backend for a whole attempt: seven
// questions, answers accepted, dialogue per position, scored result.
func authenticatedRemote(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"authenticated": true,
			"user":          map[string]any{"id": 1, "email": "u@example.com"},
		})
	})
	mux.HandleFunc("/api/tests/1/attempt", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "TEST-2025-INFINITY", body["access_code"])
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 42})
	})
	mux.HandleFunc("/api/attempt/42/question", func(w http.ResponseWriter, r *http.Request) {
		questions := make([]map[string]any, 7)
		for i := range questions {
			questions[i] = map[string]any{"id": 100 + i, "text": "Вопрос номер"}
		}
		_ = json.NewEncoder(w).Encode(questions)
	})
	mux.HandleFunc("/api/attempt/42/question/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/ai/start"):
			_ = json.NewEncoder(w).Encode(map[string]any{"thread_id": "thread-1", "attempt_id": 42, "status": "created"})
		case strings.HasSuffix(r.URL.Path, "/send"):
			_ = json.NewEncoder(w).Encode(map[string]string{"response": "подсказка"})
		case strings.HasSuffix(r.URL.Path, "/submit"):
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 1})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	mux.HandleFunc("/api/attempt/42/submit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/attempt/42/result", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"score": 5,
			"answers": []map[string]any{
				{"id": 1, "question_id": 100, "text": "ответ", "right_or_no": true, "created_at": "2025-01-01T00:00:00Z"},
			},
		})
	})
	return mux
}

// localSession pulls the quizfront session cookie from a response so
// later requests belong to the same view state.
func localSession(resp *http.Response) string {
	for _, c := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(c, "quizfront_session=") {
			return strings.SplitN(c, ";", 2)[0]
		}
	}
	return ""
}

func TestAttemptJourney(t *testing.T) {
	app := newTestApp(t, authenticatedRemote(t))

	// Start a fresh attempt.
	resp := postForm(t, app, "/start", url.Values{})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/testing/42?pos=1", resp.Header.Get("Location"))
	sid := localSession(resp)
	require.NotEmpty(t, sid)

	// First question renders with an enabled AI form.
	resp = get(t, app, "/testing/42?pos=1", sid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Вопрос номер")
	assert.Contains(t, string(body), "вопрос 1 из 7")

	// Ask the assistant; the reply shows up after the redirect.
	resp = postForm(t, app, "/testing/42/ai/send", url.Values{
		"position": {"1"},
		"message":  {"как решить?"},
	}, sid)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp = get(t, app, "/testing/42?pos=1", sid)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "как решить?")
	assert.Contains(t, string(body), "подсказка")

	// Switching the question clears the visible transcript.
	resp = get(t, app, "/testing/42?pos=2", sid)
	body, _ = io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "подсказка")

	// A non-final answer stays on the testing page.
	resp = postForm(t, app, "/testing/42/answer", url.Values{
		"position": {"2"},
		"text":     {"мой ответ"},
	}, sid)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/testing/42?pos=2", resp.Header.Get("Location"))

	// Answering the last question finalizes and lands on the results.
	resp = postForm(t, app, "/testing/42/answer", url.Values{
		"position": {"7"},
		"text":     {"последний"},
	}, sid)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/results/42", resp.Header.Get("Location"))

	resp = get(t, app, "/results/42", sid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Ваша оценка: 5")
	assert.Contains(t, string(body), "Верно")
}

func TestResultsFailureOffersWayBack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"authenticated": true,
			"user":          map[string]any{"id": 1, "email": "u@example.com"},
		})
	})
	mux.HandleFunc("/api/attempt/42/result", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "попытка не найдена"})
	})
	app := newTestApp(t, mux)

	resp := get(t, app, "/results/42")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "попытка не найдена")
	assert.Contains(t, string(body), "/start")
}
