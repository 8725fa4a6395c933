package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/infinity-exam/quizfront/internal/backend"
	"github.com/infinity-exam/quizfront/internal/delivery/http/domain"
	"github.com/infinity-exam/quizfront/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitCreatesDialogueOncePerPosition(t *testing.T) {
	var creations atomic.Int32
	_, dialogues, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creations.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"thread_id": "thread-1", "attempt_id": 7, "status": "created"})
	}))

	ctx := context.Background()
	cred := backend.NewCredential("")

	first := dialogues.Visit(ctx, cred, "s1", 7, 1)
	assert.Equal(t, "thread-1", first.ThreadID)

	// Away and back again, twice.
	dialogues.Visit(ctx, cred, "s1", 7, 2)
	revisit := dialogues.Visit(ctx, cred, "s1", 7, 1)
	dialogues.Visit(ctx, cred, "s1", 7, 2)
	dialogues.Visit(ctx, cred, "s1", 7, 1)

	assert.Equal(t, "thread-1", revisit.ThreadID)
	// One creation for each of the two positions, nothing more.
	assert.Equal(t, int32(2), creations.Load())
}

func TestFailedCreationDisablesSendForThatPositionOnly(t *testing.T) {
	_, dialogues, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/question/2/ai/start") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"thread_id": "thread-1", "attempt_id": 7, "status": "created"})
	}))

	ctx := context.Background()
	cred := backend.NewCredential("")

	one := dialogues.Visit(ctx, cred, "s1", 7, 1)
	require.Empty(t, one.Err)
	require.Equal(t, "thread-1", one.ThreadID)

	two := dialogues.Visit(ctx, cred, "s1", 7, 2)
	assert.Empty(t, two.ThreadID)
	assert.Equal(t, domain.AI_DIALOGUE_CREATE_FAILED, two.Err)

	// No handle, so sending on position 2 is refused before any call.
	err := dialogues.Send(ctx, cred, "s1", 7, 2, "помоги")
	assert.ErrorIs(t, err, ErrNoDialogue)

	// Position 1 keeps working.
	back := dialogues.Visit(ctx, cred, "s1", 7, 1)
	assert.Equal(t, "thread-1", back.ThreadID)
}

func TestSendAppendsOptimisticEntryAndReply(t *testing.T) {
	_, dialogues, store := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/ai/start") {
			_ = json.NewEncoder(w).Encode(map[string]any{"thread_id": "thread-1"})
			return
		}
		require.Contains(t, r.URL.Path, "/ai/thread-1/send")
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "вот подсказка"})
	}))

	ctx := context.Background()
	cred := backend.NewCredential("")

	dialogues.Visit(ctx, cred, "s1", 7, 1)
	require.NoError(t, dialogues.Send(ctx, cred, "s1", 7, 1, "как решить?"))

	view, ok := store.Get("s1", 7)
	require.True(t, ok)
	transcript := view.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, state.SpeakerUser, transcript[0].Speaker)
	assert.Equal(t, "как решить?", transcript[0].Text)
	assert.Equal(t, state.SpeakerAssistant, transcript[1].Speaker)
	assert.Equal(t, "вот подсказка", transcript[1].Text)
}

func TestSendFailureBecomesTranscriptEntry(t *testing.T) {
	_, dialogues, store := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/ai/start") {
			_ = json.NewEncoder(w).Encode(map[string]any{"thread_id": "thread-1"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "модель недоступна"})
	}))

	ctx := context.Background()
	cred := backend.NewCredential("")

	dialogues.Visit(ctx, cred, "s1", 7, 1)
	// The failure lands in the transcript, not in the error return.
	require.NoError(t, dialogues.Send(ctx, cred, "s1", 7, 1, "как решить?"))

	view, _ := store.Get("s1", 7)
	transcript := view.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, "как решить?", transcript[0].Text)
	assert.Equal(t, state.SpeakerAssistant, transcript[1].Speaker)
	assert.Equal(t, domain.AI_MESSAGE_PREFIX+"модель недоступна", transcript[1].Text)
}

func TestLateReplyAfterPositionSwitchIsDiscarded(t *testing.T) {
	var store state.Store
	var dialogues DialogueManager

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/ai/start") {
			_ = json.NewEncoder(w).Encode(map[string]any{"thread_id": "thread-1"})
			return
		}
		// The user switches to another question while the request is
		// still in flight.
		view, _ := store.Get("s1", 7)
		view.Visit(3)
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "опоздавший ответ"})
	})
	_, dialogues, store = newTestEnv(t, handler)

	ctx := context.Background()
	cred := backend.NewCredential("")

	dialogues.Visit(ctx, cred, "s1", 7, 1)
	require.NoError(t, dialogues.Send(ctx, cred, "s1", 7, 1, "вопрос"))

	view, _ := store.Get("s1", 7)
	assert.Equal(t, 3, view.ActivePosition())
	assert.Empty(t, view.Transcript())
}

func TestSendWithoutHandleIsRefused(t *testing.T) {
	var calls atomic.Int32
	_, dialogues, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	err := dialogues.Send(context.Background(), backend.NewCredential(""), "s1", 7, 4, "привет")
	assert.ErrorIs(t, err, ErrNoDialogue)
	assert.Equal(t, int32(0), calls.Load())
}

func TestBlankMessageIsNoOp(t *testing.T) {
	var calls atomic.Int32
	_, dialogues, _ := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"thread_id": "thread-1"})
	}))

	ctx := context.Background()
	cred := backend.NewCredential("")

	dialogues.Visit(ctx, cred, "s1", 7, 1)
	require.NoError(t, dialogues.Send(ctx, cred, "s1", 7, 1, "   "))

	// Only the dialogue creation hit the backend.
	assert.Equal(t, int32(1), calls.Load())
}
