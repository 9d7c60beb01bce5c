package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/store"
)

// memChatStore is an in-memory ChatStore with the same contract as the
// Postgres-backed one.
type memChatStore struct {
	conversations map[string]store.Conversation
	messages      map[string][]store.Message
	nextID        int
}

func newMemChatStore() *memChatStore {
	return &memChatStore{
		conversations: make(map[string]store.Conversation),
		messages:      make(map[string][]store.Message),
	}
}

func (s *memChatStore) FindOrCreateConversation(_ context.Context, a, b string) (store.Conversation, error) {
	pa, pb, err := store.NormalizePair(a, b)
	if err != nil {
		return store.Conversation{}, err
	}

	for _, conv := range s.conversations {
		if conv.ParticipantA == pa && conv.ParticipantB == pb {
			return conv, nil
		}
	}

	s.nextID++
	conv := store.Conversation{
		ID:           fmt.Sprintf("conv-%d", s.nextID),
		ParticipantA: pa,
		ParticipantB: pb,
		Members:      [2]string{pa, pb},
		CreatedAt:    time.Now(),
	}
	s.conversations[conv.ID] = conv
	return conv, nil
}

func (s *memChatStore) ListConversations(_ context.Context, username string) ([]store.Conversation, error) {
	convs := []store.Conversation{}
	for _, conv := range s.conversations {
		if conv.HasParticipant(username) {
			convs = append(convs, conv)
		}
	}
	return convs, nil
}

func (s *memChatStore) GetConversation(_ context.Context, id string) (store.Conversation, error) {
	conv, ok := s.conversations[id]
	if !ok {
		return store.Conversation{}, store.ErrNotFound
	}
	return conv, nil
}

func (s *memChatStore) ListMessages(_ context.Context, conversationID string) ([]store.Message, error) {
	return append([]store.Message{}, s.messages[conversationID]...), nil
}

func (s *memChatStore) AppendMessage(_ context.Context, conversationID, sender, text string) (store.Message, error) {
	conv, ok := s.conversations[conversationID]
	if !ok {
		return store.Message{}, store.ErrNotFound
	}

	s.nextID++
	msg := store.Message{
		ID:             fmt.Sprintf("msg-%d", s.nextID),
		ConversationID: conversationID,
		SenderUsername: sender,
		Text:           text,
		CreatedAt:      time.Now(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)

	conv.LastMessage = text
	conv.LastMessageAt = &msg.CreatedAt
	s.conversations[conversationID] = conv
	return msg, nil
}

func chatTestDeps() (*AppDeps, *memChatStore) {
	mem := newMemChatStore()
	return &AppDeps{Chat: mem}, mem
}

// authedRequest builds a request carrying an authenticated user and optional
// chi URL parameters.
func authedRequest(method, target, username string, body any, params map[string]string) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, target, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	ctx := context.WithValue(r.Context(), currentUserKey, store.User{
		ID:       "id-" + username,
		Username: username,
	})

	if len(params) > 0 {
		routeCtx := chi.NewRouteContext()
		for k, v := range params {
			routeCtx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}

	return r.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (int, map[string]any) {
	t.Helper()

	var envelope struct {
		Code int            `json:"code"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Code, envelope.Data
}

func TestOpenConversationOrderIndependent(t *testing.T) {
	deps, _ := chatTestDeps()
	handlerFn := HandleOpenConversation(deps)

	w1 := httptest.NewRecorder()
	handlerFn(w1, authedRequest(http.MethodPost, "/api/chat/conversations", "amelie",
		map[string]string{"otherUsername": "bruno"}, nil))
	require.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	handlerFn(w2, authedRequest(http.MethodPost, "/api/chat/conversations", "bruno",
		map[string]string{"otherUsername": "amelie"}, nil))
	require.Equal(t, http.StatusOK, w2.Code)

	var first, second store.Conversation
	var env1, env2 struct {
		Data store.Conversation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w1.Body.Bytes(), &env1))
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &env2))
	first, second = env1.Data, env2.Data

	// Both directions address the same record.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, [2]string{"amelie", "bruno"}, first.Members)
}

func TestOpenConversationIsIdempotent(t *testing.T) {
	deps, mem := chatTestDeps()
	handlerFn := HandleOpenConversation(deps)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handlerFn(w, authedRequest(http.MethodPost, "/api/chat/conversations", "amelie",
			map[string]string{"otherUsername": "bruno"}, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Len(t, mem.conversations, 1)
}

func TestOpenConversationRejectsSelf(t *testing.T) {
	deps, _ := chatTestDeps()

	w := httptest.NewRecorder()
	HandleOpenConversation(deps)(w, authedRequest(http.MethodPost, "/api/chat/conversations", "amelie",
		map[string]string{"otherUsername": "  amelie  "}, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOpenConversationRejectsEmptyOther(t *testing.T) {
	deps, _ := chatTestDeps()

	w := httptest.NewRecorder()
	HandleOpenConversation(deps)(w, authedRequest(http.MethodPost, "/api/chat/conversations", "amelie",
		map[string]string{"otherUsername": "   "}, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageAppendsAndUpdatesPreview(t *testing.T) {
	deps, mem := chatTestDeps()
	conv, err := mem.FindOrCreateConversation(context.Background(), "amelie", "bruno")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	HandleSendMessage(deps)(w, authedRequest(http.MethodPost, "/api/chat/conversations/"+conv.ID+"/messages", "amelie",
		map[string]string{"text": "  salut bruno  "}, map[string]string{"id": conv.ID}))

	require.Equal(t, http.StatusCreated, w.Code)

	msgs := mem.messages[conv.ID]
	require.Len(t, msgs, 1)
	assert.Equal(t, "salut bruno", msgs[0].Text)
	assert.Equal(t, "amelie", msgs[0].SenderUsername)

	updated := mem.conversations[conv.ID]
	assert.Equal(t, "salut bruno", updated.LastMessage)
	require.NotNil(t, updated.LastMessageAt)
	assert.Equal(t, msgs[0].CreatedAt, *updated.LastMessageAt)
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	deps, mem := chatTestDeps()
	conv, err := mem.FindOrCreateConversation(context.Background(), "amelie", "bruno")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	HandleSendMessage(deps)(w, authedRequest(http.MethodPost, "/api/chat/conversations/"+conv.ID+"/messages", "amelie",
		map[string]string{"text": "   "}, map[string]string{"id": conv.ID}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mem.messages[conv.ID])
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	deps, mem := chatTestDeps()
	conv, err := mem.FindOrCreateConversation(context.Background(), "amelie", "bruno")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	HandleSendMessage(deps)(w, authedRequest(http.MethodPost, "/api/chat/conversations/"+conv.ID+"/messages", "mallory",
		map[string]string{"text": "hello"}, map[string]string{"id": conv.ID}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, mem.messages[conv.ID])
}

func TestSendMessageUnknownConversation(t *testing.T) {
	deps, _ := chatTestDeps()

	w := httptest.NewRecorder()
	HandleSendMessage(deps)(w, authedRequest(http.MethodPost, "/api/chat/conversations/ghost/messages", "amelie",
		map[string]string{"text": "hello"}, map[string]string{"id": "ghost"}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMessagesParticipantOnly(t *testing.T) {
	deps, mem := chatTestDeps()
	conv, err := mem.FindOrCreateConversation(context.Background(), "amelie", "bruno")
	require.NoError(t, err)

	_, err = mem.AppendMessage(context.Background(), conv.ID, "amelie", "first")
	require.NoError(t, err)
	_, err = mem.AppendMessage(context.Background(), conv.ID, "bruno", "second")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	HandleListMessages(deps)(w, authedRequest(http.MethodGet, "/api/chat/conversations/"+conv.ID+"/messages", "bruno",
		nil, map[string]string{"id": conv.ID}))
	require.Equal(t, http.StatusOK, w.Code)

	code, data := decodeEnvelope(t, w)
	assert.Zero(t, code)
	msgs, ok := data["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)

	// An outsider gets a 401 and no log contents.
	w = httptest.NewRecorder()
	HandleListMessages(deps)(w, authedRequest(http.MethodGet, "/api/chat/conversations/"+conv.ID+"/messages", "mallory",
		nil, map[string]string{"id": conv.ID}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListConversationsOnlyOwn(t *testing.T) {
	deps, mem := chatTestDeps()
	_, err := mem.FindOrCreateConversation(context.Background(), "amelie", "bruno")
	require.NoError(t, err)
	_, err = mem.FindOrCreateConversation(context.Background(), "bruno", "chloe")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	HandleListConversations(deps)(w, authedRequest(http.MethodGet, "/api/chat/conversations", "amelie", nil, nil))
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decodeEnvelope(t, w)
	convs, ok := data["conversations"].([]any)
	require.True(t, ok)
	assert.Len(t, convs, 1)
}
