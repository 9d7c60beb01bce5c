package handler

import (
	"context"

	"inkwell/internal/app/books"
	"inkwell/internal/app/chat"
	"inkwell/internal/app/storage"
	"inkwell/internal/configs"
	"inkwell/internal/store"
)

// ChatStore is the persistence surface the direct-message handlers depend on.
// The production implementation composes the Conversations and Messages
// repositories; tests substitute an in-memory one.
type ChatStore interface {
	FindOrCreateConversation(ctx context.Context, a, b string) (store.Conversation, error)
	ListConversations(ctx context.Context, username string) ([]store.Conversation, error)
	GetConversation(ctx context.Context, id string) (store.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]store.Message, error)
	AppendMessage(ctx context.Context, conversationID, sender, text string) (store.Message, error)
}

// AppDeps bundles everything the handlers need: configuration, repositories,
// the realtime hub, and the external service clients.
type AppDeps struct {
	Config *configs.AppConfig

	Users     *store.Users
	Reviews   *store.Reviews
	Letters   *store.Letters
	DeepDives *store.BookPosts
	Excerpts  *store.BookPosts
	Favorites *store.Favorites
	Follows   *store.Follows
	Mail      *store.Mail
	Chat      ChatStore

	Hub            *chat.Hub
	Books          *books.Client
	StorageService storage.StorageService
}

// chatStore is the production ChatStore backed by Postgres repositories.
type chatStore struct {
	conversations *store.Conversations
	messages      *store.Messages
}

// NewChatStore composes the conversation and message repositories into the
// surface the handlers consume.
func NewChatStore(conversations *store.Conversations, messages *store.Messages) ChatStore {
	return &chatStore{conversations: conversations, messages: messages}
}

func (s *chatStore) FindOrCreateConversation(ctx context.Context, a, b string) (store.Conversation, error) {
	return s.conversations.FindOrCreate(ctx, a, b)
}

func (s *chatStore) ListConversations(ctx context.Context, username string) ([]store.Conversation, error) {
	return s.conversations.ListForParticipant(ctx, username)
}

func (s *chatStore) GetConversation(ctx context.Context, id string) (store.Conversation, error) {
	return s.conversations.Get(ctx, id)
}

func (s *chatStore) ListMessages(ctx context.Context, conversationID string) ([]store.Message, error) {
	return s.messages.ListByConversation(ctx, conversationID)
}

func (s *chatStore) AppendMessage(ctx context.Context, conversationID, sender, text string) (store.Message, error) {
	return s.messages.Append(ctx, conversationID, sender, text)
}
