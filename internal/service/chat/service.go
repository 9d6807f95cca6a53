package chat

import (
	"context"
	"fmt"
	"log/slog"

	"oliveprod/internal/article"
	"oliveprod/internal/models"
)

// ConversationRepository persists conversations, scoped by owner.
type ConversationRepository interface {
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	CreateConversation(ctx context.Context, userID, title string) (*models.Conversation, error)
	RenameConversation(ctx context.Context, id, userID, title string) (*models.Conversation, error)
	TouchConversation(ctx context.Context, id, userID string) error
	DeleteConversation(ctx context.Context, id, userID string) error
}

// MessageRepository persists the turns of a conversation.
type MessageRepository interface {
	ListMessages(ctx context.Context, conversationID, userID string) ([]models.Message, error)
	AddMessage(ctx context.Context, userID string, msg *models.Message) error
}

// TurnResult is one completed exchange: the stored user message, the stored
// assistant reply, and the article detected in the reply, if any.
type TurnResult struct {
	UserMessage      models.Message   `json:"user_message"`
	AssistantMessage models.Message   `json:"assistant_message"`
	Article          *article.Article `json:"article,omitempty"`
}

// Service coordinates persistence and the AI webhooks for one chat turn.
type Service struct {
	convs  ConversationRepository
	msgs   MessageRepository
	chat   *Webhook
	audio  *Webhook
	logger *slog.Logger
}

// NewService creates the chat service.
func NewService(convs ConversationRepository, msgs MessageRepository, chatHook, audioHook *Webhook, logger *slog.Logger) *Service {
	return &Service{
		convs:  convs,
		msgs:   msgs,
		chat:   chatHook,
		audio:  audioHook,
		logger: logger,
	}
}

// ListConversations returns the user's conversations, most recent first.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.convs.ListConversations(ctx, userID)
}

// CreateConversation starts a new thread.
func (s *Service) CreateConversation(ctx context.Context, userID, title string) (*models.Conversation, error) {
	if title == "" {
		title = "Nouvelle discussion"
	}
	return s.convs.CreateConversation(ctx, userID, title)
}

// RenameConversation changes a conversation's title.
func (s *Service) RenameConversation(ctx context.Context, id, userID, title string) (*models.Conversation, error) {
	return s.convs.RenameConversation(ctx, id, userID, title)
}

// DeleteConversation removes a conversation and its messages.
func (s *Service) DeleteConversation(ctx context.Context, id, userID string) error {
	return s.convs.DeleteConversation(ctx, id, userID)
}

// ListMessages returns a conversation's messages in chronological order.
func (s *Service) ListMessages(ctx context.Context, conversationID, userID string) ([]models.Message, error) {
	return s.msgs.ListMessages(ctx, conversationID, userID)
}

// SendMessage runs one text turn: store the user message, ask the chat
// webhook (keyed by conversation ID so the workflow keeps its memory),
// store the reply, and report any detected article.
func (s *Service) SendMessage(ctx context.Context, userID, conversationID, text string) (*TurnResult, error) {
	userMsg := models.Message{ConversationID: conversationID, Role: "user", Content: text}
	if err := s.msgs.AddMessage(ctx, userID, &userMsg); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	reply, err := s.chat.Send(ctx, text, conversationID)
	if err != nil {
		return nil, err
	}

	return s.finishTurn(ctx, userID, conversationID, userMsg, reply)
}

// SendAudio runs one voice turn: the recording goes to the audio webhook,
// which transcribes and answers in a single workflow.
func (s *Service) SendAudio(ctx context.Context, userID, conversationID string, audio []byte, filename string) (*TurnResult, error) {
	userMsg := models.Message{ConversationID: conversationID, Role: "user", Content: "Message vocal"}
	if err := s.msgs.AddMessage(ctx, userID, &userMsg); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	reply, err := s.audio.SendAudio(ctx, audio, filename)
	if err != nil {
		return nil, err
	}

	return s.finishTurn(ctx, userID, conversationID, userMsg, reply)
}

func (s *Service) finishTurn(ctx context.Context, userID, conversationID string, userMsg models.Message, reply string) (*TurnResult, error) {
	assistantMsg := models.Message{ConversationID: conversationID, Role: "assistant", Content: reply}
	if err := s.msgs.AddMessage(ctx, userID, &assistantMsg); err != nil {
		return nil, fmt.Errorf("store assistant message: %w", err)
	}

	if err := s.convs.TouchConversation(ctx, conversationID, userID); err != nil {
		// Ordering of the sidebar is not worth failing the turn over.
		s.logger.Warn("touch conversation failed", "conversation_id", conversationID, "error", err)
	}

	return &TurnResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Article:          article.Parse(reply),
	}, nil
}
