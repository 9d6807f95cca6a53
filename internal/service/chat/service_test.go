package chat

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"oliveprod/internal/models"
)

type fakeConvs struct {
	touched []string
	err     error
}

func (f *fakeConvs) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return nil, nil
}
func (f *fakeConvs) CreateConversation(ctx context.Context, userID, title string) (*models.Conversation, error) {
	return &models.Conversation{ID: "c1", UserID: userID, Title: title}, nil
}
func (f *fakeConvs) RenameConversation(ctx context.Context, id, userID, title string) (*models.Conversation, error) {
	return &models.Conversation{ID: id, UserID: userID, Title: title}, nil
}
func (f *fakeConvs) TouchConversation(ctx context.Context, id, userID string) error {
	f.touched = append(f.touched, id)
	return f.err
}
func (f *fakeConvs) DeleteConversation(ctx context.Context, id, userID string) error {
	return nil
}

type fakeMsgs struct {
	added []models.Message
	err   error
}

func (f *fakeMsgs) ListMessages(ctx context.Context, conversationID, userID string) ([]models.Message, error) {
	return f.added, nil
}
func (f *fakeMsgs) AddMessage(ctx context.Context, userID string, msg *models.Message) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, *msg)
	return nil
}

func TestSendMessageTurn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"output":"Voici la réponse"}`)
	}))
	defer server.Close()

	convs := &fakeConvs{}
	msgs := &fakeMsgs{}
	hook := NewWebhook(server.URL, 5*time.Second, testLogger())
	svc := NewService(convs, msgs, hook, hook, testLogger())

	turn, err := svc.SendMessage(context.Background(), "user-1", "conv-1", "Bonjour")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if turn.UserMessage.Role != "user" || turn.UserMessage.Content != "Bonjour" {
		t.Errorf("user message = %+v", turn.UserMessage)
	}
	if turn.AssistantMessage.Role != "assistant" || turn.AssistantMessage.Content != "Voici la réponse" {
		t.Errorf("assistant message = %+v", turn.AssistantMessage)
	}
	if turn.Article != nil {
		t.Errorf("plain reply must not detect an article")
	}
	if len(msgs.added) != 2 {
		t.Errorf("stored messages = %d, want both turns", len(msgs.added))
	}
	if len(convs.touched) != 1 || convs.touched[0] != "conv-1" {
		t.Errorf("touched = %v", convs.touched)
	}
}

func TestSendMessageDetectsArticle(t *testing.T) {
	reply := "Titre: Un titre d'article\nArticle: <h2>Section</h2><p>Un contenu suffisamment long pour passer la détection d'article du parseur.</p>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, reply)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, 5*time.Second, testLogger())
	svc := NewService(&fakeConvs{}, &fakeMsgs{}, hook, hook, testLogger())

	turn, err := svc.SendMessage(context.Background(), "user-1", "conv-1", "Écris un article")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if turn.Article == nil {
		t.Fatal("labelled reply must detect an article")
	}
	if turn.Article.Title != "Un titre d'article" {
		t.Errorf("article title = %q", turn.Article.Title)
	}
}

func TestSendMessageWebhookFailureKeepsUserMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	msgs := &fakeMsgs{}
	hook := NewWebhook(server.URL, 5*time.Second, testLogger())
	svc := NewService(&fakeConvs{}, msgs, hook, hook, testLogger())

	_, err := svc.SendMessage(context.Background(), "user-1", "conv-1", "Bonjour")
	if err == nil {
		t.Fatal("SendMessage() error = nil, want webhook failure")
	}
	// The user's message is already persisted; only the reply is missing.
	if len(msgs.added) != 1 || msgs.added[0].Role != "user" {
		t.Errorf("stored messages = %+v", msgs.added)
	}
}

func TestSendMessageStoreFailure(t *testing.T) {
	svc := NewService(&fakeConvs{}, &fakeMsgs{err: errors.New("db down")}, NewWebhook("", time.Second, testLogger()), nil, testLogger())

	if _, err := svc.SendMessage(context.Background(), "user-1", "conv-1", "Bonjour"); err == nil {
		t.Fatal("SendMessage() error = nil, want store failure")
	}
}

func TestTouchFailureDoesNotFailTurn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer server.Close()

	convs := &fakeConvs{err: errors.New("db down")}
	hook := NewWebhook(server.URL, 5*time.Second, testLogger())
	svc := NewService(convs, &fakeMsgs{}, hook, hook, testLogger())

	if _, err := svc.SendMessage(context.Background(), "user-1", "conv-1", "Bonjour"); err != nil {
		t.Fatalf("SendMessage() error = %v, touch failure must be swallowed", err)
	}
}

func TestCreateConversationDefaultTitle(t *testing.T) {
	svc := NewService(&fakeConvs{}, &fakeMsgs{}, nil, nil, testLogger())

	c, err := svc.CreateConversation(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}
	if c.Title != "Nouvelle discussion" {
		t.Errorf("title = %q", c.Title)
	}
}
