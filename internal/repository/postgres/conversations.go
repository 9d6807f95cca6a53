package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"oliveprod/internal/domain"
	"oliveprod/internal/models"
)

// ConversationRepository stores chat threads in the conversations table.
type ConversationRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewConversationRepository creates a ConversationRepository.
func NewConversationRepository(pool *pgxpool.Pool, logger *slog.Logger) *ConversationRepository {
	return &ConversationRepository{pool: pool, logger: logger}
}

// ListConversations returns the user's conversations, most recently
// updated first.
func (r *ConversationRepository) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := `
		SELECT id, user_id, title, last_update, created_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY last_update DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.LastUpdate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	return conversations, nil
}

// CreateConversation inserts a new thread for the user.
func (r *ConversationRepository) CreateConversation(ctx context.Context, userID, title string) (*models.Conversation, error) {
	now := time.Now().UTC()
	c := models.Conversation{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      title,
		LastUpdate: now,
		CreatedAt:  now,
	}

	query := `
		INSERT INTO conversations (id, user_id, title, last_update, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.pool.Exec(ctx, query, c.ID, c.UserID, c.Title, c.LastUpdate, c.CreatedAt); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	return &c, nil
}

// RenameConversation updates a conversation's title.
func (r *ConversationRepository) RenameConversation(ctx context.Context, id, userID, title string) (*models.Conversation, error) {
	query := `
		UPDATE conversations
		SET title = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, last_update, created_at
	`

	var c models.Conversation
	err := r.pool.QueryRow(ctx, query, id, userID, title).Scan(
		&c.ID, &c.UserID, &c.Title, &c.LastUpdate, &c.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("rename conversation: %w", err)
	}

	return &c, nil
}

// TouchConversation bumps last_update so the thread sorts to the top.
func (r *ConversationRepository) TouchConversation(ctx context.Context, id, userID string) error {
	query := `
		UPDATE conversations
		SET last_update = $3
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteConversation removes a thread. Messages go with it via the
// ON DELETE CASCADE constraint on messages.conversation_id.
func (r *ConversationRepository) DeleteConversation(ctx context.Context, id, userID string) error {
	query := `DELETE FROM conversations WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
