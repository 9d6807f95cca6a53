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

// MessageRepository stores conversation turns in the messages table.
type MessageRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewMessageRepository creates a MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool, logger *slog.Logger) *MessageRepository {
	return &MessageRepository{pool: pool, logger: logger}
}

// ListMessages returns a conversation's messages in chronological order.
// The join on conversations enforces ownership: asking for someone else's
// conversation behaves like asking for one that does not exist.
func (r *MessageRepository) ListMessages(ctx context.Context, conversationID, userID string) ([]models.Message, error) {
	if err := r.ensureOwned(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}

// AddMessage appends a message to a conversation the user owns, filling in
// the generated ID and timestamp.
func (r *MessageRepository) AddMessage(ctx context.Context, userID string, msg *models.Message) error {
	if err := r.ensureOwned(ctx, msg.ConversationID, userID); err != nil {
		return err
	}

	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO messages (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.pool.Exec(ctx, query, msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.CreatedAt); err != nil {
		return fmt.Errorf("add message: %w", err)
	}

	return nil
}

func (r *MessageRepository) ensureOwned(ctx context.Context, conversationID, userID string) error {
	query := `SELECT 1 FROM conversations WHERE id = $1 AND user_id = $2`

	var one int
	err := r.pool.QueryRow(ctx, query, conversationID, userID).Scan(&one)
	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
		}
		return fmt.Errorf("check conversation: %w", err)
	}

	return nil
}
