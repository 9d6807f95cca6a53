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

// PublishedPostRepository stores the gallery of published drafts.
type PublishedPostRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPublishedPostRepository creates a PublishedPostRepository.
func NewPublishedPostRepository(pool *pgxpool.Pool, logger *slog.Logger) *PublishedPostRepository {
	return &PublishedPostRepository{pool: pool, logger: logger}
}

// ListPublishedPosts returns the user's gallery, newest first.
func (r *PublishedPostRepository) ListPublishedPosts(ctx context.Context, userID string) ([]models.PublishedPost, error) {
	query := `
		SELECT id, user_id, title, post_url, edit_url, wordpress_post_id, created_at
		FROM published_posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var posts []models.PublishedPost
	for rows.Next() {
		var p models.PublishedPost
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.PostURL, &p.EditURL, &p.WordPressPostID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan published post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}

	return posts, nil
}

// SavePublishedPost records a successful publish in the gallery.
func (r *PublishedPostRepository) SavePublishedPost(ctx context.Context, post *models.PublishedPost) error {
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO published_posts (id, user_id, title, post_url, edit_url, wordpress_post_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.UserID,
		post.Title,
		post.PostURL,
		post.EditURL,
		post.WordPressPostID,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save published post: %w", err)
	}

	return nil
}

// DeletePublishedPost removes a gallery entry. The WordPress draft is left
// untouched.
func (r *PublishedPostRepository) DeletePublishedPost(ctx context.Context, id, userID string) error {
	query := `DELETE FROM published_posts WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete published post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("published post %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
