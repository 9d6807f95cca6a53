package handler

import (
	"context"
	"log/slog"
	"net/http"

	"oliveprod/internal/httputil"
	"oliveprod/internal/models"
)

// GalleryStore lists and prunes the published-post gallery.
type GalleryStore interface {
	ListPublishedPosts(ctx context.Context, userID string) ([]models.PublishedPost, error)
	DeletePublishedPost(ctx context.Context, id, userID string) error
}

// GalleryHandler exposes the gallery of published drafts.
type GalleryHandler struct {
	store  GalleryStore
	logger *slog.Logger
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(store GalleryStore, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{store: store, logger: logger}
}

// ListPosts returns the user's published drafts, newest first.
// GET /api/wordpress/posts
func (h *GalleryHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	posts, err := h.store.ListPublishedPosts(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, posts)
}

// DeletePost removes a gallery entry; the WordPress draft stays.
// DELETE /api/wordpress/posts/{id}
func (h *GalleryHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Post ID")
	if !ok {
		return
	}
	userID := httputil.GetUserID(r)

	if err := h.store.DeletePublishedPost(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
