package handler

import (
	"io"
	"log/slog"
	"net/http"

	"oliveprod/internal/httputil"
	"oliveprod/internal/service/chat"
)

// maxAudioBytes bounds a voice recording upload.
const maxAudioBytes = 25 << 20 // 25MB

// ConversationHandler handles conversation and message HTTP requests.
type ConversationHandler struct {
	service *chat.Service
	logger  *slog.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(service *chat.Service, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{service: service, logger: logger}
}

// ListConversations returns the user's conversations, most recent first.
// GET /api/conversations
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	conversations, err := h.service.ListConversations(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conversations)
}

// CreateConversation starts a new thread.
// POST /api/conversations
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req struct {
		Title string `json:"title"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conversation, err := h.service.CreateConversation(r.Context(), userID, req.Title)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, conversation)
}

// RenameConversation updates a conversation's title.
// PATCH /api/conversations/{id}
func (h *ConversationHandler) RenameConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	userID := httputil.GetUserID(r)

	var req struct {
		Title string `json:"title"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		httputil.RespondError(w, http.StatusBadRequest, "title is required")
		return
	}

	conversation, err := h.service.RenameConversation(r.Context(), id, userID, req.Title)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conversation)
}

// DeleteConversation removes a conversation and its messages.
// DELETE /api/conversations/{id}
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	userID := httputil.GetUserID(r)

	if err := h.service.DeleteConversation(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMessages returns a conversation's messages in chronological order.
// GET /api/conversations/{id}/messages
func (h *ConversationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	userID := httputil.GetUserID(r)

	messages, err := h.service.ListMessages(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messages)
}

// SendMessage runs one text turn through the AI webhook.
// POST /api/conversations/{id}/messages
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	userID := httputil.GetUserID(r)

	var req struct {
		Message string `json:"message"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		httputil.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	turn, err := h.service.SendMessage(r.Context(), userID, id, req.Message)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, turn)
}

// SendAudio runs one voice turn: a multipart upload with the recording in
// the "audio" field.
// POST /api/conversations/{id}/audio
func (h *ConversationHandler) SendAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}
	userID := httputil.GetUserID(r)

	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read audio")
		return
	}

	turn, err := h.service.SendAudio(r.Context(), userID, id, audio, header.Filename)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, turn)
}
