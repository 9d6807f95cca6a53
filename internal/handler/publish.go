package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"oliveprod/internal/domain"
	"oliveprod/internal/httputil"
	"oliveprod/internal/service/publish"
)

// PublishHandler exposes the WordPress publish endpoint.
type PublishHandler struct {
	service *publish.Service
	logger  *slog.Logger
}

// NewPublishHandler creates a new publish handler
func NewPublishHandler(service *publish.Service, logger *slog.Logger) *PublishHandler {
	return &PublishHandler{service: service, logger: logger}
}

// publishFailure is the error shape the front-end expects from this
// endpoint: a success flag plus a message, nothing else.
type publishFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Publish assembles and publishes a Divi draft.
// POST /api/wordpress/publish
func (h *PublishHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.RespondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	userID := httputil.GetUserID(r)

	var req publish.Request
	if err := httputil.ParseJSONLimit(w, r, &req, httputil.PublishBodyLimit); err != nil {
		httputil.RespondJSON(w, http.StatusBadRequest, publishFailure{Error: "Invalid request body"})
		return
	}

	result, err := h.service.Publish(r.Context(), userID, &req)
	if err != nil {
		h.logger.Error("publish failed", "user_id", userID, "error", err)
		httputil.RespondJSON(w, publishStatus(err), publishFailure{Error: err.Error()})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

func publishStatus(err error) int {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}
	return http.StatusInternalServerError
}
