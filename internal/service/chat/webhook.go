// Package chat forwards user messages to the external n8n webhooks that do
// the actual AI work. The webhooks answer with whatever shape the workflow
// happens to end on, so response extraction is deliberately loose.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Webhook is one n8n endpoint (chat or audio transcription).
type Webhook struct {
	url    string
	http   *http.Client
	logger *slog.Logger
}

// NewWebhook creates a webhook client with a bounded request timeout.
func NewWebhook(url string, timeout time.Duration, logger *slog.Logger) *Webhook {
	return &Webhook{
		url:    url,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Send posts a chat message. sessionID keeps the n8n workflow's memory keyed
// to one conversation.
func (w *Webhook) Send(ctx context.Context, message, sessionID string) (string, error) {
	if w.url == "" {
		return "", fmt.Errorf("chat webhook URL is not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"message":   message,
		"sessionId": sessionID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return w.do(req)
}

// SendAudio forwards a voice recording as a multipart upload, the way the
// recorder client does it, and returns the workflow's text reply.
func (w *Webhook) SendAudio(ctx context.Context, audio []byte, filename string) (string, error) {
	if w.url == "" {
		return "", fmt.Errorf("audio webhook URL is not configured")
	}
	if filename == "" {
		filename = "recording.wav"
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("audio", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio part: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, &body)
	if err != nil {
		return "", fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	return w.do(req)
}

func (w *Webhook) do(req *http.Request) (string, error) {
	resp, err := w.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call webhook: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read webhook response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return ExtractResponse(body), nil
}

// fence strips a leading ```lang marker and a trailing ``` from replies the
// model wrapped in a markdown code block.
var (
	openingFence = regexp.MustCompile("^```(?:\\w+)?\n?")
	closingFence = regexp.MustCompile("\n?```$")
)

// ExtractResponse digs the reply text out of a webhook response. The body
// may be a bare string, a JSON string, an array, or an object nesting the
// text under any of several keys depending on the workflow's last node.
func ExtractResponse(raw []byte) string {
	text := strings.TrimSpace(string(raw))

	if parsed := gjson.ParseBytes(raw); parsed.Exists() {
		switch parsed.Type {
		case gjson.String:
			text = parsed.String()
		case gjson.JSON:
			if s := extractFromJSON(parsed); s != "" {
				text = s
			}
		}
	}

	text = openingFence.ReplaceAllString(text, "")
	text = closingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func extractFromJSON(v gjson.Result) string {
	if v.IsArray() {
		arr := v.Array()
		if len(arr) == 0 {
			return ""
		}
		first := arr[0]
		if first.Type == gjson.String {
			return first.String()
		}
		return extractFromJSON(first)
	}

	for _, path := range []string{"output", "text", "message", "response", "json.output"} {
		if r := v.Get(path); r.Exists() && r.Type == gjson.String {
			return r.String()
		}
	}
	return v.Raw
}
