package chat

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare text",
			raw:  "Bonjour !",
			want: "Bonjour !",
		},
		{
			name: "json string",
			raw:  `"Bonjour !"`,
			want: "Bonjour !",
		},
		{
			name: "object with output key",
			raw:  `{"output":"La réponse"}`,
			want: "La réponse",
		},
		{
			name: "object with text key",
			raw:  `{"text":"La réponse"}`,
			want: "La réponse",
		},
		{
			name: "object with message key",
			raw:  `{"message":"La réponse"}`,
			want: "La réponse",
		},
		{
			name: "object with response key",
			raw:  `{"response":"La réponse"}`,
			want: "La réponse",
		},
		{
			name: "nested json.output",
			raw:  `{"json":{"output":"La réponse"}}`,
			want: "La réponse",
		},
		{
			name: "array of objects takes the first element",
			raw:  `[{"output":"Première"},{"output":"Seconde"}]`,
			want: "Première",
		},
		{
			name: "array of strings",
			raw:  `["Première","Seconde"]`,
			want: "Première",
		},
		{
			name: "markdown fences are stripped",
			raw:  "```html\n<p>contenu</p>\n```",
			want: "<p>contenu</p>",
		},
		{
			name: "fence inside json string",
			raw:  `{"output":"` + "```\\nTexte\\n```" + `"}`,
			want: "Texte",
		},
		{
			name: "surrounding whitespace",
			raw:  "  Réponse  \n",
			want: "Réponse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractResponse([]byte(tt.raw))
			if got != tt.want {
				t.Errorf("ExtractResponse(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestWebhookSend(t *testing.T) {
	var gotPayload map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		io.WriteString(w, `{"output":"Réponse du workflow"}`)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, 5*time.Second, testLogger())

	reply, err := hook.Send(context.Background(), "Écris un article", "conv-42")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != "Réponse du workflow" {
		t.Errorf("reply = %q", reply)
	}
	if gotPayload["message"] != "Écris un article" {
		t.Errorf("message = %q", gotPayload["message"])
	}
	if gotPayload["sessionId"] != "conv-42" {
		t.Errorf("sessionId = %q", gotPayload["sessionId"])
	}
	if _, err := time.Parse(time.RFC3339, gotPayload["timestamp"]); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", gotPayload["timestamp"], err)
	}
}

func TestWebhookSendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, 5*time.Second, testLogger())

	if _, err := hook.Send(context.Background(), "x", "y"); err == nil {
		t.Fatal("Send() error = nil, want status error")
	}
}

func TestWebhookSendUnconfigured(t *testing.T) {
	hook := NewWebhook("", time.Second, testLogger())
	if _, err := hook.Send(context.Background(), "x", "y"); err == nil {
		t.Fatal("Send() with empty URL must fail without a network call")
	}
}

func TestWebhookSendAudio(t *testing.T) {
	var gotFilename string
	var gotBytes []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		gotFilename = header.Filename
		gotBytes, _ = io.ReadAll(file)
		io.WriteString(w, "Transcription et réponse")
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, 5*time.Second, testLogger())

	reply, err := hook.SendAudio(context.Background(), []byte("RIFFdata"), "")
	if err != nil {
		t.Fatalf("SendAudio() error = %v", err)
	}
	if reply != "Transcription et réponse" {
		t.Errorf("reply = %q", reply)
	}
	if gotFilename != "recording.wav" {
		t.Errorf("filename = %q, want default recording.wav", gotFilename)
	}
	if string(gotBytes) != "RIFFdata" {
		t.Errorf("audio bytes = %q", gotBytes)
	}
	if !strings.HasPrefix(gotFilename, "recording") {
		t.Errorf("filename = %q", gotFilename)
	}
}
