package wordpress

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"oliveprod/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		missing []string
	}{
		{
			name: "complete config passes",
			cfg:  Config{BaseURL: "https://site.fr", User: "u", AppPassword: "p"},
		},
		{
			name:    "empty config names every key",
			cfg:     Config{},
			missing: []string{"WORDPRESS_URL", "WORDPRESS_USER", "WORDPRESS_APP_PASSWORD"},
		},
		{
			name:    "single missing key",
			cfg:     Config{BaseURL: "https://site.fr", User: "u"},
			missing: []string{"WORDPRESS_APP_PASSWORD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.missing) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var cfgErr *domain.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() error = %T, want *domain.ConfigError", err)
			}
			if len(cfgErr.Missing) != len(tt.missing) {
				t.Fatalf("Missing = %v, want %v", cfgErr.Missing, tt.missing)
			}
			for i, name := range tt.missing {
				if cfgErr.Missing[i] != name {
					t.Errorf("Missing[%d] = %q, want %q", i, cfgErr.Missing[i], name)
				}
			}
		})
	}
}

func TestDecodeAsset(t *testing.T) {
	payload := []byte("fake image bytes")
	encoded := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name    string
		asset   ImageAsset
		want    []byte
		wantErr bool
	}{
		{
			name:  "plain base64",
			asset: ImageAsset{Base64: encoded, Filename: "a.jpg"},
			want:  payload,
		},
		{
			name:  "data URI prefix is stripped",
			asset: ImageAsset{Base64: "data:image/jpeg;base64," + encoded, Filename: "a.jpg"},
			want:  payload,
		},
		{
			name:  "surrounding whitespace tolerated",
			asset: ImageAsset{Base64: "  " + encoded + "\n", Filename: "a.jpg"},
			want:  payload,
		},
		{
			name:    "invalid base64",
			asset:   ImageAsset{Base64: "not!!base64", Filename: "broken.jpg"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAsset(tt.asset)
			if tt.wantErr {
				var decErr *domain.DecodeError
				if !errors.As(err, &decErr) {
					t.Fatalf("DecodeAsset() error = %T, want *domain.DecodeError", err)
				}
				if decErr.Filename != tt.asset.Filename {
					t.Errorf("DecodeError.Filename = %q, want %q", decErr.Filename, tt.asset.Filename)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeAsset() error = %v", err)
			}
			if string(got) != string(tt.want) {
				t.Errorf("DecodeAsset() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUploadMedia(t *testing.T) {
	var gotAuth, gotType, gotDisposition, gotPath string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotDisposition = r.Header.Get("Content-Disposition")
		gotPath = r.URL.RequestURI()
		gotBody, _ = io.ReadAll(r.Body)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 42, "source_url": "https://site.fr/wp-content/uploads/a.jpg"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, User: "olive", AppPassword: "secret"}, 5*time.Second, testLogger())

	payload := []byte("jpegdata")
	asset := ImageAsset{
		Base64:   base64.StdEncoding.EncodeToString(payload),
		Filename: "photo.jpg",
		MimeType: "image/jpeg",
	}

	media, err := client.UploadMedia(context.Background(), asset)
	if err != nil {
		t.Fatalf("UploadMedia() error = %v", err)
	}

	if media.ID != 42 {
		t.Errorf("media.ID = %d, want 42", media.ID)
	}
	if media.URL != "https://site.fr/wp-content/uploads/a.jpg" {
		t.Errorf("media.URL = %q", media.URL)
	}
	if gotPath != "/index.php?rest_route=/wp/v2/media" {
		t.Errorf("request URI = %q", gotPath)
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("olive:secret"))
	if gotAuth != wantAuth {
		t.Errorf("Authorization = %q, want %q", gotAuth, wantAuth)
	}
	if gotType != "image/jpeg" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotDisposition != `attachment; filename="photo.jpg"` {
		t.Errorf("Content-Disposition = %q", gotDisposition)
	}
	if string(gotBody) != string(payload) {
		t.Errorf("body = %q, want raw decoded bytes", gotBody)
	}
}

func TestUploadMediaErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"code":"rest_cannot_create"}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, User: "u", AppPassword: "p"}, 5*time.Second, testLogger())

	_, err := client.UploadMediaBytes(context.Background(), []byte("x"), "a.jpg", "image/jpeg", "")
	var upErr *domain.UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("error = %T, want *domain.UploadError", err)
	}
	if upErr.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", upErr.Status)
	}
	if !strings.Contains(upErr.Body, "rest_cannot_create") {
		t.Errorf("Body = %q, want server payload", upErr.Body)
	}
}

func TestUploadMediaAltTextBestEffort(t *testing.T) {
	var altCalls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RequestURI(), "/wp/v2/media/7") {
			altCalls++
			// Alt update fails; the upload result must not care.
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "source_url": "https://site.fr/u/a.jpg"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, User: "u", AppPassword: "p"}, 5*time.Second, testLogger())

	media, err := client.UploadMediaBytes(context.Background(), []byte("x"), "a.jpg", "image/jpeg", "une photo")
	if err != nil {
		t.Fatalf("UploadMediaBytes() error = %v, alt failure must not fail the upload", err)
	}
	if altCalls != 1 {
		t.Errorf("alt update calls = %d, want 1", altCalls)
	}
	if media.Alt != "" {
		t.Errorf("media.Alt = %q, want empty after failed update", media.Alt)
	}
}

func TestCreatePost(t *testing.T) {
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RequestURI() != "/index.php?rest_route=/wp/v2/posts" {
			t.Errorf("request URI = %q", r.URL.RequestURI())
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 12, "link": "https://site.fr/?p=12"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, User: "u", AppPassword: "p"}, 5*time.Second, testLogger())

	post, err := client.CreatePost(context.Background(), PostInput{
		Title:   "Titre",
		Content: "[et_pb_section][/et_pb_section]",
		Status:  "draft",
		Meta:    map[string]string{"_et_pb_use_builder": "on"},
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if post.ID != 12 || post.Link != "https://site.fr/?p=12" {
		t.Errorf("post = %+v", post)
	}
	if gotPayload["status"] != "draft" {
		t.Errorf("status = %v, want draft", gotPayload["status"])
	}
	meta, _ := gotPayload["meta"].(map[string]any)
	if meta["_et_pb_use_builder"] != "on" {
		t.Errorf("meta = %v", gotPayload["meta"])
	}
}

func TestCreatePostErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"code":"rest_not_logged_in"}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, User: "u", AppPassword: "p"}, 5*time.Second, testLogger())

	_, err := client.CreatePost(context.Background(), PostInput{Title: "t", Status: "draft"})
	var pubErr *domain.PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("error = %T, want *domain.PublishError", err)
	}
	if pubErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", pubErr.Status)
	}
}

func TestEditURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://site.fr", User: "u", AppPassword: "p"}, time.Second, testLogger())
	got := client.EditURL(99)
	want := "https://site.fr/wp-admin/post.php?post=99&action=edit"
	if got != want {
		t.Errorf("EditURL(99) = %q, want %q", got, want)
	}
}
