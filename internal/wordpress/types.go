package wordpress

import "oliveprod/internal/domain"

// Config holds the WordPress credentials resolved once from process
// configuration. It is validated before any network call so a misconfigured
// deployment fails fast with the missing names spelled out.
type Config struct {
	BaseURL     string
	User        string
	AppPassword string
}

// Validate returns a ConfigError naming every missing credential.
func (c Config) Validate() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "WORDPRESS_URL")
	}
	if c.User == "" {
		missing = append(missing, "WORDPRESS_USER")
	}
	if c.AppPassword == "" {
		missing = append(missing, "WORDPRESS_APP_PASSWORD")
	}
	if len(missing) > 0 {
		return &domain.ConfigError{Missing: missing}
	}
	return nil
}

// ImageAsset is an image transmitted by the client for upload. Base64 may
// carry a data-URI prefix. The decoded buffer lives only for the duration of
// the upload call.
type ImageAsset struct {
	Base64   string `json:"base64"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Alt      string `json:"alt"`
}

// Media is the media-library item created by an upload.
type Media struct {
	ID  int    `json:"id"`
	URL string `json:"source_url"`
	Alt string `json:"-"`
}

// PostInput is the create-post payload. Status is always "draft": nothing
// goes live unreviewed.
type PostInput struct {
	Title   string            `json:"title"`
	Content string            `json:"content"`
	Slug    string            `json:"slug,omitempty"`
	Status  string            `json:"status"`
	Meta    map[string]string `json:"meta"`
}

// Post is the created draft as reported by WordPress.
type Post struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}
