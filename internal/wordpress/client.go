// Package wordpress is a minimal client for the WordPress REST API,
// restricted to the two endpoints the publisher needs: media upload and
// post creation. Both use the rest_route query form rather than pretty
// permalinks, which also works on hosts without rewrite rules.
package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"oliveprod/internal/domain"
)

const (
	mediaRoute = "/index.php?rest_route=/wp/v2/media"
	postsRoute = "/index.php?rest_route=/wp/v2/posts"
)

// dataURIPrefix matches exactly the data:<mime>;base64, prefix a browser
// puts in front of a canvas export.
var dataURIPrefix = regexp.MustCompile(`^data:[^;]+;base64,`)

// Client talks to one WordPress site with Application Password auth.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a client with a bounded request timeout. The config is
// not validated here; callers validate before their first network call.
func NewClient(cfg Config, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (c *Client) authHeader() string {
	creds := c.cfg.User + ":" + c.cfg.AppPassword
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

// DecodeAsset strips the optional data-URI prefix and decodes the asset's
// base64 payload.
func DecodeAsset(asset ImageAsset) ([]byte, error) {
	raw := dataURIPrefix.ReplaceAllString(asset.Base64, "")
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, &domain.DecodeError{Filename: asset.Filename, Err: err}
	}
	return data, nil
}

// UploadMedia decodes the asset and uploads it to the media library. When
// the asset carries a non-empty Alt, the alt text is set in a second,
// best-effort call whose failure never fails the upload.
func (c *Client) UploadMedia(ctx context.Context, asset ImageAsset) (*Media, error) {
	data, err := DecodeAsset(asset)
	if err != nil {
		return nil, err
	}

	return c.UploadMediaBytes(ctx, data, asset.Filename, asset.MimeType, asset.Alt)
}

// UploadMediaBytes uploads already-decoded image bytes. Split out so the
// publisher can re-encode images before upload without round-tripping
// through base64.
func (c *Client) UploadMediaBytes(ctx context.Context, data []byte, filename, mimeType, alt string) (*Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+mediaRoute, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build media request: %w", err)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UploadError{Status: resp.StatusCode, Body: string(body)}
	}

	var media Media
	if err := json.Unmarshal(body, &media); err != nil {
		return nil, fmt.Errorf("decode media response: %w", err)
	}

	if alt != "" {
		if err := c.setAltText(ctx, media.ID, alt); err != nil {
			// Alt text is cosmetic metadata; the upload already succeeded.
			c.logger.Warn("alt text update failed", "media_id", media.ID, "error", err)
		} else {
			media.Alt = alt
		}
	}

	return &media, nil
}

func (c *Client) setAltText(ctx context.Context, mediaID int, alt string) error {
	payload, err := json.Marshal(map[string]string{"alt_text": alt})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s%s/%d", c.cfg.BaseURL, mediaRoute, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// CreatePost creates the article. Callers set Status; the publisher always
// sends "draft".
func (c *Client) CreatePost(ctx context.Context, post PostInput) (*Post, error) {
	payload, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("encode post payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+postsRoute, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build post request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.PublishError{Status: resp.StatusCode, Body: string(body)}
	}

	var created Post
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("decode post response: %w", err)
	}

	return &created, nil
}

// EditURL is the wp-admin edit link for a created post.
func (c *Client) EditURL(postID int) string {
	return fmt.Sprintf("%s/wp-admin/post.php?post=%d&action=edit", c.cfg.BaseURL, postID)
}
