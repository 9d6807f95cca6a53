// Package publish drives a complete article publication: image uploads,
// document assembly and the final draft creation on the WordPress site.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"oliveprod/internal/divi"
	"oliveprod/internal/domain"
	"oliveprod/internal/imaging"
	"oliveprod/internal/models"
	"oliveprod/internal/wordpress"
)

// phase names one step of the publish state machine, used for logging.
// The flow is strictly linear: validating, configuring auth, uploading
// images, assembling, creating. Terminal outcomes are done or failed; there
// are no retries, a failed create is surfaced and the caller may resubmit.
type phase string

const (
	phaseValidating phase = "validating"
	phaseConfigAuth phase = "configuring_auth"
	phaseUploading  phase = "uploading_images"
	phaseAssembling phase = "assembling"
	phaseCreating   phase = "creating"
)

// TemplateInput mirrors the fixed template's slots as sent by the client.
type TemplateInput struct {
	Intro    string                  `json:"intro"`
	Slider1  []wordpress.ImageAsset  `json:"slider1"`
	Texte1   string                  `json:"texte1"`
	VideoURL string                  `json:"videoUrl"`
	Texte2   string                  `json:"texte2"`
	Slider2  []wordpress.ImageAsset  `json:"slider2"`
}

// Request is the publish payload.
type Request struct {
	Title           string        `json:"title"`
	MetaDescription string        `json:"metaDescription"`
	Slug            string        `json:"slug"`
	Template        TemplateInput `json:"template"`
}

// Validate checks required input before any work is performed.
func (r *Request) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required),
	)
	if err != nil {
		return &domain.ValidationError{Message: "title is required"}
	}
	return nil
}

// Result is what the caller receives on success.
type Result struct {
	Success        bool   `json:"success"`
	PostID         int    `json:"postId"`
	PostURL        string `json:"postUrl"`
	EditURL        string `json:"editUrl"`
	ImagesUploaded int    `json:"imagesUploaded"`
	Message        string `json:"message"`
}

// PostStore persists a summary of each successful publish for the gallery.
type PostStore interface {
	SavePublishedPost(ctx context.Context, post *models.PublishedPost) error
}

// Options tune image normalization before upload.
type Options struct {
	MaxImageWidth int
	JPEGQuality   int
}

// Service is the publish orchestrator. All state is request-scoped; the
// service itself is safe for concurrent use.
type Service struct {
	cfg      wordpress.Config
	client   *wordpress.Client
	template divi.TemplateStrategy
	store    PostStore
	opts     Options
	logger   *slog.Logger
}

// NewService creates the orchestrator. store may be nil when no gallery
// persistence is wired.
func NewService(cfg wordpress.Config, timeout time.Duration, template divi.TemplateStrategy, store PostStore, opts Options, logger *slog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		client:   wordpress.NewClient(cfg, timeout, logger),
		template: template,
		store:    store,
		opts:     opts,
		logger:   logger,
	}
}

// Publish runs the full flow. A returned error is fatal (validation,
// configuration, or the create-post call); individual image failures never
// abort the publish, they just leave their slot empty.
func (s *Service) Publish(ctx context.Context, userID string, req *Request) (*Result, error) {
	s.logger.Info("publish started", "phase", phaseValidating, "title", req.Title)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Credentials are checked before the first network call so a broken
	// deployment fails with the missing names, not an opaque 401.
	s.logger.Debug("publish", "phase", phaseConfigAuth)
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	s.logger.Debug("publish", "phase", phaseUploading,
		"slider1", len(req.Template.Slider1), "slider2", len(req.Template.Slider2))
	slider1URLs, uploaded1 := s.uploadAll(ctx, req.Template.Slider1)
	slider2URLs, uploaded2 := s.uploadAll(ctx, req.Template.Slider2)
	imagesUploaded := uploaded1 + uploaded2

	s.logger.Debug("publish", "phase", phaseAssembling)
	content := divi.TemplateContent{
		Heading:  req.Title,
		Intro:    req.Template.Intro,
		Texte1:   req.Template.Texte1,
		VideoURL: req.Template.VideoURL,
		Texte2:   req.Template.Texte2,
	}
	document := s.template.Assemble(content, slider1URLs, slider2URLs)

	s.logger.Debug("publish", "phase", phaseCreating)
	post, err := s.client.CreatePost(ctx, wordpress.PostInput{
		Title:   req.Title,
		Content: document,
		Slug:    req.Slug,
		Status:  "draft", // never "publish": nothing goes live unreviewed
		Meta: map[string]string{
			"_et_pb_use_builder":    "on",
			"_et_pb_page_layout":    "et_no_sidebar",
			"_et_pb_post_hide_nav":  "default",
			"_yoast_wpseo_metadesc": req.MetaDescription,
		},
	})
	if err != nil {
		return nil, err
	}

	editURL := s.client.EditURL(post.ID)
	s.logger.Info("publish done", "post_id", post.ID, "post_url", post.Link, "images_uploaded", imagesUploaded)

	s.saveSummary(ctx, userID, req.Title, post, editURL)

	return &Result{
		Success:        true,
		PostID:         post.ID,
		PostURL:        post.Link,
		EditURL:        editURL,
		ImagesUploaded: imagesUploaded,
		Message:        fmt.Sprintf("Article %q créé en brouillon", req.Title),
	}, nil
}

// uploadAll uploads one slider's assets sequentially. Failed uploads are
// logged and skipped; the returned URLs keep the input order of the
// successes, and the count reflects successes only.
func (s *Service) uploadAll(ctx context.Context, assets []wordpress.ImageAsset) ([]string, int) {
	var urls []string
	for i, asset := range assets {
		url, err := s.uploadOne(ctx, asset)
		if err != nil {
			s.logger.Warn("image upload failed, continuing",
				"index", i, "filename", asset.Filename, "error", err)
			continue
		}
		urls = append(urls, url)
	}
	return urls, len(urls)
}

func (s *Service) uploadOne(ctx context.Context, asset wordpress.ImageAsset) (string, error) {
	data, err := wordpress.DecodeAsset(asset)
	if err != nil {
		return "", err
	}

	filename, mimeType := asset.Filename, asset.MimeType
	if s.opts.MaxImageWidth > 0 {
		normalized, err := imaging.Normalize(data, s.opts.MaxImageWidth, s.opts.MaxImageWidth, s.opts.JPEGQuality)
		if err != nil {
			// Upload the original bytes rather than losing the image.
			s.logger.Warn("image normalization failed, uploading original", "filename", asset.Filename, "error", err)
		} else {
			data = normalized
			filename = jpegFilename(filename)
			mimeType = "image/jpeg"
		}
	}

	media, err := s.client.UploadMediaBytes(ctx, data, filename, mimeType, asset.Alt)
	if err != nil {
		return "", err
	}
	return media.URL, nil
}

// saveSummary records the publish in the gallery store. Best effort: the
// draft already exists on the WordPress side, so a store failure is logged
// and never surfaced.
func (s *Service) saveSummary(ctx context.Context, userID, title string, post *wordpress.Post, editURL string) {
	if s.store == nil || userID == "" {
		return
	}
	err := s.store.SavePublishedPost(ctx, &models.PublishedPost{
		UserID:          userID,
		Title:           title,
		PostURL:         post.Link,
		EditURL:         editURL,
		WordPressPostID: post.ID,
	})
	if err != nil {
		s.logger.Warn("gallery save failed", "post_id", post.ID, "error", err)
	}
}

func jpegFilename(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name + ".jpg"
}
