// Package article detects publishable articles inside free-text AI replies
// and pre-fills the fixed publishing template from them. The AI is prompted
// to label its output ("Titre:", "Article:", ...) but replies are free text,
// so everything here is tolerant of missing or reordered labels.
package article

import (
	"math"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"oliveprod/internal/divi"
)

// Article is the result of detecting an article in an AI reply.
type Article struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	MetaDescription string `json:"metaDescription"`
	Content         string `json:"content"`
}

var (
	reHasTitle   = regexp.MustCompile(`(?i)titre\s*:`)
	reHasArticle = regexp.MustCompile(`(?i)article\s*:`)
	reHasHeading = regexp.MustCompile(`(?i)<h[1-3]`)

	reTitle = regexp.MustCompile(`(?i)titre\s*:\s*([^\n]+)`)
	reSlug  = regexp.MustCompile(`(?i)slug\s*:\s*([^\n]+)`)
	reMeta  = regexp.MustCompile(`(?is)meta\s*-?\s*description\s*:\s*(.+?)(?:\n\n|\n(?:titre|article|slug)\s*:|\z)`)
	reBody  = regexp.MustCompile(`(?is)article\s*:\s*(.+?)(?:\n(?:titre|metadescription|meta\s*description|slug)\s*:|\z)`)
	reHTML  = regexp.MustCompile(`(?is)(<h[1-3].*)`)

	reTag        = regexp.MustCompile(`<[^>]*>`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reNonSlug    = regexp.MustCompile(`[^a-z0-9-]`)
	reCRLF       = regexp.MustCompile(`\r\n`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
)

// Parse extracts an article from a message, or nil when the message does not
// look like one.
func Parse(text string) *Article {
	if text == "" {
		return nil
	}

	if !reHasTitle.MatchString(text) && !reHasArticle.MatchString(text) && !reHasHeading.MatchString(text) {
		return nil
	}

	var title string
	if m := reTitle.FindStringSubmatch(text); m != nil {
		title = stripHTML(m[1])
	}

	var slug string
	if m := reSlug.FindStringSubmatch(text); m != nil {
		slug = stripHTML(m[1])
		slug = strings.ToLower(slug)
		slug = reSpaces.ReplaceAllString(slug, "-")
		slug = reNonSlug.ReplaceAllString(slug, "")
	}

	var meta string
	if m := reMeta.FindStringSubmatch(text); m != nil {
		meta = stripHTML(m[1])
	}

	var content string
	if m := reBody.FindStringSubmatch(text); m != nil {
		content = strings.TrimSpace(m[1])
	} else if m := reHTML.FindStringSubmatch(text); m != nil {
		content = strings.TrimSpace(m[1])
	}

	// Too short to be anything but a false positive.
	if title == "" && len(content) < 100 {
		return nil
	}

	if title == "" {
		title = "Sans titre"
	}

	return &Article{
		Title:           title,
		Slug:            slug,
		MetaDescription: meta,
		Content:         content,
	}
}

// Publishable reports whether a message contains an article worth offering
// for publication.
func Publishable(text string) bool {
	a := Parse(text)
	return a != nil && (len(a.Content) > 200 || len(a.Title) > 5)
}

// SplitForTemplate distributes article content over the three text slots of
// the fixed template: first paragraph to the intro, the rest split roughly
// in half between texte1 and texte2.
func SplitForTemplate(htmlContent string) (intro, texte1, texte2 string) {
	if htmlContent == "" {
		return "", "", ""
	}

	content := reCRLF.ReplaceAllString(htmlContent, "\n")
	content = reBlankLines.ReplaceAllString(content, "\n\n")

	paragraphs := extractParagraphs(content)

	if len(paragraphs) == 0 {
		return "", "", ""
	}

	half := int(math.Ceil(float64(len(paragraphs)) / 2))
	intro = paragraphs[0]
	texte1 = strings.Join(sliceRange(paragraphs, 1, half+1), "\n\n")
	texte2 = strings.Join(sliceRange(paragraphs, half+1, len(paragraphs)), "\n\n")
	return intro, texte1, texte2
}

// extractParagraphs prefers <p> tags; content without markup falls back to
// blank-line separation, skipping markdown headings.
func extractParagraphs(content string) []string {
	var paragraphs []string

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err == nil {
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
	}

	if len(paragraphs) == 0 {
		for _, line := range strings.Split(content, "\n\n") {
			text := stripHTML(line)
			if text != "" && !strings.HasPrefix(text, "#") {
				paragraphs = append(paragraphs, text)
			}
		}
	}

	return paragraphs
}

// Blocks parses article HTML into the structured content blocks the legacy
// block-to-module formatter consumes.
func Blocks(htmlContent string) []divi.ContentBlock {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var blocks []divi.ContentBlock
	doc.Find("h1,h2,h3,h4,p,ul,ol,blockquote,pre,img").Each(func(_ int, s *goquery.Selection) {
		switch tag := goquery.NodeName(s); tag {
		case "h1", "h2", "h3", "h4":
			if text := strings.TrimSpace(s.Text()); text != "" {
				blocks = append(blocks, divi.ContentBlock{
					Type:  divi.BlockHeading,
					Level: int(tag[1] - '0'),
					Text:  text,
				})
			}
		case "p":
			if text := strings.TrimSpace(s.Text()); text != "" {
				blocks = append(blocks, divi.ContentBlock{Type: divi.BlockParagraph, Text: text})
			}
		case "ul", "ol":
			var items strings.Builder
			s.Find("li").Each(func(_ int, li *goquery.Selection) {
				items.WriteString("<li>")
				items.WriteString(strings.TrimSpace(li.Text()))
				items.WriteString("</li>")
			})
			if items.Len() > 0 {
				blocks = append(blocks, divi.ContentBlock{
					Type:    divi.BlockList,
					Ordered: tag == "ol",
					Text:    items.String(),
				})
			}
		case "blockquote":
			if text := strings.TrimSpace(s.Text()); text != "" {
				blocks = append(blocks, divi.ContentBlock{Type: divi.BlockQuote, Text: text})
			}
		case "pre":
			if text := strings.TrimSpace(s.Text()); text != "" {
				blocks = append(blocks, divi.ContentBlock{Type: divi.BlockCode, Text: text})
			}
		case "img":
			src, _ := s.Attr("src")
			alt, _ := s.Attr("alt")
			blocks = append(blocks, divi.ContentBlock{Type: divi.BlockImage, ImageKey: src, Alt: alt})
		}
	})

	return blocks
}

func stripHTML(s string) string {
	return strings.TrimSpace(reTag.ReplaceAllString(s, ""))
}

func sliceRange(s []string, from, to int) []string {
	if from > len(s) {
		from = len(s)
	}
	if to > len(s) {
		to = len(s)
	}
	if from >= to {
		return nil
	}
	return s[from:to]
}
