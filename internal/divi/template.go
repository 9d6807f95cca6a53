package divi

import (
	"fmt"
	"strings"
)

// TemplateContent is the text content of the fixed article template. Image
// slots arrive separately as already-uploaded URL lists.
type TemplateContent struct {
	Heading  string // article title, rendered as the leading H1 of row 1
	Intro    string
	Texte1   string
	VideoURL string
	Texte2   string
}

// TemplateStrategy assembles a complete Divi document from template content.
// Earlier revisions of the generator used a free block-to-module mapping
// (see FormatBlock); the fixed five-slot template below is the authoritative
// layout and the only strategy still wired.
type TemplateStrategy interface {
	Assemble(content TemplateContent, slider1, slider2 []string) string
}

// FixedTemplate renders the five-slot article layout:
//
//	section 1, row 1: H1 + intro paragraph
//	section 1, row 2: slider 1, text 1, video, text 2, slider 2
//	section 1, row 3: fixed CTA copy + CONTACT button
//	section 2:        empty trailing section, kept for builder compatibility
//
// The structure is fixed; no reordering by content heuristics.
type FixedTemplate struct {
	presets *Presets
}

// NewFixedTemplate loads the embedded presets and returns the template.
func NewFixedTemplate() (*FixedTemplate, error) {
	p, err := LoadPresets()
	if err != nil {
		return nil, err
	}
	return &FixedTemplate{presets: p}, nil
}

// Assemble produces the final shortcode document. slider URL lists keep
// their input order; a nil list renders as an empty placeholder slot.
func (t *FixedTemplate) Assemble(content TemplateContent, slider1, slider2 []string) string {
	row1 := Row(Column(TextModule(t.introHTML(content.Heading, content.Intro))))

	row2 := Row(Column(
		Slider(slider1, t.presets.Slider),
		TextModule(paragraphsHTML(content.Texte1)),
		VideoModule(content.VideoURL),
		TextModule(paragraphsHTML(content.Texte2)),
		Slider(slider2, t.presets.Slider),
	))

	row3 := Row(Column(
		TextModule(t.ctaHTML()),
		Button(t.presets.CTA.ButtonURL, t.presets.CTA.ButtonText),
	))

	doc := []string{
		Section(row1, row2, row3).Render(),
		Section().Render(),
	}
	return strings.Join(doc, "\n")
}

func (t *FixedTemplate) introHTML(heading, intro string) string {
	para := "<p>&nbsp;</p>"
	if s := strings.TrimSpace(intro); s != "" {
		para = fmt.Sprintf("<p>%s</p>", s)
	}
	if heading == "" {
		return para
	}
	return fmt.Sprintf("<h1><strong>%s</strong></h1>\n%s", heading, para)
}

func (t *FixedTemplate) ctaHTML() string {
	return fmt.Sprintf("<h3><strong>%s</strong></h3>\n<p>%s</p>", t.presets.CTA.Heading, t.presets.CTA.Body)
}

// paragraphsHTML splits free text on blank lines and wraps each non-empty
// chunk in a paragraph tag. Empty input keeps its slot with a placeholder.
func paragraphsHTML(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paras []string
	for _, chunk := range strings.Split(text, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		paras = append(paras, fmt.Sprintf("<p>%s</p>", chunk))
	}
	if len(paras) == 0 {
		return "<p>&nbsp;</p>"
	}
	return strings.Join(paras, "\n")
}
