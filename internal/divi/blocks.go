package divi

import "fmt"

// BlockType discriminates ContentBlock variants.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockQuote     BlockType = "quote"
	BlockCode      BlockType = "code"
	BlockImage     BlockType = "image"
	BlockVideo     BlockType = "video"
)

// ContentBlock is one structured piece of an article, produced by parsing an
// AI response. An unknown Type falls back to paragraph semantics using Text
// or HTML, whichever is set.
type ContentBlock struct {
	Type      BlockType `json:"type"`
	Text      string    `json:"text,omitempty"`
	HTML      string    `json:"html,omitempty"`
	Level     int       `json:"level,omitempty"`
	Ordered   bool      `json:"ordered,omitempty"`
	ImageKey  string    `json:"imageKey,omitempty"`
	ImageKeys []string  `json:"imageKeys,omitempty"`
	Alt       string    `json:"alt,omitempty"`
	URL       string    `json:"url,omitempty"`
}

// FormatBlock converts one content block into its Divi shortcode fragment.
// It is pure and total: unknown fields default to empty strings and an
// unresolved image key yields an empty src, never a missing module.
func FormatBlock(block ContentBlock, imageURLs map[string]string) string {
	switch block.Type {
	case BlockHeading:
		return TextModule(headingHTML(block.Level, block.Text)).Render()

	case BlockParagraph:
		return TextModule(fmt.Sprintf("<p>%s</p>", block.Text)).Render()

	case BlockList:
		tag := "ul"
		if block.Ordered {
			tag = "ol"
		}
		return TextModule(fmt.Sprintf("<%s>%s</%s>", tag, block.Text, tag)).Render()

	case BlockQuote:
		return TextModule(fmt.Sprintf("<p><em>%s</em></p>", block.Text)).Render()

	case BlockCode:
		return CodeModule(fmt.Sprintf("<pre><code>%s</code></pre>", block.Text)).Render()

	case BlockImage:
		urls := resolveImageURLs(block, imageURLs)
		if len(urls) == 1 {
			return ImageModule(urls[0], block.Alt).Render()
		}
		children := make([]Shortcode, 0, len(urls))
		for _, u := range urls {
			children = append(children, Shortcode{
				Tag: "dipi_image_slider_item",
				Attrs: append([]Attr{
					{"image", u},
					{"image_fit", "contain"},
					{"use_original_ratio", "on"},
				}, base()...),
			})
		}
		return Shortcode{Tag: "dipi_image_slider", Attrs: base(), Children: children}.Render()

	case BlockVideo:
		return VideoModule(block.URL).Render()

	default:
		// Unknown block kinds degrade to a paragraph so no content is lost.
		text := block.Text
		if text == "" {
			text = block.HTML
		}
		return TextModule(fmt.Sprintf("<p>%s</p>", text)).Render()
	}
}

// resolveImageURLs maps a block's image key(s) through the uploaded-URL
// table. A key with no entry resolves to an empty string: the slot in the
// layout is preserved even when the upload failed.
func resolveImageURLs(block ContentBlock, imageURLs map[string]string) []string {
	keys := block.ImageKeys
	if len(keys) == 0 {
		keys = []string{block.ImageKey}
	}
	urls := make([]string, 0, len(keys))
	for _, k := range keys {
		urls = append(urls, imageURLs[k])
	}
	return urls
}

func headingHTML(level int, text string) string {
	switch level {
	case 1:
		return fmt.Sprintf("<h1><strong>%s</strong></h1>", text)
	case 3:
		return fmt.Sprintf("<h3><strong>%s</strong></h3>", text)
	case 4:
		return fmt.Sprintf(`<h4><em><span style="font-size: medium;">%s</span></em></h4>`, text)
	default:
		if level < 1 || level > 4 {
			level = 2
		}
		return fmt.Sprintf("<h%d><strong>%s</strong></h%d>", level, text, level)
	}
}
