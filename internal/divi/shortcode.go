// Package divi renders WordPress content in the Divi builder's shortcode
// syntax. The destination builder parses this format back into its own
// editor, so tag names, attribute keys and attribute order are pinned and
// must not be "cleaned up".
package divi

import "strings"

// BuilderVersion is the Divi builder version every module is pinned to.
// Changing it changes how the destination editor interprets the content.
const BuilderVersion = "4.27.4"

// Attr is a single shortcode attribute. Order of attributes is significant
// to the destination builder, hence a slice rather than a map.
type Attr struct {
	Key   string
	Value string
}

// Shortcode is one Divi module, row or section. It renders itself to the
// square-bracket syntax the builder expects. A Shortcode with children
// ignores Body; a self-closing Shortcode ignores both.
type Shortcode struct {
	Tag         string
	Attrs       []Attr
	Body        string
	Children    []Shortcode
	SelfClosing bool
}

// Render produces the byte-exact shortcode string.
func (s Shortcode) Render() string {
	var b strings.Builder
	s.render(&b)
	return b.String()
}

func (s Shortcode) render(b *strings.Builder) {
	b.WriteByte('[')
	b.WriteString(s.Tag)
	for _, a := range s.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	if s.SelfClosing {
		b.WriteString(" /]")
		return
	}
	b.WriteByte(']')
	if len(s.Children) > 0 {
		for i, c := range s.Children {
			if i > 0 {
				b.WriteByte('\n')
			}
			c.render(b)
		}
	} else {
		b.WriteString(s.Body)
	}
	b.WriteString("[/")
	b.WriteString(s.Tag)
	b.WriteByte(']')
}

// base returns the fixed attribute pair every module carries.
func base() []Attr {
	return []Attr{
		{"_builder_version", BuilderVersion},
		{"global_colors_info", "{}"},
	}
}

// Section builds a top-level section. fb_built marks the post as
// builder-managed.
func Section(children ...Shortcode) Shortcode {
	return Shortcode{
		Tag:      "et_pb_section",
		Attrs:    append([]Attr{{"fb_built", "1"}}, base()...),
		Children: children,
	}
}

// Row builds a row inside a section.
func Row(children ...Shortcode) Shortcode {
	return Shortcode{Tag: "et_pb_row", Attrs: base(), Children: children}
}

// Column builds a full-width column.
func Column(children ...Shortcode) Shortcode {
	return Shortcode{
		Tag:      "et_pb_column",
		Attrs:    append([]Attr{{"type", "4_4"}}, base()...),
		Children: children,
	}
}

// TextModule wraps HTML in a Divi text module.
func TextModule(html string) Shortcode {
	return Shortcode{Tag: "et_pb_text", Attrs: base(), Body: html}
}

// CodeModule wraps preformatted content in a Divi code module, which the
// builder leaves unprocessed.
func CodeModule(html string) Shortcode {
	return Shortcode{Tag: "et_pb_code", Attrs: base(), Body: html}
}

// ImageModule builds a single self-closing image module. src may be empty:
// a failed upload keeps its slot in the layout rather than disappearing.
func ImageModule(src, alt string) Shortcode {
	return Shortcode{
		Tag: "et_pb_image",
		Attrs: append([]Attr{
			{"src", src},
			{"alt", alt},
			{"title_text", alt},
		}, base()...),
		SelfClosing: true,
	}
}

// CenteredImage is an ImageModule aligned to the center of its column.
func CenteredImage(src, alt string) Shortcode {
	return Shortcode{
		Tag: "et_pb_image",
		Attrs: append([]Attr{
			{"src", src},
			{"alt", alt},
			{"title_text", alt},
			{"align", "center"},
		}, base()...),
		SelfClosing: true,
	}
}

// VideoModule builds a video module pointing at an external URL.
func VideoModule(src string) Shortcode {
	return Shortcode{
		Tag:   "et_pb_video",
		Attrs: append([]Attr{{"src", src}}, base()...),
	}
}

// Button builds a centered call-to-action button.
func Button(url, label string) Shortcode {
	return Shortcode{
		Tag: "et_pb_button",
		Attrs: append([]Attr{
			{"button_url", url},
			{"button_text", label},
			{"button_alignment", "center"},
		}, base()...),
	}
}
