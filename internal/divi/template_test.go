package divi

import (
	"strings"
	"testing"
)

func newTemplate(t *testing.T) *FixedTemplate {
	t.Helper()
	tmpl, err := NewFixedTemplate()
	if err != nil {
		t.Fatalf("NewFixedTemplate() error = %v", err)
	}
	return tmpl
}

func TestSliderShapes(t *testing.T) {
	opts := SliderOptions{Loop: "on", Arrows: "on", Dots: "on", ImageFit: "contain", OriginalRatio: "on"}

	t.Run("zero images keeps an empty slot", func(t *testing.T) {
		got := Slider(nil, opts).Render()
		if !strings.HasPrefix(got, `[et_pb_image src="" `) {
			t.Errorf("want empty image module, got %q", got)
		}
	})

	t.Run("one image is a plain centered image, not a slider", func(t *testing.T) {
		got := Slider([]string{"https://example.com/a.jpg"}, opts).Render()
		if strings.Contains(got, "dipi_image_slider") {
			t.Errorf("single image must not become a one-item gallery: %q", got)
		}
		if !strings.Contains(got, `align="center"`) {
			t.Errorf("single image must be centered: %q", got)
		}
	})

	t.Run("two images become a slider in input order", func(t *testing.T) {
		got := Slider([]string{"https://example.com/a.jpg", "https://example.com/b.jpg"}, opts).Render()
		if !strings.HasPrefix(got, `[dipi_image_slider loop="on" show_arrows="on" show_dots="on"`) {
			t.Fatalf("unexpected slider head: %q", got)
		}
		if strings.Count(got, "[dipi_image_slider_item ") != 2 {
			t.Errorf("want one item per image: %q", got)
		}
		if strings.Index(got, "a.jpg") > strings.Index(got, "b.jpg") {
			t.Errorf("items must keep input order: %q", got)
		}
		if !strings.Contains(got, `image_fit="contain"`) || !strings.Contains(got, `use_original_ratio="on"`) {
			t.Errorf("items must never crop: %q", got)
		}
	})
}

func TestAssembleDocumentShape(t *testing.T) {
	tmpl := newTemplate(t)

	doc := tmpl.Assemble(TemplateContent{
		Heading:  "Mon article",
		Intro:    "Hi",
		Texte1:   "A\n\nB",
		VideoURL: "https://youtu.be/x",
		Texte2:   "C",
	}, []string{"https://example.com/1.jpg"}, nil)

	if strings.Count(doc, "[et_pb_section ") != 2 {
		t.Fatalf("want exactly two sections, got:\n%s", doc)
	}
	if strings.Count(doc, "[et_pb_row ") != 3 {
		t.Errorf("want exactly three rows, got %d", strings.Count(doc, "[et_pb_row "))
	}
	if !strings.HasSuffix(doc, `[et_pb_section fb_built="1" _builder_version="4.27.4" global_colors_info="{}"][/et_pb_section]`) {
		t.Errorf("document must end with the empty trailing section")
	}

	if !strings.Contains(doc, "<h1><strong>Mon article</strong></h1>") {
		t.Errorf("missing H1 heading")
	}
	if !strings.Contains(doc, "<p>Hi</p>") {
		t.Errorf("intro must be wrapped in a paragraph")
	}
	if !strings.Contains(doc, "<p>A</p>\n<p>B</p>") {
		t.Errorf("texte1 paragraphs must split on blank lines")
	}
	if !strings.Contains(doc, `[et_pb_video src="https://youtu.be/x"`) {
		t.Errorf("missing video module")
	}
	if strings.Count(doc, `button_text="CONTACT"`) != 1 {
		t.Errorf("want exactly one CONTACT button")
	}
	if !strings.Contains(doc, "Prêt à donner une nouvelle dimension à votre projet ?") {
		t.Errorf("missing fixed CTA copy")
	}
}

func TestAssembleEmptySlots(t *testing.T) {
	tmpl := newTemplate(t)

	doc := tmpl.Assemble(TemplateContent{}, nil, nil)

	// Both sliders collapse to empty image modules and both text slots keep
	// a placeholder paragraph: the layout never loses a slot.
	if strings.Count(doc, `[et_pb_image src="" `) != 2 {
		t.Errorf("want two empty image slots, got:\n%s", doc)
	}
	if strings.Count(doc, "<p>&nbsp;</p>") != 3 {
		t.Errorf("want placeholder paragraphs for intro, texte1 and texte2, got %d", strings.Count(doc, "<p>&nbsp;</p>"))
	}
	if strings.Contains(doc, "<h1>") {
		t.Errorf("no heading requested, none should render")
	}
}

func TestAssembleSliderOrder(t *testing.T) {
	tmpl := newTemplate(t)

	urls := []string{"https://example.com/1.jpg", "https://example.com/2.jpg", "https://example.com/3.jpg"}
	doc := tmpl.Assemble(TemplateContent{}, urls, nil)

	last := -1
	for _, u := range urls {
		idx := strings.Index(doc, u)
		if idx == -1 {
			t.Fatalf("url %s missing from document", u)
		}
		if idx < last {
			t.Fatalf("url %s out of order", u)
		}
		last = idx
	}
}
