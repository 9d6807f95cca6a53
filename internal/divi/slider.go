package divi

// SliderOptions carries the pinned attribute values of the image slider
// module, loaded from the embedded presets file.
type SliderOptions struct {
	Loop          string `yaml:"loop"`
	Arrows        string `yaml:"arrows"`
	Dots          string `yaml:"dots"`
	ImageFit      string `yaml:"image_fit"`
	OriginalRatio string `yaml:"original_ratio"`
}

// Slider renders a run of image URLs according to the image count:
//
//	0 images: a single image module with an empty src, so the slot stays
//	          visible in the layout
//	1 image:  a plain centered image module (not a one-item slider - the
//	          emitted tag name differs and already-published posts depend
//	          on the distinction)
//	2+:       a slider-mode gallery with one child per image, in input
//	          order, never cropping (fit contain, original ratio)
func Slider(urls []string, opts SliderOptions) Shortcode {
	switch len(urls) {
	case 0:
		return ImageModule("", "")
	case 1:
		return CenteredImage(urls[0], "")
	}

	children := make([]Shortcode, 0, len(urls))
	for _, u := range urls {
		children = append(children, Shortcode{
			Tag: "dipi_image_slider_item",
			Attrs: append([]Attr{
				{"image", u},
				{"image_fit", opts.ImageFit},
				{"use_original_ratio", opts.OriginalRatio},
			}, base()...),
		})
	}

	return Shortcode{
		Tag: "dipi_image_slider",
		Attrs: append([]Attr{
			{"loop", opts.Loop},
			{"show_arrows", opts.Arrows},
			{"show_dots", opts.Dots},
		}, base()...),
		Children: children,
	}
}
