// Package enhance normalizes raw document images for OCR. The transform is a
// pure function of the input bytes and the chosen profile: pad the canvas,
// fill the background, then run a fixed filter chain (contrast, brightness,
// grayscale, optional binarization) and re-encode at a fixed JPEG quality.
package enhance

import (
	"bytes"
	"image"
	"image/color"

	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// Profile is a fixed intensity profile for the enhancement chain. Identical
// input and profile produce byte-identical output.
type Profile struct {
	// Padding is the border, in pixels, added around the image so edge
	// artifacts do not touch the frame.
	Padding int
	// Contrast is the contrast change in [-1, 1]; 0 leaves the image as-is.
	Contrast float64
	// Brightness is the brightness change in [-1, 1].
	Brightness float64
	// Grayscale converts the image to grayscale after the adjustments.
	Grayscale bool
	// Threshold, when non-zero, binarizes the grayscale image at the given
	// level. Used for faded historical documents.
	Threshold uint8
	// JPEGQuality is the fixed re-encode quality (1-100).
	JPEGQuality int
}

// StandardProfile mirrors the plain contrast(1.2)/brightness(1.1) canvas
// filter used for everyday documents.
func StandardProfile() Profile {
	return Profile{
		Padding:     16,
		Contrast:    0.2,
		Brightness:  0.1,
		Grayscale:   true,
		JPEGQuality: 90,
	}
}

// HistoricalProfile is tuned for faded, handwritten material: a stronger
// contrast boost and threshold binarization on top of grayscale.
func HistoricalProfile() Profile {
	return Profile{
		Padding:     24,
		Contrast:    0.35,
		Brightness:  0.05,
		Grayscale:   true,
		Threshold:   160,
		JPEGQuality: 90,
	}
}

// ProfileFor returns the enhancement profile for a processing mode.
func ProfileFor(mode models.ProcessingMode) Profile {
	if mode == models.ModeHistorical {
		return HistoricalProfile()
	}
	return StandardProfile()
}

// Enhance decodes data as a raster image, applies the profile, and returns
// the re-encoded JPEG bytes. It returns a models.EncodingError when the input
// cannot be decoded; it performs no I/O.
func Enhance(data []byte, p Profile) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &models.EncodingError{Cause: err}
	}

	var img image.Image = src
	if p.Padding > 0 {
		bounds := img.Bounds()
		canvas := imaging.New(bounds.Dx()+2*p.Padding, bounds.Dy()+2*p.Padding, color.White)
		img = imaging.PasteCenter(canvas, img)
	}

	if p.Contrast != 0 {
		img = adjust.Contrast(img, p.Contrast)
	}
	if p.Brightness != 0 {
		img = adjust.Brightness(img, p.Brightness)
	}
	if p.Grayscale {
		img = imaging.Grayscale(img)
	}
	if p.Threshold > 0 {
		img = segment.Threshold(img, p.Threshold)
	}

	quality := p.JPEGQuality
	if quality <= 0 {
		quality = 90
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, &models.EncodingError{Cause: err}
	}
	return buf.Bytes(), nil
}
