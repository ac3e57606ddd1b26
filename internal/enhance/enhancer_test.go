package enhance

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// encodeTestImage creates an in-memory PNG with a simple pattern.
func encodeTestImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.RGBA{30, 30, 30, 255})
			} else {
				img.Set(x, y, color.RGBA{220, 220, 220, 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestEnhance_Deterministic(t *testing.T) {
	data := encodeTestImage(t, 60, 40)

	first, err := Enhance(data, StandardProfile())
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}
	second, err := Enhance(data, StandardProfile())
	if err != nil {
		t.Fatalf("Enhance failed on second call: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("two calls with identical input and profile produced different bytes")
	}
}

func TestEnhance_AddsPadding(t *testing.T) {
	data := encodeTestImage(t, 60, 40)
	profile := StandardProfile()

	out, err := Enhance(data, profile)
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("failed to decode enhanced output: %v", err)
	}

	wantW := 60 + 2*profile.Padding
	wantH := 40 + 2*profile.Padding
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Errorf("dimensions: got %dx%d, want %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), wantW, wantH)
	}
}

func TestEnhance_InvalidInput(t *testing.T) {
	_, err := Enhance([]byte("definitely not an image"), StandardProfile())
	if err == nil {
		t.Fatal("expected error for undecodable input")
	}

	var encErr *models.EncodingError
	if !errors.As(err, &encErr) {
		t.Errorf("expected EncodingError, got %T: %v", err, err)
	}
}

func TestEnhance_HistoricalBinarizes(t *testing.T) {
	data := encodeTestImage(t, 40, 40)

	out, err := Enhance(data, HistoricalProfile())
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("failed to decode enhanced output: %v", err)
	}

	// Thresholded output has only near-black and near-white pixels. JPEG
	// re-encoding smears edges, so sample away from pattern boundaries.
	bounds := img.Bounds()
	r, g, b, _ := img.At(bounds.Min.X, bounds.Min.Y).RGBA()
	gray := (r + g + b) / 3
	if gray>>8 > 40 && gray>>8 < 215 {
		t.Errorf("corner pixel not binarized: gray value %d", gray>>8)
	}
}

func TestProfileFor(t *testing.T) {
	if got := ProfileFor(models.ModeHistorical); got.Threshold == 0 {
		t.Error("historical profile should binarize")
	}
	if got := ProfileFor(models.ModeStandard); got.Threshold != 0 {
		t.Error("standard profile should not binarize")
	}
}
