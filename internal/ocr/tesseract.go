//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// TesseractBackend is the locally-executable fallback OCR engine. It knows
// nothing about languages beyond the trained data installed on the host and
// reports no language signal.
type TesseractBackend struct{}

// NewTesseractBackend returns the local Tesseract engine. Tesseract and its
// language data must be installed on the system.
func NewTesseractBackend() *TesseractBackend { return &TesseractBackend{} }

func (b *TesseractBackend) Name() string { return "tesseract" }

// Recognize runs Tesseract over the image bytes. The feature selector is
// ignored; PDFs are not supported by the local engine.
func (b *TesseractBackend) Recognize(ctx context.Context, src models.SourceFile, hints []string, feature string) (Recognition, error) {
	if src.IsPDF() {
		return Recognition{}, fmt.Errorf("tesseract fallback cannot read PDF input")
	}
	if err := ctx.Err(); err != nil {
		return Recognition{}, err
	}

	// Tesseract needs a file path.
	tmpFile, err := os.CreateTemp("", "ocr-fallback-*.img")
	if err != nil {
		return Recognition{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(src.Data); err != nil {
		tmpFile.Close()
		return Recognition{}, fmt.Errorf("failed to write temp image: %w", err)
	}
	tmpFile.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if langs := tesseractLanguages(hints); len(langs) > 0 {
		if err := client.SetLanguage(langs...); err != nil {
			return Recognition{}, fmt.Errorf("failed to set language: %w", err)
		}
	}
	if err := client.SetImage(tmpPath); err != nil {
		return Recognition{}, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return Recognition{}, fmt.Errorf("OCR failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		text = models.NoTextSentinel
	}
	return Recognition{Text: text}, nil
}

// tesseractLanguages maps ISO language hints to Tesseract trained-data codes,
// dropping hints without a known mapping. An empty result lets gosseract use
// its default ("eng").
func tesseractLanguages(hints []string) []string {
	iso := map[string]string{
		"en": "eng",
		"hi": "hin",
		"bn": "ben",
		"ta": "tam",
		"te": "tel",
		"mr": "mar",
		"gu": "guj",
		"kn": "kan",
		"ml": "mal",
		"pa": "pan",
		"ur": "urd",
	}
	var langs []string
	for _, hint := range hints {
		if code, ok := iso[hint]; ok {
			langs = append(langs, code)
		}
	}
	return langs
}
