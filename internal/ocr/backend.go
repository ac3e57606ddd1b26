// Package ocr extracts text from document images. A primary remote backend
// (Google Cloud Vision) does the heavy lifting; a locally-executable
// Tesseract engine serves as the degraded-mode fallback when the primary
// fails or times out.
package ocr

import (
	"context"
	"time"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// LanguageSignal is a backend-reported language detection for a page.
type LanguageSignal struct {
	Code       string
	Confidence float64 // 0..1
}

// Recognition is the raw output of a single backend call.
type Recognition struct {
	// Text is the recognized text, or models.NoTextSentinel when the call
	// succeeded but found none.
	Text string
	// Languages lists detected languages for the first page, ordered by
	// descending confidence. Empty when the backend reports none.
	Languages []LanguageSignal
}

// Backend is the OCR provider contract: one prepared document in, one
// recognition out. The feature selector names the recognition profile for
// backends that support more than one (e.g. Vision's TEXT_DETECTION vs
// DOCUMENT_TEXT_DETECTION); local engines may ignore it.
type Backend interface {
	Name() string
	Recognize(ctx context.Context, src models.SourceFile, hints []string, feature string) (Recognition, error)
}

// FeatureFor maps a processing mode to the Vision feature selector.
// Historical mode requests the densest, handwriting-oriented recognition.
func FeatureFor(mode models.ProcessingMode) string {
	if mode == models.ModeHistorical {
		return "DOCUMENT_TEXT_DETECTION"
	}
	return "TEXT_DETECTION"
}

// TimeoutFor returns the primary-backend deadline for a processing mode.
func TimeoutFor(mode models.ProcessingMode) time.Duration {
	if mode == models.ModeHistorical {
		return 45 * time.Second
	}
	return 30 * time.Second
}

// FallbackTimeoutFor returns the fallback deadline; historical runs are
// given more room since the local engine is the last resort for material
// the primary already struggled with.
func FallbackTimeoutFor(mode models.ProcessingMode) time.Duration {
	if mode == models.ModeHistorical {
		return 30 * time.Second
	}
	return 20 * time.Second
}
