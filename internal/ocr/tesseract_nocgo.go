//go:build !cgo

package ocr

import (
	"context"
	"fmt"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// TesseractBackend is a stub when the binary is built without cgo; the
// fallback engine is unavailable and every call fails.
type TesseractBackend struct{}

// NewTesseractBackend returns the stub fallback engine.
func NewTesseractBackend() *TesseractBackend { return &TesseractBackend{} }

func (b *TesseractBackend) Name() string { return "tesseract" }

func (b *TesseractBackend) Recognize(ctx context.Context, src models.SourceFile, hints []string, feature string) (Recognition, error) {
	return Recognition{}, fmt.Errorf("tesseract fallback unavailable: built without cgo")
}
