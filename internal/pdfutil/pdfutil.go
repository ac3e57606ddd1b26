// Package pdfutil validates and normalizes uploaded PDFs before OCR.
package pdfutil

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the true page count of a PDF.
func PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), configuration())
	if err != nil {
		return 0, fmt.Errorf("failed to count PDF pages: %w", err)
	}
	return count, nil
}

// Prepare validates and optimizes a PDF upload and enforces the page limit
// of the synchronous OCR endpoint. It returns the optimized bytes.
func Prepare(data []byte, maxPages int) ([]byte, error) {
	count, err := PageCount(data)
	if err != nil {
		return nil, err
	}
	if maxPages > 0 && count > maxPages {
		return nil, fmt.Errorf("PDF has %d pages; synchronous OCR handles at most %d", count, maxPages)
	}

	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, configuration()); err != nil {
		return nil, fmt.Errorf("failed to optimize PDF: %w", err)
	}
	return buf.Bytes(), nil
}
