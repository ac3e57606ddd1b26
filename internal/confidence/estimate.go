// Package confidence derives a quality score and an approximate page count
// for an extraction, independent of any single OCR backend's own scoring.
package confidence

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

const (
	// PageSizeUnit is the crude bytes-per-page proxy used in the absence of
	// true page boundaries. It is an approximation, not a real page count.
	PageSizeUnit = 500 * 1024

	// maxConfidence is the hard ceiling: OCR is never perfectly certain.
	maxConfidence = 98

	// fallbackCap bounds the confidence of fallback-produced text, which is
	// trusted less than the primary backend's output.
	fallbackCap = 75

	// enhancementBonus rewards runs that fed the OCR a cleaned-up image.
	enhancementBonus = 10
)

// Estimate computes the confidence score (0..98) and page count for an
// extraction. The formula is deterministic:
//
//   - empty or no-text extractions score 0;
//   - a backend-reported confidence, scaled to 0..100, is preferred as the
//     base; otherwise the base is 70 plus 1 point per 200 characters of
//     extracted text, capped at 85;
//   - +10 when the image was enhanced;
//   - capped at 75 when the fallback engine produced the text, and at 98
//     always.
func Estimate(res models.ExtractionResult, sourceByteLength int64, enhanced bool) (int, int) {
	pages := EstimatePages(sourceByteLength)

	if isEmptyText(res.Text) {
		return 0, pages
	}

	var base float64
	if res.HasRawConfidence {
		base = res.RawConfidence * 100
	} else {
		length := utf8.RuneCountInString(res.Text)
		base = 70 + math.Min(15, float64(length)/200)
	}

	score := base
	if enhanced {
		score += enhancementBonus
	}
	if res.UsedFallback && score > fallbackCap {
		score = fallbackCap
	}
	if score > maxConfidence {
		score = maxConfidence
	}
	if score < 0 {
		score = 0
	}
	return int(math.Round(score)), pages
}

// EstimatePages approximates the page count from the source byte length:
// max(1, ceil(length / PageSizeUnit)).
func EstimatePages(byteLength int64) int {
	pages := int(math.Ceil(float64(byteLength) / float64(PageSizeUnit)))
	if pages < 1 {
		return 1
	}
	return pages
}

// isEmptyText treats both the empty string and the extractor's no-text
// sentinel as zero useful content.
func isEmptyText(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || trimmed == models.NoTextSentinel
}
