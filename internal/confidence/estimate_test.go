package confidence

import (
	"strings"
	"testing"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

func TestEstimatePages(t *testing.T) {
	tests := []struct {
		name   string
		length int64
		want   int
	}{
		{"zero bytes", 0, 1},
		{"tiny file", 1, 1},
		{"exactly one unit", 500 * 1024, 1},
		{"one byte over", 500*1024 + 1, 2},
		{"1.2MB upload", 1258291, 3},
		{"ten units", 10 * 500 * 1024, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimatePages(tt.length); got != tt.want {
				t.Errorf("EstimatePages(%d) = %d, want %d", tt.length, got, tt.want)
			}
		})
	}
}

func TestEstimate_NeverReaches100(t *testing.T) {
	res := models.ExtractionResult{
		Text:             strings.Repeat("certain text ", 500),
		RawConfidence:    0.99,
		HasRawConfidence: true,
	}

	got, _ := Estimate(res, 1024, true)
	if got > 98 {
		t.Errorf("confidence %d exceeds the 98 ceiling", got)
	}
	if got != 98 {
		t.Errorf("confidence = %d, want enhancement bonus capped at 98", got)
	}
}

func TestEstimate_BackendConfidencePreferred(t *testing.T) {
	res := models.ExtractionResult{
		Text:             "short",
		RawConfidence:    0.62,
		HasRawConfidence: true,
	}

	got, _ := Estimate(res, 1024, false)
	if got != 62 {
		t.Errorf("confidence = %d, want 62 (backend-reported, scaled)", got)
	}
}

func TestEstimate_HeuristicBase(t *testing.T) {
	// No backend confidence: base is 70 + len/200 capped at 85.
	short := models.ExtractionResult{Text: "a few words"}
	long := models.ExtractionResult{Text: strings.Repeat("x", 10000)}

	gotShort, _ := Estimate(short, 1024, false)
	gotLong, _ := Estimate(long, 1024, false)

	if gotShort < 70 || gotShort > 85 {
		t.Errorf("short-text confidence = %d, want within [70,85]", gotShort)
	}
	if gotLong != 85 {
		t.Errorf("long-text confidence = %d, want heuristic cap 85", gotLong)
	}
	if gotLong < gotShort {
		t.Errorf("longer text scored lower (%d < %d)", gotLong, gotShort)
	}
}

func TestEstimate_EnhancementBonus(t *testing.T) {
	res := models.ExtractionResult{Text: "some recognized text"}

	plain, _ := Estimate(res, 1024, false)
	enhanced, _ := Estimate(res, 1024, true)

	if enhanced != plain+10 {
		t.Errorf("enhanced = %d, plain = %d, want +10 bonus", enhanced, plain)
	}
}

func TestEstimate_FallbackCapped(t *testing.T) {
	text := strings.Repeat("recovered text ", 100)
	primary := models.ExtractionResult{Text: text}
	fallback := models.ExtractionResult{
		Text:             text,
		UsedFallback:     true,
		DetectedLanguage: models.FallbackLanguageMarker,
	}

	primaryScore, _ := Estimate(primary, 1024, true)
	fallbackScore, _ := Estimate(fallback, 1024, true)

	if fallbackScore > 75 {
		t.Errorf("fallback confidence = %d, want <= 75", fallbackScore)
	}
	if fallbackScore >= primaryScore {
		t.Errorf("fallback confidence %d not below equivalent primary run %d", fallbackScore, primaryScore)
	}
}

func TestEstimate_EmptyText(t *testing.T) {
	for _, text := range []string{"", "   \n", models.NoTextSentinel} {
		got, pages := Estimate(models.ExtractionResult{Text: text}, 2*500*1024, true)
		if got != 0 {
			t.Errorf("Estimate(%q) confidence = %d, want 0", text, got)
		}
		if pages != 2 {
			t.Errorf("Estimate(%q) pages = %d, want 2", text, pages)
		}
	}
}
