package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// fakeBackend is a scripted Backend for extractor tests.
type fakeBackend struct {
	name     string
	rec      Recognition
	err      error
	delay    time.Duration
	calls    int
	gotHints []string
	gotFeat  string
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Recognize(ctx context.Context, src models.SourceFile, hints []string, feature string) (Recognition, error) {
	f.calls++
	f.gotHints = hints
	f.gotFeat = feature
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Recognition{}, ctx.Err()
		}
	}
	return f.rec, f.err
}

func srcImage() models.SourceFile {
	return models.SourceFile{Name: "scan.jpg", MIMEType: "image/jpeg", Data: []byte("jpeg bytes")}
}

func TestExtract_PrimarySuccess(t *testing.T) {
	primary := &fakeBackend{name: "primary", rec: Recognition{
		Text: "recognized text",
		Languages: []LanguageSignal{
			{Code: "hi", Confidence: 0.92},
			{Code: "en", Confidence: 0.41},
		},
	}}
	fallback := &fakeBackend{name: "fallback"}
	e := NewExtractor(primary, fallback, nil)

	res, err := e.Extract(context.Background(), srcImage(), models.ProcessingOptions{
		Mode:         models.ModeHistorical,
		LanguageHint: "hi",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if res.Text != "recognized text" {
		t.Errorf("text = %q", res.Text)
	}
	if res.DetectedLanguage != "hi" {
		t.Errorf("detected language = %q, want top signal hi", res.DetectedLanguage)
	}
	if !res.HasRawConfidence || res.RawConfidence != 0.92 {
		t.Errorf("raw confidence = %v (has=%v), want 0.92", res.RawConfidence, res.HasRawConfidence)
	}
	if res.UsedFallback {
		t.Error("usedFallback = true for a primary success")
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times on primary success", fallback.calls)
	}
	if primary.gotFeat != "DOCUMENT_TEXT_DETECTION" {
		t.Errorf("historical feature = %q", primary.gotFeat)
	}
	if len(primary.gotHints) != 1 || primary.gotHints[0] != "hi" {
		t.Errorf("hints = %v, want [hi]", primary.gotHints)
	}
}

func TestExtract_FallbackOnPrimaryFailure(t *testing.T) {
	primary := &fakeBackend{name: "primary", err: errors.New("503 backend unavailable")}
	fallback := &fakeBackend{name: "fallback", rec: Recognition{Text: "fallback text"}}
	e := NewExtractor(primary, fallback, nil)

	res, err := e.Extract(context.Background(), srcImage(), models.DefaultOptions())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !res.UsedFallback {
		t.Error("usedFallback = false after primary failure")
	}
	if res.DetectedLanguage != models.FallbackLanguageMarker {
		t.Errorf("detected language = %q, want %q", res.DetectedLanguage, models.FallbackLanguageMarker)
	}
	if res.HasRawConfidence {
		t.Error("fallback result should carry no raw confidence")
	}
	if fallback.calls != 1 {
		t.Errorf("fallback called %d times, want exactly once", fallback.calls)
	}
}

func TestExtract_FallbackOnPrimaryTimeout(t *testing.T) {
	primary := &fakeBackend{name: "primary", delay: 100 * time.Millisecond, rec: Recognition{Text: "late"}}
	fallback := &fakeBackend{name: "fallback", rec: Recognition{Text: "fallback text"}}
	e := NewExtractor(primary, fallback, nil)
	e.primaryTimeout = 10 * time.Millisecond

	res, err := e.Extract(context.Background(), srcImage(), models.DefaultOptions())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !res.UsedFallback {
		t.Error("usedFallback = false after primary timeout")
	}
	if res.Text != "fallback text" {
		t.Errorf("text = %q", res.Text)
	}
}

func TestExtract_BothFail(t *testing.T) {
	primary := &fakeBackend{name: "primary", err: errors.New("primary down")}
	fallback := &fakeBackend{name: "fallback", err: errors.New("tesseract missing")}
	e := NewExtractor(primary, fallback, nil)

	_, err := e.Extract(context.Background(), srcImage(), models.DefaultOptions())
	if err == nil {
		t.Fatal("expected error when both backends fail")
	}

	var extErr *models.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %T: %v", err, err)
	}
	if extErr.PrimaryErr == nil || extErr.FallbackErr == nil {
		t.Error("ExtractionError should carry both causes")
	}
}

func TestExtract_EmptyRecognitionIsNotAnError(t *testing.T) {
	primary := &fakeBackend{name: "primary", rec: Recognition{Text: models.NoTextSentinel}}
	e := NewExtractor(primary, &fakeBackend{name: "fallback"}, nil)

	res, err := e.Extract(context.Background(), srcImage(), models.DefaultOptions())
	if err != nil {
		t.Fatalf("empty recognition should not fail: %v", err)
	}
	if res.Text != models.NoTextSentinel {
		t.Errorf("text = %q, want sentinel", res.Text)
	}
}

func TestLanguageHints(t *testing.T) {
	tests := []struct {
		name string
		opts models.ProcessingOptions
		want []string
	}{
		{"explicit hint", models.ProcessingOptions{LanguageHint: "ta"}, []string{"ta"}},
		{"standard auto defaults to en", models.ProcessingOptions{Mode: models.ModeStandard, LanguageHint: "auto"}, []string{"en"}},
		{"historical auto unhinted", models.ProcessingOptions{Mode: models.ModeHistorical, LanguageHint: "auto"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := languageHints(tt.opts)
			if len(got) != len(tt.want) {
				t.Fatalf("hints = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("hints = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
