package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// Extractor sends a prepared document to the primary backend and, when that
// fails for any reason, invokes the fallback exactly once. Both the standard
// and historical paths run through here; the mode only changes the feature
// selector, hints and timeout budget.
type Extractor struct {
	primary  Backend
	fallback Backend
	logger   *slog.Logger

	// Timeout overrides for tests; zero means the mode-dependent default.
	primaryTimeout  time.Duration
	fallbackTimeout time.Duration
}

// NewExtractor wires the primary and fallback backends. A nil logger
// disables extraction logging.
func NewExtractor(primary, fallback Backend, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{primary: primary, fallback: fallback, logger: logger}
}

// Extract runs recognition over the source file. The primary backend gets a
// single attempt under a mode-dependent deadline; a failure of any kind
// triggers one fallback attempt. When both fail the step fails with a
// models.ExtractionError.
func (e *Extractor) Extract(ctx context.Context, src models.SourceFile, opts models.ProcessingOptions) (models.ExtractionResult, error) {
	hints := languageHints(opts)
	feature := FeatureFor(opts.Mode)

	primaryTimeout := e.primaryTimeout
	if primaryTimeout <= 0 {
		primaryTimeout = TimeoutFor(opts.Mode)
	}
	fallbackTimeout := e.fallbackTimeout
	if fallbackTimeout <= 0 {
		fallbackTimeout = FallbackTimeoutFor(opts.Mode)
	}

	rec, primaryErr := e.callBackend(ctx, e.primary, src, hints, feature, primaryTimeout)
	if primaryErr == nil {
		result := models.ExtractionResult{Text: rec.Text}
		if len(rec.Languages) > 0 {
			result.DetectedLanguage = rec.Languages[0].Code
			result.RawConfidence = rec.Languages[0].Confidence
			result.HasRawConfidence = true
		}
		return result, nil
	}

	e.logger.Warn("primary OCR backend failed, invoking fallback",
		"backend", e.primary.Name(), "error", primaryErr)

	rec, fallbackErr := e.callBackend(ctx, e.fallback, src, hints, feature, fallbackTimeout)
	if fallbackErr != nil {
		return models.ExtractionResult{}, &models.ExtractionError{
			PrimaryErr:  primaryErr,
			FallbackErr: fallbackErr,
		}
	}

	// The local engine reports no language signal; mark that explicitly
	// rather than leaving the field empty.
	return models.ExtractionResult{
		Text:             rec.Text,
		DetectedLanguage: models.FallbackLanguageMarker,
		UsedFallback:     true,
	}, nil
}

// callBackend invokes one backend under its own deadline, classifying
// deadline expiry as a models.TimeoutError.
func (e *Extractor) callBackend(ctx context.Context, b Backend, src models.SourceFile, hints []string, feature string, timeout time.Duration) (Recognition, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	rec, err := b.Recognize(callCtx, src, hints, feature)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return Recognition{}, &models.TimeoutError{
				Op:      fmt.Sprintf("%s recognize", b.Name()),
				Elapsed: time.Since(start).Round(time.Millisecond).String(),
			}
		}
		return Recognition{}, err
	}
	return rec, nil
}

// languageHints converts the option's language hint into backend hints. The
// standard path keeps the historical default of hinting English when the
// caller picked "auto"; historical mode sends no hint so the backend's own
// detection is unconstrained.
func languageHints(opts models.ProcessingOptions) []string {
	if opts.LanguageHint != "" && opts.LanguageHint != "auto" {
		return []string{opts.LanguageHint}
	}
	if opts.Mode == models.ModeHistorical {
		return nil
	}
	return []string{"en"}
}
