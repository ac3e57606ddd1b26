// Package pipeline sequences a single document-processing run: optional
// enhancement, extraction with fallback, confidence estimation, and an
// optional translation step. Each run owns its inputs and intermediates;
// concurrent runs share nothing but the document store downstream.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Vickydmt/ocrtxt/internal/confidence"
	"github.com/Vickydmt/ocrtxt/internal/enhance"
	"github.com/Vickydmt/ocrtxt/internal/models"
	"github.com/Vickydmt/ocrtxt/internal/ocr"
)

// Stage identifies where in the run a failure occurred.
type Stage string

const (
	StageEnhance   Stage = "enhance"
	StageExtract   Stage = "extract"
	StageEstimate  Stage = "estimate"
	StageTranslate Stage = "translate"
)

// Error is a typed pipeline failure carrying the stage that caused it.
type Error struct {
	Stage Stage
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Stage, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// ProgressFunc receives progress in [0,100]. Values delivered to a single
// run's sink are strictly non-decreasing; the final value on success is
// always exactly 100.
type ProgressFunc func(percent int)

// Progress milestones reported at stage boundaries.
const (
	progressStart     = 0
	progressEnhanced  = 40
	progressExtracted = 70
	progressEstimated = 90
	progressComplete  = 100
)

// Extractor is the extraction stage contract.
type Extractor interface {
	Extract(ctx context.Context, src models.SourceFile, opts models.ProcessingOptions) (models.ExtractionResult, error)
}

// Translator is the optional translation stage contract.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*models.TranslationResult, error)
}

// PreviewSaver stores the enhanced image and returns a reference to it.
type PreviewSaver interface {
	SavePreview(ctx context.Context, name string, jpeg []byte) (string, error)
}

// PDFPreparer normalizes a PDF upload before extraction.
type PDFPreparer func(data []byte) ([]byte, error)

// Output is the outcome of a successful run. A translation failure is
// reported here without invalidating the extraction.
type Output struct {
	Result      models.ProcessingResult
	Translation *models.TranslationResult
	// TranslationErr is set when translation was requested and failed; the
	// Result remains valid and saveable.
	TranslationErr error
}

// Orchestrator drives runs. Translator, previews and preparePDF are
// optional; a nil translator skips the translation stage even when
// requested.
type Orchestrator struct {
	extractor  Extractor
	translator Translator
	previews   PreviewSaver
	preparePDF PDFPreparer
	logger     *slog.Logger

	// enhanceBudget is the wall-clock allowance for the enhancement stage,
	// counted into the run deadline alongside the extraction budgets.
	enhanceBudget time.Duration

	// deadlineOverride replaces the computed run deadline in tests.
	deadlineOverride time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTranslator enables the translation stage.
func WithTranslator(t Translator) Option {
	return func(o *Orchestrator) { o.translator = t }
}

// WithPreviewSaver enables enhanced-preview uploads.
func WithPreviewSaver(p PreviewSaver) Option {
	return func(o *Orchestrator) { o.previews = p }
}

// WithPDFPreparer enables PDF normalization before extraction.
func WithPDFPreparer(p PDFPreparer) Option {
	return func(o *Orchestrator) { o.preparePDF = p }
}

// New creates an orchestrator around the extraction stage.
func New(extractor Extractor, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := &Orchestrator{
		extractor:     extractor,
		logger:        logger,
		enhanceBudget: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one pipeline run. Enhancement failures degrade to the
// original bytes; extraction failures abort with a typed *Error; exceeding
// the run deadline surfaces a models.TimeoutError. Translation failures are
// reported in the Output, never as the run's error.
func (o *Orchestrator) Run(ctx context.Context, src models.SourceFile, opts models.ProcessingOptions, progress ProgressFunc) (*Output, error) {
	report := monotonic(progress)
	logCtx := o.logger.With("document", src.Name, "mode", string(opts.Mode))

	// The run deadline bounds enhancement plus extraction (primary and
	// fallback); translation carries its own per-call deadline.
	budget := o.deadlineOverride
	if budget <= 0 {
		budget = o.enhanceBudget + ocr.TimeoutFor(opts.Mode) + ocr.FallbackTimeoutFor(opts.Mode)
	}
	runCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	report(progressStart)

	working, previewRef, enhanced := o.enhanceStage(runCtx, logCtx, src, opts)
	report(progressEnhanced)

	extraction, err := o.extractor.Extract(runCtx, working, opts)
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, &models.TimeoutError{Op: "pipeline enhance+extract", Elapsed: budget.String()}
		}
		return nil, &Error{Stage: StageExtract, Cause: err}
	}
	report(progressExtracted)

	// Estimation is pure and cannot fail.
	score, pages := confidence.Estimate(extraction, src.Size(), enhanced)
	result := models.ProcessingResult{
		Text:               extraction.Text,
		Confidence:         score,
		Pages:              pages,
		DetectedLanguage:   extraction.DetectedLanguage,
		UsedFallback:       extraction.UsedFallback,
		EnhancedPreviewRef: previewRef,
	}
	report(progressEstimated)

	out := &Output{Result: result}
	if opts.TranslateTo != "" && o.translator != nil && hasUsefulText(result.Text) {
		tr, trErr := o.translator.Translate(ctx, result.Text, extraction.DetectedLanguage, opts.TranslateTo)
		if trErr != nil {
			logCtx.Warn("translation failed; extraction remains saveable", "target", opts.TranslateTo, "error", trErr)
			out.TranslationErr = trErr
		} else {
			out.Translation = tr
		}
	}

	report(progressComplete)
	logCtx.Info("pipeline run complete",
		"confidence", result.Confidence, "pages", result.Pages, "usedFallback", result.UsedFallback)
	return out, nil
}

// enhanceStage runs enhancement or PDF preparation. Failures here never
// abort the run; the original bytes are used instead of a silently blank
// image.
func (o *Orchestrator) enhanceStage(ctx context.Context, logCtx *slog.Logger, src models.SourceFile, opts models.ProcessingOptions) (models.SourceFile, string, bool) {
	if src.IsPDF() {
		if o.preparePDF == nil {
			return src, "", false
		}
		prepared, err := o.preparePDF(src.Data)
		if err != nil {
			logCtx.Warn("PDF preparation failed; proceeding with original bytes", "error", err)
			return src, "", false
		}
		return models.SourceFile{Name: src.Name, MIMEType: src.MIMEType, Data: prepared}, "", false
	}

	if !opts.EnhanceImage {
		return src, "", false
	}

	enhancedBytes, err := enhance.Enhance(src.Data, enhance.ProfileFor(opts.Mode))
	if err != nil {
		logCtx.Warn("enhancement failed; proceeding with original image", "error", err)
		return src, "", false
	}

	var previewRef string
	if o.previews != nil {
		ref, err := o.previews.SavePreview(ctx, src.Name, enhancedBytes)
		if err != nil {
			logCtx.Warn("failed to store enhanced preview", "error", err)
		} else {
			previewRef = ref
		}
	}

	working := models.SourceFile{Name: src.Name, MIMEType: "image/jpeg", Data: enhancedBytes}
	return working, previewRef, true
}

// monotonic wraps a sink so reported values never decrease and stay in
// [0,100]. A nil sink becomes a no-op.
func monotonic(sink ProgressFunc) ProgressFunc {
	if sink == nil {
		return func(int) {}
	}
	last := -1
	return func(percent int) {
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
		if percent <= last {
			return
		}
		last = percent
		sink(percent)
	}
}

func hasUsefulText(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed != "" && trimmed != models.NoTextSentinel
}
