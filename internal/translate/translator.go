// Package translate converts extracted text into a target language. Large
// inputs are split at paragraph and sentence boundaries to respect backend
// length limits, translated with bounded concurrency, and reassembled in the
// original paragraph order.
package translate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// Backend is the translation provider contract: one chunk in, its
// translation out. Implementations carry no state between calls, keeping
// Translate idempotent per (text, source, target) triple.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

const (
	// maxChunkRunes bounds a single backend call. Chunks are cut at
	// paragraph or sentence breaks, never mid-word.
	maxChunkRunes = 4000

	// chunkConcurrency bounds parallel backend calls per translation.
	chunkConcurrency = 4

	defaultTimeout = 30 * time.Second
)

// Translator chunks, fans out and reassembles translations.
type Translator struct {
	backend Backend
	logger  *slog.Logger

	// timeout bounds each backend call; overridable in tests.
	timeout time.Duration
}

// NewTranslator wires a translation backend. A nil logger disables logging.
func NewTranslator(backend Backend, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Translator{backend: backend, logger: logger, timeout: defaultTimeout}
}

// Translate converts text from sourceLang to targetLang. Empty input returns
// an empty result without a backend call. A deadline expiry surfaces as a
// models.TimeoutError; any other backend failure as a models.TranslationError.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (*models.TranslationResult, error) {
	result := &models.TranslationResult{
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
	}
	if strings.TrimSpace(text) == "" {
		return result, nil
	}

	paragraphs := strings.Split(text, "\n\n")
	translated := make([]string, len(paragraphs))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(chunkConcurrency)
	for i, paragraph := range paragraphs {
		eg.Go(func() error {
			out, err := t.translateParagraph(gctx, paragraph, sourceLang, targetLang)
			if err != nil {
				return err
			}
			translated[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		var timeoutErr *models.TimeoutError
		if errors.As(err, &timeoutErr) {
			return nil, err
		}
		var trErr *models.TranslationError
		if errors.As(err, &trErr) {
			return nil, err
		}
		return nil, &models.TranslationError{TargetLanguage: targetLang, Cause: err}
	}

	result.TranslatedText = strings.Join(translated, "\n\n")
	t.logger.Info("translation complete",
		"backend", t.backend.Name(), "target", targetLang, "paragraphs", len(paragraphs))
	return result, nil
}

// translateParagraph translates one paragraph, splitting it into
// sentence-boundary chunks when it exceeds the per-call limit.
func (t *Translator) translateParagraph(ctx context.Context, paragraph, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(paragraph) == "" {
		return paragraph, nil
	}

	var outputs []string
	for _, chunk := range splitChunks(paragraph, maxChunkRunes) {
		out, err := t.callBackend(ctx, chunk, sourceLang, targetLang)
		if err != nil {
			return "", err
		}
		outputs = append(outputs, out)
	}
	return strings.Join(outputs, " "), nil
}

func (t *Translator) callBackend(ctx context.Context, chunk, sourceLang, targetLang string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	start := time.Now()
	out, err := t.backend.Translate(callCtx, chunk, sourceLang, targetLang)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return "", &models.TimeoutError{
				Op:      t.backend.Name() + " translate",
				Elapsed: time.Since(start).Round(time.Millisecond).String(),
			}
		}
		return "", &models.TranslationError{TargetLanguage: targetLang, Cause: err}
	}
	if strings.TrimSpace(out) == "" {
		return "", &models.TranslationError{
			TargetLanguage: targetLang,
			Cause:          errors.New("backend returned empty translation for non-empty input"),
		}
	}
	return out, nil
}

// sentence terminators recognized as chunk boundaries; the danda covers
// Devanagari-script source material.
var sentenceEnders = []string{". ", "! ", "? ", "। ", ".\n", "!\n", "?\n", "।\n"}

// splitChunks cuts text into pieces of at most maxRunes, preferring sentence
// boundaries and falling back to the last word break. It never cuts mid-word
// unless a single word exceeds the limit outright.
func splitChunks(text string, maxRunes int) []string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		if len(runes) <= maxRunes {
			chunks = append(chunks, string(runes))
			break
		}

		window := string(runes[:maxRunes])
		cut := -1
		for _, ender := range sentenceEnders {
			if idx := strings.LastIndex(window, ender); idx >= 0 {
				end := idx + len(ender)
				if end > cut {
					cut = end
				}
			}
		}
		if cut < 0 {
			if idx := strings.LastIndexAny(window, " \n\t"); idx > 0 {
				cut = idx + 1
			}
		}
		if cut <= 0 {
			// A single unbroken run longer than the limit; hard cut.
			cut = len(window)
		}

		chunks = append(chunks, strings.TrimRight(window[:cut], " "))
		runes = []rune(strings.TrimLeft(string(runes[len([]rune(window[:cut])):]), " "))
	}
	return chunks
}
