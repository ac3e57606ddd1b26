package models

import "fmt"

// EncodingError reports input bytes that could not be decoded as a raster
// image. It is fatal to the enhancement stage only; the pipeline degrades to
// the unenhanced input rather than aborting.
type EncodingError struct {
	Cause error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("image encoding error: %v", e.Cause)
}

func (e *EncodingError) Unwrap() error { return e.Cause }

// ExtractionError reports that both the primary and the fallback OCR backend
// failed. It aborts the run.
type ExtractionError struct {
	PrimaryErr  error
	FallbackErr error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: primary: %v; fallback: %v", e.PrimaryErr, e.FallbackErr)
}

func (e *ExtractionError) Unwrap() error { return e.FallbackErr }

// TimeoutError reports a backend call that exceeded its deadline. The
// extractor treats it as a fallback trigger; the translator surfaces it
// directly.
type TimeoutError struct {
	Op      string
	Elapsed string
}

func (e *TimeoutError) Error() string {
	if e.Elapsed != "" {
		return fmt.Sprintf("%s: deadline exceeded after %s", e.Op, e.Elapsed)
	}
	return fmt.Sprintf("%s: deadline exceeded", e.Op)
}

// TranslationError reports a translation backend failure. It never
// invalidates a prior successful extraction.
type TranslationError struct {
	TargetLanguage string
	Cause          error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation to %q failed: %v", e.TargetLanguage, e.Cause)
}

func (e *TranslationError) Unwrap() error { return e.Cause }
