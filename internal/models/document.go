package models

import "time"

// ProcessingMode selects the OCR feature profile and fallback aggressiveness.
type ProcessingMode string

const (
	ModeStandard   ProcessingMode = "standard"
	ModeHistorical ProcessingMode = "historical"
)

// NoTextSentinel is the text returned by a successful recognition that found
// no text in the image. It counts as zero useful content downstream.
const NoTextSentinel = "No text found"

// FallbackLanguageMarker marks extraction results produced by the local
// fallback engine, which reports no language signal.
const FallbackLanguageMarker = "unknown (fallback)"

// SourceFile is the immutable input to a pipeline run. The raw bytes are
// consumed by the run and never persisted verbatim; only a reference survives
// in the DocumentRecord.
type SourceFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Size returns the byte length of the source file.
func (s SourceFile) Size() int64 { return int64(len(s.Data)) }

// IsPDF reports whether the declared MIME type is a PDF.
func (s SourceFile) IsPDF() bool { return s.MIMEType == "application/pdf" }

// ProcessingOptions configures a single pipeline run. Immutable per run.
type ProcessingOptions struct {
	// EnhanceImage applies the image enhancer before OCR.
	EnhanceImage bool
	// Mode selects the recognition profile and timeout budget.
	Mode ProcessingMode
	// LanguageHint is an ISO language code, or "auto" for no hint.
	LanguageHint string
	// ConfidenceThreshold is advisory (0..100); it never blocks saving.
	ConfidenceThreshold int
	// TranslateTo, when non-empty, requests translation of the extracted
	// text into the given target language as the final pipeline stage.
	TranslateTo string
}

// DefaultOptions mirrors the defaults the upload flow applies when the user
// changes nothing.
func DefaultOptions() ProcessingOptions {
	return ProcessingOptions{
		EnhanceImage:        true,
		Mode:                ModeStandard,
		LanguageHint:        "auto",
		ConfidenceThreshold: 70,
	}
}

// ExtractionResult is the output of the text extraction stage. Produced once
// per run, never mutated.
type ExtractionResult struct {
	Text string
	// DetectedLanguage is the highest-confidence language code reported by
	// the primary backend, or the explicit "unknown (fallback)" marker when
	// the fallback engine produced the text.
	DetectedLanguage string
	// RawConfidence is the backend-reported confidence in [0,1], when the
	// backend supplied one.
	RawConfidence float64
	// HasRawConfidence distinguishes a reported 0 from "not reported".
	HasRawConfidence bool
	UsedFallback     bool
}

// ProcessingResult is derived deterministically from an ExtractionResult plus
// the source size. Immutable.
type ProcessingResult struct {
	Text             string
	Confidence       int // 0..98, never 100
	Pages            int // >= 1, size-based approximation
	DetectedLanguage string
	UsedFallback     bool
	// EnhancedPreviewRef points at the stored enhanced image, when one was
	// produced and uploaded (e.g. a gs:// URI). Empty otherwise.
	EnhancedPreviewRef string
}

// TranslationResult is produced only on request and attached to a document
// after the fact.
type TranslationResult struct {
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
}

// DocumentRecord is the persisted aggregate in Firestore. OwnerID is set
// exactly once at creation and never changes; TranslatedContent and
// TranslationLanguage are both present or both absent.
type DocumentRecord struct {
	ID                  string    `firestore:"-"`
	OwnerID             string    `firestore:"ownerId"`
	Name                string    `firestore:"name"`
	Type                string    `firestore:"type"`
	Language            string    `firestore:"language"`
	Content             string    `firestore:"content"`
	TranslatedContent   string    `firestore:"translatedContent,omitempty"`
	TranslationLanguage string    `firestore:"translationLanguage,omitempty"`
	OriginalImage       string    `firestore:"originalImage,omitempty"`
	FileSize            int64     `firestore:"fileSize,omitempty"`
	Pages               int       `firestore:"pages"`
	Confidence          int       `firestore:"confidence"`
	CreatedAt           time.Time `firestore:"createdAt"`
}

// DocumentMeta carries the user-supplied metadata that accompanies a save.
type DocumentMeta struct {
	Name          string
	Type          string
	Language      string
	OriginalImage string
	FileSize      int64
}
