package models

import "time"

// These structs define the JSON payloads for HTTP requests and responses
// handled by the worker Cloud Functions.

// ProcessDocumentRequest is the input for the document-processor function.
// The file content travels inline, base64-encoded.
type ProcessDocumentRequest struct {
	OwnerID             string `json:"ownerId"`
	Name                string `json:"name"`
	Type                string `json:"type"`
	MIMEType            string `json:"mimeType"`
	ContentBase64       string `json:"contentBase64"`
	EnhanceImage        *bool  `json:"enhanceImage,omitempty"`
	Mode                string `json:"mode,omitempty"`
	LanguageHint        string `json:"languageHint,omitempty"`
	ConfidenceThreshold int    `json:"confidenceThreshold,omitempty"`
	TranslateTo         string `json:"translateTo,omitempty"`
}

// ProcessDocumentResponse is the output of the document-processor function.
type ProcessDocumentResponse struct {
	Status           string `json:"status"`
	DocumentID       string `json:"documentId"`
	Confidence       int    `json:"confidence"`
	Pages            int    `json:"pages"`
	DetectedLanguage string `json:"detectedLanguage,omitempty"`
	UsedFallback     bool   `json:"usedFallback"`
	// TranslationError is set when extraction succeeded but the requested
	// translation did not; the document is still saved without it.
	TranslationError string `json:"translationError,omitempty"`
}

// TranslateDocumentRequest is the input for the document-translator function.
type TranslateDocumentRequest struct {
	RequesterID    string `json:"requesterId"`
	DocumentID     string `json:"documentId"`
	TargetLanguage string `json:"targetLanguage"`
}

// TranslateDocumentResponse is the output of the document-translator function.
type TranslateDocumentResponse struct {
	Status         string `json:"status"`
	TranslatedText string `json:"translatedText"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
}

// DocumentView is the JSON projection of a stored document returned by the
// library function. Content is omitted; downloads fetch it explicitly.
type DocumentView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Language       string    `json:"language"`
	Pages          int       `json:"pages"`
	Confidence     int       `json:"confidence"`
	FileSize       int64     `json:"fileSize,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	HasTranslation bool      `json:"hasTranslation"`
}

// LibraryRequest is the input for the document-library function.
type LibraryRequest struct {
	// Action is "list", "delete" or "download".
	Action      string `json:"action"`
	RequesterID string `json:"requesterId"`
	DocumentID  string `json:"documentId,omitempty"`
	// Format selects the download content: "text" (default) or "translation".
	Format string `json:"format,omitempty"`
}

// LibraryResponse is the output of the document-library function. Documents
// is set for list actions, Filename and Content for downloads.
type LibraryResponse struct {
	Status    string         `json:"status"`
	Documents []DocumentView `json:"documents,omitempty"`
	Filename  string         `json:"filename,omitempty"`
	Content   string         `json:"content,omitempty"`
}
