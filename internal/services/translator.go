package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Vickydmt/ocrtxt/internal/gcp"
	"github.com/Vickydmt/ocrtxt/internal/models"
	"github.com/Vickydmt/ocrtxt/internal/store"
	"github.com/Vickydmt/ocrtxt/internal/translate"
)

// ErrNotFound reports a document id with no record behind it.
var ErrNotFound = errors.New("document not found")

// ErrForbidden reports a requester who does not own the document. The store
// itself is ownership-agnostic; this boundary enforces the check.
var ErrForbidden = errors.New("requester does not own this document")

// TranslatorConfig holds all configuration for the translator service.
type TranslatorConfig struct {
	ProjectID      string
	CollectionName string
	VertexAIRegion string
}

// TranslatorFunction translates an already-saved document's content and
// attaches the result to its record.
type TranslatorFunction struct {
	store      documentStore
	translator *translate.Translator
	logger     *slog.Logger
	config     TranslatorConfig
}

func loadTranslatorConfig() (*TranslatorConfig, error) {
	projectID := gcp.GetEnv("GCP_PROJECT", "")
	if projectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT environment variable must be set")
	}
	return &TranslatorConfig{
		ProjectID:      projectID,
		CollectionName: gcp.GetEnv("FIRESTORE_COLLECTION", "documents"),
		VertexAIRegion: gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
	}, nil
}

// NewTranslatorService creates a TranslatorFunction instance.
func NewTranslatorService(ctx context.Context) (*TranslatorFunction, error) {
	config, err := loadTranslatorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.Default()

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, err
	}
	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	return &TranslatorFunction{
		store:      store.New(firestoreClient, config.CollectionName, logger),
		translator: translate.NewTranslator(gcp.NewGeminiTranslator(vertexClient), logger),
		logger:     logger,
		config:     *config,
	}, nil
}

// Process translates a stored document for its owner. The ownership check
// happens here, against the record's immutable ownerId, before any content
// leaves the store.
func (f *TranslatorFunction) Process(ctx context.Context, req *models.TranslateDocumentRequest) (*models.TranslateDocumentResponse, error) {
	logCtx := f.logger.With("documentId", req.DocumentID, "target", req.TargetLanguage)

	if req.TargetLanguage == "" {
		return nil, fmt.Errorf("%w: targetLanguage must be provided", ErrInvalidRequest)
	}

	record, err := f.store.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if record.OwnerID != req.RequesterID {
		logCtx.Warn("Ownership check failed.", "requester", req.RequesterID)
		return nil, ErrForbidden
	}

	result, err := f.translator.Translate(ctx, record.Content, record.Language, req.TargetLanguage)
	if err != nil {
		logCtx.Error("Translation failed.", "error", err)
		return nil, err
	}

	if err := f.store.AttachTranslation(ctx, record.ID, *result); err != nil {
		return nil, err
	}

	logCtx.Info("Translation attached.")
	return &models.TranslateDocumentResponse{
		Status:         "success",
		TranslatedText: result.TranslatedText,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: result.TargetLanguage,
	}, nil
}
