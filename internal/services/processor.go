package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"

	"github.com/Vickydmt/ocrtxt/internal/gcp"
	"github.com/Vickydmt/ocrtxt/internal/models"
	"github.com/Vickydmt/ocrtxt/internal/ocr"
	"github.com/Vickydmt/ocrtxt/internal/pdfutil"
	"github.com/Vickydmt/ocrtxt/internal/pipeline"
	"github.com/Vickydmt/ocrtxt/internal/store"
	"github.com/Vickydmt/ocrtxt/internal/translate"
)

// ProcessorConfig holds all configuration for the document processor service.
type ProcessorConfig struct {
	ProjectID      string
	VisionAPIKey   string
	CollectionName string
	PreviewBucket  string
	VertexAIRegion string
}

// ProcessorFunction holds the dependencies for one-shot document processing:
// run the pipeline over an upload, then persist the result for its owner.
type ProcessorFunction struct {
	store        documentStore
	orchestrator *pipeline.Orchestrator
	logger       *slog.Logger
	config       ProcessorConfig
}

// loadProcessorConfig loads and validates the environment for this service.
// The Vision API key is required; there is no default credential fallback.
func loadProcessorConfig() (*ProcessorConfig, error) {
	projectID := gcp.GetEnv("GCP_PROJECT", "")
	if projectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT environment variable must be set")
	}
	visionKey := gcp.GetEnv("VISION_API_KEY", "")
	if visionKey == "" {
		return nil, fmt.Errorf("VISION_API_KEY environment variable must be set")
	}

	return &ProcessorConfig{
		ProjectID:      projectID,
		VisionAPIKey:   visionKey,
		CollectionName: gcp.GetEnv("FIRESTORE_COLLECTION", "documents"),
		PreviewBucket:  gcp.GetEnv("PREVIEW_BUCKET", ""),
		VertexAIRegion: gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
	}, nil
}

// NewProcessor creates a ProcessorFunction instance with all backends wired.
func NewProcessor(ctx context.Context) (*ProcessorFunction, error) {
	config, err := loadProcessorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.Default()

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, err
	}

	visionBackend, err := ocr.NewVisionBackend(ctx, config.VisionAPIKey)
	if err != nil {
		return nil, err
	}
	extractor := ocr.NewExtractor(visionBackend, ocr.NewTesseractBackend(), logger)

	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}
	translator := translate.NewTranslator(gcp.NewGeminiTranslator(vertexClient), logger)

	opts := []pipeline.Option{
		pipeline.WithTranslator(translator),
		pipeline.WithPDFPreparer(func(data []byte) ([]byte, error) {
			return pdfutil.Prepare(data, ocr.MaxSyncPDFPages)
		}),
	}
	if config.PreviewBucket != "" {
		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		previews, err := gcp.NewPreviewStore(storageClient, config.PreviewBucket)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithPreviewSaver(previews))
	}

	return &ProcessorFunction{
		store:        store.New(firestoreClient, config.CollectionName, logger),
		orchestrator: pipeline.New(extractor, logger, opts...),
		logger:       logger,
		config:       *config,
	}, nil
}

// Process runs the pipeline over a single upload and saves the outcome. A
// failed run is never persisted; a failed translation does not block saving
// the extraction-only result.
func (f *ProcessorFunction) Process(ctx context.Context, req *models.ProcessDocumentRequest) (*models.ProcessDocumentResponse, error) {
	logCtx := f.logger.With("owner", req.OwnerID, "document", req.Name)

	src, opts, err := sourceFromRequest(req)
	if err != nil {
		return nil, err
	}

	logCtx.Info("Starting pipeline run.", "mode", string(opts.Mode), "bytes", src.Size())
	out, err := f.orchestrator.Run(ctx, src, opts, func(p int) {
		logCtx.Debug("pipeline progress", "percent", p)
	})
	if err != nil {
		logCtx.Error("Pipeline run failed.", "error", err)
		return nil, err
	}

	meta := models.DocumentMeta{
		Name:     req.Name,
		Type:     req.Type,
		Language: opts.LanguageHint,
		FileSize: src.Size(),
	}
	id, err := f.store.Save(ctx, req.OwnerID, out.Result, out.Translation, meta)
	if err != nil {
		logCtx.Error("Failed to save document.", "error", err)
		return nil, err
	}

	resp := &models.ProcessDocumentResponse{
		Status:           "success",
		DocumentID:       id,
		Confidence:       out.Result.Confidence,
		Pages:            out.Result.Pages,
		DetectedLanguage: out.Result.DetectedLanguage,
		UsedFallback:     out.Result.UsedFallback,
	}
	if out.TranslationErr != nil {
		resp.TranslationError = out.TranslationErr.Error()
	}
	return resp, nil
}

// sourceFromRequest validates the request and builds the pipeline inputs.
func sourceFromRequest(req *models.ProcessDocumentRequest) (models.SourceFile, models.ProcessingOptions, error) {
	var src models.SourceFile
	if req.OwnerID == "" {
		return src, models.ProcessingOptions{}, fmt.Errorf("%w: ownerId must be provided", ErrInvalidRequest)
	}
	if req.Name == "" {
		return src, models.ProcessingOptions{}, fmt.Errorf("%w: document name must be provided", ErrInvalidRequest)
	}

	data, err := base64.StdEncoding.DecodeString(req.ContentBase64)
	if err != nil {
		return src, models.ProcessingOptions{}, fmt.Errorf("%w: invalid base64 content: %v", ErrInvalidRequest, err)
	}
	if len(data) == 0 {
		return src, models.ProcessingOptions{}, fmt.Errorf("%w: empty file content", ErrInvalidRequest)
	}

	src = models.SourceFile{Name: req.Name, MIMEType: req.MIMEType, Data: data}

	opts := models.DefaultOptions()
	if req.EnhanceImage != nil {
		opts.EnhanceImage = *req.EnhanceImage
	}
	switch req.Mode {
	case "", string(models.ModeStandard):
		opts.Mode = models.ModeStandard
	case string(models.ModeHistorical):
		opts.Mode = models.ModeHistorical
	default:
		return src, opts, fmt.Errorf("%w: unknown processing mode %q", ErrInvalidRequest, req.Mode)
	}
	if req.LanguageHint != "" {
		opts.LanguageHint = req.LanguageHint
	}
	if req.ConfidenceThreshold > 0 {
		opts.ConfidenceThreshold = req.ConfidenceThreshold
	}
	opts.TranslateTo = req.TranslateTo
	return src, opts, nil
}
