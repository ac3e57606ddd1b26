package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Vickydmt/ocrtxt/internal/export"
	"github.com/Vickydmt/ocrtxt/internal/gcp"
	"github.com/Vickydmt/ocrtxt/internal/models"
	"github.com/Vickydmt/ocrtxt/internal/store"
)

// LibraryConfig holds all configuration for the document library service.
type LibraryConfig struct {
	ProjectID      string
	CollectionName string
}

// LibraryFunction serves the saved-document surface: listing an owner's
// documents, deleting one, and building download content. Every per-document
// action checks ownership against the record's ownerId first.
type LibraryFunction struct {
	store  documentStore
	logger *slog.Logger
	config LibraryConfig
}

func loadLibraryConfig() (*LibraryConfig, error) {
	projectID := gcp.GetEnv("GCP_PROJECT", "")
	if projectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT environment variable must be set")
	}
	return &LibraryConfig{
		ProjectID:      projectID,
		CollectionName: gcp.GetEnv("FIRESTORE_COLLECTION", "documents"),
	}, nil
}

// NewLibraryService creates a LibraryFunction instance.
func NewLibraryService(ctx context.Context) (*LibraryFunction, error) {
	config, err := loadLibraryConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.Default()

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, err
	}

	return &LibraryFunction{
		store:  store.New(firestoreClient, config.CollectionName, logger),
		logger: logger,
		config: *config,
	}, nil
}

// Process dispatches one library request for the requester.
func (f *LibraryFunction) Process(ctx context.Context, req *models.LibraryRequest) (*models.LibraryResponse, error) {
	if req.RequesterID == "" {
		return nil, fmt.Errorf("%w: requesterId must be provided", ErrInvalidRequest)
	}

	switch req.Action {
	case "list":
		return f.list(ctx, req)
	case "delete":
		return f.deleteDocument(ctx, req)
	case "download":
		return f.download(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidRequest, req.Action)
	}
}

func (f *LibraryFunction) list(ctx context.Context, req *models.LibraryRequest) (*models.LibraryResponse, error) {
	records, err := f.store.ListByOwner(ctx, req.RequesterID)
	if err != nil {
		return nil, err
	}

	views := make([]models.DocumentView, 0, len(records))
	for _, r := range records {
		views = append(views, models.DocumentView{
			ID:             r.ID,
			Name:           r.Name,
			Type:           r.Type,
			Language:       r.Language,
			Pages:          r.Pages,
			Confidence:     r.Confidence,
			FileSize:       r.FileSize,
			CreatedAt:      r.CreatedAt,
			HasTranslation: r.TranslatedContent != "",
		})
	}
	return &models.LibraryResponse{Status: "success", Documents: views}, nil
}

func (f *LibraryFunction) deleteDocument(ctx context.Context, req *models.LibraryRequest) (*models.LibraryResponse, error) {
	record, err := f.ownedRecord(ctx, req.RequesterID, req.DocumentID)
	if err != nil {
		return nil, err
	}

	if err := f.store.Delete(ctx, record.ID); err != nil {
		return nil, err
	}
	f.logger.Info("Document deleted.", "documentId", record.ID)
	return &models.LibraryResponse{Status: "success"}, nil
}

func (f *LibraryFunction) download(ctx context.Context, req *models.LibraryRequest) (*models.LibraryResponse, error) {
	record, err := f.ownedRecord(ctx, req.RequesterID, req.DocumentID)
	if err != nil {
		return nil, err
	}

	switch req.Format {
	case "", "text":
		return &models.LibraryResponse{
			Status:   "success",
			Filename: record.Name + ".txt",
			Content:  export.PlainText(record.Content),
		}, nil
	case "translation":
		if record.TranslatedContent == "" {
			return nil, fmt.Errorf("%w: document %s has no translation", ErrInvalidRequest, record.ID)
		}
		tr := models.TranslationResult{
			TranslatedText: record.TranslatedContent,
			SourceLanguage: record.Language,
			TargetLanguage: record.TranslationLanguage,
		}
		return &models.LibraryResponse{
			Status:   "success",
			Filename: export.TranslationFilename(record.Language, record.TranslationLanguage) + ".txt",
			Content:  export.TranslationDocument(record.Content, tr),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown download format %q", ErrInvalidRequest, req.Format)
	}
}

// ownedRecord fetches a document and enforces that the requester owns it.
func (f *LibraryFunction) ownedRecord(ctx context.Context, requesterID, documentID string) (*models.DocumentRecord, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: documentId must be provided", ErrInvalidRequest)
	}

	record, err := f.store.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if record.OwnerID != requesterID {
		f.logger.Warn("Ownership check failed.", "documentId", documentID, "requester", requesterID)
		return nil, ErrForbidden
	}
	return record, nil
}
