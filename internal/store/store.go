// Package store persists completed pipeline results as document records in
// Firestore. The adapter is ownership-agnostic: it writes ownerId exactly
// once at creation and never mutates it, but the caller is responsible for
// checking record.OwnerID against the requester before exposing content.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// Store is the Firestore-backed document store adapter.
type Store struct {
	client     *firestore.Client
	collection string
	logger     *slog.Logger
}

// New creates a store over the given collection.
func New(client *firestore.Client, collection string, logger *slog.Logger) *Store {
	if collection == "" {
		collection = "documents"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{client: client, collection: collection, logger: logger}
}

// recordFromResult maps a completed pipeline result plus ownership metadata
// to the persisted document shape. CreatedAt is stamped at save time.
func recordFromResult(ownerID string, res models.ProcessingResult, tr *models.TranslationResult, meta models.DocumentMeta, now time.Time) models.DocumentRecord {
	record := models.DocumentRecord{
		OwnerID:       ownerID,
		Name:          meta.Name,
		Type:          meta.Type,
		Language:      meta.Language,
		Content:       res.Text,
		OriginalImage: meta.OriginalImage,
		FileSize:      meta.FileSize,
		Pages:         res.Pages,
		Confidence:    res.Confidence,
		CreatedAt:     now,
	}
	if record.Language == "" || record.Language == "auto" {
		record.Language = res.DetectedLanguage
	}
	// The extraction-stage fallback marker is an internal value; the stored
	// document carries a plain "unknown" instead.
	if record.Language == models.FallbackLanguageMarker {
		record.Language = "unknown"
	}
	if record.OriginalImage == "" {
		record.OriginalImage = res.EnhancedPreviewRef
	}
	// Translated content and its language travel together or not at all.
	if tr != nil && tr.TranslatedText != "" {
		record.TranslatedContent = tr.TranslatedText
		record.TranslationLanguage = tr.TargetLanguage
	}
	return record
}

// Save creates a new document record and returns its id. Concurrent saves
// are safe; Firestore assigns each a distinct id.
func (s *Store) Save(ctx context.Context, ownerID string, res models.ProcessingResult, tr *models.TranslationResult, meta models.DocumentMeta) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("ownerID must be provided")
	}

	record := recordFromResult(ownerID, res, tr, meta, time.Now())
	docRef, _, err := s.client.Collection(s.collection).Add(ctx, record)
	if err != nil {
		return "", fmt.Errorf("failed to create document record: %w", err)
	}

	s.logger.Info("document saved", "documentId", docRef.ID, "pages", record.Pages, "confidence", record.Confidence)
	return docRef.ID, nil
}

// GetByID fetches a document record, or (nil, nil) when it does not exist.
func (s *Store) GetByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}

	var record models.DocumentRecord
	if err := snap.DataTo(&record); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	record.ID = snap.Ref.ID
	return &record, nil
}

// ListByOwner returns the owner's documents ordered by creation time,
// newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]models.DocumentRecord, error) {
	it := s.client.Collection(s.collection).
		Where("ownerId", "==", ownerID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)

	var records []models.DocumentRecord
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list documents for owner: %w", err)
		}
		var record models.DocumentRecord
		if err := snap.DataTo(&record); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", snap.Ref.ID, err)
		}
		record.ID = snap.Ref.ID
		records = append(records, record)
	}
	return records, nil
}

// AttachTranslation adds a translation to an existing record. Both fields
// update together, keeping the both-present-or-both-absent invariant.
func (s *Store) AttachTranslation(ctx context.Context, id string, tr models.TranslationResult) error {
	if tr.TranslatedText == "" || tr.TargetLanguage == "" {
		return fmt.Errorf("translation must carry both text and target language")
	}

	_, err := s.client.Collection(s.collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "translatedContent", Value: tr.TranslatedText},
		{Path: "translationLanguage", Value: tr.TargetLanguage},
	})
	if err != nil {
		return fmt.Errorf("failed to attach translation to %s: %w", id, err)
	}
	return nil
}

// Delete removes a document record. Ownership is checked by the caller
// before invoking this.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.client.Collection(s.collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}
