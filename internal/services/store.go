package services

import (
	"context"
	"errors"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// ErrInvalidRequest marks request payloads that fail validation before any
// backend work starts. Handlers map it to a 400 response.
var ErrInvalidRequest = errors.New("invalid request")

// documentStore is the persistence surface the services depend on.
// *store.Store satisfies it.
type documentStore interface {
	Save(ctx context.Context, ownerID string, res models.ProcessingResult, tr *models.TranslationResult, meta models.DocumentMeta) (string, error)
	GetByID(ctx context.Context, id string) (*models.DocumentRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.DocumentRecord, error)
	AttachTranslation(ctx context.Context, id string, tr models.TranslationResult) error
	Delete(ctx context.Context, id string) error
}
