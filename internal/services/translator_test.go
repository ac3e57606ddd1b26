package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Vickydmt/ocrtxt/internal/models"
	"github.com/Vickydmt/ocrtxt/internal/translate"
)

// fakeStore is an in-memory documentStore for service tests.
type fakeStore struct {
	records  map[string]*models.DocumentRecord
	attached map[string]models.TranslationResult
	deleted  []string
}

func newFakeStore(records ...*models.DocumentRecord) *fakeStore {
	s := &fakeStore{
		records:  map[string]*models.DocumentRecord{},
		attached: map[string]models.TranslationResult{},
	}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

func (s *fakeStore) Save(ctx context.Context, ownerID string, res models.ProcessingResult, tr *models.TranslationResult, meta models.DocumentMeta) (string, error) {
	return "generated-id", nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	return s.records[id], nil
}

func (s *fakeStore) ListByOwner(ctx context.Context, ownerID string) ([]models.DocumentRecord, error) {
	var out []models.DocumentRecord
	for _, r := range s.records {
		if r.OwnerID == ownerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) AttachTranslation(ctx context.Context, id string, tr models.TranslationResult) error {
	s.attached[id] = tr
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	delete(s.records, id)
	return nil
}

// countingBackend records how often translation was attempted.
type countingBackend struct{ calls int }

func (b *countingBackend) Name() string { return "counting" }

func (b *countingBackend) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	b.calls++
	return "translated: " + text, nil
}

func newTestTranslatorFunction(st documentStore, backend translate.Backend) *TranslatorFunction {
	return &TranslatorFunction{
		store:      st,
		translator: translate.NewTranslator(backend, nil),
		logger:     slog.New(slog.DiscardHandler),
	}
}

func TestTranslatorProcess_OwnerSucceeds(t *testing.T) {
	st := newFakeStore(&models.DocumentRecord{
		ID: "d1", OwnerID: "u1", Content: "stored text", Language: "hi",
	})
	f := newTestTranslatorFunction(st, &countingBackend{})

	res, err := f.Process(context.Background(), &models.TranslateDocumentRequest{
		RequesterID: "u1", DocumentID: "d1", TargetLanguage: "en",
	})
	if err != nil {
		t.Fatalf("Process failed for the owner: %v", err)
	}

	if res.TranslatedText == "" {
		t.Error("empty translation for the owner's document")
	}
	if res.SourceLanguage != "hi" || res.TargetLanguage != "en" {
		t.Errorf("languages = %q -> %q", res.SourceLanguage, res.TargetLanguage)
	}
	if _, ok := st.attached["d1"]; !ok {
		t.Error("translation not attached to the record")
	}
}

func TestTranslatorProcess_ForeignRequesterForbidden(t *testing.T) {
	backend := &countingBackend{}
	st := newFakeStore(&models.DocumentRecord{
		ID: "d1", OwnerID: "u1", Content: "stored text", Language: "hi",
	})
	f := newTestTranslatorFunction(st, backend)

	_, err := f.Process(context.Background(), &models.TranslateDocumentRequest{
		RequesterID: "u2", DocumentID: "d1", TargetLanguage: "en",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden for a foreign requester", err)
	}

	if backend.calls != 0 {
		t.Errorf("translation backend called %d times for a forbidden request", backend.calls)
	}
	if len(st.attached) != 0 {
		t.Error("translation attached despite failed ownership check")
	}
}

func TestTranslatorProcess_MissingDocument(t *testing.T) {
	backend := &countingBackend{}
	f := newTestTranslatorFunction(newFakeStore(), backend)

	_, err := f.Process(context.Background(), &models.TranslateDocumentRequest{
		RequesterID: "u1", DocumentID: "nope", TargetLanguage: "en",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if backend.calls != 0 {
		t.Error("translation backend called for a missing document")
	}
}

func TestTranslatorProcess_MissingTarget(t *testing.T) {
	f := newTestTranslatorFunction(newFakeStore(), &countingBackend{})

	_, err := f.Process(context.Background(), &models.TranslateDocumentRequest{
		RequesterID: "u1", DocumentID: "d1",
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}
