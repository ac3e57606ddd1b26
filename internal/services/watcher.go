package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/Vickydmt/ocrtxt/internal/gcp"
	"github.com/Vickydmt/ocrtxt/internal/models"
)

// GCSEvent is the payload of a storage object finalize notification. Upload
// options travel in the object's custom metadata.
type GCSEvent struct {
	Bucket      string            `json:"bucket"`
	Name        string            `json:"name"`
	ContentType string            `json:"contentType"`
	Metadata    map[string]string `json:"metadata"`
}

// WatcherFunction turns bucket uploads into processing runs. It reuses the
// full processor wiring so a dropped file produces the same saved record as
// a direct HTTP request would.
type WatcherFunction struct {
	processor     *ProcessorFunction
	storageClient *storage.Client
	logger        *slog.Logger
}

func NewWatcher(ctx context.Context) (*WatcherFunction, error) {
	processor, err := NewProcessor(ctx)
	if err != nil {
		return nil, err
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}

	return &WatcherFunction{
		processor:     processor,
		storageClient: storageClient,
		logger:        processor.logger,
	}, nil
}

// Process handles one finalized object. Objects under previews/ are written
// by the pipeline itself and must not be reprocessed.
func (f *WatcherFunction) Process(ctx context.Context, ev GCSEvent) error {
	logCtx := f.logger.With("bucket", ev.Bucket, "object", ev.Name)

	if strings.HasPrefix(ev.Name, "previews/") {
		logCtx.Debug("Skipping pipeline-generated preview object.")
		return nil
	}

	ownerID := ev.Metadata["ownerId"]
	if ownerID == "" {
		// Without an owner there is nothing to file the document under.
		// Skip rather than fail so the event is not redelivered forever.
		logCtx.Warn("Upload has no ownerId metadata, skipping.")
		return nil
	}

	data, err := gcp.ReadObject(ctx, f.storageClient, ev.Bucket, ev.Name)
	if err != nil {
		logCtx.Error("Failed to read uploaded object.", "error", err)
		return err
	}

	req := requestFromUpload(ev, ownerID, data)
	resp, err := f.processor.Process(ctx, req)
	if err != nil {
		logCtx.Error("Processing of upload failed.", "error", err)
		return err
	}

	logCtx.Info("Upload processed.",
		"documentId", resp.DocumentID,
		"confidence", resp.Confidence,
		"pages", resp.Pages,
		"usedFallback", resp.UsedFallback)
	return nil
}

// requestFromUpload maps an upload event onto the processor's request shape.
// Missing metadata falls back to the processor defaults.
func requestFromUpload(ev GCSEvent, ownerID string, data []byte) *models.ProcessDocumentRequest {
	name := ev.Metadata["name"]
	if name == "" {
		name = path.Base(ev.Name)
	}
	docType := ev.Metadata["type"]
	if docType == "" {
		docType = "general"
	}

	req := &models.ProcessDocumentRequest{
		OwnerID:       ownerID,
		Name:          name,
		Type:          docType,
		MIMEType:      ev.ContentType,
		ContentBase64: base64.StdEncoding.EncodeToString(data),
		Mode:          ev.Metadata["mode"],
		LanguageHint:  ev.Metadata["languageHint"],
		TranslateTo:   ev.Metadata["translateTo"],
	}
	if ev.Metadata["enhance"] == "false" {
		enhance := false
		req.EnhanceImage = &enhance
	}
	return req
}
