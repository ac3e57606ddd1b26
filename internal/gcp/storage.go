package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// SaveObjectAtomically writes data to a GCS object only if it doesn't already
// exist, so re-processing the same upload never clobbers an earlier write.
func SaveObjectAtomically(ctx context.Context, bucket *storage.BucketHandle, objectName, contentType string, data []byte) error {
	writer := bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			log.Printf("SKIPPING: Object %s already exists.", objectName)
			return nil // Not a failure in an idempotent workflow.
		}
		log.Printf("ERROR: Failed to copy content to GCS object %s: %v", objectName, err)
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			log.Printf("SKIPPING: Object %s already exists.", objectName)
			return nil
		}
		log.Printf("ERROR: Failed to close GCS writer for %s: %v", objectName, err)
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

// PreviewStore uploads enhanced preview images to a GCS bucket and hands
// back their gs:// references.
type PreviewStore struct {
	client *storage.Client
	bucket string
}

// NewPreviewStore creates a preview store over the given bucket.
func NewPreviewStore(client *storage.Client, bucket string) (*PreviewStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("preview bucket must be provided")
	}
	return &PreviewStore{client: client, bucket: bucket}, nil
}

// SavePreview stores an enhanced JPEG under the document name and returns
// its gs:// URI.
func (p *PreviewStore) SavePreview(ctx context.Context, name string, jpeg []byte) (string, error) {
	objectName := fmt.Sprintf("previews/%s.jpg", name)
	bucketHandle := p.client.Bucket(p.bucket)
	if err := SaveObjectAtomically(ctx, bucketHandle, objectName, "image/jpeg", jpeg); err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", p.bucket, objectName), nil
}

// ReadObject downloads a GCS object into memory; the upload watcher uses it
// to fetch newly-landed source files.
func ReadObject(ctx context.Context, client *storage.Client, bucket, object string) ([]byte, error) {
	reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", bucket, object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", bucket, object, err)
	}
	return data, nil
}
