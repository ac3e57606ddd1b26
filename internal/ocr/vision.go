package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"

	"github.com/Vickydmt/ocrtxt/internal/models"
)

// MaxSyncPDFPages is the Vision API limit for synchronous, inline PDF
// annotation. Larger documents must be rejected before the call.
const MaxSyncPDFPages = 5

// VisionBackend is the primary OCR backend, backed by the Cloud Vision
// images:annotate and files:annotate endpoints.
type VisionBackend struct {
	svc *vision.Service
}

// NewVisionBackend creates the primary backend. The API key is required
// configuration; there is no default credential fallback.
func NewVisionBackend(ctx context.Context, apiKey string) (*VisionBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("vision API key must be provided")
	}
	svc, err := vision.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create vision service: %w", err)
	}
	return &VisionBackend{svc: svc}, nil
}

func (b *VisionBackend) Name() string { return "google-vision" }

// Recognize annotates the source file. Raster images go through
// images:annotate; PDFs travel inline through files:annotate, which handles
// at most MaxSyncPDFPages pages.
func (b *VisionBackend) Recognize(ctx context.Context, src models.SourceFile, hints []string, feature string) (Recognition, error) {
	if src.IsPDF() {
		return b.recognizePDF(ctx, src, hints, feature)
	}
	return b.recognizeImage(ctx, src, hints, feature)
}

func (b *VisionBackend) recognizeImage(ctx context.Context, src models.SourceFile, hints []string, feature string) (Recognition, error) {
	req := &vision.AnnotateImageRequest{
		Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(src.Data)},
		Features: []*vision.Feature{{Type: feature}},
	}
	if len(hints) > 0 {
		req.ImageContext = &vision.ImageContext{LanguageHints: hints}
	}

	batch, err := b.svc.Images.Annotate(&vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{req},
	}).Context(ctx).Do()
	if err != nil {
		return Recognition{}, fmt.Errorf("vision images.annotate: %w", err)
	}
	return recognitionFromAnnotations(batch.Responses)
}

func (b *VisionBackend) recognizePDF(ctx context.Context, src models.SourceFile, hints []string, feature string) (Recognition, error) {
	req := &vision.AnnotateFileRequest{
		InputConfig: &vision.InputConfig{
			Content:  base64.StdEncoding.EncodeToString(src.Data),
			MimeType: src.MIMEType,
		},
		Features: []*vision.Feature{{Type: feature}},
	}
	if len(hints) > 0 {
		req.ImageContext = &vision.ImageContext{LanguageHints: hints}
	}

	batch, err := b.svc.Files.Annotate(&vision.BatchAnnotateFilesRequest{
		Requests: []*vision.AnnotateFileRequest{req},
	}).Context(ctx).Do()
	if err != nil {
		return Recognition{}, fmt.Errorf("vision files.annotate: %w", err)
	}
	if len(batch.Responses) == 0 {
		return Recognition{}, fmt.Errorf("no response from Vision API")
	}
	fileResp := batch.Responses[0]
	if fileResp.Error != nil {
		return Recognition{}, fmt.Errorf("vision error: %s", fileResp.Error.Message)
	}
	return recognitionFromAnnotations(fileResp.Responses)
}

// recognitionFromAnnotations merges per-page annotation responses into a
// single Recognition. An empty-but-successful recognition is not an error;
// it yields the no-text sentinel.
func recognitionFromAnnotations(responses []*vision.AnnotateImageResponse) (Recognition, error) {
	if len(responses) == 0 {
		return Recognition{}, fmt.Errorf("no response from Vision API")
	}

	var texts []string
	var signals []LanguageSignal
	for i, resp := range responses {
		if resp == nil {
			continue
		}
		if resp.Error != nil {
			return Recognition{}, fmt.Errorf("vision error: %s", resp.Error.Message)
		}
		if resp.FullTextAnnotation == nil {
			continue
		}
		if text := strings.TrimSpace(resp.FullTextAnnotation.Text); text != "" {
			texts = append(texts, text)
		}
		// Language signals come from the first page of the first response.
		if i == 0 && len(resp.FullTextAnnotation.Pages) > 0 {
			page := resp.FullTextAnnotation.Pages[0]
			if page.Property != nil {
				for _, dl := range page.Property.DetectedLanguages {
					signals = append(signals, LanguageSignal{
						Code:       dl.LanguageCode,
						Confidence: dl.Confidence,
					})
				}
			}
		}
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Confidence > signals[j].Confidence
	})

	text := strings.Join(texts, "\n")
	if text == "" {
		text = models.NoTextSentinel
	}
	return Recognition{Text: text, Languages: signals}, nil
}
