package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/Vickydmt/ocrtxt/internal/export"
)

// --- Translator Model Prompt ---
const TranslatorSystemPrompt = "You are a professional document translator. You translate text between languages with maximum fidelity: preserve paragraph structure, line breaks, names, dates, and numbers exactly. Output only the translated text, with no preamble and no commentary."

// VertexClient holds the pre-configured generative model used for
// translation.
type VertexClient struct {
	TranslatorModel *genai.GenerativeModel
	baseClient      *genai.Client
}

// NewVertexClient creates a new client holding the translation model.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	translatorModel := baseClient.GenerativeModel("gemini-1.5-pro")
	translatorModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(TranslatorSystemPrompt)},
	}
	translatorModel.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.0), // Low temp for faithful, repeatable output
	}
	translatorModel.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}

	return &VertexClient{
		TranslatorModel: translatorModel,
		baseClient:      baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// GeminiTranslator adapts the Vertex translation model to the translation
// backend contract: one text chunk in, its translation out.
type GeminiTranslator struct {
	client *VertexClient
}

// NewGeminiTranslator wraps a VertexClient as a translation backend.
func NewGeminiTranslator(client *VertexClient) *GeminiTranslator {
	return &GeminiTranslator{client: client}
}

func (g *GeminiTranslator) Name() string { return "gemini-translate" }

// Translate sends one chunk to the model. The source language may be "auto"
// or the fallback marker, in which case the model detects it.
func (g *GeminiTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	source := export.LanguageName(sourceLang)
	if sourceLang == "" || sourceLang == "auto" || strings.HasPrefix(sourceLang, "unknown") {
		source = "the source language (detect it)"
	}
	prompt := genai.Text(fmt.Sprintf(
		"Translate the following text from %s into %s:\n\n%s",
		source, export.LanguageName(targetLang), text))

	resp, err := g.client.TranslatorModel.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}

	out := extractText(resp)

	// Sanity check for LLM refusal. A refusal must fail the chunk rather
	// than be stored as a "translation".
	lower := strings.ToLower(out)
	for _, phrase := range []string{
		"i am unable to",
		"i cannot fulfill",
		"i cannot answer",
		"i cannot provide",
		"as a large language model",
	} {
		if strings.Contains(lower, phrase) {
			return "", fmt.Errorf("gemini response indicates refusal")
		}
	}
	return out, nil
}

// extractText concatenates the text parts of the model's response and strips
// any fencing the model added despite instructions.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	out := strings.TrimSpace(sb.String())
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
