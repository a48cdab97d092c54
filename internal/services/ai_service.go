package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

// Extractor turns free text or a meal photo into a MealExtraction.
type Extractor interface {
	ExtractMeal(ctx context.Context, text string) (*MealExtraction, error)
	ExtractMealFromImage(ctx context.Context, imageURL string) (*MealExtraction, error)
}

// AIServiceConfig holds the provider keys. At least one key must be set.
type AIServiceConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
}

// AIService asks Gemini first and falls back to OpenAI.
type AIService struct {
	geminiClient *genai.Client
	geminiModel  string
	openaiClient *openai.Client
	httpClient   *http.Client
}

// Generator writes free text for the advice commands.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	_ Extractor = (*AIService)(nil)
	_ Generator = (*AIService)(nil)
)

func NewAIService(ctx context.Context, cfg AIServiceConfig) (*AIService, error) {
	s := &AIService{
		geminiModel: cfg.GeminiModel,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	if s.geminiModel == "" {
		s.geminiModel = "gemini-1.5-flash"
	}

	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, apperrors.NewExternalAPIError(err, "gemini")
		}
		s.geminiClient = client
	}
	if cfg.OpenAIAPIKey != "" {
		s.openaiClient = openai.NewClient(cfg.OpenAIAPIKey)
	}
	if s.geminiClient == nil && s.openaiClient == nil {
		return nil, apperrors.NewValidationError("no AI provider key configured")
	}

	return s, nil
}

// Close releases the Gemini client.
func (s *AIService) Close() error {
	if s.geminiClient != nil {
		return s.geminiClient.Close()
	}
	return nil
}

func (s *AIService) ExtractMeal(ctx context.Context, text string) (*MealExtraction, error) {
	prompt := mealExtractionPrompt + "\n\nUSER INPUT:\n" + text

	return complete(ctx, s, "text",
		func() (string, error) { return s.geminiText(ctx, genai.Text(prompt)) },
		func() (string, error) {
			return s.openaiText(ctx, openai.GPT3Dot5Turbo, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			}, true)
		},
		ParseMealExtraction,
	)
}

func (s *AIService) ExtractMealFromImage(ctx context.Context, imageURL string) (*MealExtraction, error) {
	imageData, mimeType, err := s.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	prompt := mealExtractionPrompt + "\n\nThe input is the attached photo of the meal."

	return complete(ctx, s, "image",
		func() (string, error) {
			return s.geminiText(ctx, genai.ImageData(imageFormat(mimeType), imageData), genai.Text(prompt))
		},
		func() (string, error) {
			dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(imageData)
			return s.openaiText(ctx, openai.GPT4VisionPreview, openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURL,
						},
					},
				},
			}, false)
		},
		ParseMealExtraction,
	)
}

// Generate answers a free-form carnivore question (suggestions, recipes,
// meal plans) as plain text.
func (s *AIService) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = advisorSystemPrompt + "\n\n" + prompt

	return complete(ctx, s, "generate",
		func() (string, error) { return s.geminiText(ctx, genai.Text(prompt)) },
		func() (string, error) {
			return s.openaiText(ctx, openai.GPT3Dot5Turbo, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			}, false)
		},
		parseGenerated,
	)
}

// complete asks Gemini, then OpenAI when Gemini fails or its reply does
// not parse.
func complete[T any](ctx context.Context, s *AIService, kind string, gemini, fallback func() (string, error), parse func(string) (T, error)) (T, error) {
	var zero T
	start := time.Now()
	var firstErr error

	if s.geminiClient != nil {
		raw, err := gemini()
		if err == nil {
			result, perr := parse(raw)
			if perr == nil {
				logger.Debug("AI reply received", "provider", "gemini", "kind", kind,
					"duration_ms", time.Since(start).Milliseconds())
				return result, nil
			}
			err = perr
		}
		firstErr = err
		if s.openaiClient == nil {
			return zero, wrapProviderErr(err, "gemini")
		}
		logger.WithContext(ctx).Warn("Gemini request failed, falling back to OpenAI",
			"kind", kind, "error", err)
	}

	raw, err := fallback()
	if err != nil {
		if firstErr != nil {
			logger.WithContext(ctx).Error("Both AI providers failed", "kind", kind, "gemini_error", firstErr)
		}
		return zero, wrapProviderErr(err, "openai")
	}
	result, err := parse(raw)
	if err != nil {
		return zero, err
	}
	logger.Debug("AI reply received", "provider", "openai", "kind", kind,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func parseGenerated(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", apperrors.NewSchemaError([]string{"empty reply"})
	}
	return text, nil
}

// wrapProviderErr keeps schema errors as they are so the caller can tell a
// bad reply from a failed call.
func wrapProviderErr(err error, api string) error {
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeValidation):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError(err, api)
	}
	return apperrors.NewExternalAPIError(err, api)
}

func (s *AIService) geminiText(ctx context.Context, parts ...genai.Part) (string, error) {
	model := s.geminiClient.GenerativeModel(s.geminiModel)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected gemini response part %T", resp.Candidates[0].Content.Parts[0])
	}
	return string(text), nil
}

func (s *AIService) openaiText(ctx context.Context, model string, msg openai.ChatCompletionMessage, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    []openai.ChatCompletionMessage{msg},
		Temperature: 0.2,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	resp, err := s.openaiClient.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *AIService) download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", apperrors.NewExternalAPIError(fmt.Errorf("failed to download image: %w", err), "telegram")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", apperrors.NewExternalAPIError(fmt.Errorf("image download returned %s", resp.Status), "telegram")
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, "", apperrors.NewExternalAPIError(fmt.Errorf("failed to read image data: %w", err), "telegram")
	}
	return imageData, http.DetectContentType(imageData), nil
}

// imageFormat maps a MIME type to the format genai.ImageData expects.
func imageFormat(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpeg"
	}
}
