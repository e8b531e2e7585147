package ai

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiModel generates text with the Gemini API.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel returns a Gemini-backed Model. Without an API key it returns a model
// whose every call fails with ErrMissingAPIKey, so the server can still start.
func NewGeminiModel(ctx context.Context, apiKey, model string, logger *zap.Logger) (Model, error) {
	if apiKey == "" {
		logger.Warn("gemini api key not set, content generation disabled")
		return unconfiguredModel{}, nil
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("gemini client ready", zap.String("model", model))
	return &GeminiModel{client: client, model: model}, nil
}

func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), nil)
	if err != nil {
		return "", providerError(err)
	}
	return resp.Text(), nil
}

func providerError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Code: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &ProviderError{Code: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message}
	}
	return err
}
