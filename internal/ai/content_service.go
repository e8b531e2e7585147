package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// minGeneratedLength is counted in characters, not bytes
const minGeneratedLength = 100

// Result codes
const (
	CodeInvalidInput       = "invalid_input"
	CodeTooShort           = "too_short"
	CodeInvalidCredentials = "invalid_credentials"
	CodeQuotaExceeded      = "quota_exceeded"
	CodeGenerationFailed   = "generation_failed"
)

const (
	msgTitleRequired      = "Title is required to generate content"
	msgContentRequired    = "Content is required for improvement"
	msgTooShort           = "Generated content is too short or empty"
	msgInvalidCredentials = "Invalid or missing Gemini API key. Please check your configuration."
	msgQuotaExceeded      = "AI service quota exceeded. Please try again later or check your usage limits."
	msgGenerateFailed     = "An error occurred while generating content. Please try again."
	msgImproveFailed      = "Failed to improve content. Please try again."
)

// Result is the outcome of a drafting call. Exactly one of Content and Error is set.
type Result struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func failure(code, msg string) Result {
	return Result{Success: false, Error: msg, Code: code}
}

// ContentService drafts new posts and rewrites existing ones. It never returns an
// error; every failure is reported through Result.
type ContentService struct {
	model  Model
	logger *zap.Logger
}

func NewContentService(model Model, logger *zap.Logger) *ContentService {
	return &ContentService{model: model, logger: logger}
}

// GenerateBlogContent drafts an article body for title.
func (s *ContentService) GenerateBlogContent(ctx context.Context, title, category string, tags []string) Result {
	if strings.TrimSpace(title) == "" {
		return failure(CodeInvalidInput, msgTitleRequired)
	}

	text, err := s.model.Generate(ctx, generatePrompt(title, category, tags))
	if err != nil {
		s.logger.Warn("generate blog content", zap.String("title", title), zap.Error(err))
		return classify(err)
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minGeneratedLength {
		return failure(CodeTooShort, msgTooShort)
	}
	return Result{Success: true, Content: text}
}

// ImproveContent rewrites content in the given mode (expand, simplify or enhance).
func (s *ContentService) ImproveContent(ctx context.Context, content, mode string) Result {
	if strings.TrimSpace(content) == "" {
		return failure(CodeInvalidInput, msgContentRequired)
	}

	text, err := s.model.Generate(ctx, improvePrompt(content, mode))
	if err != nil {
		s.logger.Warn("improve content", zap.String("mode", mode), zap.Error(err))
		msg := err.Error()
		if msg == "" {
			msg = msgImproveFailed
		}
		return failure(CodeGenerationFailed, msg)
	}
	return Result{Success: true, Content: strings.TrimSpace(text)}
}

// classify maps a model failure to a result. Structured provider errors are matched on
// their code and status; anything else falls back to the error text.
func classify(err error) Result {
	var pe *ProviderError
	if errors.As(err, &pe) {
		switch {
		case pe.Code == http.StatusUnauthorized, pe.Code == http.StatusForbidden,
			pe.Status == "UNAUTHENTICATED", pe.Status == "PERMISSION_DENIED":
			return failure(CodeInvalidCredentials, msgInvalidCredentials)
		case pe.Code == http.StatusTooManyRequests, pe.Status == "RESOURCE_EXHAUSTED":
			return failure(CodeQuotaExceeded, msgQuotaExceeded)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key"):
		return failure(CodeInvalidCredentials, msgInvalidCredentials)
	case strings.Contains(msg, "quota"), strings.Contains(msg, "limit"):
		return failure(CodeQuotaExceeded, msgQuotaExceeded)
	case msg == "":
		return failure(CodeGenerationFailed, msgGenerateFailed)
	}
	return failure(CodeGenerationFailed, msg)
}
