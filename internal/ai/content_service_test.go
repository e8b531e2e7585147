package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// stubModel records prompts and replays a canned answer.
type stubModel struct {
	text    string
	err     error
	prompts []string
}

func (m *stubModel) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.text, m.err
}

func newContentService(m Model) *ContentService {
	return NewContentService(m, zap.NewNop())
}

func TestGenerateBlogContentLengthThreshold(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		success bool
		code    string
	}{
		{"short", strings.Repeat("a", 50), false, CodeTooShort},
		{"padded short", "   " + strings.Repeat("a", 99) + "\n\n", false, CodeTooShort},
		{"exactly minimum", strings.Repeat("a", 100), true, ""},
		{"multibyte short", strings.Repeat("é", 99), false, CodeTooShort},
		{"multibyte minimum", strings.Repeat("é", 100), true, ""},
		{"cjk short", strings.Repeat("文", 40), false, CodeTooShort},
		{"long", strings.Repeat("word ", 100), true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newContentService(&stubModel{text: tt.text}).GenerateBlogContent(context.Background(), "Go tips", "", nil)
			if res.Success != tt.success || res.Code != tt.code {
				t.Fatalf("result = %+v", res)
			}
			if res.Success && res.Content != strings.TrimSpace(tt.text) {
				t.Fatal("content should be trimmed model output")
			}
		})
	}
}

func TestGenerateBlogContentRequiresTitle(t *testing.T) {
	m := &stubModel{text: strings.Repeat("x", 200)}
	res := newContentService(m).GenerateBlogContent(context.Background(), "   ", "Tech", nil)
	if res.Success || res.Code != CodeInvalidInput || res.Error != msgTitleRequired {
		t.Fatalf("result = %+v", res)
	}
	if len(m.prompts) != 0 {
		t.Fatal("model must not be called for a blank title")
	}
}

func TestGeneratePromptIncludesOptionalFields(t *testing.T) {
	m := &stubModel{text: strings.Repeat("x", 200)}
	svc := newContentService(m)

	svc.GenerateBlogContent(context.Background(), "Learning Go", "Programming", []string{"go", "backend"})
	svc.GenerateBlogContent(context.Background(), "Learning Go", "", nil)

	withFields, bare := m.prompts[0], m.prompts[1]
	if !strings.Contains(withFields, `title: "Learning Go"`) {
		t.Fatal("prompt must carry the title")
	}
	if !strings.Contains(withFields, "Category: Programming") || !strings.Contains(withFields, "Tags: go, backend") {
		t.Fatalf("optional lines missing:\n%s", withFields)
	}
	if strings.Contains(bare, "Category:") || strings.Contains(bare, "Tags:") {
		t.Fatalf("empty optional fields must be omitted:\n%s", bare)
	}
}

func TestGenerateErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		msg  string
	}{
		{"provider 401", &ProviderError{Code: 401, Message: "bad"}, CodeInvalidCredentials, msgInvalidCredentials},
		{"provider permission status", &ProviderError{Code: 400, Status: "PERMISSION_DENIED"}, CodeInvalidCredentials, msgInvalidCredentials},
		{"provider 429", &ProviderError{Code: 429, Message: "slow down"}, CodeQuotaExceeded, msgQuotaExceeded},
		{"provider exhausted", &ProviderError{Code: 400, Status: "RESOURCE_EXHAUSTED"}, CodeQuotaExceeded, msgQuotaExceeded},
		{"missing key", ErrMissingAPIKey, CodeInvalidCredentials, msgInvalidCredentials},
		{"api key text", errors.New("API key not valid"), CodeInvalidCredentials, msgInvalidCredentials},
		{"quota text", errors.New("daily quota reached"), CodeQuotaExceeded, msgQuotaExceeded},
		{"limit text", errors.New("rate limit hit"), CodeQuotaExceeded, msgQuotaExceeded},
		{"other", errors.New("connection reset"), CodeGenerationFailed, "connection reset"},
		{"empty message", errors.New(""), CodeGenerationFailed, msgGenerateFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newContentService(&stubModel{err: tt.err}).GenerateBlogContent(context.Background(), "title", "", nil)
			if res.Success || res.Code != tt.code || res.Error != tt.msg {
				t.Fatalf("result = %+v, want code %s msg %q", res, tt.code, tt.msg)
			}
		})
	}
}

func TestImproveContentModes(t *testing.T) {
	m := &stubModel{text: "  better  "}
	svc := newContentService(m)
	ctx := context.Background()

	for _, mode := range []string{ModeExpand, ModeSimplify, ModeEnhance, "bogus", ""} {
		res := svc.ImproveContent(ctx, "<p>draft</p>", mode)
		if !res.Success || res.Content != "better" {
			t.Fatalf("mode %q: result = %+v", mode, res)
		}
	}

	expand, simplify, enhance, bogus, empty := m.prompts[0], m.prompts[1], m.prompts[2], m.prompts[3], m.prompts[4]
	if !strings.HasPrefix(strings.TrimSpace(expand), "Expand") || !strings.HasPrefix(strings.TrimSpace(simplify), "Simplify") {
		t.Fatal("expand and simplify must use their own templates")
	}
	if bogus != enhance || empty != enhance {
		t.Fatal("unknown modes must fall back to the enhance template")
	}
	if !strings.Contains(enhance, "<p>draft</p>") {
		t.Fatal("prompt must embed the content")
	}
}

func TestImproveContentFailures(t *testing.T) {
	ctx := context.Background()

	res := newContentService(&stubModel{}).ImproveContent(ctx, " \n ", ModeExpand)
	if res.Success || res.Code != CodeInvalidInput || res.Error != msgContentRequired {
		t.Fatalf("blank content result = %+v", res)
	}

	// short output is accepted when improving
	res = newContentService(&stubModel{text: "ok"}).ImproveContent(ctx, "text", ModeEnhance)
	if !res.Success || res.Content != "ok" {
		t.Fatalf("short improvement result = %+v", res)
	}

	res = newContentService(&stubModel{err: &ProviderError{Code: 429, Message: "quota"}}).ImproveContent(ctx, "text", ModeEnhance)
	if res.Success || res.Code != CodeGenerationFailed {
		t.Fatalf("improve failure result = %+v", res)
	}

	res = newContentService(&stubModel{err: errors.New("")}).ImproveContent(ctx, "text", ModeEnhance)
	if res.Error != msgImproveFailed {
		t.Fatalf("empty error message = %q", res.Error)
	}
}

func TestUnconfiguredModel(t *testing.T) {
	m, err := NewGeminiModel(context.Background(), "", "", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	res := newContentService(m).GenerateBlogContent(context.Background(), "title", "", nil)
	if res.Code != CodeInvalidCredentials {
		t.Fatalf("result = %+v", res)
	}
}
