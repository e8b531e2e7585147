package ai

import (
	"fmt"
	"strings"
)

const (
	ModeExpand   = "expand"
	ModeSimplify = "simplify"
	ModeEnhance  = "enhance"
)

const generateTemplate = `
Write a comprehensive blog post with the title: "%s"

%s
%s

Instructions:
- Length: 800–1200 words
- Tone: conversational yet professional
- Structure:
  * <h2> for 3–5 main sections
  * <h3> for subsections
  * <p> for paragraphs
  * <ul><li> for lists
  * <strong>, <em> for emphasis
- Content:
  * Start with an engaging introduction (do not repeat the title)
  * Provide practical insights, examples, or actionable advice
  * Ensure originality and value for readers
  * Format properly with HTML

Output only the blog post content (without repeating the title).
`

const expandTemplate = `
Expand the following blog content by adding more details, examples, and insights:

%s

Requirements:
- Preserve the existing structure and main points
- Add depth and clarity to each section
- Include practical, real-world examples
- Maintain the same tone and style
- Return ONLY the improved content in the same HTML format
`

const simplifyTemplate = `
Simplify the following blog content to make it more concise and reader-friendly:

%s

Requirements:
- Keep all main points intact but clearer
- Remove redundancy or unnecessary complexity
- Use simpler, more direct language
- Maintain the HTML formatting
- Return ONLY the improved content
`

const enhanceTemplate = `
Enhance the following blog content to improve engagement and structure:

%s

Requirements:
- Improve flow and readability
- Add smooth transitions between sections
- Strengthen with better examples or explanations
- Keep approximately the same length
- Preserve the HTML structure
- Return ONLY the improved content
`

func generatePrompt(title, category string, tags []string) string {
	var categoryLine, tagsLine string
	if category != "" {
		categoryLine = "Category: " + category
	}
	if len(tags) > 0 {
		tagsLine = "Tags: " + strings.Join(tags, ", ")
	}
	return fmt.Sprintf(generateTemplate, title, categoryLine, tagsLine)
}

// improvePrompt picks the rewrite template for mode; unknown modes enhance.
func improvePrompt(content, mode string) string {
	switch mode {
	case ModeExpand:
		return fmt.Sprintf(expandTemplate, content)
	case ModeSimplify:
		return fmt.Sprintf(simplifyTemplate, content)
	default:
		return fmt.Sprintf(enhanceTemplate, content)
	}
}
