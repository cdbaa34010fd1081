package tutor

import (
	"context"
	"fmt"
	"strings"
)

// Level is the depth of an explanation.
type Level string

const (
	Beginner     Level = "Beginner"
	Intermediate Level = "Intermediate"
	Advanced     Level = "Advanced"
	Expert       Level = "Expert"
)

// Levels lists the supported levels from shallowest to deepest.
var Levels = []Level{Beginner, Intermediate, Advanced, Expert}

// ParseLevel matches s case-insensitively. Blank input is Intermediate.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Intermediate, nil
	}
	for _, l := range Levels {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level %q (want Beginner, Intermediate, Advanced or Expert)", s)
}

// ExplainOptions tunes an explanation.
type ExplainOptions struct {
	Context  string // optional subject context
	Style    string // default "Conversational"
	Audience string // default "general public"
	// OmitExamples turns off the request for worked examples.
	OmitExamples bool
}

const (
	DefaultStyle    = "Conversational"
	DefaultAudience = "general public"
)

// IncludeExamples reports whether the prompt asks for examples.
func (o ExplainOptions) IncludeExamples() bool { return !o.OmitExamples }

// Explanation is a generated concept explanation.
type Explanation struct {
	Concept  string `json:"concept"`
	Level    Level  `json:"level"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Explain asks the model to explain concept at the given level.
func (s *Service) Explain(ctx context.Context, concept string, level Level, opts ExplainOptions) (Explanation, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return Explanation{}, ErrNoConcept
	}
	if level == "" {
		level = Intermediate
	}

	md, err := s.generate(ctx, "explanation", BuildExplainPrompt(concept, level, opts))
	if err != nil {
		return Explanation{}, err
	}
	html, err := RenderHTML(md)
	if err != nil {
		return Explanation{}, err
	}
	return Explanation{Concept: concept, Level: level, Markdown: md, HTML: html}, nil
}

// BuildExplainPrompt renders the explanation prompt.
func BuildExplainPrompt(concept string, level Level, opts ExplainOptions) string {
	style := strings.TrimSpace(opts.Style)
	if style == "" {
		style = DefaultStyle
	}
	audience := strings.TrimSpace(opts.Audience)
	if audience == "" {
		audience = DefaultAudience
	}

	prompt := fmt.Sprintf("Explain '%s' at '%s' level in '%s' style for '%s'.", concept, level, style, audience)
	if c := strings.TrimSpace(opts.Context); c != "" {
		prompt += fmt.Sprintf(" Context: %s.", c)
	}
	if opts.IncludeExamples() {
		prompt += " Include examples."
	}
	return prompt
}
