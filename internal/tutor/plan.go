package tutor

import (
	"context"
	"fmt"
	"strings"
)

// PlanOptions tunes a study plan. Zero values take the defaults below.
type PlanOptions struct {
	Intensity      string   // Low, Moderate (default) or High
	BreakFrequency string   // default "Every 45 mins"
	PriorityTopics []string // topics to schedule first and revisit
}

const (
	DefaultIntensity      = "Moderate"
	DefaultBreakFrequency = "Every 45 mins"
)

func (o PlanOptions) withDefaults() PlanOptions {
	if strings.TrimSpace(o.Intensity) == "" {
		o.Intensity = DefaultIntensity
	}
	if strings.TrimSpace(o.BreakFrequency) == "" {
		o.BreakFrequency = DefaultBreakFrequency
	}
	return o
}

// Plan is a generated study timetable.
type Plan struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// GeneratePlan asks the model for a day-by-day timetable covering topics.
func (s *Service) GeneratePlan(ctx context.Context, topics []string, hoursPerDay float64, daysUntilExam int, opts PlanOptions) (Plan, error) {
	topics = cleanTopics(topics)
	if len(topics) == 0 {
		return Plan{}, ErrNoTopics
	}
	if hoursPerDay <= 0 || daysUntilExam <= 0 {
		return Plan{}, ErrInvalidBudget
	}

	md, err := s.generate(ctx, "study_plan", BuildPlanPrompt(topics, hoursPerDay, daysUntilExam, opts))
	if err != nil {
		return Plan{}, err
	}
	html, err := RenderHTML(md)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Markdown: md, HTML: html}, nil
}

// BuildPlanPrompt renders the timetable prompt.
func BuildPlanPrompt(topics []string, hoursPerDay float64, daysUntilExam int, opts PlanOptions) string {
	opts = opts.withDefaults()
	hoursPerTopic := hoursPerDay * float64(daysUntilExam) / float64(len(topics))

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert academic planner. Create a **detailed daily timetable** for the next %d days.\n\n", daysUntilExam)
	sb.WriteString("Inputs:\n")
	fmt.Fprintf(&sb, "- Topics: %s\n", strings.Join(topics, ", "))
	fmt.Fprintf(&sb, "- Daily Study Hours: %s\n", formatHours(hoursPerDay))
	fmt.Fprintf(&sb, "- Study Intensity: %s\n", opts.Intensity)
	fmt.Fprintf(&sb, "- Break Frequency: %s\n", opts.BreakFrequency)
	fmt.Fprintf(&sb, "- Hours per topic: %.2f\n", hoursPerTopic)
	if p := cleanTopics(opts.PriorityTopics); len(p) > 0 {
		fmt.Fprintf(&sb, "- Priority topics (schedule first, revisit before the exam): %s\n", strings.Join(p, ", "))
	}
	sb.WriteString(`
The timetable should:
1. Be structured **day-by-day** in a table format.
2. Include **Morning**, **Afternoon**, **Evening** sessions.
3. Assign topics to each session, ensuring all topics are covered.
4. Include short breaks according to the break frequency.
5. Balance revision and new learning.
6. Mention the focus for each session.

Format Example:
## Study Plan Overview
- Days until exam: X
- Daily hours: X
- Intensity: X
- Break frequency: X

| Day | Morning Session | Afternoon Session | Evening Session |
|-----|-----------------|-------------------|-----------------|
| 1   | Topic - Focus   | Topic - Focus     | Topic - Focus   |

End with 3-5 general exam preparation tips.
`)
	return sb.String()
}

// ParseTopicList splits a comma-separated topic list, dropping blanks.
func ParseTopicList(s string) []string {
	return cleanTopics(strings.Split(s, ","))
}

func cleanTopics(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func formatHours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%d", int64(h))
	}
	return fmt.Sprintf("%g", h)
}
