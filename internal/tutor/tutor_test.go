package tutor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/examprep/internal/completion"
)

type fakeCompleter struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, _ time.Duration) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func newTestService(llm Completer) *Service {
	return NewService(llm, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGeneratePlan(t *testing.T) {
	llm := &fakeCompleter{reply: "## Study Plan Overview\n\n| Day | Morning Session |\n|-----|-----|\n| 1 | Java |\n"}
	svc := newTestService(llm)

	plan, err := svc.GeneratePlan(context.Background(), []string{"Java", " Operating Systems ", ""}, 6, 7, PlanOptions{Intensity: "High"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Markdown != llm.reply {
		t.Errorf("expected markdown to be returned unchanged")
	}
	if !strings.Contains(plan.HTML, "<table>") || !strings.Contains(plan.HTML, "<h2>Study Plan Overview</h2>") {
		t.Errorf("expected rendered table, got %q", plan.HTML)
	}
	for _, want := range []string{"next 7 days", "Topics: Java, Operating Systems\n", "Daily Study Hours: 6\n", "Study Intensity: High", "Break Frequency: Every 45 mins", "Hours per topic: 21.00", "Morning", "Afternoon", "Evening", "exam preparation tips"} {
		if !strings.Contains(llm.prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestGeneratePlan_Validation(t *testing.T) {
	llm := &fakeCompleter{reply: "plan"}
	svc := newTestService(llm)

	tests := []struct {
		name   string
		topics []string
		hours  float64
		days   int
		want   error
	}{
		{"no topics", nil, 6, 7, ErrNoTopics},
		{"blank topics", []string{" ", ""}, 6, 7, ErrNoTopics},
		{"zero hours", []string{"Java"}, 0, 7, ErrInvalidBudget},
		{"negative days", []string{"Java"}, 4, -1, ErrInvalidBudget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GeneratePlan(context.Background(), tt.topics, tt.hours, tt.days, PlanOptions{})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if llm.prompt != "" {
		t.Error("expected no completion call for invalid input")
	}
}

func TestGeneratePlan_ServiceFailure(t *testing.T) {
	svc := newTestService(&fakeCompleter{err: completion.ErrTimeout})
	_, err := svc.GeneratePlan(context.Background(), []string{"Java"}, 2, 3, PlanOptions{})
	if !errors.Is(err, ErrGeneration) || !errors.Is(err, completion.ErrTimeout) {
		t.Errorf("expected wrapped timeout, got %v", err)
	}
}

func TestGenerate_NoClient(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.Explain(context.Background(), "Recursion", Beginner, ExplainOptions{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestBuildPlanPrompt_PriorityAndFractionalHours(t *testing.T) {
	p := BuildPlanPrompt([]string{"A", "B", "C"}, 2.5, 3, PlanOptions{PriorityTopics: []string{"B"}, BreakFrequency: "Every hour"})
	for _, want := range []string{"Daily Study Hours: 2.5", "Hours per topic: 2.50", "Priority topics", ": B\n", "Break Frequency: Every hour", "Study Intensity: Moderate"} {
		if !strings.Contains(p, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestParseTopicList(t *testing.T) {
	got := ParseTopicList("Java, Probability & Statistics ,, Operating Systems, ")
	want := []string{"Java", "Probability & Statistics", "Operating Systems"}
	if len(got) != len(want) {
		t.Fatalf("expected %d topics, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if got := ParseTopicList("  "); len(got) != 0 {
		t.Errorf("expected no topics, got %v", got)
	}
}

func TestExplain(t *testing.T) {
	llm := &fakeCompleter{reply: "**Recursion** is a function calling itself."}
	svc := newTestService(llm)

	ex, err := svc.Explain(context.Background(), "  Recursion ", Advanced, ExplainOptions{Context: "Data Structures"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Concept != "Recursion" || ex.Level != Advanced {
		t.Errorf("unexpected explanation %+v", ex)
	}
	if !strings.Contains(ex.HTML, "<strong>Recursion</strong>") {
		t.Errorf("expected rendered html, got %q", ex.HTML)
	}
	want := "Explain 'Recursion' at 'Advanced' level in 'Conversational' style for 'general public'. Context: Data Structures. Include examples."
	if llm.prompt != want {
		t.Errorf("unexpected prompt\n got: %q\nwant: %q", llm.prompt, want)
	}
}

func TestExplain_EmptyConcept(t *testing.T) {
	llm := &fakeCompleter{reply: "x"}
	svc := newTestService(llm)
	if _, err := svc.Explain(context.Background(), "   ", Beginner, ExplainOptions{}); !errors.Is(err, ErrNoConcept) {
		t.Errorf("expected ErrNoConcept, got %v", err)
	}
	if llm.prompt != "" {
		t.Error("expected no completion call")
	}
}

func TestBuildExplainPrompt_Options(t *testing.T) {
	got := BuildExplainPrompt("TCP", Expert, ExplainOptions{Style: "Socratic", Audience: "students", OmitExamples: true})
	want := "Explain 'TCP' at 'Expert' level in 'Socratic' style for 'students'."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", Intermediate, false},
		{"beginner", Beginner, false},
		{" EXPERT ", Expert, false},
		{"Advanced", Advanced, false},
		{"guru", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestRenderHTML_DropsRawHTML(t *testing.T) {
	html, err := RenderHTML("Hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("expected raw html to be omitted, got %q", html)
	}
}
