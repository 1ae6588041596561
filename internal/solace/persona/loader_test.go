package persona

import (
	"strings"
	"testing"
)

func TestDefaultPersonaIsValid(t *testing.T) {
	p := Default()
	if p.Name == "" {
		t.Error("default persona has no name")
	}
	if p.SystemPrompt == "" {
		t.Error("default persona has no system prompt")
	}
	if len(p.Examples) == 0 {
		t.Error("default persona has no few-shot examples")
	}
	if p.Apology == "" || p.SummaryFallback == "" || p.BriefSummaryFallback == "" {
		t.Error("default persona missing fallback strings")
	}
}

func TestParse_MinimalPackGetsDefaults(t *testing.T) {
	p, err := Parse([]byte(`
name: minimal
system_prompt: You are a counselor.
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if p.Name != "minimal" {
		t.Errorf("name not decoded: %q", p.Name)
	}
	if p.Apology == "" {
		t.Error("expected default apology filled in")
	}
	if p.SummaryFallback != "Session completed." {
		t.Errorf("expected default summary fallback, got %q", p.SummaryFallback)
	}
	if p.BriefSummaryFallback != "Brief conversation session completed." {
		t.Errorf("expected default brief fallback, got %q", p.BriefSummaryFallback)
	}
}

func TestParse_SchemaRejectsMissingRequired(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no system prompt", "name: broken\n"},
		{"no name", "system_prompt: x\n"},
		{"example missing reply", `
name: broken
system_prompt: x
examples:
  - user: hi
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Fatal("expected schema validation error")
			}
		})
	}
}

func TestParse_RejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("name: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFewShotBlock(t *testing.T) {
	p := &Persona{
		Examples: []Example{
			{User: "I'm tired", Thoughts: "They may be burned out.", Reply: "That sounds heavy."},
			{User: "thanks", Thoughts: "Gratitude.", Reply: "Any time."},
		},
	}
	got := p.FewShotBlock()
	for _, want := range []string{
		"Example 1:",
		`User: "I'm tired"`,
		"Counselor's thought process:\nThey may be burned out.",
		`Counselor: "That sounds heavy."`,
		"Example 2:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("few-shot block missing %q in:\n%s", want, got)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/persona.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
