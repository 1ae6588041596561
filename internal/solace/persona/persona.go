// Package persona loads the counselor persona: the system prompt, few-shot
// examples and fallback strings that shape every LLM call. Deployments can
// override the built-in persona with a YAML file, validated against an
// embedded JSON schema before use so a malformed pack fails at startup
// rather than mid-conversation.
package persona

import (
	"fmt"
	"strings"
)

// Example is one few-shot exchange demonstrating the desired counselling
// register: the user's message, the counselor's internal thought process,
// and the reply shown to the user.
type Example struct {
	User     string `yaml:"user" json:"user"`
	Thoughts string `yaml:"thoughts" json:"thoughts"`
	Reply    string `yaml:"reply" json:"reply"`
}

// Persona is a complete prompt pack.
type Persona struct {
	// Name identifies the pack in logs.
	Name string `yaml:"name" json:"name"`

	// SystemPrompt is the role and approach instruction prepended to every
	// plan call.
	SystemPrompt string `yaml:"system_prompt" json:"system_prompt"`

	// Examples are few-shot exchanges included after the system prompt.
	Examples []Example `yaml:"examples" json:"examples"`

	// Apology is returned to the user when the LLM is unavailable.
	Apology string `yaml:"apology" json:"apology"`

	// SummaryFallback replaces a summary when summarisation fails.
	SummaryFallback string `yaml:"summary_fallback" json:"summary_fallback"`

	// BriefSummaryFallback replaces a summary when the transcript carries
	// no real content.
	BriefSummaryFallback string `yaml:"brief_summary_fallback" json:"brief_summary_fallback"`
}

// FewShotBlock renders the examples in the format the plan prompt embeds.
func (p *Persona) FewShotBlock() string {
	var b strings.Builder
	for i, ex := range p.Examples {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Example %d:\nUser: %q\n\nCounselor's thought process:\n%s\n\nCounselor: %q",
			i+1, ex.User, ex.Thoughts, ex.Reply)
	}
	return b.String()
}
