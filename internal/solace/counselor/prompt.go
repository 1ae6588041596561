package counselor

import (
	"fmt"
	"strings"
	"time"

	"github.com/solace-ai/solace/internal/solace/memory"
	"github.com/solace-ai/solace/internal/solace/persona"
)

// Token/temperature budgets for the two-call flow. The plan is internal
// reasoning and kept short; the answer is user-facing and bounded to 300
// words by instruction (model compliance, not truncation).
const (
	planTemperature = 0.7
	planMaxTokens   = 512

	answerTemperature = 0.7
	answerMaxTokens   = 1024
	answerWordLimit   = 300
)

// planPrompt asks the model to reason step-by-step about the user's
// emotional state. Its output is never shown to the user.
func planPrompt(p *persona.Persona, contextBlock string, historyLines []string, userMessage string) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(p.SystemPrompt))
	b.WriteString("\n\n")
	b.WriteString(p.FewShotBlock())
	b.WriteString("\n\n")
	b.WriteString("Now, think about this person's message with the same level of care. Work through:\n")
	b.WriteString("1. What are they feeling?\n")
	b.WriteString("2. What might be the underlying cause?\n")
	b.WriteString("3. What do they need right now?\n")
	b.WriteString("4. How should I respond?\n")
	b.WriteString("Write only your thought process, not the reply.\n")

	if contextBlock != "" {
		b.WriteString("\n")
		b.WriteString(contextBlock)
		b.WriteString("\n")
	}

	if len(historyLines) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(historyLines, "\n"))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nUser: %q\n\nCounselor's thought process:", userMessage)

	return b.String()
}

// answerPrompt asks the model, given its own plan, to produce only the
// user-facing reply. It is assembled from the same frozen context block as
// the plan prompt, so the answer does not depend on the plan call having
// succeeded to see past-session material.
func answerPrompt(p *persona.Persona, contextBlock, plan string, historyLines []string, userMessage string) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(p.SystemPrompt))
	b.WriteString("\n\n")

	if contextBlock != "" {
		b.WriteString(contextBlock)
		b.WriteString("\n\n")
	}

	if len(historyLines) > 0 {
		b.WriteString(strings.Join(historyLines, "\n"))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "User: %q\n\n", userMessage)

	if plan != "" {
		b.WriteString("Your thought process about this message:\n")
		b.WriteString(strings.TrimSpace(plan))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b,
		"Now write only the counselor's reply to the user. Do not include the thought process "+
			"or any labels. Keep the reply under %d words.\n\nCounselor:", answerWordLimit)

	return b.String()
}

// renderContext formats retrieval results into the context block frozen at
// session start. Returns "" when there is nothing relevant.
func renderContext(relevant []memory.RelevantMessage, summaries []memory.SummaryRecord) string {
	if len(relevant) == 0 && len(summaries) == 0 {
		return ""
	}

	var b strings.Builder

	if len(relevant) > 0 {
		b.WriteString("Relevant moments from this person's past conversations:\n")
		for _, r := range relevant {
			fmt.Fprintf(&b, "- (%s) %s: %s\n",
				r.Message.Timestamp.Format(time.DateOnly),
				strings.ToUpper(string(r.Message.Role)[:1])+string(r.Message.Role)[1:],
				r.Message.Content,
			)
		}
	}

	if len(summaries) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Summaries of their recent sessions:\n")
		for _, s := range summaries {
			fmt.Fprintf(&b, "- (%s) %s\n", s.SessionDate.Format(time.DateOnly), s.Summary)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
