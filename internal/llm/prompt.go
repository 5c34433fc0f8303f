package llm

import (
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const analysisSystemPrompt = `You are an on-call assistant. Analyze ONLY what is present in the provided logs.
Hard rules:
- Do NOT guess. If evidence is missing, say so explicitly.
- Every likely cause MUST include evidence copied verbatim from the input logs.
- Evidence MUST be full original log line(s), not partial fragments or paraphrases.
- Confidence must reflect evidence strength (0-1).
- Output MUST be valid JSON and match the required schema.
- Avoid including secrets or PII. Do not repeat API keys or request bodies unless necessary; prefer referencing log lines.
- Return ONLY JSON. No markdown, no commentary.`

// analysisMessages builds the fixed two-message prompt: the evidence-only
// system instruction plus a user message embedding the raw logs and the
// required output keys.
func analysisMessages(logs string) []llms.MessageContent {
	user := strings.Join([]string{
		"Input logs (plain text):",
		"----",
		logs,
		"----",
		"Return ONLY JSON with keys:",
		"summary, likely_causes[{cause,evidence[],confidence}], next_steps[], missing_observability[], customer_message_draft",
	}, "\n")

	return []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, analysisSystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}
}
