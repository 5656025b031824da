package rewriter

import (
	"fmt"
	"strings"
)

// DefaultPromptTemplate is used when no stored template exists for the
// requested document type. Placeholders are filled by BuildPrompt.
const DefaultPromptTemplate = `Act as an attorney writing to a client over a messaging app.
Rewrite the court docket update below in plain language.
Document type: {{document_type}}.
Client: {{client_name}}.
Tone: {{tone}}.
Original text: "{{source_text}}"

Rules: simple wording, keep it brief, no legal jargon.`

var documentTypeLabels = map[DocumentType]string{
	DocOrder:          "procedural order",
	DocDecision:       "court decision",
	DocDeadlineNotice: "notice with a deadline",
	DocFiling:         "document filed into the case record",
}

var toneLabels = map[Tone]string{
	ToneFormal:     "formal",
	ToneEmpathetic: "empathetic and reassuring",
	ToneDirect:     "direct and to the point",
}

// BuildPrompt fills template placeholders from the request. An empty client
// name falls back to a neutral salutation target.
func BuildPrompt(template string, req Request) string {
	clientName := req.ClientName
	if clientName == "" {
		clientName = "the client"
	}

	r := strings.NewReplacer(
		"{{document_type}}", documentTypeLabels[req.DocumentType],
		"{{tone}}", toneLabels[req.Tone],
		"{{client_name}}", clientName,
		"{{source_text}}", req.SourceText,
	)

	prompt := r.Replace(template)

	// A template missing the source placeholder would silently drop the
	// docket text, so append it instead.
	if !strings.Contains(template, "{{source_text}}") {
		prompt = fmt.Sprintf("%s\n\nOriginal text: %q", prompt, req.SourceText)
	}

	return prompt
}
