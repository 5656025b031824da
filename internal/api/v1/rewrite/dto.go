package rewrite

import "time"

// RewriteInput is the paraphrase request body. DocumentType and tone are
// validated against their closed sets before anything runs.
type RewriteInput struct {
	DocumentType string `json:"document_type" binding:"required"`
	Tone         string `json:"tone" binding:"required"`
	ClientName   string `json:"client_name"`
	SourceText   string `json:"source_text" binding:"required"`
}

// RewriteResponse carries the generated message plus usage metrics.
type RewriteResponse struct {
	Text         string    `json:"text"`
	ModelUsed    string    `json:"model_used"`
	TokensInput  int       `json:"tokens_input"`
	TokensOutput int       `json:"tokens_output"`
	LatencyMs    int64     `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at"`
}
