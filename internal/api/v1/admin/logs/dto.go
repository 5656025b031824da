package logs

import "time"

type LogListItem struct {
	ID           uint      `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       uint      `json:"user_id"`
	ModelUsed    string    `json:"model_used"`
	TokensInput  int       `json:"tokens_input"`
	TokensOutput int       `json:"tokens_output"`
	LatencyMs    int64     `json:"latency_ms"`
	InputText    string    `json:"input_text"`
	OutputText   string    `json:"output_text"`
}

type LogListResponse struct {
	Logs  []LogListItem `json:"logs"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
