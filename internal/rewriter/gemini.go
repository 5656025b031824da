package rewriter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docketclear-backend/internal/utils"
)

// TemplateSource resolves the prompt template for a document type. A nil
// source means the built-in default is always used.
type TemplateSource func(docType DocumentType) string

// GeminiClient calls the Google generative-language API over plain HTTP.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	templates  TemplateSource
}

func NewGeminiClient(apiKey, baseURL, model string, timeout time.Duration, templates TemplateSource) *GeminiClient {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: utils.NewHTTPClient(timeout),
		templates:  templates,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// Rewrite sends the built prompt to the generateContent endpoint. Any
// transport error, non-2xx status, or empty candidate list is returned as an
// error; the caller treats all of them as retryable and must not debit.
func (c *GeminiClient) Rewrite(ctx context.Context, req Request) (*Result, error) {
	template := DefaultPromptTemplate
	if c.templates != nil {
		if t := c.templates(req.DocumentType); t != "" {
			template = t
		}
	}

	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: BuildPrompt(template, req)}}},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("api returned error status %d: %s", resp.StatusCode, string(snippet))
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty response from model")
	}

	return &Result{
		Text:      decoded.Candidates[0].Content.Parts[0].Text,
		TokensIn:  decoded.UsageMetadata.PromptTokenCount,
		TokensOut: decoded.UsageMetadata.CandidatesTokenCount,
		Model:     c.model,
	}, nil
}
