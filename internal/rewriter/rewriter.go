package rewriter

import (
	"context"
	"fmt"
)

// DocumentType is the closed set of docket-update categories the prompt
// builder knows how to describe.
type DocumentType string

const (
	DocOrder          DocumentType = "order"
	DocDecision       DocumentType = "decision"
	DocDeadlineNotice DocumentType = "deadline_notice"
	DocFiling         DocumentType = "filing"
)

func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocOrder, DocDecision, DocDeadlineNotice, DocFiling:
		return DocumentType(s), nil
	}
	return "", fmt.Errorf("unknown document type: %q", s)
}

// Tone is the closed set of voices a paraphrase can be written in.
type Tone string

const (
	ToneFormal     Tone = "formal"
	ToneEmpathetic Tone = "empathetic"
	ToneDirect     Tone = "direct"
)

func ParseTone(s string) (Tone, error) {
	switch Tone(s) {
	case ToneFormal, ToneEmpathetic, ToneDirect:
		return Tone(s), nil
	}
	return "", fmt.Errorf("unknown tone: %q", s)
}

// Request carries one rewrite job. ClientName may be empty.
type Request struct {
	DocumentType DocumentType
	Tone         Tone
	ClientName   string
	SourceText   string
}

// Result is the rewriter's answer plus usage metrics for the audit log.
type Result struct {
	Text      string
	TokensIn  int
	TokensOut int
	Model     string
}

// Rewriter turns a docket update into a plain-language client message.
// Implementations must respect ctx cancellation and deadlines.
type Rewriter interface {
	Rewrite(ctx context.Context, req Request) (*Result, error)
}
