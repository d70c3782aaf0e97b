package domain

import (
	"fmt"
	"strings"
	"time"
)

// SummaryDocumentType is the persisted document type in the content store.
const SummaryDocumentType = "aiSummary"

const summaryDocumentIDPrefix = "ai-summary-"

// SummaryDocumentID derives the persisted summary document id from the
// content id. The derivation is deterministic so the pipeline can only ever
// produce one logical summary per content item, no matter how often it runs.
func SummaryDocumentID(contentID string) string {
	return summaryDocumentIDPrefix + contentID
}

// Summary is the structured output contract of the summarizer.
type Summary struct {
	ShortSummary  string   `json:"shortSummary"`
	MediumSummary string   `json:"mediumSummary"`
	KeyPoints     []string `json:"keyPoints"`
	Tags          []string `json:"tags"`
	Sentiment     string   `json:"sentiment,omitempty"`
	Topics        []string `json:"topics,omitempty"`
}

// Validate checks the summary against the output contract. Sentiment and
// topics are optional; everything else must be present and non-empty.
func (s *Summary) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: summary is nil", ErrInvalidSummary)
	}
	if strings.TrimSpace(s.ShortSummary) == "" {
		return fmt.Errorf("%w: shortSummary is empty", ErrInvalidSummary)
	}
	if strings.TrimSpace(s.MediumSummary) == "" {
		return fmt.Errorf("%w: mediumSummary is empty", ErrInvalidSummary)
	}
	if len(s.KeyPoints) == 0 {
		return fmt.Errorf("%w: keyPoints is empty", ErrInvalidSummary)
	}
	for i, p := range s.KeyPoints {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: keyPoints[%d] is empty", ErrInvalidSummary, i)
		}
	}
	if s.Tags == nil {
		return fmt.Errorf("%w: tags is missing", ErrInvalidSummary)
	}
	return nil
}

// SummaryDocument is the persisted form of a summary, keyed by the
// deterministic id so repeated runs replace rather than duplicate.
type SummaryDocument struct {
	ID            string      `json:"_id"`
	DocType       string      `json:"_type"`
	ContentID     string      `json:"contentId"`
	ContentType   ContentType `json:"contentType"`
	Slug          string      `json:"slug"`
	ShortSummary  string      `json:"shortSummary"`
	MediumSummary string      `json:"mediumSummary"`
	KeyPoints     []string    `json:"keyPoints"`
	Tags          []string    `json:"tags"`
	Sentiment     string      `json:"sentiment,omitempty"`
	Topics        []string    `json:"topics,omitempty"`
	GeneratedAt   time.Time   `json:"generatedAt"`
	Status        string      `json:"status"`
}

// NewSummaryDocument builds the persisted document for a validated summary.
func NewSummaryDocument(ref ContentReference, summary Summary, generatedAt time.Time) SummaryDocument {
	return SummaryDocument{
		ID:            SummaryDocumentID(ref.ContentID),
		DocType:       SummaryDocumentType,
		ContentID:     ref.ContentID,
		ContentType:   ref.ContentType,
		Slug:          ref.Slug,
		ShortSummary:  summary.ShortSummary,
		MediumSummary: summary.MediumSummary,
		KeyPoints:     summary.KeyPoints,
		Tags:          summary.Tags,
		Sentiment:     summary.Sentiment,
		Topics:        summary.Topics,
		GeneratedAt:   generatedAt,
		Status:        "completed",
	}
}
