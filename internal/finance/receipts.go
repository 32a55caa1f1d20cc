package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmoreno/cv-studio/internal/db"
	"github.com/dmoreno/cv-studio/internal/llm"
	"github.com/dmoreno/cv-studio/internal/prompts"
	"github.com/dmoreno/cv-studio/internal/schemas"
	"github.com/dmoreno/cv-studio/internal/security"
	"github.com/dmoreno/cv-studio/internal/types"
)

// reviewThreshold marks extractions below this confidence for manual review.
const reviewThreshold = 0.7

// maxReceiptTextRunes caps how much receipt text is sent to the model.
const maxReceiptTextRunes = 6000

var receiptSystemPrompt = prompts.MustGet("receipts.json", "system")

// CompletionClient abstracts the provider fallback chain.
type CompletionClient interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// ReceiptStore persists extraction results.
type ReceiptStore interface {
	SaveReceipt(ctx context.Context, r *db.Receipt) (uuid.UUID, error)
}

// Extractor turns raw receipt content into a structured extraction.
type Extractor struct {
	completions CompletionClient
	store       ReceiptStore
	logger      *zap.Logger
}

// NewExtractor creates a receipt extractor. store may be nil, in which case
// results are returned but not persisted.
func NewExtractor(completions CompletionClient, store ReceiptStore, logger *zap.Logger) *Extractor {
	return &Extractor{completions: completions, store: store, logger: logger}
}

// extractionResult mirrors the receipt_extraction schema. TotalCents is a
// pointer so "missing" and "zero" stay distinguishable for the review flag.
type extractionResult struct {
	Merchant   string              `json:"merchant"`
	Date       string              `json:"date"`
	TotalCents *int64              `json:"total_cents"`
	Currency   string              `json:"currency"`
	Confidence float64             `json:"confidence"`
	Items      []types.ReceiptItem `json:"items"`
}

// Extract runs the model over receipt content and returns the structured
// result. HTML content is reduced to text first.
func (e *Extractor) Extract(ctx context.Context, userID uuid.UUID, content string, isHTML bool) (*types.ReceiptExtraction, error) {
	text := content
	if isHTML {
		var err error
		text, err = HTMLToText(content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse receipt HTML: %w", err)
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("receipt content is empty")
	}
	if runes := []rune(text); len(runes) > maxReceiptTextRunes {
		text = string(runes[:maxReceiptTextRunes])
	}

	messages := []llm.Message{
		{Role: "system", Content: receiptSystemPrompt},
		{Role: "user", Content: text},
	}
	raw, err := e.completions.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("receipt extraction failed: %w", err)
	}

	result, err := parseExtraction(raw)
	if err != nil {
		e.logger.Warn("unparseable receipt extraction", zap.Error(err))
		return nil, err
	}

	extraction := &types.ReceiptExtraction{
		UserID:      userID,
		Merchant:    security.SanitizeText(result.Merchant),
		Date:        result.Date,
		Currency:    strings.ToUpper(result.Currency),
		Confidence:  result.Confidence,
		NeedsReview: result.Confidence < reviewThreshold || result.TotalCents == nil,
		RawText:     text,
		CreatedAt:   time.Now().UTC(),
	}
	if result.TotalCents != nil {
		extraction.TotalCents = *result.TotalCents
	}
	for _, item := range result.Items {
		item.Description = security.SanitizeText(item.Description)
		extraction.Items = append(extraction.Items, item)
	}

	if e.store != nil {
		record := &db.Receipt{
			UserID:      userID,
			Merchant:    extraction.Merchant,
			TotalCents:  result.TotalCents,
			Currency:    extraction.Currency,
			Confidence:  extraction.Confidence,
			NeedsReview: extraction.NeedsReview,
			RawText:     text,
		}
		if extraction.Date != "" {
			record.PurchasedOn = &extraction.Date
		}
		id, err := e.store.SaveReceipt(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("failed to persist receipt: %w", err)
		}
		extraction.ID = id
	} else {
		extraction.ID = uuid.New()
	}

	return extraction, nil
}

func parseExtraction(raw string) (*extractionResult, error) {
	cleaned := llm.CleanJSONBlock(llm.StripThinking(raw))
	obj, err := llm.ExtractJSONObject(cleaned)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.ReceiptExtraction, []byte(obj)); err != nil {
		return nil, err
	}
	var result extractionResult
	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

var whitespaceRe = regexp.MustCompile(`[ \t]+`)

// HTMLToText reduces an HTML receipt (an emailed invoice, usually) to plain
// text, dropping script and style content.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(whitespaceRe.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
