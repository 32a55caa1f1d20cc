package finance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoreno/cv-studio/internal/llm"
	"github.com/dmoreno/cv-studio/internal/observability"
)

type fakeCompletions struct {
	response string
	err      error
	lastUser string
}

func (f *fakeCompletions) Complete(_ context.Context, messages []llm.Message) (string, error) {
	for _, m := range messages {
		if m.Role == "user" {
			f.lastUser = m.Content
		}
	}
	return f.response, f.err
}

const goodExtraction = `{"merchant":"Mercadona","date":"2026-08-20","total_cents":4550,"currency":"eur","confidence":0.92,"items":[{"description":"Leche","quantity":2,"amount_cents":250}]}`

func TestExtract_FullResult(t *testing.T) {
	completions := &fakeCompletions{response: goodExtraction}
	extractor := NewExtractor(completions, nil, observability.NopLogger())

	got, err := extractor.Extract(context.Background(), uuid.New(), "MERCADONA\nLECHE 2 x 1,25\nTOTAL 45,50", false)
	require.NoError(t, err)

	assert.Equal(t, "Mercadona", got.Merchant)
	assert.Equal(t, "2026-08-20", got.Date)
	assert.Equal(t, int64(4550), got.TotalCents)
	assert.Equal(t, "EUR", got.Currency)
	assert.False(t, got.NeedsReview)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Leche", got.Items[0].Description)
}

func TestExtract_LowConfidenceNeedsReview(t *testing.T) {
	completions := &fakeCompletions{
		response: `{"merchant":"¿?","total_cents":100,"confidence":0.4}`,
	}
	extractor := NewExtractor(completions, nil, observability.NopLogger())

	got, err := extractor.Extract(context.Background(), uuid.New(), "texto ilegible", false)
	require.NoError(t, err)
	assert.True(t, got.NeedsReview)
}

func TestExtract_MissingTotalNeedsReview(t *testing.T) {
	completions := &fakeCompletions{
		response: `{"merchant":"Bar Paco","confidence":0.95}`,
	}
	extractor := NewExtractor(completions, nil, observability.NopLogger())

	got, err := extractor.Extract(context.Background(), uuid.New(), "BAR PACO cafe 1,50", false)
	require.NoError(t, err)
	assert.True(t, got.NeedsReview)
	assert.Zero(t, got.TotalCents)
}

func TestExtract_HTMLReducedToText(t *testing.T) {
	completions := &fakeCompletions{response: goodExtraction}
	extractor := NewExtractor(completions, nil, observability.NopLogger())

	html := `<html><head><style>body{color:red}</style></head>
<body><h1>Mercadona</h1><script>alert(1)</script><p>TOTAL   45,50</p></body></html>`
	_, err := extractor.Extract(context.Background(), uuid.New(), html, true)
	require.NoError(t, err)

	assert.Contains(t, completions.lastUser, "Mercadona")
	assert.Contains(t, completions.lastUser, "TOTAL 45,50")
	assert.NotContains(t, completions.lastUser, "alert(1)")
	assert.NotContains(t, completions.lastUser, "color:red")
}

func TestExtract_SchemaViolationRejected(t *testing.T) {
	completions := &fakeCompletions{
		response: `{"merchant":"X","date":"20-08-2026","confidence":0.9}`,
	}
	extractor := NewExtractor(completions, nil, observability.NopLogger())

	_, err := extractor.Extract(context.Background(), uuid.New(), "texto", false)
	assert.Error(t, err)
}

func TestExtract_EmptyContent(t *testing.T) {
	extractor := NewExtractor(&fakeCompletions{}, nil, observability.NopLogger())

	_, err := extractor.Extract(context.Background(), uuid.New(), "   ", false)
	assert.Error(t, err)
}

func TestExtract_SanitizesModelStrings(t *testing.T) {
	completions := &fakeCompletions{
		response: `{"merchant":"<script>alert(1)</script>Tienda","total_cents":100,"confidence":0.9}`,
	}
	extractor := NewExtractor(completions, nil, observability.NopLogger())

	got, err := extractor.Extract(context.Background(), uuid.New(), "texto", false)
	require.NoError(t, err)
	assert.Equal(t, "Tienda", got.Merchant)
}

func TestHTMLToText_CollapsesWhitespace(t *testing.T) {
	text, err := HTMLToText("<div>  Línea   uno  </div>\n<div>Línea dos</div>")
	require.NoError(t, err)
	assert.Equal(t, "Línea uno\nLínea dos", text)
}
