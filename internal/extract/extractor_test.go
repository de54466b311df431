package extract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashly/internal/extract"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

var today = date(2025, 12, 1)

func newExtractor() *extract.Extractor {
	return extract.NewWithClock(func() time.Time {
		return time.Date(2025, 12, 1, 18, 30, 0, 0, time.UTC)
	})
}

func TestExtractor_DateLineSetsDate(t *testing.T) {
	got := newExtractor().Candidates("2025-11-12\n-23,40 €")
	require.Len(t, got, 1)

	assert.Equal(t, date(2025, 11, 12), got[0].Date)
	assert.Equal(t, "2025-11-12", got[0].ISODate())
	assert.Equal(t, int64(2340), got[0].Amount)
	assert.Equal(t, transaction.TypeExpense, got[0].Type)
	assert.Equal(t, extract.DefaultDescription, got[0].Description)
	assert.Equal(t, "other_exp", got[0].CategoryID)
}

func TestExtractor_Statement(t *testing.T) {
	text := `EXTRACTO DE MOVIMIENTOS
12/11/2025
MERCADONA VALENCIA
-23,40 €
Nómina empresa 1.500,00 €

13-11-25
Bar -3,50
14/11/2025
Bar -2,00
`

	got := newExtractor().Candidates(text)
	require.Len(t, got, 4)

	assert.Equal(t, extract.Candidate{
		Type:        transaction.TypeExpense,
		Amount:      2340,
		Date:        date(2025, 11, 12),
		Description: "MERCADONA VALENCIA",
		CategoryID:  "other_exp",
	}, got[0])

	assert.Equal(t, extract.Candidate{
		Type:        transaction.TypeIncome,
		Amount:      150000,
		Date:        date(2025, 11, 12),
		Description: "Nómina empresa",
		CategoryID:  "other_inc",
	}, got[1])

	// Short description with no carried context keeps its own text.
	assert.Equal(t, "Bar", got[2].Description)
	assert.Equal(t, date(2025, 11, 13), got[2].Date)
	assert.Equal(t, int64(350), got[2].Amount)

	assert.Equal(t, date(2025, 11, 14), got[3].Date)
	assert.Equal(t, int64(200), got[3].Amount)
}

func TestExtractor_ShortDescriptionUsesPreviousLine(t *testing.T) {
	got := newExtractor().Candidates("Gasolinera Repsol\nBar -3,50")
	require.Len(t, got, 1)

	assert.Equal(t, "Gasolinera Repsol", got[0].Description)
}

func TestExtractor_DateLineResetsDescription(t *testing.T) {
	got := newExtractor().Candidates("Gasolinera Repsol\n01/11/2025\n-3,50")
	require.Len(t, got, 1)

	assert.Equal(t, extract.DefaultDescription, got[0].Description)
	assert.Equal(t, date(2025, 11, 1), got[0].Date)
}

func TestExtractor_NoDateUsesToday(t *testing.T) {
	got := newExtractor().Candidates("Café 3,50")
	require.Len(t, got, 1)

	assert.Equal(t, today, got[0].Date)
	assert.Equal(t, "Café", got[0].Description)
	assert.Equal(t, transaction.TypeIncome, got[0].Type)
}

func TestExtractor_TodayIsTheUTCDay(t *testing.T) {
	// 23:30 in Buenos Aires is already the next day in UTC.
	e := extract.NewWithClock(func() time.Time {
		return time.Date(2025, 12, 1, 23, 30, 0, 0, time.FixedZone("ART", -3*60*60))
	})

	got := e.Candidates("Café 3,50")
	require.Len(t, got, 1)
	assert.Equal(t, date(2025, 12, 2), got[0].Date)
}

func TestExtractor_AmountsBeyondInt64AreIgnored(t *testing.T) {
	type testCase struct {
		name string
		text string
	}

	tests := []testCase{
		{name: "Just past the limit", text: "Compra 92233720368547758,08"},
		{name: "Twenty digits", text: "Compra 99999999999999999999,99"},
		{name: "Would wrap to zero", text: "Compra 184467440737095516,16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, newExtractor().Candidates(tt.text))
		})
	}

	got := newExtractor().Candidates("Ref 99999999999999999999,00\nPanadería -1,20")
	require.Len(t, got, 1)
	assert.Equal(t, int64(120), got[0].Amount)
	assert.Equal(t, transaction.TypeExpense, got[0].Type)
}

func TestExtractor_InvalidCalendarDateKeepsCurrentDate(t *testing.T) {
	got := newExtractor().Candidates("31/02/2025\nCompra online -5,00")
	require.Len(t, got, 1)

	assert.Equal(t, today, got[0].Date)
}

func TestExtractor_ZeroAmountsNeverProduceCandidates(t *testing.T) {
	got := newExtractor().Candidates("Saldo 0,00\n0 00")
	assert.Empty(t, got)
}

func TestExtractor_FallbackWhenPrimaryIsEmpty(t *testing.T) {
	// Every amount sits on a date line, so only the fallback pass finds them.
	got := newExtractor().Candidates("12/11/2025 Compra -12,50\n13/11/2025 Abono 20,00")
	require.Len(t, got, 2)

	assert.Equal(t, extract.Candidate{
		Type:        transaction.TypeExpense,
		Amount:      1250,
		Date:        today,
		Description: extract.FallbackDescription,
		CategoryID:  "other_exp",
	}, got[0])
	assert.Equal(t, transaction.TypeIncome, got[1].Type)
	assert.Equal(t, int64(2000), got[1].Amount)
}

func TestExtractor_PrimaryResultSkipsFallback(t *testing.T) {
	// The fallback would also pick up the amount on the date line.
	got := newExtractor().Candidates("12/11/2025 Compra 10,00\nCafé 3,50")
	require.Len(t, got, 1)

	assert.Equal(t, int64(350), got[0].Amount)
	assert.Equal(t, date(2025, 11, 12), got[0].Date)
}

func TestExtractor_Empty(t *testing.T) {
	assert.Empty(t, newExtractor().Candidates(""))
	assert.Empty(t, newExtractor().Candidates("sin importes\n\n"))
}

func TestExtractor_Deterministic(t *testing.T) {
	text := "2025-11-12\nMERCADONA\n-23,40\nLidl -12,00\r\nBizum recibido 15,00"

	e := newExtractor()
	first := e.Candidates(text)
	second := e.Candidates(text)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, "Bizum recibido", first[2].Description)
}

func TestCandidate_Params(t *testing.T) {
	c := extract.Candidate{
		Type:        transaction.TypeExpense,
		Amount:      2340,
		Date:        date(2025, 11, 12),
		Description: "MERCADONA",
		CategoryID:  "other_exp",
	}

	assert.Equal(t, transaction.CreateParams{
		Type:       transaction.TypeExpense,
		Amount:     2340,
		CategoryID: "other_exp",
		Date:       date(2025, 11, 12),
		Note:       "MERCADONA",
	}, c.Params())
}
