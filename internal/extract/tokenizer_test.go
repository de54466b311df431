package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cashly/internal/extract"
)

func TestFindAmount(t *testing.T) {
	type testCase struct {
		name      string
		line      string
		wantFound bool
		want      extract.Token
	}

	tests := []testCase{
		{
			name:      "Spaced cents from OCR",
			line:      "34 00€",
			wantFound: true,
			want:      extract.Token{Cents: 3400},
		},
		{
			name:      "Leading minus is expense",
			line:      "-12,50€ compra",
			wantFound: true,
			want:      extract.Token{Cents: 1250, Negative: true},
		},
		{
			name:      "No minus is income",
			line:      "12,50€ abono",
			wantFound: true,
			want:      extract.Token{Cents: 1250},
		},
		{
			name:      "Thousands and decimal comma",
			line:      "Transferencia 1.234,56 €",
			wantFound: true,
			want:      extract.Token{Cents: 123456},
		},
		{
			// The shared parser drops every dot, so a bare decimal point is lost.
			name:      "Decimal point read as thousands separator",
			line:      "Amazon 1234.56",
			wantFound: true,
			want:      extract.Token{Cents: 12345600},
		},
		{
			name:      "En dash with space before amount",
			line:      "Pago – 23,40",
			wantFound: true,
			want:      extract.Token{Cents: 2340, Negative: true},
		},
		{
			name:      "Unicode minus sign",
			line:      "Compra −7,99",
			wantFound: true,
			want:      extract.Token{Cents: 799, Negative: true},
		},
		{
			name:      "Minus sign before euro symbol",
			line:      "-€12,50",
			wantFound: true,
			want:      extract.Token{Cents: 1250, Negative: true},
		},
		{
			name:      "Minus too far from the amount",
			line:      "- Compra en tienda 12,50",
			wantFound: true,
			want:      extract.Token{Cents: 1250},
		},
		{
			name:      "Zero amount is still a token",
			line:      "Saldo 0,00",
			wantFound: true,
			want:      extract.Token{Cents: 0},
		},
		{
			name:      "Single decimal digit is not an amount",
			line:      "Café 3,5",
			wantFound: false,
		},
		{
			name:      "Integer only",
			line:      "Total 12",
			wantFound: false,
		},
		{
			name:      "Text only",
			line:      "MERCADONA VALENCIA",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extract.FindAmount(tt.line)

			assert.Equal(t, tt.wantFound, found)

			if tt.wantFound {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFindAmount_SpacedFormWinsOverGrouped(t *testing.T) {
	// "1 23" is read as spaced cents before the grouped form gets a chance.
	got, found := extract.FindAmount("Supermercado 1 234,56")

	assert.True(t, found)
	assert.Equal(t, int64(123), got.Cents)
}
