package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashly/internal/money"
)

func TestParseCents(t *testing.T) {
	type testCase struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "European with thousands", raw: "1.234,56 €", want: 123456},
		{name: "Negative", raw: "-12,50", want: -1250},
		{name: "Plain comma", raw: "10,00", want: 1000},
		{name: "Integer", raw: "42", want: 4200},
		{name: "Millions", raw: "1.234.567,89", want: 123456789},
		{name: "Dot is thousands separator", raw: "1234.56", want: 12345600},
		{name: "Rounds half away from zero", raw: "0,005", want: 1},
		{name: "Rounds negative half away from zero", raw: "-0,005", want: -1},
		{name: "Only first comma is decimal", raw: "1,2,3", want: 120},
		{name: "Trailing garbage after number", raw: "12-50", want: 1200},
		{name: "Fullwidth digits are normalized", raw: "１２,５０", want: 1250},
		{name: "Leading decimal", raw: ",5", want: 50},
		{name: "Empty", raw: "", wantErr: true},
		{name: "Letters only", raw: "abc", wantErr: true},
		{name: "Lone hyphen", raw: "-", wantErr: true},
		{name: "Largest int64", raw: "92233720368547758,07", want: 9223372036854775807},
		{name: "One cent past int64", raw: "92233720368547758,08", wantErr: true},
		{name: "Twenty digits", raw: "99999999999999999999,99", wantErr: true},
		{name: "Would wrap to zero", raw: "184467440737095516,16", wantErr: true},
		{name: "Negative past int64", raw: "-99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.ParseCents(tt.raw)

			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrNotANumber)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12,50 €", money.Format(1250))
	assert.Equal(t, "0,05 €", money.Format(5))
	assert.Equal(t, "-3,00 €", money.Format(-300))
}
