package ocr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseAmountSeparators(t *testing.T) {
	cases := map[string]string{
		"45.90":     "45.9",
		"1,234.56":  "1234.56",
		"1.234,56":  "1234.56",
		"7,500.00":  "7500",
		"10.000":    "10000",
		"$120":      "120",
		"0,5":       "0.5",
		"3.999.000": "3999000",
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, "input %q", in)
		require.True(t, got.Equal(decimal.RequireFromString(want)), "input %q: got %s want %s", in, got, want)
	}
}

func TestParseAmountRejectsEmpty(t *testing.T) {
	_, err := ParseAmount("  ")
	require.ErrorIs(t, err, ErrNoAmount)
	_, err = ParseAmount("Rp")
	require.ErrorIs(t, err, ErrNoAmount)
	_, err = ParseAmount("0.00")
	require.ErrorIs(t, err, ErrNoAmount)
}

func TestSuggestFromTextPrefersTotalLine(t *testing.T) {
	text := "Store 999\nCoffee 4.50\nBagel 3.25\nTOTAL $7.75\nCash 10.00"
	amt, conf, raw, err := SuggestFromText(text)
	require.NoError(t, err)
	require.True(t, amt.Equal(decimal.RequireFromString("7.75")), "got %s", amt)
	require.Greater(t, conf, 0.7)
	require.Contains(t, raw, "7.75")
}

func TestSuggestFromTextLargestWhenNoKeyword(t *testing.T) {
	amt, _, _, err := SuggestFromText("12.00\n45.00\n7.10")
	require.NoError(t, err)
	require.True(t, amt.Equal(decimal.RequireFromString("45")))
}

func TestSuggestFromTextNoDigits(t *testing.T) {
	_, _, _, err := SuggestFromText("thanks for shopping")
	require.ErrorIs(t, err, ErrNoAmount)
}
