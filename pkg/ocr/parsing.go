package ocr

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// matches grouped or plain monetary figures, optionally currency-marked:
	// 45.90, 1,234.56, 1.234,56, $120, EUR 99
	amountRE = regexp.MustCompile(`(?i)(?:[$€£]|rp|usd|eur|gbp)?\s*([0-9]{1,3}(?:[.,][0-9]{3})+(?:[.,][0-9]{2})?|[0-9]+(?:[.,][0-9]{1,2})?)`)

	currencyMarkRE = regexp.MustCompile(`(?i)[$€£]|rp\s*[0-9]|usd|eur|gbp`)

	totalKeywords = []string{"total", "amount due", "balance due", "grand total", "to pay", "subtotal"}
)

// ParseAmount normalizes a matched figure into a decimal. The rightmost
// separator is taken as the decimal point when it is followed by one or two
// digits; a three-digit tail is treated as thousands grouping.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "$€£ ")
	keep := strings.Builder{}
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			keep.WriteRune(r)
		}
	}
	s = keep.String()
	if s == "" {
		return decimal.Zero, ErrNoAmount
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	sep := lastDot
	if lastComma > sep {
		sep = lastComma
	}

	stripSeps := func(v string) string {
		v = strings.ReplaceAll(v, ".", "")
		return strings.ReplaceAll(v, ",", "")
	}

	var normalized string
	if sep < 0 {
		normalized = s
	} else if tail := s[sep+1:]; len(tail) == 3 {
		// 1.234 / 1,234 style grouping
		normalized = stripSeps(s)
	} else {
		normalized = stripSeps(s[:sep]) + "." + tail
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ErrNoAmount
	}
	if d.IsNegative() {
		d = d.Neg()
	}
	if d.IsZero() {
		return decimal.Zero, ErrNoAmount
	}
	return d, nil
}

type candidate struct {
	amount decimal.Decimal
	conf   float64
	raw    string
}

// SuggestFromText scans OCR output for the most plausible transaction amount.
// A figure on a total-keyword line beats any other; currency marks raise
// confidence; ties resolve to the largest figure.
func SuggestFromText(text string) (decimal.Decimal, float64, string, error) {
	var cands []candidate
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		keyword := false
		for _, kw := range totalKeywords {
			if strings.Contains(lower, kw) {
				keyword = true
				break
			}
		}
		for _, m := range amountRE.FindAllStringSubmatch(line, -1) {
			amt, err := ParseAmount(m[1])
			if err != nil {
				continue
			}
			conf := 0.35
			if keyword {
				conf += 0.4
			}
			if currencyMarkRE.MatchString(line) {
				conf += 0.15
			}
			cands = append(cands, candidate{amount: amt, conf: conf, raw: strings.TrimSpace(m[0])})
		}
	}
	if len(cands) == 0 {
		return decimal.Zero, 0, "", ErrNoAmount
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.conf > best.conf || (c.conf == best.conf && c.amount.GreaterThan(best.amount)) {
			best = c
		}
	}
	return best.amount, best.conf, best.raw, nil
}
