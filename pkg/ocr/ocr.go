// Package ocr extracts a suggested transaction amount from receipt images
// using Tesseract. Results are advisory: callers surface the suggestion and
// its confidence, they never write it to a record unattended.
package ocr

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"github.com/shopspring/decimal"
)

// SuggestAmount OCRs the image at path across the preprocessing variants and
// returns the most plausible amount, a confidence in (0,1], and the raw
// matched substring. Returns ErrNoAmount when nothing plausible is found.
func SuggestAmount(path string) (decimal.Decimal, float64, string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return decimal.Zero, 0, "", fmt.Errorf("open image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	// digits-heavy whitelist keeps Tesseract from inventing letters inside figures
	_ = client.SetVariable("tessedit_char_whitelist", "0123456789.,:$€£ abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

	var texts []string
	for _, v := range variants(img) {
		png, err := encodePNG(v)
		if err != nil {
			continue
		}
		if err := client.SetImageFromBytes(png); err != nil {
			continue
		}
		text, err := client.Text()
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		return decimal.Zero, 0, "", ErrNoAmount
	}
	return SuggestFromText(strings.Join(texts, "\n"))
}
