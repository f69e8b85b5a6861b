package ocr

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const minWidth = 1000

// variants produces the preprocessed renderings fed to Tesseract: upscaled
// grayscale, contrast-boosted, and binarized. Receipts photographed at an
// angle or in poor light tend to need at least one of the harsher passes.
func variants(img image.Image) []image.Image {
	if img.Bounds().Dx() < minWidth {
		img = imaging.Resize(img, minWidth, 0, imaging.Lanczos)
	}
	gray := imaging.Grayscale(img)
	contrast := imaging.Sharpen(imaging.AdjustContrast(gray, 35), 1.2)
	return []image.Image{gray, contrast, binarize(gray, 150)}
}

// binarize performs a simple global threshold on a grayscale image.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
