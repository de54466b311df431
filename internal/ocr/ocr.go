// Package ocr turns receipt and statement screenshots into plain text.
package ocr

import (
	"context"
	"io"
)

//go:generate mockgen -source=ocr.go -destination=recognizer_mock.go -package=ocr
type Recognizer interface {
	// Recognize returns the text found in image. It may ignore ctx once started.
	Recognize(ctx context.Context, image io.Reader) (string, error)
}
