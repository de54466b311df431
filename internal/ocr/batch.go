package ocr

import (
	"context"
	"fmt"
	"io"
)

// Image is one picture queued for recognition. Open is called right before it is processed.
type Image struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Progress is reported before each image is recognised. Index is 1-based.
type Progress struct {
	Index int
	Total int
	Name  string
}

type Batch struct {
	recognizer Recognizer
}

func NewBatch(r Recognizer) *Batch {
	return &Batch{recognizer: r}
}

// Run recognises images one after another and returns their texts in input order.
//
// Cancellation is checked before each image and after the last one: the image in flight
// always finishes, no further image is started, and a cancelled run returns no texts.
// progress may be nil.
func (b *Batch) Run(ctx context.Context, images []Image, progress func(Progress)) ([]string, error) {
	texts := make([]string, 0, len(images))

	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if progress != nil {
			progress(Progress{Index: i + 1, Total: len(images), Name: img.Name})
		}

		text, err := b.recognize(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("recognizing %s: %w", img.Name, err)
		}

		texts = append(texts, text)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return texts, nil
}

func (b *Batch) recognize(ctx context.Context, img Image) (string, error) {
	rc, err := img.Open()
	if err != nil {
		return "", fmt.Errorf("opening image: %w", err)
	}
	defer rc.Close()

	return b.recognizer.Recognize(ctx, rc)
}
