package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const DefaultLanguages = "spa+eng"

// Tesseract runs the tesseract command line tool, reading the image from stdin.
type Tesseract struct {
	Binary    string
	Languages string
}

func NewTesseract(binary, languages string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}

	if languages == "" {
		languages = DefaultLanguages
	}

	return &Tesseract{Binary: binary, Languages: languages}
}

// Recognize runs one recognition to completion. A cancelled ctx does not kill a running
// process; callers decide between images whether to continue.
func (t *Tesseract) Recognize(_ context.Context, image io.Reader) (string, error) {
	cmd := exec.Command(t.Binary, "stdin", "stdout", "-l", t.Languages)
	cmd.Stdin = image

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s: %w: %s", t.Binary, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
