package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

// Format is the kind of input an import starts from.
type Format string

const (
	FormatText  Format = "text"
	FormatImage Format = "image"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

var (
	// ErrNoCandidates means neither extraction pass found an amount. It is a status for
	// the user, not a failure.
	ErrNoCandidates  = errors.New("no movements detected")
	ErrUnknownFormat = errors.New("unknown import format")
)

// Importer turns a structured file into transaction params.
type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}

// FormatOf picks the import format from a file name's extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text":
		return FormatText, nil
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff", ".gif":
		return FormatImage, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}
