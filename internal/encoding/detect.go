// Package encoding normalises pasted text, bank statements and backups to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much input is inspected before choosing a decoder.
const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader returns a reader that yields r decoded to UTF-8.
//
// A byte order mark wins; then input that is already valid UTF-8 is passed through;
// then chardet picks among the Western European code pages Spanish banks export in.
// Anything else is read as Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(head, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	dec := decoderFor(head)
	if dec == nil {
		return br, nil
	}

	return transform.NewReader(br, dec), nil
}

// ReadString reads all of r and returns it as UTF-8 text.
func ReadString(r io.Reader) (string, error) {
	ur, err := NewUTF8Reader(r)
	if err != nil {
		return "", err
	}

	b, err := io.ReadAll(ur)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}

	return string(b), nil
}

// decoderFor returns nil when head needs no decoding.
func decoderFor(head []byte) *xencoding.Decoder {
	switch {
	case bytes.HasPrefix(head, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case bytes.HasPrefix(head, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case validUTF8Prefix(head):
		return nil
	}

	result, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return charmap.Windows1252.NewDecoder()
	}

	switch result.Charset {
	case "UTF-8":
		return nil
	case "ISO-8859-15":
		return charmap.ISO8859_15.NewDecoder()
	case "ISO-8859-1":
		return charmap.ISO8859_1.NewDecoder()
	default:
		return charmap.Windows1252.NewDecoder()
	}
}

// validUTF8Prefix tolerates a multi-byte sequence cut off by the sniff window.
func validUTF8Prefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}

		b = b[:len(b)-1]
	}

	return utf8.Valid(b)
}
