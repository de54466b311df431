package importer

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/MrJamesThe3rd/cashly/internal/encoding"
	"github.com/MrJamesThe3rd/cashly/internal/export"
	"github.com/MrJamesThe3rd/cashly/internal/extract"
	"github.com/MrJamesThe3rd/cashly/internal/importer/bankcsv"
	"github.com/MrJamesThe3rd/cashly/internal/ocr"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

type Service struct {
	extractor *extract.Extractor
	batch     *ocr.Batch
	statement Importer
}

func NewService(extractor *extract.Extractor, recognizer ocr.Recognizer) *Service {
	return &Service{
		extractor: extractor,
		batch:     ocr.NewBatch(recognizer),
		statement: bankcsv.NewParser(),
	}
}

// ExtractText finds candidates in pasted or uploaded text.
func (s *Service) ExtractText(r io.Reader) ([]extract.Candidate, error) {
	text, err := encoding.ReadString(r)
	if err != nil {
		return nil, err
	}

	candidates := s.extractor.Candidates(text)
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	return candidates, nil
}

// ExtractImages recognises images one at a time and extracts candidates from each text.
// Candidates keep image order, then line order. A cancelled ctx yields no candidates.
func (s *Service) ExtractImages(ctx context.Context, images []ocr.Image, progress func(ocr.Progress)) ([]extract.Candidate, error) {
	texts, err := s.batch.Run(ctx, images, progress)
	if err != nil {
		return nil, err
	}

	var candidates []extract.Candidate
	for _, text := range texts {
		candidates = append(candidates, s.extractor.Candidates(text)...)
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	return candidates, nil
}

// ImportStatement parses a bank CSV statement.
func (s *Service) ImportStatement(r io.Reader) ([]transaction.CreateParams, error) {
	params, err := s.statement.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing statement: %w", err)
	}

	return params, nil
}

// ImportJSON reads a backup file. skipped counts the records that were left out.
func (s *Service) ImportJSON(r io.Reader) (params []transaction.CreateParams, skipped int, err error) {
	ur, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, 0, err
	}

	return export.Decode(ur)
}

// Promote returns the params of the selected candidates in candidate order.
// Out of range and repeated indices are ignored.
func Promote(candidates []extract.Candidate, selected []int) []transaction.CreateParams {
	idx := slices.Clone(selected)
	slices.Sort(idx)
	idx = slices.Compact(idx)

	params := make([]transaction.CreateParams, 0, len(idx))

	for _, i := range idx {
		if i < 0 || i >= len(candidates) {
			continue
		}

		params = append(params, candidates[i].Params())
	}

	return params
}
