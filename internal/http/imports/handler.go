package imports

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashly/internal/extract"
	"github.com/MrJamesThe3rd/cashly/internal/importer"
	"github.com/MrJamesThe3rd/cashly/internal/importer/bankcsv"
	"github.com/MrJamesThe3rd/cashly/internal/ocr"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
	maxUpload int64
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, maxUpload int64) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
		maxUpload: maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/text", h.text)
	r.Post("/images", h.images)
	r.Post("/statement", h.statement)
	r.Post("/json", h.backup)
	r.Post("/confirm", h.confirm)
}

// candidateDTO is both what the review screen receives and what it sends back.
type candidateDTO struct {
	Type        transaction.Type `json:"type"`
	AmountCents int64            `json:"amount_cents"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	CategoryID  string           `json:"category_id"`
}

type candidatesResponse struct {
	Candidates []candidateDTO `json:"candidates"`
	Message    string         `json:"message,omitempty"`
}

type confirmRequest struct {
	Candidates []candidateDTO `json:"candidates"`
	Selected   []int          `json:"selected"`
}

type importedResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// text extracts candidates from a text/plain body.
func (h *Handler) text(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxUpload)

	candidates, err := h.importSvc.ExtractText(body)
	h.writeCandidates(w, candidates, err)
}

// images runs OCR over every multipart "files" part, in upload order.
func (h *Handler) images(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "files field is required", http.StatusBadRequest)
		return
	}

	images := make([]ocr.Image, 0, len(files))
	for _, fh := range files {
		images = append(images, ocr.Image{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	progress := func(p ocr.Progress) {
		slog.Info("recognizing image", "index", p.Index, "total", p.Total, "name", p.Name)
	}

	candidates, err := h.importSvc.ExtractImages(r.Context(), images, progress)
	if r.Context().Err() != nil {
		slog.Info("image import cancelled", "images", len(images))
		return
	}

	h.writeCandidates(w, candidates, err)
}

// statement parses a bank CSV. Rows are returned for review, not stored.
func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	file, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	params, err := h.importSvc.ImportStatement(file)
	if err != nil {
		if errors.Is(err, bankcsv.ErrUnknownLayout) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	resp := candidatesResponse{Candidates: make([]candidateDTO, 0, len(params))}
	for _, p := range params {
		resp.Candidates = append(resp.Candidates, fromParams(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// backup restores a JSON backup straight into the store.
func (h *Handler) backup(w http.ResponseWriter, r *http.Request) {
	file, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	params, skipped, err := h.importSvc.ImportJSON(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		slog.Error("failed to store backup", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, importedResponse{Imported: len(txs), Skipped: skipped})
}

// confirm stores the selected candidates.
func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	candidates := make([]extract.Candidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		date, err := time.Parse(time.DateOnly, c.Date)
		if err != nil {
			http.Error(w, "invalid date: "+c.Date, http.StatusBadRequest)
			return
		}

		candidates = append(candidates, extract.Candidate{
			Type:        c.Type,
			Amount:      c.AmountCents,
			Date:        date,
			Description: c.Description,
			CategoryID:  c.CategoryID,
		})
	}

	params := importer.Promote(candidates, req.Selected)

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		if isInvalid(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to store candidates", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, importedResponse{Imported: len(txs), Skipped: len(req.Candidates) - len(txs)})
}

func (h *Handler) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, false
	}

	return file, true
}

func (h *Handler) writeCandidates(w http.ResponseWriter, candidates []extract.Candidate, err error) {
	if errors.Is(err, importer.ErrNoCandidates) {
		writeJSON(w, http.StatusOK, candidatesResponse{Candidates: []candidateDTO{}, Message: err.Error()})
		return
	}

	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}

		slog.Error("failed to extract candidates", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := candidatesResponse{Candidates: make([]candidateDTO, 0, len(candidates))}
	for _, c := range candidates {
		resp.Candidates = append(resp.Candidates, candidateDTO{
			Type:        c.Type,
			AmountCents: c.Amount,
			Date:        c.ISODate(),
			Description: c.Description,
			CategoryID:  c.CategoryID,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func fromParams(p transaction.CreateParams) candidateDTO {
	return candidateDTO{
		Type:        p.Type,
		AmountCents: p.Amount,
		Date:        p.Date.Format(time.DateOnly),
		Description: p.Note,
		CategoryID:  p.CategoryID,
	}
}

func isInvalid(err error) bool {
	return errors.Is(err, transaction.ErrInvalidAmount) ||
		errors.Is(err, transaction.ErrInvalidType) ||
		errors.Is(err, transaction.ErrInvalidDate)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
