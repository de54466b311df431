package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashly/internal/export"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download sends the backup as a file attachment. start_date and end_date narrow it.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}

	for key, target := range map[string]**time.Time{"start_date": &filter.StartDate, "end_date": &filter.EndDate} {
		s := r.URL.Query().Get(key)
		if s == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, key+" must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		*target = &t
	}

	// Buffered so a listing failure can still produce a proper error status.
	var buf bytes.Buffer

	n, err := h.svc.Export(r.Context(), filter, &buf)
	if err != nil {
		slog.Error("failed to export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(h.now())))
	w.Header().Set("X-Exported-Count", strconv.Itoa(n))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
