package summary

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cashly/internal/money"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

const monthLayout = "2006-01"

type Handler struct {
	svc *transaction.Service
	now func() time.Time
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
}

type categoryTotalResponse struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

type entryResponse struct {
	ID          string           `json:"id"`
	Type        transaction.Type `json:"type"`
	AmountCents int64            `json:"amount_cents"`
	CategoryID  string           `json:"category_id"`
	Date        string           `json:"date"`
	Note        string           `json:"note"`
}

type summaryResponse struct {
	Month        string                  `json:"month"`
	IncomeCents  int64                   `json:"income_cents"`
	ExpenseCents int64                   `json:"expense_cents"`
	BalanceCents int64                   `json:"balance_cents"`
	Income       string                  `json:"income"`
	Expense      string                  `json:"expense"`
	Balance      string                  `json:"balance"`
	ByCategory   []categoryTotalResponse `json:"by_category"`
	Transactions []entryResponse         `json:"transactions"`
}

// summary serves ?month=YYYY-MM, defaulting to the current month.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	month := h.now()

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := time.Parse(monthLayout, s)
		if err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}

		month = m
	}

	sum, err := h.svc.Summary(r.Context(), month)
	if err != nil {
		slog.Error("failed to build summary", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(sum)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toResponse(sum *transaction.Summary) summaryResponse {
	resp := summaryResponse{
		Month:        sum.Month.Format(monthLayout),
		IncomeCents:  sum.Income,
		ExpenseCents: sum.Expense,
		BalanceCents: sum.Balance,
		Income:       money.Format(sum.Income),
		Expense:      money.Format(sum.Expense),
		Balance:      money.Format(sum.Balance),
		ByCategory:   make([]categoryTotalResponse, 0, len(sum.ByCategory)),
		Transactions: make([]entryResponse, 0, len(sum.Transactions)),
	}

	for _, c := range sum.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryTotalResponse{
			CategoryID:  c.CategoryID,
			Name:        c.Name,
			AmountCents: c.Amount,
			Amount:      money.Format(c.Amount),
		})
	}

	for _, tx := range sum.Transactions {
		resp.Transactions = append(resp.Transactions, entryResponse{
			ID:          tx.ID.String(),
			Type:        tx.Type,
			AmountCents: tx.Amount,
			CategoryID:  tx.CategoryID,
			Date:        tx.ISODate(),
			Note:        tx.Note,
		})
	}

	return resp
}
