package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashly/internal/money"
	"github.com/MrJamesThe3rd/cashly/internal/transaction"
)

const dbTimeout = 5 * time.Second

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatAmount formats an amount stored as cents the way the app shows money.
func FormatAmount(cents int64) string {
	return money.Format(cents)
}

// FormatSigned prefixes expenses with a minus sign.
func FormatSigned(t transaction.Type, cents int64) string {
	if t == transaction.TypeExpense {
		return money.Format(-cents)
	}

	return "+" + money.Format(cents)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatMonth renders a month as "marzo 2025".
func FormatMonth(t time.Time) string {
	return monthNames[t.Month()-1] + " " + t.Format("2006")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func successStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(s)
}
