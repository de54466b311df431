package bankcsv

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Importe" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Cargo"/"Abono").
	amountSplit
)

// Profile describes the column layout of one bank's CSV export. Header names are
// compared case-insensitively.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	DebitCol   string // used when AmountMode == amountSplit
	CreditCol  string // used when AmountMode == amountSplit
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order; layouts with more required columns come first.
var profiles = []Profile{
	{
		Name:       "cargo-abono",
		DateCol:    "fecha operación",
		DescCol:    "concepto",
		AmountMode: amountSplit,
		DebitCol:   "cargo",
		CreditCol:  "abono",
	},
	{
		Name:       "debe-haber",
		DateCol:    "fecha",
		DescCol:    "concepto",
		AmountMode: amountSplit,
		DebitCol:   "debe",
		CreditCol:  "haber",
	},
	{
		Name:       "operacion-importe",
		DateCol:    "fecha operación",
		DescCol:    "concepto",
		AmountMode: amountSingle,
		AmountCol:  "importe",
	},
	{
		Name:       "concepto-importe",
		DateCol:    "fecha",
		DescCol:    "concepto",
		AmountMode: amountSingle,
		AmountCol:  "importe",
	},
	{
		Name:       "descripcion-importe",
		DateCol:    "fecha",
		DescCol:    "descripción",
		AmountMode: amountSingle,
		AmountCol:  "importe",
	},
}
