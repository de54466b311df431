package transaction

// Category groups transactions of one type for reporting.
type Category struct {
	ID    string `json:"id"`
	Type  Type   `json:"type"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

const (
	CategoryOtherIncome  = "other_inc"
	CategoryOtherExpense = "other_exp"
)

var categories = []Category{
	{ID: "salary", Type: TypeIncome, Name: "Nómina", Emoji: "💼"},
	{ID: "extra_inc", Type: TypeIncome, Name: "Extras", Emoji: "💸"},
	{ID: "refunds_inc", Type: TypeIncome, Name: "Devoluciones", Emoji: "↩️"},
	{ID: CategoryOtherIncome, Type: TypeIncome, Name: "Otros ingresos", Emoji: "➕"},

	{ID: "groceries", Type: TypeExpense, Name: "Supermercado", Emoji: "🛒"},
	{ID: "rent", Type: TypeExpense, Name: "Alquiler", Emoji: "🏠"},
	{ID: "bills", Type: TypeExpense, Name: "Facturas", Emoji: "💡"},
	{ID: "transport", Type: TypeExpense, Name: "Transporte", Emoji: "🚗"},
	{ID: "restaurants", Type: TypeExpense, Name: "Restaurantes", Emoji: "🍽️"},
	{ID: "leisure", Type: TypeExpense, Name: "Ocio", Emoji: "🎉"},
	{ID: "selfcare", Type: TypeExpense, Name: "SelfCare", Emoji: "💆🏽"},
	{ID: "shopping", Type: TypeExpense, Name: "Compras", Emoji: "🛍️"},
	{ID: "wedding", Type: TypeExpense, Name: "Boda", Emoji: "👰🏻‍♀️"},
	{ID: "subscriptions", Type: TypeExpense, Name: "Suscripciones", Emoji: "👨🏽‍💻"},
	{ID: CategoryOtherExpense, Type: TypeExpense, Name: "Otros gastos", Emoji: "➖"},
}

var categoryByID = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.ID] = c
	}

	return m
}()

// Categories returns the catalogue, income categories first.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)

	return out
}

// CategoriesOf returns the categories available for t.
func CategoriesOf(t Type) []Category {
	var out []Category

	for _, c := range categories {
		if c.Type == t {
			out = append(out, c)
		}
	}

	return out
}

func CategoryByID(id string) (Category, bool) {
	c, ok := categoryByID[id]
	return c, ok
}

// DefaultCategory returns the catch-all category id for t.
func DefaultCategory(t Type) string {
	if t == TypeIncome {
		return CategoryOtherIncome
	}

	return CategoryOtherExpense
}

// CategoryLabel returns the display name of id, falling back to the expense catch-all name
// for ids outside the catalogue.
func CategoryLabel(id string) string {
	if c, ok := categoryByID[id]; ok {
		return c.Name
	}

	return categoryByID[CategoryOtherExpense].Name
}
