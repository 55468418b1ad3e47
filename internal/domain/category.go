package domain

// Category is a member of the fixed canonical spending taxonomy. Every
// ledger entry carries one of these, never a raw provider string.
type Category string

const (
	CategoryHousing       Category = "housing"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryUtilities     Category = "utilities"
	CategoryHealthcare    Category = "healthcare"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryEducation     Category = "education"
	CategoryTravel        Category = "travel"
	CategorySubscriptions Category = "subscriptions"
	CategorySavings       Category = "savings"
	CategoryIncome        Category = "income"
	CategoryOther         Category = "other"
)

// Categories lists every canonical category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryHousing,
		CategoryFood,
		CategoryTransport,
		CategoryUtilities,
		CategoryHealthcare,
		CategoryEntertainment,
		CategoryShopping,
		CategoryEducation,
		CategoryTravel,
		CategorySubscriptions,
		CategorySavings,
		CategoryIncome,
		CategoryOther,
	}
}

// Valid reports whether c is a member of the canonical taxonomy.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
