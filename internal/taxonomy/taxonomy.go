// Package taxonomy maps free-form provider category strings onto the
// canonical category set used by the rest of the system.
package taxonomy

import (
	"strings"

	"github.com/dlazarev/finadvisor/internal/domain"
)

// mapping pairs a lowercase provider substring with its canonical category.
// Order matters: the first matching substring wins, so more specific terms
// sit above generic ones.
type mapping struct {
	substr   string
	category domain.Category
}

var providerMappings = []mapping{
	{"mortgage", domain.CategoryHousing},
	{"rent", domain.CategoryHousing},
	{"home", domain.CategoryHousing},
	{"housing", domain.CategoryHousing},

	{"groceries", domain.CategoryFood},
	{"grocery", domain.CategoryFood},
	{"supermarket", domain.CategoryFood},
	{"restaurant", domain.CategoryFood},
	{"dining", domain.CategoryFood},
	{"takeaway", domain.CategoryFood},
	{"coffee", domain.CategoryFood},
	{"food", domain.CategoryFood},

	{"fuel", domain.CategoryTransport},
	{"gas station", domain.CategoryTransport},
	{"petrol", domain.CategoryTransport},
	{"parking", domain.CategoryTransport},
	{"taxi", domain.CategoryTransport},
	{"rideshare", domain.CategoryTransport},
	{"public transit", domain.CategoryTransport},
	{"transport", domain.CategoryTransport},
	{"auto", domain.CategoryTransport},
	{"car", domain.CategoryTransport},

	{"electric", domain.CategoryUtilities},
	{"water", domain.CategoryUtilities},
	{"internet", domain.CategoryUtilities},
	{"phone", domain.CategoryUtilities},
	{"utilit", domain.CategoryUtilities},

	{"pharmacy", domain.CategoryHealthcare},
	{"doctor", domain.CategoryHealthcare},
	{"dental", domain.CategoryHealthcare},
	{"medical", domain.CategoryHealthcare},
	{"health", domain.CategoryHealthcare},

	{"cinema", domain.CategoryEntertainment},
	{"movie", domain.CategoryEntertainment},
	{"gaming", domain.CategoryEntertainment},
	{"concert", domain.CategoryEntertainment},
	{"entertain", domain.CategoryEntertainment},

	{"streaming", domain.CategorySubscriptions},
	{"subscription", domain.CategorySubscriptions},
	{"membership", domain.CategorySubscriptions},

	{"clothing", domain.CategoryShopping},
	{"apparel", domain.CategoryShopping},
	{"electronics", domain.CategoryShopping},
	{"online marketplace", domain.CategoryShopping},
	{"shopping", domain.CategoryShopping},
	{"retail", domain.CategoryShopping},

	{"tuition", domain.CategoryEducation},
	{"course", domain.CategoryEducation},
	{"books", domain.CategoryEducation},
	{"education", domain.CategoryEducation},

	{"flight", domain.CategoryTravel},
	{"airline", domain.CategoryTravel},
	{"hotel", domain.CategoryTravel},
	{"travel", domain.CategoryTravel},
	{"vacation", domain.CategoryTravel},

	{"transfer to savings", domain.CategorySavings},
	{"savings", domain.CategorySavings},
	{"investment", domain.CategorySavings},
	{"brokerage", domain.CategorySavings},

	{"salary", domain.CategoryIncome},
	{"payroll", domain.CategoryIncome},
	{"paycheck", domain.CategoryIncome},
	{"dividend", domain.CategoryIncome},
	{"interest earned", domain.CategoryIncome},
	{"income", domain.CategoryIncome},
}

// Normalize maps a raw provider category string to a canonical category.
// Matching is case-insensitive substring; anything unmatched maps to
// CategoryOther. Total: never fails, no side effects.
func Normalize(raw string) domain.Category {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle == "" {
		return domain.CategoryOther
	}
	for _, m := range providerMappings {
		if strings.Contains(needle, m.substr) {
			return m.category
		}
	}
	return domain.CategoryOther
}
