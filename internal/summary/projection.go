package summary

import "math"

// returnAssumptions is the single canonical set of growth assumptions used
// anywhere the system projects balances forward. The brackets reflect a
// portfolio that de-risks with age; all call sites (goal optimization
// prompts, retirement projection) read from this table and nowhere else.
var returnAssumptions = []struct {
	maxAge int
	annual float64
}{
	{35, 0.07},
	{50, 0.06},
	{65, 0.05},
	{math.MaxInt32, 0.04},
}

// AnnualReturnAssumption returns the assumed annual growth rate for a user
// of the given age.
func AnnualReturnAssumption(age int) float64 {
	for _, bracket := range returnAssumptions {
		if age <= bracket.maxAge {
			return bracket.annual
		}
	}
	return returnAssumptions[len(returnAssumptions)-1].annual
}

// ProjectRetirement compounds the current balance plus a fixed monthly
// contribution from the user's age to targetAge using the canonical return
// assumptions, re-reading the bracket as the user ages through it.
func ProjectRetirement(balance, monthlyContribution float64, age, targetAge int) float64 {
	if targetAge <= age {
		return balance
	}
	projected := balance
	for year := age; year < targetAge; year++ {
		rate := AnnualReturnAssumption(year)
		projected = projected*(1+rate) + monthlyContribution*12
	}
	return projected
}
