package advisor

// SpendingAnalysisResult is the typed output of the spending analysis
// agent.
type SpendingAnalysisResult struct {
	Insights      []string `json:"insights"`
	TopCategories []string `json:"top_categories"`
	Assessment    string   `json:"assessment"`
}

// DefaultSpendingAnalysis is the documented empty value substituted when
// the agent call fails. Lists stay non-nil so downstream code never
// branches on absence.
func DefaultSpendingAnalysis() SpendingAnalysisResult {
	return SpendingAnalysisResult{Insights: []string{}, TopCategories: []string{}}
}

// GoalOptimizationResult is the typed output of the goal optimization
// agent.
type GoalOptimizationResult struct {
	Recommendations []string `json:"recommendations"`
	PriorityGoal    string   `json:"priority_goal"`
}

func DefaultGoalOptimization() GoalOptimizationResult {
	return GoalOptimizationResult{Recommendations: []string{}}
}

// BudgetAllocation is one category share in a suggested budget.
type BudgetAllocation struct {
	Category string  `json:"category"`
	Percent  float64 `json:"percent"`
}

// BudgetPlanResult is the typed output of the budget planner agent.
type BudgetPlanResult struct {
	Allocations []BudgetAllocation `json:"allocations"`
	Advice      []string           `json:"advice"`
}

func DefaultBudgetPlan() BudgetPlanResult {
	return BudgetPlanResult{Allocations: []BudgetAllocation{}, Advice: []string{}}
}

// AgentResult is the per-agent output slot. Exactly one pointer field is
// set, matching Agent; failed calls carry that agent's documented default,
// never a nil slot.
type AgentResult struct {
	Agent    Agent                   `json:"agent"`
	Spending *SpendingAnalysisResult `json:"spending_analysis,omitempty"`
	Goals    *GoalOptimizationResult `json:"goal_optimization,omitempty"`
	Budget   *BudgetPlanResult       `json:"budget_plan,omitempty"`
}

// defaultResult returns the documented empty value for one optional agent.
func defaultResult(agent Agent) AgentResult {
	r := AgentResult{Agent: agent}
	switch agent {
	case AgentSpendingAnalysis:
		v := DefaultSpendingAnalysis()
		r.Spending = &v
	case AgentGoalOptimization:
		v := DefaultGoalOptimization()
		r.Goals = &v
	case AgentBudgetPlanner:
		v := DefaultBudgetPlan()
		r.Budget = &v
	}
	return r
}
