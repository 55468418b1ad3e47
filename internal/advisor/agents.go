// Package advisor implements the advisory pipeline: agent selection,
// concurrent sub-agent execution, response synthesis and visualization
// building, all on top of the Gemini text-generation provider.
package advisor

// Agent names one specialized text-generation call. The set is a fixed
// enumeration: each agent carries its own prompt builder and parser, and
// the orchestrator dispatches over these constants rather than a dynamic
// registry.
type Agent string

const (
	// Optional agents, chosen per query by the selector.
	AgentSpendingAnalysis Agent = "spending_analysis"
	AgentGoalOptimization Agent = "goal_optimization"
	AgentBudgetPlanner    Agent = "budget_planner"

	// Mandatory agents, required for every query regardless of selection.
	AgentResponseSynthesis Agent = "response_synthesis"
	AgentChartSelection    Agent = "chart_selection"
	AgentChartFormatting   Agent = "chart_formatting"
)

// OptionalAgents returns the candidate set the selector chooses from.
func OptionalAgents() map[Agent]bool {
	return map[Agent]bool{
		AgentSpendingAnalysis: true,
		AgentGoalOptimization: true,
		AgentBudgetPlanner:    true,
	}
}

// MandatoryAgents returns the agents that run for every query.
func MandatoryAgents() []Agent {
	return []Agent{AgentResponseSynthesis, AgentChartSelection, AgentChartFormatting}
}

// DefaultAgentPair is the selector fallback when the provider call fails
// or returns garbage: the two agents that can be grounded in ledger data
// alone.
func DefaultAgentPair() []Agent {
	return []Agent{AgentSpendingAnalysis, AgentBudgetPlanner}
}
