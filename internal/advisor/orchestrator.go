package advisor

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/llm"
	"github.com/dlazarev/finadvisor/internal/metrics"
)

// runAgents fans out one provider call per selected optional agent and
// fans their results back in. Every dispatched agent ends up in the
// returned map: a failed or unparseable call contributes that agent's
// documented default instead of aborting its siblings. The merge is keyed
// by agent name, so the result is deterministic whatever the completion
// order; runAgents returns only after every dispatched call has settled.
func (s *Service) runAgents(ctx context.Context, log zerolog.Logger, selected map[Agent]bool, pctx pipelineContext) map[Agent]AgentResult {
	type outcome struct {
		agent  Agent
		result AgentResult
	}

	optional := OptionalAgents()
	dispatched := make([]Agent, 0, len(optional))
	for agent := range selected {
		if optional[agent] {
			dispatched = append(dispatched, agent)
		}
	}

	outcomes := make(chan outcome, len(dispatched))
	var wg sync.WaitGroup
	for _, agent := range dispatched {
		wg.Add(1)
		go func(agent Agent) {
			defer wg.Done()
			outcomes <- outcome{agent: agent, result: s.callAgent(ctx, log, agent, pctx)}
		}(agent)
	}
	wg.Wait()
	close(outcomes)

	results := make(map[Agent]AgentResult, len(dispatched))
	for o := range outcomes {
		results[o.agent] = o.result
	}
	return results
}

// callAgent runs one optional agent end to end: prompt, provider call with
// the per-agent timeout, safe parse into the agent's typed result. Any
// failure returns the agent's default.
func (s *Service) callAgent(ctx context.Context, log zerolog.Logger, agent Agent, pctx pipelineContext) AgentResult {
	var prompt string
	switch agent {
	case AgentSpendingAnalysis:
		prompt = spendingAnalysisPrompt(pctx)
	case AgentGoalOptimization:
		prompt = goalOptimizationPrompt(pctx)
	case AgentBudgetPlanner:
		prompt = budgetPlannerPrompt(pctx)
	default:
		return defaultResult(agent)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	defer cancel()

	metrics.ProviderCalls.WithLabelValues(string(agent)).Inc()
	raw, err := s.gen.Generate(callCtx, prompt)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues(string(agent)).Inc()
		log.Warn().Err(err).Str("agent", string(agent)).Msg("Agent call failed, using default result")
		return defaultResult(agent)
	}

	result := AgentResult{Agent: agent}
	switch agent {
	case AgentSpendingAnalysis:
		v := llm.Parse(log, raw, DefaultSpendingAnalysis())
		result.Spending = &v
	case AgentGoalOptimization:
		v := llm.Parse(log, raw, DefaultGoalOptimization())
		result.Goals = &v
	case AgentBudgetPlanner:
		v := llm.Parse(log, raw, DefaultBudgetPlan())
		result.Budget = &v
	}
	return result
}
