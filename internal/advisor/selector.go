package advisor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/llm"
	"github.com/dlazarev/finadvisor/internal/metrics"
)

// SelectAgents asks the provider which optional agents are most relevant
// to the query and returns them unioned with the mandatory set. The model
// answer is filtered against candidates, so hallucinated names never leak
// into the pipeline; on any failure the fixed default pair is used.
func (s *Service) selectAgents(ctx context.Context, log zerolog.Logger, query string, candidates map[Agent]bool) map[Agent]bool {
	fallback := []string{}
	for _, a := range DefaultAgentPair() {
		fallback = append(fallback, string(a))
	}

	callCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	defer cancel()

	metrics.ProviderCalls.WithLabelValues("agent_selection").Inc()
	raw, err := s.gen.Generate(callCtx, selectionPrompt(query, candidates))
	var names []string
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("agent_selection").Inc()
		log.Warn().Err(err).Msg("Agent selection call failed, using default pair")
		names = fallback
	} else {
		names = llm.Parse(log, raw, fallback)
	}

	selected := make(map[Agent]bool, len(names)+3)
	for _, name := range names {
		agent := Agent(name)
		if candidates[agent] {
			selected[agent] = true
		}
	}
	if len(selected) == 0 {
		// Model answered with only unknown names; fall back the same way
		// as a failed call.
		for _, a := range DefaultAgentPair() {
			if candidates[a] {
				selected[a] = true
			}
		}
	}

	for _, a := range MandatoryAgents() {
		selected[a] = true
	}
	return selected
}
