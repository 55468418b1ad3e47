package advisor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/llm"
	"github.com/dlazarev/finadvisor/internal/metrics"
)

// fallbackResponse is returned whenever the synthesis call or its parse
// fails. The wording is user-facing.
func fallbackResponse() domain.AdvisoryResponse {
	return domain.AdvisoryResponse{
		Response: "I wasn't able to generate personalized advice right now. " +
			"Please try again in a moment.",
		Insights:          []string{},
		Suggestions:       []string{},
		FollowUpQuestions: []string{},
	}
}

// synthesize issues the final advisory call, combining the summary, the
// agent results and the chart into one prompt. The result is always a
// fully populated response; the visualization is attached only when the
// dataset is non-empty, and its absence is a normal outcome.
func (s *Service) synthesize(ctx context.Context, log zerolog.Logger, pctx pipelineContext, results map[Agent]AgentResult, dataset domain.ChartDataset, selection ChartSelectionResult) domain.AdvisoryResponse {
	callCtx, cancel := context.WithTimeout(ctx, s.synthesisTimeout)
	defer cancel()

	metrics.ProviderCalls.WithLabelValues(string(AgentResponseSynthesis)).Inc()
	raw, err := s.gen.Generate(callCtx, synthesisPrompt(pctx, results, dataset))

	resp := fallbackResponse()
	if err != nil {
		metrics.ProviderFailures.WithLabelValues(string(AgentResponseSynthesis)).Inc()
		log.Warn().Err(err).Msg("Synthesis call failed, returning fallback response")
	} else {
		resp = llm.Parse(log, raw, resp)
	}

	// Lists stay present even when the model omitted them.
	if resp.Insights == nil {
		resp.Insights = []string{}
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	if resp.FollowUpQuestions == nil {
		resp.FollowUpQuestions = []string{}
	}

	resp.Visualization = toVisualization(dataset, selection)
	return resp
}
