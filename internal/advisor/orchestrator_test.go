package advisor

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func allOptionalSelected() map[Agent]bool {
	selected := OptionalAgents()
	for _, a := range MandatoryAgents() {
		selected[a] = true
	}
	return selected
}

func TestRunAgentsPartialFailure(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			switch {
			case strings.Contains(prompt, "spending analysis agent"):
				return `{"insights": ["a"], "top_categories": ["food"], "assessment": "ok"}`, nil
			case strings.Contains(prompt, "goal optimization agent"):
				return "", errors.New("timeout")
			case strings.Contains(prompt, "budget planning agent"):
				return `{"allocations": [{"category": "housing", "percent": 35}], "advice": ["b"]}`, nil
			default:
				return "", errors.New("unexpected prompt")
			}
		},
	}
	svc := newTestService(gen, nil)

	results := svc.runAgents(context.Background(), zerolog.Nop(), allOptionalSelected(), pipelineContext{})

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	spending := results[AgentSpendingAnalysis]
	if spending.Spending == nil || len(spending.Spending.Insights) != 1 {
		t.Errorf("spending result = %+v, want decoded output", spending.Spending)
	}

	budget := results[AgentBudgetPlanner]
	if budget.Budget == nil || len(budget.Budget.Allocations) != 1 {
		t.Errorf("budget result = %+v, want decoded output", budget.Budget)
	}

	// The failing agent carries its documented default, not an absent slot.
	goals := results[AgentGoalOptimization]
	if goals.Goals == nil {
		t.Fatal("failed agent result slot is nil")
	}
	if len(goals.Goals.Recommendations) != 0 || goals.Goals.PriorityGoal != "" {
		t.Errorf("failed agent result = %+v, want default", goals.Goals)
	}
}

func TestRunAgentsGarbageOutputFallsBack(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "As an AI model I cannot produce JSON today.", nil
		},
	}
	svc := newTestService(gen, nil)

	selected := map[Agent]bool{AgentSpendingAnalysis: true}
	results := svc.runAgents(context.Background(), zerolog.Nop(), selected, pipelineContext{})

	r := results[AgentSpendingAnalysis]
	if r.Spending == nil {
		t.Fatal("result slot nil")
	}
	if len(r.Spending.Insights) != 0 || r.Spending.Assessment != "" {
		t.Errorf("garbage output should yield default, got %+v", r.Spending)
	}
}

func TestRunAgentsOnlyDispatchesOptional(t *testing.T) {
	var calls int32
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			atomic.AddInt32(&calls, 1)
			return `{"insights": ["x"], "top_categories": [], "assessment": "ok"}`, nil
		},
	}
	svc := newTestService(gen, nil)

	results := svc.runAgents(context.Background(), zerolog.Nop(), allOptionalSelected(), pipelineContext{})

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("provider calls = %d, want 3 (optional agents only)", got)
	}
	for _, a := range MandatoryAgents() {
		if _, ok := results[a]; ok {
			t.Errorf("mandatory agent %s must not appear in fan-out results", a)
		}
	}
}

func TestRunAgentsUnselectedAbsent(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"insights": ["x"], "top_categories": [], "assessment": "ok"}`, nil
		},
	}
	svc := newTestService(gen, nil)

	selected := map[Agent]bool{AgentSpendingAnalysis: true}
	results := svc.runAgents(context.Background(), zerolog.Nop(), selected, pipelineContext{})

	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if _, ok := results[AgentGoalOptimization]; ok {
		t.Error("unselected agent present in results")
	}
}

func TestSelectAgentsProviderFailure(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("provider down")
		},
	}
	svc := newTestService(gen, nil)

	selected := svc.selectAgents(context.Background(), zerolog.Nop(), "How can I save more?", OptionalAgents())

	if len(selected) != 5 {
		t.Fatalf("len(selected) = %d, want 5 (default pair + mandatory)", len(selected))
	}
	for _, a := range DefaultAgentPair() {
		if !selected[a] {
			t.Errorf("default agent %s missing", a)
		}
	}
	for _, a := range MandatoryAgents() {
		if !selected[a] {
			t.Errorf("mandatory agent %s missing", a)
		}
	}
}

func TestSelectAgentsFiltersHallucinatedNames(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `["crypto_wizard", "goal_optimization"]`, nil
		},
	}
	svc := newTestService(gen, nil)

	selected := svc.selectAgents(context.Background(), zerolog.Nop(), "q", OptionalAgents())

	if selected[Agent("crypto_wizard")] {
		t.Error("hallucinated agent name leaked through the allow-list")
	}
	if !selected[AgentGoalOptimization] {
		t.Error("valid selected agent missing")
	}
	for _, a := range MandatoryAgents() {
		if !selected[a] {
			t.Errorf("mandatory agent %s missing", a)
		}
	}
}

func TestSelectAgentsAllHallucinatedFallsBack(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `["alpha", "beta"]`, nil
		},
	}
	svc := newTestService(gen, nil)

	selected := svc.selectAgents(context.Background(), zerolog.Nop(), "q", OptionalAgents())

	for _, a := range DefaultAgentPair() {
		if !selected[a] {
			t.Errorf("default agent %s missing after all-hallucinated answer", a)
		}
	}
}
