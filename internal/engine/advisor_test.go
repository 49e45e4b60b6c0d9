package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusday/focusday/internal/ai"
	"github.com/focusday/focusday/internal/types"
)

// fakeGenerator returns a canned reply or error and records the call.
type fakeGenerator struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastPrompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

const goodReply = `{
  "tasks": [
    {"taskId": "t1", "order": 1, "recommendedStartTime": "09:00", "recommendedEndTime": "10:00", "aiAdvice": "start here while fresh"},
    {"taskId": "t2", "order": 2, "recommendedStartTime": null, "recommendedEndTime": null, "aiAdvice": "quick win"}
  ],
  "reasoning": "Lead with the anchor task, then a light one."
}`

func TestAdviseParsesReply(t *testing.T) {
	gen := &fakeGenerator{reply: goodReply}
	advisor := NewAdvisor(gen)

	plan, err := advisor.Advise(context.Background(), validatorContext())
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 2)
	assert.Equal(t, "t1", plan.Tasks[0].TaskID)
	assert.Equal(t, 1, plan.Tasks[0].Order)
	require.NotNil(t, plan.Tasks[0].RecommendedStartTime)
	assert.Equal(t, "09:00", *plan.Tasks[0].RecommendedStartTime)
	assert.Nil(t, plan.Tasks[1].RecommendedStartTime)
	assert.NotEmpty(t, plan.Reasoning)
	assert.Equal(t, 1, gen.calls)
}

func TestAdviseParsesFencedReply(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n" + goodReply + "\n```"}
	advisor := NewAdvisor(gen)

	plan, err := advisor.Advise(context.Background(), validatorContext())
	require.NoError(t, err)
	assert.Len(t, plan.Tasks, 2)
}

func TestAdviseErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"rate limited", &ai.RequestError{StatusCode: 429, Err: errors.New("rate limit")}, true},
		{"server error", &ai.RequestError{StatusCode: 500, Err: errors.New("internal")}, true},
		{"service unavailable", &ai.RequestError{StatusCode: 503, Err: errors.New("overloaded")}, true},
		{"bad request", &ai.RequestError{StatusCode: 400, Err: errors.New("invalid request")}, false},
		{"unauthorized", &ai.RequestError{StatusCode: 401, Err: errors.New("bad key")}, false},
		{"plain transport error", errors.New("connection refused"), false},
		{"wrapped request error", fmt.Errorf("calling api: %w", &ai.RequestError{StatusCode: 529, Err: errors.New("overloaded")}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advisor := NewAdvisor(&fakeGenerator{err: tt.err})

			plan, err := advisor.Advise(context.Background(), validatorContext())
			assert.Nil(t, plan)
			require.Error(t, err)
			if tt.unavailable {
				assert.ErrorIs(t, err, ErrAdvisorUnavailable)
			} else {
				assert.NotErrorIs(t, err, ErrAdvisorUnavailable)
			}
		})
	}
}

func TestAdviseParseFailureIsInternal(t *testing.T) {
	gen := &fakeGenerator{reply: "I think you should start with the hardest task."}
	advisor := NewAdvisor(gen)

	plan, err := advisor.Advise(context.Background(), validatorContext())
	assert.Nil(t, plan)
	require.Error(t, err)
	// A reply that arrived but did not parse must not trigger fallback
	assert.NotErrorIs(t, err, ErrAdvisorUnavailable)
	assert.Contains(t, err.Error(), "parse")
}

func TestBuildAdvisorPrompt(t *testing.T) {
	projects := []types.ProjectSummary{
		{ID: "p-low", Name: "Backlog", Priority: types.ProjectPriorityLow},
		{ID: "p-urgent", Name: "Launch", Priority: types.ProjectPriorityMedium, HardDeadline: datePtr(2026, 9, 1)},
	}
	tasks := []types.CandidateTask{
		mkTask("t1", "p-urgent", 5, types.ComplexityMedium, types.EnergyCreative),
		mkTask("t2", "p-low", 2, types.ComplexitySmall, types.EnergyRoutine),
	}
	pctx := mkContext(4, 2, projects, tasks)
	pctx.PeakStart = strPtr("09:00")
	pctx.PeakEnd = strPtr("12:00")
	pctx.Goals = []string{"ship the draft"}
	pctx.RecentOutcomes = []types.DayOutcome{
		{Date: mustDate("2026-08-25"), Planned: 4, Completed: 2},
	}

	prompt := buildAdvisorPrompt(pctx)

	assert.Contains(t, prompt, "At most 4 tasks")
	assert.Contains(t, prompt, "at most 2 project(s)")
	assert.Contains(t, prompt, "09:00 to 12:00")
	assert.Contains(t, prompt, "ship the draft")
	assert.Contains(t, prompt, "hard deadline 2026-09-01")
	assert.Contains(t, prompt, "id: t1")
	assert.Contains(t, prompt, "id: t2")
	assert.Contains(t, prompt, "planned 4, completed 2")

	// The hard-deadline project outranks the dateless one in the prompt
	assert.Less(t, strings.Index(prompt, "Launch"), strings.Index(prompt, "Backlog"))
}
