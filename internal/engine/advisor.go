package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/focusday/focusday/internal/ai"
	"github.com/focusday/focusday/internal/types"
)

// advisorSystem is the fixed system instruction for the advisory call.
const advisorSystem = `You are a planning assistant for a user with ADHD. You build daily task plans that balance cognitive load, project variety, and deadlines. Alternate lighter and heavier tasks so the user is never faced with two demanding tasks in a row, keep the plan inside the user's stated limits, and prefer scheduling demanding work inside the user's peak productivity window when one is given.

Respond with ONLY a raw JSON object in exactly this shape, with no markdown fences and no commentary:
{
  "tasks": [
    {
      "taskId": "<id of a task from the AVAILABLE TASKS list>",
      "order": 1,
      "recommendedStartTime": "HH:MM or null",
      "recommendedEndTime": "HH:MM or null",
      "aiAdvice": "one short, concrete tip for this task"
    }
  ],
  "reasoning": "2-3 sentences explaining the plan"
}`

// Advisor sends planning contexts to the generative service and parses
// its structured reply into a candidate plan. The candidate is untrusted
// until the validator accepts it.
type Advisor struct {
	gen ai.TextGenerator
}

// NewAdvisor creates an advisor backed by the given text generator
func NewAdvisor(gen ai.TextGenerator) *Advisor {
	return &Advisor{gen: gen}
}

// Advise makes exactly one generation call for the context and parses
// the reply. Error classification:
//   - transport status 429 or >= 500 wraps ErrAdvisorUnavailable (the
//     fallback trigger)
//   - any other transport failure, and any reply that arrived but did
//     not parse as JSON, is an internal error and propagates
func (a *Advisor) Advise(ctx context.Context, pctx *types.PlanningContext) (*types.GeneratedPlan, error) {
	prompt := buildAdvisorPrompt(pctx)

	raw, err := a.gen.Generate(ctx, advisorSystem, prompt)
	if err != nil {
		var reqErr *ai.RequestError
		if errors.As(err, &reqErr) && (reqErr.StatusCode == 429 || reqErr.StatusCode >= 500) {
			return nil, fmt.Errorf("advisory call failed with status %d: %w", reqErr.StatusCode, ErrAdvisorUnavailable)
		}
		return nil, fmt.Errorf("advisory call failed: %w", err)
	}

	result := ai.Parse[types.GeneratedPlan](raw, "daily plan response")
	if !result.Success {
		return nil, fmt.Errorf("failed to parse advisor response: %s (response: %s)",
			result.Error, ai.Truncate(raw, 200))
	}

	plan := result.Data
	return &plan, nil
}

// buildAdvisorPrompt renders the planning context as a structured
// natural-language prompt: user limits, peak hours, goals, the ranked
// project list with deadlines, the full available-task list in human
// units, and the recent-outcomes history.
func buildAdvisorPrompt(pctx *types.PlanningContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan the day %s for this user.\n\n", pctx.TargetDate.Format("2006-01-02"))

	b.WriteString("USER LIMITS:\n")
	fmt.Fprintf(&b, "- At most %d tasks for the day\n", pctx.DailyTaskLimit)
	fmt.Fprintf(&b, "- Prefer tasks from at most %d project(s)\n", pctx.PreferredProjectsPerDay)
	if pctx.PeakStart != nil && pctx.PeakEnd != nil {
		fmt.Fprintf(&b, "- Peak productivity window: %s to %s\n", *pctx.PeakStart, *pctx.PeakEnd)
	} else {
		b.WriteString("- No peak productivity window recorded\n")
	}

	if len(pctx.Goals) > 0 {
		b.WriteString("\nSHORT-TERM GOALS:\n")
		for _, goal := range pctx.Goals {
			fmt.Fprintf(&b, "- %s\n", goal)
		}
	}

	b.WriteString("\nPROJECTS (ranked by urgency):\n")
	for i, p := range rankedProjects(pctx) {
		fmt.Fprintf(&b, "%d. %s [%s priority", i+1, p.Name, strings.ToLower(string(p.Priority)))
		if p.Category != "" {
			fmt.Fprintf(&b, ", %s", p.Category)
		}
		b.WriteString("]")
		if p.HardDeadline != nil {
			fmt.Fprintf(&b, " hard deadline %s", p.HardDeadline.Format("2006-01-02"))
		}
		if p.SoftDeadline != nil {
			fmt.Fprintf(&b, " soft deadline %s", p.SoftDeadline.Format("2006-01-02"))
		}
		fmt.Fprintf(&b, " (id: %s)\n", p.ID)
	}

	b.WriteString("\nAVAILABLE TASKS:\n")
	for _, t := range pctx.AvailableTasks {
		fmt.Fprintf(&b, "- id: %s | %s | project: %s | priority %d/5 | %s | %s energy",
			t.ID, t.Title, t.ProjectID, t.Priority, t.Complexity.Human(), t.EnergyType.Human())
		if len(t.Tags) > 0 {
			fmt.Fprintf(&b, " | tags: %s", strings.Join(t.Tags, ", "))
		}
		b.WriteString("\n")
	}

	if len(pctx.RecentOutcomes) > 0 {
		b.WriteString("\nRECENT DAYS (planned vs completed):\n")
		for _, o := range pctx.RecentOutcomes {
			fmt.Fprintf(&b, "- %s: planned %d, completed %d\n",
				o.Date.Format("2006-01-02"), o.Planned, o.Completed)
		}
	}

	return b.String()
}

// rankedProjects applies the same urgency ranking the heuristic planner
// uses, so the prompt presents projects in a meaningful order.
func rankedProjects(pctx *types.PlanningContext) []types.ProjectSummary {
	ranked := make([]types.ProjectSummary, len(pctx.Projects))
	copy(ranked, pctx.Projects)
	sortProjectsByUrgency(ranked)
	return ranked
}
