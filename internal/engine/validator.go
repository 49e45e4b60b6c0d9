package engine

import (
	"fmt"
	"strings"

	"github.com/focusday/focusday/internal/types"
)

// ValidatePlan enforces the plan invariants on a candidate plan from
// either source, repairing what it can and rejecting what it cannot.
//
// Rejections (ErrInvalidPlan): no tasks, empty reasoning, or any task id
// not present in the context. One hallucinated id rejects the whole
// plan, not just the item: a plan that references work the user does not
// have is untrustworthy end to end.
//
// Repairs: order values are rewritten to the 1-based array position when
// missing, non-positive, or inconsistent with it; start and end times
// that are not 24-hour "HH:MM" are nulled rather than rejected; and the
// item list is truncated to the daily task limit when longer.
//
// The input is not mutated; a repaired copy is returned.
func ValidatePlan(raw *types.GeneratedPlan, pctx *types.PlanningContext) (*types.GeneratedPlan, error) {
	if raw == nil || len(raw.Tasks) == 0 {
		return nil, fmt.Errorf("plan has no tasks: %w", ErrInvalidPlan)
	}
	if strings.TrimSpace(raw.Reasoning) == "" {
		return nil, fmt.Errorf("plan has no reasoning: %w", ErrInvalidPlan)
	}
	for _, item := range raw.Tasks {
		if !pctx.HasTask(item.TaskID) {
			return nil, fmt.Errorf("plan references unknown task %q: %w", item.TaskID, ErrInvalidPlan)
		}
	}

	items := make([]types.PlanItem, len(raw.Tasks))
	copy(items, raw.Tasks)
	if len(items) > pctx.DailyTaskLimit {
		items = items[:pctx.DailyTaskLimit]
	}

	for i := range items {
		if items[i].Order != i+1 {
			items[i].Order = i + 1
		}
		items[i].RecommendedStartTime = normalizeClockTime(items[i].RecommendedStartTime)
		items[i].RecommendedEndTime = normalizeClockTime(items[i].RecommendedEndTime)
	}

	validated := &types.GeneratedPlan{
		Tasks:     items,
		Reasoning: raw.Reasoning,
	}

	// Post-condition: anything that slips through the checks above is a
	// validator bug, not a caller error
	if err := validated.Verify(pctx); err != nil {
		return nil, fmt.Errorf("validated plan still violates invariants (%v): %w", err, ErrInvalidPlan)
	}
	return validated, nil
}

// normalizeClockTime nulls values that are not zero-padded 24-hour
// "HH:MM". Schedule times are advisory, so a malformed one degrades to
// "no suggestion" instead of sinking the plan.
func normalizeClockTime(s *string) *string {
	if s == nil || !types.IsClockTime(*s) {
		return nil
	}
	return s
}
