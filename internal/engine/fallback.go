package engine

import (
	"fmt"
	"sort"

	"github.com/focusday/focusday/internal/types"
)

// planAnchorMinutes is the fixed start of the heuristic schedule, 09:00.
const planAnchorMinutes = 9 * 60

// complexityMinutes maps a task's complexity bucket to its time box.
var complexityMinutes = map[types.Complexity]int{
	types.ComplexityVerySmall: 15,
	types.ComplexitySmall:     30,
	types.ComplexityMedium:    60,
	types.ComplexityLarge:     90,
	types.ComplexityVeryLarge: 120,
}

// anchorRank orders complexities for tie-breaking within equal task
// priority. MEDIUM wins so the day opens on a workable anchor task
// rather than an extreme of either kind.
var anchorRank = map[types.Complexity]int{
	types.ComplexityMedium:    1,
	types.ComplexitySmall:     2,
	types.ComplexityLarge:     3,
	types.ComplexityVerySmall: 4,
	types.ComplexityVeryLarge: 5,
}

// energyAdvice is the canned guidance attached per energy type.
var energyAdvice = map[types.EnergyType]string{
	types.EnergyCreative:      "Creative task: start while your focus is fresh, before opening email or chat.",
	types.EnergyRoutine:       "Routine task: put on a timer or music and let momentum carry you through it.",
	types.EnergyCommunication: "Communication task: batch it with other calls and messages so it does not fragment your day.",
	types.EnergyPhysical:      "Physical task: treat it as an active break between stretches of desk work.",
}

const defaultAdvice = "Take a short breather before starting this task."

// PlanFallback produces a daily plan without the advisory service. It is
// pure and deterministic: same context in, same plan out, and it never
// fails. An empty task pool yields an empty plan with explanatory
// reasoning.
func PlanFallback(pctx *types.PlanningContext) *types.GeneratedPlan {
	if len(pctx.AvailableTasks) == 0 {
		return &types.GeneratedPlan{
			Tasks:     []types.PlanItem{},
			Reasoning: "No open tasks were available to plan. Add tasks to an active project to get a daily plan.",
		}
	}

	selected := selectProjects(pctx)
	tasks := selectTasks(pctx, selected)
	ordered := alternate(tasks)

	items := make([]types.PlanItem, 0, len(ordered))
	clock := planAnchorMinutes
	for i, task := range ordered {
		duration := complexityMinutes[task.Complexity]
		start := formatMinutes(clock)
		end := formatMinutes(clock + duration)
		advice := adviceFor(task.EnergyType)
		items = append(items, types.PlanItem{
			TaskID:               task.ID,
			Order:                i + 1,
			RecommendedStartTime: &start,
			RecommendedEndTime:   &end,
			AIAdvice:             &advice,
		})
		clock += duration
	}

	projectCount := countProjects(ordered)
	return &types.GeneratedPlan{
		Tasks: items,
		Reasoning: fmt.Sprintf(
			"Planned %d task(s) across %d project(s) using the built-in scheduler. "+
				"Tasks alternate between lighter and heavier work so that no two demanding "+
				"tasks and no two trivial tasks run back to back.",
			len(items), projectCount),
	}
}

// selectProjects ranks the context's projects and returns the ids of the
// top preferredProjectsPerDay. Ranking: an earlier hard deadline first
// and any hard deadline ahead of none; then HIGH > MEDIUM > LOW
// priority; then soft deadline the same way; remaining ties keep the
// provider's original order.
func selectProjects(pctx *types.PlanningContext) map[string]bool {
	ranked := make([]types.ProjectSummary, len(pctx.Projects))
	copy(ranked, pctx.Projects)
	sortProjectsByUrgency(ranked)

	limit := pctx.PreferredProjectsPerDay
	if limit > len(ranked) {
		limit = len(ranked)
	}

	selected := make(map[string]bool, limit)
	for _, p := range ranked[:limit] {
		selected[p.ID] = true
	}
	return selected
}

// sortProjectsByUrgency stable-sorts projects in place: earlier hard
// deadlines first and any hard deadline ahead of none, then HIGH >
// MEDIUM > LOW priority, then soft deadlines the same way. Full ties
// keep their original order.
func sortProjectsByUrgency(projects []types.ProjectSummary) {
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := &projects[i], &projects[j]

		if (a.HardDeadline == nil) != (b.HardDeadline == nil) {
			return a.HardDeadline != nil
		}
		if a.HardDeadline != nil && !a.HardDeadline.Equal(*b.HardDeadline) {
			return a.HardDeadline.Before(*b.HardDeadline)
		}

		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}

		if (a.SoftDeadline == nil) != (b.SoftDeadline == nil) {
			return a.SoftDeadline != nil
		}
		if a.SoftDeadline != nil && !a.SoftDeadline.Equal(*b.SoftDeadline) {
			return a.SoftDeadline.Before(*b.SoftDeadline)
		}

		return false
	})
}

// selectTasks pools the available tasks of the selected projects, ranks
// them by priority descending with the complexity anchor rank as the
// tie-break, and keeps the top dailyTaskLimit.
func selectTasks(pctx *types.PlanningContext, selected map[string]bool) []types.CandidateTask {
	var pool []types.CandidateTask
	for _, t := range pctx.AvailableTasks {
		if selected[t.ProjectID] {
			pool = append(pool, t)
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Priority != pool[j].Priority {
			return pool[i].Priority > pool[j].Priority
		}
		return complexityAnchorRank(pool[i].Complexity) < complexityAnchorRank(pool[j].Complexity)
	})

	if len(pool) > pctx.DailyTaskLimit {
		pool = pool[:pctx.DailyTaskLimit]
	}
	return pool
}

func complexityAnchorRank(c types.Complexity) int {
	if rank, ok := anchorRank[c]; ok {
		return rank
	}
	// Unknown complexities sort last
	return len(anchorRank) + 1
}

// alternate arranges the selected tasks so demanding and trivial tasks
// never run back to back. Tasks are partitioned into easy, medium, and
// complex buckets (each keeping selection rank order). The sequence is
// seeded from the medium bucket, and after a medium or complex task the
// next comes from easy first, while after an easy task the next comes
// from complex first. This sustains engagement without cognitive
// overload: there is always a lighter task after a heavy one and a
// meatier task after a trivial one.
func alternate(tasks []types.CandidateTask) []types.CandidateTask {
	var easy, medium, heavy []types.CandidateTask
	for _, t := range tasks {
		switch t.Complexity {
		case types.ComplexityVerySmall, types.ComplexitySmall:
			easy = append(easy, t)
		case types.ComplexityMedium:
			medium = append(medium, t)
		default:
			heavy = append(heavy, t)
		}
	}

	pop := func(bucket *[]types.CandidateTask) (types.CandidateTask, bool) {
		if len(*bucket) == 0 {
			return types.CandidateTask{}, false
		}
		t := (*bucket)[0]
		*bucket = (*bucket)[1:]
		return t, true
	}

	popFirst := func(buckets ...*[]types.CandidateTask) (types.CandidateTask, bool) {
		for _, b := range buckets {
			if t, ok := pop(b); ok {
				return t, true
			}
		}
		return types.CandidateTask{}, false
	}

	ordered := make([]types.CandidateTask, 0, len(tasks))

	// Seed with a medium anchor task when one exists
	seed, ok := popFirst(&medium, &easy, &heavy)
	if !ok {
		return ordered
	}
	ordered = append(ordered, seed)

	for {
		last := ordered[len(ordered)-1]
		var next types.CandidateTask
		var found bool
		if isEasy(last.Complexity) {
			next, found = popFirst(&heavy, &medium, &easy)
		} else {
			next, found = popFirst(&easy, &medium, &heavy)
		}
		if !found {
			return ordered
		}
		ordered = append(ordered, next)
	}
}

func isEasy(c types.Complexity) bool {
	return c == types.ComplexityVerySmall || c == types.ComplexitySmall
}

func adviceFor(e types.EnergyType) string {
	if advice, ok := energyAdvice[e]; ok {
		return advice
	}
	return defaultAdvice
}

func countProjects(tasks []types.CandidateTask) int {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		seen[t.ProjectID] = true
	}
	return len(seen)
}

// formatMinutes renders minutes since midnight as zero-padded "HH:MM".
// Cumulative durations past 23:59 are not clamped or wrapped here; the
// validator nulls any time that overflows the 24-hour clock.
func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
