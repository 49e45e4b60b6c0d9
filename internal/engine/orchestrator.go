package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/focusday/focusday/internal/types"
)

// State identifies where a generation request is in its lifecycle.
type State string

const (
	StateBuildingContext State = "BUILDING_CONTEXT"
	StateAdvising        State = "ADVISING"
	StateFallingBack     State = "FALLING_BACK"
	StateValidating      State = "VALIDATING"
	StateDone            State = "DONE"
	StateFailed          State = "FAILED"
)

// PlanSink receives the validated plan; its failure fails the request.
type PlanSink interface {
	SavePlan(ctx context.Context, plan *types.StoredPlan) error
}

// HistorySink receives a best-effort audit record of the generation.
// Errors are logged and swallowed; they must never block delivery.
type HistorySink interface {
	RecordGeneration(ctx context.Context, rec *types.GenerationRecord) error
}

// Result is the outcome of one generation request.
type Result struct {
	Plan    *types.GeneratedPlan
	Stored  *types.StoredPlan
	Context *types.PlanningContext
	Source  types.PlanSource
	State   State
}

// Orchestrator sequences one generation request through
// BUILDING_CONTEXT, ADVISING (falling back to the heuristic planner on
// ErrAdvisorUnavailable only), VALIDATING, and delivery. It is stateless
// and re-entrant: everything lives on the stack of one Generate call.
type Orchestrator struct {
	builder *ContextBuilder
	advisor *Advisor // nil disables the advisory path entirely
	plans   PlanSink
	history HistorySink // optional
	logger  *slog.Logger
}

// NewOrchestrator wires up an orchestrator. advisor may be nil to run
// heuristic-only; history may be nil to skip the audit trail.
func NewOrchestrator(builder *ContextBuilder, advisor *Advisor, plans PlanSink, history HistorySink) *Orchestrator {
	return &Orchestrator{
		builder: builder,
		advisor: advisor,
		plans:   plans,
		history: history,
		logger:  slog.Default().With("component", "plan-orchestrator"),
	}
}

// Generate runs one full generation request for a user and target date.
// Exactly one advisory attempt is made; there is no retry or backoff
// here, and the fallback path does not begin until the advisory attempt
// has definitively failed. Errors other than the fallback trigger
// propagate: a validator rejection of the advisor's output is fatal by
// design rather than another reason to fall back.
func (o *Orchestrator) Generate(ctx context.Context, userID string, targetDate time.Time) (*Result, error) {
	state := StateBuildingContext
	o.logState(userID, state)

	pctx, err := o.builder.Build(ctx, userID, targetDate)
	if err != nil {
		return o.fail(userID, state, err)
	}

	// With nothing to plan, the advisory call is pure spend and the
	// strict validator would reject the empty result. Deliver the
	// heuristic empty plan directly.
	if len(pctx.AvailableTasks) == 0 {
		plan := PlanFallback(pctx)
		return o.deliver(ctx, pctx, plan, types.PlanSourceHeuristic)
	}

	source := types.PlanSourceAdvisor
	var candidate *types.GeneratedPlan

	if o.advisor != nil {
		state = StateAdvising
		o.logState(userID, state)
		candidate, err = o.advisor.Advise(ctx, pctx)
		switch {
		case err == nil:
			// proceed to validation
		case errors.Is(err, ErrAdvisorUnavailable):
			o.logger.Info("advisory service unavailable, falling back to heuristic planner",
				"user", userID, "error", err.Error())
			state = StateFallingBack
			o.logState(userID, state)
			candidate = PlanFallback(pctx)
			source = types.PlanSourceHeuristic
		default:
			return o.fail(userID, state, err)
		}
	} else {
		state = StateFallingBack
		o.logState(userID, state)
		candidate = PlanFallback(pctx)
		source = types.PlanSourceHeuristic
	}

	state = StateValidating
	o.logState(userID, state)
	plan, err := ValidatePlan(candidate, pctx)
	if err != nil {
		return o.fail(userID, state, err)
	}

	return o.deliver(ctx, pctx, plan, source)
}

// deliver persists the plan (required) and records history (best-effort).
func (o *Orchestrator) deliver(ctx context.Context, pctx *types.PlanningContext, plan *types.GeneratedPlan, source types.PlanSource) (*Result, error) {
	stored := &types.StoredPlan{
		ID:          uuid.New().String(),
		UserID:      pctx.UserID,
		Date:        pctx.TargetDate,
		Plan:        *plan,
		Source:      source,
		GeneratedAt: time.Now(),
	}

	if err := o.plans.SavePlan(ctx, stored); err != nil {
		return o.fail(pctx.UserID, StateDone, fmt.Errorf("saving plan: %w", err))
	}

	o.recordHistory(ctx, pctx, plan, source)

	o.logState(pctx.UserID, StateDone)
	o.logger.Info("daily plan generated",
		"user", pctx.UserID,
		"date", pctx.TargetDate.Format("2006-01-02"),
		"source", string(source),
		"tasks", len(plan.Tasks))

	return &Result{
		Plan:    plan,
		Stored:  stored,
		Context: pctx,
		Source:  source,
		State:   StateDone,
	}, nil
}

// recordHistory writes the audit record, swallowing failures.
func (o *Orchestrator) recordHistory(ctx context.Context, pctx *types.PlanningContext, plan *types.GeneratedPlan, source types.PlanSource) {
	if o.history == nil {
		return
	}

	ctxJSON, err := json.Marshal(pctx)
	if err != nil {
		o.logger.Warn("failed to encode planning context for history", "user", pctx.UserID, "error", err.Error())
		return
	}

	rec := &types.GenerationRecord{
		UserID:  pctx.UserID,
		Date:    pctx.TargetDate,
		Source:  source,
		Context: string(ctxJSON),
		Plan:    *plan,
	}
	if err := o.history.RecordGeneration(ctx, rec); err != nil {
		o.logger.Warn("failed to record generation history", "user", pctx.UserID, "error", err.Error())
	}
}

func (o *Orchestrator) fail(userID string, from State, err error) (*Result, error) {
	o.logger.Error("plan generation failed",
		"user", userID, "state", string(from), "error", err.Error())
	return &Result{State: StateFailed}, err
}

func (o *Orchestrator) logState(userID string, s State) {
	o.logger.Debug("state transition", "user", userID, "state", string(s))
}
