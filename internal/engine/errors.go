// Package engine implements the daily plan generation engine: context
// building, advisory generation with a deterministic heuristic fallback,
// plan validation, and orchestration.
package engine

import "errors"

// The engine's error taxonomy. Only ErrPreferencesNotFound and
// ErrInvalidPlan (plus plain internal errors) cross the engine boundary;
// ErrAdvisorUnavailable is consumed internally as the sole trigger for
// the heuristic fallback and is never surfaced to the caller.
var (
	// ErrPreferencesNotFound means the user has no provisioned
	// preferences. Accounts are expected to get preferences at creation,
	// so this is fatal rather than something to paper over with defaults.
	ErrPreferencesNotFound = errors.New("planning preferences not found")

	// ErrAdvisorUnavailable means the advisory service answered with a
	// capacity or outage status (HTTP 429 or 5xx). Transport failures of
	// any other kind are deliberately NOT this error: a service that is
	// reachable but misbehaving deserves visibility, not silent masking.
	ErrAdvisorUnavailable = errors.New("advisory service unavailable")

	// ErrInvalidPlan means a candidate plan failed structural validation.
	// On the advisor path this is fatal by design; the heuristic planner
	// never produces one.
	ErrInvalidPlan = errors.New("invalid plan")
)
