package entity

import "time"

// WorkflowOutcome summarizes how one of the two workflows ended.
type WorkflowOutcome struct {
	Ran         bool   `json:"ran"`
	EventCount  int    `json:"event_count"`
	Degraded    bool   `json:"degraded"`
	FailureNote string `json:"failure_note,omitempty"`
}

// RunReport is the exportable record of a single invocation: what was
// computed, what the model said, and what was emitted. It exists for the
// optional CSV/JSON/PDF export and the console summary; telemetry delivery
// does not depend on it.
type RunReport struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	AccountID   string    `json:"account_id"`
	Region      string    `json:"region"`

	Window     *ReportingWindow       `json:"window,omitempty"`
	Costs      *CostSummary           `json:"costs,omitempty"`
	Analysis   *CostAnalysisResult    `json:"analysis,omitempty"`
	Savings    *RecommendationSummary `json:"savings,omitempty"`
	ActionPlan *ActionPlanResult      `json:"action_plan,omitempty"`

	CostWorkflow           WorkflowOutcome `json:"cost_workflow"`
	RecommendationWorkflow WorkflowOutcome `json:"recommendation_workflow"`

	Events []EventRecord `json:"events"`
}
