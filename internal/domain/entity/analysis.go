package entity

// AiAnalysis is the structured narrative the reasoning model produces for
// the cost workflow.
type AiAnalysis struct {
	Summary            string   `json:"summary"`
	RiskAssessment     string   `json:"risk_assessment"`
	RecommendedActions []string `json:"recommended_actions"`
}

// AiActionPlan is the structured narrative the reasoning model produces
// for the recommendation workflow.
type AiActionPlan struct {
	OverallAssessment       string   `json:"overall_assessment"`
	ImmediateActions        []string `json:"immediate_actions"`
	StrategicRecommendation string   `json:"strategic_recommendation"`
}

// CostAnalysisResult tags an AiAnalysis with its provenance. Degraded is
// true when the reasoning call failed or returned unusable content and the
// analysis was replaced by the fixed fallback; Reason records why.
type CostAnalysisResult struct {
	Analysis AiAnalysis `json:"analysis"`
	Degraded bool       `json:"degraded"`
	Reason   string     `json:"reason,omitempty"`
}

// ActionPlanResult tags an AiActionPlan the same way.
type ActionPlanResult struct {
	Plan     AiActionPlan `json:"plan"`
	Degraded bool         `json:"degraded"`
	Reason   string       `json:"reason,omitempty"`
}
