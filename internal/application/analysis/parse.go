package analysis

import (
	"encoding/json"
	"strings"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
)

// Models tend to wrap the JSON object in prose; extractJSON slices out the
// first balanced-looking object before decoding.
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", &types.ParseError{Reason: "no JSON object in response"}
	}
	return raw[start : end+1], nil
}

// ParseCostAnalysis strictly decodes a cost-analysis reply. All three
// fields must be present and of the expected type.
func ParseCostAnalysis(raw string) (entity.AiAnalysis, error) {
	doc, err := extractJSON(raw)
	if err != nil {
		return entity.AiAnalysis{}, err
	}

	var probe struct {
		Summary            *string   `json:"summary"`
		RiskAssessment     *string   `json:"risk_assessment"`
		RecommendedActions *[]string `json:"recommended_actions"`
	}
	if err := json.Unmarshal([]byte(doc), &probe); err != nil {
		return entity.AiAnalysis{}, &types.ParseError{Reason: err.Error()}
	}
	if probe.Summary == nil || probe.RiskAssessment == nil || probe.RecommendedActions == nil {
		return entity.AiAnalysis{}, &types.ParseError{Reason: "missing required field in cost analysis"}
	}

	return entity.AiAnalysis{
		Summary:            *probe.Summary,
		RiskAssessment:     *probe.RiskAssessment,
		RecommendedActions: *probe.RecommendedActions,
	}, nil
}

// ParseActionPlan strictly decodes an action-plan reply.
func ParseActionPlan(raw string) (entity.AiActionPlan, error) {
	doc, err := extractJSON(raw)
	if err != nil {
		return entity.AiActionPlan{}, err
	}

	var probe struct {
		OverallAssessment       *string   `json:"overall_assessment"`
		ImmediateActions        *[]string `json:"immediate_actions"`
		StrategicRecommendation *string   `json:"strategic_recommendation"`
	}
	if err := json.Unmarshal([]byte(doc), &probe); err != nil {
		return entity.AiActionPlan{}, &types.ParseError{Reason: err.Error()}
	}
	if probe.OverallAssessment == nil || probe.ImmediateActions == nil || probe.StrategicRecommendation == nil {
		return entity.AiActionPlan{}, &types.ParseError{Reason: "missing required field in action plan"}
	}

	return entity.AiActionPlan{
		OverallAssessment:       *probe.OverallAssessment,
		ImmediateActions:        *probe.ImmediateActions,
		StrategicRecommendation: *probe.StrategicRecommendation,
	}, nil
}
