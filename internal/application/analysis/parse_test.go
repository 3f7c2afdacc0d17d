package analysis

import (
	"testing"

	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCostAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "clean object",
			raw:  `{"summary":"s","risk_assessment":"r","recommended_actions":["a","b"]}`,
		},
		{
			name: "object wrapped in prose",
			raw: "Here is the analysis you asked for:\n" +
				`{"summary":"s","risk_assessment":"r","recommended_actions":[]}` +
				"\nLet me know if you need more detail.",
		},
		{
			name:    "missing field",
			raw:     `{"summary":"s","recommended_actions":["a"]}`,
			wantErr: true,
		},
		{
			name:    "wrong type for actions",
			raw:     `{"summary":"s","risk_assessment":"r","recommended_actions":"not a list"}`,
			wantErr: true,
		},
		{
			name:    "no json at all",
			raw:     "I could not produce an analysis.",
			wantErr: true,
		},
		{
			name:    "null field",
			raw:     `{"summary":null,"risk_assessment":"r","recommended_actions":[]}`,
			wantErr: true,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCostAnalysis(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var parseErr *types.ParseError
				assert.ErrorAs(t, err, &parseErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "s", got.Summary)
			assert.Equal(t, "r", got.RiskAssessment)
			assert.NotNil(t, got.RecommendedActions)
		})
	}
}

func TestParseActionPlan(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "clean object",
			raw:  `{"overall_assessment":"o","immediate_actions":["x"],"strategic_recommendation":"s"}`,
		},
		{
			name: "wrapped in markdown fence",
			raw: "```json\n" +
				`{"overall_assessment":"o","immediate_actions":[],"strategic_recommendation":"s"}` +
				"\n```",
		},
		{
			name:    "missing strategic recommendation",
			raw:     `{"overall_assessment":"o","immediate_actions":[]}`,
			wantErr: true,
		},
		{
			name:    "actions not a list",
			raw:     `{"overall_assessment":"o","immediate_actions":{"a":1},"strategic_recommendation":"s"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActionPlan(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var parseErr *types.ParseError
				assert.ErrorAs(t, err, &parseErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "o", got.OverallAssessment)
			assert.Equal(t, "s", got.StrategicRecommendation)
		})
	}
}
