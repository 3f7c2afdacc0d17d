package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/repository"
	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
	"github.com/sirupsen/logrus"
)

const (
	anthropicVersion = "bedrock-2023-05-31"
	maxTokens        = 4096
)

// ReasoningRepositoryImpl implements ReasoningRepository on top of Amazon
// Bedrock using the Anthropic messages body format.
type ReasoningRepositoryImpl struct {
	factory *clientFactory
	region  string
	modelID string
	logger  *logrus.Logger
}

// NewReasoningRepository creates a new ReasoningRepository implementation.
func NewReasoningRepository(region, modelID string, logger *logrus.Logger) repository.ReasoningRepository {
	return &ReasoningRepositoryImpl{
		factory: newClientFactory(),
		region:  region,
		modelID: modelID,
		logger:  logger,
	}
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Infer makes a single synchronous model invocation and returns the raw
// text of the first content block. All failures map to *types.ProviderError
// so callers downgrade instead of aborting.
func (r *ReasoningRepositoryImpl) Infer(ctx context.Context, prompt string) (string, error) {
	cfg, err := r.factory.configFor(ctx, r.region)
	if err != nil {
		return "", &types.ProviderError{Err: err}
	}
	client := bedrockruntime.NewFromConfig(cfg)

	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Messages: []anthropicMessage{
			{
				Role:    "user",
				Content: []anthropicContent{{Type: "text", Text: prompt}},
			},
		},
	})
	if err != nil {
		return "", &types.ProviderError{Err: err}
	}

	r.logger.WithField("model", r.modelID).Debug("invoking reasoning model")
	output, err := client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(r.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", &types.ProviderError{Err: err}
	}

	var envelope struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(output.Body, &envelope); err != nil {
		return "", &types.ProviderError{Err: fmt.Errorf("malformed model envelope: %w", err)}
	}
	if len(envelope.Content) == 0 {
		return "", &types.ProviderError{Err: fmt.Errorf("model returned no content blocks")}
	}

	return envelope.Content[0].Text, nil
}
