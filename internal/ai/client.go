package ai

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
)

// Invoker sends one raw payload to one model and returns the raw response
// body.
type Invoker interface {
	Invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error)
}

// BedrockInvoker calls AWS Bedrock runtime.
type BedrockInvoker struct {
	Client *bedrockruntime.Client
}

// NewBedrockInvoker builds an invoker from the ambient AWS credential chain.
func NewBedrockInvoker(ctx context.Context, region string) (*BedrockInvoker, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &BedrockInvoker{Client: bedrockruntime.NewFromConfig(cfg)}, nil
}

func (b *BedrockInvoker) Invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error) {
	out, err := b.Client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// isAccessDenied reports whether the error means this account cannot use the
// model. Only this class of failure advances the fallback chain.
func isAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "AccessDeniedException" || code == "ResourceNotFoundException"
	}
	return false
}
