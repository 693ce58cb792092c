package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.input = params
	return f.out, f.err
}

func textOutput(parts ...string) *bedrockruntime.ConverseOutput {
	blocks := make([]brtypes.ContentBlock, 0, len(parts))
	for _, p := range parts {
		blocks = append(blocks, &brtypes.ContentBlockMemberText{Value: p})
	}
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role:    brtypes.ConversationRoleAssistant,
			Content: blocks,
		}},
		StopReason: brtypes.StopReasonEndTurn,
		Usage: &brtypes.TokenUsage{
			InputTokens:  aws.Int32(120),
			OutputTokens: aws.Int32(40),
			TotalTokens:  aws.Int32(160),
		},
	}
}

func TestBedrockCompleteBuildsConverseInput(t *testing.T) {
	api := &fakeConverse{out: textOutput("Hola, ", "te recomiendo té de tila. ")}
	client := NewBedrockLLMClient(api)

	resp, err := client.Complete(context.Background(), LLMRequest{
		Model:       "anthropic.model",
		System:      []string{"rol", "  "},
		Messages:    []Message{{Role: RoleSystem, Content: "extra"}, {Role: RoleUser, Content: "prompt"}, {Role: RoleAssistant, Content: ""}},
		MaxTokens:   500,
		Temperature: 0.3,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hola, te recomiendo té de tila.", resp.Text)
	assert.Equal(t, string(brtypes.StopReasonEndTurn), resp.StopReason)
	assert.Equal(t, TokenUsage{InputTokens: 120, OutputTokens: 40, TotalTokens: 160}, resp.Usage)

	in := api.input
	require.NotNil(t, in)
	assert.Equal(t, "anthropic.model", aws.ToString(in.ModelId))
	require.Len(t, in.System, 2)
	assert.Equal(t, "extra", in.System[1].(*brtypes.SystemContentBlockMemberText).Value)
	require.Len(t, in.Messages, 1)
	assert.Equal(t, brtypes.ConversationRoleUser, in.Messages[0].Role)
	require.NotNil(t, in.InferenceConfig)
	assert.Equal(t, int32(500), aws.ToInt32(in.InferenceConfig.MaxTokens))
	assert.InDelta(t, 0.3, aws.ToFloat32(in.InferenceConfig.Temperature), 1e-6)
}

func TestBedrockCompleteNegativeTemperatureOmitsInference(t *testing.T) {
	api := &fakeConverse{out: textOutput("ok")}
	_, err := NewBedrockLLMClient(api).Complete(context.Background(), LLMRequest{
		Model:       "m",
		Messages:    []Message{{Role: RoleUser, Content: "hola"}},
		Temperature: -1,
	})
	require.NoError(t, err)
	assert.Nil(t, api.input.InferenceConfig)
}

func TestBedrockCompleteErrors(t *testing.T) {
	user := []Message{{Role: RoleUser, Content: "hola"}}

	tests := []struct {
		name string
		api  *fakeConverse
		req  LLMRequest
	}{
		{"missing model", &fakeConverse{}, LLMRequest{Messages: user}},
		{"unsupported role", &fakeConverse{}, LLMRequest{Model: "m", Messages: []Message{{Role: "tool", Content: "x"}}}},
		{"no messages", &fakeConverse{}, LLMRequest{Model: "m"}},
		{"api failure", &fakeConverse{err: errors.New("throttled")}, LLMRequest{Model: "m", Messages: user}},
		{"blank output", &fakeConverse{out: textOutput("  ")}, LLMRequest{Model: "m", Messages: user}},
		{"nil output", &fakeConverse{}, LLMRequest{Model: "m", Messages: user}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBedrockLLMClient(tt.api).Complete(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestNewBedrockLLMClientPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewBedrockLLMClient(nil) })
}
