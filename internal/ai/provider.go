package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Provider selects the request/response payload shape for a model family.
// Resolved once per candidate model id instead of substring checks at call
// sites.
type Provider int

const (
	ProviderNova Provider = iota
	ProviderAnthropic
)

// providerFor maps a Bedrock model id to its payload shape.
func providerFor(modelID string) (Provider, error) {
	switch {
	case strings.HasPrefix(modelID, "amazon.nova"):
		return ProviderNova, nil
	case strings.HasPrefix(modelID, "anthropic."):
		return ProviderAnthropic, nil
	}
	return 0, fmt.Errorf("unsupported model family %q", modelID)
}

const (
	maxResponseTokens = 1000
	temperature       = 0.1
)

type novaRequest struct {
	Messages        []novaMessage `json:"messages"`
	InferenceConfig novaInference `json:"inferenceConfig"`
}

type novaMessage struct {
	Role    string        `json:"role"`
	Content []novaContent `json:"content"`
}

type novaContent struct {
	Text  string     `json:"text,omitempty"`
	Image *novaImage `json:"image,omitempty"`
}

type novaImage struct {
	Format string          `json:"format"`
	Source novaImageSource `json:"source"`
}

type novaImageSource struct {
	Bytes string `json:"bytes"`
}

type novaInference struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

type novaResponse struct {
	Output struct {
		Message struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// buildTextPayload marshals a text-only prompt in the provider's shape.
func buildTextPayload(p Provider, prompt string) ([]byte, error) {
	switch p {
	case ProviderNova:
		return json.Marshal(novaRequest{
			Messages: []novaMessage{{
				Role:    "user",
				Content: []novaContent{{Text: prompt}},
			}},
			InferenceConfig: novaInference{MaxTokens: maxResponseTokens, Temperature: temperature},
		})
	case ProviderAnthropic:
		return json.Marshal(anthropicRequest{
			AnthropicVersion: "bedrock-2023-05-31",
			MaxTokens:        maxResponseTokens,
			Temperature:      temperature,
			Messages: []anthropicMessage{{
				Role:    "user",
				Content: []anthropicContent{{Type: "text", Text: prompt}},
			}},
		})
	}
	return nil, fmt.Errorf("unknown provider %d", p)
}

// buildVisionPayload marshals a prompt plus an inline base64 image in the
// provider's shape.
func buildVisionPayload(p Provider, prompt, mimeType, imageBase64 string) ([]byte, error) {
	switch p {
	case ProviderNova:
		return json.Marshal(novaRequest{
			Messages: []novaMessage{{
				Role: "user",
				Content: []novaContent{
					{Text: prompt},
					{Image: &novaImage{
						Format: imageFormat(mimeType),
						Source: novaImageSource{Bytes: imageBase64},
					}},
				},
			}},
			InferenceConfig: novaInference{MaxTokens: maxResponseTokens, Temperature: temperature},
		})
	case ProviderAnthropic:
		return json.Marshal(anthropicRequest{
			AnthropicVersion: "bedrock-2023-05-31",
			MaxTokens:        maxResponseTokens,
			Temperature:      temperature,
			Messages: []anthropicMessage{{
				Role: "user",
				Content: []anthropicContent{
					{Type: "text", Text: prompt},
					{Type: "image", Source: &anthropicImageSource{
						Type:      "base64",
						MediaType: mimeType,
						Data:      imageBase64,
					}},
				},
			}},
		})
	}
	return nil, fmt.Errorf("unknown provider %d", p)
}

// responseText pulls the model's text out of the provider-specific envelope.
func responseText(p Provider, body []byte) (string, error) {
	switch p {
	case ProviderNova:
		var resp novaResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("decode model response: %w", err)
		}
		if len(resp.Output.Message.Content) == 0 {
			return "", fmt.Errorf("empty model response")
		}
		return resp.Output.Message.Content[0].Text, nil
	case ProviderAnthropic:
		var resp anthropicResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("decode model response: %w", err)
		}
		for _, block := range resp.Content {
			if block.Type == "text" {
				return block.Text, nil
			}
		}
		return "", fmt.Errorf("empty model response")
	}
	return "", fmt.Errorf("unknown provider %d", p)
}

func imageFormat(mimeType string) string {
	if i := strings.LastIndex(mimeType, "/"); i >= 0 && i+1 < len(mimeType) {
		format := mimeType[i+1:]
		if format == "jpg" {
			return "jpeg"
		}
		return format
	}
	return "png"
}
