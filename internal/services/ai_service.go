package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	apperrors "github.com/dosewise/dosewise/internal/errors"
)

type AIService struct {
	geminiClient *genai.Client
	openaiClient *openai.Client
}

// DoseParseResult is the structured reading of a free-text dose entry like
// "double espresso around 3pm" or "half an adderall".
type DoseParseResult struct {
	Substance   string  `json:"substance"`
	AmountMg    float64 `json:"amount_mg"`
	MinutesAgo  int     `json:"minutes_ago"`
	Confidence  string  `json:"confidence"`
	Explanation string  `json:"explanation"`
}

func NewAIService(geminiAPIKey, openaiAPIKey string) *AIService {
	geminiClient, err := genai.NewClient(context.Background(), option.WithAPIKey(geminiAPIKey))
	if err != nil {
		panic(fmt.Sprintf("Failed to create Gemini client: %v", err))
	}

	openaiClient := openai.NewClient(openaiAPIKey)

	return &AIService{
		geminiClient: geminiClient,
		openaiClient: openaiClient,
	}
}

const doseParsePrompt = `You are a stimulant intake logging assistant. Parse the user's free-text dose entry into structured data.

TASK:
1. Identify the substance: one of "caffeine", "adderall", "dexedrine", "nicotine"
2. Estimate the dose in milligrams using standard references (brewed coffee ~95mg caffeine, espresso shot ~63mg, energy drink ~80-160mg, cigarette ~1mg absorbed nicotine, standard Adderall/Dexedrine tablets 5/10/20/30mg)
3. Estimate how many minutes ago it was taken (0 if not mentioned or "just now")
4. Assess your confidence (low, medium, high)

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a valid JSON object
- Do not include any markdown formatting or explanatory text before or after the JSON
- The JSON must have these exact fields:
  {
    "substance": "caffeine",
    "amount_mg": 126.0,
    "minutes_ago": 15,
    "confidence": "low|medium|high",
    "explanation": "short note on how the estimate was made"
  }

USER ENTRY: %s`

// ParseDoseText turns a free-text dose entry into a structured result.
// useOpenAI selects the fallback provider when Gemini fails or is rate limited.
func (s *AIService) ParseDoseText(ctx context.Context, text string, useOpenAI bool) (*DoseParseResult, error) {
	if useOpenAI {
		return s.parseWithOpenAI(ctx, text)
	}
	return s.parseWithGemini(ctx, text)
}

func (s *AIService) parseWithGemini(ctx context.Context, text string) (*DoseParseResult, error) {
	model := s.geminiClient.GenerativeModel("gemini-1.5-flash")

	prompt := fmt.Sprintf(doseParsePrompt, text)
	geminiResp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "Gemini")
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText, ok := geminiResp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response part type from Gemini")
	}
	return parseDoseJSON(string(responseText))
}

func (s *AIService) parseWithOpenAI(ctx context.Context, text string) (*DoseParseResult, error) {
	resp, err := s.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(doseParsePrompt, text),
				},
			},
		},
	)
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "OpenAI")
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}
	return parseDoseJSON(resp.Choices[0].Message.Content)
}

func parseDoseJSON(response string) (*DoseParseResult, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no valid JSON found in response")
	}

	var result DoseParseResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	result.Substance = strings.ToLower(strings.TrimSpace(result.Substance))
	if result.AmountMg <= 0 {
		return nil, fmt.Errorf("parsed dose amount is not positive")
	}
	if result.MinutesAgo < 0 {
		result.MinutesAgo = 0
	}
	return &result, nil
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
