package suggestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pantrywatch/domain"

	"github.com/go-resty/resty/v2"
)

const (
	maxRecipesPerGeneration = 3

	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	placeholderTitle       = "Untitled Recipe"
	placeholderDescription = "A tasty way to use up your ingredients."

	rawTextDiagnosticLimit = 200
)

const instructionTemplate = "You are a professional chef helping people use up food before it expires. " +
	"Given a list of ingredients, suggest up to 3 simple recipes that use as many of them as possible. " +
	"Respond with a valid JSON array of up to 3 recipe objects, each with these fields: " +
	"title (string), description (one sentence string), steps (array of strings), " +
	"ingredients_used (array of strings drawn from the given ingredients). " +
	"Do not include any explanations or text outside of the JSON array."

type (
	ProviderConfig struct {
		APIKey    string
		Model     string
		MaxTokens int
		BaseURL   string // defaults to the Gemini API when empty
	}

	GenerationResult struct {
		Recipes      []domain.RecipeSuggestion
		Prompt       string
		PromptTokens int
		OutputTokens int
		Latency      time.Duration
	}

	// Provider invokes the external text-generation service and validates its
	// output into the fixed recipe schema. It does not touch the cache or
	// the ledger; that is the caller's job.
	Provider interface {
		GenerateSuggestions(ctx context.Context, ingredients []string) (*GenerationResult, error)
	}

	geminiProvider struct {
		config ProviderConfig
		client *resty.Client
	}
)

func NewGeminiProvider(config ProviderConfig) Provider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")

	return &geminiProvider{
		config: config,
		client: client,
	}
}

// geminiResponse is a tolerant decoding of the provider payload. The schema
// is not contractually fixed: some gateways inline a convenience "text"
// field, the native shape nests text parts under candidates.
type geminiResponse struct {
	Text       string `json:"text"`
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *geminiProvider) GenerateSuggestions(ctx context.Context, ingredients []string) (*GenerationResult, error) {
	userPrompt := fmt.Sprintf("Ingredients expiring soon: %s", strings.Join(ingredients, ", "))

	requestBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": instructionTemplate},
			},
		},
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": userPrompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": p.config.MaxTokens,
		},
	}

	start := time.Now()
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(requestBody).
		Post(fmt.Sprintf("/models/%s:generateContent?key=%s", p.config.Model, p.config.APIKey))
	latency := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("failed to send request to provider: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("provider API error: %s - %s", resp.Status(), resp.String())
	}

	var parsed geminiResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse provider response: %w", err)
	}

	text := extractText(&parsed)
	if text == "" {
		status := "unknown"
		detail := "no text blocks in response"
		if parsed.Error != nil {
			status = parsed.Error.Status
			detail = parsed.Error.Message
		}
		return nil, fmt.Errorf("%w: status=%s detail=%s", domain.ErrProviderEmptyResponse, status, detail)
	}

	recipes, err := parseRecipes(text)
	if err != nil {
		return nil, err
	}

	return &GenerationResult{
		Recipes:      recipes,
		Prompt:       userPrompt,
		PromptTokens: parsed.UsageMetadata.PromptTokenCount,
		OutputTokens: parsed.UsageMetadata.CandidatesTokenCount,
		Latency:      latency,
	}, nil
}

// extractText prefers the convenience full-text field, then scans candidate
// content parts in document order for the first non-empty string.
func extractText(resp *geminiResponse) string {
	if strings.TrimSpace(resp.Text) != "" {
		return resp.Text
	}
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

// stripCodeFences removes leading/trailing Markdown fence markers so fenced
// JSON still parses.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// parseRecipes decodes the model output into the strict recipe schema,
// coercing loosely shaped entries and truncating to the per-call maximum.
func parseRecipes(text string) ([]domain.RecipeSuggestion, error) {
	cleaned := stripCodeFences(text)

	var rawList []map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &rawList); err != nil {
		// Accept an object wrapping the array under "recipes".
		var wrapper struct {
			Recipes []map[string]interface{} `json:"recipes"`
		}
		if err := json.Unmarshal([]byte(cleaned), &wrapper); err != nil {
			snippet := cleaned
			if len(snippet) > rawTextDiagnosticLimit {
				snippet = snippet[:rawTextDiagnosticLimit]
			}
			return nil, fmt.Errorf("%w: %s", domain.ErrProviderMalformedOutput, snippet)
		}
		rawList = wrapper.Recipes
	}

	if len(rawList) > maxRecipesPerGeneration {
		rawList = rawList[:maxRecipesPerGeneration]
	}

	recipes := make([]domain.RecipeSuggestion, 0, len(rawList))
	for _, raw := range rawList {
		recipes = append(recipes, coerceRecipe(raw))
	}

	if len(recipes) == 0 {
		return nil, domain.ErrProviderInvalidShape
	}
	return recipes, nil
}

func coerceRecipe(raw map[string]interface{}) domain.RecipeSuggestion {
	recipe := domain.RecipeSuggestion{
		Title:           placeholderTitle,
		Description:     placeholderDescription,
		Steps:           []string{},
		IngredientsUsed: []string{},
	}

	if title, ok := raw["title"].(string); ok && strings.TrimSpace(title) != "" {
		recipe.Title = title
	}
	if description, ok := raw["description"].(string); ok && strings.TrimSpace(description) != "" {
		recipe.Description = description
	}
	recipe.Steps = coerceStringList(raw["steps"])
	recipe.IngredientsUsed = coerceStringList(raw["ingredients_used"])

	return recipe
}

func coerceStringList(value interface{}) []string {
	list, ok := value.([]interface{})
	if !ok {
		return []string{}
	}
	result := make([]string, 0, len(list))
	for _, element := range list {
		result = append(result, fmt.Sprintf("%v", element))
	}
	return result
}
