package suggestion

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pantrywatch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipes_TruncatesToThree(t *testing.T) {
	text := `[`
	for i := 0; i < 5; i++ {
		if i > 0 {
			text += ","
		}
		text += fmt.Sprintf(`{"title":"Recipe %d","description":"d","steps":["s"],"ingredients_used":["milk"]}`, i)
	}
	text += `]`

	recipes, err := parseRecipes(text)
	require.NoError(t, err)
	assert.Len(t, recipes, 3)
	assert.Equal(t, "Recipe 0", recipes[0].Title)
}

func TestParseRecipes_CoercesMissingFields(t *testing.T) {
	recipes, err := parseRecipes(`[{"steps":"not an array"}]`)
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	assert.Equal(t, "Untitled Recipe", recipes[0].Title)
	assert.Equal(t, "A tasty way to use up your ingredients.", recipes[0].Description)
	assert.Empty(t, recipes[0].Steps)
	assert.Empty(t, recipes[0].IngredientsUsed)
}

func TestParseRecipes_StringifiesElements(t *testing.T) {
	recipes, err := parseRecipes(`[{"title":"T","steps":[1,true,"chop"]}]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "true", "chop"}, recipes[0].Steps)
}

func TestParseRecipes_StripsCodeFences(t *testing.T) {
	text := "```json\n[{\"title\":\"Fenced\"}]\n```"
	recipes, err := parseRecipes(text)
	require.NoError(t, err)
	assert.Equal(t, "Fenced", recipes[0].Title)
}

func TestParseRecipes_AcceptsRecipesWrapper(t *testing.T) {
	recipes, err := parseRecipes(`{"recipes":[{"title":"Wrapped"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", recipes[0].Title)
}

func TestParseRecipes_MalformedOutput(t *testing.T) {
	_, err := parseRecipes("here are some ideas: omelette, smoothie")
	assert.ErrorIs(t, err, domain.ErrProviderMalformedOutput)
}

func TestParseRecipes_EmptyList(t *testing.T) {
	_, err := parseRecipes(`[]`)
	assert.ErrorIs(t, err, domain.ErrProviderInvalidShape)
}

func TestExtractText_PrefersConvenienceField(t *testing.T) {
	resp := &geminiResponse{Text: "direct"}
	assert.Equal(t, "direct", extractText(resp))
}

func TestGenerateSuggestions_EndToEnd(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"candidates": [{"content": {"parts": [{"text": "[{\"title\":\"Spinach Omelette\",\"description\":\"Quick.\",\"steps\":[\"beat\",\"fry\"],\"ingredients_used\":[\"eggs\",\"spinach\"]}]"}]}}],
			"usageMetadata": {"promptTokenCount": 42, "candidatesTokenCount": 80}
		}`)
	}))
	defer server.Close()

	provider := NewGeminiProvider(ProviderConfig{
		APIKey:    "test-key",
		Model:     "test-model",
		MaxTokens: 512,
		BaseURL:   server.URL,
	})

	result, err := provider.GenerateSuggestions(context.Background(), []string{"eggs", "milk", "spinach"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Spinach Omelette", result.Recipes[0].Title)
	assert.Equal(t, 42, result.PromptTokens)
	assert.Equal(t, 80, result.OutputTokens)
	assert.Contains(t, result.Prompt, "eggs, milk, spinach")
}

func TestGenerateSuggestions_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates": [], "error": null}`)
	}))
	defer server.Close()

	provider := NewGeminiProvider(ProviderConfig{Model: "m", BaseURL: server.URL})

	_, err := provider.GenerateSuggestions(context.Background(), []string{"milk"})
	assert.ErrorIs(t, err, domain.ErrProviderEmptyResponse)
}
