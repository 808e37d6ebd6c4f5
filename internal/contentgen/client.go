package contentgen

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"cheapbite/internal/config"
	"cheapbite/internal/models"
	"cheapbite/internal/observability"
)

// Client talks to an OpenAI-compatible completion endpoint and returns typed,
// boundary-validated results. All calls honor ctx cancellation; a caller that
// gives up discards the in-flight result.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg *config.Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		apiCfg.BaseURL = cfg.OpenAIBaseURL
	}
	model := cfg.OpenAIModel
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: model,
	}
}

const (
	recipeSystemPrompt = `You are a frugal home-cooking assistant. Given a list of ingredients,
suggest affordable dishes that use them. Respond with a JSON object:
{"recipes":[{"title","description","ingredients","instructions","servingSize","prepTime","cookTime","estimatedCost","currency","nutrition":{"calories","protein","carbs","fat"}}]}`

	beverageSystemPrompt = `You are a drinks specialist. Suggest one beverage matching the request.
Respond with a JSON object:
{"title","description","ingredients","instructions","glassware","garnish"}`

	grocerySystemPrompt = `You organize grocery lists. Turn the user's free text into categories with
estimated costs. Respond with a JSON object:
{"categories":[{"name","items":[{"name","quantity","cost"}]}],"totalCost","currency"}`

	labelSystemPrompt = `You analyze food product labels for health risks. Rate every ingredient as one of
"Risk-Free", "Low Risk", "Moderate Risk" or "Hazardous" and score the product 0-100.
Respond with a JSON object:
{"productName","overallScore","overallRisk","summary","ingredients":[{"name","risk","comment"}]}`

	identifySystemPrompt = `You identify food from photos. If the photo shows loose ingredients, set
"isMeal" to false, list every ingredient in "items" and generate one recipe using them. If it
shows a single prepared dish, set "isMeal" to true, put only the dish name in "items" and
generate a recipe for that dish. Always include the recipe. Respond with a JSON object:
{"isMeal","items","generatedRecipe":{"title","description","ingredients","instructions","servingSize","prepTime","cookTime","estimatedCost","currency","nutrition":{"calories","protein","carbs","fat"}}}`
)

// complete runs one JSON-mode chat completion and decodes the reply into out.
func (c *Client) complete(ctx context.Context, kind, system, user string, out any) error {
	return c.chat(ctx, kind, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}, out)
}

// completeVision is complete with an image attached to the user turn. The
// image travels inline as a base64 data URI, so no upload step is needed.
func (c *Client) completeVision(ctx context.Context, kind, system, text, imageDataURI string, out any) error {
	return c.chat(ctx, kind, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: text},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
					URL:    imageDataURI,
					Detail: openai.ImageURLDetailAuto,
				}},
			},
		},
	}, out)
}

func (c *Client) chat(ctx context.Context, kind string, messages []openai.ChatCompletionMessage, out any) error {
	start := time.Now()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	observability.ObserveGeneration(kind, start, err)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return models.NewUnavailableError("generation service unavailable", err)
	}
	if len(resp.Choices) == 0 {
		return models.NewUnavailableError("generation service returned no choices", nil)
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return models.NewUnavailableError("generation service returned malformed JSON", err)
	}
	return nil
}

// GenerateRecipes suggests dishes built from the given ingredients.
func (c *Client) GenerateRecipes(ctx context.Context, req RecipeRequest) (*RecipeResponse, error) {
	if len(req.Ingredients) == 0 {
		return nil, models.NewValidationError("At least one ingredient is required")
	}

	var sb strings.Builder
	sb.WriteString("Ingredients: ")
	sb.WriteString(strings.Join(req.Ingredients, ", "))
	if req.Servings > 0 {
		sb.WriteString("\nServings: ")
		sb.WriteString(strconv.Itoa(req.Servings))
	}
	if len(req.Dietary) > 0 {
		sb.WriteString("\nDietary restrictions: ")
		sb.WriteString(strings.Join(req.Dietary, ", "))
	}

	var resp RecipeResponse
	if err := c.complete(ctx, KindRecipe, recipeSystemPrompt, sb.String(), &resp); err != nil {
		return nil, err
	}
	if err := ValidateRecipes(&resp); err != nil {
		return nil, models.NewUnavailableError("generation service returned an unusable result", err)
	}
	return &resp, nil
}

// GenerateBeverage suggests a single drink for the prompt.
func (c *Client) GenerateBeverage(ctx context.Context, req BeverageRequest) (*BeverageRecipe, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, models.NewValidationError("Prompt is required")
	}

	var sb strings.Builder
	sb.WriteString(req.Prompt)
	if len(req.Ingredients) > 0 {
		sb.WriteString("\nUse these ingredients: ")
		sb.WriteString(strings.Join(req.Ingredients, ", "))
	}
	if !req.Alcoholic {
		sb.WriteString("\nNon-alcoholic only.")
	}

	var bev BeverageRecipe
	if err := c.complete(ctx, KindBeverage, beverageSystemPrompt, sb.String(), &bev); err != nil {
		return nil, err
	}
	if err := ValidateBeverage(&bev); err != nil {
		return nil, models.NewUnavailableError("generation service returned an unusable result", err)
	}
	return &bev, nil
}

// ProcessGroceryList turns free text into a categorized, costed list.
func (c *Client) ProcessGroceryList(ctx context.Context, req GroceryListRequest) (*GroceryList, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, models.NewValidationError("List text is required")
	}

	var list GroceryList
	if err := c.complete(ctx, KindGroceryList, grocerySystemPrompt, req.Text, &list); err != nil {
		return nil, err
	}
	if err := ValidateGroceryList(&list); err != nil {
		return nil, models.NewUnavailableError("generation service returned an unusable result", err)
	}
	return &list, nil
}

// AnalyzeProductLabel scores a product label from ingredient text or a photo
// of the label. The returned card has the risk invariants already enforced.
func (c *Client) AnalyzeProductLabel(ctx context.Context, req ProductLabelRequest) (*ProductLabelCard, error) {
	hasText := strings.TrimSpace(req.Text) != ""
	hasImage := req.ImageDataURI != ""
	if !hasText && !hasImage {
		return nil, models.NewValidationError("Label text or image is required")
	}

	var card ProductLabelCard
	var err error
	if hasImage {
		if vErr := validateImageDataURI(req.ImageDataURI); vErr != nil {
			return nil, vErr
		}
		prompt := "Read the ingredient list from this label photo and analyze it."
		if hasText {
			prompt += "\nAdditional context: " + req.Text
		}
		err = c.completeVision(ctx, KindProductLabel, labelSystemPrompt, prompt, req.ImageDataURI, &card)
	} else {
		err = c.complete(ctx, KindProductLabel, labelSystemPrompt, req.Text, &card)
	}
	if err != nil {
		return nil, err
	}
	if err := NormalizeProductLabel(&card); err != nil {
		return nil, models.NewUnavailableError("generation service returned an unusable result", err)
	}
	return &card, nil
}

// IdentifyFromImage names the food in a photo and returns a recipe for it.
// Loose ingredients yield a recipe that uses them; a prepared dish yields a
// recipe for that dish.
func (c *Client) IdentifyFromImage(ctx context.Context, req IdentifyRequest) (*IdentifyResponse, error) {
	if err := validateImageDataURI(req.ImageDataURI); err != nil {
		return nil, err
	}

	var resp IdentifyResponse
	if err := c.completeVision(ctx, KindIdentify, identifySystemPrompt,
		"Identify the food in this photo.", req.ImageDataURI, &resp); err != nil {
		return nil, err
	}
	if err := ValidateIdentify(&resp); err != nil {
		return nil, models.NewUnavailableError("generation service returned an unusable result", err)
	}
	return &resp, nil
}

// validateImageDataURI accepts only inline base64 image payloads, the
// "data:image/<type>;base64,<data>" form.
func validateImageDataURI(uri string) error {
	if uri == "" {
		return models.NewValidationError("Image payload is required")
	}
	if !strings.HasPrefix(uri, "data:image/") || !strings.Contains(uri, ";base64,") {
		return models.NewValidationError("Image must be a base64 data URI")
	}
	return nil
}
