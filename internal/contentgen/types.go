// Package contentgen wraps the upstream generation service behind typed
// requests and responses. Every response is validated at the boundary before
// it reaches a caller.
package contentgen

import "encoding/json"

// Generation kinds, used for metrics and saved-item tagging.
const (
	KindRecipe       = "recipe"
	KindBeverage     = "beverage"
	KindGroceryList  = "grocery_list"
	KindProductLabel = "product_label"
	KindIdentify     = "identify"
)

// Ingredient risk levels, ordered from safest to most severe.
const (
	RiskFree      = "Risk-Free"
	RiskLow       = "Low Risk"
	RiskModerate  = "Moderate Risk"
	RiskHazardous = "Hazardous"
)

// Nutrition is the per-serving macro breakdown of a recipe.
type Nutrition struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// Recipe is one generated dish suggestion.
type Recipe struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Ingredients   []string  `json:"ingredients"`
	Instructions  []string  `json:"instructions"`
	ServingSize   int       `json:"servingSize"`
	PrepTime      string    `json:"prepTime"`
	CookTime      string    `json:"cookTime"`
	EstimatedCost float64   `json:"estimatedCost"`
	Currency      string    `json:"currency"`
	Nutrition     Nutrition `json:"nutrition"`
}

// RecipeRequest asks for dishes built from the given ingredients.
type RecipeRequest struct {
	Ingredients []string `json:"ingredients"`
	Servings    int      `json:"servings,omitempty"`
	Dietary     []string `json:"dietary,omitempty"`
}

// RecipeResponse is the typed payload of a recipe generation.
type RecipeResponse struct {
	Recipes []Recipe `json:"recipes"`
}

// BeverageRequest asks for a drink built around a flavor or occasion.
type BeverageRequest struct {
	Prompt      string   `json:"prompt"`
	Ingredients []string `json:"ingredients,omitempty"`
	Alcoholic   bool     `json:"alcoholic"`
}

// BeverageRecipe is a single generated drink.
type BeverageRecipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Glassware    string   `json:"glassware,omitempty"`
	Garnish      string   `json:"garnish,omitempty"`
}

// GroceryItem is one line of a categorized grocery list.
type GroceryItem struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// GroceryCategory groups items under an aisle-style heading.
type GroceryCategory struct {
	Name  string        `json:"name"`
	Items []GroceryItem `json:"items"`
}

// GroceryList is free-text input turned into a structured, costed list.
type GroceryList struct {
	Categories []GroceryCategory `json:"categories"`
	TotalCost  float64           `json:"totalCost"`
	Currency   string            `json:"currency"`
}

// GroceryListRequest carries the raw text to structure.
type GroceryListRequest struct {
	Text string `json:"text"`
}

// IngredientRisk is the per-ingredient verdict on a product label.
type IngredientRisk struct {
	Name    string `json:"name"`
	Risk    string `json:"risk"`
	Comment string `json:"comment,omitempty"`
}

// ProductLabelCard is the scorecard for an analyzed product label.
// OverallRisk always equals the most severe ingredient risk and OverallScore
// is capped accordingly.
type ProductLabelCard struct {
	ProductName  string           `json:"productName"`
	OverallScore int              `json:"overallScore"`
	OverallRisk  string           `json:"overallRisk"`
	Summary      string           `json:"summary"`
	Ingredients  []IngredientRisk `json:"ingredients"`
}

// ProductLabelRequest carries the label to analyze, either as ingredient
// text or as a photo of the label.
type ProductLabelRequest struct {
	Text         string `json:"text,omitempty"`
	ImageDataURI string `json:"imageDataUri,omitempty"`
}

// IdentifyRequest carries a photo of ingredients or a finished meal as a
// base64 data URI.
type IdentifyRequest struct {
	ImageDataURI string `json:"imageDataUri"`
}

// IdentifyResponse names what the photo shows and always carries a recipe.
// IsMeal distinguishes a single prepared dish from loose ingredients; Items
// holds the dish name or the identified ingredients accordingly.
type IdentifyResponse struct {
	IsMeal bool     `json:"isMeal"`
	Items  []string `json:"items"`
	Recipe *Recipe  `json:"generatedRecipe,omitempty"`
}

// RawPayload re-encodes v for storage as a saved item.
func RawPayload(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// riskRank orders risk levels by severity. Unknown levels rank highest so a
// malformed response is never treated as safe.
func riskRank(risk string) int {
	switch risk {
	case RiskFree:
		return 0
	case RiskLow:
		return 1
	case RiskModerate:
		return 2
	case RiskHazardous:
		return 3
	default:
		return 4
	}
}

// ValidRisk reports whether r is a known risk level.
func ValidRisk(r string) bool {
	return riskRank(r) <= 3
}
