package contentgen

import "cheapbite/internal/models"

// Score caps by the most severe ingredient risk. A product with a Hazardous
// ingredient can never score above 25 and one whose worst ingredient is
// Moderate can never score above 50.
const (
	hazardousScoreCap = 25
	moderateScoreCap  = 50
	maxScore          = 100
)

// ValidateRecipes rejects structurally empty recipe responses.
func ValidateRecipes(resp *RecipeResponse) error {
	if resp == nil || len(resp.Recipes) == 0 {
		return models.NewValidationError("generation returned no recipes")
	}
	for _, r := range resp.Recipes {
		if r.Title == "" || len(r.Ingredients) == 0 || len(r.Instructions) == 0 {
			return models.NewValidationError("generated recipe is incomplete")
		}
	}
	return nil
}

// ValidateBeverage rejects structurally empty beverage responses.
func ValidateBeverage(b *BeverageRecipe) error {
	if b == nil || b.Title == "" || len(b.Ingredients) == 0 {
		return models.NewValidationError("generated beverage is incomplete")
	}
	return nil
}

// ValidateIdentify rejects identifications with nothing identified or an
// incomplete recipe. A prepared meal names exactly one dish.
func ValidateIdentify(resp *IdentifyResponse) error {
	if resp == nil || len(resp.Items) == 0 {
		return models.NewValidationError("generation identified nothing in the image")
	}
	if resp.IsMeal && len(resp.Items) != 1 {
		return models.NewValidationError("a prepared meal must identify a single dish")
	}
	if resp.Recipe == nil {
		return models.NewValidationError("generation returned no recipe for the image")
	}
	if resp.Recipe.Title == "" || len(resp.Recipe.Ingredients) == 0 || len(resp.Recipe.Instructions) == 0 {
		return models.NewValidationError("generated recipe is incomplete")
	}
	return nil
}

// ValidateGroceryList checks the list has content and repairs the total when
// it disagrees with the item sum by recomputing it.
func ValidateGroceryList(g *GroceryList) error {
	if g == nil || len(g.Categories) == 0 {
		return models.NewValidationError("generation returned an empty grocery list")
	}
	var sum float64
	for _, cat := range g.Categories {
		if cat.Name == "" {
			return models.NewValidationError("grocery category is missing a name")
		}
		for _, item := range cat.Items {
			if item.Name == "" {
				return models.NewValidationError("grocery item is missing a name")
			}
			sum += item.Cost
		}
	}
	g.TotalCost = sum
	return nil
}

// NormalizeProductLabel enforces the scorecard invariants in place. The
// overall risk is forced to the most severe ingredient risk, the score is
// clamped to [0,100], and the risk-derived caps are applied afterwards so a
// generous upstream score cannot leak through.
func NormalizeProductLabel(card *ProductLabelCard) error {
	if card == nil || len(card.Ingredients) == 0 {
		return models.NewValidationError("generation returned an empty scorecard")
	}

	highest := RiskFree
	for _, ing := range card.Ingredients {
		if !ValidRisk(ing.Risk) {
			return models.NewValidationError("unknown ingredient risk: " + ing.Risk)
		}
		if riskRank(ing.Risk) > riskRank(highest) {
			highest = ing.Risk
		}
	}
	card.OverallRisk = highest

	if card.OverallScore < 0 {
		card.OverallScore = 0
	}
	if card.OverallScore > maxScore {
		card.OverallScore = maxScore
	}
	switch highest {
	case RiskHazardous:
		if card.OverallScore > hazardousScoreCap {
			card.OverallScore = hazardousScoreCap
		}
	case RiskModerate:
		if card.OverallScore > moderateScoreCap {
			card.OverallScore = moderateScoreCap
		}
	}
	return nil
}
