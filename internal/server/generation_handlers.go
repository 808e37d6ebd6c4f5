package server

import (
	"github.com/gofiber/fiber/v2"

	"cheapbite/internal/contentgen"
	"cheapbite/internal/models"
)

// GenerateRecipes handles POST /api/generate/recipes
func (s *Server) GenerateRecipes(c *fiber.Ctx) error {
	if s.generator == nil {
		return respondServiceError(c, models.NewUnavailableError("Content generation is not configured", nil))
	}

	var req contentgen.RecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	resp, err := s.generator.GenerateRecipes(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(resp)
}

// GenerateBeverage handles POST /api/generate/beverage
func (s *Server) GenerateBeverage(c *fiber.Ctx) error {
	if s.generator == nil {
		return respondServiceError(c, models.NewUnavailableError("Content generation is not configured", nil))
	}

	var req contentgen.BeverageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	drink, err := s.generator.GenerateBeverage(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(drink)
}

// ProcessGroceryList handles POST /api/generate/grocery-list
func (s *Server) ProcessGroceryList(c *fiber.Ctx) error {
	if s.generator == nil {
		return respondServiceError(c, models.NewUnavailableError("Content generation is not configured", nil))
	}

	var req contentgen.GroceryListRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	list, err := s.generator.ProcessGroceryList(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(list)
}

// IdentifyFromImage handles POST /api/generate/identify
func (s *Server) IdentifyFromImage(c *fiber.Ctx) error {
	if s.generator == nil {
		return respondServiceError(c, models.NewUnavailableError("Content generation is not configured", nil))
	}

	var req contentgen.IdentifyRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	resp, err := s.generator.IdentifyFromImage(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(resp)
}

// AnalyzeProductLabel handles POST /api/generate/product-label
func (s *Server) AnalyzeProductLabel(c *fiber.Ctx) error {
	if s.generator == nil {
		return respondServiceError(c, models.NewUnavailableError("Content generation is not configured", nil))
	}

	var req contentgen.ProductLabelRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	card, err := s.generator.AnalyzeProductLabel(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(card)
}
