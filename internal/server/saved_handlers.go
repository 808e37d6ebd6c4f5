package server

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"cheapbite/internal/models"
	"cheapbite/internal/service"
)

// SaveItem handles POST /api/saved
func (s *Server) SaveItem(c *fiber.Ctx) error {
	var req struct {
		Kind    string          `json:"kind"`
		Title   string          `json:"title"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.savedService.SaveItem(c.Context(), service.SaveItemInput{
		UserID:  currentUserID(c),
		Kind:    req.Kind,
		Title:   req.Title,
		Payload: req.Payload,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetSavedItems handles GET /api/saved
func (s *Server) GetSavedItems(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	items, err := s.savedService.ListItems(c.Context(), currentUserID(c), c.Query("kind"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// GetSavedItem handles GET /api/saved/:id
func (s *Server) GetSavedItem(c *fiber.Ctx) error {
	item, err := s.savedService.GetItem(c.Context(), currentUserID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(item)
}

// DeleteSavedItem handles DELETE /api/saved/:id
func (s *Server) DeleteSavedItem(c *fiber.Ctx) error {
	if err := s.savedService.DeleteItem(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
