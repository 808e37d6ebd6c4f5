package server

import (
	"github.com/gofiber/fiber/v2"

	"cheapbite/internal/models"
	"cheapbite/internal/service"
)

// GetConversations handles GET /api/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	convs, err := s.convService.ListConversations(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"conversations": convs})
}

// GetMessages handles GET /api/conversations/:peerId/messages
func (s *Server) GetMessages(c *fiber.Ctx) error {
	peerID, err := s.parseID(c, "peerId")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	msgs, err := s.convService.ListMessages(c.Context(), currentUserID(c), peerID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

// SendMessage handles POST /api/conversations/:peerId/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	peerID, err := s.parseID(c, "peerId")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.convService.SendMessage(c.Context(), service.SendMessageInput{
		SenderID: currentUserID(c),
		PeerID:   peerID,
		Text:     req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// MarkThreadRead handles POST /api/conversations/:peerId/read
func (s *Server) MarkThreadRead(c *fiber.Ctx) error {
	peerID, err := s.parseID(c, "peerId")
	if err != nil {
		return nil
	}

	if err := s.convService.MarkThreadRead(c.Context(), currentUserID(c), peerID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
