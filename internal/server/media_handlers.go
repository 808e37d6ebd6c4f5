package server

import (
	"github.com/gofiber/fiber/v2"

	"cheapbite/internal/models"
)

// CreateUploadURL handles POST /api/media/upload-url. It returns a
// presigned PUT URL the client uploads to directly, plus the public URL
// the object will be served from.
func (s *Server) CreateUploadURL(c *fiber.Ctx) error {
	if s.mediaStore == nil {
		return respondServiceError(c, models.NewUnavailableError("Media uploads are not configured", nil))
	}

	var req struct {
		ContentType string `json:"content_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	uploadURL, publicURL, err := s.mediaStore.PresignUpload(c.Context(), currentUserID(c), req.ContentType)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"upload_url": uploadURL,
		"public_url": publicURL,
	})
}
