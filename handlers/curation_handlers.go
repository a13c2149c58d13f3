package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ajbgithub/aivideos/internal/feed"
	"github.com/ajbgithub/aivideos/middleware"
	"github.com/ajbgithub/aivideos/utils"
)

var validate = validator.New()

// ToggleTopRatedRequest is the curation payload.
type ToggleTopRatedRequest struct {
	TopRated *bool `json:"top_rated" validate:"required"`
}

// ToggleTopRated godoc
// @Summary Set a video's top-rated flag
// @Description Administrator-only. Moves the video between the top-rated and regular feed sections.
// @Tags videos
// @Accept json
// @Produce json
// @Param id path string true "Video id"
// @Param request body ToggleTopRatedRequest true "Desired flag"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{} "Not the administrator"
// @Router /videos/{id}/top-rated [patch]
func (h *ApplicationHandler) ToggleTopRated(c *fiber.Ctx) error {
	id := c.Params("id")
	session := middleware.SessionFrom(c)

	if !feed.CanCurate(session, h.Settings.AdminEmail) {
		return utils.RespondWithError(c, fiber.StatusForbidden, "Only the administrator can curate the top-rated section.")
	}

	var req ToggleTopRatedRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"errors": utils.FormatValidationErrors(err),
		})
	}

	if h.Seeds.Contains(id) {
		if !h.Seeds.SetTopRated(id, *req.TopRated) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
		}
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": id, "top_rated": *req.TopRated})
	}

	if err := h.Videos.SetTopRated(c.Context(), id, *req.TopRated); err != nil {
		h.Logger.WithField("video_id", id).WithError(err).Error("Failed to update top-rated flag")
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"id": id, "top_rated": *req.TopRated})
}
