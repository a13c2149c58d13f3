package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ajbgithub/aivideos/middleware"
	"github.com/ajbgithub/aivideos/utils"
)

// GetSession godoc
// @Summary Current session
// @Description Returns the signed-in viewer's display name and email.
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /session [get]
func (h *ApplicationHandler) GetSession(c *fiber.Ctx) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Not signed in")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"session": session})
}

// SignOut revokes the caller's access token.
func (h *ApplicationHandler) SignOut(c *fiber.Ctx) error {
	token := middleware.TokenFrom(c)
	if token == "" {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Not signed in")
	}

	if err := h.Sessions.SignOut(c.Context(), token); err != nil {
		h.Logger.WithError(err).Warn("Sign-out against the auth service failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"signed_out": true})
}
