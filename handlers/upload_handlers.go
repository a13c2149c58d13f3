package handlers

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ajbgithub/aivideos/internal/feed"
	"github.com/ajbgithub/aivideos/internal/uploads"
	"github.com/ajbgithub/aivideos/middleware"
	"github.com/ajbgithub/aivideos/models"
	"github.com/ajbgithub/aivideos/utils"
)

// uploadStatus maps an orchestrator error to a response status. Validation
// problems are client errors, a read-back inconsistency is a conflict the
// user resolves by refreshing, and everything else is an upstream failure.
func uploadStatus(err error) int {
	switch {
	case uploads.IsValidation(err):
		return fiber.StatusBadRequest
	case errors.Is(err, uploads.ErrRefreshRequired):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadGateway
	}
}

// formCategories reads the repeated categories field, accepting a single
// comma-separated value as well.
func formCategories(c *fiber.Ctx) []string {
	form, err := c.MultipartForm()
	if err == nil && form != nil && len(form.Value["categories"]) > 1 {
		return form.Value["categories"]
	}

	raw := c.FormValue("categories")
	if raw == "" {
		return nil
	}
	var categories []string
	for _, category := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(category); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	return categories
}

// formFile opens the optional uploaded file. A missing file field is not an
// error; the orchestrator decides whether the combination of file and link is
// acceptable.
func formFile(c *fiber.Ctx) (*uploads.File, multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil || header == nil {
		return nil, nil, nil
	}

	handle, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	return &uploads.File{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Content:     handle,
	}, handle, nil
}

func formAcknowledged(c *fiber.Ctx) bool {
	switch strings.ToLower(c.FormValue("acknowledge")) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// UploadVideo godoc
// @Summary Submit a new video
// @Description Accepts a multipart form with either an uploaded file or an external link (never both), a title, a description, one to three categories, and the redistribution acknowledgment.
// @Tags videos
// @Accept mpfd
// @Produce json
// @Success 201 {object} map[string]interface{} "Created video"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Failure 401 {object} map[string]interface{} "Sign-in required"
// @Router /videos [post]
func (h *ApplicationHandler) UploadVideo(c *fiber.Ctx) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Please sign in to upload.")
	}

	file, handle, err := formFile(c)
	if err != nil {
		h.Logger.WithError(err).Error("Failed to open uploaded file")
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Could not read the uploaded file.")
	}
	if handle != nil {
		defer handle.Close()
	}

	payload := uploads.Payload{
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		Link:         c.FormValue("video_link"),
		FullName:     c.FormValue("full_name"),
		Categories:   formCategories(c),
		Acknowledged: formAcknowledged(c),
		File:         file,
	}

	video, err := h.Uploads.Submit(c.Context(), payload, session)
	if err != nil {
		if !uploads.IsValidation(err) {
			h.Logger.WithField("uploader_email", session.Email).WithError(err).Error("Upload failed")
		}
		return utils.RespondWithError(c, uploadStatus(err), err.Error())
	}

	h.Logger.WithFields(map[string]interface{}{
		"video_id": video.ID,
		"source":   video.Source,
	}).Info("Video uploaded successfully")
	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{"video": video})
}

// UpdateVideo edits a video the caller owns. Seed videos are edited in memory
// only; remotely stored videos go through the orchestrator's update flow.
func (h *ApplicationHandler) UpdateVideo(c *fiber.Ctx) error {
	id := c.Params("id")
	session := middleware.SessionFrom(c)
	if session == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Please sign in to manage your uploads.")
	}

	if h.Seeds.Contains(id) {
		return h.updateSeedVideo(c, id)
	}

	row, err := h.Videos.Get(c.Context(), id)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}
	video := models.MapVideoRow(row)
	if video == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}
	if !feed.IsOwner(session, *video) {
		return utils.RespondWithError(c, fiber.StatusForbidden, "Only the uploader can edit this video.")
	}

	file, handle, err := formFile(c)
	if err != nil {
		h.Logger.WithError(err).Error("Failed to open replacement file")
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Could not read the uploaded file.")
	}
	if handle != nil {
		defer handle.Close()
	}

	updated, err := h.Uploads.UpdateVideo(c.Context(), *video, uploads.Update{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Link:        c.FormValue("video_link"),
		Categories:  formCategories(c),
		DisplayName: c.FormValue("full_name"),
		NewFile:     file,
	}, session)
	if err != nil {
		if !uploads.IsValidation(err) {
			h.Logger.WithField("video_id", id).WithError(err).Error("Video update failed")
		}
		return utils.RespondWithError(c, uploadStatus(err), err.Error())
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"video": updated})
}

// updateSeedVideo applies a metadata-only edit to a seed entry. Seeds are
// never pushed through the remote-persistence path.
func (h *ApplicationHandler) updateSeedVideo(c *fiber.Ctx, id string) error {
	seedVideo := h.Seeds.Get(id)
	if seedVideo == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}

	if title := c.FormValue("title"); title != "" {
		seedVideo.Title = models.TextOrNil(title)
	}
	if description := c.FormValue("description"); description != "" {
		seedVideo.Description = models.TextOrNil(description)
	}
	if categories := formCategories(c); len(categories) > 0 {
		if len(categories) > models.MaxCategories {
			categories = categories[:models.MaxCategories]
		}
		seedVideo.Categories = categories
	}

	h.Seeds.Replace(*seedVideo)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"video": seedVideo})
}

// DeleteVideo removes a video the caller owns (or any video, for the
// administrator). The row goes first; blob removal afterwards is best-effort
// and never fails the delete.
func (h *ApplicationHandler) DeleteVideo(c *fiber.Ctx) error {
	id := c.Params("id")
	session := middleware.SessionFrom(c)
	if session == nil {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Please sign in to manage your uploads.")
	}

	if h.Seeds.Contains(id) {
		if !feed.IsAdmin(session, h.Settings.AdminEmail) {
			return utils.RespondWithError(c, fiber.StatusForbidden, "Only the administrator can remove demo videos.")
		}
		h.Seeds.Remove(id)
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": id})
	}

	row, err := h.Videos.Get(c.Context(), id)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}
	video := models.MapVideoRow(row)
	if video == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}
	if !feed.IsOwner(session, *video) && !feed.IsAdmin(session, h.Settings.AdminEmail) {
		return utils.RespondWithError(c, fiber.StatusForbidden, "Only the uploader can delete this video.")
	}

	if err := h.Uploads.Delete(c.Context(), *video); err != nil {
		h.Logger.WithField("video_id", id).WithError(err).Error("Video delete failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": id})
}
