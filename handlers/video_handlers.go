package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ajbgithub/aivideos/internal/feed"
	"github.com/ajbgithub/aivideos/middleware"
	"github.com/ajbgithub/aivideos/models"
	"github.com/ajbgithub/aivideos/utils"
)

// feedItem decorates a video with the viewer-relative ownership flag.
type feedItem struct {
	models.Video
	IsOwner bool `json:"is_owner"`
}

// FeedResponse is the gallery payload: the top-rated section, the regular
// section under the active category filter, and the viewer's admin flag.
type FeedResponse struct {
	TopRated []feedItem `json:"top_rated"`
	Videos   []feedItem `json:"videos"`
	Category string     `json:"category"`
	IsAdmin  bool       `json:"is_admin"`
}

func (h *ApplicationHandler) decorate(videos []models.Video, session *models.Session) []feedItem {
	items := make([]feedItem, 0, len(videos))
	for _, video := range videos {
		items = append(items, feedItem{Video: video, IsOwner: feed.IsOwner(session, video)})
	}
	return items
}

// ListVideos godoc
// @Summary List the video feed
// @Description Returns remotely stored videos merged with the seeded demo set, partitioned into top-rated and regular sections. Category "All" (or none) returns everything.
// @Tags videos
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} FeedResponse
// @Router /videos [get]
func (h *ApplicationHandler) ListVideos(c *fiber.Ctx) error {
	session := middleware.SessionFrom(c)
	category := c.Query("category", feed.AllCategories)

	rows, err := h.Videos.List(c.Context())
	if err != nil {
		h.Logger.WithError(err).Error("Failed to load videos from the store")
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}

	view := feed.Build(models.MapVideoRows(rows), h.Seeds.Videos(), category, session, h.Settings.AdminEmail)

	return c.Status(fiber.StatusOK).JSON(FeedResponse{
		TopRated: h.decorate(view.TopRated, session),
		Videos:   h.decorate(view.Regular, session),
		Category: category,
		IsAdmin:  view.IsAdmin,
	})
}

// resolveVideo finds a video by id, checking the seed library before the
// remote store. Returns nil when the id is unknown or the stored row is
// malformed.
func (h *ApplicationHandler) resolveVideo(c *fiber.Ctx, id string) (*models.Video, error) {
	if seedVideo := h.Seeds.Get(id); seedVideo != nil {
		return seedVideo, nil
	}

	row, err := h.Videos.Get(c.Context(), id)
	if err != nil {
		return nil, err
	}
	return models.MapVideoRow(row), nil
}

// GetVideo returns the detail view for one video.
func (h *ApplicationHandler) GetVideo(c *fiber.Ctx) error {
	id := c.Params("id")
	session := middleware.SessionFrom(c)

	video, err := h.resolveVideo(c, id)
	if err != nil {
		h.Logger.WithField("video_id", id).WithError(err).Error("Failed to fetch video")
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}
	if video == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"video":      feedItem{Video: *video, IsOwner: feed.IsOwner(session, *video)},
		"is_admin":   feed.IsAdmin(session, h.Settings.AdminEmail),
		"share_path": fmt.Sprintf("/video/%s", video.ID),
	})
}

// RecordView bumps the view counter. Seed videos are never recorded, and a
// failed increment degrades to an optimistic local count: this endpoint does
// not fail for telemetry reasons.
func (h *ApplicationHandler) RecordView(c *fiber.Ctx) error {
	id := c.Params("id")

	video, err := h.resolveVideo(c, id)
	if err != nil {
		h.Logger.WithField("video_id", id).WithError(err).Error("Failed to fetch video for view recording")
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}
	if video == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}

	count := h.Lookup.RecordView(c.Context(), *video)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"view_count": count})
}

// RelatedVideos godoc
// @Summary More from this creator
// @Description Returns up to six other videos by the same uploader, matched by email when the uploader has one and by display name otherwise.
// @Tags videos
// @Produce json
// @Param id path string true "Video id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /videos/{id}/related [get]
func (h *ApplicationHandler) RelatedVideos(c *fiber.Ctx) error {
	id := c.Params("id")

	video, err := h.resolveVideo(c, id)
	if err != nil {
		h.Logger.WithField("video_id", id).WithError(err).Error("Failed to fetch video for related lookup")
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}
	if video == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}

	related := h.Lookup.Related(c.Context(), *video)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"related": related})
}

// ListCategories returns the fixed category catalogue, with the synthetic
// "All" filter first.
func (h *ApplicationHandler) ListCategories(c *fiber.Ctx) error {
	categories := append([]string{feed.AllCategories}, models.CategoryOptions...)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"categories": categories})
}
