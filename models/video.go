package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VideoSource identifies the rendering strategy for a video. The set is
// closed: anything the application does not recognize maps to SourceExternal.
type VideoSource string

const (
	SourceFile          VideoSource = "file"
	SourceYouTube       VideoSource = "youtube"
	SourceInstagram     VideoSource = "instagram"
	SourceTikTok        VideoSource = "tiktok"
	SourceSpotify       VideoSource = "spotify"
	SourceApplePodcasts VideoSource = "apple-podcasts"
	SourceX             VideoSource = "x"
	SourceExternal      VideoSource = "external"
)

// ParseVideoSource returns the matching source tag, or SourceExternal for any
// value outside the recognized set (including the empty string).
func ParseVideoSource(value string) VideoSource {
	switch VideoSource(value) {
	case SourceFile, SourceYouTube, SourceInstagram, SourceTikTok,
		SourceSpotify, SourceApplePodcasts, SourceX, SourceExternal:
		return VideoSource(value)
	}
	return SourceExternal
}

// CategoryOptions is the fixed tag catalogue. A video carries between one and
// MaxCategories of these.
var CategoryOptions = []string{
	"Animals",
	"Animation",
	"Action",
	"Cats",
	"Dogs",
	"Drama",
	"Fashion & Style",
	"Films",
	"Fitness & Health",
	"Food & Recipes",
	"Funnies",
	"Inspirational",
	"Lifestyle & Travel",
	"Memes",
	"Music Videos",
	"News",
	"Other",
	"Podcasts",
	"Pop Icons",
	"Romance",
	"Tech & Gadgets",
	"Trailers",
	"TV",
}

// MaxCategories caps how many tags a video may carry.
const MaxCategories = 3

// Uploader is the denormalized creator snapshot taken at upload time. Email is
// the stable join key for "more from this creator" lookups when non-empty.
type Uploader struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Video is the canonical in-memory entity, produced either from a database row
// via MapVideoRow or from the seed library.
type Video struct {
	ID                string      `json:"id"`
	Title             *string     `json:"title,omitempty"`
	Description       *string     `json:"description,omitempty"`
	URL               string      `json:"url"`
	Source            VideoSource `json:"source"`
	Uploader          Uploader    `json:"uploader"`
	FullName          *string     `json:"full_name,omitempty"`
	Categories        []string    `json:"categories"`
	ViewCount         int64       `json:"view_count"`
	IsTopRated        bool        `json:"is_top_rated"`
	StorageObjectPath *string     `json:"storage_object_path,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

// VideoRow mirrors the videos table as PostgREST returns it. Every column the
// application does not control is nullable, so pointers throughout.
type VideoRow struct {
	ID                *string   `json:"id"`
	Title             *string   `json:"title"`
	Description       *string   `json:"description"`
	VideoURL          *string   `json:"video_url"`
	Source            *string   `json:"source"`
	StorageObjectPath *string   `json:"storage_object_path"`
	Categories        []string  `json:"categories"`
	FullName          *string   `json:"full_name"`
	ViewCount         *int64    `json:"view_count"`
	IsTopRated        *bool     `json:"is_top_rated"`
	UploaderName      *string   `json:"uploader_name"`
	UploaderEmail     *string   `json:"uploader_email"`
	CreatedAt         *string   `json:"created_at"`
}

// VideoInsert is the payload sent to the store on creation. Optional text
// fields marshal to explicit nulls rather than empty strings.
type VideoInsert struct {
	Title             *string     `json:"title"`
	Description       *string     `json:"description"`
	VideoURL          string      `json:"video_url"`
	Source            VideoSource `json:"source"`
	StorageObjectPath *string     `json:"storage_object_path"`
	Categories        []string    `json:"categories"`
	FullName          *string     `json:"full_name"`
	ViewCount         int64       `json:"view_count"`
	IsTopRated        bool        `json:"is_top_rated"`
	UploaderName      string      `json:"uploader_name"`
	UploaderEmail     string      `json:"uploader_email"`
}

// VideoColumns is the projection requested from the videos table.
const VideoColumns = "id, title, description, video_url, source, storage_object_path, categories, full_name, view_count, is_top_rated, uploader_name, uploader_email, created_at"

// MapVideoRow translates a stored row into a Video. It returns nil for an
// absent row, a row without an id, or a row without a media URL; such rows are
// treated as corrupt and silently skipped by callers, never surfaced as errors.
func MapVideoRow(row *VideoRow) *Video {
	if row == nil || row.ID == nil || *row.ID == "" || row.VideoURL == nil || *row.VideoURL == "" {
		return nil
	}

	source := SourceExternal
	if row.Source != nil {
		source = ParseVideoSource(*row.Source)
	}

	uploaderName := "Creator"
	if row.UploaderName != nil && strings.TrimSpace(*row.UploaderName) != "" {
		uploaderName = strings.TrimSpace(*row.UploaderName)
	}

	uploaderEmail := ""
	if row.UploaderEmail != nil {
		uploaderEmail = *row.UploaderEmail
	}

	categories := make([]string, 0, MaxCategories)
	for _, category := range row.Categories {
		if category == "" {
			continue
		}
		categories = append(categories, category)
		if len(categories) == MaxCategories {
			break
		}
	}

	var viewCount int64
	if row.ViewCount != nil {
		viewCount = *row.ViewCount
	}

	createdAt := time.Now().UTC()
	if row.CreatedAt != nil {
		if parsed, err := time.Parse(time.RFC3339, *row.CreatedAt); err == nil {
			createdAt = parsed
		}
	}

	return &Video{
		ID:                *row.ID,
		Title:             NormalizeText(row.Title),
		Description:       NormalizeText(row.Description),
		URL:               *row.VideoURL,
		Source:            source,
		Uploader:          Uploader{Name: uploaderName, Email: uploaderEmail},
		FullName:          NormalizeText(row.FullName),
		Categories:        categories,
		ViewCount:         viewCount,
		IsTopRated:        row.IsTopRated != nil && *row.IsTopRated,
		StorageObjectPath: row.StorageObjectPath,
		CreatedAt:         createdAt,
	}
}

// MapVideoRows maps a result set, dropping rows MapVideoRow rejects.
func MapVideoRows(rows []VideoRow) []Video {
	videos := make([]Video, 0, len(rows))
	for i := range rows {
		if video := MapVideoRow(&rows[i]); video != nil {
			videos = append(videos, *video)
		}
	}
	return videos
}

// NormalizeText collapses empty or whitespace-only values to nil so optional
// text is stored and rendered as absent rather than as an empty string.
func NormalizeText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// TextOrNil is the non-pointer form of NormalizeText for form input.
func TextOrNil(value string) *string {
	return NormalizeText(&value)
}

// NewLocalVideoID synthesizes an identifier for entries that exist only in
// local state and were never assigned an id by the store.
func NewLocalVideoID() string {
	return fmt.Sprintf("vid-local-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
