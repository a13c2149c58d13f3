// Package lookup covers the per-video side queries: best-effort view counting
// and "more from this creator" relation lookup.
package lookup

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ajbgithub/aivideos/internal/seeds"
	"github.com/ajbgithub/aivideos/internal/videostore"
	"github.com/ajbgithub/aivideos/models"
)

// MaxRelated caps the related-videos result.
const MaxRelated = 6

// remoteRelatedLimit is how many candidate rows are pulled from the store
// before seed merging and capping.
const remoteRelatedLimit = 12

// Service answers view-count and relation queries over the seed library and
// the remote store.
type Service struct {
	videos videostore.Store
	seeds  *seeds.Library
	log    *logrus.Logger
}

// New returns a lookup Service.
func New(videos videostore.Store, seedLib *seeds.Library, log *logrus.Logger) *Service {
	return &Service{videos: videos, seeds: seedLib, log: log}
}

// RecordView bumps the view counter for a video and returns the count to
// display. Seed videos are never recorded. View counting is best-effort
// telemetry: a failed increment falls back to an optimistic local +1 and is
// never surfaced as an error.
func (s *Service) RecordView(ctx context.Context, video models.Video) int64 {
	if s.seeds.Contains(video.ID) {
		return video.ViewCount
	}

	count, err := s.videos.IncrementViewCount(ctx, video.ID)
	if err != nil {
		s.log.WithField("video_id", video.ID).WithError(err).
			Warn("View count increment failed, falling back to local increment")
		return video.ViewCount + 1
	}
	return count
}

// Related returns up to MaxRelated videos by the same creator, excluding the
// subject and de-duplicating by id. Identity matching runs in two disjoint
// classes: a non-blank uploader email matches by email (case-insensitive,
// merging seed and remote results); otherwise the display name matches only
// against videos that themselves lack an email.
func (s *Service) Related(ctx context.Context, video models.Video) []models.Video {
	collected := make([]models.Video, 0, MaxRelated)
	seen := map[string]bool{video.ID: true}

	add := func(candidate models.Video) {
		if seen[candidate.ID] || len(collected) >= MaxRelated {
			return
		}
		seen[candidate.ID] = true
		collected = append(collected, candidate)
	}

	rawEmail := strings.TrimSpace(video.Uploader.Email)
	if rawEmail != "" {
		targetEmail := strings.ToLower(rawEmail)

		for _, seed := range s.seeds.Videos() {
			seedEmail := strings.TrimSpace(seed.Uploader.Email)
			if seedEmail != "" && strings.ToLower(seedEmail) == targetEmail {
				add(seed)
			}
		}

		rows, err := s.videos.ListByUploaderEmail(ctx, rawEmail, video.ID, remoteRelatedLimit)
		if err != nil {
			s.log.WithField("video_id", video.ID).WithError(err).
				Warn("Related lookup against the store failed")
		} else {
			for _, candidate := range models.MapVideoRows(rows) {
				add(candidate)
			}
		}
		return collected
	}

	fallbackName := displayNameOf(video)
	if fallbackName == "" {
		return collected
	}

	for _, seed := range s.seeds.Videos() {
		if strings.TrimSpace(seed.Uploader.Email) != "" {
			continue
		}
		if displayNameOf(seed) == fallbackName {
			add(seed)
		}
	}
	return collected
}

// displayNameOf prefers the editable full name and falls back to a title-cased
// uploader name.
func displayNameOf(video models.Video) string {
	if video.FullName != nil && strings.TrimSpace(*video.FullName) != "" {
		return strings.TrimSpace(*video.FullName)
	}
	return strings.TrimSpace(toTitleCase(video.Uploader.Name))
}

func toTitleCase(input string) string {
	words := strings.Fields(input)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
