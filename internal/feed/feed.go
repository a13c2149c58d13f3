// Package feed builds the gallery view model: seeded and remotely loaded
// videos merged, partitioned into top-rated and regular, filtered by category,
// with viewer-relative flags.
package feed

import (
	"strings"

	"github.com/ajbgithub/aivideos/models"
)

// AllCategories is the identity filter.
const AllCategories = "All"

// View is the assembled gallery state for one viewer.
type View struct {
	All      []models.Video
	TopRated []models.Video
	Regular  []models.Video
	IsAdmin  bool
}

// Build merges remote videos (already newest-first from the store) ahead of
// the seeds, partitions on the top-rated flag, and applies the category
// filter to both partitions. Every video lands in exactly one partition.
func Build(remote, seed []models.Video, category string, viewer *models.Session, adminEmail string) View {
	all := make([]models.Video, 0, len(remote)+len(seed))
	all = append(all, remote...)
	all = append(all, seed...)

	view := View{
		All:      all,
		TopRated: make([]models.Video, 0, len(all)),
		Regular:  make([]models.Video, 0, len(all)),
		IsAdmin:  IsAdmin(viewer, adminEmail),
	}

	for _, video := range all {
		if !matchesCategory(video, category) {
			continue
		}
		if video.IsTopRated {
			view.TopRated = append(view.TopRated, video)
		} else {
			view.Regular = append(view.Regular, video)
		}
	}
	return view
}

func matchesCategory(video models.Video, category string) bool {
	if category == "" || category == AllCategories {
		return true
	}
	for _, tag := range video.Categories {
		if tag == category {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the viewer is the administrator identity. This is an
// application-level check against a single configured address; it is not a
// store-enforced permission.
func IsAdmin(viewer *models.Session, adminEmail string) bool {
	return viewer != nil && adminEmail != "" && viewer.Email == adminEmail
}

// IsOwner reports whether the viewer uploaded the video.
func IsOwner(viewer *models.Session, video models.Video) bool {
	return viewer != nil && video.Uploader.Email != "" &&
		strings.EqualFold(viewer.Email, video.Uploader.Email)
}

// CanCurate gates the top-rated toggle. Attempts by non-administrators are
// no-ops: callers must not issue any state change when this returns false.
func CanCurate(viewer *models.Session, adminEmail string) bool {
	return IsAdmin(viewer, adminEmail)
}
