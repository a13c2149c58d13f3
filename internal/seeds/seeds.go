// Package seeds holds the demo videos the gallery ships with. Seed entries are
// never backed by the remote store: edits, deletes, and curation toggles
// against them apply to in-memory state only.
package seeds

import (
	"sync"
	"time"

	"github.com/ajbgithub/aivideos/models"
)

func strPtr(s string) *string { return &s }

func defaultVideos() []models.Video {
	now := time.Now().UTC()
	return []models.Video{
		{
			ID:          "vid-ea-01",
			Title:       strPtr("Thunder - Wharton Vets Gala"),
			Description: strPtr("Live performance highlight from the Wharton Vets Gala showcase."),
			URL:         "https://www.instagram.com/reel/DPeTuiSEVMU/embed",
			Source:      models.SourceInstagram,
			Uploader:    models.Uploader{Name: "Andrew J. Bilden", Email: ""},
			FullName:    strPtr("Andrew J. Bilden"),
			Categories:  []string{"Music Videos", "Inspirational", "Trailers"},
			IsTopRated:  true,
			CreatedAt:   now,
		},
		{
			ID:          "vid-ea-02",
			Title:       strPtr("Newport '83"),
			Description: strPtr("Vintage-inspired visuals celebrating coastal life in Newport."),
			URL:         "https://www.youtube.com/embed/yXi2hPadEKE",
			Source:      models.SourceYouTube,
			Uploader:    models.Uploader{Name: "Andrew J. Bilden", Email: ""},
			FullName:    strPtr("Andrew J. Bilden"),
			Categories:  []string{"Films", "Trailers", "Romance"},
			IsTopRated:  true,
			CreatedAt:   now,
		},
		{
			ID:          "vid-ea-03",
			Title:       strPtr("White Paper Fan Teaser"),
			Description: strPtr("Teaser reel for the upcoming White Paper Fan release."),
			URL:         "https://www.instagram.com/reel/DNvUqWs4nsH/embed",
			Source:      models.SourceInstagram,
			Uploader:    models.Uploader{Name: "Andrew J. Bilden", Email: ""},
			FullName:    strPtr("Andrew J. Bilden"),
			Categories:  []string{"Trailers", "Action", "Films"},
			IsTopRated:  true,
			CreatedAt:   now,
		},
	}
}

// Library is the mutable in-memory view of the seed set. The original app ran
// single-threaded in a browser tab; here concurrent requests share one
// Library, so access is mutex-guarded.
type Library struct {
	mu     sync.RWMutex
	videos []models.Video
}

// NewLibrary returns a Library populated with the shipped demo videos.
func NewLibrary() *Library {
	return &Library{videos: defaultVideos()}
}

// NewLibraryWith returns a Library over the given videos. Used by tests and by
// deployments that override the demo set.
func NewLibraryWith(videos []models.Video) *Library {
	copied := make([]models.Video, len(videos))
	copy(copied, videos)
	return &Library{videos: copied}
}

// Videos returns a copy of the current seed set.
func (l *Library) Videos() []models.Video {
	l.mu.RLock()
	defer l.mu.RUnlock()
	copied := make([]models.Video, len(l.videos))
	copy(copied, l.videos)
	return copied
}

// Get returns the seed with the given id, or nil.
func (l *Library) Get(id string) *models.Video {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := range l.videos {
		if l.videos[i].ID == id {
			video := l.videos[i]
			return &video
		}
	}
	return nil
}

// Contains reports whether id belongs to the seed set.
func (l *Library) Contains(id string) bool {
	return l.Get(id) != nil
}

// SetTopRated flips the editorial flag on a seed in memory. Returns false when
// the id is not a seed.
func (l *Library) SetTopRated(id string, topRated bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.videos {
		if l.videos[i].ID == id {
			l.videos[i].IsTopRated = topRated
			return true
		}
	}
	return false
}

// Replace swaps a seed entry for an edited copy, in memory only.
func (l *Library) Replace(updated models.Video) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.videos {
		if l.videos[i].ID == updated.ID {
			l.videos[i] = updated
			return true
		}
	}
	return false
}

// Remove drops a seed entry from memory. Returns false when absent.
func (l *Library) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.videos {
		if l.videos[i].ID == id {
			l.videos = append(l.videos[:i], l.videos[i+1:]...)
			return true
		}
	}
	return false
}
