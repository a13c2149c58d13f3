package seeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLibraryShipsThreeTopRatedSeeds(t *testing.T) {
	lib := NewLibrary()
	videos := lib.Videos()
	require.Len(t, videos, 3)
	for _, video := range videos {
		assert.True(t, video.IsTopRated, video.ID)
		assert.NotEmpty(t, video.Categories, video.ID)
		assert.Empty(t, video.Uploader.Email, "seeds carry no identity email")
	}
}

func TestVideosReturnsIndependentCopy(t *testing.T) {
	lib := NewLibrary()
	first := lib.Videos()
	first[0].IsTopRated = false
	first[0].ID = "tampered"

	fresh := lib.Videos()
	assert.Equal(t, "vid-ea-01", fresh[0].ID)
	assert.True(t, fresh[0].IsTopRated)
}

func TestSetTopRatedMutatesOnlyMatchingSeed(t *testing.T) {
	lib := NewLibrary()
	require.True(t, lib.SetTopRated("vid-ea-02", false))
	assert.False(t, lib.Get("vid-ea-02").IsTopRated)
	assert.True(t, lib.Get("vid-ea-01").IsTopRated)

	assert.False(t, lib.SetTopRated("vid-unknown", true))
}

func TestRemoveAndContains(t *testing.T) {
	lib := NewLibrary()
	assert.True(t, lib.Contains("vid-ea-03"))
	require.True(t, lib.Remove("vid-ea-03"))
	assert.False(t, lib.Contains("vid-ea-03"))
	assert.Len(t, lib.Videos(), 2)
	assert.False(t, lib.Remove("vid-ea-03"))
}

func TestReplaceEditsInMemory(t *testing.T) {
	lib := NewLibrary()
	edited := *lib.Get("vid-ea-01")
	title := "Renamed"
	edited.Title = &title
	require.True(t, lib.Replace(edited))
	assert.Equal(t, "Renamed", *lib.Get("vid-ea-01").Title)
}
