package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajbgithub/aivideos/models"
)

const testMaxFileSize = 500 * 1024 * 1024

// fakeVideoStore records calls and plays back scripted results.
type fakeVideoStore struct {
	calls []string

	insertRow *models.VideoRow
	insertErr error
	updateRow *models.VideoRow
	updateErr error
	deleteErr error

	lastInsert  *models.VideoInsert
	lastChanges map[string]interface{}
}

func (f *fakeVideoStore) List(ctx context.Context) ([]models.VideoRow, error) { return nil, nil }

func (f *fakeVideoStore) Get(ctx context.Context, id string) (*models.VideoRow, error) {
	return nil, nil
}

func (f *fakeVideoStore) ListByUploaderEmail(ctx context.Context, email, excludeID string, limit int) ([]models.VideoRow, error) {
	return nil, nil
}

func (f *fakeVideoStore) Insert(ctx context.Context, payload models.VideoInsert) (*models.VideoRow, error) {
	f.calls = append(f.calls, "insert")
	f.lastInsert = &payload
	return f.insertRow, f.insertErr
}

func (f *fakeVideoStore) Update(ctx context.Context, id string, changes map[string]interface{}) (*models.VideoRow, error) {
	f.calls = append(f.calls, "update")
	f.lastChanges = changes
	return f.updateRow, f.updateErr
}

func (f *fakeVideoStore) SetTopRated(ctx context.Context, id string, topRated bool) error {
	f.calls = append(f.calls, "set_top_rated")
	return nil
}

func (f *fakeVideoStore) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	return f.deleteErr
}

func (f *fakeVideoStore) IncrementViewCount(ctx context.Context, id string) (int64, error) {
	f.calls = append(f.calls, "increment")
	return 0, nil
}

// fakeBlobStore records uploads and removals.
type fakeBlobStore struct {
	calls     []string
	uploaded  []string
	removed   []string
	uploadErr error
}

func (f *fakeBlobStore) Upload(ctx context.Context, path string, content io.Reader, contentType string) error {
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded = append(f.uploaded, path)
	return nil
}

func (f *fakeBlobStore) PublicURL(path string) string {
	return "https://cdn.example.com/ai_videos/" + path
}

func (f *fakeBlobStore) Remove(paths ...string) {
	f.calls = append(f.calls, "remove")
	f.removed = append(f.removed, paths...)
}

func newTestOrchestrator(videos *fakeVideoStore, blobs *fakeBlobStore) *Orchestrator {
	log := logrus.New()
	log.SetOutput(io.Discard)
	o := New(videos, blobs, log, testMaxFileSize)
	o.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return o
}

func testSession() *models.Session {
	return &models.Session{Name: "Jamie Doe", Email: "jamie@example.com"}
}

func rowFor(id, url, source string) *models.VideoRow {
	return &models.VideoRow{ID: &id, VideoURL: &url, Source: &source}
}

func validLinkPayload() Payload {
	return Payload{
		Title:        "My Video",
		Link:         "https://www.youtube.com/watch?v=abc123",
		Categories:   []string{"Films"},
		Acknowledged: true,
	}
}

func TestSubmitRequiresSession(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	_, err := o.Submit(context.Background(), validLinkPayload(), nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, videos.calls)
	assert.Empty(t, blobs.calls)
}

func TestSubmitRejectsNeitherFileNorLink(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	payload := validLinkPayload()
	payload.Link = "   "
	_, err := o.Submit(context.Background(), payload, testSession())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "Add a link or upload a file")
	assert.Empty(t, videos.calls)
}

func TestSubmitRejectsBothFileAndLink(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	payload := validLinkPayload()
	payload.File = &File{Name: "clip.mp4", Size: 10, Content: strings.NewReader("x")}
	_, err := o.Submit(context.Background(), payload, testSession())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "not both")
	assert.Empty(t, videos.calls)
	assert.Empty(t, blobs.calls)
}

func TestSubmitRejectsOversizedFile(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	payload := Payload{
		Categories:   []string{"Films"},
		Acknowledged: true,
		File:         &File{Name: "huge.mp4", Size: testMaxFileSize + 1, Content: strings.NewReader("x")},
	}
	_, err := o.Submit(context.Background(), payload, testSession())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "500 MB")
	assert.Empty(t, blobs.calls)
}

func TestSubmitRejectsZeroCategoriesBeforeAnyRemoteCall(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	payload := validLinkPayload()
	payload.Categories = nil
	_, err := o.Submit(context.Background(), payload, testSession())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, videos.calls)
	assert.Empty(t, blobs.calls)
}

func TestSubmitRequiresAcknowledgment(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	payload := validLinkPayload()
	payload.Acknowledged = false
	_, err := o.Submit(context.Background(), payload, testSession())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "acknowledge")
	assert.Empty(t, videos.calls)
}

func TestSubmitLinkPathNormalizesAndInserts(t *testing.T) {
	videos := &fakeVideoStore{
		insertRow: rowFor("new-id", "https://www.youtube.com/embed/abc123", "youtube"),
	}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	video, err := o.Submit(context.Background(), validLinkPayload(), testSession())
	require.NoError(t, err)
	require.NotNil(t, video)
	assert.Equal(t, "new-id", video.ID)

	require.NotNil(t, videos.lastInsert)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", videos.lastInsert.VideoURL)
	assert.Equal(t, models.SourceYouTube, videos.lastInsert.Source)
	assert.Nil(t, videos.lastInsert.StorageObjectPath)
	assert.Equal(t, "jamie@example.com", videos.lastInsert.UploaderEmail)
	assert.Equal(t, "Jamie Doe", videos.lastInsert.UploaderName, "session name when no full name given")
	assert.False(t, videos.lastInsert.IsTopRated)
	assert.Empty(t, blobs.calls, "link path touches no blob storage")
}

func TestSubmitFilePathUploadsThenInserts(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	key := StorageKey("jamie@example.com", "My Clip!.mp4", time.UnixMilli(1700000000000))
	url := "https://cdn.example.com/ai_videos/" + key
	source := "file"
	videos.insertRow = &models.VideoRow{ID: strPtr("new-id"), VideoURL: &url, Source: &source, StorageObjectPath: &key}

	payload := Payload{
		Title:        "Clip",
		Categories:   []string{"Funnies", "Memes"},
		Acknowledged: true,
		File:         &File{Name: "My Clip!.mp4", Size: 1024, ContentType: "video/mp4", Content: strings.NewReader("data")},
	}
	video, err := o.Submit(context.Background(), payload, testSession())
	require.NoError(t, err)
	require.NotNil(t, video)

	require.Len(t, blobs.uploaded, 1)
	assert.Equal(t, key, blobs.uploaded[0])
	require.NotNil(t, videos.lastInsert.StorageObjectPath)
	assert.Equal(t, key, *videos.lastInsert.StorageObjectPath)
	assert.Equal(t, models.SourceFile, videos.lastInsert.Source)
	assert.Equal(t, []string{"upload", "insert"}, append(blobs.calls, videos.calls...))
}

func TestSubmitBlobUploadFailurePropagatesVerbatim(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{uploadErr: errors.New("bucket quota exceeded")}
	o := newTestOrchestrator(videos, blobs)

	payload := Payload{
		Categories:   []string{"Films"},
		Acknowledged: true,
		File:         &File{Name: "clip.mp4", Size: 10, Content: strings.NewReader("x")},
	}
	_, err := o.Submit(context.Background(), payload, testSession())
	require.EqualError(t, err, "bucket quota exceeded")
	assert.Empty(t, videos.calls, "insert never runs after a failed upload")
}

func TestSubmitInsertFailureLeavesOrphanBlob(t *testing.T) {
	videos := &fakeVideoStore{insertErr: errors.New("row level security")}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	payload := Payload{
		Categories:   []string{"Films"},
		Acknowledged: true,
		File:         &File{Name: "clip.mp4", Size: 10, Content: strings.NewReader("x")},
	}
	_, err := o.Submit(context.Background(), payload, testSession())
	require.EqualError(t, err, "row level security")
	assert.Empty(t, blobs.removed, "create-flow orphans are not cleaned up")
}

func TestSubmitUnmappableReadBackReportsRefresh(t *testing.T) {
	videos := &fakeVideoStore{insertRow: &models.VideoRow{}}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	_, err := o.Submit(context.Background(), validLinkPayload(), testSession())
	require.ErrorIs(t, err, ErrRefreshRequired)
	assert.False(t, IsValidation(err))
}

func existingFileVideo() models.Video {
	path := "jamie@example.com/old-1600000000000.mp4"
	return models.Video{
		ID:                "vid-1",
		URL:               "https://cdn.example.com/ai_videos/" + path,
		Source:            models.SourceFile,
		StorageObjectPath: &path,
		Uploader:          models.Uploader{Name: "Jamie Doe", Email: "jamie@example.com"},
		Categories:        []string{"Films"},
	}
}

func TestUpdateRejectsFileAndLinkTogether(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	_, err := o.UpdateVideo(context.Background(), existingFileVideo(), Update{
		Categories: []string{"Films"},
		Link:       "https://youtu.be/abc",
		NewFile:    &File{Name: "clip.mp4", Size: 10, Content: strings.NewReader("x")},
	}, testSession())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, videos.calls)
	assert.Empty(t, blobs.calls)
}

func TestUpdateRowFailureRemovesNewlyUploadedBlob(t *testing.T) {
	videos := &fakeVideoStore{updateErr: errors.New("conflict")}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	_, err := o.UpdateVideo(context.Background(), existingFileVideo(), Update{
		Categories: []string{"Films"},
		NewFile:    &File{Name: "next.mp4", Size: 10, ContentType: "video/mp4", Content: strings.NewReader("x")},
	}, testSession())
	require.EqualError(t, err, "conflict")
	require.Len(t, blobs.removed, 1)
	assert.Contains(t, blobs.removed[0], "next-")
}

func TestUpdateFileReplacementRemovesPreviousBlobAfterSuccess(t *testing.T) {
	newPath := StorageKey("jamie@example.com", "next.mp4", time.UnixMilli(1700000000000))
	url := "https://cdn.example.com/ai_videos/" + newPath
	source := "file"
	videos := &fakeVideoStore{
		updateRow: &models.VideoRow{ID: strPtr("vid-1"), VideoURL: &url, Source: &source, StorageObjectPath: &newPath},
	}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	prior := existingFileVideo()
	updated, err := o.UpdateVideo(context.Background(), prior, Update{
		Categories: []string{"Films"},
		NewFile:    &File{Name: "next.mp4", Size: 10, ContentType: "video/mp4", Content: strings.NewReader("x")},
	}, testSession())
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Len(t, blobs.removed, 1)
	assert.Equal(t, *prior.StorageObjectPath, blobs.removed[0])
}

func TestUpdateLinkOverFileRemovesPreviousBlob(t *testing.T) {
	url := "https://www.youtube.com/embed/abc"
	source := "youtube"
	videos := &fakeVideoStore{
		updateRow: &models.VideoRow{ID: strPtr("vid-1"), VideoURL: &url, Source: &source},
	}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	prior := existingFileVideo()
	updated, err := o.UpdateVideo(context.Background(), prior, Update{
		Categories: []string{"Films"},
		Link:       "https://www.youtube.com/watch?v=abc",
	}, testSession())
	require.NoError(t, err)
	assert.Equal(t, models.SourceYouTube, updated.Source)

	require.NotNil(t, videos.lastChanges)
	assert.Nil(t, videos.lastChanges["storage_object_path"])
	require.Len(t, blobs.removed, 1)
	assert.Equal(t, *prior.StorageObjectPath, blobs.removed[0])
}

func TestUpdateMetadataOnlyKeepsMediaAndBlob(t *testing.T) {
	prior := existingFileVideo()
	source := "file"
	videos := &fakeVideoStore{
		updateRow: &models.VideoRow{ID: strPtr("vid-1"), VideoURL: &prior.URL, Source: &source, StorageObjectPath: prior.StorageObjectPath},
	}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	_, err := o.UpdateVideo(context.Background(), prior, Update{
		Title:       "New title",
		Categories:  []string{"Drama"},
		DisplayName: "Jamie D.",
	}, testSession())
	require.NoError(t, err)
	assert.Empty(t, blobs.removed)
	assert.Equal(t, prior.URL, videos.lastChanges["video_url"])
	assert.Equal(t, "Jamie D.", videos.lastChanges["full_name"])
	assert.Equal(t, "Jamie D.", videos.lastChanges["uploader_name"])
}

func TestDeleteIssuesRowDeleteBeforeBlobRemoval(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	err := o.Delete(context.Background(), existingFileVideo())
	require.NoError(t, err)
	assert.Equal(t, []string{"delete"}, videos.calls)
	assert.Equal(t, []string{"remove"}, blobs.calls)
}

func TestDeleteRowFailureSkipsBlobRemoval(t *testing.T) {
	videos := &fakeVideoStore{deleteErr: errors.New("nope")}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	err := o.Delete(context.Background(), existingFileVideo())
	require.EqualError(t, err, "nope")
	assert.Empty(t, blobs.calls)
}

func TestDeleteWithoutStoragePathSkipsBlobRemoval(t *testing.T) {
	videos := &fakeVideoStore{}
	blobs := &fakeBlobStore{}
	o := newTestOrchestrator(videos, blobs)

	video := existingFileVideo()
	video.Source = models.SourceYouTube
	video.StorageObjectPath = nil
	require.NoError(t, o.Delete(context.Background(), video))
	assert.Empty(t, blobs.calls)
}

func TestStorageKeyShape(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	key := StorageKey("jamie@example.com", "My Summer Clip (final)!.MP4", now)
	assert.Equal(t, fmt.Sprintf("jamieexample.com/my-summer-clip-final-%d.MP4", now.UnixMilli()), key)
}

func TestStorageKeyFallsBackToUploadForEmptyBase(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	key := StorageKey("a@b.co", "???.mov", now)
	assert.Equal(t, fmt.Sprintf("ab.co/upload-%d.mov", now.UnixMilli()), key)
}

func strPtr(s string) *string { return &s }
