// Package uploads implements the submission workflow: validate a payload,
// store the blob or normalize the link, persist the record, and hand the
// mapped result back for local state.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ajbgithub/aivideos/internal/blobstore"
	"github.com/ajbgithub/aivideos/internal/videolink"
	"github.com/ajbgithub/aivideos/internal/videostore"
	"github.com/ajbgithub/aivideos/models"
)

// ValidationError is a client-local rejection. It is raised before any remote
// call is issued and its message renders inline next to the offending control.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErr(msg string) error { return &ValidationError{msg: msg} }

// IsValidation reports whether err is a pre-submission validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrRefreshRequired signals that the remote write succeeded but the returned
// row could not be mapped: a display inconsistency, not a failed operation.
var ErrRefreshRequired = errors.New("upload saved but the post could not be loaded, please refresh")

// File is a submitted video file. Content is read exactly once during upload.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

// Payload is a new submission.
type Payload struct {
	Title        string
	Description  string
	Link         string
	FullName     string
	Categories   []string
	Acknowledged bool
	File         *File
}

// Update is an edit to an existing video. NewFile and Link are mutually
// exclusive; when both are empty only metadata changes. DisplayName is the
// owner's effective display name and rewrites both full_name and
// uploader_name on the row.
type Update struct {
	Title       string
	Description string
	Link        string
	Categories  []string
	DisplayName string
	NewFile     *File
}

// Orchestrator runs the upload, update, and delete workflows against the
// injected stores.
type Orchestrator struct {
	videos      videostore.Store
	blobs       blobstore.Store
	log         *logrus.Logger
	maxFileSize int64
	now         func() time.Time
}

// New returns an Orchestrator. maxFileSize is the upload ceiling in bytes.
func New(videos videostore.Store, blobs blobstore.Store, log *logrus.Logger, maxFileSize int64) *Orchestrator {
	return &Orchestrator{
		videos:      videos,
		blobs:       blobs,
		log:         log,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
}

func (o *Orchestrator) fileTooLarge() error {
	return validationErr(fmt.Sprintf("Video file must be %d MB or smaller.", o.maxFileSize/(1024*1024)))
}

// Submit validates and persists a new submission. On success the returned
// video is ready for local state; on failure nothing was persisted, with one
// documented exception: a blob uploaded before a failed insert is left behind
// as a known residual for out-of-band reconciliation.
func (o *Orchestrator) Submit(ctx context.Context, payload Payload, session *models.Session) (*models.Video, error) {
	if session == nil {
		return nil, validationErr("Please sign in to upload.")
	}

	hasFile := payload.File != nil
	trimmedLink := strings.TrimSpace(payload.Link)
	hasLink := trimmedLink != ""

	switch {
	case !hasFile && !hasLink:
		return nil, validationErr("Add a link or upload a file.")
	case hasFile && hasLink:
		return nil, validationErr("Choose either a file or a video link, not both.")
	}

	if hasFile && payload.File.Size > o.maxFileSize {
		return nil, o.fileTooLarge()
	}

	categories := sanitizeCategories(payload.Categories)
	if len(categories) == 0 || len(categories) > models.MaxCategories {
		return nil, validationErr(fmt.Sprintf("Choose between 1 and %d categories.", models.MaxCategories))
	}

	if !payload.Acknowledged {
		return nil, validationErr("Please acknowledge the redistribution statement before uploading.")
	}

	var (
		videoURL          string
		source            models.VideoSource
		storageObjectPath *string
	)

	if hasFile {
		key := StorageKey(session.Email, payload.File.Name, o.now())
		if err := o.blobs.Upload(ctx, key, payload.File.Content, payload.File.ContentType); err != nil {
			return nil, err
		}
		storageObjectPath = &key
		videoURL = o.blobs.PublicURL(key)
		source = models.SourceFile
	} else {
		link := videolink.Normalize(trimmedLink)
		videoURL = link.URL
		source = link.Source
	}

	trimmedFullName := strings.TrimSpace(payload.FullName)
	displayName := trimmedFullName
	if displayName == "" {
		displayName = session.Name
	}

	insert := models.VideoInsert{
		Title:             models.TextOrNil(payload.Title),
		Description:       models.TextOrNil(payload.Description),
		VideoURL:          videoURL,
		Source:            source,
		StorageObjectPath: storageObjectPath,
		Categories:        categories,
		FullName:          models.TextOrNil(trimmedFullName),
		ViewCount:         0,
		IsTopRated:        false,
		UploaderName:      displayName,
		UploaderEmail:     session.Email,
	}

	row, err := o.videos.Insert(ctx, insert)
	if err != nil {
		if storageObjectPath != nil {
			// Create-flow orphan: the blob is kept for out-of-band
			// reconciliation rather than deleted here.
			o.log.WithFields(logrus.Fields{
				"storage_object_path": *storageObjectPath,
				"uploader_email":      session.Email,
			}).Warn("Insert failed after blob upload, orphaned object left in storage")
		}
		return nil, err
	}

	video := models.MapVideoRow(row)
	if video == nil {
		return nil, ErrRefreshRequired
	}
	return video, nil
}

// UpdateVideo applies an edit to a remotely stored video, replacing its media
// when a new file or link is supplied. A blob uploaded for an edit that then
// fails is actively removed; a blob superseded by a successful edit is removed
// after the row update lands.
func (o *Orchestrator) UpdateVideo(ctx context.Context, video models.Video, updates Update, session *models.Session) (*models.Video, error) {
	if session == nil {
		return nil, validationErr("Please sign in to manage your uploads.")
	}

	trimmedLink := strings.TrimSpace(updates.Link)
	if updates.NewFile != nil && trimmedLink != "" {
		return nil, validationErr("Choose either a new file or a video link, not both.")
	}

	if updates.NewFile != nil && updates.NewFile.Size > o.maxFileSize {
		return nil, o.fileTooLarge()
	}

	categories := sanitizeCategories(updates.Categories)
	if len(categories) == 0 || len(categories) > models.MaxCategories {
		return nil, validationErr(fmt.Sprintf("Choose between 1 and %d categories.", models.MaxCategories))
	}

	nextURL := video.URL
	nextSource := video.Source
	nextStoragePath := video.StorageObjectPath
	previousStoragePath := video.StorageObjectPath
	var newlyUploadedPath *string

	if updates.NewFile != nil {
		key := StorageKey(session.Email, updates.NewFile.Name, o.now())
		if err := o.blobs.Upload(ctx, key, updates.NewFile.Content, updates.NewFile.ContentType); err != nil {
			return nil, err
		}
		newlyUploadedPath = &key
		nextStoragePath = &key
		nextURL = o.blobs.PublicURL(key)
		nextSource = models.SourceFile
	} else if trimmedLink != "" {
		link := videolink.Normalize(trimmedLink)
		nextURL = link.URL
		nextSource = link.Source
		nextStoragePath = nil
	}

	displayName := strings.TrimSpace(updates.DisplayName)
	if displayName == "" {
		displayName = strings.TrimSpace(session.Name)
	}
	if displayName == "" {
		displayName = "Creator"
	}

	changes := map[string]interface{}{
		"title":               models.TextOrNil(updates.Title),
		"description":         models.TextOrNil(updates.Description),
		"categories":          categories,
		"full_name":           displayName,
		"uploader_name":       displayName,
		"video_url":           nextURL,
		"source":              nextSource,
		"storage_object_path": nextStoragePath,
	}

	row, err := o.videos.Update(ctx, video.ID, changes)
	if err != nil {
		// The update has a known-good prior state to fall back to, so the
		// just-uploaded blob is an orphan and gets cleaned up.
		if newlyUploadedPath != nil {
			o.blobs.Remove(*newlyUploadedPath)
		}
		return nil, err
	}

	mapped := models.MapVideoRow(row)
	if mapped == nil {
		return nil, ErrRefreshRequired
	}

	replacedByFile := updates.NewFile != nil && previousStoragePath != nil &&
		(nextStoragePath == nil || *previousStoragePath != *nextStoragePath)
	replacedByLink := updates.NewFile == nil && trimmedLink != "" && previousStoragePath != nil

	if replacedByFile || replacedByLink {
		o.blobs.Remove(*previousStoragePath)
	}

	return mapped, nil
}

// Delete removes the persisted row first; only once that succeeds is the
// associated blob removed, best-effort.
func (o *Orchestrator) Delete(ctx context.Context, video models.Video) error {
	if err := o.videos.Delete(ctx, video.ID); err != nil {
		return err
	}
	if video.StorageObjectPath != nil && *video.StorageObjectPath != "" {
		o.blobs.Remove(*video.StorageObjectPath)
	}
	return nil
}

func sanitizeCategories(categories []string) []string {
	sanitized := make([]string, 0, models.MaxCategories)
	for _, category := range categories {
		if strings.TrimSpace(category) == "" {
			continue
		}
		sanitized = append(sanitized, category)
		if len(sanitized) == models.MaxCategories {
			break
		}
	}
	return sanitized
}

var (
	unsafeBaseRunes = regexp.MustCompile(`[^a-z0-9-_]+`)
	hyphenRuns      = regexp.MustCompile(`-+`)
	edgeHyphens     = regexp.MustCompile(`(^-|-$)`)
	unsafeKeyRunes  = regexp.MustCompile(`[^a-zA-Z0-9./_-]`)
)

// StorageKey derives a collision-resistant object key for an uploaded file:
// the uploader's email as a folder, the sanitized base filename, a time-based
// uniqueness suffix, and the original extension.
func StorageKey(email, filename string, now time.Time) string {
	extension := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, extension)

	safeBase := strings.ToLower(base)
	safeBase = unsafeBaseRunes.ReplaceAllString(safeBase, "-")
	safeBase = hyphenRuns.ReplaceAllString(safeBase, "-")
	safeBase = edgeHyphens.ReplaceAllString(safeBase, "")
	if safeBase == "" {
		safeBase = "upload"
	}

	key := fmt.Sprintf("%s/%s-%d%s", email, safeBase, now.UnixMilli(), extension)
	return unsafeKeyRunes.ReplaceAllString(key, "")
}
