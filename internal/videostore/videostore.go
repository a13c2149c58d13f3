// Package videostore wraps the videos table in the remote PostgREST store.
package videostore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	postgrest "github.com/supabase-community/postgrest-go"

	"github.com/ajbgithub/aivideos/models"
)

const videosTable = "videos"

// incrementViewCountFn is the Postgres function performing an atomic
// view-count bump, exposed through the PostgREST RPC surface.
const incrementViewCountFn = "increment_video_view_count"

// Store is the remote relational surface consumed by the rest of the
// application. Implementations return raw rows; mapping and filtering of
// malformed rows stays with callers.
type Store interface {
	// List returns every stored row ordered by creation time descending.
	List(ctx context.Context) ([]models.VideoRow, error)

	// Get returns the row with the given id, or nil when absent.
	Get(ctx context.Context, id string) (*models.VideoRow, error)

	// ListByUploaderEmail returns rows by uploader email, newest first,
	// excluding excludeID, capped at limit.
	ListByUploaderEmail(ctx context.Context, email, excludeID string, limit int) ([]models.VideoRow, error)

	// Insert stores a new row and returns the created representation, or nil
	// when the store returned no row.
	Insert(ctx context.Context, payload models.VideoInsert) (*models.VideoRow, error)

	// Update applies a partial change set keyed by id and returns the updated
	// representation, or nil when the store returned no row.
	Update(ctx context.Context, id string, changes map[string]interface{}) (*models.VideoRow, error)

	// SetTopRated flips the editorial flag on a stored row.
	SetTopRated(ctx context.Context, id string, topRated bool) error

	// Delete removes the row with the given id.
	Delete(ctx context.Context, id string) error

	// IncrementViewCount bumps the stored counter atomically and returns the
	// new count.
	IncrementViewCount(ctx context.Context, id string) (int64, error)
}

type postgrestStore struct {
	db *postgrest.Client
}

// New returns a Store backed by the given PostgREST client.
func New(db *postgrest.Client) Store {
	return &postgrestStore{db: db}
}

func (s *postgrestStore) List(ctx context.Context) ([]models.VideoRow, error) {
	var rows []models.VideoRow
	_, err := s.db.From(videosTable).
		Select(models.VideoColumns, "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	return rows, nil
}

func (s *postgrestStore) Get(ctx context.Context, id string) (*models.VideoRow, error) {
	var rows []models.VideoRow
	_, err := s.db.From(videosTable).
		Select(models.VideoColumns, "", false).
		Eq("id", id).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("fetching video %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *postgrestStore) ListByUploaderEmail(ctx context.Context, email, excludeID string, limit int) ([]models.VideoRow, error) {
	var rows []models.VideoRow
	_, err := s.db.From(videosTable).
		Select(models.VideoColumns, "", false).
		Eq("uploader_email", email).
		Neq("id", excludeID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("listing videos by uploader: %w", err)
	}
	return rows, nil
}

func (s *postgrestStore) Insert(ctx context.Context, payload models.VideoInsert) (*models.VideoRow, error) {
	var rows []models.VideoRow
	_, err := s.db.From(videosTable).
		Insert(payload, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *postgrestStore) Update(ctx context.Context, id string, changes map[string]interface{}) (*models.VideoRow, error) {
	var rows []models.VideoRow
	_, err := s.db.From(videosTable).
		Update(changes, "representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *postgrestStore) SetTopRated(ctx context.Context, id string, topRated bool) error {
	_, _, err := s.db.From(videosTable).
		Update(map[string]interface{}{"is_top_rated": topRated}, "", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("updating top rated flag for %s: %w", id, err)
	}
	return nil
}

func (s *postgrestStore) Delete(ctx context.Context, id string) error {
	_, _, err := s.db.From(videosTable).
		Delete("", "").
		Eq("id", id).
		Execute()
	return err
}

func (s *postgrestStore) IncrementViewCount(ctx context.Context, id string) (int64, error) {
	result := s.db.Rpc(incrementViewCountFn, "", map[string]interface{}{"target_id": id})
	if s.db.ClientError != nil {
		return 0, fmt.Errorf("view count rpc: %w", s.db.ClientError)
	}

	trimmed := strings.TrimSpace(result)
	if count, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return count, nil
	}

	// Some PostgREST configurations wrap scalar results in JSON.
	var count int64
	if err := json.Unmarshal([]byte(trimmed), &count); err != nil {
		return 0, fmt.Errorf("view count rpc returned %q", result)
	}
	return count, nil
}
