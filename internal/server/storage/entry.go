package storage

import (
	"context"

	"github.com/timetrac/timetrac/internal/models"
)

// NewEntry carries the caller-supplied fields for a started entry. Zero values
// mean "not provided"; color falls back to models.DefaultColor.
type NewEntry struct {
	Project      string
	Tags         []string
	Note         string
	Color        string
	LocationLat  *float64
	LocationLng  *float64
	LocationAddr *string
	PhotoData    *string
}

// EntryPatch is a partial update. Only non-nil fields are applied, so an
// absent field can never clear a stored value.
type EntryPatch struct {
	Project *string
	Tags    *[]string
	Note    *string
	Color   *string
}

// ListLimit caps ListEntries result sets.
const ListLimit = 200

// EntryStorage is the session ledger. Implementations must uphold the single
// open entry invariant: for any user at most one entry has a null end time at
// any observable point.
type EntryStorage interface {
	// StartEntry atomically closes any running entry for the user and inserts
	// a new open one. Returns the new entry.
	StartEntry(ctx context.Context, userID string, fields NewEntry) (*models.TimeEntry, error)

	// StopEntry closes an entry. With a non-empty entryID the entry must be
	// owned by the user (ErrEntryNotFound otherwise); with an empty entryID
	// the most recently started running entry is closed (ErrNoRunningEntry if
	// none).
	StopEntry(ctx context.Context, userID, entryID string) (*models.TimeEntry, error)

	// UpdateEntry applies a partial update to an owned entry.
	// Returns ErrEntryNotFound if the entry is absent or not owned.
	UpdateEntry(ctx context.Context, userID, entryID string, patch EntryPatch) (*models.TimeEntry, error)

	// DeleteEntry removes an owned entry.
	// Returns ErrEntryNotFound if zero rows were affected.
	DeleteEntry(ctx context.Context, userID, entryID string) error

	// ListEntries returns the user's entries ordered by start time descending,
	// capped at ListLimit.
	ListEntries(ctx context.Context, userID string) ([]*models.TimeEntry, error)
}
