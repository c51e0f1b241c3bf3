package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/timetrac/timetrac/internal/models"
	"github.com/timetrac/timetrac/internal/server/storage"
)

const entryColumns = `id, user_id, project, tags, note, color,
       location_lat, location_lng, location_addr, photo_data,
       start_at, end_at, created_at, updated_at`

// StartEntry atomically closes any running entry for the user and inserts a
// new open one. The close and the insert share one transaction; with the
// single-writer connection no concurrent start can interleave, so two open
// entries cannot coexist.
func (s *Storage) StartEntry(ctx context.Context, userID string, fields storage.NewEntry) (*models.TimeEntry, error) {
	now := time.Now()

	color := strings.TrimSpace(fields.Color)
	if color == "" {
		color = models.DefaultColor
	}

	tags := fields.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Auto-stop: a new start always wins over a forgotten running entry.
	result, err := tx.ExecContext(ctx,
		`UPDATE time_entries SET end_at = ?, updated_at = ? WHERE user_id = ? AND end_at IS NULL`,
		now.Unix(), now.Unix(), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to close running entries: %w", err)
	}
	closed, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	entry := &models.TimeEntry{
		ID:           uuid.New().String(),
		UserID:       userID,
		Project:      fields.Project,
		Tags:         tags,
		Note:         fields.Note,
		Color:        color,
		LocationLat:  fields.LocationLat,
		LocationLng:  fields.LocationLng,
		LocationAddr: fields.LocationAddr,
		PhotoData:    fields.PhotoData,
		StartAt:      now,
		EndAt:        nil,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO time_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)
	`,
		entry.ID,
		entry.UserID,
		entry.Project,
		string(tagsJSON),
		entry.Note,
		entry.Color,
		nullFloat(entry.LocationLat),
		nullFloat(entry.LocationLng),
		nullString(entry.LocationAddr),
		nullString(entry.PhotoData),
		entry.StartAt.Unix(),
		entry.CreatedAt.Unix(),
		entry.UpdatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	if closed > 0 {
		// The implicit close silently discards a forgotten session's open end.
		s.logger.WarnContext(ctx, "auto-closed running entries on start",
			slog.String("user_id", userID),
			slog.Int64("closed", closed),
		)
	}

	return entry, nil
}

// StopEntry closes an entry. With a non-empty entryID the entry must belong to
// the user; with an empty entryID the most recently started running entry is
// closed.
func (s *Storage) StopEntry(ctx context.Context, userID, entryID string) (*models.TimeEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var entry *models.TimeEntry

	if entryID != "" {
		entry, err = scanEntry(tx.QueryRowContext(ctx,
			`SELECT `+entryColumns+` FROM time_entries WHERE id = ? AND user_id = ?`,
			entryID, userID,
		))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, storage.ErrEntryNotFound
			}
			return nil, err
		}
	} else {
		entry, err = scanEntry(tx.QueryRowContext(ctx,
			`SELECT `+entryColumns+` FROM time_entries
			 WHERE user_id = ? AND end_at IS NULL
			 ORDER BY start_at DESC LIMIT 1`,
			userID,
		))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, storage.ErrNoRunningEntry
			}
			return nil, err
		}
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE time_entries SET end_at = ?, updated_at = ? WHERE id = ?`,
		now.Unix(), now.Unix(), entry.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to stop entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	entry.EndAt = &now
	entry.UpdatedAt = now

	return entry, nil
}

// UpdateEntry applies a partial update to an owned entry. Only non-nil patch
// fields are written; start/end times cannot be edited here.
func (s *Storage) UpdateEntry(ctx context.Context, userID, entryID string, patch storage.EntryPatch) (*models.TimeEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entry, err := scanEntry(tx.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE id = ? AND user_id = ?`,
		entryID, userID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntryNotFound
		}
		return nil, err
	}

	if patch.Project != nil {
		entry.Project = strings.TrimSpace(*patch.Project)
	}
	if patch.Tags != nil {
		entry.Tags = *patch.Tags
		if entry.Tags == nil {
			entry.Tags = []string{}
		}
	}
	if patch.Note != nil {
		entry.Note = *patch.Note
	}
	if patch.Color != nil && strings.TrimSpace(*patch.Color) != "" {
		entry.Color = strings.TrimSpace(*patch.Color)
	}
	entry.UpdatedAt = time.Now()

	tagsJSON, err := json.Marshal(entry.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE time_entries
		SET project = ?, tags = ?, note = ?, color = ?, updated_at = ?
		WHERE id = ?
	`,
		entry.Project,
		string(tagsJSON),
		entry.Note,
		entry.Color,
		entry.UpdatedAt.Unix(),
		entry.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return entry, nil
}

// DeleteEntry removes an owned entry. Ownership is enforced by the WHERE
// clause and checked via the affected row count, avoiding a read-then-write
// race.
func (s *Storage) DeleteEntry(ctx context.Context, userID, entryID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM time_entries WHERE id = ? AND user_id = ?`,
		entryID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrEntryNotFound
	}

	return nil
}

// ListEntries returns the user's entries ordered by start time descending,
// capped at storage.ListLimit.
func (s *Storage) ListEntries(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE user_id = ?
		 ORDER BY start_at DESC
		 LIMIT ?`,
		userID, storage.ListLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*models.TimeEntry

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.TimeEntry, error) {
	entry := &models.TimeEntry{}
	var (
		tagsJSON         string
		lat, lng         sql.NullFloat64
		addr, photo      sql.NullString
		startAt          int64
		endAt            sql.NullInt64
		createdAt, updAt int64
	)

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Project,
		&tagsJSON,
		&entry.Note,
		&entry.Color,
		&lat,
		&lng,
		&addr,
		&photo,
		&startAt,
		&endAt,
		&createdAt,
		&updAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &entry.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}

	if lat.Valid {
		entry.LocationLat = &lat.Float64
	}
	if lng.Valid {
		entry.LocationLng = &lng.Float64
	}
	if addr.Valid {
		entry.LocationAddr = &addr.String
	}
	if photo.Valid {
		entry.PhotoData = &photo.String
	}

	entry.StartAt = unixToTime(startAt)
	if endAt.Valid {
		end := unixToTime(endAt.Int64)
		entry.EndAt = &end
	}
	entry.CreatedAt = unixToTime(createdAt)
	entry.UpdatedAt = unixToTime(updAt)

	return entry, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
