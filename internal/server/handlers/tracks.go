package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/timetrac/timetrac/internal/models"
	"github.com/timetrac/timetrac/internal/server/storage"
	"github.com/timetrac/timetrac/internal/validation"
	"github.com/timetrac/timetrac/pkg/api"
)

// TracksHandler exposes the time-entry lifecycle over HTTP. The state machine
// itself lives in the storage layer; this handler only shapes requests and
// responses.
type TracksHandler struct {
	logger  *slog.Logger
	entries storage.EntryStorage
}

// NewTracksHandler creates a new tracks handler
func NewTracksHandler(logger *slog.Logger, entries storage.EntryStorage) *TracksHandler {
	return &TracksHandler{
		logger:  logger,
		entries: entries,
	}
}

// List handles GET /api/v1/tracks
func (h *TracksHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.entries.ListEntries(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list entries", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []*models.TimeEntry{}
	}

	sendJSON(h.logger, w, entries, http.StatusOK)
}

// Start handles POST /api/v1/tracks/start
// Any running entry is closed first; starting always wins.
func (h *TracksHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Project = strings.TrimSpace(req.Project)
	req.Color = strings.TrimSpace(req.Color)
	if req.Color != "" {
		if err := validation.ValidateColor(req.Color); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	fields := storage.NewEntry{
		Project:      req.Project,
		Tags:         req.Tags,
		Note:         req.Note,
		Color:        req.Color,
		LocationLat:  req.LocationLat,
		LocationLng:  req.LocationLng,
		LocationAddr: req.LocationAddr,
		PhotoData:    req.PhotoData,
	}

	entry, err := h.entries.StartEntry(ctx, user.ID, fields)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start entry", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, entry, http.StatusCreated)
}

// Stop handles POST /api/v1/tracks/stop
// An empty body or empty id stops the most recent running entry.
func (h *TracksHandler) Stop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.StopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.entries.StopEntry(ctx, user.ID, req.ID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNoRunningEntry):
			sendError(h.logger, w, "no running entry", http.StatusNotFound)
		case errors.Is(err, storage.ErrEntryNotFound):
			sendError(h.logger, w, "not found", http.StatusNotFound)
		default:
			h.logger.ErrorContext(ctx, "failed to stop entry", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	sendJSON(h.logger, w, entry, http.StatusOK)
}

// Update handles PATCH /api/v1/tracks/{id}
func (h *TracksHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		sendError(h.logger, w, "id is required", http.StatusBadRequest)
		return
	}

	var req api.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Color != nil && strings.TrimSpace(*req.Color) != "" {
		if err := validation.ValidateColor(strings.TrimSpace(*req.Color)); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	patch := storage.EntryPatch{
		Project: req.Project,
		Tags:    req.Tags,
		Note:    req.Note,
		Color:   req.Color,
	}

	entry, err := h.entries.UpdateEntry(ctx, user.ID, id, patch)
	if err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			// Absent and not-owned look identical on purpose.
			sendError(h.logger, w, "not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update entry", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, entry, http.StatusOK)
}

// Delete handles DELETE /api/v1/tracks/{id}
func (h *TracksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		sendError(h.logger, w, "id is required", http.StatusBadRequest)
		return
	}

	if err := h.entries.DeleteEntry(ctx, user.ID, id); err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			sendError(h.logger, w, "not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete entry", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.StatusResponse{Status: "deleted"}, http.StatusOK)
}
