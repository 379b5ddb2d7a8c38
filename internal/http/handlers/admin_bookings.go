// Package handlers contains the admin dashboard and document management
// endpoints. The conversational endpoint lives with the conversation package.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookwise-ai/bookwise/internal/store"
	"github.com/bookwise-ai/bookwise/pkg/logging"
)

// AdminBookingsHandler exposes booking management for staff.
type AdminBookingsHandler struct {
	store  *store.Store
	logger *logging.Logger
}

// NewAdminBookingsHandler creates the handler.
func NewAdminBookingsHandler(s *store.Store, logger *logging.Logger) *AdminBookingsHandler {
	if s == nil {
		panic("handlers: booking store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminBookingsHandler{store: s, logger: logger}
}

// List handles GET /admin/bookings. Optional query params: q (search term
// over name/email/date) and date (exact day).
func (h *AdminBookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		bookings []store.Booking
		err      error
	)
	switch {
	case r.URL.Query().Get("q") != "":
		bookings, err = h.store.SearchBookings(ctx, r.URL.Query().Get("q"))
	case r.URL.Query().Get("date") != "":
		bookings, err = h.store.BookingsByDate(ctx, r.URL.Query().Get("date"))
	default:
		bookings, err = h.store.ListBookings(ctx)
	}
	if err != nil {
		h.logger.Error("list bookings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []store.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings, "count": len(bookings)})
}

// Get handles GET /admin/bookings/{id}.
func (h *AdminBookingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	booking, err := h.store.GetBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		h.logger.Error("get booking failed", "booking_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load booking")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// CustomerBookings handles GET /admin/customers/{email}/bookings.
func (h *AdminBookingsHandler) CustomerBookings(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	bookings, err := h.store.CustomerBookings(r.Context(), email)
	if err != nil {
		h.logger.Error("customer bookings failed", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	if bookings == nil {
		bookings = []store.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings, "count": len(bookings)})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /admin/bookings/{id}/status.
func (h *AdminBookingsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}
	err := h.store.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
	case err != nil:
		// Invalid status values come back as plain errors.
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Info("booking status updated", "booking_id", id, "status", req.Status)
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
	}
}

// Delete handles DELETE /admin/bookings/{id}.
func (h *AdminBookingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	err := h.store.DeleteBooking(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
	case err != nil:
		h.logger.Error("delete booking failed", "booking_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete booking")
	default:
		h.logger.Info("booking deleted", "booking_id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func bookingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
