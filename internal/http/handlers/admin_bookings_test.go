package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"

	"github.com/bookwise-ai/bookwise/internal/store"
)

func newAdminRouter(t *testing.T) (*chi.Mux, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewAdminBookingsHandler(store.NewWithDB(db, nil), nil)
	r := chi.NewRouter()
	r.Get("/admin/bookings", h.List)
	r.Get("/admin/bookings/{id}", h.Get)
	r.Patch("/admin/bookings/{id}/status", h.UpdateStatus)
	r.Delete("/admin/bookings/{id}", h.Delete)
	r.Get("/admin/customers/{email}/bookings", h.CustomerBookings)
	return r, mock
}

func bookingRows() *sqlmock.Rows {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "name", "email", "phone", "booking_type", "date", "time", "status", "created_at"}).
		AddRow(int64(1), "Jane Smith", "jane@example.com", "9876543210", "Spa Treatment", "2025-12-01", "14:30", "confirmed", created)
}

func TestAdminListBookings(t *testing.T) {
	r, mock := newAdminRouter(t)
	mock.ExpectQuery("SELECT .+ ORDER BY b.created_at DESC").WillReturnRows(bookingRows())

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Bookings []store.Booking `json:"bookings"`
		Count    int             `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Bookings[0].Name != "Jane Smith" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestAdminListBookingsSearch(t *testing.T) {
	r, mock := newAdminRouter(t)
	mock.ExpectQuery("SELECT .+ WHERE c.name LIKE ").
		WithArgs("%jane%", "%jane%", "%jane%").
		WillReturnRows(bookingRows())

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings?q=jane", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAdminGetBookingNotFound(t *testing.T) {
	r, mock := newAdminRouter(t)
	mock.ExpectQuery("SELECT .+ WHERE b.id = ").WithArgs(int64(42)).WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings/42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAdminGetBookingBadID(t *testing.T) {
	r, _ := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings/banana", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAdminUpdateStatus(t *testing.T) {
	r, mock := newAdminRouter(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ? WHERE id = ?")).
		WithArgs("cancelled", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPatch, "/admin/bookings/7/status", strings.NewReader(`{"status":"cancelled"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestAdminUpdateStatusInvalidValue(t *testing.T) {
	r, _ := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodPatch, "/admin/bookings/7/status", strings.NewReader(`{"status":"vaporized"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAdminDeleteBooking(t *testing.T) {
	r, mock := newAdminRouter(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = ?")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/admin/bookings/7", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestAdminCustomerBookings(t *testing.T) {
	r, mock := newAdminRouter(t)
	mock.ExpectQuery("SELECT .+ WHERE c.email = ").
		WithArgs("jane@example.com").
		WillReturnRows(bookingRows())

	req := httptest.NewRequest(http.MethodGet, "/admin/customers/jane@example.com/bookings", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
