// Package store persists confirmed bookings and their customers in SQLite.
// Customers are deduplicated by email: a repeat booking under a known email
// updates the customer's name and phone instead of inserting a second row.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	_ "modernc.org/sqlite"

	"github.com/bookwise-ai/bookwise/pkg/logging"
)

var storeTracer = otel.Tracer("bookwise.internal.store")

// ErrNotFound is returned when a booking id resolves to no row.
var ErrNotFound = errors.New("store: booking not found")

// validStatuses are the only values UpdateStatus accepts.
var validStatuses = map[string]bool{
	"confirmed": true,
	"pending":   true,
	"cancelled": true,
	"completed": true,
}

// Booking is one persisted booking joined with its customer.
type Booking struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ServiceType string    `json:"service_type"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store wraps the bookings database.
type Store struct {
	db     *sql.DB
	logger *logging.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER NOT NULL,
	booking_type TEXT NOT NULL,
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	status TEXT DEFAULT 'confirmed',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (customer_id) REFERENCES customers (customer_id)
);`

// Open opens (creating if necessary) the SQLite database at path and ensures
// the schema exists. The parent directory is created when missing.
func Open(path string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	logger.Info("booking store ready", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// NewWithDB wraps an existing handle. Intended for tests.
func NewWithDB(db *sql.DB, logger *logging.Logger) *Store {
	if db == nil {
		panic("store: db required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{db: db, logger: logger}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateBooking writes one booking inside a transaction. The customer row is
// located by email; when found, its name and phone are refreshed, otherwise a
// new customer is inserted. Returns the new booking id.
func (s *Store) CreateBooking(ctx context.Context, name, email, phone, serviceType, date, timeOfDay string) (int64, error) {
	ctx, span := storeTracer.Start(ctx, "store.create_booking")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	var customerID int64
	err = tx.QueryRowContext(ctx, "SELECT customer_id FROM customers WHERE email = ?", email).Scan(&customerID)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx,
			"UPDATE customers SET name = ?, phone = ? WHERE customer_id = ?",
			name, phone, customerID); err != nil {
			return 0, fmt.Errorf("store: update customer: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx,
			"INSERT INTO customers (name, email, phone) VALUES (?, ?, ?)",
			name, email, phone)
		if err != nil {
			return 0, fmt.Errorf("store: insert customer: %w", err)
		}
		customerID, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("store: customer id: %w", err)
		}
	default:
		return 0, fmt.Errorf("store: lookup customer: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (customer_id, booking_type, date, time, status) VALUES (?, ?, ?, ?, 'confirmed')",
		customerID, serviceType, date, timeOfDay)
	if err != nil {
		return 0, fmt.Errorf("store: insert booking: %w", err)
	}
	bookingID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: booking id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	s.logger.Info("booking created", "booking_id", bookingID, "customer_id", customerID, "service", serviceType)
	return bookingID, nil
}

const bookingColumns = `b.id, c.name, c.email, c.phone, b.booking_type, b.date, b.time, b.status, b.created_at
	FROM bookings b JOIN customers c ON b.customer_id = c.customer_id`

// ListBookings returns every booking, newest first.
func (s *Store) ListBookings(ctx context.Context) ([]Booking, error) {
	return s.queryBookings(ctx, "SELECT "+bookingColumns+" ORDER BY b.created_at DESC")
}

// GetBooking returns one booking by id, or ErrNotFound.
func (s *Store) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" WHERE b.id = ?", id)
	var b Booking
	if err := scanBooking(row.Scan, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get booking: %w", err)
	}
	return &b, nil
}

// SearchBookings matches the term against customer name, email, and booking
// date, newest first.
func (s *Store) SearchBookings(ctx context.Context, term string) ([]Booking, error) {
	pattern := "%" + term + "%"
	return s.queryBookings(ctx,
		"SELECT "+bookingColumns+" WHERE c.name LIKE ? OR c.email LIKE ? OR b.date LIKE ? ORDER BY b.created_at DESC",
		pattern, pattern, pattern)
}

// BookingsByDate returns the day's bookings ordered by time.
func (s *Store) BookingsByDate(ctx context.Context, date string) ([]Booking, error) {
	return s.queryBookings(ctx, "SELECT "+bookingColumns+" WHERE b.date = ? ORDER BY b.time", date)
}

// CustomerBookings returns every booking for the customer email, most recent
// appointment first.
func (s *Store) CustomerBookings(ctx context.Context, email string) ([]Booking, error) {
	return s.queryBookings(ctx,
		"SELECT "+bookingColumns+" WHERE c.email = ? ORDER BY b.date DESC, b.time DESC", email)
}

// UpdateStatus sets a booking's status. The status must be one of confirmed,
// pending, cancelled, or completed.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("store: invalid status %q", status)
	}
	res, err := s.db.ExecContext(ctx, "UPDATE bookings SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("store: update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBooking removes a booking row. The customer row is kept.
func (s *Store) DeleteBooking(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("store: delete booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete booking: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) queryBookings(ctx context.Context, query string, args ...any) ([]Booking, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows.Scan, &b); err != nil {
			return nil, fmt.Errorf("store: scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate bookings: %w", err)
	}
	return bookings, nil
}

func scanBooking(scan func(...any) error, b *Booking) error {
	return scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.ServiceType, &b.Date, &b.Time, &b.Status, &b.CreatedAt)
}
