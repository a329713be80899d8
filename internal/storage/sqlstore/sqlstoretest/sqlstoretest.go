// Package sqlstoretest opens throwaway SQLite stores for tests.
package sqlstoretest

import (
	"context"
	"path/filepath"
	"testing"

	"hotel_ops/internal/domain"
	"hotel_ops/internal/storage/sqlstore"
)

// Store wraps a migrated repository with seeding helpers.
type Store struct {
	*sqlstore.Repo
	t testing.TB
}

// Open creates a fresh database file under t.TempDir and applies the schema.
func Open(t testing.TB) *Store {
	t.Helper()
	ctx := context.Background()
	dsn := sqlstore.SQLiteDSN(filepath.Join(t.TempDir(), "hotel.db"))
	db, err := sqlstore.Open(ctx, sqlstore.SQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlstore.New(db, sqlstore.SQLite)
	if err := repo.Gateway().Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &Store{Repo: repo, t: t}
}

func (s *Store) exec(stmt string, args ...any) int64 {
	s.t.Helper()
	id, err := s.Gateway().Insert(context.Background(), stmt, args...)
	if err != nil {
		s.t.Fatalf("seed %q: %v", stmt, err)
	}
	return id
}

// AddUser stores an account with a placeholder password hash.
func (s *Store) AddUser(name string, role domain.Role) int64 {
	s.t.Helper()
	return s.exec(`INSERT INTO users (name, password, user_type) VALUES (?, ?, ?)`, name, "x", string(role))
}

func (s *Store) AddHotel(name string, lat, lon float64, managerID int64) int64 {
	s.t.Helper()
	return s.exec(`INSERT INTO hotel (hotel_name, latitude, longitude, date_established, manager_user_id) VALUES (?, ?, ?, ?, ?)`,
		name, lat, lon, "2001-05-20", managerID)
}

func (s *Store) AddRoom(hotelID, number int64, price float64) {
	s.t.Helper()
	s.exec(`INSERT INTO rooms (hotel_id, room_number, price, image_url) VALUES (?, ?, ?, ?)`, hotelID, number, price, nil)
}

func (s *Store) AddCompany(name string) int64 {
	s.t.Helper()
	return s.exec(`INSERT INTO maintenance_companies (name, address, is_certified) VALUES (?, ?, ?)`, name, "1 Main St", 1)
}

// AddBooking writes a booking directly; date is YYYY-MM-DD.
func (s *Store) AddBooking(customerID, hotelID, room int64, date string) int64 {
	s.t.Helper()
	return s.exec(`INSERT INTO room_bookings (customer_id, hotel_id, room_number, booking_date) VALUES (?, ?, ?, ?)`,
		customerID, hotelID, room, date)
}

// Count returns the number of rows in table.
func (s *Store) Count(table string) int {
	s.t.Helper()
	n, err := s.Gateway().CountMatching(context.Background(), "SELECT COUNT(*) FROM "+table)
	if err != nil {
		s.t.Fatalf("count %s: %v", table, err)
	}
	return n
}
