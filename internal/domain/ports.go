package domain

import (
	"context"
	"io"
	"time"
)

// Repository is the typed view of the store. The same methods are available
// inside and outside an atomic unit.
type Repository interface {
	// Accounts
	CreateAccount(ctx context.Context, a Account) (int64, error)
	GetAccount(ctx context.Context, id int64) (Account, error)
	AccountRole(ctx context.Context, id int64) (Role, error)

	// Ownership and existence checks
	ManagesHotel(ctx context.Context, managerID, hotelID int64) (bool, error)
	RoomExists(ctx context.Context, hotelID, roomNumber int64) (bool, error)
	LockRoom(ctx context.Context, hotelID, roomNumber int64) (Room, error)
	BookingExists(ctx context.Context, hotelID, roomNumber int64, date time.Time) (bool, error)

	// Writes
	InsertBooking(ctx context.Context, b Booking) (int64, error)
	UpdateRoom(ctx context.Context, c RoomChange) (int64, error)
	InsertRoomUpdateLog(ctx context.Context, l RoomUpdateLog) (int64, error)
	InsertRepair(ctx context.Context, r RoomRepair) (int64, error)
	InsertRepairRequest(ctx context.Context, r RoomRepairRequest) (int64, error)

	// Reads
	ListHotels(ctx context.Context) ([]Hotel, error)
	AvailableRooms(ctx context.Context, hotelID int64, date time.Time) ([]Room, error)
	OldestBookings(ctx context.Context, customerID int64, limit int) ([]BookingWithPrice, error)
	RegularCustomers(ctx context.Context, hotelID int64, limit int) ([]RegularCustomer, error)

	// Operator-facing reports; each returns the number of rows printed.
	PrintHotelBookings(ctx context.Context, w io.Writer, managerID int64, all bool, r DateRange) (int, error)
	PrintRecentUpdates(ctx context.Context, w io.Writer, managerID int64, limit int) (int, error)
	PrintRepairHistory(ctx context.Context, w io.Writer, managerID int64) (int, error)
}

// Store adds atomic units on top of Repository. fn sees a Repository bound to
// a single transaction; returning an error rolls the unit back.
type Store interface {
	Repository
	RunAtomic(ctx context.Context, fn func(Repository) error) error
	IsDuplicate(err error) bool
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
