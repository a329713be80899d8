package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_ops/internal/domain"
	"hotel_ops/internal/validation"
)

// Operations runs manager workflows: room updates, repair filings and the
// read-only reports. Every entry point checks privilege before anything else.
type Operations struct {
	store domain.Store
	guard *Guard
	limit int
	now   func() time.Time
}

func NewOperations(s domain.Store, g *Guard, limit int) *Operations {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &Operations{store: s, guard: g, limit: limit, now: time.Now}
}

// WithClock replaces the clock used for update timestamps and repair dates.
func (o *Operations) WithClock(now func() time.Time) *Operations {
	o.now = now
	return o
}

// RoomExists lets prompting layers re-ask for a room number.
func (o *Operations) RoomExists(ctx context.Context, hotelID, roomNumber int64) (bool, error) {
	return o.store.RoomExists(ctx, hotelID, roomNumber)
}

func requireRoom(ctx context.Context, repo domain.Repository, hotelID, roomNumber int64) error {
	if _, err := repo.LockRoom(ctx, hotelID, roomNumber); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("room %d in hotel %d: %w", roomNumber, hotelID, domain.ErrNotFound)
		}
		return err
	}
	return nil
}

// UpdateRoom applies a new price and image and appends the matching update
// log entry in the same unit.
func (o *Operations) UpdateRoom(ctx context.Context, s domain.Session, c domain.RoomChange) (domain.RoomUpdateLog, error) {
	const op = "update room"
	if _, err := o.guard.RequirePrivileged(ctx, s, op); err != nil {
		return domain.RoomUpdateLog{}, err
	}
	if err := validation.Struct(validation.RoomChange{Price: c.Price, ImageURL: c.ImageURL}); err != nil {
		return domain.RoomUpdateLog{}, err
	}

	entry := domain.RoomUpdateLog{ManagerID: s.AccountID, HotelID: c.HotelID, RoomNumber: c.RoomNumber, UpdatedOn: o.now().UTC()}
	err := o.store.RunAtomic(ctx, func(tx domain.Repository) error {
		if err := requireManages(ctx, tx, s, c.HotelID, op); err != nil {
			return err
		}
		if err := requireRoom(ctx, tx, c.HotelID, c.RoomNumber); err != nil {
			return err
		}
		if _, err := tx.UpdateRoom(ctx, c); err != nil {
			return err
		}
		id, err := tx.InsertRoomUpdateLog(ctx, entry)
		if err != nil {
			return err
		}
		entry.ID = id
		return nil
	})
	if err != nil {
		return domain.RoomUpdateLog{}, err
	}
	log.Info().Int64("manager", s.AccountID).Int64("hotel", c.HotelID).Int64("room", c.RoomNumber).
		Int64("update", entry.ID).Msg("room updated")
	return entry, nil
}

// FileRepair inserts the repair and the request that links it to the
// manager. The request uses the identity returned by the repair insert.
func (o *Operations) FileRepair(ctx context.Context, s domain.Session, r domain.RepairOrder) (domain.RepairReceipt, error) {
	const op = "file repair"
	if _, err := o.guard.RequirePrivileged(ctx, s, op); err != nil {
		return domain.RepairReceipt{}, err
	}

	today := o.now()
	rec := domain.RepairReceipt{Date: time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)}
	err := o.store.RunAtomic(ctx, func(tx domain.Repository) error {
		if err := requireManages(ctx, tx, s, r.HotelID, op); err != nil {
			return err
		}
		if err := requireRoom(ctx, tx, r.HotelID, r.RoomNumber); err != nil {
			return err
		}
		repairID, err := tx.InsertRepair(ctx, domain.RoomRepair{
			CompanyID: r.CompanyID, HotelID: r.HotelID, RoomNumber: r.RoomNumber, RepairDate: rec.Date,
		})
		if err != nil {
			return err
		}
		reqID, err := tx.InsertRepairRequest(ctx, domain.RoomRepairRequest{ManagerID: s.AccountID, RepairID: repairID})
		if err != nil {
			return err
		}
		rec.RepairID, rec.RequestID = repairID, reqID
		return nil
	})
	if err != nil {
		return domain.RepairReceipt{}, err
	}
	log.Info().Int64("manager", s.AccountID).Int64("repair", rec.RepairID).Int64("request", rec.RequestID).
		Msg("repair filed")
	return rec, nil
}

// PrintHotelBookings prints bookings dated within r (inclusive). Managers see
// their own hotels, admins see every hotel.
func (o *Operations) PrintHotelBookings(ctx context.Context, s domain.Session, w io.Writer, r domain.DateRange) (int, error) {
	role, err := o.guard.RequirePrivileged(ctx, s, "view hotel bookings")
	if err != nil {
		return 0, err
	}
	return o.store.PrintHotelBookings(ctx, w, s.AccountID, role == domain.RoleAdmin, r)
}

// RegularCustomers ranks customers of a managed hotel by booking count.
func (o *Operations) RegularCustomers(ctx context.Context, s domain.Session, hotelID int64) ([]domain.RegularCustomer, error) {
	const op = "view regular customers"
	if _, err := o.guard.RequirePrivileged(ctx, s, op); err != nil {
		return nil, err
	}
	if err := requireManages(ctx, o.store, s, hotelID, op); err != nil {
		return nil, err
	}
	return o.store.RegularCustomers(ctx, hotelID, RegularCustomerLimit)
}

func (o *Operations) PrintRecentUpdates(ctx context.Context, s domain.Session, w io.Writer) (int, error) {
	if _, err := o.guard.RequirePrivileged(ctx, s, "view room updates"); err != nil {
		return 0, err
	}
	return o.store.PrintRecentUpdates(ctx, w, s.AccountID, o.limit)
}

func (o *Operations) PrintRepairHistory(ctx context.Context, s domain.Session, w io.Writer) (int, error) {
	if _, err := o.guard.RequirePrivileged(ctx, s, "view repair history"); err != nil {
		return 0, err
	}
	return o.store.PrintRepairHistory(ctx, w, s.AccountID)
}
