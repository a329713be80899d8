package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"hotel_ops/internal/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

// Dates and timestamps go to the store as text in a fixed layout so both
// engines compare them the same way.
func dateArg(t time.Time) string      { return t.Format(domain.DateLayout) }
func timestampArg(t time.Time) string { return t.UTC().Format(timestampLayout) }

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// dbTime scans DATE/DATETIME columns whether the driver hands back
// time.Time (mysql with parseTime) or text (sqlite).
type dbTime struct {
	Time  time.Time
	Valid bool
}

func (d *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Valid = false
		return nil
	case time.Time:
		d.Time, d.Valid = v, true
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	}
	return fmt.Errorf("unsupported time value %T", src)
}

func (d *dbTime) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range []string{timestampLayout, domain.DateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time, d.Valid = t, true
			return nil
		}
	}
	return fmt.Errorf("unrecognised time %q", s)
}

// Repo is the typed repository over a Gateway.
type Repo struct{ gw *Gateway }

func New(db *sql.DB, d Dialect) *Repo { return &Repo{gw: NewGateway(db, d)} }

func (r *Repo) Gateway() *Gateway { return r.gw }

func (r *Repo) RunAtomic(ctx context.Context, fn func(domain.Repository) error) error {
	return r.gw.RunAtomic(ctx, func(g *Gateway) error { return fn(&Repo{gw: g}) })
}

func (r *Repo) IsDuplicate(err error) bool { return r.gw.IsDuplicate(err) }

func (r *Repo) CreateAccount(ctx context.Context, a domain.Account) (int64, error) {
	return r.gw.Insert(ctx, insertUserSQL, a.Name, a.PasswordHash, string(a.Role))
}

func (r *Repo) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	var a domain.Account
	var role string
	if err := r.gw.QueryRow(ctx, getUserSQL, []any{id}, &a.ID, &a.Name, &a.PasswordHash, &role); err != nil {
		return domain.Account{}, err
	}
	a.Role = domain.ParseRole(role)
	return a, nil
}

func (r *Repo) AccountRole(ctx context.Context, id int64) (domain.Role, error) {
	var role string
	err := r.gw.QueryRow(ctx, userTypeSQL, []any{id}, &role)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.RoleUnknown, nil
	}
	if err != nil {
		return domain.RoleUnknown, err
	}
	return domain.ParseRole(role), nil
}

func (r *Repo) ManagesHotel(ctx context.Context, managerID, hotelID int64) (bool, error) {
	n, err := r.gw.CountMatching(ctx, countManagedHotelSQL, managerID, hotelID)
	return n > 0, err
}

func (r *Repo) RoomExists(ctx context.Context, hotelID, roomNumber int64) (bool, error) {
	n, err := r.gw.CountMatching(ctx, countRoomSQL, hotelID, roomNumber)
	return n > 0, err
}

// LockRoom reads the room row and, on engines with row locks, holds it until
// the enclosing atomic unit ends.
func (r *Repo) LockRoom(ctx context.Context, hotelID, roomNumber int64) (domain.Room, error) {
	var room domain.Room
	var img sql.NullString
	q := lockRoomSQL + r.gw.Dialect().LockSuffix
	if err := r.gw.QueryRow(ctx, q, []any{hotelID, roomNumber},
		&room.HotelID, &room.RoomNumber, &room.Price, &img); err != nil {
		return domain.Room{}, err
	}
	if img.Valid {
		s := img.String
		room.ImageURL = &s
	}
	return room, nil
}

func (r *Repo) BookingExists(ctx context.Context, hotelID, roomNumber int64, date time.Time) (bool, error) {
	n, err := r.gw.CountMatching(ctx, countBookingSQL, hotelID, roomNumber, dateArg(date))
	return n > 0, err
}

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) (int64, error) {
	return r.gw.Insert(ctx, insertBookingSQL, b.CustomerID, b.HotelID, b.RoomNumber, dateArg(b.Date))
}

func (r *Repo) UpdateRoom(ctx context.Context, c domain.RoomChange) (int64, error) {
	res, err := r.gw.ApplyWrite(ctx, updateRoomSQL, c.Price, valStr(c.ImageURL), c.HotelID, c.RoomNumber)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

func (r *Repo) InsertRoomUpdateLog(ctx context.Context, l domain.RoomUpdateLog) (int64, error) {
	return r.gw.Insert(ctx, insertUpdateLogSQL, l.ManagerID, l.HotelID, l.RoomNumber, timestampArg(l.UpdatedOn))
}

// InsertRepair returns the identity assigned by the store, so callers never
// have to read the newest repair back.
func (r *Repo) InsertRepair(ctx context.Context, rp domain.RoomRepair) (int64, error) {
	return r.gw.Insert(ctx, insertRepairSQL, rp.CompanyID, rp.HotelID, rp.RoomNumber, dateArg(rp.RepairDate))
}

func (r *Repo) InsertRepairRequest(ctx context.Context, rq domain.RoomRepairRequest) (int64, error) {
	return r.gw.Insert(ctx, insertRepairRequestSQL, rq.ManagerID, rq.RepairID)
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	err := r.gw.Query(ctx, listHotelsSQL, nil, func(rows *sql.Rows) error {
		var h domain.Hotel
		var est dbTime
		if err := rows.Scan(&h.ID, &h.Name, &h.Lat, &h.Lon, &est, &h.ManagerID); err != nil {
			return err
		}
		if est.Valid {
			t := est.Time
			h.DateEstablished = &t
		}
		out = append(out, h)
		return nil
	})
	return out, err
}

func (r *Repo) AvailableRooms(ctx context.Context, hotelID int64, date time.Time) ([]domain.Room, error) {
	var out []domain.Room
	err := r.gw.Query(ctx, availableRoomsSQL, []any{hotelID, dateArg(date)}, func(rows *sql.Rows) error {
		var room domain.Room
		var img sql.NullString
		if err := rows.Scan(&room.HotelID, &room.RoomNumber, &room.Price, &img); err != nil {
			return err
		}
		if img.Valid {
			s := img.String
			room.ImageURL = &s
		}
		out = append(out, room)
		return nil
	})
	return out, err
}

func (r *Repo) OldestBookings(ctx context.Context, customerID int64, limit int) ([]domain.BookingWithPrice, error) {
	var out []domain.BookingWithPrice
	err := r.gw.Query(ctx, oldestBookingsSQL, []any{customerID, limit}, func(rows *sql.Rows) error {
		var b domain.BookingWithPrice
		var d dbTime
		if err := rows.Scan(&b.HotelID, &b.RoomNumber, &d, &b.Price); err != nil {
			return err
		}
		b.Date = d.Time
		out = append(out, b)
		return nil
	})
	return out, err
}

func (r *Repo) RegularCustomers(ctx context.Context, hotelID int64, limit int) ([]domain.RegularCustomer, error) {
	var out []domain.RegularCustomer
	err := r.gw.Query(ctx, regularCustomersSQL, []any{hotelID, limit}, func(rows *sql.Rows) error {
		var c domain.RegularCustomer
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.Bookings); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func (r *Repo) PrintHotelBookings(ctx context.Context, w io.Writer, managerID int64, all bool, dr domain.DateRange) (int, error) {
	return r.gw.PrintQuery(ctx, w, hotelBookingsSQL, all, managerID, dateArg(dr.From), dateArg(dr.To))
}

func (r *Repo) PrintRecentUpdates(ctx context.Context, w io.Writer, managerID int64, limit int) (int, error) {
	return r.gw.PrintQuery(ctx, w, recentUpdatesSQL, managerID, limit)
}

func (r *Repo) PrintRepairHistory(ctx context.Context, w io.Writer, managerID int64) (int, error) {
	return r.gw.PrintQuery(ctx, w, repairHistorySQL, managerID)
}

var _ domain.Store = (*Repo)(nil)
