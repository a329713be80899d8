package cli

import (
	"context"
	"fmt"
	"io"

	"hotel_ops/internal/domain"
	"hotel_ops/internal/validation"
)

func (sh *Shell) nearbyHotels(ctx context.Context, _ domain.Session) error {
	lat, err := sh.p.Latitude("\nEnter Latitude: ")
	if err != nil {
		return err
	}
	lon, err := sh.p.Longitude("\nEnter Longitude: ")
	if err != nil {
		return err
	}
	hs, err := sh.engine.NearbyHotels(ctx, lat, lon)
	if err != nil {
		return err
	}
	if len(hs) > 0 {
		sh.table("hotel_id\thotel_name\tdate_established\tdistance", func(w io.Writer) {
			for _, h := range hs {
				est := ""
				if h.DateEstablished != nil {
					est = h.DateEstablished.Format(domain.DateLayout)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%.6f\n", h.ID, h.Name, est, h.Distance)
			}
		})
	}
	sh.p.Printf("\nTotal number of hotels within %g units of your location: %d\n", sh.radius, len(hs))
	return nil
}

func (sh *Shell) viewRooms(ctx context.Context, _ domain.Session) error {
	hotelID, err := sh.p.ID("\tEnter hotelID: ", "hotel id")
	if err != nil {
		return err
	}
	date, err := sh.p.Date("\tEnter date in the format MM/DD/YYYY: ")
	if err != nil {
		return err
	}
	rooms, err := sh.engine.AvailableRooms(ctx, hotelID, date)
	if err != nil {
		return err
	}
	if len(rooms) > 0 {
		sh.table("room_number\tprice\timage_url", func(w io.Writer) {
			for _, r := range rooms {
				img := ""
				if r.ImageURL != nil {
					img = *r.ImageURL
				}
				fmt.Fprintf(w, "%d\t%.2f\t%s\n", r.RoomNumber, r.Price, img)
			}
		})
	}
	sh.p.Printf("\nAvailable rooms: %d\n", len(rooms))
	return nil
}

func (sh *Shell) bookRoom(ctx context.Context, s domain.Session) error {
	hotelID, err := sh.p.ID("\nEnter a Hotel ID: ", "hotel id")
	if err != nil {
		return err
	}
	room, err := sh.p.ID("\nEnter a room number: ", "room number")
	if err != nil {
		return err
	}
	date, err := sh.p.Date("Enter a date in the format of MM/DD/YYYY: ")
	if err != nil {
		return err
	}
	res, err := sh.engine.Reserve(ctx, s, hotelID, room, date)
	if err != nil {
		return err
	}
	if !res.Confirmed() {
		sh.p.Printf("\nSorry, this room is not available at this date (%s).\n", res.Reason)
		return nil
	}
	sh.p.Printf("\nBooking %d made for %s in Hotel %d, Room %d\n",
		res.Booking.ID, date.Format(domain.DateLayout), hotelID, room)
	return nil
}

func (sh *Shell) recentBookings(ctx context.Context, s domain.Session) error {
	sh.p.Printf("\tDisplaying your bookings...\n")
	bs, err := sh.engine.RecentBookings(ctx, s)
	if err != nil {
		return err
	}
	if len(bs) == 0 {
		sh.p.Printf("\tNo bookings yet.\n")
		return nil
	}
	sh.table("hotel_id\troom_number\tbooking_date\tprice", func(w io.Writer) {
		for _, b := range bs {
			fmt.Fprintf(w, "%d\t%d\t%s\t%.2f\n", b.HotelID, b.RoomNumber, b.Date.Format(domain.DateLayout), b.Price)
		}
	})
	return nil
}

// privileged prints the refusal itself, so callers just return.
func (sh *Shell) privileged(ctx context.Context, s domain.Session, op string) (bool, error) {
	if _, err := sh.guard.RequirePrivileged(ctx, s, op); err != nil {
		if domain.IsStorageFault(err) {
			return false, err
		}
		sh.p.Printf("\tYou must be a manager to %s.\n", op)
		return false, nil
	}
	return true, nil
}

// ownedHotel re-asks until the caller names a hotel they manage.
func (sh *Shell) ownedHotel(ctx context.Context, s domain.Session) (int64, error) {
	for {
		id, err := sh.p.ID("\tEnter hotelID: ", "hotel id")
		if err != nil {
			return 0, err
		}
		ok, err := sh.guard.Manages(ctx, s.AccountID, id)
		if err != nil {
			return 0, err
		}
		if ok {
			return id, nil
		}
		sh.p.Printf("\tPlease pick a hotel you manage.\n")
	}
}

// existingRoom re-asks until the room exists in hotelID.
func (sh *Shell) existingRoom(ctx context.Context, hotelID int64) (int64, error) {
	for {
		n, err := sh.p.ID("\tEnter room number: ", "room number")
		if err != nil {
			return 0, err
		}
		ok, err := sh.ops.RoomExists(ctx, hotelID, n)
		if err != nil {
			return 0, err
		}
		if ok {
			return n, nil
		}
		sh.p.Printf("\tThere is no room number %d in hotel %d.\n", n, hotelID)
	}
}

func (sh *Shell) updateRoom(ctx context.Context, s domain.Session) error {
	if ok, err := sh.privileged(ctx, s, "update room info"); !ok {
		return err
	}
	hotelID, err := sh.ownedHotel(ctx, s)
	if err != nil {
		return err
	}
	room, err := sh.existingRoom(ctx, hotelID)
	if err != nil {
		return err
	}
	price, err := sh.p.Price("\tUpdate price: ")
	if err != nil {
		return err
	}
	img, err := sh.p.Line("\tUpdate image url: ")
	if err != nil {
		return err
	}
	entry, err := sh.ops.UpdateRoom(ctx, s, domain.RoomChange{HotelID: hotelID, RoomNumber: room, Price: price, ImageURL: img})
	if err != nil {
		return err
	}
	sh.p.Printf("\tRoom info has been successfully updated! (update %d)\n", entry.ID)
	return nil
}

func (sh *Shell) recentUpdates(ctx context.Context, s domain.Session) error {
	if ok, err := sh.privileged(ctx, s, "view update info"); !ok {
		return err
	}
	sh.p.Printf("\tViewing the last %d recent updates...\n", sh.limit)
	_, err := sh.ops.PrintRecentUpdates(ctx, s, sh.out)
	return err
}

func (sh *Shell) hotelBookings(ctx context.Context, s domain.Session) error {
	if ok, err := sh.privileged(ctx, s, "view hotel bookings"); !ok {
		return err
	}
	for {
		from, err := sh.p.Date("\nEnter a lower bound for date range (MM/DD/YYYY) (inclusive): ")
		if err != nil {
			return err
		}
		to, err := sh.p.Date("\nEnter an upper bound for the date range (MM/DD/YYYY) (inclusive): ")
		if err != nil {
			return err
		}
		r, err := validation.NewDateRange(from, to)
		if err != nil {
			sh.p.Printf("\nInvalid range (%v). Please enter the range again.\n", err)
			continue
		}
		n, err := sh.ops.PrintHotelBookings(ctx, s, sh.out, r)
		if err != nil {
			return err
		}
		sh.p.Printf("\nTotal number of bookings for your hotels within the range of %s and %s: %d\n",
			from.Format(domain.DateLayout), to.Format(domain.DateLayout), n)
		return nil
	}
}

func (sh *Shell) regularCustomers(ctx context.Context, s domain.Session) error {
	if ok, err := sh.privileged(ctx, s, "view regular customers"); !ok {
		return err
	}
	hotelID, err := sh.p.ID("\nEnter a hotel ID: ", "hotel id")
	if err != nil {
		return err
	}
	cs, err := sh.ops.RegularCustomers(ctx, s, hotelID)
	if err != nil {
		return err
	}
	if len(cs) == 0 {
		sh.p.Printf("\tNo bookings for hotel %d.\n", hotelID)
		return nil
	}
	sh.table("name\tnum_bookings", func(w io.Writer) {
		for _, c := range cs {
			fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Bookings)
		}
	})
	return nil
}

func (sh *Shell) fileRepair(ctx context.Context, s domain.Session) error {
	if ok, err := sh.privileged(ctx, s, "place repair requests"); !ok {
		return err
	}
	sh.p.Printf("\tFill in the following information to submit a room repair request.\n")
	hotelID, err := sh.ownedHotel(ctx, s)
	if err != nil {
		return err
	}
	room, err := sh.existingRoom(ctx, hotelID)
	if err != nil {
		return err
	}
	company, err := sh.p.ID("\tEnter companyID: ", "company id")
	if err != nil {
		return err
	}
	rec, err := sh.ops.FileRepair(ctx, s, domain.RepairOrder{HotelID: hotelID, RoomNumber: room, CompanyID: company})
	if err != nil {
		return err
	}
	sh.p.Printf("\tRequest %d has been submitted for repair %d!\n", rec.RequestID, rec.RepairID)
	return nil
}

func (sh *Shell) repairHistory(ctx context.Context, s domain.Session) error {
	if ok, err := sh.privileged(ctx, s, "view repair history"); !ok {
		return err
	}
	sh.p.Printf("\tViewing room request history...\n")
	_, err := sh.ops.PrintRepairHistory(ctx, s, sh.out)
	return err
}
