// Package cli is the operator terminal: a menu loop over the account,
// booking and operations services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"hotel_ops/internal/app"
	"hotel_ops/internal/domain"
)

type Shell struct {
	p        *Prompter
	out      io.Writer
	accounts *app.AccountService
	engine   *app.BookingEngine
	ops      *app.Operations
	guard    *app.Guard
	radius   float64
	limit    int
}

type Deps struct {
	Accounts *app.AccountService
	Engine   *app.BookingEngine
	Ops      *app.Operations
	Guard    *app.Guard
	Radius   float64
	// RecentLimit only labels the menu; the services apply their own limit.
	RecentLimit int
}

func NewShell(in io.Reader, out io.Writer, d Deps) *Shell {
	if d.Radius <= 0 {
		d.Radius = app.DefaultRadius
	}
	if d.RecentLimit <= 0 {
		d.RecentLimit = app.DefaultRecentLimit
	}
	return &Shell{
		p: NewPrompter(in, out), out: out,
		accounts: d.Accounts, engine: d.Engine, ops: d.Ops, guard: d.Guard, radius: d.Radius, limit: d.RecentLimit,
	}
}

// Run serves the top menu until the operator exits or input ends.
func (sh *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		sh.p.Printf("\nMAIN MENU\n---------\n1. Create user\n2. Log in\n9. < EXIT\n")
		choice, err := sh.p.Choice("Please make your choice: ")
		if errors.Is(err, ErrInputClosed) {
			break
		}
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = sh.register(ctx)
		case 2:
			var s domain.Session
			var ok bool
			s, ok, err = sh.logIn(ctx)
			if err == nil && ok {
				err = sh.session(ctx, s)
			}
		case 9:
			sh.p.Printf("Bye!\n")
			return nil
		default:
			sh.p.Printf("Unrecognized choice!\n")
		}
		if errors.Is(err, ErrInputClosed) {
			break
		}
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
	}
	sh.p.Printf("Bye!\n")
	return nil
}

func (sh *Shell) register(ctx context.Context) error {
	name, err := sh.p.Text("\tEnter name: ")
	if err != nil {
		return err
	}
	pw, err := sh.p.Text("\tEnter password: ")
	if err != nil {
		return err
	}
	id, err := sh.accounts.Register(ctx, name, pw)
	if err != nil {
		sh.report(err)
		return nil
	}
	sh.p.Printf("User successfully created with userID = %d\n", id)
	return nil
}

func (sh *Shell) logIn(ctx context.Context) (domain.Session, bool, error) {
	id, err := sh.p.ID("\tEnter userID: ", "user id")
	if err != nil {
		return domain.Session{}, false, err
	}
	pw, err := sh.p.Line("\tEnter password: ")
	if err != nil {
		return domain.Session{}, false, err
	}
	s, err := sh.accounts.LogIn(ctx, id, pw)
	if err != nil {
		sh.report(err)
		return domain.Session{}, false, nil
	}
	return s, true, nil
}

const sessionMenu = `
MAIN MENU
---------
1. View Hotels within %g units
2. View Rooms
3. Book a Room
4. View recent booking history
5. Update Room Information
6. View %d recent Room Updates Info
7. View booking history of the hotel
8. View %d regular Customers
9. Place room repair Request to a company
10. View room repair Requests history
.........................
20. Log out
`

func (sh *Shell) session(ctx context.Context, s domain.Session) error {
	handlers := map[int]func(context.Context, domain.Session) error{
		1:  sh.nearbyHotels,
		2:  sh.viewRooms,
		3:  sh.bookRoom,
		4:  sh.recentBookings,
		5:  sh.updateRoom,
		6:  sh.recentUpdates,
		7:  sh.hotelBookings,
		8:  sh.regularCustomers,
		9:  sh.fileRepair,
		10: sh.repairHistory,
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		sh.p.Printf(sessionMenu, sh.radius, sh.limit, sh.limit)
		choice, err := sh.p.Choice("Please make your choice: ")
		if err != nil {
			return err
		}
		if choice == 20 {
			return nil
		}
		h, ok := handlers[choice]
		if !ok {
			sh.p.Printf("Unrecognized choice!\n")
			continue
		}
		if err := h(ctx, s); err != nil {
			if errors.Is(err, ErrInputClosed) || ctx.Err() != nil {
				return err
			}
			sh.report(err)
		}
	}
}

// report turns a workflow error into an operator message. The session goes
// on afterwards.
func (sh *Shell) report(err error) {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		sh.p.Printf("\tYou do not have permission for this option!\n")
	case errors.Is(err, domain.ErrInvalidCredentials):
		sh.p.Printf("\tInvalid user id or password.\n")
	case errors.Is(err, domain.ErrTooManyAttempts):
		sh.p.Printf("\tToo many log in attempts, try again later.\n")
	case errors.Is(err, domain.ErrNotFound):
		sh.p.Printf("\tNot found: %v\n", err)
	case domain.IsValidation(err):
		sh.p.Printf("\tInvalid input: %v\n", err)
	default:
		log.Error().Err(err).Msg("workflow failed")
		sh.p.Printf("\tError: %v\n", err)
	}
}

func (sh *Shell) table(header string, rows func(w io.Writer)) {
	tw := tabwriter.NewWriter(sh.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	_ = tw.Flush()
}
