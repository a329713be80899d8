package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"hotel_ops/internal/adapters/observability"
	"hotel_ops/internal/domain"
)

// Guard resolves roles and hotel ownership before privileged work. It only
// ever reads.
type Guard struct {
	repo domain.Repository
}

func NewGuard(r domain.Repository) *Guard { return &Guard{repo: r} }

// RoleOf returns RoleUnknown when no account matches.
func (g *Guard) RoleOf(ctx context.Context, accountID int64) (domain.Role, error) {
	return g.repo.AccountRole(ctx, accountID)
}

func (g *Guard) IsPrivileged(ctx context.Context, accountID int64) (bool, error) {
	role, err := g.RoleOf(ctx, accountID)
	if err != nil {
		return false, err
	}
	return role.Privileged(), nil
}

// Manages is true iff the hotel's owning manager is accountID.
func (g *Guard) Manages(ctx context.Context, accountID, hotelID int64) (bool, error) {
	return g.repo.ManagesHotel(ctx, accountID, hotelID)
}

// RequirePrivileged re-reads the caller's role and rejects customers and
// unknown accounts. The role is returned so callers can branch on admin.
func (g *Guard) RequirePrivileged(ctx context.Context, s domain.Session, op string) (domain.Role, error) {
	role, err := g.RoleOf(ctx, s.AccountID)
	if err != nil {
		return domain.RoleUnknown, err
	}
	if !role.Privileged() {
		return role, deny(s, op, "not a manager")
	}
	return role, nil
}

// requireManages checks ownership through repo, which may be bound to an
// atomic unit.
func requireManages(ctx context.Context, repo domain.Repository, s domain.Session, hotelID int64, op string) error {
	ok, err := repo.ManagesHotel(ctx, s.AccountID, hotelID)
	if err != nil {
		return err
	}
	if !ok {
		return deny(s, op, "hotel not managed by caller")
	}
	return nil
}

func deny(s domain.Session, op, why string) error {
	observability.ObserveDenied(op)
	log.Warn().Int64("account", s.AccountID).Str("op", op).Str("reason", why).Msg("permission denied")
	return domain.Denied(op)
}
