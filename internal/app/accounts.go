package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"hotel_ops/internal/domain"
	"hotel_ops/internal/validation"
)

type AccountService struct {
	repo    domain.Repository
	cost    int
	limiter *rate.Limiter
}

// NewAccountService allows attemptsPerMinute log-in attempts per minute with
// the same burst. Zero disables throttling.
func NewAccountService(r domain.Repository, bcryptCost, attemptsPerMinute int) *AccountService {
	lim := rate.NewLimiter(rate.Inf, 0)
	if attemptsPerMinute > 0 {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(attemptsPerMinute)), attemptsPerMinute)
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{repo: r, cost: bcryptCost, limiter: lim}
}

// Register creates a customer account and returns the identifier the store
// assigned to it.
func (s *AccountService) Register(ctx context.Context, name, password string) (int64, error) {
	name = strings.TrimSpace(name)
	if err := validation.Struct(validation.Registration{Name: name, Password: password}); err != nil {
		return 0, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.repo.CreateAccount(ctx, domain.Account{Name: name, PasswordHash: string(hash), Role: domain.RoleCustomer})
	if err != nil {
		return 0, err
	}
	log.Info().Int64("account", id).Msg("account created")
	return id, nil
}

// LogIn checks the credentials and returns the session every later workflow
// receives.
func (s *AccountService) LogIn(ctx context.Context, id int64, password string) (domain.Session, error) {
	if !s.limiter.Allow() {
		return domain.Session{}, domain.ErrTooManyAttempts
	}
	a, err := s.repo.GetAccount(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		log.Warn().Int64("account", id).Msg("failed log in")
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	return domain.Session{AccountID: a.ID, Name: a.Name, Role: a.Role}, nil
}
