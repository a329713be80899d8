package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hotel_ops/internal/app"
	"hotel_ops/internal/domain"
	"hotel_ops/internal/storage/sqlstore/sqlstoretest"
)

func TestRegisterThenLogIn(t *testing.T) {
	s := sqlstoretest.Open(t)
	ctx := context.Background()
	acc := app.NewAccountService(s, bcrypt.MinCost, 0)

	id, err := acc.Register(ctx, "  Cal  ", "s3cret-pass")
	require.NoError(t, err)
	require.NotZero(t, id)

	sess, err := acc.LogIn(ctx, id, "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{AccountID: id, Name: "Cal", Role: domain.RoleCustomer}, sess)

	_, err = acc.LogIn(ctx, id, "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = acc.LogIn(ctx, id+100, "s3cret-pass")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegister_RejectsBlankName(t *testing.T) {
	s := sqlstoretest.Open(t)
	_, err := app.NewAccountService(s, bcrypt.MinCost, 0).Register(context.Background(), "   ", "s3cret-pass")
	require.True(t, domain.IsValidation(err), "got %v", err)
	assert.Zero(t, s.Count("users"))
}

func TestLogIn_Throttled(t *testing.T) {
	s := sqlstoretest.Open(t)
	acc := app.NewAccountService(s, bcrypt.MinCost, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := acc.LogIn(ctx, 1, "nope")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	_, err := acc.LogIn(ctx, 1, "nope")
	require.ErrorIs(t, err, domain.ErrTooManyAttempts)
}

func TestGuard_RolesAndOwnership(t *testing.T) {
	s := sqlstoretest.Open(t)
	ctx := context.Background()
	c := s.AddUser("Cal", domain.RoleCustomer)
	m := s.AddUser("Mia", domain.RoleManager)
	a := s.AddUser("Ada", domain.RoleAdmin)
	h := s.AddHotel("Harbor", 34, -117, m)
	g := app.NewGuard(s)

	for id, want := range map[int64]bool{c: false, m: true, a: true, 999: false} {
		got, err := g.IsPrivileged(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "account %d", id)
	}
	role, err := g.RoleOf(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUnknown, role)

	ok, err := g.Manages(ctx, m, h)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = g.Manages(ctx, a, h)
	require.NoError(t, err)
	assert.False(t, ok, "ownership is strict, admins included")
}
