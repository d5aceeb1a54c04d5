package auth

import (
	"testing"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (Service, *testutil.World) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	world := testutil.NewWorld()

	hashed, err := bcrypt.GenerateFromPassword([]byte("str0ng!pass"), bcrypt.MinCost)
	require.NoError(t, err)
	world.Users.AddUser(&models.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		Password:     string(hashed),
		Role:         models.RoleUser,
		TokenVersion: 1,
	})
	return NewService(world.Users), world
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _ := newTestService(t)

	user, access, refresh, err := svc.Login("alice@example.com", "str0ng!pass")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, _, err := svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.Login("nobody@example.com", "str0ng!pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokens(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, refresh, err := svc.Login("alice@example.com", "str0ng!pass")
	require.NoError(t, err)

	access2, refresh2, err := svc.RefreshTokens(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access2)
	assert.NotEmpty(t, refresh2)
}

func TestLogoutInvalidatesRefreshTokens(t *testing.T) {
	svc, _ := newTestService(t)

	user, _, refresh, err := svc.Login("alice@example.com", "str0ng!pass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(user.ID))

	_, _, err = svc.RefreshTokens(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
