package user

import (
	"strings"
	"testing"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (Service, *testutil.World) {
	t.Helper()
	world := testutil.NewWorld()
	world.SeedPackages()
	return NewService(world.Manager), world
}

func addSponsor(t *testing.T, world *testutil.World, code string, directs int) *models.User {
	t.Helper()
	sponsor := world.NewUser("sponsor-"+code, 0, 1)
	sponsor.ReferralCode = code
	require.NoError(t, world.Users.Save(sponsor))
	world.FillDirects(sponsor.ID, directs, 1)
	return sponsor
}

func TestRegisterCreatesUserWithReferralCode(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "str0ng!pass",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(u.ReferralCode, "REF"))
	assert.Len(t, u.ReferralCode, 9)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Nil(t, u.SponsorID)

	// Stored hashed, never plaintext.
	assert.NotEqual(t, "str0ng!pass", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("str0ng!pass")))
}

func TestRegisterUnderSponsor(t *testing.T) {
	svc, world := newTestService(t)
	sponsor := addSponsor(t, world, "REFAAAAAA", 0)

	u, err := svc.Register(RegisterInput{
		Name:         "Bob",
		Email:        "bob@example.com",
		Password:     "str0ng!pass",
		ReferralCode: "REFAAAAAA",
	})
	require.NoError(t, err)
	require.NotNil(t, u.SponsorID)
	assert.Equal(t, sponsor.ID, *u.SponsorID)
}

func TestRegisterRejectsUnknownReferralCode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(RegisterInput{
		Name:         "Bob",
		Email:        "bob@example.com",
		Password:     "str0ng!pass",
		ReferralCode: "REFNOPE00",
	})
	assert.ErrorIs(t, err, ErrInvalidReferralCode)
}

func TestRegisterEnforcesSponsorFanOutCap(t *testing.T) {
	svc, world := newTestService(t)
	addSponsor(t, world, "REFBBBBBB", models.MaxDirects)

	_, err := svc.Register(RegisterInput{
		Name:         "Fifth",
		Email:        "fifth@example.com",
		Password:     "str0ng!pass",
		ReferralCode: "REFBBBBBB",
	})
	assert.ErrorIs(t, err, ErrSponsorFull)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	input := RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "str0ng!pass"}
	_, err := svc.Register(input)
	require.NoError(t, err)

	_, err = svc.Register(input)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "short!"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "nospecialchars1"})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "str0ng!pass"})
	require.NoError(t, err)
	versionBefore := u.TokenVersion

	require.NoError(t, svc.ChangePassword(u.ID, "str0ng!pass", "newstr0ng!pass"))

	updated, err := svc.GetByID(u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newstr0ng!pass")))
	assert.Equal(t, versionBefore+1, updated.TokenVersion)

	assert.Error(t, svc.ChangePassword(u.ID, "wrong-old!", "another0ne!"))
}

func TestDeleteBlockedWhileDirectsExist(t *testing.T) {
	svc, world := newTestService(t)
	sponsor := addSponsor(t, world, "REFCCCCCC", 2)

	err := svc.Delete(sponsor.ID)
	assert.ErrorIs(t, err, repositories.ErrUserHasDirects)
}
