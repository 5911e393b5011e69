package service_test

import (
	"context"
	"testing"
	"time"

	"backend/internal/repository"
	"backend/internal/repository/memory"
	"backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "hunter2", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "user", user.Role)
	// The hash never round-trips to the raw password.
	assert.NotEqual(t, "hunter2", user.PasswordHash)

	loggedIn, session, err := svc.Login(ctx, "alice", "hunter2", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotNil(t, session)
	assert.Equal(t, user.ID, session.UserID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	resolved, err := svc.SessionUser(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "  ", "pw", "", nil)
	assert.ErrorIs(t, err, repository.ErrInvalid)

	_, err = svc.Register(ctx, "bob", "", "", nil)
	assert.ErrorIs(t, err, repository.ErrInvalid)
}

func TestRegisterDuplicateUsernameKeepsFirst(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	first, err := svc.Register(ctx, "carol", "pw-one", "", nil)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "carol", "pw-two", "", nil)
	assert.ErrorIs(t, err, repository.ErrConflict)

	// The original account still authenticates with its own password.
	loggedIn, _, err := svc.Login(ctx, "carol", "pw-one", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, first.ID, loggedIn.ID)

	_, _, err = svc.Login(ctx, "carol", "pw-two", time.Hour)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestPatchUser(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "judy", "old-pw", "user", nil)
	require.NoError(t, err)

	role := "admin"
	updated, err := svc.PatchUser(ctx, user.ID, nil, &role, nil)
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Role)
	// Untouched fields survive.
	assert.Equal(t, "judy", updated.Username)

	// A password change invalidates the old password and re-hashes the new.
	newPassword := "new-pw"
	updated, err = svc.PatchUser(ctx, user.ID, &newPassword, nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, "new-pw", updated.PasswordHash)

	_, _, err = svc.Login(ctx, "judy", "old-pw", time.Hour)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "judy", "new-pw", time.Hour)
	require.NoError(t, err)

	customer, err := svc.CreateCustomer(ctx, repository.CustomerCreateInput{Name: "Linked"})
	require.NoError(t, err)
	updated, err = svc.PatchUser(ctx, user.ID, nil, nil, &customer.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.CustomerID)
	assert.Equal(t, customer.ID, *updated.CustomerID)
}

func TestPatchUserValidation(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "ken", "pw", "user", nil)
	require.NoError(t, err)

	empty := ""
	_, err = svc.PatchUser(ctx, user.ID, &empty, nil, nil)
	assert.ErrorIs(t, err, repository.ErrInvalid)

	blankRole := "  "
	_, err = svc.PatchUser(ctx, user.ID, nil, &blankRole, nil)
	assert.ErrorIs(t, err, repository.ErrInvalid)

	missingCustomer := int64(999)
	_, err = svc.PatchUser(ctx, user.ID, nil, nil, &missingCustomer)
	assert.ErrorIs(t, err, repository.ErrInvalid)

	role := "admin"
	_, err = svc.PatchUser(ctx, 12345, nil, &role, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegisterRejectsDanglingCustomer(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	missing := int64(777)
	_, err := svc.Register(ctx, "mallory", "pw", "user", &missing)
	assert.ErrorIs(t, err, repository.ErrInvalid)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "dave", "right-pw", "", nil)
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "dave", "wrong-pw", time.Hour)
	_, _, unknownUser := svc.Login(ctx, "nobody", "whatever", time.Hour)

	// Wrong password and unknown username are indistinguishable.
	assert.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, service.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "erin", "pw", "", nil)
	require.NoError(t, err)
	_, session, err := svc.Login(ctx, "erin", "pw", time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.ID))
	// Logging out twice is fine.
	require.NoError(t, svc.Logout(ctx, session.ID))

	_, err = svc.SessionUser(ctx, session.ID)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestSessionExpiry(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "frank", "pw", "", nil)
	require.NoError(t, err)
	_, session, err := svc.Login(ctx, "frank", "pw", -time.Minute)
	require.NoError(t, err)

	_, err = svc.SessionUser(ctx, session.ID)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "bootstrap-pw"))

	admin, _, err := svc.Login(ctx, "admin", "bootstrap-pw", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)

	// A second run must not touch a populated user table.
	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "other-pw"))
	_, _, err = svc.Login(ctx, "admin", "other-pw", time.Hour)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestDeactivateUserRetainsAccount(t *testing.T) {
	t.Parallel()
	store := memory.New()
	svc := service.New(store)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, repository.CustomerCreateInput{
		Name:  "Grace",
		Email: strPtr("grace@example.test"),
	})
	require.NoError(t, err)

	user, err := svc.Register(ctx, "grace", "pw", "user", &customer.ID)
	require.NoError(t, err)

	account, err := svc.DeactivateUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace", account.Username)
	assert.Equal(t, "grace@example.test", account.Email)
	assert.False(t, account.DeactivatedAt.IsZero())

	_, err = svc.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	retained, ok := store.InactiveAccount(user.ID)
	require.True(t, ok)
	assert.Equal(t, user.PasswordHash, retained.PasswordHash)
}

func TestDeactivateUserWithoutCustomerEmail(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "heidi", "pw", "user", nil)
	require.NoError(t, err)

	account, err := svc.DeactivateUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, account.Email)
}
