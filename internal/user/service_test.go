package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_HashesPassword(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	created, err := svc.Register(User{Name: "Mia", Email: "mia@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", created.Password)
	assert.True(t, strings.HasPrefix(created.Password, "$2"), "expected a bcrypt hash, got %q", created.Password)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	_, err := svc.Register(User{Name: "Mia", Email: "mia@example.com", Password: "hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(User{Name: "Other", Email: "mia@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	_, err := svc.Register(User{Name: "Mia", Email: "mia@example.com", Password: "hunter2"})
	require.NoError(t, err)

	u, err := svc.Authenticate("mia@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Mia", u.Name)

	_, err = svc.Authenticate("mia@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSocialSignIn_UpsertsByEmail(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	created, isNew, err := svc.SocialSignIn(User{Name: "Mia", Email: "mia@example.com", GoogleID: "g-123"})
	require.NoError(t, err)
	assert.True(t, isNew)

	again, isNew, err := svc.SocialSignIn(User{Name: "Mia", Email: "mia@example.com", GoogleID: "g-123"})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, again.ID)
}

func TestSocialSignIn_FacebookWithoutEmail(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	alice, isNew, err := svc.SocialSignIn(User{Name: "Alice", FacebookID: "fb-alice"})
	require.NoError(t, err)
	assert.True(t, isNew)

	// A second email-less user with a different Facebook ID gets their
	// own account, not Alice's.
	bob, isNew, err := svc.SocialSignIn(User{Name: "Bob", FacebookID: "fb-bob"})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, alice.ID, bob.ID)
	assert.Equal(t, "Bob", bob.Name)

	// Repeat sign-in with the same Facebook ID resolves to the same
	// account.
	again, isNew, err := svc.SocialSignIn(User{Name: "Alice", FacebookID: "fb-alice"})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, alice.ID, again.ID)
}

func TestSocialSignIn_BackfillsFacebookID(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	mia, err := svc.Register(User{Name: "Mia", Email: "mia@example.com", Password: "hunter2"})
	require.NoError(t, err)

	linked, isNew, err := svc.SocialSignIn(User{Name: "Mia", Email: "mia@example.com", FacebookID: "fb-mia"})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, mia.ID, linked.ID)
	assert.Equal(t, "fb-mia", linked.FacebookID)

	// A later sign-in that carries only the Facebook ID now finds the
	// linked account.
	again, isNew, err := svc.SocialSignIn(User{Name: "Mia", FacebookID: "fb-mia"})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, mia.ID, again.ID)
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	mia, err := svc.Register(User{Name: "Mia", Email: "mia@example.com", Password: "hunter2"})
	require.NoError(t, err)
	_, err = svc.Register(User{Name: "Ben", Email: "ben@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(mia.ID, User{Email: "ben@example.com"})
	assert.ErrorIs(t, err, ErrEmailExists)

	updated, err := svc.UpdateProfile(mia.ID, User{Phone: "555-0101"})
	require.NoError(t, err)
	assert.Equal(t, "555-0101", updated.Phone)

	// Changing the password re-hashes it; the old one stops working.
	_, err = svc.UpdateProfile(mia.ID, User{Password: "newpass"})
	require.NoError(t, err)
	_, err = svc.Authenticate("mia@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate("mia@example.com", "newpass")
	assert.NoError(t, err)
}
