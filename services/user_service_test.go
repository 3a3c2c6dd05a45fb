package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shalom-hotel/models"
	"shalom-hotel/repository"
	"shalom-hotel/utils"
)

var testSecret = []byte("test-secret")

func newUserService(t *testing.T) (*UserService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewUserService(store, testSecret), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterRequest{
		Email:    "  Guest@Example.COM ",
		Password: "s3cret123",
		Name:     "Guest One",
	})
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", result.User.Email, "email is normalized")
	assert.Equal(t, models.RoleUser, result.User.Role, "role defaults to USER")
	require.NotEmpty(t, result.Token)

	// password is stored hashed
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.Password), []byte("s3cret123")))

	userID, role, err := utils.ParseAuthToken(result.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
	assert.Equal(t, models.RoleUser, role)

	login, err := svc.Login(ctx, LoginRequest{Email: "guest@example.com", Password: "s3cret123"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "password1", Name: "A"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "A@B.com", Password: "password2", Name: "B"})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "password1", Name: "A"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "a@b.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "invalid credentials", MessageOf(err))

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@b.com", Password: "password1"})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "invalid credentials", MessageOf(err), "unknown email and wrong password are indistinguishable")
}

func TestUpdateUserPartial(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "password1", Name: "A"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, result.User.ID, UpdateUserRequest{Phone: "555-0101"})
	require.NoError(t, err)
	assert.Equal(t, "555-0101", updated.Phone)
	assert.Equal(t, "A", updated.Name)

	updated, err = svc.UpdateUser(ctx, result.User.ID, UpdateUserRequest{Password: "newpass99"})
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpass99")))

	_, err = svc.UpdateUser(ctx, 999, UpdateUserRequest{Name: "X"})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
