package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-server/internal/domain"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, " Alice ", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Empty(t, user.PasswordHash)

	stored, err := env.users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Alice Again", "a@x.com", "another1")
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)
}

func TestUserService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t)

	cases := []struct {
		name, email, password string
		field                 string
	}{
		{"", "a@x.com", "secret1", "name"},
		{"   ", "a@x.com", "secret1", "name"},
		{"Alice", "not-an-email", "secret1", "email"},
		{"Alice", "", "secret1", "email"},
		{"Alice", "a@x.com", "12345", "password"},
		{"Alice", "a@x.com", strings.Repeat("p", 80), "password"},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.name, tc.email, tc.password)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "input %+v", tc)
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, tc.field, verr.Fields[0].Field)
	}

	// nothing was persisted
	_, err := env.users.GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_Login(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, user.ID, res.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)

	claims, err := env.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestUserService_LoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "a@x.com", "wrong-password")
	_, unknownEmail := svc.Login(ctx, "nobody@x.com", "secret1")

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestUserService_LoginValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t)

	_, err := svc.Login(context.Background(), "bad", "")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestUserService_GetUser(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Empty(t, got.PasswordHash, "public view must not carry the hash")

	_, err = svc.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_RegisterAcceptsMaxLengthPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService(t)
	ctx := context.Background()

	password := strings.Repeat("p", 72)
	_, err := svc.Register(ctx, "Alice", "a@x.com", password)
	require.NoError(t, err)

	res, err := svc.Login(ctx, "a@x.com", password)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("hash unavailable") }
func (failingHasher) Check(string, string) bool   { return false }

func TestNewUserService_HasherFailure(t *testing.T) {
	env := newTestEnv(t)

	svc, err := NewUserService(env.users, failingHasher{}, env.tokens, env.log)
	assert.Error(t, err)
	assert.Nil(t, svc)
}
