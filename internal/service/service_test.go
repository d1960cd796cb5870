package service

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blog-server/internal/auth"
	"blog-server/internal/repository"
	"blog-server/internal/repository/sqlite"
)

type testEnv struct {
	users  repository.UserRepository
	posts  repository.PostRepository
	tokens *auth.TokenIssuer
	log    *logrus.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		users: sqlite.NewUserRepository(db),
		posts: sqlite.NewPostRepository(db),
		log:   logrus.New(),
	}
	env.log.SetOutput(io.Discard)
	require.NoError(t, env.users.Init(context.Background()))
	require.NoError(t, env.posts.Init(context.Background()))

	env.tokens, err = auth.NewTokenIssuer("test-secret", auth.DefaultTokenTTL)
	require.NoError(t, err)
	return env
}

func (e *testEnv) userService(t *testing.T) UserService {
	t.Helper()
	svc, err := NewUserService(e.users, auth.NewBcryptHasher(bcrypt.MinCost), e.tokens, e.log)
	require.NoError(t, err)
	return svc
}

func (e *testEnv) postService() PostService {
	return NewPostService(e.posts)
}
