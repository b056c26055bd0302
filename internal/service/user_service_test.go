package service

import (
	"context"
	"testing"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_DefaultsToResidentRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Juan Dela Cruz",
		Email:    "juan@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleResident, user.Role)
	assert.False(t, user.HasLoggedIn)

	// Stored password is hashed, never the plaintext
	stored, _ := repo.GetByEmail(context.Background(), "juan@example.com")
	assert.NotEqual(t, "correct-horse", stored.Password)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Juan", Email: "juan@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Name: "Impostor", Email: "juan@example.com", Password: "other-password",
	})
	require.Error(t, err)
	assert.Equal(t, "email already exists", err.Error())
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Juan", Email: "juan@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "juan@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error())
}

func TestLogin_IssuesTokensAndFlagsFirstLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Juan", Email: "juan@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	first, err := svc.Login(context.Background(), LoginRequest{Email: "juan@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.True(t, first.FirstLogin)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.RefreshToken)

	second, err := svc.Login(context.Background(), LoginRequest{Email: "juan@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.False(t, second.FirstLogin)
}

func TestRefresh_RotatesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Juan", Email: "juan@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "juan@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	// The old token is gone after rotation
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestLogout_RevokesRefreshTokens(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Juan", Email: "juan@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "juan@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID.String()))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestMarkLoggedIn_Idempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Juan", Email: "juan@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	marked, err := svc.MarkLoggedIn(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.True(t, marked.HasLoggedIn)

	again, err := svc.MarkLoggedIn(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.True(t, again.HasLoggedIn)
}
