package service

import (
	"context"
	"strings"
	"testing"

	"openshelf/library-management/internal/api/models"
	apirepository "openshelf/library-management/internal/api/repository"

	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()

	pool := newTestDB(t)
	return NewAuthService(
		apirepository.NewUserRepository(pool),
		apirepository.NewBranchRepository(pool),
		nil, // no session store in unit tests
		"test-secret",
	)
}

func TestSignupAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, &models.SignupRequest{
		Name:       "Ada",
		Username:   "ada",
		Password:   "enchantress",
		BranchName: "Central",
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "Account created successfully", result.Message)

	login, err := svc.Login(ctx, &models.LoginRequest{Username: "ada", Password: "enchantress"})
	require.NoError(t, err)
	require.True(t, login.Success)
	require.NotZero(t, login.UserID)
	require.True(t, strings.HasPrefix(login.CardNo, "LIB-"), "card number %q should carry the LIB- prefix", login.CardNo)
	require.NotEmpty(t, login.Token)
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	req := &models.SignupRequest{Name: "Ada", Username: "ada", Password: "enchantress"}
	result, err := svc.Signup(ctx, req)
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = svc.Signup(ctx, req)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Username is already taken", result.Message)
}

func TestSignupUnknownBranch(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Signup(context.Background(), &models.SignupRequest{
		Name:       "Ada",
		Username:   "ada",
		Password:   "enchantress",
		BranchName: "Atlantis",
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Specified branch does not exist", result.Message)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, &models.SignupRequest{Name: "Ada", Username: "ada", Password: "enchantress"})
	require.NoError(t, err)
	require.True(t, result.Success)

	login, err := svc.Login(ctx, &models.LoginRequest{Username: "ada", Password: "wrong"})
	require.NoError(t, err)
	require.False(t, login.Success)

	login, err = svc.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "whatever"})
	require.NoError(t, err)
	require.False(t, login.Success)
}
