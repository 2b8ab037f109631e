package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davitran/profile-hub/pkg/apperror"
	"github.com/davitran/profile-hub/pkg/auth"
	"github.com/davitran/profile-hub/pkg/logger"
)

func seedUser(t *testing.T, repo *memUserRepo, email, password string) {
	t.Helper()
	uc := newRegisterUseCase(repo)
	_, err := uc.Execute(context.Background(), RegisterInput{
		Name:     "Ann",
		Email:    email,
		Password: password,
		Address:  "1 Main St",
	})
	require.NoError(t, err)
}

func newLoginUseCase(repo *memUserRepo) *LoginUseCase {
	jwtSvc := auth.NewJWTService("test-secret", 168*time.Hour)
	return NewLoginUseCase(repo, jwtSvc, logger.NewNop())
}

func TestLogin_Success(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "a@x.com", "pw123456")
	uc := newLoginUseCase(repo)

	out, err := uc.Execute(context.Background(), LoginInput{Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	jwtSvc := auth.NewJWTService("test-secret", 168*time.Hour)
	claims, err := jwtSvc.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.UserID, claims.UserID)
}

func TestLogin_MissingFields(t *testing.T) {
	uc := newLoginUseCase(newMemUserRepo())

	_, err := uc.Execute(context.Background(), LoginInput{Password: "pw123456"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = uc.Execute(context.Background(), LoginInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLogin_UnknownEmail(t *testing.T) {
	uc := newLoginUseCase(newMemUserRepo())

	_, err := uc.Execute(context.Background(), LoginInput{Email: "nobody@x.com", Password: "pw123456"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(t, repo, "a@x.com", "pw123456")
	uc := newLoginUseCase(repo)

	_, err := uc.Execute(context.Background(), LoginInput{Email: "a@x.com", Password: "pw1234567"})
	assert.ErrorIs(t, err, apperror.ErrBadCredentials)
}
