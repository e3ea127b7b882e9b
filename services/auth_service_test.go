package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restaurant-pos/apperror"
	"restaurant-pos/models"
	"restaurant-pos/services"
	"restaurant-pos/testhelpers"
)

func newAuthService(t *testing.T) *services.AuthService {
	return services.NewAuthService(testhelpers.SetupTestStore(t, false), []byte("test-secret"), zap.NewNop())
}

func TestStaffLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	user, err := auth.CreateStaff(ctx, services.CreateStaffRequest{
		Name:     "Ravi",
		Email:    " Ravi@Example.com ",
		Password: "floor-123",
		Role:     models.RoleCaptain,
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", user.Email)
	assert.NotEqual(t, "floor-123", user.PasswordHash)

	token, loggedIn, err := auth.Login(ctx, services.LoginRequest{Email: "RAVI@example.com", Password: "floor-123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", claims.Email)
	assert.Equal(t, models.RoleCaptain, claims.Role)

	_, _, err = auth.Login(ctx, services.LoginRequest{Email: "ravi@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, _, err = auth.Login(ctx, services.LoginRequest{Email: "nobody@example.com", Password: "floor-123"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	auth := newAuthService(t)
	other := services.NewAuthService(nil, []byte("another-secret"), zap.NewNop())

	token, err := other.GenerateToken(&models.StaffUser{ID: 1, Email: "x@example.com", Role: models.RolePOS})
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = auth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestCreateStaffRules(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	_, err := auth.CreateStaff(ctx, services.CreateStaffRequest{Name: "X", Email: "x@example.com", Password: "secret1", Role: "chef"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	require.NoError(t, auth.EnsureAdmin(ctx, "admin@example.com", "admin123"))
	require.NoError(t, auth.EnsureAdmin(ctx, "admin@example.com", "admin123"))
	require.NoError(t, auth.EnsureAdmin(ctx, "", ""))

	_, err = auth.CreateStaff(ctx, services.CreateStaffRequest{Name: "Dup", Email: "admin@example.com", Password: "secret1", Role: models.RolePOS})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}
