package service_test

import (
	"testing"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"
	"go-stocktrack/internal/service"
	"go-stocktrack/internal/testutil"
	"go-stocktrack/pkg/config"
	"go-stocktrack/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testJWTCfg = config.JWTConfig{
	Secret:          "test-secret-key-for-unit-tests",
	ExpirationHours: 1,
	Issuer:          "stocktrack-test",
}

func newAuthService(db *gorm.DB) service.AuthService {
	return service.NewAuthService(repository.NewUserRepo(db), testJWTCfg)
}

func TestLogin_Success(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.NewUser(t, db, "alice", model.RoleManager)
	svc := newAuthService(db)

	result, err := svc.Login("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, model.RoleManager, result.User.Role)

	claims, err := jwt.Validate(testJWTCfg.Secret, result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleManager, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newAuthService(db)

	_, err := svc.Login("alice", "nope")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := newAuthService(db)

	_, err := svc.Login("ghost", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
