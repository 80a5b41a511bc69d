package service_test

import (
	"fmt"
	"testing"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"
	"go-stocktrack/internal/service"
	"go-stocktrack/internal/testutil"
	"go-stocktrack/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) service.UserService {
	return service.NewUserService(
		repository.NewUserRepo(db),
		repository.NewTransactionRepo(db),
		db,
		nil,
	)
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newUserService(db)

	user, err := svc.Register(&service.RegisterRequest{
		FullName: "Bob Builder",
		Username: "bob",
		Password: "pw123456",
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, model.RoleStaff, user.Role, "missing role defaults to staff")
	assert.NotEqual(t, "pw123456", user.Password, "password must never be stored in plaintext")
	assert.True(t, user.CheckPassword("pw123456"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newUserService(db)

	_, err := svc.Register(&service.RegisterRequest{
		FullName: "Bob Builder",
		Username: "bob",
		Password: "pw123456",
		Role:     model.RoleManager,
	}, admin)
	require.NoError(t, err)

	_, err = svc.Register(&service.RegisterRequest{
		FullName: "Bob Impostor",
		Username: "bob",
		Password: "pw654321",
	}, admin)
	assert.ErrorIs(t, err, service.ErrDuplicateUsername)

	users, err := svc.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2) // alice + the first bob
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newUserService(db)

	_, err := svc.Register(&service.RegisterRequest{
		FullName: "Bob Builder",
		Username: "bob",
		Password: "pw",
	}, admin)
	assert.ErrorIs(t, err, validator.ErrValidation)
}

func TestDeleteUser_SelfDeleteForbidden(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newUserService(db)

	err := svc.DeleteUser(admin.ID, admin)
	assert.ErrorIs(t, err, service.ErrSelfDelete)

	// No mutation, no ledger entry
	users, err := svc.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteUser_AppendsTaggedLedgerEntry(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	victim := testutil.NewUser(t, db, "bob", model.RoleStaff)
	svc := newUserService(db)

	require.NoError(t, svc.DeleteUser(victim.ID, admin))

	users, err := svc.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)

	var rows []model.Transaction
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	entry := rows[0]
	assert.Equal(t, fmt.Sprintf("DEL_USER_%s", victim.ID), entry.ChangeType)
	assert.Equal(t, admin.ID, entry.UserID, "entry is attributed to the acting user")
	assert.Nil(t, entry.ProductID)
}

func TestDeleteUser_NotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newUserService(db)

	err := svc.DeleteUser(uuid.New(), admin)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	svc := newUserService(db)

	_, err := svc.Register(&service.RegisterRequest{
		FullName: "Bob Builder",
		Username: "bob",
		Password: "pw123456",
		Role:     "wizard",
	}, admin)
	assert.ErrorIs(t, err, validator.ErrValidation)
}

func TestDeleteUser_FreesUsernameForReuse(t *testing.T) {
	db := testutil.OpenDB(t)
	admin := testutil.NewUser(t, db, "alice", model.RoleAdmin)
	victim := testutil.NewUser(t, db, "bob", model.RoleStaff)
	svc := newUserService(db)

	require.NoError(t, svc.DeleteUser(victim.ID, admin))

	// The username belongs to nobody once the account is gone
	user, err := svc.Register(&service.RegisterRequest{
		FullName: "Bob the Second",
		Username: "bob",
		Password: "pw123456",
	}, admin)
	require.NoError(t, err)
	assert.NotEqual(t, victim.ID, user.ID)

	// The deletion entry still names the old account
	var rows []model.Transaction
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, fmt.Sprintf("DEL_USER_%s", victim.ID), rows[0].ChangeType)
}
