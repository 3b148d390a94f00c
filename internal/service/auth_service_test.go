package service

import (
	"context"
	"testing"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (AuthService, *store.State) {
	state := newTestState(t)
	users := repository.NewUserRepository(state)
	svc := NewAuthService(users, state, testSecret, 8*time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	state.Update(func(d *store.Data) []string {
		d.Users = append(d.Users, model.User{
			ID: "u1", Name: "Ada", Username: "ada",
			PasswordHash: string(hash), Role: model.RoleCashier, Active: true,
		})
		return nil
	})
	return svc, state
}

func TestLogin_Success(t *testing.T) {
	svc, state := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ada", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int((8 * time.Hour).Seconds()), resp.ExpiresIn)
	assert.Equal(t, "ada", resp.User.Username)
	assert.NotNil(t, resp.User.LastLogin)

	// Session persisted
	state.View(func(d *store.Data) {
		assert.Equal(t, "u1", d.CurrentUser)
		assert.False(t, d.LoginTime.IsZero())
	})
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ada", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "must not leak which usernames exist")
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	svc, state := newAuthFixture(t)
	state.Update(func(d *store.Data) []string {
		d.Users[0].Active = false
		return nil
	})
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ada", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLogoutClearsSession(t *testing.T) {
	svc, state := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ada", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background()))
	state.View(func(d *store.Data) {
		assert.Empty(t, d.CurrentUser)
		assert.True(t, d.LoginTime.IsZero())
	})
	_, err = svc.CurrentUser(context.Background())
	assert.Error(t, err)
}

func TestCurrentUser_StaleSessionExpires(t *testing.T) {
	svc, state := newAuthFixture(t)
	state.Update(func(d *store.Data) []string {
		d.CurrentUser = "u1"
		d.LoginTime = time.Now().Add(-9 * time.Hour)
		return nil
	})
	_, err := svc.CurrentUser(context.Background())
	assert.Error(t, err)
	state.View(func(d *store.Data) {
		assert.Empty(t, d.CurrentUser, "stale session cleared on access")
	})
}

func TestCreateUser_HashesPasswordAndActivates(t *testing.T) {
	svc, state := newAuthFixture(t)
	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name: "Grace", Username: "grace", Password: "hopper1", Role: model.RoleManager,
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)
	assert.NotEmpty(t, resp.ID)

	state.View(func(d *store.Data) {
		require.Len(t, d.Users, 2)
		u := d.Users[1]
		assert.NotEqual(t, "hopper1", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hopper1")))
	})
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name: "Imposter", Username: "ada", Password: "xxxx", Role: model.RoleCashier,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestUpdateUser_PartialFields(t *testing.T) {
	svc, _ := newAuthFixture(t)
	resp, err := svc.UpdateUser(context.Background(), "u1", dto.UpdateUserRequest{Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.Role)
	assert.Equal(t, "Ada", resp.Name, "unset fields untouched")
}

func TestDeactivateReactivateUser(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.DeactivateUser(ctx, "u1"))
	users, err := svc.ListUsers(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, svc.ReactivateUser(ctx, "u1"))
	users, err = svc.ListUsers(ctx, false)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRoleHierarchy(t *testing.T) {
	assert.True(t, model.RoleAllows(model.RoleAdmin, model.RoleCashier))
	assert.True(t, model.RoleAllows(model.RoleManager, model.RoleCashier))
	assert.True(t, model.RoleAllows(model.RoleCashier, model.RoleCashier))
	assert.False(t, model.RoleAllows(model.RoleCashier, model.RoleManager))
	assert.False(t, model.RoleAllows(model.RoleManager, model.RoleAdmin))
	assert.False(t, model.RoleAllows("superuser", model.RoleCashier), "unknown roles deny")
	assert.False(t, model.RoleAllows(model.RoleAdmin, "owner"))
}
