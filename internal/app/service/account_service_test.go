package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ikkim/smartmart-backend/internal/app/model"
	"github.com/ikkim/smartmart-backend/internal/app/repository"
	"github.com/ikkim/smartmart-backend/internal/db"
	sessionstore "github.com/ikkim/smartmart-backend/pkg/redis"
	"github.com/ikkim/smartmart-backend/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-session-secret"

func setupAccountServiceTest(t *testing.T) (AccountService, *gorm.DB, *miniredis.Miniredis) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	accounts := NewAccountService(
		repository.NewUserRepository(testDB),
		sessionstore.NewSessionStore(client),
		testSecret,
		time.Hour,
	)
	return accounts, testDB, mr
}

func register(t *testing.T, accounts AccountService, username, email string) (*model.User, *Session) {
	t.Helper()
	user, session, err := accounts.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "s3cret-pass",
		Confirm:  "s3cret-pass",
	})
	require.NoError(t, err)
	return user, session
}

func TestAccountService_Register(t *testing.T) {
	accounts, testDB, mr := setupAccountServiceTest(t)

	user, session := register(t, accounts, "alice", "alice@example.com")
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsStaff)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "s3cret-pass"))

	assert.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.UserID)
	assert.True(t, mr.Exists("session:"+session.ID))

	var carts int64
	testDB.Model(&model.Cart{}).Where("user_id = ?", user.ID).Count(&carts)
	assert.Equal(t, int64(1), carts)
}

func TestAccountService_Register_Failures(t *testing.T) {
	accounts, testDB, _ := setupAccountServiceTest(t)
	register(t, accounts, "alice", "alice@example.com")

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{
			name:    "password mismatch",
			input:   RegisterInput{Username: "bob", Email: "bob@example.com", Password: "a", Confirm: "b"},
			wantErr: ErrPasswordMismatch,
		},
		{
			name:    "mismatch wins over duplicate username",
			input:   RegisterInput{Username: "alice", Email: "bob@example.com", Password: "a", Confirm: "b"},
			wantErr: ErrPasswordMismatch,
		},
		{
			name:    "duplicate username",
			input:   RegisterInput{Username: "alice", Email: "bob@example.com", Password: "pw", Confirm: "pw"},
			wantErr: ErrDuplicateUsername,
		},
		{
			name:    "username checked before email",
			input:   RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw", Confirm: "pw"},
			wantErr: ErrDuplicateUsername,
		},
		{
			name:    "duplicate email",
			input:   RegisterInput{Username: "bob", Email: "alice@example.com", Password: "pw", Confirm: "pw"},
			wantErr: ErrDuplicateEmail,
		},
		{
			name:    "empty username",
			input:   RegisterInput{Username: "", Email: "bob@example.com", Password: "pw", Confirm: "pw"},
			wantErr: ErrValidation,
		},
		{
			name:    "empty password",
			input:   RegisterInput{Username: "bob", Email: "bob@example.com"},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, session, err := accounts.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, user)
			assert.Nil(t, session)
		})
	}

	var users int64
	testDB.Model(&model.User{}).Count(&users)
	assert.Equal(t, int64(1), users)
}

func TestAccountService_Login(t *testing.T) {
	accounts, _, _ := setupAccountServiceTest(t)
	registered, _ := register(t, accounts, "alice", "alice@example.com")

	user, session, err := accounts.Login(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, session.Token)

	_, _, err = accounts.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = accounts.Login(context.Background(), "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_Login_UnknownUserPaysHashCost(t *testing.T) {
	accounts, _, _ := setupAccountServiceTest(t)
	register(t, accounts, "alice", "alice@example.com")
	ctx := context.Background()

	// first unknown-user login also builds the throwaway hash
	_, _, err := accounts.Login(ctx, "nobody", "guess")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	start := time.Now()
	_, _, err = accounts.Login(ctx, "alice", "wrong")
	wrongPassword := time.Since(start)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	start = time.Now()
	_, _, err = accounts.Login(ctx, "nobody", "guess")
	unknownUser := time.Since(start)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Greater(t, unknownUser, wrongPassword/4,
		"unknown user took %s, wrong password took %s", unknownUser, wrongPassword)
}

func TestAccountService_Resolve(t *testing.T) {
	accounts, testDB, mr := setupAccountServiceTest(t)
	registered, session := register(t, accounts, "alice", "alice@example.com")
	ctx := context.Background()

	user, resolved, err := accounts.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, session.ID, resolved.ID)

	// staff flag is read fresh from the database
	require.NoError(t, testDB.Model(&model.User{}).Where("id = ?", registered.ID).Update("is_staff", true).Error)
	user, _, err = accounts.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, user.IsStaff)

	t.Run("empty token", func(t *testing.T) {
		_, _, err := accounts.Resolve(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("forged token", func(t *testing.T) {
		forged, err := util.GenerateSessionToken(registered.ID, session.ID, "other-secret", time.Hour)
		require.NoError(t, err)
		_, _, err = accounts.Resolve(ctx, forged)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token for another user", func(t *testing.T) {
		other, err := util.GenerateSessionToken(registered.ID+1, session.ID, testSecret, time.Hour)
		require.NoError(t, err)
		_, _, err = accounts.Resolve(ctx, other)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired session record", func(t *testing.T) {
		_, s := register(t, accounts, "carol", "carol@example.com")
		mr.FastForward(2 * time.Hour)
		_, _, err := accounts.Resolve(ctx, s.Token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestAccountService_Logout(t *testing.T) {
	accounts, _, mr := setupAccountServiceTest(t)
	_, session := register(t, accounts, "alice", "alice@example.com")
	ctx := context.Background()

	require.NoError(t, accounts.Logout(ctx, session))
	assert.False(t, mr.Exists("session:"+session.ID))

	_, _, err := accounts.Resolve(ctx, session.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// logging out twice is harmless
	assert.NoError(t, accounts.Logout(ctx, session))
	assert.NoError(t, accounts.Logout(ctx, nil))
}
