package user

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Profile{}))

	cfg := &config.Config{
		App: config.AppConfig{Name: "storefront-test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
	return NewService(db, cfg)
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:           "Shopper@Example.com",
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
		FirstName:       "Sam",
		LastName:        "Shopper",
	}
}

func TestRegister(t *testing.T) {
	svc := testService(t)

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "shopper@example.com", resp.User.Email)
	assert.Empty(t, resp.User.Password)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(registerRequest())
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("password mismatch", func(t *testing.T) {
		req := registerRequest()
		req.Email = "other@example.com"
		req.ConfirmPassword = "different"
		_, err := svc.Register(req)
		assert.Error(t, err)
	})

	t.Run("short password", func(t *testing.T) {
		req := registerRequest()
		req.Email = "other@example.com"
		req.Password = "short"
		req.ConfirmPassword = "short"
		_, err := svc.Register(req)
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	svc := testService(t)
	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(&LoginRequest{Email: "shopper@example.com", Password: "correct-horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotNil(t, resp.User.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Email: "shopper@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	svc := testService(t)
	reg, err := svc.Register(registerRequest())
	require.NoError(t, err)

	resp, err := svc.RefreshToken(reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.RefreshToken(reg.AccessToken)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.RefreshToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestUpdateProfile(t *testing.T) {
	svc := testService(t)
	reg, err := svc.Register(registerRequest())
	require.NoError(t, err)

	u, err := svc.UpdateProfile(reg.User.ID, &UpdateProfileRequest{
		FirstName: "Sam",
		LastName:  "Updated",
		Phone:     "5550100",
		Address:   "1 Main St",
		City:      "Springfield",
		ZipCode:   "12345",
		Country:   "US",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sam Updated", u.GetFullName())
	require.NotNil(t, u.Profile)
	assert.Equal(t, "Springfield", u.Profile.City)
	assert.Equal(t, "5550100", u.Profile.Phone)
}

func TestChangePassword(t *testing.T) {
	svc := testService(t)
	reg, err := svc.Register(registerRequest())
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(reg.User.ID, "wrong", "new-password-1")
		assert.Error(t, err)
	})

	t.Run("changes and old password stops working", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(reg.User.ID, "correct-horse", "new-password-1"))

		_, err := svc.Login(&LoginRequest{Email: "shopper@example.com", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Login(&LoginRequest{Email: "shopper@example.com", Password: "new-password-1"})
		assert.NoError(t, err)
	})
}
