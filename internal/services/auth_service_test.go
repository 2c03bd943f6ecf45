package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/config"
	"github.com/tresorier/caisse/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Category{},
		&models.Article{},
		&models.Unit{},
		&models.Supplier{},
		&models.CashInflow{},
		&models.Expense{},
		&models.ExpenseItem{},
		&models.Reimbursement{},
		&models.ClosingPeriod{},
		&models.ActivityLog{},
	))
	return db
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:        "test-secret",
		AdminAccessCode:  "1806",
		MemberAccessCode: "2024",
	}
}

func TestAuthService_Register(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	// First user becomes admin regardless of code
	admin, err := service.Register("admin@example.com", "password123", "Admin User", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.Admin)
	assert.NotEmpty(t, admin.PasswordHash)
	assert.NotEqual(t, "password123", admin.PasswordHash)

	// Member code grants a plain user account
	user, err := service.Register("user@example.com", "password123", "Regular User", "2024")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.Admin)

	// Admin code grants admin
	second, err := service.Register("second@example.com", "password123", "Second Admin", "1806")
	require.NoError(t, err)
	assert.True(t, second.IsAdmin())

	// Unknown code is rejected
	_, err = service.Register("nope@example.com", "password123", "Nope", "0000")
	assert.ErrorIs(t, err, ErrInvalidAccessCode)
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	_, err := service.Register("test@example.com", "password123", "Test User", "")
	require.NoError(t, err)

	// Successful login
	token, err := service.Login("test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Invalid password
	token, err = service.Login("test@example.com", "wrongpassword")
	assert.Error(t, err)
	assert.Empty(t, token)
	assert.Equal(t, "invalid credentials", err.Error())

	// Account locking after five failures total
	for i := 0; i < 4; i++ {
		_, err = service.Login("test@example.com", "wrongpassword")
		assert.Error(t, err)
	}

	var user models.User
	db.Where("email = ?", "test@example.com").First(&user)
	assert.Equal(t, 5, user.FailedLoginAttempts)
	require.NotNil(t, user.LockedUntil)
	assert.True(t, user.LockedUntil.After(time.Now()))

	// Correct password while locked is still refused
	token, err = service.Login("test@example.com", "password123")
	assert.Error(t, err)
	assert.Empty(t, token)
	assert.Equal(t, "account locked", err.Error())
}

func TestAuthService_LoginResetsFailures(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	_, err := service.Register("test@example.com", "password123", "Test User", "")
	require.NoError(t, err)

	_, err = service.Login("test@example.com", "wrongpassword")
	assert.Error(t, err)

	_, err = service.Login("test@example.com", "password123")
	require.NoError(t, err)

	var user models.User
	db.Where("email = ?", "test@example.com").First(&user)
	assert.Equal(t, 0, user.FailedLoginAttempts)
	assert.NotNil(t, user.LastLogin)
}

func TestAuthService_ValidateToken(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	registered, err := service.Register("test@example.com", "password123", "Test User", "")
	require.NoError(t, err)

	token, err := service.Login("test@example.com", "password123")
	require.NoError(t, err)

	user, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	// Garbage token
	_, err = service.ValidateToken("not-a-token")
	assert.Error(t, err)

	// Disabled account is rejected even with a valid token
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", registered.ID).Update("enabled", false).Error)
	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthService_ChangePassword(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	user, err := service.Register("test@example.com", "password123", "Test User", "")
	require.NoError(t, err)

	// Wrong current password
	err = service.ChangePassword(user.ID, "nope", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, service.ChangePassword(user.ID, "password123", "newpassword1"))

	_, err = service.Login("test@example.com", "newpassword1")
	assert.NoError(t, err)
}
