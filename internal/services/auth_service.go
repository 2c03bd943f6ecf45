package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/tresorier/caisse/internal/config"
	"github.com/tresorier/caisse/internal/logger"
	"github.com/tresorier/caisse/internal/metrics"
	"github.com/tresorier/caisse/internal/models"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
	tokenLifetime   = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidAccessCode  = errors.New("invalid access code")
)

// AuthService manages registration, login and JWT issuance.
type AuthService struct {
	db  *gorm.DB
	cfg config.Config
}

func NewAuthService(db *gorm.DB, cfg config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a new user. The very first user becomes admin regardless
// of code; afterwards the submitted access code decides the role: the admin
// code grants admin, the member code grants a plain user account, anything
// else is rejected.
func (s *AuthService) Register(email, password, name, accessCode string) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	role := models.RoleUser
	admin := false
	switch {
	case count == 0:
		role = models.RoleAdmin
		admin = true
	case accessCode == s.cfg.AdminAccessCode:
		role = models.RoleAdmin
		admin = true
	case accessCode == s.cfg.MemberAccessCode:
		// plain member
	default:
		return nil, ErrInvalidAccessCode
	}

	user := models.User{
		Email:   strings.ToLower(email),
		Name:    name,
		Role:    role,
		Admin:   admin,
		Enabled: true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Login verifies credentials and returns a signed JWT. Five consecutive
// failures lock the account for a cool-down period.
func (s *AuthService) Login(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		metrics.IncLoginFailure()
		return "", ErrInvalidCredentials
	}

	if !user.Enabled {
		metrics.IncLoginFailure()
		return "", ErrAccountDisabled
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		metrics.IncLoginFailure()
		return "", ErrAccountLocked
	}

	if !user.CheckPassword(password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			until := time.Now().Add(lockoutDuration)
			user.LockedUntil = &until
		}
		if err := s.db.Save(&user).Error; err != nil {
			logger.Log().WithError(err).Error("Failed to persist login failure count")
		}
		metrics.IncLoginFailure()
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now
	if err := s.db.Save(&user).Error; err != nil {
		return "", fmt.Errorf("update login state: %w", err)
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return "", err
	}
	metrics.IncLogin()
	return token, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": user.Role,
		"exp":  time.Now().Add(tokenLifetime).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a JWT and returns the owning user re-read from the
// database, so revoked flags and roles take effect on the next request.
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("id = ?", sub).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Enabled {
		return nil, ErrAccountDisabled
	}
	return &user, nil
}

// GetUserByID loads a user by primary key.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}
	if !user.CheckPassword(current) {
		return ErrInvalidCredentials
	}
	if err := user.SetPassword(next); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.db.Save(&user).Error
}
