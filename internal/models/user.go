package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role names the coarse position a user holds in the organization. Feature
// flags refine what a non-admin role can actually open.
const (
	RoleAdmin         = "admin"
	RoleUser          = "user"
	RoleCashInflow    = "cash_inflow"
	RoleExpenses      = "expenses"
	RolePCA           = "pca"
	RoleDashboardOnly = "dashboard_only"
)

// User represents authenticated users with role-based access control.
// Access flags live here, server-side, and are re-read on every request.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	UUID         string `json:"uuid" gorm:"uniqueIndex"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"` // Never serialize password hash
	Name         string `json:"name"`
	Role         string `json:"role" gorm:"default:'user'"`
	Admin        bool   `json:"admin" gorm:"default:false"`

	// Feature flags, independent of role
	EntriesAccess  bool `json:"entries_access" gorm:"default:false"`
	ExpensesAccess bool `json:"expenses_access" gorm:"default:false"`
	HistoryAccess  bool `json:"history_access" gorm:"default:false"`

	Enabled             bool       `json:"enabled" gorm:"default:true"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LockedUntil         *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for new users.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == "" {
		u.UUID = uuid.New().String()
	}
	return nil
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the provided password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsAdmin reports whether the user has full access. The admin flag
// supersedes every feature flag.
func (u *User) IsAdmin() bool {
	return u.Admin || u.Role == RoleAdmin
}
