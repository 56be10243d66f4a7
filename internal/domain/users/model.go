package users

import (
	"strings"
	"time"
)

const RoleAdmin = "admin"

type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"not null;uniqueIndex:idx_users_username"`
	Password string `gorm:"not null" json:"-"`
	Enabled  bool   `gorm:"not null"`
	// Roles is space delimited, e.g. "admin user".
	Roles string `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) RoleList() []string {
	return strings.Fields(u.Roles)
}

// Authorities returns the roles prefixed with ROLE_, as carried by tokens.
func (u *User) Authorities() []string {
	roles := u.RoleList()
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, "ROLE_"+r)
	}
	return out
}

func (u *User) IsAdmin() bool {
	for _, r := range u.RoleList() {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// ConformsToPolicy reports whether password has at least 8 characters, an
// ASCII digit, an ASCII lowercase and an ASCII uppercase letter. Line breaks
// are not allowed.
func ConformsToPolicy(password string) bool {
	if len([]rune(password)) < 8 {
		return false
	}
	hasDigit, hasLower, hasUpper := false, false, false
	for _, c := range password {
		switch {
		case c == '\n' || c == '\r' || c == '\u0085' || c == '\u2028' || c == '\u2029':
			return false
		case '0' <= c && c <= '9':
			hasDigit = true
		case 'a' <= c && c <= 'z':
			hasLower = true
		case 'A' <= c && c <= 'Z':
			hasUpper = true
		}
	}
	return hasDigit && hasLower && hasUpper
}
