package domain

import "time"

type User struct {
	ID           string
	AccountID    string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

type Role string

const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleMember     Role = "member"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleSuperAdmin:
		return true
	}
	return false
}

// CanAccessAccount - пользователь работает только в своем аккаунте, superadmin - в любом
func (u *User) CanAccessAccount(accountID string) bool {
	if u.Role == RoleSuperAdmin {
		return true
	}
	return u.AccountID == accountID
}
