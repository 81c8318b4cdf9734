package service

import "github.com/bagdasarian/leadpipe/internal/domain"

// CheckAccountAccess - тенант-проверка: свой аккаунт или superadmin
func CheckAccountAccess(actor *domain.User, accountID string) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if !actor.CanAccessAccount(accountID) {
		return domain.ErrForbidden
	}
	return nil
}
