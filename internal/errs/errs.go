package errs

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrUserNotFound   = errors.New("user not found")

	// ErrForbidden: authenticated but not a participant of the conversation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated: missing or invalid session token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrActiveTicketExists: the user already has an open ticket.
	ErrActiveTicketExists = errors.New("active ticket already exists")

	ErrDuplicate = errors.New("duplicate record")
)

// IsUniqueViolation reports whether err is a unique constraint violation,
// either translated by GORM or raw from a database/sql path (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
