package domain

import "time"

// Customer owns orders. Guest checkouts create one transparently, keyed by
// email, so placing two guest orders with the same address reuses the account.
type Customer struct {
	ID           uint64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	IsGuest      bool
	CreatedAt    time.Time
}
