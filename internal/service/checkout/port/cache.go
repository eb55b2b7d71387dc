package port

import "context"

// CacheInvalidator drops cached read views after a committed order. The
// contract is at-least-once: failures may leave stale reads but never
// endanger the committed data.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys []string) error
}

// PasswordHasher hashes generated guest-account passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}
