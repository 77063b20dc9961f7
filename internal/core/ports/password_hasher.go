package ports

import "context"

// PasswordHasher hashes and verifies passwords with a salted adaptive hash.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A malformed digest is a
	// mismatch, not an error; err is only set when ctx ends first.
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}
