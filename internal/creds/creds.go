// Package creds persists the bearer token pair between invocations.
// The two values live under fixed keys and are always cleared together:
// a refresh token without its access token is useless and vice versa.
package creds

// Pair holds the current token pair. Empty strings mean absent.
type Pair struct {
	Access  string `yaml:"access_token"`
	Refresh string `yaml:"refresh_token"`
}

// Store reads and writes the durable token pair. Implementations must
// be safe for concurrent use: the attach step of every request, the
// renewal path, login and logout all touch the same store.
type Store interface {
	// Load returns the stored pair. A missing backing file is not an
	// error; it reads as an empty pair.
	Load() (Pair, error)

	// Save replaces both values atomically.
	Save(Pair) error

	// SetAccess replaces only the access token, keeping the refresh
	// token. Used by the renewal path.
	SetAccess(token string) error

	// Clear removes both values. Clearing an already-empty store is a
	// no-op.
	Clear() error
}
