package types

// KeyValueStore holds durable client state: session tokens, identity
// records, and catalog filter preferences. Values are plain strings; there
// is no schema versioning.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key has no value.
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(keys ...string) error
}

// Durable record keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUsername     = "username"
	KeyIsModerator  = "is_moderator"
	KeyFilters      = "spectro_filters_v1"
	KeyMockMode     = "spectro_mock_mode"
)

// IdentityKeys lists every record cleared on logout.
var IdentityKeys = []string{
	KeyAccessToken,
	KeyRefreshToken,
	KeyUsername,
	KeyIsModerator,
}
