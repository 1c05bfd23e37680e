package session

// Well-known store keys. The store holds exactly two entries: the JSON
// encoded user profile and the raw bearer token string.
const (
	KeyUser  = "user"
	KeyToken = "token"
)

// Repo defines the interface for persisted session storage. Implementations
// provide plain string entries with no expiry and no encryption; concurrent
// writers are last-write-wins.
type Repo interface {
	// Get retrieves a value by key. The boolean reports presence.
	Get(key string) (string, bool, error)

	// Set creates or overwrites a value
	Set(key, value string) error

	// Remove deletes a key. Removing an absent key is not an error.
	Remove(key string) error
}
