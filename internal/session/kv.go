package session

// KV is the durable key-value surface backing the session store. It mirrors the
// semantics of browser-local storage: string keys, string values, durable
// within one client context.
type KV interface {
	// Get returns the stored value, or false when the key is absent.
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}
