package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// NoExpiration keeps an entry until it is deleted or the cache is cleared
const NoExpiration time.Duration = -1

// Cache defines the interface for caching loaded values
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a source locator (URL or file path)
func Key(source string) string {
	hash := sha256.Sum256([]byte(source))
	return "saaquiz:v1:" + hex.EncodeToString(hash[:])
}
