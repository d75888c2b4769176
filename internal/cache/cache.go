package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from its parts. Parts are hashed together so
// keys are safe to use as file names.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "pressflag:v1:" + hex.EncodeToString(hash[:])
}

// ContentHash returns the hex SHA-256 of data
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GetJSON decodes a cached JSON value into v. A corrupt entry is deleted
// and reported as a miss.
func GetJSON(c Cache, key string, v any) bool {
	data, found := c.Get(key)
	if !found {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(key)
		return false
	}
	return true
}

// SetJSON stores v as JSON
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, data, ttl)
}
