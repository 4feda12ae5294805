package cache

import (
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// NoExpiry is the TTL value for entries that never expire.
const NoExpiry time.Duration = -1

// Well-known layer names. Arbitrary layer names are allowed; these are the
// partitions the surrounding tool uses.
const (
	LayerAnalysis   = "analysis"
	LayerTemplates  = "templates"
	LayerConfig     = "config"
	LayerGeneration = "generation"
)

// Sentinel errors for cache operations.
var (
	ErrInvalidKey   = errors.New("cache: key is invalid")
	ErrKeyTooLong   = errors.New("cache: key exceeds max length")
	ErrInvalidLayer = errors.New("cache: layer name is invalid")
	ErrLayerUnknown = errors.New("cache: layer not found")
)

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// ValidateLayerName checks if a layer name is valid.
func ValidateLayerName(name string) error {
	if name == "" || strings.TrimSpace(name) == "" {
		return ErrInvalidLayer
	}
	if strings.ContainsAny(name, "\n\r") {
		return ErrInvalidLayer
	}
	return nil
}
