package cache

import "time"

// LayerPolicy configures one cache layer.
type LayerPolicy struct {
	// DefaultTTL is the TTL applied when Set receives no override.
	// NoExpiry means entries never expire by default.
	DefaultTTL time.Duration

	// MaxEntries is the entry budget for the layer.
	// Default: 1000
	MaxEntries int

	// MaxBytes is the approximate memory budget for the layer.
	// Default: 16 MiB
	MaxBytes int64
}

// DefaultLayerPolicy returns the policy applied to layers created lazily.
// DefaultTTL: 5 minutes, MaxEntries: 1000, MaxBytes: 16 MiB.
func DefaultLayerPolicy() LayerPolicy {
	return LayerPolicy{
		DefaultTTL: 5 * time.Minute,
		MaxEntries: 1000,
		MaxBytes:   16 << 20,
	}
}

// withDefaults fills zero fields with the default budget values.
func (p LayerPolicy) withDefaults() LayerPolicy {
	if p.MaxEntries <= 0 {
		p.MaxEntries = 1000
	}
	if p.MaxBytes <= 0 {
		p.MaxBytes = 16 << 20
	}
	return p
}

// EffectiveTTL returns the TTL to use for a Set.
// An override of 0 selects the layer default; NoExpiry disables expiry.
func (p LayerPolicy) EffectiveTTL(override time.Duration) time.Duration {
	if override == 0 {
		return p.DefaultTTL
	}
	return override
}
