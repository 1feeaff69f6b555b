package graphql

import (
	"fmt"
)

// LimitConfig defines limits for query results
type LimitConfig struct {
	DefaultLimit int // Default limit when no limit specified
	MaxLimit     int // Maximum allowed limit
}

// DefaultLimitConfig returns the limits used by GenerateSchema
func DefaultLimitConfig() *LimitConfig {
	return &LimitConfig{
		DefaultLimit: 100,
		MaxLimit:     1000,
	}
}

// ValidateLimitConfig validates the limit configuration
func ValidateLimitConfig(config *LimitConfig) error {
	if config == nil {
		return fmt.Errorf("limit config is required")
	}
	if config.MaxLimit <= 0 {
		return fmt.Errorf("max limit must be greater than 0, got %d", config.MaxLimit)
	}
	if config.DefaultLimit > config.MaxLimit {
		return fmt.Errorf("default limit (%d) cannot exceed max limit (%d)", config.DefaultLimit, config.MaxLimit)
	}
	if config.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be greater than 0, got %d", config.DefaultLimit)
	}
	return nil
}

// applyLimit applies default and max limit constraints to a limit value
func applyLimit(requestedLimit int, config *LimitConfig) int {
	// If no limit specified or negative, use default
	if requestedLimit < 0 {
		return config.DefaultLimit
	}

	// Cap at max limit
	if requestedLimit > config.MaxLimit {
		return config.MaxLimit
	}

	return requestedLimit
}

// page applies offset and an effective limit to items
func page[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}
