package cache

import (
	"testing"
)

func TestCacheNamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "chirp:test",
		},
		{
			name:     "key with colon",
			key:      "unread:42",
			expected: "chirp:unread:42",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "chirp:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cache.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	var cache *Cache

	if _, err := cache.Get("key"); err != ErrCacheDisabled {
		t.Errorf("Expected ErrCacheDisabled, got %v", err)
	}
	if err := cache.Set("key", "value", 0); err != ErrCacheDisabled {
		t.Errorf("Expected ErrCacheDisabled, got %v", err)
	}
	if err := cache.Delete("key"); err != ErrCacheDisabled {
		t.Errorf("Expected ErrCacheDisabled, got %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("Close on disabled cache should be nil, got %v", err)
	}
}
