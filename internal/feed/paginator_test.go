package feed

import "testing"

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"zero defaults", 0, DefaultPageSize},
		{"negative floors to one", -3, 1},
		{"in range passes", 35, 35},
		{"max passes", MaxPageSize, MaxPageSize},
		{"oversized clamps", 1000, MaxPageSize},
		{"one passes", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampLimit(tt.limit); got != tt.expected {
				t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.expected)
			}
		})
	}
}

func TestTrimPage(t *testing.T) {
	tests := []struct {
		name     string
		fetched  int
		limit    int
		count    int
		hasMore  bool
	}{
		{"short page", 3, 20, 3, false},
		{"exact page", 20, 20, 20, false},
		{"overfull page", 21, 20, 20, true},
		{"empty", 0, 20, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, hasMore := trimPage(tt.fetched, tt.limit)
			if count != tt.count || hasMore != tt.hasMore {
				t.Errorf("trimPage(%d, %d) = (%d, %v), want (%d, %v)",
					tt.fetched, tt.limit, count, hasMore, tt.count, tt.hasMore)
			}
		})
	}
}
