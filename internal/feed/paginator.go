package feed

// Page size bounds. Out-of-range limits are clamped rather than
// rejected.
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// clampLimit normalizes a requested page size into [1, MaxPageSize],
// defaulting when unset.
func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultPageSize
	case limit < 1:
		return 1
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}

// trimPage implements the limit+1 contract: rows were fetched with one
// extra, so anything past limit means another page exists. Returns the
// trimmed count and whether more rows remain.
func trimPage(fetched, limit int) (int, bool) {
	if fetched > limit {
		return limit, true
	}
	return fetched, false
}
