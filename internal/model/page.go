package model

// Paging limits shared by every listing.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NormalizePage clamps a 1-based page number and page size to their allowed
// ranges.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
