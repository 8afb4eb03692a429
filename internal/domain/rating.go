package domain

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a single 1-5 star vote for an item. At most one rating may
// exist per (ItemID, RaterID) pair; a second insert for the same pair is
// rejected, never overwritten.
type Rating struct {
	Record
	ItemID string `json:"item_id"`
	Rating int    `json:"rating"`
	// RaterID is a fresh anonymous identifier generated per submission
	// attempt. No cross-session linkage is guaranteed.
	RaterID string `json:"rater_id"`
}

// ValidRating reports whether v is an integer in [MinRating, MaxRating].
func ValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}
