package clinic

// Service is a catalogue entry describing a treatment the clinic offers.
// Reference data, read-only to the client.
type Service struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconName    string `json:"iconName"`
}

// ReviewAuthor identifies who left a review.
type ReviewAuthor struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Review is patient feedback about the practitioner. Immutable once
// submitted.
type Review struct {
	ID        string       `json:"_id"`
	Author    ReviewAuthor `json:"user"`
	Rating    int          `json:"rating"` // 1..5
	Comment   string       `json:"comment"`
	CreatedAt string       `json:"createdAt"`
}

// ValidRating reports whether r is an acceptable review rating.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
