package models

// Review is a user rating with optional text. The id is assigned by the
// review service on submission.
type Review struct {
	ID      int64  `json:"id"`
	MovieID int64  `json:"movieId,omitempty"`
	Rating  int    `json:"rating"`
	Text    string `json:"text"`
}
