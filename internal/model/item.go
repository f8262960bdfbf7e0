package model

import "time"

// Item is a hidden hunt item. The code is the redemption secret shown to
// nobody; the clue is what hunters see while the item is still hidden, and
// the directions are revealed only after a successful redemption.
type Item struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Clue       string     `json:"clue"`
	Code       string     `json:"-"`
	Directions string     `json:"directions,omitempty"`
	Found      bool       `json:"found"`
	PhotoURL   string     `json:"photo_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FoundAt    *time.Time `json:"found_at,omitempty"`
}

// Hidden reports whether the item should appear in the public listing.
func (i *Item) Hidden() bool {
	return !i.Found
}
