package spot

import "time"

type Spot struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Photo         string    `json:"photo,omitempty"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	IsPublic      bool      `json:"is_public"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int       `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Filter selects which spots a listing returns.
type Filter string

const (
	FilterGlobal  Filter = "global"
	FilterOwn     Filter = "own"
	FilterFriends Filter = "friends"
)
