package auth

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the persisted account record.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	SpotsCount   int       `json:"spots_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the enriched view of a user with live-computed counts.
type Profile struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	SpotsCount    int       `json:"spots_count"`
	FriendsCount  int       `json:"friends_count"`
	AverageRating float64   `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
}

type TokenResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
