package social

import "time"

type FriendRequest struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// PendingRequest is a request addressed to the caller, enriched with the
// sender's username.
type PendingRequest struct {
	ID           string    `json:"id"`
	FromUserID   string    `json:"from_user_id"`
	FromUsername string    `json:"from_username"`
	CreatedAt    time.Time `json:"created_at"`
}

type Friend struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	SpotsCount int    `json:"spots_count"`
}

type SearchResult struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	SpotsCount int    `json:"spots_count"`
	IsFriend   bool   `json:"is_friend"`
}
