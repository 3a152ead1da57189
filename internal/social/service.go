package social

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"backend-dropspot/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const searchLimit = 10

var (
	ErrSelfRequest     = errors.New("cannot send a friend request to yourself")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyFriends  = errors.New("already friends")
	ErrRequestPending  = errors.New("friend request already pending")
	ErrRequestNotFound = errors.New("friend request not found")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) SendRequest(ctx context.Context, fromID, toID string) (FriendRequest, error) {
	if fromID == toID {
		return FriendRequest{}, ErrSelfRequest
	}

	var exists bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)
	`, toID).Scan(&exists); err != nil {
		return FriendRequest{}, err
	}
	if !exists {
		return FriendRequest{}, ErrUserNotFound
	}

	var friends bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)
	`, fromID, toID).Scan(&friends); err != nil {
		return FriendRequest{}, err
	}
	if friends {
		return FriendRequest{}, ErrAlreadyFriends
	}

	var pending bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE from_user_id = $1 AND to_user_id = $2 AND status = 'pending'
		)
	`, fromID, toID).Scan(&pending); err != nil {
		return FriendRequest{}, err
	}
	if pending {
		return FriendRequest{}, ErrRequestPending
	}

	request := FriendRequest{
		ID:         uuid.NewString(),
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     "pending",
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO friend_requests (id, from_user_id, to_user_id, status)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, request.ID, request.FromUserID, request.ToUserID, request.Status)
	if err := row.Scan(&request.CreatedAt); err != nil {
		return FriendRequest{}, err
	}
	return request, nil
}

// Accept marks a pending request addressed to callerID as accepted and adds
// both friendship directions. The status update is conditional on the request
// still being pending, and the friendship inserts are idempotent, so a second
// accept cannot duplicate anything.
func (s *Service) Accept(ctx context.Context, requestID, callerID string) error {
	var fromID string
	err := s.db.QueryRow(ctx, `
		UPDATE friend_requests SET status = 'accepted'
		WHERE id = $1 AND to_user_id = $2 AND status = 'pending'
		RETURNING from_user_id
	`, requestID, callerID).Scan(&fromID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1,$2), ($2,$1)
		ON CONFLICT DO NOTHING
	`, callerID, fromID)
	return err
}

func (s *Service) PendingRequests(ctx context.Context, userID string) ([]PendingRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT fr.id, fr.from_user_id, u.username, fr.created_at
		FROM friend_requests fr
		JOIN users u ON u.id = fr.from_user_id
		WHERE fr.to_user_id = $1 AND fr.status = 'pending'
		ORDER BY fr.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []PendingRequest
	for rows.Next() {
		var r PendingRequest
		if err := rows.Scan(&r.ID, &r.FromUserID, &r.FromUsername, &r.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, nil
}

func (s *Service) Friends(ctx context.Context, userID string) ([]Friend, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.username, u.spots_count
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY u.username
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []Friend
	for rows.Next() {
		var f Friend
		if err := rows.Scan(&f.ID, &f.Username, &f.SpotsCount); err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, nil
}

// likeEscaper makes ILIKE treat the user's query as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches usernames case-insensitively, excluding the caller. Queries
// shorter than two characters return no results.
func (s *Service) Search(ctx context.Context, query, callerID string) ([]SearchResult, error) {
	if utf8.RuneCountInString(query) < 2 {
		return []SearchResult{}, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.username, u.spots_count,
		       EXISTS (SELECT 1 FROM friendships f WHERE f.user_id = $2 AND f.friend_id = u.id)
		FROM users u
		WHERE u.username ILIKE '%' || $1 || '%' AND u.id <> $2
		ORDER BY u.username
		LIMIT $3
	`, likeEscaper.Replace(query), callerID, searchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]SearchResult, 0, searchLimit)
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Username, &r.SpotsCount, &r.IsFriend); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
