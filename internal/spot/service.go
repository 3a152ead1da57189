package spot

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"backend-dropspot/internal/db"
	"backend-dropspot/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound  = errors.New("spot not found")
	ErrForbidden = errors.New("not the spot owner")
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

func (s *Service) Create(ctx context.Context, input Spot) (Spot, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO spots (id, title, description, photo, location, is_public, user_id, username)
		VALUES ($1,$2,$3,$4, ST_SetSRID(ST_MakePoint($5,$6), 4326)::geography, $7, $8, $9)
		RETURNING created_at
	`, input.ID, input.Title, input.Description, input.Photo, input.Longitude, input.Latitude, input.IsPublic, input.UserID, input.Username)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Spot{}, err
	}

	_, err := s.db.Exec(ctx, `
		UPDATE users SET spots_count = spots_count + 1 WHERE id = $1
	`, input.UserID)
	if err != nil {
		return Spot{}, err
	}

	if s.hub != nil && input.IsPublic {
		payload, _ := json.Marshal(input)
		s.hub.Publish(payload)
	}
	return input, nil
}

// List returns spots for the given filter with a fresh rating aggregate on
// each. "own" and "friends" need a caller; both fall back to the public
// listing when callerID is empty.
func (s *Service) List(ctx context.Context, filter Filter, callerID string) ([]Spot, error) {
	if callerID == "" {
		filter = FilterGlobal
	}

	const selectCols = `
		SELECT id, title, description, photo, ST_Y(location::geometry), ST_X(location::geometry),
		       is_public, user_id, username, created_at
		FROM spots`

	var (
		rows pgx.Rows
		err  error
	)
	switch filter {
	case FilterOwn:
		rows, err = s.db.Query(ctx, selectCols+`
		WHERE user_id = $1
		ORDER BY created_at DESC`, callerID)
	case FilterFriends:
		rows, err = s.db.Query(ctx, selectCols+`
		WHERE user_id = $1
		   OR user_id IN (SELECT friend_id FROM friendships WHERE user_id = $1)
		ORDER BY created_at DESC`, callerID)
	default:
		rows, err = s.db.Query(ctx, selectCols+`
		WHERE is_public
		ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []Spot
	var ids []string
	for rows.Next() {
		var sp Spot
		if err := rows.Scan(&sp.ID, &sp.Title, &sp.Description, &sp.Photo, &sp.Latitude, &sp.Longitude,
			&sp.IsPublic, &sp.UserID, &sp.Username, &sp.CreatedAt); err != nil {
			return nil, err
		}
		ids = append(ids, sp.ID)
		spots = append(spots, sp)
	}

	aggregates, err := s.loadAggregates(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range spots {
		agg := aggregates[spots[i].ID]
		spots[i].AverageRating = agg.average
		spots[i].RatingCount = agg.count
	}
	return spots, nil
}

func (s *Service) Get(ctx context.Context, id string) (Spot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, description, photo, ST_Y(location::geometry), ST_X(location::geometry),
		       is_public, user_id, username, created_at
		FROM spots WHERE id = $1
	`, id)

	var sp Spot
	if err := row.Scan(&sp.ID, &sp.Title, &sp.Description, &sp.Photo, &sp.Latitude, &sp.Longitude,
		&sp.IsPublic, &sp.UserID, &sp.Username, &sp.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Spot{}, ErrNotFound
		}
		return Spot{}, err
	}

	aggregates, err := s.loadAggregates(ctx, []string{sp.ID})
	if err != nil {
		return Spot{}, err
	}
	agg := aggregates[sp.ID]
	sp.AverageRating = agg.average
	sp.RatingCount = agg.count
	return sp, nil
}

// Delete removes a spot owned by callerID together with its ratings and
// decrements the owner's denormalized spot counter.
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	var ownerID string
	if err := s.db.QueryRow(ctx, `SELECT user_id FROM spots WHERE id = $1`, id).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if ownerID != callerID {
		return ErrForbidden
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM ratings WHERE spot_id = $1`, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM spots WHERE id = $1`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
		UPDATE users SET spots_count = GREATEST(spots_count - 1, 0) WHERE id = $1
	`, ownerID)
	return err
}

// Rate upserts the caller's rating for a spot. A second rating by the same
// user overwrites the first in place.
func (s *Service) Rate(ctx context.Context, spotID, userID string, rating int) error {
	var exists bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM spots WHERE id = $1)
	`, spotID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO ratings (spot_id, user_id, rating)
		VALUES ($1,$2,$3)
		ON CONFLICT (spot_id, user_id) DO UPDATE
		SET rating=EXCLUDED.rating, created_at=now()
	`, spotID, userID, rating)
	return err
}

// MyRating returns the caller's rating for a spot and whether one exists.
func (s *Service) MyRating(ctx context.Context, spotID, userID string) (int, bool, error) {
	var rating int
	err := s.db.QueryRow(ctx, `
		SELECT rating FROM ratings WHERE spot_id = $1 AND user_id = $2
	`, spotID, userID).Scan(&rating)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rating, true, nil
}

type aggregate struct {
	average float64
	count   int
}

func (s *Service) loadAggregates(ctx context.Context, spotIDs []string) (map[string]aggregate, error) {
	if len(spotIDs) == 0 {
		return map[string]aggregate{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT spot_id, AVG(rating)::float8, COUNT(*)
		FROM ratings WHERE spot_id = ANY($1)
		GROUP BY spot_id
	`, spotIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aggregates := map[string]aggregate{}
	for rows.Next() {
		var id string
		var avg float64
		var count int
		if err := rows.Scan(&id, &avg, &count); err != nil {
			return nil, err
		}
		aggregates[id] = aggregate{average: math.Round(avg*10) / 10, count: count}
	}
	return aggregates, nil
}
