package group

import (
	"context"

	"backend-dropspot/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Create stores a group with the creator as its sole initial member.
func (s *Service) Create(ctx context.Context, input Group) (Group, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO groups (id, name, description, is_private, created_by)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.Name, input.Description, input.IsPrivate, input.CreatedBy)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Group{}, err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, input.ID, input.CreatedBy)
	if err != nil {
		return Group{}, err
	}
	return input, nil
}

func (s *Service) MyGroups(ctx context.Context, userID string) ([]Group, error) {
	rows, err := s.db.Query(ctx, `
		SELECT g.id, g.name, g.description, g.is_private, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.IsPrivate, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}
