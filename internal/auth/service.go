package auth

import (
	"context"
	"errors"
	"math"
	"time"

	"backend-dropspot/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

const uniqueViolation = "23505"

var (
	ErrMissingFields      = errors.New("username, email, password required")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("token invalid")
	ErrUserNotFound       = errors.New("user not found")
)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Profile, string, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return Profile{}, "", ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, "", err
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, user.ID, user.Username, user.Email, user.PasswordHash)
	if err := row.Scan(&user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Profile{}, "", ErrUserExists
		}
		return Profile{}, "", err
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return Profile{}, "", err
	}
	return Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Profile, string, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, spots_count, created_at
		FROM users WHERE username = $1
	`, req.Username)

	var user User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.SpotsCount, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, "", ErrInvalidCredentials
		}
		return Profile{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Profile{}, "", ErrInvalidCredentials
	}

	profile, err := s.Profile(ctx, user.ID)
	if err != nil {
		return Profile{}, "", err
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return Profile{}, "", err
	}
	return profile, token, nil
}

// Profile loads a user and recomputes friends count and the average rating
// across the user's own spots.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, username, email, spots_count, created_at
		FROM users WHERE id = $1
	`, userID)

	var p Profile
	if err := row.Scan(&p.ID, &p.Username, &p.Email, &p.SpotsCount, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, err
	}

	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM friendships WHERE user_id = $1
	`, userID).Scan(&p.FriendsCount); err != nil {
		return Profile{}, err
	}

	var avg float64
	if err := s.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(r.rating), 0)::float8
		FROM ratings r
		JOIN spots sp ON sp.id = r.spot_id
		WHERE sp.user_id = $1
	`, userID).Scan(&avg); err != nil {
		return Profile{}, err
	}
	p.AverageRating = math.Round(avg*10) / 10

	return p, nil
}

// ResolveUser verifies a bearer token and loads the user it refers to.
func (s *Service) ResolveUser(ctx context.Context, token string) (User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return User{}, ErrInvalidToken
	}

	row := s.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, spots_count, created_at
		FROM users WHERE id = $1
	`, claims.Subject)

	var user User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.SpotsCount, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrInvalidToken
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) signToken(userID string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
