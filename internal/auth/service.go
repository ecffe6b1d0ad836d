package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/mesikahq/gestion-salud/internal/audit"
	"github.com/mesikahq/gestion-salud/internal/database"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already registered")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// Well-known roles.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleReader   = "reader"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	LastLogin    time.Time `json:"last_login"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Status       string    `json:"status"`
}

type Service interface {
	Register(ctx context.Context, username, email, password string, roles []string) (*User, error)
	Login(ctx context.Context, username, password string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	RefreshToken(ctx context.Context, tokenString string) (string, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	DeactivateUser(ctx context.Context, userID string) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)

	// EnsureAdmin creates the administrative account if no account with
	// that username exists. Safe to call on every startup.
	EnsureAdmin(ctx context.Context, username, email, password string) error
}

type service struct {
	db          *pgxpool.Pool
	audit       audit.Service
	jwtSecret   []byte
	tokenExpiry time.Duration
}

type ServiceConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

func NewService(db *pgxpool.Pool, auditService audit.Service, config ServiceConfig) Service {
	expiry := config.TokenExpiry
	if expiry == 0 {
		expiry = time.Hour
	}
	return &service{
		db:          db,
		audit:       auditService,
		jwtSecret:   []byte(config.JWTSecret),
		tokenExpiry: expiry,
	}
}

func (s *service) Register(ctx context.Context, username, email, password string, roles []string) (*User, error) {
	if username == "" || email == "" {
		return nil, errors.New("username and email are required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if len(roles) == 0 {
		roles = []string{RoleReader}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Roles:     roles,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Status:    "active",
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, roles, created_at, updated_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Username, user.Email, string(hashed), pq.Array(user.Roles),
		user.CreatedAt, user.UpdatedAt, user.Status)
	if err != nil {
		if database.IsUniqueViolation(err, "users_username_key") ||
			database.IsUniqueViolation(err, "users_email_key") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	details, _ := json.Marshal(map[string]interface{}{"username": username, "roles": roles})
	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  audit.EventModify,
		UserID:     user.ID,
		Action:     "REGISTER",
		Resource:   "users",
		ResourceID: user.ID,
		Status:     "success",
		Details:    json.RawMessage(details),
	})
	return user, nil
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	var user User
	var lastLogin sql.NullTime
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, roles, last_login, status
		 FROM users WHERE username = $1`, username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Roles, &lastLogin, &user.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to read user: %w", err)
	}
	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}
	if user.Status != "active" {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.audit.LogEvent(ctx, &audit.AuditEvent{
			EventType: audit.EventLogin,
			Action:    "LOGIN",
			Resource:  "users",
			Status:    "failure",
		})
		return "", ErrInvalidCredentials
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return "", err
	}

	if _, err := s.db.Exec(ctx,
		"UPDATE users SET last_login = $1 WHERE id = $2",
		time.Now().UTC(), user.ID); err != nil {
		return "", fmt.Errorf("failed to record login: %w", err)
	}

	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  audit.EventLogin,
		UserID:     user.ID,
		Action:     "LOGIN",
		Resource:   "users",
		ResourceID: user.ID,
		Status:     "success",
	})
	return token, nil
}

func (s *service) generateToken(user *User) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.Roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *service) ValidateToken(_ context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RefreshToken issues a fresh token for a still-valid one.
func (s *service) RefreshToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return "", err
	}
	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if user.Status != "active" {
		return "", ErrInvalidCredentials
	}
	return s.generateToken(user)
}

func (s *service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	var hash string
	err := s.db.QueryRow(ctx,
		"SELECT password_hash FROM users WHERE id = $1", userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to read user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := s.db.Exec(ctx,
		"UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3",
		string(newHash), time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  audit.EventModify,
		UserID:     userID,
		Action:     "CHANGE_PASSWORD",
		Resource:   "users",
		ResourceID: userID,
		Status:     "success",
	})
	return nil
}

func (s *service) DeactivateUser(ctx context.Context, userID string) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE users SET status = 'inactive', updated_at = $1 WHERE id = $2",
		time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  audit.EventModify,
		UserID:     audit.UserID(ctx),
		Action:     "DEACTIVATE",
		Resource:   "users",
		ResourceID: userID,
		Status:     "success",
	})
	return nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	var user User
	var lastLogin sql.NullTime
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, roles, last_login, created_at, updated_at, status
		 FROM users WHERE id = $1`, userID,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Roles,
		&lastLogin, &user.CreatedAt, &user.UpdatedAt, &user.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}
	return &user, nil
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, username, email, roles, last_login, created_at, updated_at, status
		 FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		var lastLogin sql.NullTime
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Roles,
			&lastLogin, &user.CreatedAt, &user.UpdatedAt, &user.Status); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if lastLogin.Valid {
			user.LastLogin = lastLogin.Time
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// EnsureAdmin is idempotent: the unique username closes the race between
// concurrent bootstrap runs, so repeated calls leave exactly one account.
func (s *service) EnsureAdmin(ctx context.Context, username, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, roles, created_at, updated_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')
		 ON CONFLICT (username) DO NOTHING`,
		uuid.New().String(), username, email, string(hashed),
		pq.Array([]string{RoleAdmin}), now, now)
	if err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType: audit.EventBootstrap,
		Action:    "ENSURE_ADMIN",
		Resource:  "users",
		Status:    "success",
	})
	return nil
}
