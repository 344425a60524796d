// Package auth issues and verifies session tokens and resolves them to users.
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/erazemk/ponovno/internal/apperr"
	"github.com/erazemk/ponovno/internal/model"
	"github.com/erazemk/ponovno/internal/store"
)

// Gateway authenticates users against the user store.
type Gateway struct {
	DB     *sql.DB
	Secret string
	TTL    time.Duration
}

// Session is returned by Register and Login.
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// RegisterInput holds the fields accepted at registration.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city"`
	Photo    string `json:"photo"`
}

// NormalizeEmail trims and case-folds an email address.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// Register creates a user and opens a session for them.
func (g *Gateway) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if err := model.ValidatePassword(in.Password); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	existing, err := store.GetUserByEmail(ctx, g.DB, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := store.CreateUser(ctx, g.DB, &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		City:         strings.TrimSpace(in.City),
		Photo:        strings.TrimSpace(in.Photo),
	})
	if store.IsUniqueViolation(err) {
		return nil, apperr.Validation("email already registered")
	}
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return g.session(user)
}

// Login checks credentials and opens a session.
func (g *Gateway) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.ErrInvalidCredentials, "invalid credentials")
	}

	user, err := store.GetUserByEmail(ctx, g.DB, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.ErrInvalidCredentials, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "user_id", user.ID)
		return nil, apperr.New(apperr.ErrInvalidCredentials, "invalid credentials")
	}

	slog.Info("user logged in", "user_id", user.ID)
	return g.session(user)
}

// Verify resolves a bearer token to its claims and the current user record.
func (g *Gateway) Verify(ctx context.Context, token string) (*model.User, *Claims, error) {
	claims, err := ValidateToken(g.Secret, token)
	if err != nil {
		return nil, nil, apperr.New(apperr.ErrUnauthenticated, "invalid token")
	}

	revoked, err := store.IsTokenRevoked(ctx, g.DB, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, apperr.New(apperr.ErrUnauthenticated, "token has been revoked")
	}

	user, err := store.GetUser(ctx, g.DB, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apperr.New(apperr.ErrUnauthenticated, "user no longer exists")
	}

	return user, claims, nil
}

// Logout revokes the token the claims came from until it would expire.
func (g *Gateway) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return apperr.New(apperr.ErrUnauthenticated, "not authenticated")
	}

	expiresAt := time.Now().Add(g.ttl())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := store.RevokeToken(ctx, g.DB, claims.ID, expiresAt); err != nil {
		return err
	}
	if _, err := store.PurgeRevokedTokens(ctx, g.DB, time.Now()); err != nil {
		slog.Warn("purging revoked tokens", "error", err)
	}

	slog.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// ChangePassword replaces a user's password after checking the current one.
func (g *Gateway) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("current and new password required")
	}

	user, err := store.GetUser(ctx, g.DB, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperr.New(apperr.ErrInvalidCredentials, "current password is incorrect")
	}
	if err := model.ValidatePassword(next); err != nil {
		return apperr.Validation(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := store.UpdateUserPassword(ctx, g.DB, userID, string(hash)); err != nil {
		return err
	}

	slog.Info("user changed own password", "user_id", userID)
	return nil
}

func (g *Gateway) session(user *model.User) (*Session, error) {
	token, err := GenerateToken(g.Secret, g.ttl(), user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

func (g *Gateway) ttl() time.Duration {
	if g.TTL <= 0 {
		return DefaultTTL
	}
	return g.TTL
}
