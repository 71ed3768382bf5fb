package domain

import (
	"context"
	"time"
)

// RoleReviewer is the single role allowed on the review surface.
const RoleReviewer = "reviewer"

// Reviewer is an authenticated member of the review team.
type Reviewer struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Reviewer  Reviewer  `json:"reviewer"`
}

// AuthUsecase issues and verifies reviewer tokens.
type AuthUsecase interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (*Reviewer, error)
}
