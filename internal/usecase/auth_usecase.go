package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/pkg/apperror"
	"banjara-intake-backend/pkg/logger"
	"banjara-intake-backend/pkg/security"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "banjara-intake"

// AuthConfig configures reviewer login and token verification.
type AuthConfig struct {
	Username     string
	PasswordHash string // bcrypt
	Secret       string // HS256 signing key for tokens issued by Login
	TokenTTL     time.Duration
	// KeyFunc verifies RS256 tokens from an external identity provider.
	// Usually (*auth.Provider).KeyFunc; nil disables external tokens.
	KeyFunc jwt.Keyfunc
	// Guard locks out repeated failures; nil disables lockout.
	Guard LoginGuard
	Audit *security.AuditLogger
}

// LoginGuard is satisfied by *security.LoginTracker.
type LoginGuard interface {
	IsBlocked(ctx context.Context, username, ip string) (bool, error)
	RecordFailure(ctx context.Context, username, ip, requestID string) (bool, int, error)
	Clear(ctx context.Context, username, ip string) error
}

type reviewerClaims struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type authUsecase struct {
	cfg AuthConfig
	now func() time.Time
}

func NewAuthUsecase(cfg AuthConfig) domain.AuthUsecase {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	return &authUsecase{cfg: cfg, now: time.Now}
}

// Login checks the configured reviewer credentials and issues an HS256 token.
func (uc *authUsecase) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	if uc.cfg.Secret == "" || uc.cfg.PasswordHash == "" {
		return nil, apperror.New(http.StatusServiceUnavailable, "Reviewer login is not configured", nil)
	}

	ip := clientIP(ctx)
	if uc.cfg.Guard != nil {
		blocked, err := uc.cfg.Guard.IsBlocked(ctx, req.Username, ip)
		if err != nil {
			logger.Log.Warn("Login lockout check failed", "error", err, "request_id", requestID(ctx))
		}
		if blocked {
			uc.cfg.Audit.LoginBlocked(ctx, req.Username, ip, requestID(ctx))
			return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
		}
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(uc.cfg.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(uc.cfg.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		logger.Log.Warn("Reviewer login rejected", "username", security.MaskUsername(req.Username), "request_id", requestID(ctx))
		if uc.cfg.Guard != nil {
			if _, _, err := uc.cfg.Guard.RecordFailure(ctx, req.Username, ip, requestID(ctx)); err != nil {
				logger.Log.Warn("Failed to record login failure", "error", err, "request_id", requestID(ctx))
			}
		}
		return nil, apperror.Unauthorized("Invalid username or password")
	}
	if uc.cfg.Guard != nil {
		if err := uc.cfg.Guard.Clear(ctx, req.Username, ip); err != nil {
			logger.Log.Warn("Failed to clear login attempts", "error", err, "request_id", requestID(ctx))
		}
	}
	uc.cfg.Audit.LoginSucceeded(ctx, req.Username, ip, requestID(ctx))

	now := uc.now()
	expires := now.Add(uc.cfg.TokenTTL)
	claims := reviewerClaims{
		Role: domain.RoleReviewer,
		Name: uc.cfg.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   uc.cfg.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.Secret))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Reviewer logged in", "username", uc.cfg.Username, "request_id", requestID(ctx))
	return &domain.LoginResult{
		Token:     signed,
		ExpiresAt: expires,
		Reviewer: domain.Reviewer{
			ID:        uc.cfg.Username,
			Username:  uc.cfg.Username,
			Role:      domain.RoleReviewer,
			ExpiresAt: expires,
		},
	}, nil
}

// Authenticate verifies a reviewer token. HS256 tokens must be signed with the
// configured secret; RS256 tokens go through KeyFunc. Both need the reviewer role.
func (uc *authUsecase) Authenticate(ctx context.Context, tokenString string) (*domain.Reviewer, error) {
	if tokenString == "" {
		return nil, apperror.Unauthorized("Authentication required")
	}

	claims := &reviewerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, uc.keyFunc,
		jwt.WithValidMethods([]string{"HS256", "RS256"}),
		jwt.WithLeeway(30*time.Second),
		jwt.WithTimeFunc(uc.now),
	)
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Unauthorized("Session expired")
		}
		return nil, apperror.Unauthorized("Invalid token")
	}
	if claims.ExpiresAt == nil {
		return nil, apperror.Unauthorized("Invalid token")
	}
	if claims.Role != domain.RoleReviewer {
		return nil, apperror.Forbidden("Reviewer access required")
	}

	name := claims.Name
	if name == "" {
		name = claims.Subject
	}
	return &domain.Reviewer{
		ID:        claims.Subject,
		Username:  name,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (uc *authUsecase) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if uc.cfg.Secret == "" {
			return nil, errors.New("hmac tokens are not accepted")
		}
		return []byte(uc.cfg.Secret), nil
	case *jwt.SigningMethodRSA:
		if uc.cfg.KeyFunc == nil {
			return nil, errors.New("rsa tokens are not accepted")
		}
		return uc.cfg.KeyFunc(token)
	default:
		return nil, errors.New("unexpected signing method")
	}
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(domain.KeyClientIP).(string)
	return ip
}
