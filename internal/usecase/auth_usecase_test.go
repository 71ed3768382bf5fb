package usecase_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"banjara-intake-backend/internal/domain"
	"banjara-intake-backend/internal/usecase"
	"banjara-intake-backend/pkg/apperror"
	"banjara-intake-backend/pkg/security"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authConfig(t *testing.T) usecase.AuthConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return usecase.AuthConfig{
		Username:     "reviewer",
		PasswordHash: string(hash),
		Secret:       "test-signing-secret",
		TokenTTL:     time.Hour,
	}
}

func assertAppError(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Should issue a token that authenticates", func(t *testing.T) {
		uc := usecase.NewAuthUsecase(authConfig(t))

		res, err := uc.Login(ctx, domain.LoginRequest{Username: "reviewer", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, domain.RoleReviewer, res.Reviewer.Role)

		who, err := uc.Authenticate(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, "reviewer", who.Username)
		assert.WithinDuration(t, res.ExpiresAt, who.ExpiresAt, time.Second)
	})

	t.Run("Should reject wrong credentials", func(t *testing.T) {
		uc := usecase.NewAuthUsecase(authConfig(t))

		_, err := uc.Login(ctx, domain.LoginRequest{Username: "reviewer", Password: "nope"})
		assertAppError(t, err, 401)

		_, err = uc.Login(ctx, domain.LoginRequest{Username: "someone", Password: "s3cret-pass"})
		assertAppError(t, err, 401)
	})

	t.Run("Should refuse login when unconfigured", func(t *testing.T) {
		uc := usecase.NewAuthUsecase(usecase.AuthConfig{Username: "reviewer"})
		_, err := uc.Login(ctx, domain.LoginRequest{Username: "reviewer", Password: "x"})
		assertAppError(t, err, 503)
	})

	t.Run("Should lock out after repeated failures", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		defer client.Close()

		cfg := authConfig(t)
		cfg.Guard = security.NewLoginTrackerWithClient(security.LoginTrackerConfig{
			MaxAttempts: 2, AttemptWindow: time.Minute, BlockDuration: time.Minute,
		}, nil, client)
		uc := usecase.NewAuthUsecase(cfg)
		ipCtx := context.WithValue(ctx, domain.KeyClientIP, "10.1.1.1")

		for i := 0; i < 2; i++ {
			_, err := uc.Login(ipCtx, domain.LoginRequest{Username: "reviewer", Password: "wrong"})
			assertAppError(t, err, 401)
		}
		_, err := uc.Login(ipCtx, domain.LoginRequest{Username: "reviewer", Password: "s3cret-pass"})
		assertAppError(t, err, 429)

		mr.FastForward(2 * time.Minute)
		_, err = uc.Login(ipCtx, domain.LoginRequest{Username: "reviewer", Password: "s3cret-pass"})
		require.NoError(t, err)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject expired tokens", func(t *testing.T) {
		cfg := authConfig(t)
		past := time.Now().Add(-2 * time.Hour)
		issuer := usecase.NewAuthUsecaseAt(cfg, func() time.Time { return past })
		res, err := issuer.Login(ctx, domain.LoginRequest{Username: "reviewer", Password: "s3cret-pass"})
		require.NoError(t, err)

		_, err = usecase.NewAuthUsecase(cfg).Authenticate(ctx, res.Token)
		assertAppError(t, err, 401)
	})

	t.Run("Should reject tokens signed with another secret", func(t *testing.T) {
		other := authConfig(t)
		other.Secret = "different"
		res, err := usecase.NewAuthUsecase(other).Login(ctx, domain.LoginRequest{Username: "reviewer", Password: "s3cret-pass"})
		require.NoError(t, err)

		_, err = usecase.NewAuthUsecase(authConfig(t)).Authenticate(ctx, res.Token)
		assertAppError(t, err, 401)
	})

	t.Run("Should reject empty and garbage tokens", func(t *testing.T) {
		uc := usecase.NewAuthUsecase(authConfig(t))
		_, err := uc.Authenticate(ctx, "")
		assertAppError(t, err, 401)
		_, err = uc.Authenticate(ctx, "not.a.jwt")
		assertAppError(t, err, 401)
	})

	t.Run("Should require the reviewer role", func(t *testing.T) {
		cfg := authConfig(t)
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  "visitor",
			"role": "candidate",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(cfg.Secret))
		require.NoError(t, err)

		_, err = usecase.NewAuthUsecase(cfg).Authenticate(ctx, tok)
		assertAppError(t, err, 403)
	})

	t.Run("Should verify RS256 tokens through the key func", func(t *testing.T) {
		priv, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		cfg := authConfig(t)
		cfg.KeyFunc = func(*jwt.Token) (interface{}, error) { return &priv.PublicKey, nil }
		tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"sub":  "sso|42",
			"name": "Priya",
			"role": "reviewer",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}).SignedString(priv)
		require.NoError(t, err)

		who, err := usecase.NewAuthUsecase(cfg).Authenticate(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "sso|42", who.ID)
		assert.Equal(t, "Priya", who.Username)

		// Without a key func RS256 is refused
		cfg.KeyFunc = nil
		_, err = usecase.NewAuthUsecase(cfg).Authenticate(ctx, tok)
		assertAppError(t, err, 401)
	})
}
