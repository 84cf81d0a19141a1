package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fsanano/coffee-shop/internal/model"
	"fsanano/coffee-shop/internal/repository/memstore"
	"fsanano/coffee-shop/internal/service/auth"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var secret = []byte("test-secret-0123456789")

func newAuth(t *testing.T, now func() time.Time) *auth.Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("espresso-shot"), bcrypt.MinCost)
	require.NoError(t, err)

	return auth.NewService(auth.Config{
		Secret:            secret,
		TokenTTL:          time.Hour,
		AdminUsername:     "barista",
		AdminPasswordHash: string(hash),
		Now:               now,
	}, memstore.NewEmpty())
}

func TestAdminLogin(t *testing.T) {
	svc := newAuth(t, nil)
	ctx := context.Background()

	session, err := svc.AdminLogin(ctx, "barista", "espresso-shot")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, auth.RoleAdmin, session.User.Role)

	claims, err := svc.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
	assert.Equal(t, "barista", claims.Subject)

	_, err = svc.AdminLogin(ctx, "barista", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.AdminLogin(ctx, "someone", "espresso-shot")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestVerify_Rejects(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	svc := newAuth(t, clock)

	session, err := svc.AdminLogin(context.Background(), "barista", "espresso-shot")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newAuth(t, func() time.Time { return now.Add(2 * time.Hour) })
		_, err := later.Verify(session.Token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := svc.Verify("  ")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		claims := auth.Claims{
			Role: auth.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "coffee-shop",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret-value"))
		require.NoError(t, err)

		_, err = svc.Verify(forged)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := auth.Claims{
			Role: auth.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "coffee-shop",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(none)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		claims := auth.Claims{
			Role:             auth.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "coffee-shop"},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestSignupAndLogin(t *testing.T) {
	svc := newAuth(t, nil)
	ctx := context.Background()

	u, err := svc.Signup(ctx, auth.SignupInput{Name: "Ada", Email: " Ada@Example.com ", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, auth.RoleCustomer, u.Role)
	assert.NotEqual(t, "long-enough", u.PasswordHash)

	_, err = svc.Signup(ctx, auth.SignupInput{Name: "Ada", Email: "ada@example.com", Password: "long-enough"})
	assert.ErrorIs(t, err, model.ErrConflict)

	session, err := svc.Login(ctx, "ADA@example.com", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, u.ID, session.User.ID)

	claims, err := svc.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCustomer, claims.Role)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "long-enough")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSignup_Validation(t *testing.T) {
	svc := newAuth(t, nil)

	_, err := svc.Signup(context.Background(), auth.SignupInput{Name: "", Email: "bad", Password: "short"})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "name")
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "password")
}
