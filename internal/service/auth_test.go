package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egunkari/internal/config"
	"egunkari/internal/model"
)

type fakeDenylist struct {
	revoked  map[string]time.Time
	checkErr error
}

func (f *fakeDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[jti] = until
	return nil
}

func (f *fakeDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

func testAuthConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiresIn: time.Hour}
}

var testUser = model.PublicUser{ID: "u1", Email: "a@x.com", Username: "alice", Avatar: "http://a"}

func TestAuthService_IssueAndVerify(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), nil)

	token, err := svc.Issue(testUser)
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "http://a", claims.Avatar)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAuthService_Verify_Rejections(t *testing.T) {
	cfg := testAuthConfig()
	svc := NewAuthService(cfg, nil)

	valid, err := svc.Issue(testUser)
	require.NoError(t, err)

	expiredSvc := NewAuthService(cfg, nil)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredSvc.Issue(testUser)
	require.NoError(t, err)

	otherKey, err := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiresIn: time.Hour}, nil).Issue(testUser)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, model.Claims{UserID: "u1"}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, model.Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not-a-token"},
		{"expired", expired},
		{"wrong key", otherKey},
		{"tampered", valid[:len(valid)-2] + "xx"},
		{"no expiry", noExpiry},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(context.Background(), tt.token)
			assert.Nil(t, claims)
			assert.Equal(t, model.ErrInvalidSession, err)
		})
	}
}

func TestAuthService_Revoke(t *testing.T) {
	denylist := &fakeDenylist{}
	svc := NewAuthService(testAuthConfig(), denylist)

	token, err := svc.Issue(testUser)
	require.NoError(t, err)
	claims, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), claims))
	assert.Equal(t, claims.ExpiresAt.Time, denylist.revoked[claims.ID])

	_, err = svc.Verify(context.Background(), token)
	assert.ErrorIs(t, err, model.ErrInvalidSession)

	// A fresh login is unaffected.
	other, err := svc.Issue(testUser)
	require.NoError(t, err)
	_, err = svc.Verify(context.Background(), other)
	assert.NoError(t, err)
}

func TestAuthService_DenylistFailureFailsOpen(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), &fakeDenylist{checkErr: errors.New("redis down")})

	token, err := svc.Issue(testUser)
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestAuthService_RevokeWithoutDenylist(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), nil)
	assert.NoError(t, svc.Revoke(context.Background(), &model.Claims{UserID: "u1"}))
}
