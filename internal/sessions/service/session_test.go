package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionserrors "studyhall/internal/sessions/errors"
	"studyhall/internal/sessions/validator"
	"studyhall/pkg/config"
	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
	"studyhall/pkg/sealer"
)

const (
	testSealingKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="
	testJWTSecret  = "test-secret"
)

type memoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*model.RefreshToken
	nextID int
}

func (m *memoryTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token.TokenHash]; ok {
		return sessionserrors.ErrDuplicateToken
	}
	m.nextID++
	token.ID = fmt.Sprintf("%024d", m.nextID)
	stored := *token
	m.tokens[token.TokenHash] = &stored
	return nil
}

func (m *memoryTokenRepository) FindByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[hash]
	if !ok {
		return nil, sessionserrors.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *memoryTokenRepository) Revoke(ctx context.Context, hash string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[hash]
	if !ok {
		return sessionserrors.ErrNotFound
	}
	if !t.IsRevoked {
		t.IsRevoked = true
		t.RevokedAt = &at
	}
	return nil
}

func (m *memoryTokenRepository) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.tokens {
		if t.UserID == userID && !t.IsRevoked {
			t.IsRevoked = true
			t.RevokedAt = &at
			n++
		}
	}
	return n, nil
}

func (m *memoryTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fixture struct {
	svc  *sessionService
	repo *memoryTokenRepository
	now  time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := sealer.New(testSealingKey)
	require.NoError(t, err)

	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{
		Log:             log,
		RefreshTokenTTL: 24 * time.Hour,
		AccessTokenTTL:  15 * time.Minute,
		JWTSecret:       testJWTSecret,
	}
	repo := &memoryTokenRepository{tokens: map[string]*model.RefreshToken{}}
	f := &fixture{repo: repo, now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	svc := NewSessionService(repo, s, validator.NewSessionValidator(log), cfg).(*sessionService)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func (f *fixture) issue(t *testing.T, userID string) *model.IssuedToken {
	t.Helper()
	issued, err := f.svc.Issue(context.Background(),
		&model.IssueTokenRequest{UserID: userID, DeviceID: "laptop"},
		model.ClientInfo{UserAgent: "Go-http-client/1.1", IPAddress: "10.0.0.7"})
	require.NoError(t, err)
	return issued
}

func TestIssue_StoresOnlyHash(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, "student-1")

	assert.NotEmpty(t, issued.RefreshToken)
	assert.Equal(t, "student-1", issued.UserID)
	assert.Equal(t, f.now.Add(24*time.Hour), issued.ExpiresAt)

	stored, err := f.repo.FindByHash(context.Background(), HashToken(issued.RefreshToken))
	require.NoError(t, err)
	assert.NotEqual(t, issued.RefreshToken, stored.TokenHash)
	assert.Len(t, stored.TokenHash, 64)
	assert.Equal(t, "laptop", stored.DeviceID)
	assert.Equal(t, "10.0.0.7", stored.IPAddress)
	assert.False(t, stored.IsRevoked)

	second := f.issue(t, "student-1")
	assert.NotEqual(t, issued.RefreshToken, second.RefreshToken)
}

func TestIssue_RequiresUserID(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Issue(context.Background(), &model.IssueTokenRequest{UserID: "   "}, model.ClientInfo{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
}

func TestValidate(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, "student-1")

	info, err := f.svc.Validate(context.Background(), issued.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "student-1", info.UserID)
	assert.Equal(t, issued.TokenID, info.TokenID)

	tests := []struct {
		name  string
		token string
		code  string
	}{
		{"empty", "", apperrors.CodeValidation},
		{"garbage", "not-a-sealed-token", apperrors.CodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Validate(context.Background(), tt.token)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestValidate_UnknownSealedToken(t *testing.T) {
	f := newFixture(t)
	s, err := sealer.New(testSealingKey)
	require.NoError(t, err)
	raw, err := s.CreateOpaqueToken("student-1")
	require.NoError(t, err)

	_, err = f.svc.Validate(context.Background(), raw)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized), "got %v", err)
}

func TestValidate_ExpiredDocumentStillPresent(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, "student-1")

	f.now = f.now.Add(24 * time.Hour)
	_, err := f.svc.Validate(context.Background(), issued.RefreshToken)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized), "got %v", err)

	_, err = f.repo.FindByHash(context.Background(), HashToken(issued.RefreshToken))
	assert.NoError(t, err)
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, "student-1")

	require.NoError(t, f.svc.Revoke(context.Background(), issued.RefreshToken))
	require.NoError(t, f.svc.Revoke(context.Background(), issued.RefreshToken))

	stored, err := f.repo.FindByHash(context.Background(), HashToken(issued.RefreshToken))
	require.NoError(t, err)
	assert.True(t, stored.IsRevoked)
	require.NotNil(t, stored.RevokedAt)

	_, err = f.svc.Validate(context.Background(), issued.RefreshToken)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized), "got %v", err)

	_, err = f.svc.Refresh(context.Background(), issued.RefreshToken)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized), "got %v", err)
}

func TestRevokeAll(t *testing.T) {
	f := newFixture(t)
	a := f.issue(t, "student-1")
	b := f.issue(t, "student-1")
	other := f.issue(t, "student-2")

	n, err := f.svc.RevokeAll(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, raw := range []string{a.RefreshToken, b.RefreshToken} {
		_, err := f.svc.Validate(context.Background(), raw)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	}
	_, err = f.svc.Validate(context.Background(), other.RefreshToken)
	assert.NoError(t, err)

	_, err = f.svc.RevokeAll(context.Background(), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestRefresh_SignsAccessToken(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, "student-1")

	access, err := f.svc.Refresh(context.Background(), issued.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeBearer, access.TokenType)
	assert.Equal(t, f.now.Add(15*time.Minute), access.ExpiresAt)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(access.AccessToken, claims, func(tok *jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return f.now }))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "student-1", claims.Subject)
	assert.Equal(t, "studyhall", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}
