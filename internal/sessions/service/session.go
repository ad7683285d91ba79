package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	sessionserrors "studyhall/internal/sessions/errors"
	"studyhall/internal/sessions/repository"
	"studyhall/internal/sessions/validator"
	"studyhall/pkg/config"
	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/model"
	"studyhall/pkg/sanitizer"
	"studyhall/pkg/validation"
)

const (
	TokenTypeBearer = "Bearer"
	issuer          = "studyhall"
)

// TokenSealer produces opaque refresh tokens that carry their user id.
type TokenSealer interface {
	CreateOpaqueToken(subject string) (string, error)
	ParseOpaqueToken(token string) (string, error)
}

type SessionService interface {
	Issue(ctx context.Context, req *model.IssueTokenRequest, client model.ClientInfo) (*model.IssuedToken, error)
	Validate(ctx context.Context, rawToken string) (*model.TokenInfo, error)
	Refresh(ctx context.Context, rawToken string) (*model.AccessToken, error)
	Revoke(ctx context.Context, rawToken string) error
	RevokeAll(ctx context.Context, userID string) (int64, error)
}

type sessionService struct {
	repo      repository.TokenRepository
	sealer    TokenSealer
	validator *validator.SessionValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewSessionService(
	repo repository.TokenRepository,
	sealer TokenSealer,
	validator *validator.SessionValidator,
	cfg *config.Config,
) SessionService {
	return &sessionService{
		repo:      repo,
		sealer:    sealer,
		validator: validator,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// HashToken is the stored form of a raw refresh token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *sessionService) Issue(ctx context.Context, req *model.IssueTokenRequest, client model.ClientInfo) (*model.IssuedToken, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.DeviceID = strings.TrimSpace(req.DeviceID)
	if err := s.validator.ValidateIssue(req); err != nil {
		return nil, validation.ToAppError("Token request validation failed", err)
	}

	raw, err := s.sealer.CreateOpaqueToken(req.UserID)
	if err != nil {
		s.cfg.Log.Error("Failed to seal refresh token", "user_id", req.UserID, "error", err)
		return nil, apperrors.Internal("Failed to issue refresh token", err)
	}

	now := s.now()
	token := &model.RefreshToken{
		TokenHash: HashToken(raw),
		UserID:    req.UserID,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL).Truncate(time.Millisecond),
		DeviceID:  req.DeviceID,
		UserAgent: sanitizer.SanitizeText(client.UserAgent),
		IPAddress: client.IPAddress,
	}
	if err := s.repo.Create(ctx, token); err != nil {
		return nil, s.translate(err, "Failed to issue refresh token")
	}

	s.cfg.Log.Info("Refresh token issued",
		"token_id", token.ID,
		"user_id", token.UserID,
		"device_id", token.DeviceID,
	)
	return &model.IssuedToken{
		TokenID:      token.ID,
		RefreshToken: raw,
		UserID:       token.UserID,
		ExpiresAt:    token.ExpiresAt,
	}, nil
}

func (s *sessionService) Validate(ctx context.Context, rawToken string) (*model.TokenInfo, error) {
	token, err := s.lookup(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	return &model.TokenInfo{
		TokenID:   token.ID,
		UserID:    token.UserID,
		DeviceID:  token.DeviceID,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

func (s *sessionService) Refresh(ctx context.Context, rawToken string) (*model.AccessToken, error) {
	token, err := s.lookup(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.AccessTokenTTL)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   token.UserID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.cfg.Log.Error("Failed to sign access token", "user_id", token.UserID, "error", err)
		return nil, apperrors.Internal("Failed to issue access token", err)
	}

	s.cfg.Log.Info("Access token issued", "user_id", token.UserID, "token_id", token.ID)
	return &model.AccessToken{
		AccessToken: signed,
		TokenType:   TokenTypeBearer,
		UserID:      token.UserID,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *sessionService) Revoke(ctx context.Context, rawToken string) error {
	if err := s.checkRaw(rawToken); err != nil {
		return err
	}
	if _, err := s.sealer.ParseOpaqueToken(rawToken); err != nil {
		return apperrors.Unauthorized("Invalid refresh token")
	}

	if err := s.repo.Revoke(ctx, HashToken(rawToken), s.now()); err != nil {
		return s.translate(err, "Failed to revoke refresh token")
	}
	s.cfg.Log.Info("Refresh token revoked")
	return nil
}

func (s *sessionService) RevokeAll(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	n, err := s.repo.RevokeAllForUser(ctx, userID, s.now())
	if err != nil {
		return 0, s.translate(err, "Failed to revoke refresh tokens")
	}
	s.cfg.Log.Info("Refresh tokens revoked for user", "user_id", userID, "count", n)
	return n, nil
}

// lookup resolves a raw token to its stored record. The sealed user id must
// match the stored one and the record must still be usable.
func (s *sessionService) lookup(ctx context.Context, rawToken string) (*model.RefreshToken, error) {
	if err := s.checkRaw(rawToken); err != nil {
		return nil, err
	}

	subject, err := s.sealer.ParseOpaqueToken(rawToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}

	token, err := s.repo.FindByHash(ctx, HashToken(rawToken))
	if err != nil {
		return nil, s.translate(err, "Failed to validate refresh token")
	}
	if token.UserID != subject {
		s.cfg.Log.Warn("Refresh token subject mismatch", "token_id", token.ID)
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}
	if token.IsRevoked {
		return nil, apperrors.Unauthorized("Refresh token has been revoked")
	}
	if !token.Usable(s.now()) {
		return nil, apperrors.Unauthorized("Refresh token has expired")
	}
	return token, nil
}

func (s *sessionService) checkRaw(rawToken string) error {
	req := model.TokenRequest{RefreshToken: rawToken}
	if err := s.validator.ValidateToken(&req); err != nil {
		return validation.ToAppError("Token request validation failed", err)
	}
	return nil
}

func (s *sessionService) translate(err error, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, sessionserrors.ErrNotFound):
		return apperrors.Unauthorized("Invalid refresh token")
	case errors.Is(err, sessionserrors.ErrDuplicateToken):
		return apperrors.Conflict("Refresh token collision, retry the request")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(message)
	default:
		s.cfg.Log.Error(message, "error", err)
		return apperrors.Internal(message, err)
	}
}
