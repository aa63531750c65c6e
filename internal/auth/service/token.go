package service

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/forum/internal/auth/domain"
	"github.com/aussiebroadwan/forum/pkg/jwtx"
	"github.com/aussiebroadwan/forum/pkg/slogx"
)

// TokenService issues and rotates token pairs. Access and refresh tokens
// are signed by separate codecs, each with its own secret and lifetime.
type TokenService struct {
	AccessCodec  *jwtx.Codec
	RefreshCodec *jwtx.Codec
}

// Issue signs an access and a refresh token for id. Either both tokens
// are returned or neither is.
func (s *TokenService) Issue(id jwtx.Identity) (*domain.TokenPair, error) {
	if s == nil || s.AccessCodec == nil || s.RefreshCodec == nil {
		return nil, fmt.Errorf("%w: token codecs not configured", ErrConfiguration)
	}

	access, err := s.AccessCodec.Encode(id)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.RefreshCodec.Encode(id)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        s.AccessCodec.TTL(),
		RefreshExpiresIn: s.RefreshCodec.TTL(),
	}, nil
}

// Refresh verifies a refresh token and issues a fresh pair for the identity
// it carries. Verification failures are returned as jwtx errors with no
// fallback.
//
// Nothing is stored, so the same refresh token can be rotated any number
// of times until it expires.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, jwtx.Identity, error) {
	if refreshToken == "" {
		return nil, jwtx.Identity{}, ErrMissingToken
	}
	if s == nil || s.RefreshCodec == nil {
		return nil, jwtx.Identity{}, fmt.Errorf("%w: refresh codec not configured", ErrConfiguration)
	}

	id, err := s.RefreshCodec.Decode(refreshToken)
	if err != nil {
		slogx.FromContext(ctx).Info("refresh token rejected", "err", err)
		return nil, jwtx.Identity{}, err
	}

	pair, err := s.Issue(id)
	if err != nil {
		return nil, jwtx.Identity{}, err
	}
	return pair, id, nil
}

// Ready reports whether both codecs are configured.
func (s *TokenService) Ready() bool {
	return s != nil && s.AccessCodec != nil && s.RefreshCodec != nil
}
