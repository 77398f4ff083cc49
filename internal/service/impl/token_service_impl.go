package impl

import (
	"fmt"
	"log/slog"
	"time"

	"budget/internal/domain"
	"budget/internal/dto"
	"budget/internal/jwtsigner"
	"budget/internal/observability/metrics"

	"github.com/google/uuid"
)

type TokenConfig struct {
	AccessTTL time.Duration // e.g. 15 * time.Minute
}

// TokenServiceImpl issues stateless EdDSA access tokens whose subject is the
// user id.
type TokenServiceImpl struct {
	cfg    TokenConfig
	signer *jwtsigner.Signer
}

func NewTokenService(cfg TokenConfig, signer *jwtsigner.Signer) *TokenServiceImpl {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	return &TokenServiceImpl{cfg: cfg, signer: signer}
}

func (t *TokenServiceImpl) Issue(user *domain.User) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues(result).Inc()
	}()

	access, err := t.signer.Sign(user.ID.String(), t.cfg.AccessTTL)
	if err != nil {
		result = "error"
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	slog.Debug("issued access token", "user_id", user.ID)
	return &dto.TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

func (t *TokenServiceImpl) Authenticate(raw string) (domain.UserID, error) {
	sub, err := t.signer.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", domain.ErrUnauthenticated)
	}
	return id, nil
}

func (t *TokenServiceImpl) JWKS() map[string]any {
	return map[string]any{"keys": []any{t.signer.PublicJWK()}}
}
