package token

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dhis2-sre/campus-events/internal/errdef"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/dhis2-sre/campus-events/pkg/token/helper"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(
	logger *slog.Logger,
	tokenRepository repository,
	privateKey *rsa.PrivateKey,
	accessTokenExpirationSeconds int,
	refreshTokenSecretKey string,
	refreshTokenExpirationSeconds int,
) (*tokenService, error) {
	if privateKey == nil {
		return nil, errors.New("private key is required")
	}
	if refreshTokenSecretKey == "" {
		return nil, errors.New("refresh token secret key is required")
	}

	return &tokenService{
		logger:                        logger,
		repository:                    tokenRepository,
		privateKey:                    privateKey,
		accessTokenExpirationSeconds:  accessTokenExpirationSeconds,
		refreshTokenSecretKey:         refreshTokenSecretKey,
		refreshTokenExpirationSeconds: refreshTokenExpirationSeconds,
	}, nil
}

type repository interface {
	SetRefreshToken(ctx context.Context, userId uint, tokenId string, expiresIn time.Duration) error
	DeleteRefreshToken(ctx context.Context, userId uint, previousTokenId string) error
	DeleteRefreshTokens(ctx context.Context, userId uint) error
}

// Tokens domain object defining user tokens
// swagger:model
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	TokenType    string `json:"tokenType"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    uint   `json:"expiresIn"`
}

type RefreshTokenData struct {
	SignedToken string
	ID          uuid.UUID
	UserId      uint
}

type tokenService struct {
	logger                        *slog.Logger
	repository                    repository
	privateKey                    *rsa.PrivateKey
	accessTokenExpirationSeconds  int
	refreshTokenSecretKey         string
	refreshTokenExpirationSeconds int
}

// GetTokens issues a new pair of tokens. The refresh token identified by previousRefreshTokenId is
// revoked, so every refresh token can only be used once.
func (t tokenService) GetTokens(ctx context.Context, user *model.User, previousRefreshTokenId string) (*Tokens, error) {
	if previousRefreshTokenId != "" {
		if err := t.repository.DeleteRefreshToken(ctx, user.ID, previousRefreshTokenId); err != nil {
			t.logger.InfoContext(ctx, "Refresh token already used or revoked", "error", err)
			return nil, errdef.NewUnauthorized("could not delete previous refreshToken for user.Id: %d, tokenId: %s", user.ID, previousRefreshTokenId)
		}
	}

	accessToken, err := helper.GenerateAccessToken(user, t.privateKey, t.accessTokenExpirationSeconds)
	if err != nil {
		return nil, fmt.Errorf("error generating accessToken for user %d: %v", user.ID, err)
	}

	refreshToken, err := helper.GenerateRefreshToken(user, t.refreshTokenSecretKey, t.refreshTokenExpirationSeconds)
	if err != nil {
		return nil, fmt.Errorf("error generating refreshToken for user %d: %v", user.ID, err)
	}

	if err := t.repository.SetRefreshToken(ctx, user.ID, refreshToken.TokenId, refreshToken.ExpiresIn); err != nil {
		return nil, fmt.Errorf("error storing token of user %d: %v", user.ID, err)
	}

	return &Tokens{
		AccessToken:  accessToken,
		TokenType:    "bearer",
		RefreshToken: refreshToken.SignedString,
		ExpiresIn:    uint(t.accessTokenExpirationSeconds),
	}, nil
}

func (t tokenService) ValidateRefreshToken(ctx context.Context, tokenString string) (*RefreshTokenData, error) {
	claims, err := helper.ValidateRefreshToken(tokenString, t.refreshTokenSecretKey)
	if err != nil {
		t.logger.InfoContext(ctx, "Unable to validate token", "error", err)
		return nil, errdef.NewUnauthorized("unable to verify refresh token")
	}

	tokenId, err := uuid.Parse(claims.ID)
	if err != nil {
		t.logger.InfoContext(ctx, "Couldn't parse token id", "error", err, "claimsId", claims.ID)
		return nil, errdef.NewUnauthorized("unable to verify refresh token")
	}

	return &RefreshTokenData{
		SignedToken: tokenString,
		ID:          tokenId,
		UserId:      claims.UserId,
	}, nil
}

// SignOut revokes every refresh token of the user. Access tokens stay valid until they expire.
func (t tokenService) SignOut(ctx context.Context, userId uint) error {
	return t.repository.DeleteRefreshTokens(ctx, userId)
}
