package helper

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const userIdClaim = "userId"

// GenerateAccessToken signs a short lived token carrying the user, including the profile and thereby
// the role, as the "user" claim.
func GenerateAccessToken(user *model.User, key *rsa.PrivateKey, expirationInSeconds int) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		IssuedAt(now).
		Expiration(now.Add(time.Duration(expirationInSeconds) * time.Second)).
		Claim("user", user).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build access token: %v", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256, key))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %v", err)
	}

	return string(signed), nil
}

type refreshToken struct {
	SignedString string
	TokenId      string
	ExpiresIn    time.Duration
}

// GenerateRefreshToken signs a token identifying the user. Its id is what gets stored, so a refresh
// token can be revoked by deleting the id.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func GenerateRefreshToken(user *model.User, secretKey string, expirationInSeconds int) (*refreshToken, error) {
	now := time.Now()
	expiresIn := time.Duration(expirationInSeconds) * time.Second
	tokenId := uuid.NewString()

	token, err := jwt.NewBuilder().
		JwtID(tokenId).
		IssuedAt(now).
		Expiration(now.Add(expiresIn)).
		Claim(userIdClaim, user.ID).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build refresh token: %v", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte(secretKey)))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %v", err)
	}

	return &refreshToken{
		SignedString: string(signed),
		TokenId:      tokenId,
		ExpiresIn:    expiresIn,
	}, nil
}

type refreshTokenClaims struct {
	UserId    uint          `json:"userId"`
	ID        string        `json:"jti"`
	ExpiresIn time.Duration `json:"exp"`
	IssuedAt  int64         `json:"iat"`
}

// ValidateRefreshToken verifies the signature and expiration of the token and returns its claims
//
//goland:noinspection GoExportedFuncWithUnexportedType
func ValidateRefreshToken(tokenString string, secretKey string) (*refreshTokenClaims, error) {
	token, err := jwt.Parse([]byte(tokenString), jwt.WithKey(jwa.HS256, []byte(secretKey)))
	if err != nil {
		return nil, err
	}

	if token.JwtID() == "" {
		return nil, fmt.Errorf("%s not found in claims", jwt.JwtIDKey)
	}
	if token.Expiration().IsZero() {
		return nil, fmt.Errorf("%s not found in claims", jwt.ExpirationKey)
	}
	if token.IssuedAt().IsZero() {
		return nil, fmt.Errorf("%s not found in claims", jwt.IssuedAtKey)
	}

	claim, ok := token.Get(userIdClaim)
	if !ok {
		return nil, fmt.Errorf("%s not found in claims", userIdClaim)
	}
	// numbers in private claims are decoded as float64
	userId, ok := claim.(float64)
	if !ok {
		return nil, fmt.Errorf("unexpected type of %s claim: %T", userIdClaim, claim)
	}

	return &refreshTokenClaims{
		UserId:    uint(userId),
		ID:        token.JwtID(),
		ExpiresIn: time.Until(token.Expiration()),
		IssuedAt:  token.IssuedAt().Unix(),
	}, nil
}
