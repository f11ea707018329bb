package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/dhis2-sre/campus-events/internal/errdef"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/gin-gonic/gin"
)

func NewAuthentication(logger *slog.Logger, publicKey *rsa.PublicKey, signInService signInService) AuthenticationMiddleware {
	return AuthenticationMiddleware{
		logger:        logger,
		publicKey:     publicKey,
		signInService: signInService,
	}
}

type signInService interface {
	SignIn(ctx context.Context, email string, password string) (*model.User, error)
}

type AuthenticationMiddleware struct {
	logger        *slog.Logger
	publicKey     *rsa.PublicKey
	signInService signInService
}

// BasicAuthentication Inspiration: https://www.pandurang-waghulde.com/custom-http-basic-authentication-using-gin/
func (m AuthenticationMiddleware) BasicAuthentication(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		m.handleError(c, errors.New("invalid Authorization header format"))
		return
	}

	u, err := m.signInService.SignIn(c.Request.Context(), username, password)
	if err != nil {
		m.handleError(c, err)
		return
	}

	setUser(c, u)
	c.Next()
}

func (m AuthenticationMiddleware) handleError(c *gin.Context, e error) {
	_ = c.AbortWithError(http.StatusUnauthorized, e)
}

func (m AuthenticationMiddleware) TokenAuthentication(c *gin.Context) {
	user, err := parseRequest(c.Request, m.publicKey)
	if err != nil {
		m.logger.InfoContext(c.Request.Context(), "Token not valid", "error", err)
		_ = c.Error(errdef.NewUnauthorized("token not valid"))
		c.Abort()
		return
	}

	// Extra precaution to ensure that no errors has occurred, and it's safe to call c.Next()
	if len(c.Errors.Errors()) > 0 {
		c.Abort()
		return
	}

	setUser(c, user)
	c.Next()
}

// setUser makes the user available to handlers via the Gin context and to loggers via the request
// context.
func setUser(c *gin.Context, user *model.User) {
	c.Set("user", user)
	c.Request = c.Request.WithContext(model.NewContextWithUser(c.Request.Context(), user))
}

func parseRequest(request *http.Request, key *rsa.PublicKey) (*model.User, error) {
	token, err := jwt.ParseRequest(
		request,
		jwt.WithKey(jwa.RS256, key),
		jwt.WithHeaderKey("Authorization"),
		jwt.WithCookieKey("accessToken"),
	)
	if err != nil {
		return nil, err
	}

	return extractUser(token)
}

func extractUser(token jwt.Token) (*model.User, error) {
	userData, ok := token.Get("user")
	if !ok {
		return nil, errors.New("user not found in claims")
	}

	bytes, err := json.Marshal(userData)
	if err != nil {
		return nil, err
	}

	user := &model.User{}
	err = json.Unmarshal(bytes, user)
	return user, err
}
