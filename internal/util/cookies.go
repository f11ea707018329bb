package util

import (
	"net/http"

	"github.com/dhis2-sre/campus-events/pkg/token"
	"github.com/gin-gonic/gin"
)

// SetCookies sets the access and refresh token cookies. The refresh token cookie is only sent to
// the refresh endpoint.
func SetCookies(c *gin.Context, tokens *token.Tokens, sameSiteMode http.SameSite, hostname string, refreshTokenExpirationSeconds int) {
	c.SetSameSite(sameSiteMode)
	c.SetCookie("accessToken", tokens.AccessToken, int(tokens.ExpiresIn), "/", hostname, true, true)
	c.SetCookie("refreshToken", tokens.RefreshToken, refreshTokenExpirationSeconds, "/refresh", hostname, true, true)
}

// ClearCookies expires the access and refresh token cookies.
func ClearCookies(c *gin.Context, sameSiteMode http.SameSite, hostname string) {
	c.SetSameSite(sameSiteMode)
	c.SetCookie("accessToken", "", -1, "/", hostname, true, true)
	c.SetCookie("refreshToken", "", -1, "/refresh", hostname, true, true)
}
