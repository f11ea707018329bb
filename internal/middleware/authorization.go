package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dhis2-sre/campus-events/pkg/model"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/internal/handler"
	"github.com/gin-gonic/gin"
)

func NewAuthorization(logger *slog.Logger, userService userService) AuthorizationMiddleware {
	return AuthorizationMiddleware{
		logger:      logger,
		userService: userService,
	}
}

type AuthorizationMiddleware struct {
	logger      *slog.Logger
	userService userService
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

func (m AuthorizationMiddleware) RequireAdministrator(c *gin.Context) {
	m.requireRole(c, model.RoleAdministrator)
}

// RequireOrganizer lets organizers and administrators through.
func (m AuthorizationMiddleware) RequireOrganizer(c *gin.Context) {
	m.requireRole(c, model.RoleOrganizer, model.RoleAdministrator)
}

// requireRole looks up the current role of the user since the role in the access token might be
// outdated.
func (m AuthorizationMiddleware) requireRole(c *gin.Context, roles ...model.Role) {
	u, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	userWithProfile, err := m.userService.FindById(c.Request.Context(), u.ID)
	if err != nil {
		if errdef.IsNotFound(err) {
			_ = c.AbortWithError(http.StatusUnauthorized, err)
		} else {
			_ = c.Error(err)
			c.Abort()
		}
		return
	}

	if !userWithProfile.HasRole(roles...) {
		m.logger.WarnContext(c.Request.Context(), "User tried to access role restricted endpoint", "user", u.ID, "role", userWithProfile.Role(), "required", roles)
		_ = c.Error(errdef.NewForbidden("access denied, requires role %s", joinRoles(roles)))
		c.Abort()
		return
	}

	// Extra precaution to ensure that no errors has occurred, and it's safe to call c.Next()
	if len(c.Errors.Errors()) > 0 {
		c.Abort()
		return
	}

	setUser(c, userWithProfile)
	c.Next()
}

func joinRoles(roles []model.Role) string {
	s := ""
	for i, role := range roles {
		if i > 0 {
			s += " or "
		}
		s += string(role)
	}
	return s
}
