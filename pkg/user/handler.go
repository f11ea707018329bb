package user

import (
	"context"
	"net/http"

	"github.com/dhis2-sre/campus-events/internal/util"
	"github.com/dhis2-sre/campus-events/pkg/model"

	"github.com/dhis2-sre/campus-events/internal/errdef"
	"github.com/dhis2-sre/campus-events/internal/handler"

	"github.com/dhis2-sre/campus-events/pkg/config"
	"github.com/dhis2-sre/campus-events/pkg/token"
	"github.com/gin-gonic/gin"
)

func NewHandler(config config.Config, userService userService, tokenService tokenService, eventService eventService) Handler {
	return Handler{
		config,
		userService,
		tokenService,
		eventService,
	}
}

type Handler struct {
	config       config.Config
	userService  userService
	tokenService tokenService
	eventService eventService
}

type userService interface {
	SignUp(ctx context.Context, email string, password string, profile Profile) (*model.User, error)
	FindById(ctx context.Context, id uint) (*model.User, error)
	FindAll(ctx context.Context, search string, role model.Role) ([]*model.User, error)
	UpdateProfile(ctx context.Context, id uint, profile Profile) (*model.User, error)
	UpdateRole(ctx context.Context, id uint, role model.Role) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type eventService interface {
	DeleteOrganizedBy(ctx context.Context, organizerId uint) (int, error)
}

type tokenService interface {
	GetTokens(ctx context.Context, user *model.User, previousTokenId string) (*token.Tokens, error)
	ValidateRefreshToken(ctx context.Context, tokenString string) (*token.RefreshTokenData, error)
	SignOut(ctx context.Context, userId uint) error
}

type signUpRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,gte=8,lte=128"`
	FullName  string `json:"fullName" binding:"lte=128"`
	StudentID string `json:"studentId" binding:"lte=32"`
	Year      string `json:"year" binding:"lte=32"`
	Major     string `json:"major" binding:"lte=128"`
}

// SignUp user
func (h Handler) SignUp(c *gin.Context) {
	// swagger:route POST /users signUp
	//
	// SignUp user
	//
	// Sign up a user. This endpoint is publicly accessible and therefore anyone can sign up. New users are students, only administrators can grant other roles.
	//
	// responses:
	//   201: User
	//   400: Error
	//   409: Error
	//   415: Error
	var request signUpRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), request.Email, request.Password, Profile{
		FullName:  request.FullName,
		StudentID: request.StudentID,
		Year:      request.Year,
		Major:     request.Major,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// SignIn user
func (h Handler) SignIn(c *gin.Context) {
	// swagger:route POST /tokens signIn
	//
	// Sign in
	//
	// Sign in using basic authentication and get tokens. The tokens are also set as cookies.
	//
	// security:
	//   basicAuth:
	//
	// responses:
	//   201: Tokens
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	tokens, err := h.tokenService.GetTokens(c.Request.Context(), user, "")
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetCookies(c, tokens, h.config.SameSiteMode, h.config.Hostname, h.config.Authentication.RefreshTokenExpirationSeconds)
	c.JSON(http.StatusCreated, tokens)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken user
func (h Handler) RefreshToken(c *gin.Context) {
	// swagger:route POST /refresh refreshToken
	//
	// Refresh tokens
	//
	// Refresh user tokens. The refresh token is read from the "refreshToken" cookie or the request body.
	//
	// responses:
	//   201: Tokens
	//   400: Error
	//   401: Error
	//   415: Error
	refreshTokenString, err := c.Cookie("refreshToken")
	if err != nil || refreshTokenString == "" {
		var request RefreshTokenRequest
		if err := handler.DataBinder(c, &request); err != nil {
			_ = c.Error(err)
			return
		}
		refreshTokenString = request.RefreshToken
	}

	ctx := c.Request.Context()
	refreshToken, err := h.tokenService.ValidateRefreshToken(ctx, refreshTokenString)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.FindById(ctx, refreshToken.UserId)
	if err != nil {
		if errdef.IsNotFound(err) {
			_ = c.Error(errdef.NewUnauthorized("user of refresh token not found"))
		} else {
			_ = c.Error(err)
		}
		return
	}

	tokens, err := h.tokenService.GetTokens(ctx, user, refreshToken.ID.String())
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetCookies(c, tokens, h.config.SameSiteMode, h.config.Hostname, h.config.Authentication.RefreshTokenExpirationSeconds)
	c.JSON(http.StatusCreated, tokens)
}

// Me user
func (h Handler) Me(c *gin.Context) {
	// swagger:route GET /me me
	//
	// User details
	//
	// Current user details including the profile
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: User
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	userWithProfile, err := h.userService.FindById(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, userWithProfile)
}

type updateProfileRequest struct {
	FullName  string `json:"fullName" binding:"lte=128"`
	StudentID string `json:"studentId" binding:"lte=32"`
	Year      string `json:"year" binding:"lte=32"`
	Major     string `json:"major" binding:"lte=128"`
}

// UpdateProfile of the current user
func (h Handler) UpdateProfile(c *gin.Context) {
	// swagger:route PUT /me updateProfile
	//
	// Update profile
	//
	// Update the profile of the current user
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: User
	//   400: Error
	//   401: Error
	//   404: Error
	//   415: Error
	var request updateProfileRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user.ID, Profile{
		FullName:  request.FullName,
		StudentID: request.StudentID,
		Year:      request.Year,
		Major:     request.Major,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// SignOut user
func (h Handler) SignOut(c *gin.Context) {
	// swagger:route DELETE /users signOut
	//
	// Sign out
	//
	// Sign out user. Access tokens are JWTs and can't be invalidated, so a user can keep using one until it expires. However, none of the refresh tokens issued to the user can be used anymore and the token cookies are expired.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200:
	//	401: Error
	//	415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.tokenService.SignOut(c.Request.Context(), user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	util.ClearCookies(c, h.config.SameSiteMode, h.config.Hostname)
	c.Status(http.StatusOK)
}

// FindById user
func (h Handler) FindById(c *gin.Context) {
	// swagger:route GET /users/{id} findUserById
	//
	// Find user
	//
	// Find a user by its id
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: User
	//	401: Error
	//	403: Error
	//	404: Error
	//	415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	userWithProfile, err := h.userService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, userWithProfile)
}

type findAllRequest struct {
	Search string     `form:"search"`
	Role   model.Role `form:"role" binding:"omitempty,oneOf=student organizer admin"`
}

// FindAll user
func (h Handler) FindAll(c *gin.Context) {
	// swagger:route GET /admin/users findAllUsers
	//
	// Find users
	//
	// Find users with their profiles, newest first. Optionally filtered by a search term matching the full name or student id and by role.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: UsersResponse
	//	400: Error
	//	401: Error
	//	403: Error
	//	415: Error
	var request findAllRequest
	if err := handler.QueryBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	users, err := h.userService.FindAll(c.Request.Context(), request.Search, request.Role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, users)
}

type updateRoleRequest struct {
	Role model.Role `json:"role" binding:"required,oneOf=student organizer admin"`
}

// UpdateRole of a user
func (h Handler) UpdateRole(c *gin.Context) {
	// swagger:route PUT /admin/users/{id}/role updateRole
	//
	// Update role
	//
	// Change the role of a user. Administrators can't change their own role.
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: User
	//	400: Error
	//	401: Error
	//	403: Error
	//	404: Error
	//	415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request updateRoleRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if user.ID == id {
		_ = c.Error(errdef.NewBadRequest("cannot change the role of the current user"))
		return
	}

	updated, err := h.userService.UpdateRole(c.Request.Context(), id, request.Role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete user
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /admin/users/{id} deleteUser
	//
	// Delete user
	//
	// Delete user by id together with the registrations, favorites and notifications of the user.
	// Events organized by the user are cancelled.
	//
	// Security:
	//	oauth2:
	//
	// Responses:
	//	202:
	//	400: Error
	//	401: Error
	//	403: Error
	//	404: Error
	//	415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if user.ID == id {
		_ = c.Error(errdef.NewBadRequest("cannot delete the current user"))
		return
	}

	ctx := c.Request.Context()
	_, err = h.userService.FindById(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	_, err = h.eventService.DeleteOrganizedBy(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	err = h.userService.Delete(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}
