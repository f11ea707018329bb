package user

import (
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/dhis2-sre/campus-events/pkg/token"
)

// swagger:parameters signUp
type _ struct {
	// SignUp request body parameter
	// in: body
	// required: true
	Body signUpRequest
}

// swagger:parameters refreshToken
type _ struct {
	// Refresh token request body parameter. Note that this is optional and the refresh token can also be supplied using a cookie named "refreshToken"
	// in: body
	// required: false
	Body RefreshTokenRequest
}

// swagger:parameters findUserById deleteUser
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:parameters updateProfile
type _ struct {
	// Update profile request
	// in: body
	// required: true
	Body updateProfileRequest
}

// swagger:parameters findAllUsers
type _ struct {
	// Case-insensitive search over full name and student id
	// in: query
	// required: false
	Search string `json:"search"`

	// in: query
	// required: false
	// enum: student,organizer,admin
	Role string `json:"role"`
}

// swagger:parameters updateRole
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`

	// Update role request
	// in: body
	// required: true
	Body updateRoleRequest
}

// swagger:response Tokens
type _ struct {
	//in: body
	_ token.Tokens
}

// swagger:response UsersResponse
type _ struct {
	// Users list response
	//in: body
	_ *[]model.User
}
