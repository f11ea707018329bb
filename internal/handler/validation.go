package handler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// oneOf is like the builtin oneof but values are separated by single spaces only and therefore
// can't be quoted.
func oneOf(fl validator.FieldLevel) bool {
	matches := strings.Fields(fl.Param())
	return slices.Contains(matches, fl.Field().String())
}

// RegisterValidation Inspiration: https://blog.logrocket.com/gin-binding-in-go-a-tutorial-with-examples/
func RegisterValidation() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v.RegisterValidation("oneOf", oneOf)
	}
	return fmt.Errorf("error getting validation engine")
}
