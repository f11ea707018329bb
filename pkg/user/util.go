package user

import (
	"context"
	"fmt"

	"github.com/dhis2-sre/campus-events/pkg/model"
)

type userServiceUtil interface {
	FindOrCreate(ctx context.Context, email, password string, role model.Role) (*model.User, error)
	UpdateRole(ctx context.Context, id uint, role model.Role) (*model.User, error)
}

// CreateAdminUser makes sure a user with the given email exists and has the admin role.
func CreateAdminUser(ctx context.Context, email, password string, userService userServiceUtil) error {
	u, err := userService.FindOrCreate(ctx, email, password, model.RoleAdministrator)
	if err != nil {
		return fmt.Errorf("error creating admin user: %v", err)
	}

	if u.IsAdministrator() {
		return nil
	}

	_, err = userService.UpdateRole(ctx, u.ID, model.RoleAdministrator)
	if err != nil {
		return fmt.Errorf("error granting admin role: %v", err)
	}

	return nil
}
