package handler

import (
	"github.com/dhis2-sre/campus-events/pkg/model"
)

// CanManageEvent returns true if the user is allowed to edit or delete the event and to see and
// track its attendance. Administrators can manage any event, organizers only the ones they organize.
func CanManageEvent(user *model.User, event *model.Event) bool {
	return user.IsAdministrator() || isOrganizerOf(user, event)
}

func isOrganizerOf(user *model.User, event *model.Event) bool {
	return user.IsOrganizer() && event.OrganizerID == user.ID
}
