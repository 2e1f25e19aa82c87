// Package placement holds the business rules of the placement portal:
// job eligibility, the application lifecycle and audited profile edits.
// Every permission decision goes through Can.
package placement

import (
	"placement-portal-backend/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	ID   uuid.UUID
	Role string
	// IP is recorded on audit entries, it plays no part in permission checks
	IP string
}

// ActorFromUser builds an Actor from a loaded user
func ActorFromUser(u model.User, ip string) Actor {
	return Actor{ID: u.ID, Role: u.Role, IP: ip}
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// Action names an operation guarded by Can
type Action string

// Guarded actions
const (
	ActionApplyJob                Action = "application:create"
	ActionUpdateApplicationStatus Action = "application:update_status"
	ActionViewJobApplications     Action = "application:list_by_job"
	ActionCreateJob               Action = "job:create"
	ActionManageJob               Action = "job:manage"
	ActionViewProfile             Action = "profile:view"
	ActionUpdateProfile           Action = "profile:update"
	ActionSubmitFeedback          Action = "feedback:create"
	ActionEditPost                Action = "community:edit"
	ActionDeletePost              Action = "community:delete"
)

// Resource is the thing an action is applied to. OwnerID is the user that owns it:
// the recruiter for jobs and their applications, the profile's user for profiles,
// the author for community content. It is zero for actions that create resources.
type Resource struct {
	OwnerID uuid.UUID
}

// Can decides whether actor may perform action on resource
func Can(actor Actor, action Action, resource Resource) bool {
	if actor.ID == uuid.Nil {
		return false
	}
	owns := resource.OwnerID != uuid.Nil && resource.OwnerID == actor.ID

	switch action {
	case ActionApplyJob, ActionSubmitFeedback:
		return actor.Role == model.RoleStudent
	case ActionCreateJob:
		return actor.Role == model.RoleRecruiter
	case ActionUpdateApplicationStatus, ActionViewJobApplications, ActionManageJob:
		return actor.IsAdmin() || (actor.Role == model.RoleRecruiter && owns)
	case ActionViewProfile, ActionUpdateProfile, ActionDeletePost:
		return actor.IsAdmin() || owns
	case ActionEditPost:
		return owns
	default:
		return false
	}
}
