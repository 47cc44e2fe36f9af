package identity

import (
	"context"

	"github.com/google/uuid"
)

// Resource is the closed set of things the permission model can gate.
type Resource string

const (
	ResourceUsers      Resource = "users"
	ResourceEvents     Resource = "events"
	ResourceEmotions   Resource = "emotions"
	ResourceQuotes     Resource = "quotes"
	ResourceStudyPlans Resource = "study_plans"
	ResourceSettings   Resource = "settings"
)

// Action is the closed set of operations the permission model can gate.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// IsValid checks the resource against the closed enumeration.
func (r Resource) IsValid() bool {
	switch r {
	case ResourceUsers, ResourceEvents, ResourceEmotions,
		ResourceQuotes, ResourceStudyPlans, ResourceSettings:
		return true
	default:
		return false
	}
}

// IsValid checks the action against the closed enumeration.
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}

// Permission grants a set of actions on one resource.
type Permission struct {
	Resource Resource `json:"resource"`
	Actions  []Action `json:"actions"`
}

// Role is a named bundle of permission grants. Role data is reference data
// owned by the role-management collaborator; this package only reads it.
type Role struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

// Allows reports whether the role grants the action on the resource. A
// resource declared more than once contributes the union of its action sets.
func (r *Role) Allows(resource Resource, action Action) bool {
	if r == nil {
		return false
	}
	for _, perm := range r.Permissions {
		if perm.Resource != resource {
			continue
		}
		for _, a := range perm.Actions {
			if a == action {
				return true
			}
		}
	}
	return false
}

// RoleProvider is the role-management collaborator contract. Absence of a
// role is a NotFound condition.
type RoleProvider interface {
	GetRoleByID(ctx context.Context, id uuid.UUID) (*Role, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
}

// Requirement declares that an operation needs the given action on the given
// resource. Multiple requirements on one operation combine with AND
// semantics: every pair must be satisfied.
type Requirement struct {
	Resource Resource
	Action   Action
}

// Requires builds a Requirement for attaching to an operation at
// registration time.
func Requires(resource Resource, action Action) Requirement {
	return Requirement{Resource: resource, Action: action}
}
