package identity

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// AuthorizationGate evaluates declared permission requirements against the
// authenticated principal's role. The role is loaded fresh per check, so a
// role edit takes effect on the next request without reissuing tokens.
type AuthorizationGate struct {
	roles  RoleProvider
	logger Logger
}

// NewAuthorizationGate builds the gate over a role-management collaborator.
func NewAuthorizationGate(roles RoleProvider) *AuthorizationGate {
	return &AuthorizationGate{
		roles:  roles,
		logger: defLogger{},
	}
}

// WithLogger overrides the gate logger.
func (g *AuthorizationGate) WithLogger(logger Logger) *AuthorizationGate {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Authorize checks every requirement against the claims. An operation with
// no declared requirements is open to any authenticated principal. A
// principal without a role, a missing role record, and a provider failure
// all deny.
func (g *AuthorizationGate) Authorize(ctx context.Context, claims AuthClaims, requirements ...Requirement) error {
	if len(requirements) == 0 {
		return nil
	}

	if claims == nil {
		return ErrPermissionDenied
	}

	roleID, ok := claims.RoleID()
	if !ok {
		return ErrPermissionDenied
	}

	if g.roles == nil {
		return ErrPermissionDenied
	}

	role, err := g.roles.GetRoleByID(ctx, roleID)
	if err != nil {
		if errors.IsNotFound(err) {
			return ErrPermissionDenied
		}
		g.logger.Error("role lookup error for %s: %v", roleID, err)
		return ErrPermissionDenied
	}

	for _, req := range requirements {
		if !role.Allows(req.Resource, req.Action) {
			return ErrPermissionDenied
		}
	}

	return nil
}

// Middleware gates a route on the given requirements. It must run after the
// AuthenticationGate so claims are present in the request context.
func (g *AuthorizationGate) Middleware(requirements ...Requirement) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			claims, _ := GetClaims(ctx.Context())

			if err := g.Authorize(ctx.Context(), claims, requirements...); err != nil {
				return err
			}

			return ctx.Next()
		}
	}
}
